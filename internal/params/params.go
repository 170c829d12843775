package params

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// URL: /store/products?page=2&limit=24
// → ParsePagination() → Pagination{Limit:24, Page:2, Offset:24}
// → SQL: ... LIMIT 24 OFFSET 24
// → ComputeMeta(total) fills TotalPages, HasNext, HasPrev.
type Pagination struct {
	Limit      int  `json:"limit"`  // items per page
	Offset     int  `json:"offset"` // SQL OFFSET value
	Page       int  `json:"page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Bounds controls the default and maximum page size.
type Bounds struct {
	DefaultLimit int
	MaxLimit     int
}

var (
	// AdminBounds is used by back-office listings.
	AdminBounds = Bounds{DefaultLimit: 15, MaxLimit: 30}
	// CatalogBounds is used by the storefront product grid.
	CatalogBounds = Bounds{DefaultLimit: 24, MaxLimit: 60}
)

// ParsePagination parses ?limit=...&page=... with admin bounds. Keys are case sensitive.
func ParsePagination(q url.Values) Pagination {
	return ParsePaginationWithBounds(q, AdminBounds)
}

// ParsePaginationWithBounds parses ?limit=...&page=... and never fails:
// unparsable or out-of-range values are clamped.
func ParsePaginationWithBounds(q url.Values, b Bounds) Pagination {
	page, limit := 0, 0
	if pageStr := strings.TrimSpace(q.Get("page")); pageStr != "" {
		if v, err := strconv.Atoi(pageStr); err == nil {
			page = v
		}
	}
	if limitStr := strings.TrimSpace(q.Get("limit")); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil {
			limit = v
		}
	}
	return New(page, limit, b)
}

// New clamps page and limit into bounds and computes the offset.
func New(page, limit int, b Bounds) Pagination {
	p := Pagination{Page: page, Limit: limit}

	switch {
	case p.Limit <= 0:
		p.Limit = b.DefaultLimit
	case p.Limit > b.MaxLimit:
		p.Limit = b.MaxLimit
	}
	if p.Page < 1 {
		p.Page = 1
	}
	// OFFSET stays within int32; larger pages read as the last reachable one.
	if p.Limit > 0 {
		if maxPage := math.MaxInt32/p.Limit + 1; p.Page > maxPage {
			p.Page = maxPage
		}
	}

	p.Offset = (p.Page - 1) * p.Limit
	return p
}

// ComputeMeta updates pagination after fetching total count.
func (p *Pagination) ComputeMeta(total int) {
	p.Total = total
	if p.Limit > 0 {
		p.TotalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	p.HasPrev = p.Page > 1
	p.HasNext = (p.Page * p.Limit) < total
}
