package catalog

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/SameerRifat/e-commerce-sub001/internal/params"
	"github.com/shopspring/decimal"
)

type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
)

// PriceRange is a discrete price bucket; either bound may be open.
type PriceRange struct {
	Min *decimal.Decimal `json:"min,omitempty"`
	Max *decimal.Decimal `json:"max,omitempty"`
}

func (r PriceRange) empty() bool { return r.Min == nil && r.Max == nil }

// Filters is the normalized catalog query. Slug lists that are empty place
// no constraint on their dimension.
type Filters struct {
	Search        string           `json:"search,omitempty"`
	GenderSlugs   []string         `json:"gender,omitempty"`
	BrandSlugs    []string         `json:"brand,omitempty"`
	CategorySlugs []string         `json:"category,omitempty"`
	SizeSlugs     []string         `json:"size,omitempty"`
	ColorSlugs    []string         `json:"color,omitempty"`
	PriceMin      *decimal.Decimal `json:"price_min,omitempty"`
	PriceMax      *decimal.Decimal `json:"price_max,omitempty"`
	PriceRanges   []PriceRange     `json:"price_ranges,omitempty"`
	Sort          SortKey          `json:"sort"`
	Page          int              `json:"page"`
	Limit         int              `json:"limit"`
}

// Normalize clamps paging, cleans slug lists and drops empty price buckets.
// It never fails: malformed client input is coerced, not rejected.
func (f Filters) Normalize() Filters {
	out := f
	out.Search = strings.TrimSpace(f.Search)
	out.GenderSlugs = cleanSlugs(f.GenderSlugs)
	out.BrandSlugs = cleanSlugs(f.BrandSlugs)
	out.CategorySlugs = cleanSlugs(f.CategorySlugs)
	out.SizeSlugs = cleanSlugs(f.SizeSlugs)
	out.ColorSlugs = cleanSlugs(f.ColorSlugs)

	out.PriceRanges = nil
	for _, r := range f.PriceRanges {
		if !r.empty() {
			out.PriceRanges = append(out.PriceRanges, r)
		}
	}

	switch f.Sort {
	case SortPriceAsc, SortPriceDesc:
	default:
		out.Sort = SortNewest
	}

	p := params.New(f.Page, f.Limit, params.CatalogBounds)
	out.Page, out.Limit = p.Page, p.Limit
	return out
}

func (f Filters) Offset() int { return (f.Page - 1) * f.Limit }

func (f Filters) hasPriceFilter() bool {
	return f.PriceMin != nil || f.PriceMax != nil || len(f.PriceRanges) > 0
}

// HasVariantFilters reports whether the query must be restricted to matching
// variant rows, which excludes products without variants.
func (f Filters) HasVariantFilters() bool {
	return len(f.SizeSlugs) > 0 || len(f.ColorSlugs) > 0 || f.hasPriceFilter()
}

// ParseFilters reads catalog filters from a query string. List parameters
// accept repeated keys and comma separated values.
//
//	/store/products?brand=nike,adidas&size=m&priceRanges=0-50,100-&sort=price_asc&page=2
func ParseFilters(q url.Values) Filters {
	f := Filters{
		Search:        q.Get("search"),
		GenderSlugs:   splitList(q["gender"]),
		BrandSlugs:    splitList(q["brand"]),
		CategorySlugs: splitList(q["category"]),
		SizeSlugs:     splitList(q["size"]),
		ColorSlugs:    splitList(q["color"]),
		PriceMin:      parseDecimal(q.Get("priceMin")),
		PriceMax:      parseDecimal(q.Get("priceMax")),
		Sort:          SortKey(strings.TrimSpace(q.Get("sort"))),
	}

	for _, bucket := range splitList(q["priceRanges"]) {
		lo, hi, ok := strings.Cut(bucket, "-")
		if !ok {
			continue
		}
		f.PriceRanges = append(f.PriceRanges, PriceRange{Min: parseDecimal(lo), Max: parseDecimal(hi)})
	}

	if v, err := strconv.Atoi(strings.TrimSpace(q.Get("page"))); err == nil {
		f.Page = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(q.Get("limit"))); err == nil {
		f.Limit = v
	}

	return f.Normalize()
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}

func cleanSlugs(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

func parseDecimal(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}
