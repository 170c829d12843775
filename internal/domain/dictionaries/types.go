package dictionaries

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind names one of the lookup tables products are classified by.
type Kind string

const (
	KindGender   Kind = "gender"
	KindBrand    Kind = "brand"
	KindCategory Kind = "category"
	KindColor    Kind = "color"
	KindSize     Kind = "size"
)

type kindSpec struct {
	table   string
	orderBy string
}

var kinds = map[Kind]kindSpec{
	KindGender:   {table: "genders", orderBy: "name ASC"},
	KindBrand:    {table: "brands", orderBy: "name ASC"},
	KindCategory: {table: "categories", orderBy: "name ASC"},
	KindColor:    {table: "colors", orderBy: "name ASC"},
	KindSize:     {table: "sizes", orderBy: "sort_order ASC NULLS LAST, name ASC"},
}

var plurals = map[string]Kind{
	"genders":    KindGender,
	"brands":     KindBrand,
	"categories": KindCategory,
	"colors":     KindColor,
	"sizes":      KindSize,
}

// ParseKind accepts the singular or plural form, case-insensitively.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if k, ok := plurals[name]; ok {
		return k, nil
	}
	if _, ok := kinds[Kind(name)]; ok {
		return Kind(name), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Entry is one dictionary row. The optional fields apply to a single kind
// each: LogoURL to brands, ParentID to categories, HexCode to colors and
// SortOrder to sizes.
type Entry struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	LogoURL   *string `json:"logo_url,omitempty"`
	ParentID  *int64  `json:"parent_id,omitempty"`
	HexCode   *string `json:"hex_code,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

type CreateEntryRequest struct {
	Name      string  `json:"name" validate:"required,min=1,max=100"`
	Slug      string  `json:"slug" validate:"omitempty,max=100,slug"`
	LogoURL   *string `json:"logo_url" validate:"omitempty,url"`
	ParentID  *int64  `json:"parent_id" validate:"omitempty,gt=0"`
	HexCode   *string `json:"hex_code" validate:"omitempty,hexcolor"`
	SortOrder *int    `json:"sort_order" validate:"omitempty,gte=0"`
}

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
	edgeHyphens  = regexp.MustCompile(`^-|-$`)
	validSlug    = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// GenerateSlug lowercases name and collapses every run of other characters
// into a single hyphen.
func GenerateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	return edgeHyphens.ReplaceAllString(slug, "")
}

func IsValidSlug(slug string) bool {
	return validSlug.MatchString(slug)
}
