package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSummary is one card in the product grid.
type ProductSummary struct {
	ID                 int64            `json:"id"`
	Name               string           `json:"name"`
	ImageURL           *string          `json:"image_url"`
	HoverImageURL      *string          `json:"hover_image_url"`
	Price              *decimal.Decimal `json:"price"`
	SalePrice          *decimal.Decimal `json:"sale_price"`
	DiscountPercentage *int             `json:"discount_percentage"`
	CreatedAt          time.Time        `json:"created_at"`
	AverageRating      *float64         `json:"average_rating"`
	ReviewCount        int              `json:"review_count"`
}

type Page struct {
	Products   []ProductSummary `json:"products"`
	TotalCount int              `json:"total_count"`
}

// FilterOption is one selectable value with the number of published products
// carrying it.
type FilterOption struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ProductCount int    `json:"product_count"`
}

type FilterOptions struct {
	Genders    []FilterOption `json:"genders"`
	Brands     []FilterOption `json:"brands"`
	Categories []FilterOption `json:"categories"`
	Colors     []FilterOption `json:"colors"`
	Sizes      []FilterOption `json:"sizes"`
}
