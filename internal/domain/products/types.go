package products

import (
	"time"

	"github.com/SameerRifat/e-commerce-sub001/internal/domain/variants"
	"github.com/shopspring/decimal"
)

type ProductType string

const (
	TypeSimple       ProductType = "simple"
	TypeConfigurable ProductType = "configurable"
)

// Product carries its own price/SKU/stock only when it is simple; a
// configurable product prices through its variants.
type Product struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	Description   *string          `json:"description,omitempty"`
	ProductType   ProductType      `json:"product_type"`
	GenderID      *int64           `json:"gender_id,omitempty"`
	BrandID       *int64           `json:"brand_id,omitempty"`
	BrandName     *string          `json:"brand_name,omitempty"`
	CategoryID    *int64           `json:"category_id,omitempty"`
	CategoryName  *string          `json:"category_name,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	SKU           *string          `json:"sku,omitempty"`
	StockQuantity *int             `json:"stock_quantity,omitempty"`
	IsPublished   bool             `json:"is_published"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (p *Product) IsSimple() bool { return p.ProductType == TypeSimple }

type Image struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	VariantID *int64 `json:"variant_id,omitempty"`
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

type Review struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	UserID    int64     `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewSummary struct {
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int      `json:"review_count"`
}

// ProductDetail is everything a product page needs in one payload.
type ProductDetail struct {
	Product   *Product           `json:"product"`
	Variants  []variants.Variant `json:"variants"`
	Images    []Image            `json:"images"`
	Galleries []variants.Gallery `json:"galleries"`
	Reviews   ReviewSummary      `json:"reviews"`
}
