package carts

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusActive    = "active"
	StatusConverted = "converted"
	StatusAbandoned = "abandoned"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

type Cart struct {
	ID         int64      `json:"id"`
	GuestToken string     `json:"guest_token"`
	Status     string     `json:"status"` // active, converted, abandoned
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Line is what gets added to a cart. VariantID is nil for simple products.
type Line struct {
	ProductID int64
	VariantID *int64
	Quantity  int
	UnitPrice decimal.Decimal
}

type CartView struct {
	Cart  Cart            `json:"cart"`
	Items []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type CartLine struct {
	ItemID      int64           `json:"item_id"`
	ProductID   int64           `json:"product_id"`
	VariantID   *int64          `json:"variant_id,omitempty"`
	ProductName string          `json:"product_name"`
	SKU         *string         `json:"sku,omitempty"`
	ColorName   *string         `json:"color_name,omitempty"`
	SizeName    *string         `json:"size_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	ImageURL    *string         `json:"image_url,omitempty"`
}

type Store interface {
	EnsureCart(ctx context.Context, token string) (*Cart, error)
	AddItem(ctx context.Context, token string, line Line) error
	UpdateItemQty(ctx context.Context, token string, itemID int64, qty int) error
	RemoveItem(ctx context.Context, token string, itemID int64) error
	Clear(ctx context.Context, token string) error
	GetView(ctx context.Context, token string) (*CartView, error)

	// housekeeping
	MarkExpiredAsAbandoned(ctx context.Context) (int64, error)
}
