package orders

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrNoActiveCart      = errors.New("no active cart")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnpricedLine      = errors.New("cart line has no price")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrUnknownStatus     = errors.New("unknown order status")
)

type Order struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"order_number"`
	CartID          *int64          `json:"cart_id,omitempty"`
	Status          Status          `json:"status"`
	Email           string          `json:"email"`
	ShippingName    string          `json:"shipping_name"`
	ShippingPhone   string          `json:"shipping_phone"`
	ShippingAddress string          `json:"shipping_address"`
	ShippingCity    string          `json:"shipping_city"`
	PostalCode      *string         `json:"shipping_postal_code,omitempty"`
	Country         *string         `json:"shipping_country,omitempty"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	CancelledReason *string         `json:"cancelled_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type ShippingInfo struct {
	Email      string
	Name       string
	Phone      string
	Address    string
	City       string
	PostalCode *string
	Country    *string
}

// Items from order_items table. Names and prices are copied at checkout so
// later catalog edits never change a placed order.
type OrderItem struct {
	ID            int64           `json:"id"`
	OrderID       int64           `json:"order_id"`
	ProductID     *int64          `json:"product_id,omitempty"`
	VariantID     *int64          `json:"variant_id,omitempty"`
	ProductName   string          `json:"product_name"`
	SKU           *string         `json:"sku,omitempty"`
	ColorName     *string         `json:"color_name,omitempty"`
	SizeName      *string         `json:"size_name,omitempty"`
	Quantity      int             `json:"quantity"`
	ListUnitPrice decimal.Decimal `json:"list_unit_price"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// Detailed view: order + items
type OrderDetail struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}

type UpdateStatusOpts struct {
	CancelledReason *string
}

// BulkResult splits the requested ids into those moved to the new status
// and those left alone (missing or not allowed to transition).
type BulkResult struct {
	Updated []int64 `json:"updated"`
	Skipped []int64 `json:"skipped"`
}

type Store interface {
	// Checkout
	CreateFromCart(ctx context.Context, token string, ship ShippingInfo) (*Order, error)

	// Basic
	GetByID(ctx context.Context, id int64) (*Order, error)

	// ADMIN-facing
	ListAll(ctx context.Context, status Status, limit, offset int) ([]Order, int, error)
	GetDetail(ctx context.Context, orderID int64) (*OrderDetail, error)
	UpdateStatus(ctx context.Context, orderID int64, to Status, opts UpdateStatusOpts) error
	BulkUpdateStatus(ctx context.Context, orderIDs []int64, to Status, opts UpdateStatusOpts) (*BulkResult, error)
}
