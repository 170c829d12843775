package variants

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Color struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Slug    string  `json:"slug"`
	HexCode *string `json:"hex_code,omitempty"`
}

type Size struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	SortOrder *int   `json:"sort_order,omitempty"`
}

// Variant is one sellable combination of a product with an optional color
// and/or size. Any of the four shapes (none, color only, size only, both) is valid.
type Variant struct {
	ID            int64            `json:"id"`
	ProductID     int64            `json:"product_id"`
	SKU           string           `json:"sku"`
	Price         decimal.Decimal  `json:"price"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	Color         *Color           `json:"color,omitempty"`
	Size          *Size            `json:"size,omitempty"`
	StockQuantity int              `json:"stock_quantity"`
	Weight        *decimal.Decimal `json:"weight,omitempty"`
	Dimensions    map[string]any   `json:"dimensions,omitempty"`
}

func (v Variant) InStock() bool { return v.StockQuantity > 0 }

// MarshalJSON adds the derived in_stock flag.
func (v Variant) MarshalJSON() ([]byte, error) {
	type alias Variant
	return json.Marshal(struct {
		alias
		InStock bool `json:"in_stock"`
	}{alias(v), v.InStock()})
}

// EffectivePrice is the sale price when present, else the regular price.
func (v Variant) EffectivePrice() decimal.Decimal {
	return EffectivePrice(v.Price, v.SalePrice)
}

func (v Variant) hasColor() bool { return v.Color != nil }
func (v Variant) hasSize() bool  { return v.Size != nil }

// Gallery is the image set shown for one color of a product.
type Gallery struct {
	ColorName string   `json:"color_name"`
	Images    []string `json:"images"`
}

// Axis names a selection dimension.
type Axis string

const (
	AxisColor Axis = "color"
	AxisSize  Axis = "size"
)

// Selection is a read-only snapshot of a Selector.
type Selection struct {
	ColorID         *int64   `json:"color_id"`
	SizeID          *int64   `json:"size_id"`
	Variant         *Variant `json:"variant"`
	AvailableColors []Color  `json:"available_colors"`
	AvailableSizes  []Size   `json:"available_sizes"`
	GalleryIndex    int      `json:"gallery_index"`
	Missing         []Axis   `json:"missing,omitempty"`
}
