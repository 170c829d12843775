package variants

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

func EffectivePrice(price decimal.Decimal, sale *decimal.Decimal) decimal.Decimal {
	if sale != nil {
		return *sale
	}
	return price
}

// DiscountPercentage returns round((1 - sale/price) * 100), or nil when there
// is no sale price or the price is not positive.
func DiscountPercentage(price decimal.Decimal, sale *decimal.Decimal) *int {
	if sale == nil || !price.IsPositive() {
		return nil
	}
	pct := decimal.NewFromInt(1).Sub(sale.Div(price)).Mul(hundred).Round(0)
	v := int(pct.IntPart())
	return &v
}
