package orders

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusShipped, StatusDelivered, true},

		{StatusPending, StatusShipped, false},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusProcessing, false},
		{StatusCancelled, StatusPending, false},
		{StatusProcessing, StatusPending, false},
		{StatusPending, StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestPredecessors(t *testing.T) {
	assert.ElementsMatch(t, []string{"pending", "processing"}, predecessors(StatusCancelled))
	assert.Equal(t, []string{"shipped"}, predecessors(StatusDelivered))
	assert.Empty(t, predecessors(StatusPending))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" Shipped ")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, s)

	_, err = ParseStatus("lost")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intp(i int) *int { return &i }

func TestPriceLines(t *testing.T) {
	variantID := int64(30)
	lines := []checkoutLine{
		{ProductID: 1, VariantID: &variantID, ProductName: "Hoodie", Quantity: 2, Price: dec("100.00"), SalePrice: dec("75.00"), Stock: intp(5)},
		{ProductID: 2, ProductName: "Mug", Quantity: 1, Price: dec("12.50"), Stock: intp(1)},
	}

	pc, err := priceLines(lines)
	require.NoError(t, err)

	assert.Equal(t, "212.50", pc.Subtotal.StringFixed(2))
	assert.Equal(t, "162.50", pc.Total.StringFixed(2))
	assert.Equal(t, "50.00", pc.Discount.StringFixed(2))

	require.Len(t, pc.Items, 2)
	assert.Equal(t, "75.00", pc.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "100.00", pc.Items[0].ListUnitPrice.StringFixed(2))
	assert.Equal(t, "150.00", pc.Items[0].TotalPrice.StringFixed(2))
	assert.Equal(t, variantID, *pc.Items[0].VariantID)
	assert.Nil(t, pc.Items[1].VariantID)
}

func TestPriceLines_Errors(t *testing.T) {
	_, err := priceLines(nil)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = priceLines([]checkoutLine{{ProductName: "Tee", Quantity: 1}})
	assert.ErrorIs(t, err, ErrUnpricedLine)

	_, err = priceLines([]checkoutLine{{ProductName: "Tee", Quantity: 3, Price: dec("10"), Stock: intp(2)}})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// an unpublished product blocks checkout even when it still has a price and stock
	_, err = priceLines([]checkoutLine{
		{ProductName: "Cap", Quantity: 1, Price: dec("5")},
		{ProductName: "Tee", Quantity: 1, Price: dec("10"), Stock: intp(4), Unpublished: true},
	})
	assert.ErrorIs(t, err, ErrUnpricedLine)
	assert.ErrorContains(t, err, "Tee")
}

func TestPartition(t *testing.T) {
	done, skipped := partition([]int64{4, 1, 9, 4, 7}, []int64{7, 4})
	assert.Equal(t, []int64{4, 7}, done)
	assert.Equal(t, []int64{1, 9}, skipped)
}

func TestOrderNumberGenerator(t *testing.T) {
	gen := NewOrderNumberGenerator("secret")
	format := regexp.MustCompile(`^SHOP-[A-Z2-7]{4}-[0-9A-F]{4}$`)

	a := gen.Generate(42)
	b := gen.Generate(42)

	assert.Regexp(t, format, a)
	assert.Regexp(t, format, b)
	assert.NotEqual(t, a, b)
}

func TestNewRepository_RequiresGenerator(t *testing.T) {
	assert.Panics(t, func() { NewRepository(nil, nil) })
}
