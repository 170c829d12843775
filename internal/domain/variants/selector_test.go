package variants

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(v int64) *int64 { return &v }
func order(v int) *int  { return &v }

var (
	red   = &Color{ID: 1, Name: "Red", Slug: "red"}
	blue  = &Color{ID: 2, Name: "Blue", Slug: "blue"}
	small = &Size{ID: 10, Name: "S", Slug: "s", SortOrder: order(1)}
	large = &Size{ID: 11, Name: "L", Slug: "l", SortOrder: order(3)}
	med   = &Size{ID: 12, Name: "M", Slug: "m", SortOrder: order(2)}
)

func variant(vid int64, c *Color, s *Size) Variant {
	return Variant{ID: vid, SKU: "SKU", Price: decimal.NewFromInt(100), Color: c, Size: s, StockQuantity: 3}
}

func TestSelector_WildcardVariantMatchesAnySelection(t *testing.T) {
	wild := variant(1, nil, nil)
	s := NewSelector([]Variant{wild})

	require.NotNil(t, s.SelectedVariant())
	assert.Equal(t, int64(1), s.SelectedVariant().ID)

	s.SetSelectedColor(id(99))
	s.SetSelectedSize(id(42))
	require.NotNil(t, s.SelectedVariant())
	assert.Equal(t, int64(1), s.SelectedVariant().ID)

	s.SetSelectedColor(nil)
	s.SetSelectedSize(nil)
	require.NotNil(t, s.SelectedVariant())
	assert.Equal(t, int64(1), s.SelectedVariant().ID)
}

func TestSelector_AutoRepairOnColorChange(t *testing.T) {
	vs := []Variant{variant(1, red, small), variant(2, blue, large)}
	s := NewSelector(vs)

	assert.Equal(t, red.ID, *s.SelectedColorID())
	assert.Equal(t, small.ID, *s.SelectedSizeID())

	s.SetSelectedColor(id(blue.ID))

	assert.Equal(t, blue.ID, *s.SelectedColorID())
	assert.Equal(t, large.ID, *s.SelectedSizeID())
	require.NotNil(t, s.SelectedVariant())
	assert.Equal(t, int64(2), s.SelectedVariant().ID)
}

func TestSelector_AutoRepairOnSizeChange(t *testing.T) {
	vs := []Variant{variant(1, red, small), variant(2, blue, large)}
	s := NewSelector(vs)

	s.SetSelectedSize(id(large.ID))

	assert.Equal(t, blue.ID, *s.SelectedColorID())
	assert.Equal(t, large.ID, *s.SelectedSizeID())
	assert.Equal(t, int64(2), s.SelectedVariant().ID)
}

func TestSelector_CompatibleChangeKeepsOtherAxis(t *testing.T) {
	vs := []Variant{
		variant(1, red, small),
		variant(2, blue, small),
		variant(3, blue, large),
	}
	s := NewSelector(vs)

	s.SetSelectedColor(id(blue.ID))

	assert.Equal(t, small.ID, *s.SelectedSizeID())
	assert.Equal(t, int64(2), s.SelectedVariant().ID)
}

func TestSelector_RepairClearsWhenNoSizeForColor(t *testing.T) {
	vs := []Variant{variant(1, red, small), variant(2, blue, nil)}
	s := NewSelector(vs)

	s.SetSelectedColor(id(blue.ID))

	// the color-only variant matches blue with any size, so the pair stays compatible
	assert.Equal(t, small.ID, *s.SelectedSizeID())
	assert.Equal(t, int64(2), s.SelectedVariant().ID)

	s = NewSelector([]Variant{variant(1, red, small), variant(2, blue, large)})
	s.SetSelectedColor(id(77))
	assert.Nil(t, s.SelectedSizeID())
	assert.Nil(t, s.SelectedVariant())
}

func TestSelector_ClearingIsRepairFree(t *testing.T) {
	vs := []Variant{variant(1, red, small), variant(2, blue, large)}
	s := NewSelector(vs)

	s.SetSelectedColor(nil)
	assert.Nil(t, s.SelectedColorID())
	require.NotNil(t, s.SelectedSizeID())
	assert.Equal(t, small.ID, *s.SelectedSizeID())
	assert.Nil(t, s.SelectedVariant())

	s.SetSelectedSize(nil)
	assert.Nil(t, s.SelectedSizeID())
	assert.Nil(t, s.SelectedColorID())
}

func TestSelector_NoRepairWithoutOtherAxis(t *testing.T) {
	vs := []Variant{variant(1, red, small), variant(2, blue, large)}
	s := NewSelector(vs)
	s.SetSelectedSize(nil)

	s.SetSelectedColor(id(blue.ID))
	assert.Nil(t, s.SelectedSizeID())
	assert.Nil(t, s.SelectedVariant())
	assert.Equal(t, []Axis{AxisSize}, s.MissingAxes())
}

func TestSelector_SingleAxisShapes(t *testing.T) {
	t.Run("color only", func(t *testing.T) {
		s := NewSelector([]Variant{variant(1, red, nil), variant(2, blue, nil)})
		assert.Nil(t, s.SelectedSizeID())
		assert.Equal(t, int64(1), s.SelectedVariant().ID)

		s.SetSelectedColor(id(blue.ID))
		assert.Equal(t, int64(2), s.SelectedVariant().ID)

		s.SetSelectedColor(nil)
		assert.Nil(t, s.SelectedVariant())
	})

	t.Run("size only", func(t *testing.T) {
		s := NewSelector([]Variant{variant(1, nil, small), variant(2, nil, large)})
		assert.Nil(t, s.SelectedColorID())
		assert.Equal(t, int64(1), s.SelectedVariant().ID)

		s.SetSelectedSize(id(large.ID))
		assert.Equal(t, int64(2), s.SelectedVariant().ID)
	})

	t.Run("both required", func(t *testing.T) {
		s := NewSelector([]Variant{variant(1, red, small)})
		s.SetSelectedSize(nil)
		assert.Nil(t, s.SelectedVariant())
	})
}

func TestSelector_Defaults(t *testing.T) {
	vs := []Variant{variant(1, red, small), variant(2, blue, large)}
	s := NewSelector(vs, WithDefaultColor(blue.ID), WithDefaultSize(large.ID))

	assert.Equal(t, blue.ID, *s.SelectedColorID())
	assert.Equal(t, large.ID, *s.SelectedSizeID())
	assert.Equal(t, int64(2), s.SelectedVariant().ID)

	empty := NewSelector(nil)
	assert.Nil(t, empty.SelectedColorID())
	assert.Nil(t, empty.SelectedSizeID())
	assert.Nil(t, empty.SelectedVariant())
	assert.Empty(t, empty.AvailableColors())
}

func TestSelector_AvailableSets(t *testing.T) {
	vs := []Variant{
		variant(1, blue, large),
		variant(2, red, small),
		variant(3, blue, med),
		variant(4, red, large),
		variant(5, nil, &Size{ID: 13, Name: "XS"}),
	}
	s := NewSelector(vs)

	colors := s.AvailableColors()
	require.Len(t, colors, 2)
	assert.Equal(t, blue.ID, colors[0].ID)
	assert.Equal(t, red.ID, colors[1].ID)

	var sizeIDs []int64
	for _, sz := range s.AvailableSizes() {
		sizeIDs = append(sizeIDs, sz.ID)
	}
	assert.Equal(t, []int64{13, small.ID, med.ID, large.ID}, sizeIDs)
}

func TestSelector_GalleryIndexNotifiesOnlyOnChange(t *testing.T) {
	vs := []Variant{
		variant(1, red, small),
		variant(2, red, large),
		variant(3, blue, small),
	}
	galleries := []Gallery{{ColorName: "Red"}, {ColorName: "Blue"}}

	var calls []int
	s := NewSelector(vs,
		WithGalleries(galleries),
		WithGalleryListener(func(i int) { calls = append(calls, i) }),
	)
	assert.Equal(t, 0, s.GalleryIndex())

	s.SetSelectedSize(id(large.ID)) // still red
	assert.Empty(t, calls)

	s.SetSelectedColor(id(blue.ID))
	assert.Equal(t, 1, s.GalleryIndex())
	assert.Equal(t, []int{1}, calls)

	s.SetSelectedColor(id(blue.ID))
	assert.Equal(t, []int{1}, calls)

	s.SetSelectedColor(nil)
	assert.Equal(t, 0, s.GalleryIndex())
	assert.Equal(t, []int{1, 0}, calls)
}

func TestSelector_GalleryIndexExactNameMatch(t *testing.T) {
	vs := []Variant{variant(1, &Color{ID: 5, Name: "Navy"}, nil)}
	s := NewSelector(vs, WithGalleries([]Gallery{{ColorName: "navy"}, {ColorName: "Navy"}}))
	assert.Equal(t, 1, s.GalleryIndex())
}

func TestSelector_SnapshotIsDetached(t *testing.T) {
	s := NewSelector([]Variant{variant(1, red, small)})
	snap := s.Snapshot()

	*snap.ColorID = 500
	snap.AvailableColors[0].Name = "changed"

	assert.Equal(t, red.ID, *s.SelectedColorID())
	assert.Equal(t, "Red", s.AvailableColors()[0].Name)
	assert.Empty(t, snap.Missing)
}

func TestDiscountPercentage(t *testing.T) {
	sale := decimal.RequireFromString("75.00")
	pct := DiscountPercentage(decimal.RequireFromString("100.00"), &sale)
	require.NotNil(t, pct)
	assert.Equal(t, 25, *pct)

	odd := decimal.RequireFromString("66.50")
	pct = DiscountPercentage(decimal.RequireFromString("99.99"), &odd)
	require.NotNil(t, pct)
	assert.Equal(t, 33, *pct)

	assert.Nil(t, DiscountPercentage(decimal.RequireFromString("100"), nil))
	assert.Nil(t, DiscountPercentage(decimal.Zero, &sale))
}

func TestEffectivePrice(t *testing.T) {
	v := variant(1, nil, nil)
	assert.True(t, v.EffectivePrice().Equal(decimal.NewFromInt(100)))

	sale := decimal.NewFromInt(80)
	v.SalePrice = &sale
	assert.True(t, v.EffectivePrice().Equal(sale))
}
