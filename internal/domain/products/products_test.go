package products

import (
	"database/sql"
	"reflect"
	"testing"

	"github.com/SameerRifat/e-commerce-sub001/internal/domain/variants"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vid(v int64) *int64 { return &v }

func TestOrderImages_Precedence(t *testing.T) {
	images := []Image{
		{ID: 1, VariantID: vid(7), IsPrimary: true, SortOrder: 0, URL: "variant-primary"},
		{ID: 2, IsPrimary: false, SortOrder: 0, URL: "product-second"},
		{ID: 3, IsPrimary: false, SortOrder: 0, URL: "product-third"},
		{ID: 4, IsPrimary: true, SortOrder: 5, URL: "product-primary"},
		{ID: 5, VariantID: vid(7), SortOrder: 1, URL: "variant-later"},
	}

	ordered := OrderImages(images)

	var urls []string
	for _, img := range ordered {
		urls = append(urls, img.URL)
	}
	assert.Equal(t, []string{
		"product-primary",
		"product-second",
		"product-third",
		"variant-primary",
		"variant-later",
	}, urls)

	// input untouched
	assert.Equal(t, "variant-primary", images[0].URL)
}

func TestOrderImages_SortOrderBeforeID(t *testing.T) {
	images := []Image{
		{ID: 1, SortOrder: 3, URL: "c"},
		{ID: 2, SortOrder: 1, URL: "a"},
		{ID: 3, SortOrder: 2, URL: "b"},
	}
	ordered := OrderImages(images)
	assert.Equal(t, "a", ordered[0].URL)
	assert.Equal(t, "b", ordered[1].URL)
	assert.Equal(t, "c", ordered[2].URL)
}

func TestBuildGalleries_GroupsByColorName(t *testing.T) {
	red := &variants.Color{ID: 1, Name: "Red"}
	blue := &variants.Color{ID: 2, Name: "Blue"}
	vs := []variants.Variant{
		{ID: 10, Color: red},
		{ID: 11, Color: blue},
		{ID: 12, Color: red},
		{ID: 13},
	}
	images := []Image{
		{ID: 1, URL: "hero"},
		{ID: 2, VariantID: vid(11), URL: "blue-1"},
		{ID: 3, VariantID: vid(10), URL: "red-1"},
		{ID: 4, VariantID: vid(12), URL: "red-2"},
		{ID: 5, VariantID: vid(13), URL: "colorless"},
		{ID: 6, VariantID: vid(99), URL: "orphan"},
	}

	galleries := BuildGalleries(vs, images)
	require.Len(t, galleries, 2)
	assert.Equal(t, variants.Gallery{ColorName: "Red", Images: []string{"red-1", "red-2"}}, galleries[0])
	assert.Equal(t, variants.Gallery{ColorName: "Blue", Images: []string{"blue-1"}}, galleries[1])
}

func TestBuildGalleries_SkipsColorsWithoutImages(t *testing.T) {
	vs := []variants.Variant{{ID: 1, Color: &variants.Color{ID: 1, Name: "Red"}}}
	assert.Empty(t, BuildGalleries(vs, nil))
}

type fakeRow struct {
	values []any
}

func (r fakeRow) Scan(dest ...any) error {
	if r.values == nil {
		return pgx.ErrNoRows
	}
	for i, d := range dest {
		if sc, ok := d.(sql.Scanner); ok {
			if err := sc.Scan(r.values[i]); err != nil {
				return err
			}
			continue
		}
		target := reflect.ValueOf(d).Elem()
		if r.values[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(r.values[i]).Convert(target.Type()))
	}
	return nil
}

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestScanVariant_JoinsColorAndSize(t *testing.T) {
	row := fakeRow{values: []any{
		int64(5), int64(1), "TEE-RED-M", "20.00", "15.00", 4,
		nil, []byte(`{"length": 10}`),
		vid(3), strp("Red"), strp("red"), strp("#ff0000"),
		vid(8), strp("M"), strp("m"), intp(2),
	}}

	v, err := scanVariant(row)
	require.NoError(t, err)

	assert.Equal(t, "TEE-RED-M", v.SKU)
	assert.Equal(t, "20", v.Price.String())
	require.NotNil(t, v.SalePrice)
	assert.Equal(t, "15", v.SalePrice.String())
	assert.Nil(t, v.Weight)
	assert.Equal(t, float64(10), v.Dimensions["length"])
	require.NotNil(t, v.Color)
	assert.Equal(t, "Red", v.Color.Name)
	require.NotNil(t, v.Size)
	assert.Equal(t, 2, *v.Size.SortOrder)
}

func TestScanVariant_NoAxes(t *testing.T) {
	row := fakeRow{values: []any{
		int64(6), int64(1), "MUG", "9.50", nil, 0,
		nil, nil,
		nil, nil, nil, nil,
		nil, nil, nil, nil,
	}}

	v, err := scanVariant(row)
	require.NoError(t, err)
	assert.Nil(t, v.Color)
	assert.Nil(t, v.Size)
	assert.Nil(t, v.SalePrice)
	assert.False(t, v.InStock())
}

func TestScanVariant_NoRows(t *testing.T) {
	_, err := scanVariant(fakeRow{})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
