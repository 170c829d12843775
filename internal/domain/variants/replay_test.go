package variants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplay_ColorChangeRepairsSize(t *testing.T) {
	vs := []Variant{variant(1, red, small), variant(2, blue, large)}

	sel := Replay(vs, nil, id(blue.ID), id(small.ID), AxisColor)

	assert.Equal(t, blue.ID, *sel.ColorID)
	assert.Equal(t, large.ID, *sel.SizeID)
	require.NotNil(t, sel.Variant)
	assert.Equal(t, int64(2), sel.Variant.ID)
}

func TestReplay_SizeChangeRepairsColor(t *testing.T) {
	vs := []Variant{variant(1, red, small), variant(2, blue, large)}

	sel := Replay(vs, nil, id(red.ID), id(large.ID), AxisSize)

	assert.Equal(t, blue.ID, *sel.ColorID)
	assert.Equal(t, int64(2), sel.Variant.ID)
}

func TestReplay_ClearingAxis(t *testing.T) {
	vs := []Variant{variant(1, red, small), variant(2, blue, large)}

	sel := Replay(vs, nil, nil, id(small.ID), AxisColor)

	assert.Nil(t, sel.ColorID)
	assert.Equal(t, small.ID, *sel.SizeID)
	assert.Nil(t, sel.Variant)
	assert.Equal(t, []Axis{AxisColor}, sel.Missing)
}

func TestReplay_NoChangeKeepsParamsVerbatim(t *testing.T) {
	vs := []Variant{variant(1, red, small), variant(2, blue, large)}

	sel := Replay(vs, nil, id(red.ID), id(large.ID), "")

	assert.Equal(t, red.ID, *sel.ColorID)
	assert.Equal(t, large.ID, *sel.SizeID)
	assert.Nil(t, sel.Variant)
}

func TestReplay_DefaultsWithoutParams(t *testing.T) {
	vs := []Variant{variant(1, red, small), variant(2, blue, large)}
	galleries := []Gallery{{ColorName: "Blue"}, {ColorName: "Red"}}

	sel := Replay(vs, galleries, nil, nil, "")

	assert.Equal(t, red.ID, *sel.ColorID)
	assert.Equal(t, small.ID, *sel.SizeID)
	assert.Equal(t, 1, sel.GalleryIndex)
}

func TestWithInitialSelection_NilMeansUnselected(t *testing.T) {
	vs := []Variant{variant(1, red, small)}
	s := NewSelector(vs, WithInitialSelection(nil, nil))

	assert.Nil(t, s.SelectedColorID())
	assert.Nil(t, s.SelectedSizeID())
	assert.Nil(t, s.SelectedVariant())
	assert.ElementsMatch(t, []Axis{AxisColor, AxisSize}, s.MissingAxes())
}

func TestParseAxis(t *testing.T) {
	assert.Equal(t, AxisColor, ParseAxis("color"))
	assert.Equal(t, AxisSize, ParseAxis("size"))
	assert.Equal(t, Axis(""), ParseAxis("weight"))
	assert.Equal(t, Axis(""), ParseAxis(""))
}
