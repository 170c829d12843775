package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimplify(t *testing.T) {
	a := Raw("a = ?", 1)

	assert.True(t, IsAlways(And()))
	assert.True(t, IsNever(Or()))
	assert.True(t, IsNever(And(a, Never())))
	assert.True(t, IsAlways(Or(a, Always())))
	assert.Equal(t, a, And(Always(), a))
	assert.Equal(t, a, Or(Never(), a))
	assert.True(t, IsNever(And(Always(), Or(Never(), Never()))))
}

func TestBuilder_NumbersPlaceholdersAcrossRenders(t *testing.T) {
	b := &Builder{}

	first := b.Render(And(Raw("x = ?", 1), Or(Raw("y = ?", 2), Raw("z BETWEEN ? AND ?", 3, 4))))
	second := b.Render(Raw("w = ?", 5))

	assert.Equal(t, "(x = $1 AND (y = $2 OR z BETWEEN $3 AND $4))", first)
	assert.Equal(t, "w = $5", second)
	assert.Equal(t, []any{1, 2, 3, 4, 5}, b.Args())
	assert.Equal(t, "$6", b.Arg("v"))
}

func TestBuilder_RendersConstants(t *testing.T) {
	b := &Builder{}
	assert.Equal(t, "TRUE", b.Render(Always()))
	assert.Equal(t, "FALSE", b.Render(And(Raw("a = ?", 1), Never())))
	assert.Empty(t, b.Args())
}

func TestRaw_PanicsOnPlaceholderMismatch(t *testing.T) {
	assert.Panics(t, func() { Raw("a = ? AND b = ?", 1) })
}
