package params

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaginationWithBounds(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 1, 24, 0},
		{"second page", "page=2&limit=24", 2, 24, 24},
		{"negative page", "page=-3&limit=10", 1, 10, 0},
		{"limit above max", "limit=500", 1, 60, 0},
		{"zero limit", "limit=0", 1, 24, 0},
		{"garbage", "page=abc&limit=xyz", 1, 24, 0},
		{"huge page", "page=9223372036854775807&limit=24", math.MaxInt32/24 + 1, 24, (math.MaxInt32 / 24) * 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)

			p := ParsePaginationWithBounds(q, CatalogBounds)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset)
			assert.LessOrEqual(t, p.Offset, math.MaxInt32)
		})
	}
}

func TestComputeMeta(t *testing.T) {
	p := New(2, 24, CatalogBounds)
	p.ComputeMeta(50)

	assert.Equal(t, 50, p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)

	p = New(3, 24, CatalogBounds)
	p.ComputeMeta(50)
	assert.False(t, p.HasNext)
}
