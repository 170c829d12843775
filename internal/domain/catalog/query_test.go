package catalog

import (
	"math"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanQuery_NoVariantFiltersUsesLeftJoin(t *testing.T) {
	q := planQuery(Filters{BrandSlugs: []string{"nike"}}.Normalize(), resolvedIDs{})

	sql, args := q.ListSQL()
	assert.Contains(t, sql, "LEFT JOIN product_variants v ON v.product_id = p.id")
	assert.NotContains(t, sql, "INNER JOIN product_variants")
	assert.Contains(t, sql, "p.brand_id IN (SELECT id FROM brands WHERE slug = ANY($1))")
	assert.Equal(t, []any{[]string{"nike"}, 24, 0}, args)
	assert.False(t, q.Empty())
}

func TestPlanQuery_VariantFiltersUseInnerJoin(t *testing.T) {
	f := Filters{SizeSlugs: []string{"m"}, ColorSlugs: []string{"red"}}.Normalize()
	q := planQuery(f, resolvedIDs{SizeIDs: []int64{3}, ColorIDs: []int64{7, 8}})

	sql, args := q.CountSQL()
	assert.True(t, strings.HasPrefix(sql, "SELECT COUNT(DISTINCT p.id)"))
	assert.Contains(t, sql, "INNER JOIN product_variants v ON v.product_id = p.id AND (v.size_id = ANY($1) AND v.color_id = ANY($2))")
	assert.Contains(t, sql, "WHERE p.is_published = TRUE")
	assert.Equal(t, []any{[]int64{3}, []int64{7, 8}}, args)
}

func TestPlanQuery_UnresolvedSlugFailsClosed(t *testing.T) {
	f := Filters{ColorSlugs: []string{"nonexistent-slug"}}.Normalize()
	q := planQuery(f, resolvedIDs{})

	assert.True(t, q.Empty())
	sql, _ := q.CountSQL()
	assert.Contains(t, sql, "INNER JOIN product_variants v ON v.product_id = p.id AND FALSE")
}

func TestPlanQuery_AbsentSizeWithResolvedColor(t *testing.T) {
	f := Filters{ColorSlugs: []string{"red"}}.Normalize()
	q := planQuery(f, resolvedIDs{ColorIDs: []int64{1}})

	assert.False(t, q.Empty())
	sql, _ := q.CountSQL()
	assert.Contains(t, sql, "AND v.color_id = ANY($1)")
	assert.NotContains(t, sql, "size_id")
}

func TestPlanQuery_PriceBucketsAreOred(t *testing.T) {
	f := Filters{
		PriceRanges: []PriceRange{{Max: dec("50")}, {Min: dec("100"), Max: dec("200")}},
		PriceMin:    dec("500"),
	}.Normalize()
	q := planQuery(f, resolvedIDs{})

	sql, args := q.CountSQL()
	assert.Contains(t, sql,
		"(COALESCE(v.sale_price, v.price) <= $1 OR "+
			"(COALESCE(v.sale_price, v.price) >= $2 AND COALESCE(v.sale_price, v.price) <= $3) OR "+
			"COALESCE(v.sale_price, v.price) >= $4)")
	require.Len(t, args, 4)
}

func TestPlanQuery_SearchEscapesLikeWildcards(t *testing.T) {
	q := planQuery(Filters{Search: "50%_off"}.Normalize(), resolvedIDs{})

	sql, args := q.CountSQL()
	assert.Contains(t, sql, "(p.name ILIKE $1 OR p.description ILIKE $2)")
	assert.Equal(t, `%50\%\_off%`, args[0])
}

func TestListSQL_OrderingIsDeterministic(t *testing.T) {
	tests := []struct {
		sort SortKey
		want string
	}{
		{SortNewest, "ORDER BY g.created_at DESC, g.product_id ASC"},
		{SortPriceAsc, "ORDER BY g.effective_price ASC NULLS LAST, g.created_at DESC, g.product_id ASC"},
		{SortPriceDesc, "ORDER BY g.effective_price DESC NULLS LAST, g.created_at DESC, g.product_id ASC"},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			sql, _ := planQuery(Filters{Sort: tt.sort}.Normalize(), resolvedIDs{}).ListSQL()
			assert.Contains(t, sql, tt.want)
		})
	}
}

func TestListSQL_PaginationArgs(t *testing.T) {
	first, _ := planQuery(Filters{Page: 1, Limit: 24}.Normalize(), resolvedIDs{}).ListSQL()
	_, args := planQuery(Filters{Page: 2, Limit: 24}.Normalize(), resolvedIDs{}).ListSQL()

	assert.Contains(t, first, "LIMIT $1 OFFSET $2")
	assert.Equal(t, []any{24, 24}, args)
}

func TestListSQL_HugePageKeepsOffsetInRange(t *testing.T) {
	f := ParseFilters(url.Values{"page": {"9223372036854775807"}, "limit": {"24"}})
	_, args := planQuery(f, resolvedIDs{}).ListSQL()

	require.Len(t, args, 2)
	offset, ok := args[1].(int)
	require.True(t, ok)
	assert.Equal(t, 24, args[0])
	assert.GreaterOrEqual(t, offset, 0)
	assert.LessOrEqual(t, offset, math.MaxInt32)
}

// The ListSQL tests check generated SQL text only. Discount rounding, image
// ranking, page stability and simple-product inclusion against real rows need
// a Postgres-backed test.
func TestListSQL_AggregationAndImagePrecedence(t *testing.T) {
	sql, _ := planQuery(Filters{}.Normalize(), resolvedIDs{}).ListSQL()

	assert.Contains(t, sql, "COALESCE(v.price, p.price)")
	assert.Contains(t, sql, "COALESCE(v.sale_price, p.sale_price)")
	assert.Contains(t, sql, "ROUND((1 - f.sale_price / f.price) * 100)")
	assert.Contains(t, sql, "ORDER BY (pi.variant_id IS NULL) DESC, pi.is_primary DESC, pi.sort_order ASC, pi.id ASC")
	assert.Contains(t, sql, "img1.rn = 1")
	assert.Contains(t, sql, "img2.rn = 2")
	assert.Contains(t, sql, "COALESCE(rs.review_count, 0)")
}

func TestListAndCountShareFilters(t *testing.T) {
	f := Filters{
		Search:        "tee",
		CategorySlugs: []string{"shirts"},
		SizeSlugs:     []string{"m"},
		PriceMax:      dec("40"),
	}.Normalize()
	q := planQuery(f, resolvedIDs{SizeIDs: []int64{4}})

	listSQL, listArgs := q.ListSQL()
	countSQL, countArgs := q.CountSQL()

	where := countSQL[strings.Index(countSQL, "FROM products p"):strings.LastIndex(countSQL, ";")]
	assert.Contains(t, listSQL, where)
	assert.Equal(t, countArgs, listArgs[:len(countArgs)])
}
