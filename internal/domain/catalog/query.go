package catalog

import (
	"fmt"
	"strings"
)

const effectivePriceExpr = "COALESCE(v.sale_price, v.price)"

// resolvedIDs carries the size/color IDs found for the requested slugs.
type resolvedIDs struct {
	SizeIDs  []int64
	ColorIDs []int64
}

// listQuery is the fully planned catalog query for one request.
type listQuery struct {
	filters   Filters
	product   Predicate
	variant   Predicate
	innerJoin bool
}

func planQuery(f Filters, ids resolvedIDs) listQuery {
	return listQuery{
		filters:   f,
		product:   productPredicate(f),
		variant:   variantPredicate(f, ids),
		innerJoin: f.HasVariantFilters(),
	}
}

// Empty reports whether the plan can be answered with zero rows without
// touching the database.
func (q listQuery) Empty() bool {
	if IsNever(q.product) {
		return true
	}
	return q.innerJoin && IsNever(q.variant)
}

func productPredicate(f Filters) Predicate {
	ps := []Predicate{Raw("p.is_published = TRUE")}

	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		ps = append(ps, Raw("(p.name ILIKE ? OR p.description ILIKE ?)", pattern, pattern))
	}
	ps = append(ps,
		slugPredicate("p.gender_id", "genders", f.GenderSlugs),
		slugPredicate("p.brand_id", "brands", f.BrandSlugs),
		slugPredicate("p.category_id", "categories", f.CategorySlugs),
	)
	return And(ps...)
}

func slugPredicate(column, table string, slugs []string) Predicate {
	if len(slugs) == 0 {
		return Always()
	}
	return Raw(fmt.Sprintf("%s IN (SELECT id FROM %s WHERE slug = ANY(?))", column, table), slugs)
}

func variantPredicate(f Filters, ids resolvedIDs) Predicate {
	return And(
		idPredicate("v.size_id", f.SizeSlugs, ids.SizeIDs),
		idPredicate("v.color_id", f.ColorSlugs, ids.ColorIDs),
		pricePredicate(f),
	)
}

// idPredicate distinguishes an absent filter (no slugs: Always) from one
// whose slugs resolved to nothing (Never).
func idPredicate(column string, slugs []string, ids []int64) Predicate {
	if len(slugs) == 0 {
		return Always()
	}
	if len(ids) == 0 {
		return Never()
	}
	return Raw(column+" = ANY(?)", ids)
}

// pricePredicate ORs every supplied bucket together with the continuous bounds.
func pricePredicate(f Filters) Predicate {
	if !f.hasPriceFilter() {
		return Always()
	}

	var alts []Predicate
	for _, r := range f.PriceRanges {
		alts = append(alts, boundsPredicate(r))
	}
	if f.PriceMin != nil || f.PriceMax != nil {
		alts = append(alts, boundsPredicate(PriceRange{Min: f.PriceMin, Max: f.PriceMax}))
	}
	return Or(alts...)
}

func boundsPredicate(r PriceRange) Predicate {
	var ps []Predicate
	if r.Min != nil {
		ps = append(ps, Raw(effectivePriceExpr+" >= ?", *r.Min))
	}
	if r.Max != nil {
		ps = append(ps, Raw(effectivePriceExpr+" <= ?", *r.Max))
	}
	return And(ps...)
}

// from renders the shared FROM/JOIN/WHERE used by both the listing and the count.
func (q listQuery) from(b *Builder) string {
	join := "LEFT JOIN product_variants v ON v.product_id = p.id"
	if q.innerJoin {
		join = "INNER JOIN product_variants v ON v.product_id = p.id AND " + b.Render(q.variant)
	}
	return fmt.Sprintf(`
	FROM products p
	%s
	WHERE %s`, join, b.Render(q.product))
}

func (q listQuery) orderBy() string {
	switch q.filters.Sort {
	case SortPriceAsc:
		return "g.effective_price ASC NULLS LAST, g.created_at DESC, g.product_id ASC"
	case SortPriceDesc:
		return "g.effective_price DESC NULLS LAST, g.created_at DESC, g.product_id ASC"
	default:
		return "g.created_at DESC, g.product_id ASC"
	}
}

// ListSQL returns the aggregated page query. Variant rows fan out per product
// and are folded back to one row by the grouped CTE; images rank by
// product-level first, then primary flag, then sort order.
func (q listQuery) ListSQL() (string, []any) {
	b := &Builder{}
	from := q.from(b)
	limit := b.Arg(q.filters.Limit)
	offset := b.Arg(q.filters.Offset())

	sql := `
WITH filtered AS (
	SELECT
		p.id         AS product_id,
		p.name       AS name,
		p.created_at AS created_at,
		COALESCE(v.price, p.price)           AS price,
		COALESCE(v.sale_price, p.sale_price) AS sale_price` + from + `
),
grouped AS (
	SELECT
		f.product_id,
		f.name,
		f.created_at,
		MIN(f.price)      AS price,
		MIN(f.sale_price) AS sale_price,
		MAX(
			CASE WHEN f.sale_price IS NOT NULL AND f.price > 0
			     THEN ROUND((1 - f.sale_price / f.price) * 100)
			END
		)::int AS discount_percentage,
		MIN(COALESCE(f.sale_price, f.price)) AS effective_price
	FROM filtered f
	GROUP BY f.product_id, f.name, f.created_at
),
ranked_images AS (
	SELECT
		pi.product_id,
		pi.url,
		ROW_NUMBER() OVER (
			PARTITION BY pi.product_id
			ORDER BY (pi.variant_id IS NULL) DESC, pi.is_primary DESC, pi.sort_order ASC, pi.id ASC
		) AS rn
	FROM product_images pi
	WHERE pi.product_id IN (SELECT product_id FROM grouped)
),
review_stats AS (
	SELECT r.product_id, AVG(r.rating)::float8 AS average_rating, COUNT(*) AS review_count
	FROM reviews r
	WHERE r.product_id IN (SELECT product_id FROM grouped)
	GROUP BY r.product_id
)
SELECT
	g.product_id, g.name,
	img1.url AS image_url,
	img2.url AS hover_image_url,
	g.price, g.sale_price, g.discount_percentage, g.created_at,
	rs.average_rating,
	COALESCE(rs.review_count, 0) AS review_count
FROM grouped g
LEFT JOIN ranked_images img1 ON img1.product_id = g.product_id AND img1.rn = 1
LEFT JOIN ranked_images img2 ON img2.product_id = g.product_id AND img2.rn = 2
LEFT JOIN review_stats rs    ON rs.product_id = g.product_id
ORDER BY ` + q.orderBy() + `
LIMIT ` + limit + ` OFFSET ` + offset + `;`

	return sql, b.Args()
}

// CountSQL counts distinct products under the same joins and filters as ListSQL.
func (q listQuery) CountSQL() (string, []any) {
	b := &Builder{}
	sql := "SELECT COUNT(DISTINCT p.id)" + q.from(b) + ";"
	return sql, b.Args()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
