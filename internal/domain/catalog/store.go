package catalog

import (
	"context"
	"fmt"

	"github.com/SameerRifat/e-commerce-sub001/internal/infra/dbx"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Store is the read side of the storefront catalog.
type Store interface {
	GetProducts(ctx context.Context, f Filters) (*Page, error)
	FilterOptions(ctx context.Context) (*FilterOptions, error)
}

// Repository runs catalog reads. Its Querier must allow concurrent queries
// (a pool, not a transaction): the page and the count run in parallel.
type Repository struct {
	db dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{db: q}
}

// GetProducts returns one page of product summaries and the total number of
// products matching f. Size and color slugs are resolved first; a slug list
// that resolves to no IDs yields an empty page rather than an unfiltered one.
func (r *Repository) GetProducts(ctx context.Context, f Filters) (*Page, error) {
	f = f.Normalize()

	ids, err := r.resolveIDs(ctx, f)
	if err != nil {
		return nil, err
	}

	q := planQuery(f, ids)
	if q.Empty() {
		return &Page{Products: []ProductSummary{}}, nil
	}

	var (
		products []ProductSummary
		total    int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = r.list(gctx, q)
		return err
	})
	g.Go(func() error {
		sql, args := q.CountSQL()
		if err := r.db.QueryRow(gctx, sql, args...).Scan(&total); err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Page{Products: products, TotalCount: total}, nil
}

func (r *Repository) resolveIDs(ctx context.Context, f Filters) (resolvedIDs, error) {
	var ids resolvedIDs
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ids.SizeIDs, err = r.lookupIDs(gctx, "sizes", f.SizeSlugs)
		return err
	})
	g.Go(func() error {
		var err error
		ids.ColorIDs, err = r.lookupIDs(gctx, "colors", f.ColorSlugs)
		return err
	})
	return ids, g.Wait()
}

func (r *Repository) lookupIDs(ctx context.Context, table string, slugs []string) ([]int64, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT id FROM %s WHERE slug = ANY($1)`, table), slugs)
	if err != nil {
		return nil, fmt.Errorf("resolve %s slugs: %w", table, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan %s ids: %w", table, err)
	}
	return ids, nil
}

func (r *Repository) list(ctx context.Context, q listQuery) ([]ProductSummary, error) {
	sql, args := q.ListSQL()
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]ProductSummary, 0, q.filters.Limit)
	for rows.Next() {
		var (
			s     ProductSummary
			price decimal.NullDecimal
			sale  decimal.NullDecimal
		)
		if err := rows.Scan(
			&s.ID, &s.Name,
			&s.ImageURL, &s.HoverImageURL,
			&price, &sale, &s.DiscountPercentage, &s.CreatedAt,
			&s.AverageRating, &s.ReviewCount,
		); err != nil {
			return nil, fmt.Errorf("scan product summary: %w", err)
		}
		s.Price = fromNull(price)
		s.SalePrice = fromNull(sale)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

const filterOptionsSQL = `
SELECT 'gender' AS kind, g.id, g.name, g.slug, COUNT(DISTINCT p.id) AS product_count, 0 AS sort_order
FROM genders g
LEFT JOIN products p ON p.gender_id = g.id AND p.is_published = TRUE
GROUP BY g.id, g.name, g.slug
UNION ALL
SELECT 'brand', b.id, b.name, b.slug, COUNT(DISTINCT p.id), 0
FROM brands b
LEFT JOIN products p ON p.brand_id = b.id AND p.is_published = TRUE
GROUP BY b.id, b.name, b.slug
UNION ALL
SELECT 'category', c.id, c.name, c.slug, COUNT(DISTINCT p.id), 0
FROM categories c
LEFT JOIN products p ON p.category_id = c.id AND p.is_published = TRUE
GROUP BY c.id, c.name, c.slug
UNION ALL
SELECT 'color', c.id, c.name, c.slug, COUNT(DISTINCT p.id), 0
FROM colors c
LEFT JOIN product_variants v ON v.color_id = c.id
LEFT JOIN products p         ON p.id = v.product_id AND p.is_published = TRUE
GROUP BY c.id, c.name, c.slug
UNION ALL
SELECT 'size', s.id, s.name, s.slug, COUNT(DISTINCT p.id), COALESCE(s.sort_order, 0)
FROM sizes s
LEFT JOIN product_variants v ON v.size_id = s.id
LEFT JOIN products p         ON p.id = v.product_id AND p.is_published = TRUE
GROUP BY s.id, s.name, s.slug, s.sort_order
ORDER BY kind, sort_order, name;
`

// FilterOptions returns every dictionary value with its published product count.
func (r *Repository) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	rows, err := r.db.Query(ctx, filterOptionsSQL)
	if err != nil {
		return nil, fmt.Errorf("filter options: %w", err)
	}
	defer rows.Close()

	out := &FilterOptions{
		Genders:    []FilterOption{},
		Brands:     []FilterOption{},
		Categories: []FilterOption{},
		Colors:     []FilterOption{},
		Sizes:      []FilterOption{},
	}
	for rows.Next() {
		var (
			kind      string
			o         FilterOption
			sortOrder int
		)
		if err := rows.Scan(&kind, &o.ID, &o.Name, &o.Slug, &o.ProductCount, &sortOrder); err != nil {
			return nil, fmt.Errorf("scan filter option: %w", err)
		}
		switch kind {
		case "gender":
			out.Genders = append(out.Genders, o)
		case "brand":
			out.Brands = append(out.Brands, o)
		case "category":
			out.Categories = append(out.Categories, o)
		case "color":
			out.Colors = append(out.Colors, o)
		case "size":
			out.Sizes = append(out.Sizes, o)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func fromNull(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
