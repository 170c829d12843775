package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SameerRifat/e-commerce-sub001/internal/domain/variants"
	"github.com/SameerRifat/e-commerce-sub001/internal/infra/dbx"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var ErrProductNotFound = errors.New("product not found")

// Store is the data access abstraction for the products domain.
// Implemented by Repository.
type Store interface {
	GetProductByID(ctx context.Context, id int64) (*Product, error)
	GetProductDetail(ctx context.Context, id int64) (*ProductDetail, error)

	// Variants
	ListVariantsByProduct(ctx context.Context, productID int64) ([]variants.Variant, error)

	// Images
	ListImagesByProduct(ctx context.Context, productID int64) ([]Image, error)

	// Reviews
	GetReviewSummary(ctx context.Context, productID int64) (ReviewSummary, error)
	ListReviews(ctx context.Context, productID int64, limit, offset int) ([]Review, int, error)
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(db dbx.Querier) *Repository {
	return &Repository{db: db}
}

// ------------------------------------
// Products
// ------------------------------------

// GetProductByID returns a published product with its brand and category names.
func (r *Repository) GetProductByID(ctx context.Context, id int64) (*Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.product_type,
		       p.gender_id, p.brand_id, b.name, p.category_id, c.name,
		       p.price, p.sale_price, p.sku, p.stock_quantity,
		       p.is_published, p.created_at, p.updated_at
		FROM products p
		LEFT JOIN brands b     ON b.id = p.brand_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1 AND p.is_published = TRUE;
	`
	var (
		p           Product
		productType string
		price, sale decimal.NullDecimal
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &productType,
		&p.GenderID, &p.BrandID, &p.BrandName, &p.CategoryID, &p.CategoryName,
		&price, &sale, &p.SKU, &p.StockQuantity,
		&p.IsPublished, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	p.ProductType = ProductType(productType)
	p.Price = fromNull(price)
	p.SalePrice = fromNull(sale)
	return &p, nil
}

// GetProductDetail loads the product page payload. The product row is read
// first so a missing product short-circuits; variants, images and reviews
// are then fetched concurrently.
func (r *Repository) GetProductDetail(ctx context.Context, id int64) (*ProductDetail, error) {
	p, err := r.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &ProductDetail{Product: p}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Variants, err = r.ListVariantsByProduct(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		d.Images, err = r.ListImagesByProduct(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		d.Reviews, err = r.GetReviewSummary(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.Galleries = BuildGalleries(d.Variants, d.Images)
	return d, nil
}

// ------------------------------------
// Variants
// ------------------------------------

const variantColumns = `
		v.id, v.product_id, v.sku, v.price, v.sale_price, v.stock_quantity,
		v.weight, v.dimensions,
		c.id, c.name, c.slug, c.hex_code,
		s.id, s.name, s.slug, s.sort_order`

const variantJoins = `
		FROM product_variants v
		LEFT JOIN colors c ON c.id = v.color_id
		LEFT JOIN sizes s  ON s.id = v.size_id`

// ListVariantsByProduct returns variants in id order with color and size joined.
func (r *Repository) ListVariantsByProduct(ctx context.Context, productID int64) ([]variants.Variant, error) {
	query := `SELECT` + variantColumns + variantJoins + `
		WHERE v.product_id = $1
		ORDER BY v.id ASC;`

	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	out := []variants.Variant{}
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func scanVariant(row pgx.Row) (*variants.Variant, error) {
	var (
		v                    variants.Variant
		sale, weight         decimal.NullDecimal
		dims                 []byte
		colorID, sizeID      *int64
		colorName, colorSlug *string
		hex                  *string
		sizeName, sizeSlug   *string
		sizeOrder            *int
	)
	if err := row.Scan(
		&v.ID, &v.ProductID, &v.SKU, &v.Price, &sale, &v.StockQuantity,
		&weight, &dims,
		&colorID, &colorName, &colorSlug, &hex,
		&sizeID, &sizeName, &sizeSlug, &sizeOrder,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan variant: %w", err)
	}
	v.SalePrice = fromNull(sale)
	v.Weight = fromNull(weight)

	if len(dims) > 0 {
		if err := json.Unmarshal(dims, &v.Dimensions); err != nil {
			return nil, fmt.Errorf("unmarshal dimensions: %w", err)
		}
	}
	if colorID != nil {
		v.Color = &variants.Color{ID: *colorID, Name: deref(colorName), Slug: deref(colorSlug), HexCode: hex}
	}
	if sizeID != nil {
		v.Size = &variants.Size{ID: *sizeID, Name: deref(sizeName), Slug: deref(sizeSlug), SortOrder: sizeOrder}
	}
	return &v, nil
}

// ------------------------------------
// Images
// ------------------------------------

// ListImagesByProduct returns every image of the product, product-level and
// variant-level, in display order.
func (r *Repository) ListImagesByProduct(ctx context.Context, productID int64) ([]Image, error) {
	query := `
		SELECT id, product_id, variant_id, url, is_primary, sort_order
		FROM product_images
		WHERE product_id = $1
		ORDER BY (variant_id IS NULL) DESC, is_primary DESC, sort_order ASC, id ASC;
	`
	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.ProductID, &img.VariantID, &img.URL, &img.IsPrimary, &img.SortOrder); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return OrderImages(images), nil
}

// ------------------------------------
// Reviews
// ------------------------------------

func (r *Repository) GetReviewSummary(ctx context.Context, productID int64) (ReviewSummary, error) {
	query := `
		SELECT AVG(rating)::float8, COUNT(*)
		FROM reviews
		WHERE product_id = $1;
	`
	var s ReviewSummary
	if err := r.db.QueryRow(ctx, query, productID).Scan(&s.AverageRating, &s.ReviewCount); err != nil {
		return ReviewSummary{}, fmt.Errorf("review summary: %w", err)
	}
	return s, nil
}

// ListReviews returns reviews newest first and the total count.
func (r *Repository) ListReviews(ctx context.Context, productID int64, limit, offset int) ([]Review, int, error) {
	query := `
		SELECT id, product_id, user_id, rating, comment, created_at,
		       COUNT(*) OVER() AS total_count
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.db.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []Review{}
	total := 0
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows: %w", err)
	}
	return reviews, total, nil
}

func fromNull(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
