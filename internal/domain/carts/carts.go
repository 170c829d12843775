package carts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SameerRifat/e-commerce-sub001/internal/infra/dbx"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type Repository struct {
	db  dbx.Querier
	ttl time.Duration
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{db: q, ttl: 7 * 24 * time.Hour}
}

// --- internal helpers ---

func (r *Repository) bumpTTLByCartID(ctx context.Context, cartID int64) {
	_, _ = r.db.Exec(ctx, `
UPDATE carts
SET expires_at = $2,
    updated_at = now()
WHERE id = $1
  AND status = 'active'
`, cartID, time.Now().Add(r.ttl))
}

// activeCartID resolves a guest token to its live cart.
func (r *Repository) activeCartID(ctx context.Context, token string) (int64, error) {
	if _, err := uuid.Parse(token); err != nil {
		return 0, ErrCartNotFound
	}
	var id int64
	err := r.db.QueryRow(ctx, `
SELECT id
FROM carts
WHERE guest_token = $1
  AND status = 'active'
  AND (expires_at IS NULL OR expires_at > now())
`, token).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrCartNotFound
		}
		return 0, fmt.Errorf("get active cart: %w", err)
	}
	return id, nil
}

func scanCart(row pgx.Row) (*Cart, error) {
	var c Cart
	if err := row.Scan(&c.ID, &c.GuestToken, &c.Status, &c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// --- guest flows ---

// EnsureCart returns the live cart behind token, or opens a new cart with a
// fresh token when token is empty, malformed, expired or already checked out.
// Callers must hand the returned token back to the client.
func (r *Repository) EnsureCart(ctx context.Context, token string) (*Cart, error) {
	if _, err := uuid.Parse(token); err == nil {
		c, err := scanCart(r.db.QueryRow(ctx, `
SELECT id, guest_token, status, expires_at, created_at, updated_at
FROM carts
WHERE guest_token = $1
  AND status = 'active'
  AND (expires_at IS NULL OR expires_at > now())
`, token))
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get cart: %w", err)
		}
	}

	c, err := scanCart(r.db.QueryRow(ctx, `
INSERT INTO carts (guest_token, status, expires_at)
VALUES ($1, 'active', $2)
RETURNING id, guest_token, status, expires_at, created_at, updated_at
`, uuid.NewString(), time.Now().Add(r.ttl)))
	if err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return c, nil
}

// AddItem adds line to the cart, merging with an existing line for the same
// product and variant. The stored unit price is refreshed to line.UnitPrice.
func (r *Repository) AddItem(ctx context.Context, token string, line Line) error {
	if line.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	cartID, err := r.activeCartID(ctx, token)
	if err != nil {
		return err
	}

	const q = `
INSERT INTO cart_items (cart_id, product_id, variant_id, quantity, unit_price)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (cart_id, product_id, variant_id)
DO UPDATE SET
  quantity   = cart_items.quantity + EXCLUDED.quantity,
  unit_price = EXCLUDED.unit_price,
  updated_at = now();
`
	if _, err := r.db.Exec(ctx, q, cartID, line.ProductID, line.VariantID, line.Quantity, line.UnitPrice); err != nil {
		return fmt.Errorf("add item: %w", err)
	}

	r.bumpTTLByCartID(ctx, cartID)
	return nil
}

func (r *Repository) UpdateItemQty(ctx context.Context, token string, itemID int64, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	cartID, err := r.activeCartID(ctx, token)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
UPDATE cart_items
SET quantity = $3,
    updated_at = now()
WHERE id = $2
  AND cart_id = $1
`, cartID, itemID, qty)
	if err != nil {
		return fmt.Errorf("update qty: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	r.bumpTTLByCartID(ctx, cartID)
	return nil
}

func (r *Repository) RemoveItem(ctx context.Context, token string, itemID int64) error {
	cartID, err := r.activeCartID(ctx, token)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
DELETE FROM cart_items
WHERE id = $2
  AND cart_id = $1
`, cartID, itemID)
	if err != nil {
		return fmt.Errorf("remove item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	r.bumpTTLByCartID(ctx, cartID)
	return nil
}

func (r *Repository) Clear(ctx context.Context, token string) error {
	cartID, err := r.activeCartID(ctx, token)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// GetView returns the cart with its lines and total.
func (r *Repository) GetView(ctx context.Context, token string) (*CartView, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, ErrCartNotFound
	}

	c, err := scanCart(r.db.QueryRow(ctx, `
SELECT id, guest_token, status, expires_at, created_at, updated_at
FROM carts
WHERE guest_token = $1
  AND status = 'active'
  AND (expires_at IS NULL OR expires_at > now())
`, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	v := &CartView{Cart: *c}
	if err := r.fillLines(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// fillLines loads the cart's lines with display data and sums the total.
// The line image prefers the variant's own image, then the product's.
func (r *Repository) fillLines(ctx context.Context, v *CartView) error {
	rows, err := r.db.Query(ctx, `
SELECT
  ci.id,
  ci.product_id,
  ci.variant_id,
  p.name,
  COALESCE(pv.sku, p.sku) AS sku,
  c.name AS color_name,
  s.name AS size_name,
  ci.quantity,
  ci.unit_price,
  (
    SELECT pi.url
    FROM product_images pi
    WHERE pi.product_id = ci.product_id
      AND (pi.variant_id IS NULL OR pi.variant_id = ci.variant_id)
    ORDER BY (pi.variant_id IS NOT DISTINCT FROM ci.variant_id) DESC,
             pi.is_primary DESC, pi.sort_order ASC, pi.id ASC
    LIMIT 1
  ) AS image_url
FROM cart_items ci
JOIN products p               ON p.id = ci.product_id
LEFT JOIN product_variants pv ON pv.id = ci.variant_id
LEFT JOIN colors c            ON c.id = pv.color_id
LEFT JOIN sizes s             ON s.id = pv.size_id
WHERE ci.cart_id = $1
ORDER BY ci.id ASC
`, v.Cart.ID)
	if err != nil {
		return fmt.Errorf("cart lines: %w", err)
	}
	defer rows.Close()

	v.Items = []CartLine{}
	for rows.Next() {
		var line CartLine
		if err := rows.Scan(
			&line.ItemID,
			&line.ProductID,
			&line.VariantID,
			&line.ProductName,
			&line.SKU,
			&line.ColorName,
			&line.SizeName,
			&line.Quantity,
			&line.UnitPrice,
			&line.ImageURL,
		); err != nil {
			return fmt.Errorf("scan cart line: %w", err)
		}
		v.Items = append(v.Items, line)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("cart lines rows error: %w", err)
	}

	v.Total = Total(v.Items)
	return nil
}

// Total fills each line's LineTotal and returns their sum.
func Total(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for i := range lines {
		lines[i].LineTotal = lines[i].UnitPrice.Mul(decimal.NewFromInt(int64(lines[i].Quantity)))
		total = total.Add(lines[i].LineTotal)
	}
	return total
}

// Admin housekeeping: mark expired as abandoned
func (r *Repository) MarkExpiredAsAbandoned(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `
UPDATE carts
SET status = 'abandoned',
    updated_at = now()
WHERE status = 'active'
  AND expires_at IS NOT NULL
  AND expires_at <= now()
`)
	if err != nil {
		return 0, fmt.Errorf("mark abandoned: %w", err)
	}
	return tag.RowsAffected(), nil
}
