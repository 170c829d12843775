package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/SameerRifat/e-commerce-sub001/internal/domain/variants"
	"github.com/SameerRifat/e-commerce-sub001/internal/infra/dbx"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type Repository struct {
	q   dbx.Querier
	gen *OrderNumberGenerator
}

func NewRepository(q dbx.Querier, gen *OrderNumberGenerator) *Repository {
	if gen == nil {
		panic("orders: OrderNumberGenerator is nil")
	}
	return &Repository{
		q:   q,
		gen: gen,
	}
}

const orderColumns = `
id, order_number, cart_id, status, email,
shipping_name, shipping_phone, shipping_address, shipping_city, shipping_postal_code, shipping_country,
subtotal, discount, total, cancelled_reason, created_at, updated_at`

func scanOrder(row pgx.Row, extra ...any) (*Order, error) {
	var o Order
	dest := []any{
		&o.ID, &o.OrderNumber, &o.CartID, &o.Status, &o.Email,
		&o.ShippingName, &o.ShippingPhone, &o.ShippingAddress, &o.ShippingCity, &o.PostalCode, &o.Country,
		&o.Subtotal, &o.Discount, &o.Total, &o.CancelledReason, &o.CreatedAt, &o.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// checkoutLine is one cart line priced from the current catalog.
type checkoutLine struct {
	ProductID   int64
	VariantID   *int64
	ProductName string
	SKU         *string
	ColorName   *string
	SizeName    *string
	Quantity    int
	Price       *decimal.Decimal
	SalePrice   *decimal.Decimal
	Stock       *int
	Unpublished bool
}

type pricedCart struct {
	Items    []OrderItem
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// priceLines snapshots every line at its effective price. Subtotal is the
// sum at list price; Discount is what sale prices take off it.
func priceLines(lines []checkoutLine) (*pricedCart, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	pc := &pricedCart{Subtotal: decimal.Zero, Total: decimal.Zero}
	for _, l := range lines {
		if l.Unpublished {
			return nil, fmt.Errorf("%w: %s is no longer available", ErrUnpricedLine, l.ProductName)
		}
		if l.Price == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnpricedLine, l.ProductName)
		}
		if l.Stock != nil && *l.Stock < l.Quantity {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, l.ProductName)
		}

		qty := decimal.NewFromInt(int64(l.Quantity))
		unit := variants.EffectivePrice(*l.Price, l.SalePrice)
		productID := l.ProductID

		item := OrderItem{
			ProductID:     &productID,
			VariantID:     l.VariantID,
			ProductName:   l.ProductName,
			SKU:           l.SKU,
			ColorName:     l.ColorName,
			SizeName:      l.SizeName,
			Quantity:      l.Quantity,
			ListUnitPrice: *l.Price,
			UnitPrice:     unit,
			TotalPrice:    unit.Mul(qty),
		}
		pc.Items = append(pc.Items, item)
		pc.Subtotal = pc.Subtotal.Add(l.Price.Mul(qty))
		pc.Total = pc.Total.Add(item.TotalPrice)
	}
	pc.Discount = pc.Subtotal.Sub(pc.Total)
	return pc, nil
}

// CreateFromCart turns the guest's active cart into an order: lines are
// priced at the current effective price, stock is decremented and the cart
// is marked converted.
//
// Must be called inside a transaction (see storage.Container.WithSalesTx).
func (r *Repository) CreateFromCart(ctx context.Context, token string, ship ShippingInfo) (*Order, error) {
	// 1) Lock the cart row so concurrent checkouts of the same cart serialize.
	var cartID int64
	err := r.q.QueryRow(ctx, `
		SELECT id
		FROM carts
		WHERE guest_token = $1
		  AND status = 'active'
		  AND (expires_at IS NULL OR expires_at > now())
		FOR UPDATE
	`, token).Scan(&cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoActiveCart
		}
		return nil, fmt.Errorf("lock cart: %w", err)
	}

	// 2) Price lines from the catalog as it is now.
	lines, err := r.loadCheckoutLines(ctx, cartID)
	if err != nil {
		return nil, err
	}
	priced, err := priceLines(lines)
	if err != nil {
		return nil, err
	}

	// 3) Order row.
	o, err := scanOrder(r.q.QueryRow(ctx, `
		INSERT INTO orders (
		  order_number, cart_id, status, email,
		  shipping_name, shipping_phone, shipping_address, shipping_city, shipping_postal_code, shipping_country,
		  subtotal, discount, total
		) VALUES (
		  $1, $2, 'pending', $3,
		  $4, $5, $6, $7, $8, $9,
		  $10, $11, $12
		)
		RETURNING `+orderColumns,
		r.gen.Generate(cartID), cartID, ship.Email,
		ship.Name, ship.Phone, ship.Address, ship.City, ship.PostalCode, ship.Country,
		priced.Subtotal, priced.Discount, priced.Total,
	))
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// 4) Item snapshots + stock.
	for _, it := range priced.Items {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO order_items (
			  order_id, product_id, variant_id, product_name, sku, color_name, size_name,
			  quantity, list_unit_price, unit_price, total_price
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, o.ID, it.ProductID, it.VariantID, it.ProductName, it.SKU, it.ColorName, it.SizeName,
			it.Quantity, it.ListUnitPrice, it.UnitPrice, it.TotalPrice); err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
		if err := r.decrementStock(ctx, it); err != nil {
			return nil, err
		}
	}

	// 5) Cart is finished.
	cmd, err := r.q.Exec(ctx, `
		UPDATE carts
		   SET status = 'converted',
		       updated_at = now()
		 WHERE id = $1
		   AND status = 'active'
	`, cartID)
	if err != nil {
		return nil, fmt.Errorf("convert cart: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, fmt.Errorf("cart not active (cannot convert)")
	}

	return o, nil
}

func (r *Repository) loadCheckoutLines(ctx context.Context, cartID int64) ([]checkoutLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT
		  ci.product_id,
		  ci.variant_id,
		  COALESCE(p.name, ''),
		  COALESCE(pv.sku, p.sku),
		  c.name,
		  s.name,
		  ci.quantity,
		  CASE WHEN ci.variant_id IS NULL THEN p.price          ELSE pv.price          END,
		  CASE WHEN ci.variant_id IS NULL THEN p.sale_price     ELSE pv.sale_price     END,
		  CASE WHEN ci.variant_id IS NULL THEN p.stock_quantity ELSE pv.stock_quantity END,
		  NOT COALESCE(p.is_published, FALSE)
		FROM cart_items ci
		LEFT JOIN products p          ON p.id = ci.product_id
		LEFT JOIN product_variants pv ON pv.id = ci.variant_id
		LEFT JOIN colors c            ON c.id = pv.color_id
		LEFT JOIN sizes s             ON s.id = pv.size_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id ASC
	`, cartID)
	if err != nil {
		return nil, fmt.Errorf("checkout lines: %w", err)
	}
	defer rows.Close()

	var out []checkoutLine
	for rows.Next() {
		var (
			l           checkoutLine
			price, sale decimal.NullDecimal
		)
		if err := rows.Scan(
			&l.ProductID, &l.VariantID, &l.ProductName, &l.SKU, &l.ColorName, &l.SizeName,
			&l.Quantity, &price, &sale, &l.Stock, &l.Unpublished,
		); err != nil {
			return nil, fmt.Errorf("scan checkout line: %w", err)
		}
		l.Price = fromNull(price)
		l.SalePrice = fromNull(sale)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// decrementStock takes the item's quantity off the variant (or simple
// product) only if enough is left; otherwise the checkout fails.
func (r *Repository) decrementStock(ctx context.Context, it OrderItem) error {
	query := `
		UPDATE products
		   SET stock_quantity = stock_quantity - $2, updated_at = now()
		 WHERE id = $1 AND stock_quantity >= $2`
	id := *it.ProductID
	if it.VariantID != nil {
		query = `
		UPDATE product_variants
		   SET stock_quantity = stock_quantity - $2
		 WHERE id = $1 AND stock_quantity >= $2`
		id = *it.VariantID
	}

	cmd, err := r.q.Exec(ctx, query, id, it.Quantity)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrInsufficientStock, it.ProductName)
	}
	return nil
}

func (r *Repository) loadItems(ctx context.Context, orderID int64) ([]OrderItem, error) {
	rows, err := r.q.Query(ctx, `
SELECT id, order_id, product_id, variant_id, product_name, sku, color_name, size_name,
       quantity, list_unit_price, unit_price, total_price
FROM order_items
WHERE order_id=$1
ORDER BY id ASC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("order items: %w", err)
	}
	defer rows.Close()

	items := []OrderItem{}
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.VariantID, &it.ProductName, &it.SKU, &it.ColorName, &it.SizeName,
			&it.Quantity, &it.ListUnitPrice, &it.UnitPrice, &it.TotalPrice,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ListAll: admin – optional filter by status, with pagination, newest first.
func (r *Repository) ListAll(ctx context.Context, status Status, limit, offset int) ([]Order, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	if offset < 0 {
		offset = 0
	}

	where := "1=1"
	args := []any{}
	arg := 1

	if status != "" {
		where += fmt.Sprintf(" AND status = $%d", arg)
		args = append(args, string(status))
		arg++
	}

	q := fmt.Sprintf(`
SELECT %s,
       COUNT(*) OVER() AS total_count
FROM orders
WHERE %s
ORDER BY created_at DESC, id DESC
LIMIT $%d OFFSET $%d`, orderColumns, where, arg, arg+1)

	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("admin list orders: %w", err)
	}
	defer rows.Close()

	var (
		out   = []Order{}
		total int
	)
	for rows.Next() {
		var t int
		o, err := scanOrder(rows, &t)
		if err != nil {
			return nil, 0, fmt.Errorf("scan admin order: %w", err)
		}
		if total == 0 {
			total = t
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repository) GetDetail(ctx context.Context, orderID int64) (*OrderDetail, error) {
	o, err := r.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}

	return &OrderDetail{Order: *o, Items: items}, nil
}

// UpdateStatus moves one order to status to. The update only applies when
// the current status may transition to to; otherwise the order is read
// back to tell a missing order from a refused transition.
func (r *Repository) UpdateStatus(ctx context.Context, orderID int64, to Status, opts UpdateStatusOpts) error {
	cmd, err := r.q.Exec(ctx, `
UPDATE orders
SET status = $2,
    cancelled_reason = CASE WHEN $2 = 'cancelled' THEN $3 ELSE cancelled_reason END,
    updated_at       = now()
WHERE id = $1
  AND status = ANY($4)`,
		orderID, string(to), opts.CancelledReason, predecessors(to),
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	o, err := r.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
}

// BulkUpdateStatus applies the same transition to many orders. Orders that
// do not exist or cannot make the transition are reported as skipped.
func (r *Repository) BulkUpdateStatus(ctx context.Context, orderIDs []int64, to Status, opts UpdateStatusOpts) (*BulkResult, error) {
	res := &BulkResult{Updated: []int64{}, Skipped: []int64{}}
	if len(orderIDs) == 0 {
		return res, nil
	}

	rows, err := r.q.Query(ctx, `
UPDATE orders
SET status = $2,
    cancelled_reason = CASE WHEN $2 = 'cancelled' THEN $3 ELSE cancelled_reason END,
    updated_at       = now()
WHERE id = ANY($1)
  AND status = ANY($4)
RETURNING id`,
		orderIDs, string(to), opts.CancelledReason, predecessors(to),
	)
	if err != nil {
		return nil, fmt.Errorf("bulk update order status: %w", err)
	}
	updated, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("bulk update order status: %w", err)
	}

	res.Updated, res.Skipped = partition(orderIDs, updated)
	return res, nil
}

// partition splits requested into ids present in updated and the rest,
// keeping request order and dropping duplicates.
func partition(requested, updated []int64) (done, skipped []int64) {
	ok := make(map[int64]bool, len(updated))
	for _, id := range updated {
		ok[id] = true
	}
	seen := make(map[int64]bool, len(requested))
	done, skipped = []int64{}, []int64{}
	for _, id := range requested {
		if seen[id] {
			continue
		}
		seen[id] = true
		if ok[id] {
			done = append(done, id)
		} else {
			skipped = append(skipped, id)
		}
	}
	return done, skipped
}

func fromNull(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
