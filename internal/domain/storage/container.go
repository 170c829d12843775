package storage

import (
	"context"
	"fmt"

	"github.com/SameerRifat/e-commerce-sub001/internal/domain/carts"
	"github.com/SameerRifat/e-commerce-sub001/internal/domain/catalog"
	"github.com/SameerRifat/e-commerce-sub001/internal/domain/dictionaries"
	"github.com/SameerRifat/e-commerce-sub001/internal/domain/orders"
	"github.com/SameerRifat/e-commerce-sub001/internal/domain/products"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Sales struct {
	Carts  carts.Store
	Orders orders.Store
}

type Container struct {
	pool         *pgxpool.Pool // IMPORTANT: set the pool so WithSalesTx works
	orderNumbers *orders.OrderNumberGenerator

	Catalog      catalog.Store
	Products     products.Store
	Dictionaries dictionaries.Store
	Sales        Sales
}

func NewContainer(db *pgxpool.Pool, gen *orders.OrderNumberGenerator) *Container {
	return &Container{
		pool:         db,
		orderNumbers: gen,
		Catalog:      catalog.NewRepository(db),
		Products:     products.NewRepository(db),
		Dictionaries: dictionaries.NewRepository(db),
		Sales: Sales{
			Carts:  carts.NewRepository(db),
			Orders: orders.NewRepository(db, gen),
		},
	}
}

// SalesTx is a temporary, tx-scoped set of repos for atomic units of work.
type SalesTx struct {
	Carts  carts.Store
	Orders orders.Store
}

// WithSalesTx runs a sales unit-of-work atomically.
func (c *Container) WithSalesTx(ctx context.Context, fn func(s *SalesTx) error) error {
	if c.pool == nil {
		return fmt.Errorf("storage container pool is nil (did you forget to set pool in NewContainer?)")
	}

	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx) // safe even if already committed
	}()

	s := &SalesTx{
		Carts:  carts.NewRepository(tx),
		Orders: orders.NewRepository(tx, c.orderNumbers),
	}

	if err := fn(s); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Ping checks the database is reachable.
func (c *Container) Ping(ctx context.Context) error {
	if c.pool == nil {
		return fmt.Errorf("storage container pool is nil")
	}
	return c.pool.Ping(ctx)
}
