package carts

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotal(t *testing.T) {
	lines := []CartLine{
		{Quantity: 2, UnitPrice: decimal.RequireFromString("19.99")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
	}

	total := Total(lines)

	assert.Equal(t, "44.98", total.StringFixed(2))
	assert.Equal(t, "39.98", lines[0].LineTotal.StringFixed(2))
	assert.True(t, Total(nil).IsZero())
}

// noDB fails the test if any query reaches it.
type noDB struct{ t *testing.T }

func (d noDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	d.t.Fatal("unexpected Exec")
	return pgconn.CommandTag{}, nil
}

func (d noDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	d.t.Fatal("unexpected Query")
	return nil, nil
}

func (d noDB) QueryRow(context.Context, string, ...any) pgx.Row {
	d.t.Fatal("unexpected QueryRow")
	return nil
}

func TestMalformedTokenNeverQueries(t *testing.T) {
	repo := NewRepository(noDB{t})
	ctx := context.Background()

	_, err := repo.GetView(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrCartNotFound)

	err = repo.AddItem(ctx, "", Line{ProductID: 1, Quantity: 1})
	assert.ErrorIs(t, err, ErrCartNotFound)

	err = repo.RemoveItem(ctx, "abc", 1)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestQuantityValidatedFirst(t *testing.T) {
	repo := NewRepository(noDB{t})
	ctx := context.Background()
	token := "2f1c9a52-8d7e-4a55-9a3e-3f1f7e0a6b11"

	err := repo.AddItem(ctx, token, Line{ProductID: 1, Quantity: 0})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	err = repo.UpdateItemQty(ctx, token, 1, -1)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}
