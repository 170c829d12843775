package dictionaries

import (
	"context"
	"errors"
	"fmt"

	"github.com/SameerRifat/e-commerce-sub001/internal/infra/dbx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUnknownKind = errors.New("unknown dictionary kind")
	ErrNotFound    = errors.New("dictionary entry not found")
	ErrDuplicate   = errors.New("entry with this name or slug already exists")
	ErrInUse       = errors.New("entry is referenced by products")
	ErrInvalidSlug = errors.New("invalid slug")
)

type Store interface {
	List(ctx context.Context, kind Kind) ([]Entry, error)
	Create(ctx context.Context, kind Kind, req CreateEntryRequest) (*Entry, error)
	Delete(ctx context.Context, kind Kind, id int64) error
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(db dbx.Querier) *Repository {
	return &Repository{db: db}
}

// pg error helpers (kept local to repository)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isFKViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// columns lists the optional per-kind columns in Entry field order; kinds
// without a column select a typed NULL in its place.
func columns(kind Kind) string {
	logo, parent, hex, order := "NULL::text", "NULL::bigint", "NULL::text", "NULL::int"
	switch kind {
	case KindBrand:
		logo = "logo_url"
	case KindCategory:
		parent = "parent_id"
	case KindColor:
		hex = "hex_code"
	case KindSize:
		order = "sort_order"
	}
	return fmt.Sprintf("id, name, slug, %s, %s, %s, %s", logo, parent, hex, order)
}

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	if err := row.Scan(&e.ID, &e.Name, &e.Slug, &e.LogoURL, &e.ParentID, &e.HexCode, &e.SortOrder); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) List(ctx context.Context, kind Kind) ([]Entry, error) {
	tbl, ok := kinds[kind]
	if !ok {
		return nil, ErrUnknownKind
	}
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s;`, columns(kind), tbl.table, tbl.orderBy)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", tbl.table, err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", tbl.table, err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// Create inserts an entry, deriving the slug from the name when none is given.
// Only the optional field belonging to kind is written.
func (r *Repository) Create(ctx context.Context, kind Kind, req CreateEntryRequest) (*Entry, error) {
	tbl, ok := kinds[kind]
	if !ok {
		return nil, ErrUnknownKind
	}

	slug := req.Slug
	if slug == "" {
		slug = GenerateSlug(req.Name)
	}
	if !IsValidSlug(slug) {
		return nil, ErrInvalidSlug
	}

	cols := "name, slug"
	args := []any{req.Name, slug}
	switch kind {
	case KindBrand:
		cols += ", logo_url"
		args = append(args, req.LogoURL)
	case KindCategory:
		cols += ", parent_id"
		args = append(args, req.ParentID)
	case KindColor:
		cols += ", hex_code"
		args = append(args, req.HexCode)
	case KindSize:
		cols += ", sort_order"
		args = append(args, req.SortOrder)
	}
	placeholders := "$1, $2"
	if len(args) == 3 {
		placeholders += ", $3"
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s;`,
		tbl.table, cols, placeholders, columns(kind))

	e, err := scanEntry(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		if isFKViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("create %s: %w", tbl.table, err)
	}
	return e, nil
}

// Delete removes an entry. Entries still referenced by products or variants
// are refused with ErrInUse.
func (r *Repository) Delete(ctx context.Context, kind Kind, id int64) error {
	tbl, ok := kinds[kind]
	if !ok {
		return ErrUnknownKind
	}
	tag, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1;`, tbl.table), id)
	if err != nil {
		if isFKViolation(err) {
			return ErrInUse
		}
		return fmt.Errorf("delete %s: %w", tbl.table, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
