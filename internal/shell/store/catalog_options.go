package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/shorepound/TheSandwich/internal/core/catalog"
)

// OptionTableCatalog reads ingredient options from the single generic
// ingredient_options table — the fallback backend shape. Ids are unique
// within a category, not globally.
type OptionTableCatalog struct {
	db *sqlx.DB
}

// NewOptionTableCatalog creates a catalog over the given store's generic
// option table.
func NewOptionTableCatalog(s *SQLiteStore) *OptionTableCatalog {
	return &OptionTableCatalog{db: s.db}
}

func (c *OptionTableCatalog) Resolve(ctx context.Context, cat catalog.Category, id int) (string, error) {
	var name string
	err := c.db.GetContext(ctx, &name, `
		SELECT name FROM ingredient_options WHERE category = ? AND id = ?`, string(cat), id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", catalog.ErrNotFound
	}
	if err != nil {
		return "", NewStoreError("Resolve", string(cat), strconv.Itoa(id), err.Error(), err)
	}
	return name, nil
}

func (c *OptionTableCatalog) ListAll(ctx context.Context, cat catalog.Category) ([]catalog.Option, error) {
	var rows []struct {
		ID   int    `db:"id"`
		Name string `db:"name"`
	}
	err := c.db.SelectContext(ctx, &rows, `
		SELECT id, name FROM ingredient_options WHERE category = ? ORDER BY id`, string(cat))
	if err != nil {
		return nil, NewStoreError("ListAll", string(cat), "", err.Error(), err)
	}

	out := make([]catalog.Option, 0, len(rows))
	for _, r := range rows {
		out = append(out, catalog.Option{ID: r.ID, Name: r.Name, Category: cat})
	}
	return out, nil
}

func (c *OptionTableCatalog) Seed(ctx context.Context, options []catalog.Option) error {
	for _, opt := range options {
		_, err := c.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO ingredient_options (category, id, name)
			VALUES (?, ?, ?)`, string(opt.Category), opt.ID, opt.Name)
		if err != nil {
			return NewStoreError("Seed", string(opt.Category), strconv.Itoa(opt.ID), err.Error(), err)
		}
	}
	return nil
}
