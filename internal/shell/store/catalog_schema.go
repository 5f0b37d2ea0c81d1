package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/shorepound/TheSandwich/internal/core/catalog"
)

// categoryTables maps each category to its dedicated table. Acts as a
// whitelist: table names are only ever taken from this map, never from input.
var categoryTables = map[catalog.Category]string{
	catalog.Breads:    "breads",
	catalog.Cheeses:   "cheeses",
	catalog.Dressings: "dressings",
	catalog.Meats:     "meats",
	catalog.Toppings:  "toppings",
}

// SchemaCatalog reads ingredient options from one table per category — the
// full-schema backend shape.
type SchemaCatalog struct {
	db *sqlx.DB
}

// NewSchemaCatalog creates a catalog over the per-category tables of the
// given store's database.
func NewSchemaCatalog(s *SQLiteStore) *SchemaCatalog {
	return &SchemaCatalog{db: s.db}
}

func (c *SchemaCatalog) Resolve(ctx context.Context, cat catalog.Category, id int) (string, error) {
	table, ok := categoryTables[cat]
	if !ok {
		return "", catalog.ErrNotFound
	}

	var name string
	err := c.db.GetContext(ctx, &name, fmt.Sprintf(`SELECT name FROM %s WHERE id = ?`, table), id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", catalog.ErrNotFound
	}
	if err != nil {
		return "", NewStoreError("Resolve", string(cat), strconv.Itoa(id), err.Error(), err)
	}
	return name, nil
}

func (c *SchemaCatalog) ListAll(ctx context.Context, cat catalog.Category) ([]catalog.Option, error) {
	table, ok := categoryTables[cat]
	if !ok {
		return nil, nil
	}

	var rows []struct {
		ID   int    `db:"id"`
		Name string `db:"name"`
	}
	err := c.db.SelectContext(ctx, &rows, fmt.Sprintf(`SELECT id, name FROM %s ORDER BY id`, table))
	if err != nil {
		return nil, NewStoreError("ListAll", string(cat), "", err.Error(), err)
	}

	out := make([]catalog.Option, 0, len(rows))
	for _, r := range rows {
		out = append(out, catalog.Option{ID: r.ID, Name: r.Name, Category: cat})
	}
	return out, nil
}

func (c *SchemaCatalog) Seed(ctx context.Context, options []catalog.Option) error {
	for _, opt := range options {
		table, ok := categoryTables[opt.Category]
		if !ok {
			continue
		}
		_, err := c.db.ExecContext(ctx,
			fmt.Sprintf(`INSERT OR IGNORE INTO %s (id, name) VALUES (?, ?)`, table),
			opt.ID, opt.Name)
		if err != nil {
			return NewStoreError("Seed", string(opt.Category), strconv.Itoa(opt.ID), err.Error(), err)
		}
	}
	return nil
}
