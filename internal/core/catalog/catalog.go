// Package catalog defines the ingredient reference data and the lookup
// contracts used by the composition encoder and decoder.
package catalog

import (
	"context"
	"errors"
)

// =============================================================================
// Categories
// =============================================================================

// Category identifies one of the five fixed ingredient kinds.
type Category string

const (
	Breads    Category = "breads"
	Cheeses   Category = "cheeses"
	Dressings Category = "dressings"
	Meats     Category = "meats"
	Toppings  Category = "toppings"
)

// Categories returns all known categories in catalog order.
func Categories() []Category {
	return []Category{Breads, Cheeses, Dressings, Meats, Toppings}
}

// Parse maps a path segment or config value to a Category.
// The category set is closed; anything else is rejected.
func Parse(s string) (Category, bool) {
	switch Category(s) {
	case Breads, Cheeses, Dressings, Meats, Toppings:
		return Category(s), true
	}
	return "", false
}

// =============================================================================
// Types
// =============================================================================

// Option is a single selectable ingredient. Options are immutable reference
// data: created by catalog seeding, never mutated by the core.
type Option struct {
	ID       int
	Name     string
	Category Category
}

// ErrNotFound is returned by Resolver implementations when an id does not
// exist in the category. A missing or unconfigured backend must map to this
// error as well, never to a hard failure.
var ErrNotFound = errors.New("catalog option not found")

// =============================================================================
// Lookup Contracts
// =============================================================================

// Resolver resolves an ingredient id to its canonical name within a category.
type Resolver interface {
	Resolve(ctx context.Context, category Category, id int) (string, error)
}

// Browser enumerates all options of a category. The decoder uses it for
// reverse name-to-id lookups; the options endpoint uses it for listing.
type Browser interface {
	ListAll(ctx context.Context, category Category) ([]Option, error)
}
