package composition

import (
	"context"
	"errors"
	"strings"

	"github.com/shorepound/TheSandwich/internal/core/catalog"
)

// DefaultName is the derived order name when no meats and no bread were
// selected.
const DefaultName = "Custom Sandwich"

// Description block labels, in the fixed emit order.
const (
	labelBread    = "Bread"
	labelCheese   = "Cheese"
	labelDressing = "Dressing"
	labelMeats    = "Meats"
	labelToppings = "Toppings"
)

// Encode validates every id in the selection against the catalog and renders
// the canonical order name and the flattened description text.
//
// Validation errors are collected per field: if any id in any category fails
// to resolve, Encode returns a ValidationErrors naming every offending field
// and nothing is partially applied. A store failure (anything other than
// catalog.ErrNotFound) aborts immediately with that error.
func Encode(ctx context.Context, resolver catalog.Resolver, sel Selection) (Encoded, error) {
	errs := ValidationErrors{}

	var bread string
	if sel.BreadID != nil {
		name, err := resolver.Resolve(ctx, catalog.Breads, *sel.BreadID)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			errs[FieldBreadID] = "Bread not found"
		case err != nil:
			return Encoded{}, err
		default:
			bread = name
		}
	}

	cheeses, err := resolveAll(ctx, resolver, catalog.Cheeses, sel.CheeseIDs, FieldCheeseIDs, "One or more cheeses not found", errs)
	if err != nil {
		return Encoded{}, err
	}
	dressings, err := resolveAll(ctx, resolver, catalog.Dressings, sel.DressingIDs, FieldDressingIDs, "One or more dressings not found", errs)
	if err != nil {
		return Encoded{}, err
	}
	meats, err := resolveAll(ctx, resolver, catalog.Meats, sel.MeatIDs, FieldMeatIDs, "One or more meats not found", errs)
	if err != nil {
		return Encoded{}, err
	}
	toppings, err := resolveAll(ctx, resolver, catalog.Toppings, sel.ToppingIDs, FieldToppingIDs, "One or more toppings not found", errs)
	if err != nil {
		return Encoded{}, err
	}

	if len(errs) > 0 {
		return Encoded{}, errs
	}

	return Encoded{
		Name:        deriveName(bread, meats),
		Description: deriveDescription(bread, sel.Toasted, cheeses, dressings, meats, toppings),
	}, nil
}

// resolveAll resolves every id of one category. The first unresolvable id
// records the field error; remaining ids of that category are skipped but
// other categories still get validated.
func resolveAll(ctx context.Context, resolver catalog.Resolver, cat catalog.Category, ids []int, field, message string, errs ValidationErrors) ([]string, error) {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		name, err := resolver.Resolve(ctx, cat, id)
		if errors.Is(err, catalog.ErrNotFound) {
			errs[field] = message
			break
		}
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// deriveName builds the order name: meats joined by "/", then "on <bread>",
// space separated. With neither, the name is DefaultName.
func deriveName(bread string, meats []string) string {
	var parts []string
	if len(meats) > 0 {
		parts = append(parts, strings.Join(meats, "/"))
	}
	if strings.TrimSpace(bread) != "" {
		parts = append(parts, "on "+bread)
	}
	if len(parts) == 0 {
		return DefaultName
	}
	return strings.Join(parts, " ")
}

// deriveDescription emits the category blocks that have at least one
// non-blank resolved name, in fixed order, joined by "; ". Nil when no block
// is present.
func deriveDescription(bread string, toasted bool, cheeses, dressings, meats, toppings []string) *string {
	var blocks []string

	if strings.TrimSpace(bread) != "" {
		text := bread
		if toasted {
			text += " (toasted)"
		}
		blocks = append(blocks, labelBread+": "+text)
	}

	for _, block := range []struct {
		label string
		names []string
	}{
		{labelCheese, cheeses},
		{labelDressing, dressings},
		{labelMeats, meats},
		{labelToppings, toppings},
	} {
		present := filterBlank(block.names)
		if len(present) > 0 {
			blocks = append(blocks, block.label+": "+strings.Join(present, ", "))
		}
	}

	if len(blocks) == 0 {
		return nil
	}
	desc := strings.Join(blocks, "; ")
	return &desc
}

// filterBlank drops blank and whitespace-only names. Blank names are not a
// validation failure, they just never appear in the description.
func filterBlank(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) != "" {
			out = append(out, n)
		}
	}
	return out
}
