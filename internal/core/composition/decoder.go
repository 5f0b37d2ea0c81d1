package composition

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shorepound/TheSandwich/internal/core/catalog"
)

const toastedMarker = "(toasted)"

// Decoder reconstructs a Selection from persisted description text by
// reverse-resolving names against the current catalog.
//
// Decoding is best effort and never fails: unmatched names are dropped, and
// any catalog failure degrades to the partial result built so far. The
// reverse lookup is an exact case-insensitive name match, so a renamed or
// duplicated ingredient can silently resolve wrong — a warning is logged
// when a category contains duplicate names.
type Decoder struct {
	catalog catalog.Browser
	logger  *slog.Logger
}

// NewDecoder creates a decoder backed by the given catalog.
func NewDecoder(c catalog.Browser, logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{catalog: c, logger: logger}
}

// Decode parses a persisted description string back into ingredient ids.
// A nil or empty description yields an empty Selection.
func (d *Decoder) Decode(ctx context.Context, description *string) Selection {
	var sel Selection
	if description == nil || strings.TrimSpace(*description) == "" {
		return sel
	}

	for _, segment := range strings.Split(*description, ";") {
		segment = strings.TrimSpace(segment)
		lower := strings.ToLower(segment)

		switch {
		case strings.HasPrefix(lower, "bread:"):
			d.decodeBread(ctx, segment[len("bread:"):], &sel)
		case strings.HasPrefix(lower, "cheese:"):
			sel.CheeseIDs = d.decodeList(ctx, catalog.Cheeses, segment[len("cheese:"):])
		case strings.HasPrefix(lower, "dressing:"):
			sel.DressingIDs = d.decodeList(ctx, catalog.Dressings, segment[len("dressing:"):])
		case strings.HasPrefix(lower, "meats:"):
			sel.MeatIDs = d.decodeList(ctx, catalog.Meats, segment[len("meats:"):])
		case strings.HasPrefix(lower, "meat:"):
			sel.MeatIDs = d.decodeList(ctx, catalog.Meats, segment[len("meat:"):])
		case strings.HasPrefix(lower, "toppings:"):
			sel.ToppingIDs = d.decodeList(ctx, catalog.Toppings, segment[len("toppings:"):])
		case strings.HasPrefix(lower, "topping:"):
			sel.ToppingIDs = d.decodeList(ctx, catalog.Toppings, segment[len("topping:"):])
		}
	}
	return sel
}

// decodeBread handles the bread segment: a trailing "(toasted)" marker sets
// the toasted flag, the rest is the bread name.
func (d *Decoder) decodeBread(ctx context.Context, rest string, sel *Selection) {
	name := strings.TrimSpace(rest)
	if strings.HasSuffix(strings.ToLower(name), toastedMarker) {
		sel.Toasted = true
		name = strings.TrimSpace(name[:len(name)-len(toastedMarker)])
	}
	if name == "" {
		return
	}
	if id, ok := d.lookup(ctx, catalog.Breads, name); ok {
		sel.BreadID = &id
	}
}

// decodeList splits a multi-value segment on "," and reverse-resolves each
// token. Unmatched tokens are dropped.
func (d *Decoder) decodeList(ctx context.Context, cat catalog.Category, rest string) []int {
	var ids []int
	for _, token := range strings.Split(rest, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if id, ok := d.lookup(ctx, cat, token); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// lookup reverse-resolves a name within a category, first match wins.
func (d *Decoder) lookup(ctx context.Context, cat catalog.Category, name string) (int, bool) {
	options, err := d.catalog.ListAll(ctx, cat)
	if err != nil {
		d.logger.Warn("catalog lookup failed during decode", "category", cat, "error", err)
		return 0, false
	}

	seen := make(map[string]int, len(options))
	match, found := 0, false
	for _, opt := range options {
		key := strings.ToLower(opt.Name)
		if prev, dup := seen[key]; dup {
			d.logger.Warn("duplicate ingredient name in catalog",
				"category", cat, "name", opt.Name, "ids", []int{prev, opt.ID})
		} else {
			seen[key] = opt.ID
		}
		if !found && strings.EqualFold(opt.Name, name) {
			match, found = opt.ID, true
		}
	}
	return match, found
}
