// Package composition converts ingredient selections to and from the
// flattened description text persisted with each sandwich order.
//
// The persisted schema stores only a free-text description — no relational
// link from order to ingredient ids — so Encode and Decode together define
// the only durable record of what was chosen. Decode is a best-effort
// inverse: callers must treat decoded ids as a hint, not a guarantee.
package composition

// Selection holds the ingredient ids chosen for a sandwich. All id lists may
// be empty; an absent list and an empty list mean the same thing (no
// selection in that category). List order is display order.
type Selection struct {
	BreadID     *int
	Toasted     bool
	CheeseIDs   []int
	DressingIDs []int
	MeatIDs     []int
	ToppingIDs  []int
}

// Empty reports whether the selection contains no ingredients at all.
func (s Selection) Empty() bool {
	return s.BreadID == nil &&
		len(s.CheeseIDs) == 0 &&
		len(s.DressingIDs) == 0 &&
		len(s.MeatIDs) == 0 &&
		len(s.ToppingIDs) == 0
}

// Encoded is the result of encoding a validated selection.
type Encoded struct {
	// Name is the derived order name, e.g. "Turkey/Ham on Wheat".
	// "Custom Sandwich" when no meats and no bread were selected.
	Name string

	// Description is the flattened composition text, e.g.
	// "Bread: Wheat (toasted); Cheese: Swiss, Cheddar". Nil when the
	// selection produced no blocks.
	Description *string
}
