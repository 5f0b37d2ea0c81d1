package composition

import (
	"fmt"
	"sort"
	"strings"
)

// Request field names used in validation errors. These match the JSON field
// names of the builder request so clients can map errors onto form inputs.
const (
	FieldBreadID     = "breadId"
	FieldCheeseIDs   = "cheeseIds"
	FieldDressingIDs = "dressingIds"
	FieldMeatIDs     = "meatIds"
	FieldToppingIDs  = "toppingIds"
)

// ValidationErrors collects per-field validation failures so a client sees
// every invalid field in one response rather than fixing them one at a time.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
