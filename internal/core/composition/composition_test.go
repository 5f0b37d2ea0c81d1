package composition

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shorepound/TheSandwich/internal/core/catalog"
)

// =============================================================================
// Test Fixtures
// =============================================================================

// fakeCatalog is an in-memory Resolver+Browser for encoder/decoder tests.
type fakeCatalog struct {
	options map[catalog.Category][]catalog.Option
	err     error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{options: map[catalog.Category][]catalog.Option{
		catalog.Breads: {
			{ID: 1, Name: "White", Category: catalog.Breads},
			{ID: 2, Name: "Wheat", Category: catalog.Breads},
		},
		catalog.Cheeses: {
			{ID: 1, Name: "American", Category: catalog.Cheeses},
			{ID: 2, Name: "Swiss", Category: catalog.Cheeses},
			{ID: 3, Name: "Cheddar", Category: catalog.Cheeses},
		},
		catalog.Dressings: {
			{ID: 1, Name: "Mayo", Category: catalog.Dressings},
			{ID: 2, Name: "Mustard", Category: catalog.Dressings},
		},
		catalog.Meats: {
			{ID: 1, Name: "Turkey", Category: catalog.Meats},
			{ID: 2, Name: "Ham", Category: catalog.Meats},
		},
		catalog.Toppings: {
			{ID: 1, Name: "Lettuce", Category: catalog.Toppings},
			{ID: 2, Name: "Tomato", Category: catalog.Toppings},
		},
	}}
}

func (f *fakeCatalog) Resolve(_ context.Context, cat catalog.Category, id int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	for _, opt := range f.options[cat] {
		if opt.ID == id {
			return opt.Name, nil
		}
	}
	return "", catalog.ErrNotFound
}

func (f *fakeCatalog) ListAll(_ context.Context, cat catalog.Category) ([]catalog.Option, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.options[cat], nil
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

// =============================================================================
// Encoder Tests
// =============================================================================

func TestEncode_EmptySelection(t *testing.T) {
	encoded, err := Encode(context.Background(), newFakeCatalog(), Selection{})
	require.NoError(t, err)

	assert.Equal(t, "Custom Sandwich", encoded.Name)
	assert.Nil(t, encoded.Description)
}

func TestEncode_BreadOnly(t *testing.T) {
	encoded, err := Encode(context.Background(), newFakeCatalog(), Selection{
		BreadID: intPtr(2),
	})
	require.NoError(t, err)

	assert.Equal(t, "on Wheat", encoded.Name)
	require.NotNil(t, encoded.Description)
	assert.Equal(t, "Bread: Wheat", *encoded.Description)
}

func TestEncode_ToastedBread(t *testing.T) {
	encoded, err := Encode(context.Background(), newFakeCatalog(), Selection{
		BreadID: intPtr(2),
		Toasted: true,
	})
	require.NoError(t, err)

	require.NotNil(t, encoded.Description)
	assert.Equal(t, "Bread: Wheat (toasted)", *encoded.Description)
}

func TestEncode_MeatsAndBreadName(t *testing.T) {
	encoded, err := Encode(context.Background(), newFakeCatalog(), Selection{
		BreadID: intPtr(2),
		MeatIDs: []int{1, 2},
	})
	require.NoError(t, err)

	assert.Equal(t, "Turkey/Ham on Wheat", encoded.Name)
}

func TestEncode_MeatsWithoutBread(t *testing.T) {
	encoded, err := Encode(context.Background(), newFakeCatalog(), Selection{
		MeatIDs: []int{1},
	})
	require.NoError(t, err)

	assert.Equal(t, "Turkey", encoded.Name)
	require.NotNil(t, encoded.Description)
	assert.Equal(t, "Meats: Turkey", *encoded.Description)
}

func TestEncode_FullSelection(t *testing.T) {
	encoded, err := Encode(context.Background(), newFakeCatalog(), Selection{
		BreadID:     intPtr(2),
		Toasted:     true,
		CheeseIDs:   []int{2, 3},
		DressingIDs: []int{1},
		MeatIDs:     []int{1},
		ToppingIDs:  []int{1, 2},
	})
	require.NoError(t, err)

	assert.Equal(t, "Turkey on Wheat", encoded.Name)
	require.NotNil(t, encoded.Description)
	assert.Equal(t,
		"Bread: Wheat (toasted); Cheese: Swiss, Cheddar; Dressing: Mayo; Meats: Turkey; Toppings: Lettuce, Tomato",
		*encoded.Description)
}

func TestEncode_BlankNamesFiltered(t *testing.T) {
	cat := newFakeCatalog()
	cat.options[catalog.Toppings] = []catalog.Option{
		{ID: 1, Name: "  ", Category: catalog.Toppings},
		{ID: 2, Name: "Tomato", Category: catalog.Toppings},
	}

	encoded, err := Encode(context.Background(), cat, Selection{
		ToppingIDs: []int{1, 2},
	})
	require.NoError(t, err)

	require.NotNil(t, encoded.Description)
	assert.Equal(t, "Toppings: Tomato", *encoded.Description)
}

func TestEncode_AllBlankYieldsNilDescription(t *testing.T) {
	cat := newFakeCatalog()
	cat.options[catalog.Toppings] = []catalog.Option{
		{ID: 1, Name: " ", Category: catalog.Toppings},
	}

	encoded, err := Encode(context.Background(), cat, Selection{
		ToppingIDs: []int{1},
	})
	require.NoError(t, err)

	assert.Equal(t, "Custom Sandwich", encoded.Name)
	assert.Nil(t, encoded.Description)
}

func TestEncode_UnknownBread(t *testing.T) {
	_, err := Encode(context.Background(), newFakeCatalog(), Selection{
		BreadID: intPtr(99),
	})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Bread not found", verrs[FieldBreadID])
}

func TestEncode_CollectsErrorsAcrossCategories(t *testing.T) {
	_, err := Encode(context.Background(), newFakeCatalog(), Selection{
		BreadID:    intPtr(99),
		CheeseIDs:  []int{1, 99},
		MeatIDs:    []int{1},
		ToppingIDs: []int{99},
	})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
	assert.Equal(t, "Bread not found", verrs[FieldBreadID])
	assert.Equal(t, "One or more cheeses not found", verrs[FieldCheeseIDs])
	assert.Equal(t, "One or more toppings not found", verrs[FieldToppingIDs])
	assert.NotContains(t, verrs, FieldMeatIDs)
}

func TestEncode_StoreFailureAborts(t *testing.T) {
	cat := newFakeCatalog()
	cat.err = errors.New("disk on fire")

	_, err := Encode(context.Background(), cat, Selection{BreadID: intPtr(1)})
	require.Error(t, err)

	var verrs ValidationErrors
	assert.False(t, errors.As(err, &verrs))
}

func TestValidationErrors_ErrorString(t *testing.T) {
	errs := ValidationErrors{
		FieldMeatIDs: "One or more meats not found",
		FieldBreadID: "Bread not found",
	}
	assert.Equal(t,
		"validation failed: breadId: Bread not found, meatIds: One or more meats not found",
		errs.Error())
}

// =============================================================================
// Decoder Tests
// =============================================================================

func TestDecode_NilDescription(t *testing.T) {
	d := NewDecoder(newFakeCatalog(), nil)

	sel := d.Decode(context.Background(), nil)
	assert.True(t, sel.Empty())
	assert.False(t, sel.Toasted)
}

func TestDecode_RoundTrip(t *testing.T) {
	cat := newFakeCatalog()
	original := Selection{
		BreadID:     intPtr(2),
		Toasted:     true,
		CheeseIDs:   []int{2, 3},
		DressingIDs: []int{1},
		MeatIDs:     []int{1},
		ToppingIDs:  []int{1, 2},
	}

	encoded, err := Encode(context.Background(), cat, original)
	require.NoError(t, err)

	sel := NewDecoder(cat, nil).Decode(context.Background(), encoded.Description)
	assert.Equal(t, original, sel)
}

func TestDecode_ToastedMarkerStripped(t *testing.T) {
	d := NewDecoder(newFakeCatalog(), nil)

	sel := d.Decode(context.Background(), strPtr("Bread: Wheat (toasted)"))
	require.NotNil(t, sel.BreadID)
	assert.Equal(t, 2, *sel.BreadID)
	assert.True(t, sel.Toasted)
}

func TestDecode_CaseInsensitive(t *testing.T) {
	d := NewDecoder(newFakeCatalog(), nil)

	sel := d.Decode(context.Background(), strPtr("BREAD: wheat; cheese: SWISS"))
	require.NotNil(t, sel.BreadID)
	assert.Equal(t, 2, *sel.BreadID)
	assert.Equal(t, []int{2}, sel.CheeseIDs)
}

func TestDecode_SingularLabels(t *testing.T) {
	d := NewDecoder(newFakeCatalog(), nil)

	sel := d.Decode(context.Background(), strPtr("Meat: Ham; Topping: Lettuce"))
	assert.Equal(t, []int{2}, sel.MeatIDs)
	assert.Equal(t, []int{1}, sel.ToppingIDs)
}

func TestDecode_UnknownNamesDropped(t *testing.T) {
	d := NewDecoder(newFakeCatalog(), nil)

	sel := d.Decode(context.Background(), strPtr("Bread: Pumpernickel; Cheese: Swiss, Gouda"))
	assert.Nil(t, sel.BreadID)
	assert.Equal(t, []int{2}, sel.CheeseIDs)
}

func TestDecode_MalformedSegmentsIgnored(t *testing.T) {
	d := NewDecoder(newFakeCatalog(), nil)

	sel := d.Decode(context.Background(), strPtr("hello world; ; Sauce: Secret; Cheese: Cheddar"))
	assert.Nil(t, sel.BreadID)
	assert.Equal(t, []int{3}, sel.CheeseIDs)
}

func TestDecode_CatalogFailureDegrades(t *testing.T) {
	cat := newFakeCatalog()
	cat.err = errors.New("db gone")
	d := NewDecoder(cat, nil)

	sel := d.Decode(context.Background(), strPtr("Bread: Wheat; Cheese: Swiss"))
	assert.True(t, sel.Empty())
}

// =============================================================================
// Selection Tests
// =============================================================================

func TestSelection_Empty(t *testing.T) {
	assert.True(t, Selection{}.Empty())
	assert.True(t, Selection{Toasted: true}.Empty())
	assert.False(t, Selection{BreadID: intPtr(1)}.Empty())
	assert.False(t, Selection{CheeseIDs: []int{1}}.Empty())
}
