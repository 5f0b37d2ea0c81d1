package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shorepound/TheSandwich/internal/core/catalog"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// Both backends must behave identically through the Catalog interface; the
// suite runs once per backend.
func catalogBackends(t *testing.T) map[string]Catalog {
	t.Helper()
	return map[string]Catalog{
		"options": NewOptionTableCatalog(setupTestStore(t)),
		"schema":  NewSchemaCatalog(setupTestStore(t)),
	}
}

func TestCatalog_SeedAndResolve(t *testing.T) {
	for name, cat := range catalogBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, cat.Seed(ctx, DefaultSeed()))

			got, err := cat.Resolve(ctx, catalog.Breads, 2)
			require.NoError(t, err)
			assert.Equal(t, "Wheat", got)

			got, err = cat.Resolve(ctx, catalog.Meats, 1)
			require.NoError(t, err)
			assert.Equal(t, "Turkey", got)
		})
	}
}

func TestCatalog_ResolveUnknownID(t *testing.T) {
	for name, cat := range catalogBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, cat.Seed(ctx, DefaultSeed()))

			_, err := cat.Resolve(ctx, catalog.Breads, 999)
			assert.ErrorIs(t, err, catalog.ErrNotFound)
		})
	}
}

func TestCatalog_ListAll(t *testing.T) {
	for name, cat := range catalogBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, cat.Seed(ctx, DefaultSeed()))

			options, err := cat.ListAll(ctx, catalog.Cheeses)
			require.NoError(t, err)
			require.Len(t, options, 4)
			assert.Equal(t, 1, options[0].ID)
			assert.Equal(t, "American", options[0].Name)
			assert.Equal(t, catalog.Cheeses, options[0].Category)
		})
	}
}

func TestCatalog_SeedIsIdempotent(t *testing.T) {
	for name, cat := range catalogBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, cat.Seed(ctx, DefaultSeed()))
			require.NoError(t, cat.Seed(ctx, DefaultSeed()))

			options, err := cat.ListAll(ctx, catalog.Breads)
			require.NoError(t, err)
			assert.Len(t, options, 4)
		})
	}
}

func TestCatalog_IDsScopedPerCategory(t *testing.T) {
	for name, cat := range catalogBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, cat.Seed(ctx, DefaultSeed()))

			// Id 1 exists in every category with a different name.
			bread, err := cat.Resolve(ctx, catalog.Breads, 1)
			require.NoError(t, err)
			topping, err := cat.Resolve(ctx, catalog.Toppings, 1)
			require.NoError(t, err)
			assert.NotEqual(t, bread, topping)
		})
	}
}

// =============================================================================
// Seed File Tests
// =============================================================================

func TestLoadSeedFile(t *testing.T) {
	content := `
breads:
  - Brioche
meats:
  - Pastrami
  - Corned Beef
`
	path := writeTempFile(t, content)

	options, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, options, 3)
	assert.Equal(t, catalog.Option{ID: 1, Name: "Brioche", Category: catalog.Breads}, options[0])
	assert.Equal(t, catalog.Option{ID: 1, Name: "Pastrami", Category: catalog.Meats}, options[1])
	assert.Equal(t, catalog.Option{ID: 2, Name: "Corned Beef", Category: catalog.Meats}, options[2])
}

func TestLoadSeedFile_Missing(t *testing.T) {
	_, err := LoadSeedFile("/nonexistent/menu.yaml")
	assert.Error(t, err)
}

func TestDefaultSeed_CoversAllCategories(t *testing.T) {
	seen := make(map[catalog.Category]int)
	for _, opt := range DefaultSeed() {
		seen[opt.Category]++
	}
	for _, cat := range catalog.Categories() {
		assert.NotZero(t, seen[cat], "category %s has no default options", cat)
	}
}
