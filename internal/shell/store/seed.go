package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shorepound/TheSandwich/internal/core/catalog"
)

// seedFile is the YAML shape of a catalog seed file: category name to an
// ordered list of ingredient names. Ids are assigned from list position
// (1-based) so re-seeding the same file is stable.
type seedFile struct {
	Breads    []string `yaml:"breads"`
	Cheeses   []string `yaml:"cheeses"`
	Dressings []string `yaml:"dressings"`
	Meats     []string `yaml:"meats"`
	Toppings  []string `yaml:"toppings"`
}

// LoadSeedFile reads a catalog seed file and returns the options it defines.
func LoadSeedFile(path string) ([]catalog.Option, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	return f.options(), nil
}

// DefaultSeed returns the built-in sample catalog, used when no seed file is
// configured so a fresh database is immediately usable.
func DefaultSeed() []catalog.Option {
	f := seedFile{
		Breads:    []string{"White", "Wheat", "Sourdough", "Rye"},
		Cheeses:   []string{"American", "Swiss", "Cheddar", "Provolone"},
		Dressings: []string{"Mayo", "Mustard", "Italian", "Ranch"},
		Meats:     []string{"Turkey", "Ham", "Roast Beef", "Salami"},
		Toppings:  []string{"Lettuce", "Tomato", "Onion", "Pickles"},
	}
	return f.options()
}

func (f seedFile) options() []catalog.Option {
	var out []catalog.Option
	appendCategory := func(cat catalog.Category, names []string) {
		for i, name := range names {
			out = append(out, catalog.Option{ID: i + 1, Name: name, Category: cat})
		}
	}
	appendCategory(catalog.Breads, f.Breads)
	appendCategory(catalog.Cheeses, f.Cheeses)
	appendCategory(catalog.Dressings, f.Dressings)
	appendCategory(catalog.Meats, f.Meats)
	appendCategory(catalog.Toppings, f.Toppings)
	return out
}
