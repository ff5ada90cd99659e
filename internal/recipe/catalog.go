package recipe

import (
	"errors"
	"fmt"
)

// ErrCatalogEmpty is returned when a source yields no usable recipes.
var ErrCatalogEmpty = errors.New("catalog has no usable recipes")

// Catalog is the read-only recipe table shared by every plan generation.
// It is built once at startup and exposes no mutation API; a failed load
// is kept as a Catalog whose Err is set so callers can report it per request.
type Catalog struct {
	source  string
	recipes []Recipe
	err     error
}

// NewCatalog builds a catalog from recipes, keeping only entries that satisfy
// the catalog invariants.
func NewCatalog(source string, recipes []Recipe) *Catalog {
	kept := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if r.Valid() {
			kept = append(kept, r)
		}
	}
	c := &Catalog{source: source, recipes: kept}
	if len(kept) == 0 {
		c.err = fmt.Errorf("%s: %w", source, ErrCatalogEmpty)
	}
	return c
}

// FromRows cleans raw rows and builds a catalog from the result.
func FromRows(source string, rows []Row) *Catalog {
	return NewCatalog(source, Clean(rows))
}

// Unavailable records a catalog that could not be loaded.
func Unavailable(source string, err error) *Catalog {
	if err == nil {
		err = ErrCatalogEmpty
	}
	return &Catalog{source: source, err: err}
}

// Recipes returns a copy of the catalog contents.
func (c *Catalog) Recipes() []Recipe {
	if c == nil {
		return nil
	}
	out := make([]Recipe, len(c.recipes))
	copy(out, c.recipes)
	return out
}

// Len reports the number of usable recipes.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.recipes)
}

// Source names where the catalog was loaded from.
func (c *Catalog) Source() string {
	if c == nil {
		return ""
	}
	return c.source
}

// Err reports why the catalog is unavailable, or nil when it loaded.
func (c *Catalog) Err() error {
	if c == nil {
		return ErrCatalogEmpty
	}
	return c.err
}
