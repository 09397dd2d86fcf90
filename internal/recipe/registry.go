// Package recipe defines named, ordered compositions of transform specs
// and the process-wide registry they are resolved from. The registry is
// populated once at startup and read-only afterwards.
package recipe

import (
	"fmt"
	"sort"
	"strings"

	"github.com/regimelab/macrostate/internal/transform"
)

// Recipe is an immutable, ordered sequence of transform specs. Order is
// significant: later specs may consume columns produced by earlier ones.
type Recipe struct {
	Name        string
	Description string
	Specs       []transform.Spec
}

// UnknownRecipeError reports a lookup of a recipe name that is not in
// the registry.
type UnknownRecipeError struct {
	Name      string
	Available []string
}

func (e *UnknownRecipeError) Error() string {
	return fmt.Sprintf("unknown recipe %q, available: %s", e.Name, strings.Join(e.Available, ", "))
}

// Registry maps recipe names to recipes. Read-only after construction.
type Registry struct {
	recipes map[string]Recipe
	names   []string
}

// NewRegistry builds a registry from the given recipes. Every spec of
// every recipe is checked for parameter consistency, and output column
// names must be unique within each recipe.
func NewRegistry(recipes []Recipe) (*Registry, error) {
	r := &Registry{
		recipes: make(map[string]Recipe, len(recipes)),
		names:   make([]string, 0, len(recipes)),
	}
	for _, rec := range recipes {
		if rec.Name == "" {
			return nil, fmt.Errorf("recipe with empty name")
		}
		if _, dup := r.recipes[rec.Name]; dup {
			return nil, fmt.Errorf("duplicate recipe %q", rec.Name)
		}
		if err := validateRecipe(rec); err != nil {
			return nil, fmt.Errorf("recipe %q: %w", rec.Name, err)
		}
		r.recipes[rec.Name] = rec
		r.names = append(r.names, rec.Name)
	}
	sort.Strings(r.names)
	return r, nil
}

// Resolve returns the named recipe or an UnknownRecipeError.
func (r *Registry) Resolve(name string) (Recipe, error) {
	rec, ok := r.recipes[name]
	if !ok {
		return Recipe{}, &UnknownRecipeError{Name: name, Available: r.Names()}
	}
	return rec, nil
}

// Names returns the registered recipe names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func validateRecipe(rec Recipe) error {
	if len(rec.Specs) == 0 {
		return fmt.Errorf("no transform specs")
	}
	seen := make(map[string]int)
	for pos, spec := range rec.Specs {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("spec at position %d: %w", pos, err)
		}
		for _, out := range spec.Outputs() {
			if prev, dup := seen[out]; dup {
				return fmt.Errorf("output column %q produced by specs at positions %d and %d", out, prev, pos)
			}
			seen[out] = pos
		}
	}
	return nil
}
