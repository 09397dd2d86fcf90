// Package pipeline resolves recipes into executable transform sequences
// and runs them against an input table. Validation is fail-fast: every
// column reference is resolved against the input table plus earlier
// outputs before any computation starts.
package pipeline

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/regimelab/macrostate/internal/dataset"
	"github.com/regimelab/macrostate/internal/recipe"
)

// Options control a single pipeline run.
type Options struct {
	// AsOf, when set, truncates the input table to rows at or before the
	// cutoff. The truncation happens before any transform executes, so a
	// cutoff can never leak later rows into rolling statistics.
	AsOf *time.Time
}

// Result is the outcome of a pipeline run.
type Result struct {
	Table  *dataset.Table
	Recipe string

	// InputRows is the row count after the as-of truncation, before any
	// transform ran.
	InputRows int

	// WarmupMissing counts, per derived column, the missing markers the
	// transforms produced: insufficient rolling history, degenerate
	// variance, or missing inputs. Expected and non-fatal.
	WarmupMissing map[string]int
}

// Run resolves the named recipe from the registry and executes it
// against input. The input table is never modified; each step consumes
// the table state produced by the previous one. Deterministic: the same
// input and recipe always yield byte-identical columns.
func Run(reg *recipe.Registry, name string, input *dataset.Table, opts Options) (*Result, error) {
	rec, err := reg.Resolve(name)
	if err != nil {
		return nil, err
	}

	cur := input
	if opts.AsOf != nil {
		cur = cur.TruncateAsOf(*opts.AsOf)
		log.Debug().
			Str("recipe", name).
			Time("asof", *opts.AsOf).
			Int("rows_before", input.Len()).
			Int("rows_after", cur.Len()).
			Msg("Applied as-of cutoff")
	}

	if err := validateColumnResolution(rec, cur); err != nil {
		return nil, err
	}

	res := &Result{
		Recipe:        name,
		InputRows:     cur.Len(),
		WarmupMissing: make(map[string]int),
	}

	for pos, spec := range rec.Specs {
		next, err := spec.Apply(cur)
		if err != nil {
			return nil, fmt.Errorf("spec %s at position %d: %w", spec, pos, err)
		}
		for _, out := range spec.Outputs() {
			if n := next.MissingCount(out); n > 0 {
				res.WarmupMissing[out] = n
			}
		}
		log.Debug().
			Str("recipe", name).
			Int("position", pos).
			Str("kind", string(spec.Kind)).
			Int("rows", next.Len()).
			Msg("Transform step complete")
		cur = next
	}

	if len(res.WarmupMissing) > 0 {
		total := 0
		for _, n := range res.WarmupMissing {
			total += n
		}
		log.Warn().
			Str("recipe", name).
			Int("columns", len(res.WarmupMissing)).
			Int("missing_values", total).
			Msg("Insufficient history produced missing values in derived columns")
	}

	res.Table = cur
	return res, nil
}

// validateColumnResolution walks the recipe in order and checks that
// every source column either exists in the input table or is produced by
// an earlier spec. Output names must not shadow columns already present.
func validateColumnResolution(rec recipe.Recipe, input *dataset.Table) error {
	available := make(map[string]bool)
	for _, name := range input.Columns() {
		available[name] = true
	}

	for pos, spec := range rec.Specs {
		for _, src := range spec.Sources() {
			if !available[src] {
				return &dataset.UnresolvedColumnError{Column: src, Position: pos}
			}
		}
		for _, out := range spec.Outputs() {
			if available[out] {
				return fmt.Errorf("spec %s at position %d: output column %q already exists", spec, pos, out)
			}
			available[out] = true
		}
	}
	return nil
}
