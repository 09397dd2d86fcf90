// Package transform implements the feature transform primitives and the
// spec vocabulary the recipe catalog is composed from.
//
// Every primitive consumes a read-only table and returns a new one. The
// time-dependent primitives (z-score, momentum) are leakage-safe: the
// value attributed to row t is a function of rows strictly before t, the
// sole exception being the z-score numerator, which intentionally
// measures the current level against past statistics. Drawdown includes
// the current row in its own running peak, which is a same-period
// statistic, not a look-ahead.
package transform

import (
	"fmt"

	"github.com/regimelab/macrostate/internal/dataset"
)

// Kind identifies a transform primitive. The set is closed: recipes are
// composed only from these kinds and dispatch is a single switch.
type Kind string

const (
	KindZScore    Kind = "zscore"
	KindMomentum  Kind = "momentum"
	KindDrawdown  Kind = "drawdown"
	KindSlope     Kind = "slope"
	KindSignFlip  Kind = "signflip"
	KindCumReturn Kind = "cumret"
	KindDropNA    Kind = "dropna"
)

// Spec is one step of a recipe: a transform kind plus the parameter
// record for that kind. Exactly one parameter field matching Kind must be
// set.
type Spec struct {
	Kind Kind

	ZScore    *ZScoreParams
	Momentum  *MomentumParams
	Drawdown  *DrawdownParams
	Slope     *SlopeParams
	SignFlip  *SignFlipParams
	CumReturn *CumReturnParams
	DropNA    *DropNAParams
}

// Sources returns the input column names the spec reads.
func (s Spec) Sources() []string {
	switch s.Kind {
	case KindZScore:
		return []string{s.ZScore.Column}
	case KindMomentum:
		return append([]string(nil), s.Momentum.Columns...)
	case KindDrawdown:
		return []string{s.Drawdown.Column}
	case KindSlope:
		return []string{s.Slope.Long, s.Slope.Short}
	case KindSignFlip:
		return append([]string(nil), s.SignFlip.Columns...)
	case KindCumReturn:
		return []string{s.CumReturn.Column}
	case KindDropNA:
		return append([]string(nil), s.DropNA.Subset...)
	}
	return nil
}

// Outputs returns the column names the spec appends to the table.
// Sign-flip and drop-NA rewrite existing state and produce no new
// columns.
func (s Spec) Outputs() []string {
	switch s.Kind {
	case KindZScore:
		return []string{s.ZScore.outputName()}
	case KindMomentum:
		out := make([]string, 0, len(s.Momentum.Columns)*len(s.Momentum.Horizons))
		for _, col := range s.Momentum.Columns {
			for _, h := range s.Momentum.Horizons {
				out = append(out, momentumOutputName(col, h))
			}
		}
		return out
	case KindDrawdown:
		return []string{s.Drawdown.outputName()}
	case KindSlope:
		return []string{s.Slope.outputName()}
	case KindCumReturn:
		return []string{s.CumReturn.outputName()}
	}
	return nil
}

// Apply runs the primitive against t and returns the resulting table.
// The input table is never modified.
func (s Spec) Apply(t *dataset.Table) (*dataset.Table, error) {
	switch s.Kind {
	case KindZScore:
		return applyZScore(t, *s.ZScore)
	case KindMomentum:
		return applyMomentum(t, *s.Momentum)
	case KindDrawdown:
		return applyDrawdown(t, *s.Drawdown)
	case KindSlope:
		return applySlope(t, *s.Slope)
	case KindSignFlip:
		return applySignFlip(t, *s.SignFlip)
	case KindCumReturn:
		return applyCumReturn(t, *s.CumReturn)
	case KindDropNA:
		return applyDropNA(t, *s.DropNA)
	}
	return nil, fmt.Errorf("unknown transform kind %q", s.Kind)
}

// Validate checks the spec's parameter record for internal consistency.
func (s Spec) Validate() error {
	switch s.Kind {
	case KindZScore:
		if s.ZScore == nil {
			return fmt.Errorf("zscore spec missing parameters")
		}
		return s.ZScore.validate()
	case KindMomentum:
		if s.Momentum == nil {
			return fmt.Errorf("momentum spec missing parameters")
		}
		return s.Momentum.validate()
	case KindDrawdown:
		if s.Drawdown == nil {
			return fmt.Errorf("drawdown spec missing parameters")
		}
		return nil
	case KindSlope:
		if s.Slope == nil {
			return fmt.Errorf("slope spec missing parameters")
		}
		return nil
	case KindSignFlip:
		if s.SignFlip == nil {
			return fmt.Errorf("signflip spec missing parameters")
		}
		return nil
	case KindCumReturn:
		if s.CumReturn == nil {
			return fmt.Errorf("cumret spec missing parameters")
		}
		return nil
	case KindDropNA:
		if s.DropNA == nil {
			return fmt.Errorf("dropna spec missing parameters")
		}
		return nil
	}
	return fmt.Errorf("unknown transform kind %q", s.Kind)
}

func (s Spec) String() string {
	return string(s.Kind)
}
