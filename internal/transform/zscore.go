package transform

import (
	"fmt"
	"math"

	"github.com/regimelab/macrostate/internal/dataset"
)

// ZScoreParams configures the rolling z-score primitive.
//
// The score at row t is (value(t) - mean) / std, where mean and std are
// computed over the trailing Window source observations ending at t-1.
// The source column is shifted forward by one step before the rolling
// statistics are taken, so no statistic ever sees the row it is scoring.
type ZScoreParams struct {
	Column string
	Window int

	// MinPeriods is the number of non-missing shifted observations
	// required inside the window before a score is emitted. Zero means
	// the full window is required.
	MinPeriods int

	// Output overrides the derived column name. Empty means Column+"_Z".
	Output string
}

func (p ZScoreParams) outputName() string {
	if p.Output != "" {
		return p.Output
	}
	return p.Column + "_Z"
}

func (p ZScoreParams) minPeriods() int {
	if p.MinPeriods > 0 {
		return p.MinPeriods
	}
	return p.Window
}

func (p ZScoreParams) validate() error {
	if p.Window < 2 {
		return fmt.Errorf("zscore window must be >= 2, got %d", p.Window)
	}
	if p.MinPeriods < 0 || p.MinPeriods > p.Window {
		return fmt.Errorf("zscore min_periods %d outside [0, %d]", p.MinPeriods, p.Window)
	}
	return nil
}

func applyZScore(t *dataset.Table, p ZScoreParams) (*dataset.Table, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	src, err := t.Column(p.Column)
	if err != nil {
		return nil, err
	}

	minPeriods := p.minPeriods()
	out := make([]float64, len(src))
	for i := range src {
		out[i] = rollingScore(src, i, p.Window, minPeriods)
	}
	return t.WithColumn(p.outputName(), out)
}

// rollingScore standardizes src[i] against the trailing window of source
// observations src[i-window .. i-1]. Missing observations inside the
// window are skipped; fewer than minPeriods survivors, a degenerate
// (zero or undefined) standard deviation, or a missing current value all
// yield the missing marker.
func rollingScore(src []float64, i, window, minPeriods int) float64 {
	if dataset.IsMissing(src[i]) {
		return dataset.Missing()
	}

	lo := i - window
	if lo < 0 {
		lo = 0
	}

	var (
		n    int
		sum  float64
		sumq float64
	)
	for j := lo; j < i; j++ {
		v := src[j]
		if dataset.IsMissing(v) {
			continue
		}
		n++
		sum += v
		sumq += v * v
	}
	if n < minPeriods || n < 2 {
		return dataset.Missing()
	}

	mean := sum / float64(n)
	// Sample variance (ddof=1).
	variance := (sumq - sum*mean) / float64(n-1)
	if variance <= 0 {
		return dataset.Missing()
	}
	std := math.Sqrt(variance)

	return (src[i] - mean) / std
}
