package transform

import (
	"github.com/regimelab/macrostate/internal/dataset"
)

// DrawdownParams configures the peak-to-current drawdown primitive for a
// level series. The running peak includes the current row, so the output
// is value(t) / peak(t) - 1: zero at every new high, strictly negative
// below it. Missing inputs leave the peak untouched and yield a missing
// output.
type DrawdownParams struct {
	Column string

	// Output overrides the derived column name. Empty means Column+"_DD".
	Output string
}

func (p DrawdownParams) outputName() string {
	if p.Output != "" {
		return p.Output
	}
	return p.Column + "_DD"
}

func applyDrawdown(t *dataset.Table, p DrawdownParams) (*dataset.Table, error) {
	src, err := t.Column(p.Column)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(src))
	peak := dataset.Missing()
	for i, v := range src {
		if dataset.IsMissing(v) {
			out[i] = dataset.Missing()
			continue
		}
		if dataset.IsMissing(peak) || v > peak {
			peak = v
		}
		out[i] = v/peak - 1
	}
	return t.WithColumn(p.outputName(), out)
}
