package transform

import (
	"github.com/regimelab/macrostate/internal/dataset"
)

// SlopeParams configures the yield-curve slope primitive: a purely
// row-wise spread between a long and a short rate column.
type SlopeParams struct {
	Long  string
	Short string

	// Output overrides the derived column name. Empty means "YC_SLOPE".
	Output string
}

func (p SlopeParams) outputName() string {
	if p.Output != "" {
		return p.Output
	}
	return "YC_SLOPE"
}

func applySlope(t *dataset.Table, p SlopeParams) (*dataset.Table, error) {
	long, err := t.Column(p.Long)
	if err != nil {
		return nil, err
	}
	short, err := t.Column(p.Short)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(long))
	for i := range long {
		if dataset.IsMissing(long[i]) || dataset.IsMissing(short[i]) {
			out[i] = dataset.Missing()
			continue
		}
		out[i] = long[i] - short[i]
	}
	return t.WithColumn(p.outputName(), out)
}
