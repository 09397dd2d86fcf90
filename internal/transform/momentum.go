package transform

import (
	"fmt"

	"github.com/regimelab/macrostate/internal/dataset"
)

// MomentumParams configures the momentum/differencing primitive: for
// each source column and each horizon H the derived column holds
// value(t) - value(t-H). The first H rows carry the missing marker.
type MomentumParams struct {
	Columns  []string
	Horizons []int
}

func (p MomentumParams) validate() error {
	if len(p.Columns) == 0 {
		return fmt.Errorf("momentum requires at least one column")
	}
	if len(p.Horizons) == 0 {
		return fmt.Errorf("momentum requires at least one horizon")
	}
	for _, h := range p.Horizons {
		if h < 1 {
			return fmt.Errorf("momentum horizon must be >= 1, got %d", h)
		}
	}
	return nil
}

func momentumOutputName(column string, horizon int) string {
	return fmt.Sprintf("%s_D%dM", column, horizon)
}

func applyMomentum(t *dataset.Table, p MomentumParams) (*dataset.Table, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	cur := t
	for _, col := range p.Columns {
		src, err := cur.Column(col)
		if err != nil {
			return nil, err
		}
		for _, h := range p.Horizons {
			out := make([]float64, len(src))
			for i := range src {
				if i < h || dataset.IsMissing(src[i]) || dataset.IsMissing(src[i-h]) {
					out[i] = dataset.Missing()
					continue
				}
				out[i] = src[i] - src[i-h]
			}
			cur, err = cur.WithColumn(momentumOutputName(col, h), out)
			if err != nil {
				return nil, err
			}
		}
	}
	return cur, nil
}
