package transform

import (
	"math"

	"github.com/regimelab/macrostate/internal/dataset"
)

// SignFlipParams configures the sign-flip primitive, which negates the
// named columns in place. Used for indicators where a higher reading
// means worse conditions, so that every feature points the same way.
type SignFlipParams struct {
	Columns []string
}

func applySignFlip(t *dataset.Table, p SignFlipParams) (*dataset.Table, error) {
	cur := t
	for _, name := range p.Columns {
		src, err := cur.Column(name)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(src))
		for i, v := range src {
			if dataset.IsMissing(v) {
				out[i] = dataset.Missing()
				continue
			}
			out[i] = -v
		}
		cur, err = cur.WithColumn(name, out)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// CumReturnParams configures the cumulative-return primitive: it
// compounds a column of one-period log returns into a growth index
// starting at 1.0, the level series the drawdown primitive consumes.
// A missing return leaves the index unchanged and marks that row missing.
type CumReturnParams struct {
	Column string

	// Output overrides the derived column name. Empty means Column+"_CUM".
	Output string
}

func (p CumReturnParams) outputName() string {
	if p.Output != "" {
		return p.Output
	}
	return p.Column + "_CUM"
}

func applyCumReturn(t *dataset.Table, p CumReturnParams) (*dataset.Table, error) {
	src, err := t.Column(p.Column)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(src))
	sum := 0.0
	for i, v := range src {
		if dataset.IsMissing(v) {
			out[i] = dataset.Missing()
			continue
		}
		sum += v
		out[i] = math.Exp(sum)
	}
	return t.WithColumn(p.outputName(), out)
}

// DropNAParams configures the drop-NA primitive, which removes every row
// still carrying a missing marker. An empty subset inspects all columns;
// otherwise only the named ones. Recipes use it as their final step so
// the persisted table is dense.
type DropNAParams struct {
	Subset []string
}

func applyDropNA(t *dataset.Table, p DropNAParams) (*dataset.Table, error) {
	cols := p.Subset
	if len(cols) == 0 {
		cols = t.Columns()
	}

	series := make([][]float64, len(cols))
	for i, name := range cols {
		vals, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		series[i] = vals
	}

	keep := make([]bool, t.Len())
	for i := range keep {
		keep[i] = true
		for _, vals := range series {
			if dataset.IsMissing(vals[i]) {
				keep[i] = false
				break
			}
		}
	}
	return t.Filter(keep), nil
}
