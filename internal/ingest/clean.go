package ingest

import (
	"github.com/regimelab/macrostate/internal/config"
	"github.com/regimelab/macrostate/internal/dataset"
)

// Clean applies the pre-pipeline cleaning steps to a raw table: rename
// columns to their canonical names, forward-fill interior gaps up to the
// configured maximum run length, and drop leading rows in which every
// column is missing. Interior rows are never dropped or reordered, so
// the strictly increasing index is preserved.
func Clean(t *dataset.Table, cfg *config.Settings) *dataset.Table {
	cur := t.Renamed(cfg.ColumnRename)

	for _, name := range cur.Columns() {
		src, _ := cur.Column(name)
		filled := forwardFill(src, cfg.FFillMaxGap)
		cur, _ = cur.WithColumn(name, filled)
	}

	return dropLeadingMissing(cur)
}

// forwardFill fills runs of missing values with the last observed value,
// but only when the run is maxGap long or shorter. Longer runs and
// leading missings are left untouched.
func forwardFill(src []float64, maxGap int) []float64 {
	out := make([]float64, len(src))
	copy(out, src)
	if maxGap <= 0 {
		return out
	}

	last := dataset.Missing()
	gap := 0
	for i, v := range src {
		if !dataset.IsMissing(v) {
			last = v
			gap = 0
			continue
		}
		gap++
		if dataset.IsMissing(last) {
			continue
		}
		if runLength(src, i-gap+1) <= maxGap {
			out[i] = last
		}
	}
	return out
}

// runLength returns the length of the missing run starting at index i.
func runLength(src []float64, i int) int {
	n := 0
	for ; i+n < len(src) && dataset.IsMissing(src[i+n]); n++ {
	}
	return n
}

// dropLeadingMissing drops rows from the top of the table while every
// column of the row is missing.
func dropLeadingMissing(t *dataset.Table) *dataset.Table {
	cols := t.Columns()
	series := make([][]float64, len(cols))
	for i, name := range cols {
		series[i], _ = t.Column(name)
	}

	first := 0
scan:
	for ; first < t.Len(); first++ {
		for _, vals := range series {
			if !dataset.IsMissing(vals[first]) {
				break scan
			}
		}
	}
	if first == 0 {
		return t
	}

	keep := make([]bool, t.Len())
	for i := first; i < t.Len(); i++ {
		keep[i] = true
	}
	return t.Filter(keep)
}
