package dataset

import (
	"fmt"
	"math"
	"time"
)

// Missing is the explicit no-value marker used throughout the feature
// pipeline. It is IEEE NaN underneath, but callers should only ever test
// for it through IsMissing.
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether v is the missing marker.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Table is an immutable monthly time series: a strictly increasing
// timestamp index plus named float64 columns of equal length.
//
// Tables are never mutated in place. Every operation that would change a
// table returns a new one; column slices may be shared between the old
// and new table, so callers must treat the slices returned by Column as
// read-only.
type Table struct {
	index []time.Time
	order []string
	cols  map[string][]float64
}

// UnresolvedColumnError reports a reference to a column that does not
// exist in the table. Position is the zero-based index of the transform
// spec that made the reference, or -1 for a direct lookup.
type UnresolvedColumnError struct {
	Column   string
	Position int
}

func (e *UnresolvedColumnError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("unresolved column %q referenced by spec at position %d", e.Column, e.Position)
	}
	return fmt.Sprintf("unresolved column %q", e.Column)
}

// New creates a table with the given index and no columns. The index is
// copied; the caller keeps ownership of its slice.
func New(index []time.Time) *Table {
	idx := make([]time.Time, len(index))
	copy(idx, index)
	return &Table{
		index: idx,
		cols:  make(map[string][]float64),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.index)
}

// Index returns the timestamp index. Read-only.
func (t *Table) Index() []time.Time {
	return t.index
}

// Columns returns the column names in declaration order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Column returns the values of the named column. The slice is read-only;
// a missing column yields an UnresolvedColumnError.
func (t *Table) Column(name string) ([]float64, error) {
	vals, ok := t.cols[name]
	if !ok {
		return nil, &UnresolvedColumnError{Column: name, Position: -1}
	}
	return vals, nil
}

// WithColumn returns a new table with the named column set to vals. A new
// name is appended after the existing columns; an existing name keeps its
// position and gets the new values. The input table is left untouched.
func (t *Table) WithColumn(name string, vals []float64) (*Table, error) {
	if len(vals) != len(t.index) {
		return nil, fmt.Errorf("column %q has %d values for %d rows", name, len(vals), len(t.index))
	}

	next := t.shallowCopy()
	if !t.HasColumn(name) {
		next.order = append(next.order, name)
	}
	next.cols[name] = vals
	return next, nil
}

// Filter returns a new table containing only the rows where keep is true.
// All column slices are copied.
func (t *Table) Filter(keep []bool) *Table {
	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}

	next := &Table{
		index: make([]time.Time, 0, n),
		order: append([]string(nil), t.order...),
		cols:  make(map[string][]float64, len(t.cols)),
	}
	for i, k := range keep {
		if k {
			next.index = append(next.index, t.index[i])
		}
	}
	for _, name := range t.order {
		src := t.cols[name]
		dst := make([]float64, 0, n)
		for i, k := range keep {
			if k {
				dst = append(dst, src[i])
			}
		}
		next.cols[name] = dst
	}
	return next
}

// TruncateAsOf returns a new table with every row after cutoff dropped.
// This is a hard prefix truncation: rows at or before the cutoff survive
// with their values intact, everything later is gone before any transform
// can observe it.
func (t *Table) TruncateAsOf(cutoff time.Time) *Table {
	n := len(t.index)
	for i, ts := range t.index {
		if ts.After(cutoff) {
			n = i
			break
		}
	}

	keep := make([]bool, len(t.index))
	for i := 0; i < n; i++ {
		keep[i] = true
	}
	return t.Filter(keep)
}

// Select returns a new table containing only the named columns, in the
// given order. Unknown names yield an UnresolvedColumnError.
func (t *Table) Select(names []string) (*Table, error) {
	next := &Table{
		index: t.index,
		order: make([]string, 0, len(names)),
		cols:  make(map[string][]float64, len(names)),
	}
	for _, name := range names {
		vals, ok := t.cols[name]
		if !ok {
			return nil, &UnresolvedColumnError{Column: name, Position: -1}
		}
		next.order = append(next.order, name)
		next.cols[name] = vals
	}
	return next, nil
}

// Renamed returns a new table with columns renamed per mapping. Names
// absent from the mapping are kept; column order and values are shared
// with the receiver.
func (t *Table) Renamed(mapping map[string]string) *Table {
	next := &Table{
		index: t.index,
		order: make([]string, len(t.order)),
		cols:  make(map[string][]float64, len(t.cols)),
	}
	for i, name := range t.order {
		renamed := name
		if to, ok := mapping[name]; ok {
			renamed = to
		}
		next.order[i] = renamed
		next.cols[renamed] = t.cols[name]
	}
	return next
}

// MissingCount returns the number of missing values in the named column,
// or 0 for an unknown column.
func (t *Table) MissingCount(name string) int {
	n := 0
	for _, v := range t.cols[name] {
		if IsMissing(v) {
			n++
		}
	}
	return n
}

// Equal reports whether two tables agree on index, column order and
// values. Missing markers compare equal to each other.
func (t *Table) Equal(other *Table) bool {
	if other == nil || len(t.index) != len(other.index) || len(t.order) != len(other.order) {
		return false
	}
	for i := range t.index {
		if !t.index[i].Equal(other.index[i]) {
			return false
		}
	}
	for i, name := range t.order {
		if other.order[i] != name {
			return false
		}
		a, b := t.cols[name], other.cols[name]
		for j := range a {
			if IsMissing(a[j]) && IsMissing(b[j]) {
				continue
			}
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

func (t *Table) shallowCopy() *Table {
	next := &Table{
		index: t.index,
		order: append([]string(nil), t.order...),
		cols:  make(map[string][]float64, len(t.cols)+1),
	}
	for name, vals := range t.cols {
		next.cols[name] = vals
	}
	return next
}
