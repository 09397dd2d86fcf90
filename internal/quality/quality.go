// Package quality is the validation collaborator: it checks raw tables
// against the configured column contract, flags irregular monthly
// spacing, and summarizes finished feature tables into a JSON report.
package quality

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/regimelab/macrostate/internal/config"
	"github.com/regimelab/macrostate/internal/dataset"
)

// ValidateRequiredColumns checks that every configured required column
// (other than the date column, which became the index at load time) is
// present in the raw table.
func ValidateRequiredColumns(t *dataset.Table, cfg *config.Settings) error {
	var missing []string
	for _, name := range cfg.RequiredColumns {
		if name == cfg.DateColumn {
			continue
		}
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("raw data is missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// CheckMonthlyFrequency returns a warning per index step that is not
// exactly one calendar month. Non-fatal: callers log them and proceed.
func CheckMonthlyFrequency(index []time.Time) []string {
	var warnings []string
	for i := 1; i < len(index); i++ {
		prev, cur := index[i-1], index[i]
		months := (cur.Year()-prev.Year())*12 + int(cur.Month()) - int(prev.Month())
		if months != 1 {
			warnings = append(warnings, fmt.Sprintf(
				"irregular spacing between %s and %s (%d months)",
				prev.Format("2006-01"), cur.Format("2006-01"), months))
		}
	}
	return warnings
}

// Report summarizes a feature table produced by one pipeline run.
type Report struct {
	RunID       string         `json:"run_id"`
	Recipe      string         `json:"recipe"`
	GeneratedAt time.Time      `json:"generated_at"`
	Rows        int            `json:"rows"`
	Columns     []string       `json:"columns"`
	DateRange   DateRange      `json:"date_range"`
	NaNCounts   map[string]int `json:"nan_counts"`
}

// DateRange is the closed interval covered by the table index.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// BuildReport summarizes a feature table. The run ID ties the report to
// the persisted feature rows.
func BuildReport(t *dataset.Table, recipeName string) *Report {
	r := &Report{
		RunID:       uuid.NewString(),
		Recipe:      recipeName,
		GeneratedAt: time.Now().UTC(),
		Rows:        t.Len(),
		Columns:     t.Columns(),
		NaNCounts:   make(map[string]int),
	}
	for _, name := range r.Columns {
		r.NaNCounts[name] = t.MissingCount(name)
	}
	if index := t.Index(); len(index) > 0 {
		r.DateRange = DateRange{
			Start: index[0].Format("2006-01-02"),
			End:   index[len(index)-1].Format("2006-01-02"),
		}
	}
	return r
}
