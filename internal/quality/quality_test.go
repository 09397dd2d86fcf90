package quality

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regimelab/macrostate/internal/config"
	"github.com/regimelab/macrostate/internal/dataset"
)

func monthlyIndex(n int) []time.Time {
	index := make([]time.Time, n)
	for i := range index {
		// Day 0 of month i+2 is the last day of month i+1, avoiding
		// AddDate overflow (Jan 31 + 1 month would normalize to Mar 2).
		index[i] = time.Date(2020, time.Month(i+2), 0, 0, 0, 0, 0, time.UTC)
	}
	return index
}

func TestValidateRequiredColumns(t *testing.T) {
	cfg := config.Default()
	cfg.RequiredColumns = []string{"Date", "US10Y", "US2Y"}

	table, err := dataset.New(monthlyIndex(2)).WithColumn("US10Y", []float64{1, 2})
	require.NoError(t, err)

	err = ValidateRequiredColumns(table, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "US2Y")
	assert.NotContains(t, err.Error(), "Date", "the date column became the index")

	table, err = table.WithColumn("US2Y", []float64{3, 4})
	require.NoError(t, err)
	require.NoError(t, ValidateRequiredColumns(table, cfg))
}

func TestCheckMonthlyFrequency(t *testing.T) {
	regular := monthlyIndex(6)
	assert.Empty(t, CheckMonthlyFrequency(regular))

	irregular := []time.Time{
		time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 5, 31, 0, 0, 0, 0, time.UTC), // 3-month jump
	}
	warnings := CheckMonthlyFrequency(irregular)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "2020-02")
	assert.Contains(t, warnings[0], "3 months")
}

func TestBuildReport(t *testing.T) {
	table, err := dataset.New(monthlyIndex(3)).WithColumn("VIX_Z", []float64{dataset.Missing(), 0.5, -0.2})
	require.NoError(t, err)
	table, err = table.WithColumn("YC_SLOPE", []float64{1, 1, 1})
	require.NoError(t, err)

	report := BuildReport(table, "baseline_z")

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "baseline_z", report.Recipe)
	assert.Equal(t, 3, report.Rows)
	assert.Equal(t, []string{"VIX_Z", "YC_SLOPE"}, report.Columns)
	assert.Equal(t, "2020-01-31", report.DateRange.Start)
	assert.Equal(t, "2020-03-31", report.DateRange.End)
	assert.Equal(t, 1, report.NaNCounts["VIX_Z"])
	assert.Equal(t, 0, report.NaNCounts["YC_SLOPE"])

	// Run IDs are unique per report.
	assert.NotEqual(t, report.RunID, BuildReport(table, "baseline_z").RunID)
}
