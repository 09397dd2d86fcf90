// Package ingest loads the raw monthly dataset from spreadsheet or CSV
// files into a validated TimeSeriesTable, and applies the pre-pipeline
// cleaning steps: canonical column renaming, bounded forward-fill, and
// dropping of leading all-missing rows.
package ingest

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/regimelab/macrostate/internal/config"
	"github.com/regimelab/macrostate/internal/dataset"
)

// dateFormats are tried in order when parsing the date column. Raw
// exports vary between ISO dates, month-precision stamps, and slash
// formats.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01",
	"01/02/2006",
	"1/2/2006",
	"01/2006",
	"Jan-06",
	"Jan 2006",
}

// missingTokens are cell values treated as the missing marker.
var missingTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"#n/a": true,
	"nan":  true,
	"null": true,
	"-":    true,
}

// Loader reads raw data files into tables.
type Loader struct {
	cfg *config.Settings
}

// NewLoader creates a loader bound to the given settings.
func NewLoader(cfg *config.Settings) *Loader {
	return &Loader{cfg: cfg}
}

// Load reads the raw dataset at path, dispatching on the file
// extension: .xlsx/.xlsm via the spreadsheet reader, .csv via the CSV
// reader. The returned table has raw (unrenamed) column names and a
// validated strictly increasing index.
func (l *Loader) Load(path string) (*dataset.Table, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readWorkbook(path)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported raw data format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	return l.buildTable(rows)
}

// buildTable converts header+rows cell data into a table, parsing the
// date column and every numeric column. The index must come out strictly
// increasing; duplicate or out-of-order timestamps are load errors, not
// warnings, because every transform downstream trusts the ordering.
func (l *Loader) buildTable(rows [][]string) (*dataset.Table, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("raw data has no rows beyond the header")
	}

	header := rows[0]
	dateIdx := -1
	for i, name := range header {
		if strings.TrimSpace(name) == l.cfg.DateColumn {
			dateIdx = i
			break
		}
	}
	if dateIdx < 0 {
		return nil, fmt.Errorf("date column %q not found in header", l.cfg.DateColumn)
	}

	index := make([]time.Time, 0, len(rows)-1)
	values := make([][]float64, len(header))
	for i := range values {
		values[i] = make([]float64, 0, len(rows)-1)
	}

	for rowNum, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		if dateIdx >= len(row) {
			return nil, fmt.Errorf("row %d has no date cell", rowNum+2)
		}
		ts, err := parseDate(row[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum+2, err)
		}
		if n := len(index); n > 0 && !ts.After(index[n-1]) {
			return nil, fmt.Errorf("row %d: timestamp %s not after previous %s",
				rowNum+2, ts.Format("2006-01-02"), index[n-1].Format("2006-01-02"))
		}
		index = append(index, ts)

		for i := range header {
			if i == dateIdx {
				continue
			}
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			values[i] = append(values[i], parseCell(cell))
		}
	}

	table := dataset.New(index)
	for i, name := range header {
		if i == dateIdx {
			continue
		}
		var err error
		table, err = table.WithColumn(strings.TrimSpace(name), values[i])
		if err != nil {
			return nil, err
		}
	}
	return table, nil
}

func parseDate(cell string) (time.Time, error) {
	s := strings.TrimSpace(cell)
	for _, format := range dateFormats {
		if ts, err := time.Parse(format, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", cell)
}

func parseCell(cell string) float64 {
	s := strings.TrimSpace(cell)
	if missingTokens[strings.ToLower(s)] {
		return dataset.Missing()
	}
	s = strings.ReplaceAll(s, "%", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return dataset.Missing()
	}
	return v
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
