package ingest

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readWorkbook reads the first non-empty sheet of an Excel workbook and
// returns its cells as rows of strings.
func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		if len(rows) > 1 {
			return rows, nil
		}
	}
	return nil, fmt.Errorf("workbook %s has no sheet with data", path)
}
