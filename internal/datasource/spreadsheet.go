package datasource

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/ternarybob/tablecheck/internal/models"
	"github.com/xuri/excelize/v2"
)

type sheetKey struct {
	path  string
	sheet string
}

// sheetEntry holds the parsed rows of one sheet, valid while the file is unchanged
type sheetEntry struct {
	modTime time.Time
	size    int64
	rows    [][]string
}

// loadSpreadsheet reads a workbook sheet into a dataset
func (r *Reader) loadSpreadsheet(path, sheet string, hasHeader bool) (*models.DataSet, error) {
	rows, err := r.sheetRows(path, sheet)
	if err != nil {
		return nil, err
	}
	return r.recordsFromRows(path, rows, hasHeader)
}

// sheetRows returns the rows of a sheet, parsing the workbook only when it changed since
// the last read. Callers must not modify the returned rows.
func (r *Reader) sheetRows(path, sheet string) ([][]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &models.DataFormatError{Path: path, Reason: "cannot open file", Err: err}
	}

	key := sheetKey{path: path, sheet: sheet}
	r.mu.Lock()
	entry, ok := r.sheets[key]
	r.mu.Unlock()
	if ok && entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
		return entry.rows, nil
	}

	rows, err := readSheetRows(path, sheet)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.sheets[key] = sheetEntry{modTime: info.ModTime(), size: info.Size(), rows: rows}
	r.sheetLoads++
	r.mu.Unlock()

	r.logger.Trace().Str("path", path).Str("sheet", sheet).Int("rows", len(rows)).Msg("Workbook sheet parsed")
	return rows, nil
}

// readSheetRows returns the rows of a sheet; empty sheet name selects the first sheet.
// Values are read unformatted so numeric phone numbers keep every digit, and only cells
// stored as numbers are normalised.
func readSheetRows(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &models.DataFormatError{Path: path, Reason: "failed to open workbook", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if sheet == "" {
		if len(sheets) == 0 {
			return nil, &models.DataFormatError{Path: path, Reason: "workbook has no sheets"}
		}
		sheet = sheets[0]
	}
	if !slices.Contains(sheets, sheet) {
		return nil, &models.DataFormatError{Path: path, Reason: fmt.Sprintf("sheet %q not found (have %v)", sheet, sheets)}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &models.DataFormatError{Path: path, Reason: fmt.Sprintf("failed to read sheet %q", sheet), Err: err}
	}

	// GetRows keeps blank rows, so rows[i] is sheet row i+1
	for i, row := range rows {
		for j, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, &models.DataFormatError{Path: path, Reason: "cell reference out of range", Err: err}
			}
			cellType, err := f.GetCellType(sheet, cell)
			if err != nil {
				return nil, &models.DataFormatError{Path: path, Reason: fmt.Sprintf("failed to read cell %s", cell), Err: err}
			}
			row[j] = sheetCell(value, cellType)
		}
	}
	return trimTrailingBlank(rows), nil
}

// sheetCell normalises numbers and trims text. Numeric cells carry type "n" or no type at all.
func sheetCell(value string, cellType excelize.CellType) string {
	switch cellType {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		return normalizeNumber(value)
	default:
		return strings.TrimSpace(value)
	}
}
