// Package datasource loads ordered datasets of records from spreadsheet, XML, CSV and YAML files.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tablecheck/internal/models"
)

// Format identifies a dataset file type
type Format string

const (
	FormatSpreadsheet Format = "xlsx"
	FormatXML         Format = "xml"
	FormatCSV         Format = "csv"
	FormatYAML        Format = "yaml"
)

// Options declares the canonical field set and how source names map onto it
type Options struct {
	// Fields is the canonical field list in column order. When no header is present
	// it is also the positional column order. Empty means "take fields from the source".
	Fields []string

	// Aliases maps source field names to canonical ones (e.g. "Apellido" -> "Apellidos")
	Aliases map[string]string

	// RecordTag is the repeated XML child element holding one record (default "record")
	RecordTag string
}

// Reader loads datasets. Parsed spreadsheet sheets are cached per path and sheet until
// the file changes, so RowCount followed by CellValue per cell parses the workbook once.
type Reader struct {
	opts   Options
	logger arbor.ILogger

	mu         sync.Mutex
	sheets     map[sheetKey]sheetEntry
	sheetLoads int
}

// NewReader creates a dataset reader
func NewReader(opts Options, logger arbor.ILogger) *Reader {
	if opts.RecordTag == "" {
		opts.RecordTag = "record"
	}
	return &Reader{
		opts:   opts,
		logger: logger,
		sheets: make(map[sheetKey]sheetEntry),
	}
}

// FormatOf returns the dataset format implied by the file extension
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatSpreadsheet, nil
	case ".xml":
		return FormatXML, nil
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", &models.DataFormatError{Path: path, Reason: fmt.Sprintf("unsupported extension %q", filepath.Ext(path))}
	}
}

// LoadDataset reads every record of the file in source order.
// sheetOrRootTag names the spreadsheet sheet, the expected XML root element, or the YAML top-level key;
// empty means first sheet / any root / top-level list. hasHeader applies to spreadsheet and CSV sources.
// A source with zero records returns an empty DataSet, not an error.
func (r *Reader) LoadDataset(path, sheetOrRootTag string, hasHeader bool) (*models.DataSet, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &models.DataFormatError{Path: path, Reason: "cannot open file", Err: err}
	}

	var ds *models.DataSet
	switch format {
	case FormatSpreadsheet:
		ds, err = r.loadSpreadsheet(path, sheetOrRootTag, hasHeader)
	case FormatXML:
		ds, err = r.loadXML(path, sheetOrRootTag)
	case FormatCSV:
		ds, err = r.loadCSV(path, hasHeader)
	case FormatYAML:
		ds, err = r.loadYAML(path, sheetOrRootTag)
	}
	if err != nil {
		r.logger.Error().Err(err).Str("path", path).Msg("Failed to load dataset")
		return nil, err
	}

	if ds.IsEmpty() {
		r.logger.Warn().Str("path", path).Str("format", string(format)).Msg("Dataset contains no records")
	} else {
		r.logger.Debug().
			Str("path", path).
			Str("format", string(format)).
			Int("records", ds.Len()).
			Strs("fields", ds.Fields()).
			Msg("Dataset loaded")
	}
	return ds, nil
}

// RowCount returns the number of data rows (header excluded)
func (r *Reader) RowCount(path, sheet string, hasHeader bool) (int, error) {
	format, err := FormatOf(path)
	if err != nil {
		return 0, err
	}
	if format == FormatSpreadsheet {
		rows, err := r.sheetRows(path, sheet)
		if err != nil {
			return 0, err
		}
		n := len(rows)
		if hasHeader && n > 0 {
			n--
		}
		return n, nil
	}

	ds, err := r.LoadDataset(path, sheet, hasHeader)
	if err != nil {
		return 0, err
	}
	return ds.Len(), nil
}

// CellValue returns one value. For spreadsheets rowIndex is the 1-based sheet row number
// (the first data row is 2 when the sheet has a header) and the column is found by header
// name, falling back to its position in the declared field order. For other formats
// rowIndex is the 1-based record position.
func (r *Reader) CellValue(path, sheet string, rowIndex int, columnName string) (string, error) {
	format, err := FormatOf(path)
	if err != nil {
		return "", err
	}
	if rowIndex < 1 {
		return "", &models.DataFormatError{Path: path, Reason: fmt.Sprintf("row index %d out of range", rowIndex)}
	}

	if format == FormatSpreadsheet {
		rows, err := r.sheetRows(path, sheet)
		if err != nil {
			return "", err
		}
		col, ok := r.columnOffset(rows, columnName)
		if !ok {
			return "", &models.DataFormatError{Path: path, Reason: fmt.Sprintf("column %q not found in sheet %q", columnName, sheet)}
		}
		if rowIndex > len(rows) {
			return "", &models.DataFormatError{Path: path, Reason: fmt.Sprintf("row %d beyond last row %d", rowIndex, len(rows))}
		}
		return cellAt(rows[rowIndex-1], col), nil
	}

	ds, err := r.LoadDataset(path, sheet, true)
	if err != nil {
		return "", err
	}
	if rowIndex > ds.Len() {
		return "", &models.DataFormatError{Path: path, Reason: fmt.Sprintf("record %d beyond last record %d", rowIndex, ds.Len())}
	}
	rec := ds.At(rowIndex - 1)
	value, ok := rec[r.canonical(columnName)]
	if !ok {
		return "", &models.DataFormatError{Path: path, Reason: fmt.Sprintf("field %q not declared", columnName)}
	}
	return value, nil
}

// columnOffset finds a column by header name, then by declared field position
func (r *Reader) columnOffset(rows [][]string, columnName string) (int, bool) {
	want := r.canonical(columnName)
	if len(rows) > 0 {
		for i, h := range rows[0] {
			if r.canonical(strings.TrimSpace(h)) == want {
				return i, true
			}
		}
	}
	for i, f := range r.opts.Fields {
		if f == want {
			return i, true
		}
	}
	return 0, false
}

// canonical maps a source field name to its canonical name
func (r *Reader) canonical(name string) string {
	if alias, ok := r.opts.Aliases[name]; ok {
		return alias
	}
	return name
}

// recordsFromRows converts tabular rows (spreadsheet, CSV) into a dataset
func (r *Reader) recordsFromRows(path string, rows [][]string, hasHeader bool) (*models.DataSet, error) {
	rows = trimTrailingBlank(rows)

	var offsets map[string]int
	var fields []string
	data := rows

	if hasHeader {
		if len(rows) == 0 {
			return nil, &models.DataFormatError{Path: path, Reason: "header row expected but source is empty"}
		}
		header := make(map[string]int, len(rows[0]))
		sourceOrder := make([]string, 0, len(rows[0]))
		for i, h := range rows[0] {
			name := r.canonical(strings.TrimSpace(h))
			if name == "" {
				continue
			}
			if _, dup := header[name]; dup {
				return nil, &models.DataFormatError{Path: path, Reason: fmt.Sprintf("duplicate column %q", name)}
			}
			header[name] = i
			sourceOrder = append(sourceOrder, name)
		}

		fields = r.opts.Fields
		if len(fields) == 0 {
			fields = sourceOrder
		}
		offsets = make(map[string]int, len(fields))
		for _, f := range fields {
			idx, ok := header[f]
			if !ok {
				return nil, &models.DataFormatError{Path: path, Reason: fmt.Sprintf("column %q not found in header", f)}
			}
			offsets[f] = idx
		}
		data = rows[1:]
	} else {
		fields = r.opts.Fields
		if len(fields) == 0 {
			return nil, &models.DataFormatError{Path: path, Reason: "source has no header and no column order is configured"}
		}
		offsets = make(map[string]int, len(fields))
		for i, f := range fields {
			offsets[f] = i
		}
	}

	records := make([]models.Record, 0, len(data))
	for _, row := range data {
		rec := make(models.Record, len(fields))
		for _, f := range fields {
			rec[f] = cellAt(row, offsets[f])
		}
		records = append(records, rec)
	}
	return models.NewDataSet(path, fields, records), nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func trimTrailingBlank(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && isBlankRow(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
