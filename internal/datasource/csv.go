package datasource

import (
	"encoding/csv"
	"os"

	"github.com/ternarybob/tablecheck/internal/models"
)

// loadCSV reads a comma-separated file with the same header semantics as a sheet
func (r *Reader) loadCSV(path string, hasHeader bool) (*models.DataSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &models.DataFormatError{Path: path, Reason: "cannot open file", Err: err}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &models.DataFormatError{Path: path, Reason: "malformed CSV", Err: err}
	}
	return r.recordsFromRows(path, rows, hasHeader)
}
