package datasource

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/tablecheck/internal/models"
	"golang.org/x/net/html/charset"
)

// xmlNode is a generic element tree; records are read without a fixed schema
// because source field names differ between files.
type xmlNode struct {
	XMLName  xml.Name
	Children []xmlNode `xml:",any"`
	Text     string    `xml:",chardata"`
}

// loadXML reads repeated record elements under the document root. The declared encoding
// (UTF-8, ISO-8859-1, windows-1252 ...) is honoured. Element text is kept as written,
// only surrounding whitespace is trimmed. A missing sub-element yields an empty field value.
func (r *Reader) loadXML(path, rootTag string) (*models.DataSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &models.DataFormatError{Path: path, Reason: "cannot open file", Err: err}
	}
	defer file.Close()

	decoder := xml.NewDecoder(file)
	decoder.CharsetReader = charset.NewReaderLabel

	var root xmlNode
	if err := decoder.Decode(&root); err != nil {
		return nil, &models.DataFormatError{Path: path, Reason: "malformed XML", Err: err}
	}
	if rootTag != "" && root.XMLName.Local != rootTag {
		return nil, &models.DataFormatError{Path: path, Reason: fmt.Sprintf("root element %q not found (got %q)", rootTag, root.XMLName.Local)}
	}

	fields := r.opts.Fields
	discover := len(fields) == 0
	seen := make(map[string]bool)

	records := make([]models.Record, 0, len(root.Children))
	for _, child := range root.Children {
		if child.XMLName.Local != r.opts.RecordTag {
			continue
		}
		rec := make(models.Record)
		for _, el := range child.Children {
			name := r.canonical(el.XMLName.Local)
			if _, dup := rec[name]; dup {
				continue // first occurrence wins
			}
			rec[name] = strings.TrimSpace(el.Text)
			if discover && !seen[name] {
				seen[name] = true
				fields = append(fields, name)
			}
		}
		records = append(records, rec)
	}

	return models.NewDataSet(path, fields, records), nil
}
