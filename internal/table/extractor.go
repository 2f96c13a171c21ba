// Package table reads the rendered rows of a data table into a TableSnapshot.
package table

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tablecheck/internal/interfaces"
	"github.com/ternarybob/tablecheck/internal/models"
)

// emptyPlaceholder marks the single row DataTables renders when nothing matches
const emptyPlaceholder = "td.dataTables_empty"

// Extractor captures table snapshots. It never waits; callers that need
// eventual consistency poll through the comparator.
type Extractor struct {
	surface interfaces.Surface
	columns []string
	logger  arbor.ILogger
}

// NewExtractor creates an extractor mapping cells to columns by position
func NewExtractor(surface interfaces.Surface, columns []string, logger arbor.ILogger) *Extractor {
	return &Extractor{
		surface: surface,
		columns: append([]string(nil), columns...),
		logger:  logger,
	}
}

// Columns returns the declared column order
func (e *Extractor) Columns() []string {
	return append([]string(nil), e.columns...)
}

// ExtractSnapshot reads the rows currently rendered in the table target
func (e *Extractor) ExtractSnapshot(ctx context.Context, target interfaces.Target) (models.TableSnapshot, error) {
	html, err := e.surface.OuterHTML(ctx, target)
	if err != nil {
		return models.TableSnapshot{}, fmt.Errorf("failed to read table %s: %w", target, err)
	}

	snapshot, err := ParseSnapshot(html, e.columns)
	if err != nil {
		return models.TableSnapshot{}, fmt.Errorf("failed to parse table %s: %w", target, err)
	}

	e.logger.Trace().Int("rows", snapshot.Len()).Str("table", target.Name).Msg("Table snapshot extracted")
	return snapshot, nil
}

// ParseSnapshot maps the body rows of a table's markup onto columns in render order.
// A row with fewer cells than columns is a structural error.
func ParseSnapshot(html string, columns []string) (models.TableSnapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.TableSnapshot{}, fmt.Errorf("failed to create goquery document: %w", err)
	}

	snapshot := models.TableSnapshot{
		Columns:    append([]string(nil), columns...),
		Rows:       []models.Record{},
		CapturedAt: time.Now(),
	}

	var rowErr error
	doc.Find("tbody tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if row.Find(emptyPlaceholder).Length() > 0 {
			return true
		}

		cells := row.ChildrenFiltered("td")
		if cells.Length() < len(columns) {
			rowErr = fmt.Errorf("row %d has %d cells, expected %d", i+1, cells.Length(), len(columns))
			return false
		}

		record := make(models.Record, len(columns))
		for c, column := range columns {
			record[column] = cellText(cells.Eq(c))
		}
		snapshot.Rows = append(snapshot.Rows, record)
		return true
	})
	if rowErr != nil {
		return models.TableSnapshot{}, rowErr
	}

	return snapshot, nil
}

// cellText returns the visible text of a cell with whitespace collapsed
func cellText(cell *goquery.Selection) string {
	return strings.Join(strings.Fields(cell.Text()), " ")
}
