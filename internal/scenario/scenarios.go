package scenario

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tablecheck/internal/datasource"
	"github.com/ternarybob/tablecheck/internal/models"
)

// Scenario is one end-to-end check. Run returns the terminal error, if any; the Runner
// turns it into a ScenarioResult.
type Scenario interface {
	Name() string
	Source() string
	Run(ctx context.Context, steps *Recorder) error
}

// SpreadsheetSearch registers the rows of a spreadsheet, searches for one random value and
// checks that clearing the search lists every registered row in order
type SpreadsheetSearch struct {
	reader    *datasource.Reader
	driver    *Driver
	path      string
	sheet     string
	hasHeader bool
	logger    arbor.ILogger
}

// NewSpreadsheetSearch creates the spreadsheet search scenario
func NewSpreadsheetSearch(reader *datasource.Reader, driver *Driver, path, sheet string, hasHeader bool, logger arbor.ILogger) *SpreadsheetSearch {
	return &SpreadsheetSearch{
		reader:    reader,
		driver:    driver,
		path:      path,
		sheet:     sheet,
		hasHeader: hasHeader,
		logger:    logger,
	}
}

func (s *SpreadsheetSearch) Name() string   { return "spreadsheet_search" }
func (s *SpreadsheetSearch) Source() string { return s.path }

func (s *SpreadsheetSearch) Run(ctx context.Context, steps *Recorder) error {
	var dataset *models.DataSet
	err := steps.Step("load_dataset", func() error {
		var err error
		dataset, err = s.readRows()
		return err
	})
	if err != nil {
		return err
	}

	var registered []models.Record
	err = steps.Step("register", func() error {
		var err error
		registered, err = s.driver.RegisterRecords(ctx, dataset, "")
		steps.SetRegistered(len(registered))
		return err
	})
	if err != nil {
		return err
	}

	if len(registered) == 0 {
		s.logger.Warn().Str("path", s.path).Msg("No records registered from spreadsheet, nothing to search")
		return &models.VerificationError{Label: "search", Reason: "no records were registered from the spreadsheet"}
	}

	if err := steps.Step("search", func() error {
		return s.driver.VerifySearch(ctx, registered, nil)
	}); err != nil {
		return err
	}

	return steps.Step("clear_search", func() error {
		return s.driver.VerifyClearResets(ctx, registered)
	})
}

// readRows reads the sheet row by row through the cell accessors, the first data row
// being 2 when the sheet has a header
func (s *SpreadsheetSearch) readRows() (*models.DataSet, error) {
	count, err := s.reader.RowCount(s.path, s.sheet, s.hasHeader)
	if err != nil {
		return nil, err
	}

	first := 1
	if s.hasHeader {
		first = 2
	}

	columns := s.driver.Columns()
	records := make([]models.Record, 0, count)
	for row := first; row < first+count; row++ {
		record := make(models.Record, len(columns))
		for _, column := range columns {
			value, err := s.reader.CellValue(s.path, s.sheet, row, column)
			if err != nil {
				return nil, err
			}
			record[column] = value
		}
		records = append(records, record)
	}

	s.logger.Debug().Str("path", s.path).Int("rows", count).Msg("Spreadsheet rows read")
	return models.NewDataSet(s.path, columns, records), nil
}

// XMLPagination registers the records of an XML document and checks the pagination caption
type XMLPagination struct {
	reader   *datasource.Reader
	driver   *Driver
	path     string
	rootTag  string
	pageSize int
	logger   arbor.ILogger
}

// NewXMLPagination creates the XML pagination scenario
func NewXMLPagination(reader *datasource.Reader, driver *Driver, path, rootTag string, pageSize int, logger arbor.ILogger) *XMLPagination {
	return &XMLPagination{
		reader:   reader,
		driver:   driver,
		path:     path,
		rootTag:  rootTag,
		pageSize: pageSize,
		logger:   logger,
	}
}

func (s *XMLPagination) Name() string   { return "xml_pagination" }
func (s *XMLPagination) Source() string { return s.path }

// Run passes with a warning when the document holds no records
func (s *XMLPagination) Run(ctx context.Context, steps *Recorder) error {
	var dataset *models.DataSet
	err := steps.Step("load_dataset", func() error {
		var err error
		dataset, err = s.reader.LoadDataset(s.path, s.rootTag, false)
		return err
	})
	if err != nil {
		return err
	}

	if dataset.IsEmpty() {
		s.logger.Warn().Str("path", s.path).Msg("XML document has no records, skipping registration")
		return nil
	}

	var registered []models.Record
	err = steps.Step("register", func() error {
		var err error
		registered, err = s.driver.RegisterRecords(ctx, dataset, "xml")
		steps.SetRegistered(len(registered))
		return err
	})
	if err != nil {
		return err
	}

	return steps.Step("pagination", func() error {
		return s.driver.VerifyPagination(ctx, s.pageSize, len(registered))
	})
}
