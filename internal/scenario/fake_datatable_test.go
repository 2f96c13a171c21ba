package scenario

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ternarybob/tablecheck/internal/interfaces"
	"github.com/ternarybob/tablecheck/internal/models"
)

// fakeDataTable simulates the modal data table page in memory, keyed on target names.
// It sorts by Nombre, filters with a DataTables-style smart search and pages the result.
type fakeDataTable struct {
	mu sync.Mutex

	rows      []models.Record
	form      map[string]string
	modalOpen bool
	flash     string
	search    string
	pageSize  int
	page      int

	// searchLag delays the effect of a search for that many OuterHTML reads
	searchLag    int
	pendingReads int
	shownSearch  string

	brokenSort  bool
	flashText   string
	failClicks  map[string]int
	clickCounts map[string]int
}

var formColumns = map[string]string{
	"name_field":    "Nombre",
	"surname_field": "Apellidos",
	"phone_field":   "Teléfono",
}

func newFakeDataTable() *fakeDataTable {
	return &fakeDataTable{
		form:        map[string]string{},
		pageSize:    10,
		page:        1,
		flashText:   "Formulario enviado exitosamente",
		failClicks:  map[string]int{},
		clickCounts: map[string]int{},
	}
}

var _ interfaces.Surface = (*fakeDataTable)(nil)

func (f *fakeDataTable) Click(ctx context.Context, target interfaces.Target) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.clickCounts[target.Name]++
	if f.failClicks[target.Name] > 0 {
		f.failClicks[target.Name]--
		return fmt.Errorf("element %s not clickable", target.Name)
	}

	switch target.Name {
	case "add_record":
		f.modalOpen = true
		f.flash = ""
	case "clear":
		f.form = map[string]string{}
	case "submit":
		if !f.modalOpen {
			return fmt.Errorf("element %s not visible", target.Name)
		}
		row := models.Record{}
		for _, column := range formColumns {
			row[column] = f.form[column]
		}
		f.rows = append(f.rows, row)
		f.form = map[string]string{}
		f.flash = f.flashText
	case "close_modal":
		f.modalOpen = false
	case "menu_toggle", "forms_menu", "modal_datatable_link":
	case "next_page":
		if f.page < f.pages() {
			f.page++
		}
	case "previous_page":
		if f.page > 1 {
			f.page--
		}
	default:
		return fmt.Errorf("element %s not found", target.Name)
	}
	return nil
}

func (f *fakeDataTable) Fill(ctx context.Context, target interfaces.Target, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if column, ok := formColumns[target.Name]; ok {
		if !f.modalOpen {
			return fmt.Errorf("element %s not visible", target.Name)
		}
		f.form[column] = value
		return nil
	}
	if target.Name == "search_box" {
		f.search = value
		f.page = 1
		f.pendingReads = f.searchLag
		return nil
	}
	return fmt.Errorf("element %s not found", target.Name)
}

func (f *fakeDataTable) SelectByValue(ctx context.Context, target interfaces.Target, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if target.Name != "entries_select" {
		return fmt.Errorf("element %s not found", target.Name)
	}
	n, err := strconv.Atoi(value)
	if err != nil || (n != 10 && n != 25 && n != 50 && n != 100) {
		return fmt.Errorf("option %q not available", value)
	}
	f.pageSize = n
	f.page = 1
	return nil
}

func (f *fakeDataTable) Text(ctx context.Context, target interfaces.Target) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch target.Name {
	case "success_message":
		return f.flash, nil
	case "pagination_caption":
		visible := f.visibleRows()
		if len(visible) == 0 {
			return "Showing 0 to 0 of 0 entries", nil
		}
		start := (f.page-1)*f.pageSize + 1
		end := min(f.page*f.pageSize, len(visible))
		return fmt.Sprintf("Showing %d to %d of %d entries", start, end, len(visible)), nil
	}
	return "", fmt.Errorf("element %s not found", target.Name)
}

func (f *fakeDataTable) OuterHTML(ctx context.Context, target interfaces.Target) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if target.Name != "data_table" {
		return "", fmt.Errorf("element %s not found", target.Name)
	}

	if f.pendingReads > 0 {
		f.pendingReads--
	} else {
		f.shownSearch = f.search
	}

	visible := f.visibleRows()
	start := min((f.page-1)*f.pageSize, len(visible))
	end := min(start+f.pageSize, len(visible))

	var b strings.Builder
	b.WriteString(`<table id="dataTable"><thead><tr><th>Nombre</th><th>Apellidos</th><th>Teléfono</th></tr></thead><tbody>`)
	if start >= end {
		b.WriteString(`<tr class="odd"><td valign="top" colspan="3" class="dataTables_empty">No matching records found</td></tr>`)
	}
	for _, row := range visible[start:end] {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td></tr>",
			html.EscapeString(row["Nombre"]), html.EscapeString(row["Apellidos"]), html.EscapeString(row["Teléfono"]))
	}
	b.WriteString(`</tbody></table>`)
	return b.String(), nil
}

func (f *fakeDataTable) Screenshot(ctx context.Context) ([]byte, error) {
	return []byte("png"), nil
}

// visibleRows applies the current search and the default Nombre ordering
func (f *fakeDataTable) visibleRows() []models.Record {
	rows := FilterRecords(f.rows, []string{"Nombre", "Apellidos", "Teléfono"}, f.shownSearch)
	if !f.brokenSort {
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i]["Nombre"] < rows[j]["Nombre"]
		})
	}
	return rows
}

func (f *fakeDataTable) pages() int {
	n := len(f.visibleRows())
	if n == 0 {
		return 1
	}
	return (n + f.pageSize - 1) / f.pageSize
}

func (f *fakeDataTable) Rows() []models.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Record, len(f.rows))
	for i, row := range f.rows {
		out[i] = row.Clone()
	}
	return out
}

func (f *fakeDataTable) Clicks(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clickCounts[name]
}

// reset clears the table as a page reload would
func (f *fakeDataTable) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = nil
	f.search = ""
	f.shownSearch = ""
	f.page = 1
	f.pageSize = 10
}
