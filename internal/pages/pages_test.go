package pages

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/tablecheck/internal/interfaces"
)

func TestModalDataTable_TargetsAreDistinctAndWellFormed(t *testing.T) {
	page := NewModalDataTable()
	nav := NewNavigationBar()

	targets := []interfaces.Target{
		page.AddRecordButton(), page.EntriesSelect(), page.Table(), page.SearchBox(),
		page.PreviousPage(), page.NextPage(), page.NameField(), page.SurnameField(),
		page.PhoneField(), page.SubmitButton(), page.ClearButton(), page.CloseButton(),
		page.SuccessMessage(), page.PaginationCaption(),
		nav.MenuToggle(), nav.FormsMenu(), nav.ModalDataTableLink(),
	}

	names := make(map[string]bool)
	for _, target := range targets {
		assert.NotEmpty(t, target.Name)
		assert.NotEmpty(t, target.Selector, target.Name)
		assert.False(t, names[target.Name], "duplicate target name %s", target.Name)
		names[target.Name] = true

		if target.Kind == interfaces.SelectorXPath {
			assert.True(t, strings.HasPrefix(target.Selector, "//"), "%s should be an absolute xpath", target.Name)
		} else {
			assert.False(t, strings.HasPrefix(target.Selector, "/"), "%s should be css", target.Name)
		}
	}
}

func TestModalDataTable_FieldsFollowLabels(t *testing.T) {
	page := NewModalDataTable()
	assert.Contains(t, page.SurnameField().Selector, "'Apellidos'")
	assert.Contains(t, page.PhoneField().Selector, "'Teléfono'")
	assert.Equal(t, "#dataTable", page.Table().Selector)
}
