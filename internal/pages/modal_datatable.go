// Package pages holds the locators of the demo pages under test.
package pages

import "github.com/ternarybob/tablecheck/internal/interfaces"

// ModalDataTable locates the elements of the "Modal, Datatables" page: a DataTables
// listing with an add-record modal form.
type ModalDataTable struct{}

var _ interfaces.Locator = ModalDataTable{}

// NewModalDataTable returns the locator for the modal data table page
func NewModalDataTable() ModalDataTable {
	return ModalDataTable{}
}

func css(name, selector string) interfaces.Target {
	return interfaces.Target{Name: name, Selector: selector, Kind: interfaces.SelectorCSS}
}

func xpath(name, selector string) interfaces.Target {
	return interfaces.Target{Name: name, Selector: selector, Kind: interfaces.SelectorXPath}
}

// modalField addresses the input that follows a form label inside the add-record modal
func modalField(name, label string) interfaces.Target {
	return xpath(name, "//*[@id='addRecordModal']//label[normalize-space()='"+label+"']/following::input[1]")
}

// modalButton addresses a button of the add-record modal by its caption
func modalButton(name, caption string) interfaces.Target {
	return xpath(name, "//*[@id='addRecordModal']//button[normalize-space()='"+caption+"']")
}

func (ModalDataTable) AddRecordButton() interfaces.Target {
	return xpath("add_record", "//button[normalize-space()='Agregar Registro']")
}

func (ModalDataTable) EntriesSelect() interfaces.Target {
	return css("entries_select", "select[name='dataTable_length']")
}

func (ModalDataTable) Table() interfaces.Target {
	return css("data_table", "#dataTable")
}

func (ModalDataTable) SearchBox() interfaces.Target {
	return css("search_box", "#dataTable_filter input[type='search']")
}

func (ModalDataTable) PreviousPage() interfaces.Target {
	return css("previous_page", "#dataTable_previous")
}

func (ModalDataTable) NextPage() interfaces.Target {
	return css("next_page", "#dataTable_next")
}

func (ModalDataTable) NameField() interfaces.Target {
	return modalField("name_field", "Nombre")
}

func (ModalDataTable) SurnameField() interfaces.Target {
	return modalField("surname_field", "Apellidos")
}

func (ModalDataTable) PhoneField() interfaces.Target {
	return modalField("phone_field", "Teléfono")
}

func (ModalDataTable) SubmitButton() interfaces.Target {
	return modalButton("submit", "Enviar")
}

func (ModalDataTable) ClearButton() interfaces.Target {
	return modalButton("clear", "Limpiar")
}

// CloseButton is the header close control; the modal has no caption on it
func (ModalDataTable) CloseButton() interfaces.Target {
	return xpath("close_modal", "//*[@id='addRecordModal']/div/div/div[1]/button")
}

func (ModalDataTable) SuccessMessage() interfaces.Target {
	return css("success_message", "#flashMessage")
}

func (ModalDataTable) PaginationCaption() interfaces.Target {
	return xpath("pagination_caption", "//*[@id='dataTable_info']")
}
