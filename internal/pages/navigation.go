package pages

import "github.com/ternarybob/tablecheck/internal/interfaces"

// NavigationBar locates the site menu entries that lead to the data table page
type NavigationBar struct{}

var _ interfaces.NavigationLocator = NavigationBar{}

// NewNavigationBar returns the navigation bar locator
func NewNavigationBar() NavigationBar {
	return NavigationBar{}
}

// MenuToggle is only visible on narrow viewports
func (NavigationBar) MenuToggle() interfaces.Target {
	return css("menu_toggle", "button[aria-label='Toggle navigation']")
}

func (NavigationBar) FormsMenu() interfaces.Target {
	return xpath("forms_menu", "//button[normalize-space()='Formularios Validación tres']")
}

func (NavigationBar) ModalDataTableLink() interfaces.Target {
	return xpath("modal_datatable_link", "//a[normalize-space()='Modal, Datatables']")
}
