package scenario

import (
	"context"

	"github.com/ternarybob/tablecheck/internal/interaction"
	"github.com/ternarybob/tablecheck/internal/interfaces"
)

// OpenViaMenu reaches the data table page through the navigation bar. collapsed opens the
// hamburger toggle first, as narrow viewports hide the menu behind it.
func OpenViaMenu(ctx context.Context, executor *interaction.Executor, nav interfaces.NavigationLocator, collapsed bool) error {
	if collapsed {
		if err := executor.Click(ctx, nav.MenuToggle(), "open_menu"); err != nil {
			return err
		}
	}
	if err := executor.Click(ctx, nav.FormsMenu(), "open_forms_menu"); err != nil {
		return err
	}
	return executor.Click(ctx, nav.ModalDataTableLink(), "open_modal_datatable")
}
