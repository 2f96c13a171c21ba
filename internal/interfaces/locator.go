package interfaces

// Locator supplies targets for the data table page, one accessor per named element.
// Implemented once per concrete page or UI version.
type Locator interface {
	AddRecordButton() Target
	EntriesSelect() Target
	Table() Target
	SearchBox() Target
	PreviousPage() Target
	NextPage() Target
	NameField() Target
	SurnameField() Target
	PhoneField() Target
	SubmitButton() Target
	ClearButton() Target
	CloseButton() Target
	SuccessMessage() Target
	PaginationCaption() Target
}

// NavigationLocator supplies the navigation bar targets that lead to the table page
type NavigationLocator interface {
	MenuToggle() Target
	FormsMenu() Target
	ModalDataTableLink() Target
}
