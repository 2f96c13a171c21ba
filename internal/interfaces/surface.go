package interfaces

import (
	"context"
)

// SelectorKind tells the surface how to interpret a target's selector
type SelectorKind int

const (
	// SelectorCSS is a CSS query selector
	SelectorCSS SelectorKind = iota
	// SelectorXPath is an XPath expression
	SelectorXPath
)

// Target is an opaque handle to an addressable UI element.
// Targets are supplied by a Locator; the verification engine never builds them.
type Target struct {
	Name     string
	Selector string
	Kind     SelectorKind
}

func (t Target) String() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Selector
}

// Surface is the capability "resolve a named target to an actionable element and act on it".
// Every method blocks until the element is actionable or ctx is done.
type Surface interface {
	// Click waits for the target to be visible and clicks it
	Click(ctx context.Context, target Target) error

	// Fill replaces the value of an input and fires its input/change handlers
	Fill(ctx context.Context, target Target, value string) error

	// SelectByValue picks the <option> whose value attribute equals value
	SelectByValue(ctx context.Context, target Target, value string) error

	// Text returns the visible text content of the target
	Text(ctx context.Context, target Target) (string, error)

	// OuterHTML returns the target's markup, used for table extraction
	OuterHTML(ctx context.Context, target Target) (string, error)

	// Screenshot captures the current viewport as PNG bytes
	Screenshot(ctx context.Context) ([]byte, error)
}
