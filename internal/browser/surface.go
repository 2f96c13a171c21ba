package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/tablecheck/internal/interfaces"
)

// dispatchEventsJS fires the events debounced table widgets listen to after a programmatic value change
const dispatchEventsJS = `function() {
	for (const type of ["input", "keyup", "change"]) {
		this.dispatchEvent(new Event(type, { bubbles: true }));
	}
	return true;
}`

// Surface implements interfaces.Surface on a chromedp tab
type Surface struct {
	browserCtx context.Context
}

var _ interfaces.Surface = (*Surface)(nil)

// queryOption maps a target kind to the chromedp selector strategy
func queryOption(target interfaces.Target) chromedp.QueryOption {
	if target.Kind == interfaces.SelectorXPath {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

// Click waits for the target to become visible and clicks it
func (s *Surface) Click(ctx context.Context, target interfaces.Target) error {
	by := queryOption(target)
	return run(ctx, s.browserCtx,
		chromedp.WaitVisible(target.Selector, by),
		chromedp.Click(target.Selector, by),
	)
}

// Fill replaces the input value and fires input/keyup/change so search filters apply
func (s *Surface) Fill(ctx context.Context, target interfaces.Target, value string) error {
	by := queryOption(target)
	return run(ctx, s.browserCtx,
		chromedp.WaitVisible(target.Selector, by),
		chromedp.Focus(target.Selector, by),
		chromedp.SetValue(target.Selector, value, by),
		dispatchEvents(target.Selector, by),
	)
}

// SelectByValue sets a <select> to the option with the given value attribute
func (s *Surface) SelectByValue(ctx context.Context, target interfaces.Target, value string) error {
	by := queryOption(target)
	var selected string
	err := run(ctx, s.browserCtx,
		chromedp.WaitVisible(target.Selector, by),
		chromedp.SetValue(target.Selector, value, by),
		dispatchEvents(target.Selector, by),
		chromedp.Value(target.Selector, &selected, by),
	)
	if err != nil {
		return err
	}
	if selected != value {
		return fmt.Errorf("option %q not available in %s", value, target)
	}
	return nil
}

// Text returns the visible text of the target
func (s *Surface) Text(ctx context.Context, target interfaces.Target) (string, error) {
	by := queryOption(target)
	var text string
	err := run(ctx, s.browserCtx,
		chromedp.WaitVisible(target.Selector, by),
		chromedp.Text(target.Selector, &text, by),
	)
	return text, err
}

// OuterHTML returns the markup of the target
func (s *Surface) OuterHTML(ctx context.Context, target interfaces.Target) (string, error) {
	by := queryOption(target)
	var html string
	err := run(ctx, s.browserCtx,
		chromedp.WaitReady(target.Selector, by),
		chromedp.OuterHTML(target.Selector, &html, by),
	)
	return html, err
}

// Screenshot captures the current viewport as PNG
func (s *Surface) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := run(ctx, s.browserCtx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return buf, nil
}

// dispatchEvents resolves the first matching node and fires the change events on it
func dispatchEvents(selector string, by chromedp.QueryOption) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var nodes []*cdp.Node
		if err := chromedp.Nodes(selector, &nodes, by, chromedp.AtLeast(1)).Do(ctx); err != nil {
			return err
		}
		obj, err := dom.ResolveNode().WithNodeID(nodes[0].NodeID).Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve node for %s: %w", selector, err)
		}
		_, exception, err := runtime.CallFunctionOn(dispatchEventsJS).WithObjectID(obj.ObjectID).Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to dispatch events on %s: %w", selector, err)
		}
		if exception != nil {
			return fmt.Errorf("event dispatch raised on %s: %s", selector, exception.Text)
		}
		return nil
	})
}
