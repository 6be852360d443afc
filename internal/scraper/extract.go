package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/NavalkishorG/Backend-getquote/internal/parser"
	"github.com/NavalkishorG/Backend-getquote/internal/selectors"
	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

// opener is implemented by candidates that know how to open their popup.
type opener interface {
	open(ctx context.Context) error
}

// rowCandidate is a tender row element in the listing or results table.
type rowCandidate struct {
	el     *rod.Element
	driver *portalDriver
}

// Record extracts the row's fields from its markup snapshot.
func (c *rowCandidate) Record() (*types.TenderRecord, error) {
	html, err := c.el.HTML()
	if err != nil {
		return nil, &types.ExtractError{Err: fmt.Errorf("row markup unavailable: %w", err)}
	}
	rec, err := parser.ExtractRow(html, c.driver.strategy)
	if err != nil {
		return nil, &types.ExtractError{Err: err}
	}
	return rec, nil
}

// open clicks the row's project link, or the row itself when the link
// selector misses.
func (c *rowCandidate) open(ctx context.Context) error {
	for _, sel := range c.driver.strategy.Chain(selectors.FieldProjectLink) {
		link, err := c.el.Timeout(time.Second).Element(sel.Query)
		if err != nil {
			continue
		}
		return link.Click(proto.InputMouseButtonLeft, 1)
	}
	return c.el.Click(proto.InputMouseButtonLeft, 1)
}

// suggestionCandidate is an autocomplete hit. The dropdown entry carries
// little beyond the id; the detail popup supplies the rest.
type suggestionCandidate struct {
	el        *rod.Element
	projectID string
	driver    *portalDriver
}

// Record returns the thin record a dropdown entry yields: its id and
// whatever the link text says about the name.
func (c *suggestionCandidate) Record() (*types.TenderRecord, error) {
	rec := &types.TenderRecord{ProjectID: c.projectID}
	if text, err := c.el.Text(); err == nil {
		rec.ProjectName = trimSuggestion(text, c.projectID)
	}
	return rec, nil
}

func (c *suggestionCandidate) open(ctx context.Context) error {
	return c.el.Click(proto.InputMouseButtonLeft, 1)
}

// Detail opens a candidate's popup, extracts it and dismisses it. Best
// effort end to end: a missing popup or a dropped connection degrades the
// candidate to its row fields instead of failing it.
func (d *portalDriver) Detail(ctx context.Context, c Candidate) (*types.TenderRecord, error) {
	oc, ok := c.(opener)
	if !ok {
		return nil, nil
	}
	if err := oc.open(ctx); err != nil {
		return nil, &types.ExtractError{Err: fmt.Errorf("open detail: %w", err)}
	}

	container, err := d.page.Element(d.strategy.Chain(selectors.FieldDetailContainer), d.cfg.Browser.PopupWait)
	if err != nil {
		// No popup appeared; nothing to dismiss and nothing to merge.
		d.logger.Debug("no detail container", "error", err)
		return nil, nil
	}

	d.expandReadMore(container)

	html, err := container.HTML()
	if err != nil {
		d.dismiss()
		return nil, &types.ExtractError{Err: fmt.Errorf("detail markup unavailable: %w", err)}
	}

	rec, err := parser.ExtractPopup(html, d.strategy)
	d.dismiss()
	if err != nil {
		return nil, &types.ExtractError{Err: err}
	}
	return rec, nil
}

// expandReadMore clicks a truncated description open before the markup
// snapshot is taken.
func (d *portalDriver) expandReadMore(container *rod.Element) {
	for _, sel := range d.strategy.Chain(selectors.FieldReadMore) {
		btn, err := container.Timeout(500 * time.Millisecond).Element(sel.Query)
		if err != nil {
			continue
		}
		if err := btn.Click(proto.InputMouseButtonLeft, 1); err == nil {
			time.Sleep(300 * time.Millisecond)
		}
		return
	}
}

func (d *portalDriver) dismiss() {
	d.page.ClosePopup(d.strategy.Chain(selectors.FieldOverlayOpen))
}

// trimSuggestion strips the id and surrounding punctuation from a dropdown
// entry's text, leaving the project name if one was shown.
func trimSuggestion(text, projectID string) string {
	cleaned := text
	for _, cut := range []string{projectID, "(", ")", "#"} {
		cleaned = strings.ReplaceAll(cleaned, cut, " ")
	}
	return strings.Join(strings.Fields(cleaned), " ")
}
