package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/go-rod/rod"

	"github.com/NavalkishorG/Backend-getquote/internal/selectors"
	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

// Rows enumerates the listing's tender rows. The portal renders each tender
// as its own tbody, so every container match is one candidate.
func (d *portalDriver) Rows(ctx context.Context) ([]Candidate, error) {
	if _, err := d.page.Element(d.strategy.Chain(selectors.FieldRowContainer), d.cfg.Browser.SelectorWait); err != nil {
		return nil, types.ErrNoRows
	}

	els, err := d.page.Elements(d.strategy.Chain(selectors.FieldRowContainer))
	if err != nil {
		return nil, &types.NavigationError{URL: d.page.URL(), Err: err, Fatal: true}
	}

	candidates := make([]Candidate, 0, len(els))
	for _, el := range els {
		candidates = append(candidates, &rowCandidate{el: el, driver: d})
	}
	return candidates, nil
}

// Locate finds one project through the listing's search box. The portal
// answers a search with either an autocomplete dropdown or a filtered
// results table, and which one wins the race varies; both are polled until
// one of them surfaces the id.
func (d *portalDriver) Locate(ctx context.Context, projectID string) (Candidate, error) {
	wait := d.cfg.Browser.SelectorWait

	if err := d.page.Input(d.strategy.Chain(selectors.FieldSearchInput), projectID, wait); err != nil {
		return nil, &types.NavigationError{URL: d.page.URL(), Err: err, Fatal: true}
	}
	if err := d.page.Click(d.strategy.Chain(selectors.FieldSearchButton), 2*time.Second); err != nil {
		// No dedicated button on the current markup; Enter submits.
		if err := d.page.PressEnter(); err != nil {
			return nil, &types.NavigationError{URL: d.page.URL(), Err: err, Fatal: true}
		}
	}

	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}

		if d.page.Has(d.strategy.Chain(selectors.FieldAutocomplete)) {
			if c := d.suggestionFor(projectID); c != nil {
				d.logger.Debug("search hit via autocomplete", "project_id", projectID)
				return c, nil
			}
		}
		if c := d.resultRowFor(projectID); c != nil {
			d.logger.Debug("search hit via results table", "project_id", projectID)
			return c, nil
		}
	}
	return nil, types.ErrNotFound
}

// suggestionFor scans the autocomplete dropdown for a link mentioning the id.
func (d *portalDriver) suggestionFor(projectID string) Candidate {
	els, err := d.page.Elements(d.strategy.Chain(selectors.FieldSuggestedProject))
	if err != nil {
		return nil
	}
	for _, el := range els {
		if elementMentions(el, projectID) {
			return &suggestionCandidate{el: el, projectID: projectID, driver: d}
		}
	}
	return nil
}

// resultRowFor scans the filtered results table for a row carrying the id.
func (d *portalDriver) resultRowFor(projectID string) Candidate {
	els, err := d.page.Elements(d.strategy.Chain(selectors.FieldRowContainer))
	if err != nil {
		return nil
	}
	for _, el := range els {
		html, err := el.HTML()
		if err != nil {
			continue
		}
		if strings.Contains(html, projectID) {
			return &rowCandidate{el: el, driver: d}
		}
	}
	return nil
}

// elementMentions reports whether an element's text or markup contains the
// id. Suggestion links sometimes carry the id only in their href.
func elementMentions(el *rod.Element, projectID string) bool {
	if text, err := el.Text(); err == nil && strings.Contains(text, projectID) {
		return true
	}
	if html, err := el.HTML(); err == nil && strings.Contains(html, projectID) {
		return true
	}
	return false
}
