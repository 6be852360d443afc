package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"github.com/NavalkishorG/Backend-getquote/internal/config"
	"github.com/NavalkishorG/Backend-getquote/internal/selectors"
)

// Page drives a single browser tab through selector chains. Every lookup
// takes a chain so the portal's hashed class names can be backed by stable
// fallbacks, and every wait is bounded.
type Page struct {
	page   *rod.Page
	cfg    *config.Config
	logger *slog.Logger
}

func newPage(page *rod.Page, cfg *config.Config, logger *slog.Logger) *Page {
	return &Page{
		page:   page,
		cfg:    cfg,
		logger: logger.With("component", "page"),
	}
}

// Navigate loads a URL and waits for the page to settle. A stability
// timeout is not fatal; the portal's listing page keeps polling endpoints
// that prevent it from ever going fully idle.
func (p *Page) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	if err := page.Timeout(p.cfg.Browser.NavTimeout).Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.Timeout(p.cfg.Browser.NavTimeout).WaitStable(300 * time.Millisecond); err != nil {
		p.logger.Warn("page stability timeout, continuing", "url", url, "error", err)
	}
	return nil
}

// URL returns the page's current URL, "" when the page is unreachable.
func (p *Page) URL() string {
	info, err := p.page.Info()
	if err != nil || info == nil {
		return ""
	}
	return info.URL
}

// HTML returns the full rendered document.
func (p *Page) HTML() (string, error) {
	return p.page.HTML()
}

// Element resolves a chain to the first matching element, giving each
// lookup in the chain its own bounded wait.
func (p *Page) Element(chain selectors.Chain, wait time.Duration) (*rod.Element, error) {
	var lastErr error
	for _, sel := range chain {
		var (
			el  *rod.Element
			err error
		)
		switch sel.Kind {
		case selectors.KindXPath:
			el, err = p.page.Timeout(wait).ElementX(sel.Query)
		default:
			el, err = p.page.Timeout(wait).Element(sel.Query)
		}
		if err == nil {
			return el, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("empty selector chain")
	}
	return nil, lastErr
}

// Elements resolves a chain to every match of the first lookup that
// matches anything. It does not wait; callers wait for a container first.
func (p *Page) Elements(chain selectors.Chain) (rod.Elements, error) {
	for _, sel := range chain {
		var (
			els rod.Elements
			err error
		)
		switch sel.Kind {
		case selectors.KindXPath:
			els, err = p.page.ElementsX(sel.Query)
		default:
			els, err = p.page.Elements(sel.Query)
		}
		if err != nil {
			return nil, err
		}
		if len(els) > 0 {
			return els, nil
		}
	}
	return nil, nil
}

// Has reports whether any lookup in the chain matches right now.
func (p *Page) Has(chain selectors.Chain) bool {
	for _, sel := range chain {
		if sel.Kind == selectors.KindXPath {
			if has, _, err := p.page.HasX(sel.Query); err == nil && has {
				return true
			}
			continue
		}
		if has, _, err := p.page.Has(sel.Query); err == nil && has {
			return true
		}
	}
	return false
}

// Input focuses the chain's first match, clears it and types the text.
func (p *Page) Input(chain selectors.Chain, text string, wait time.Duration) error {
	el, err := p.Element(chain, wait)
	if err != nil {
		return err
	}
	// Typing over the selection replaces any pre-filled value.
	_ = el.SelectAllText()
	return el.Input(text)
}

// Click clicks the chain's first match.
func (p *Page) Click(chain selectors.Chain, wait time.Duration) error {
	el, err := p.Element(chain, wait)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// PressEnter sends an Enter keystroke to the page.
func (p *Page) PressEnter() error {
	return p.page.Keyboard.Press(input.Enter)
}

// PressEscape sends an Escape keystroke to the page.
func (p *Page) PressEscape() error {
	return p.page.Keyboard.Press(input.Escape)
}

// ClosePopup dismisses the detail modal. Escape, wait for the modal
// overlay to disappear, then a second Escape in case the first landed on
// an inner element. Best effort throughout; a stuck modal surfaces later
// as a navigation failure.
func (p *Page) ClosePopup(overlay selectors.Chain) {
	if err := p.PressEscape(); err != nil {
		p.logger.Debug("escape failed", "error", err)
		return
	}
	if el, err := p.Element(overlay, p.cfg.Browser.PopupWait); err == nil {
		if err := el.Timeout(p.cfg.Browser.PopupWait).WaitInvisible(); err != nil {
			p.logger.Debug("overlay still visible after escape", "error", err)
		}
	}
	_ = p.PressEscape()
}

// Close closes the tab.
func (p *Page) Close() error {
	return p.page.Close()
}
