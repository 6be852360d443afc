// Package browser owns the headless Chromium instance and the page-level
// driver the scrape pipeline runs on. One Browser is shared by all jobs;
// each job gets its own Page and never touches another job's.
package browser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/NavalkishorG/Backend-getquote/internal/config"
)

// Browser wraps a running Chromium instance.
type Browser struct {
	browser *rod.Browser
	cfg     *config.Config
	logger  *slog.Logger
}

// New launches Chromium and connects to it.
func New(cfg *config.Config, logger *slog.Logger) (*Browser, error) {
	b := &Browser{
		cfg:    cfg,
		logger: logger.With("component", "browser"),
	}

	launchURL, err := b.launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	b.browser = browser

	b.logger.Info("browser ready",
		"headless", cfg.Browser.Headless,
		"stealth", cfg.Browser.Stealth,
		"block_resources", cfg.Browser.BlockResources,
	)
	return b, nil
}

// launch starts Chromium with flags suited to container environments.
func (b *Browser) launch() (string, error) {
	l := launcher.New().
		Headless(b.cfg.Browser.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-features", "IsolateOrigins,site-per-process").
		Set("disable-blink-features", "AutomationControlled")

	return l.Launch()
}

// NewPage opens a fresh page for one scrape job. Stealth patches, the
// user-agent override and resource blocking are applied before the page
// navigates anywhere.
func (b *Browser) NewPage() (*Page, error) {
	var (
		page *rod.Page
		err  error
	)
	if b.cfg.Browser.Stealth {
		page, err = stealth.Page(b.browser)
	} else {
		page, err = b.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}

	if ua := b.cfg.Browser.UserAgent; ua != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); err != nil {
			b.logger.Warn("failed to set user agent", "error", err)
		}
	}

	if b.cfg.Browser.BlockResources {
		b.blockResources(page)
	}

	return newPage(page, b.cfg, b.logger), nil
}

// blockResources intercepts network requests and fails the ones the
// extraction never needs. Dropping images, styles and analytics calls cuts
// page-load time by more than half on the portal's listing page.
func (b *Browser) blockResources(page *rod.Page) {
	router := page.HijackRequests()

	blockedTypes := map[proto.NetworkResourceType]bool{
		proto.NetworkResourceTypeImage:      true,
		proto.NetworkResourceTypeStylesheet: true,
		proto.NetworkResourceTypeFont:       true,
		proto.NetworkResourceTypeMedia:      true,
	}

	err := router.Add("*", "", func(ctx *rod.Hijack) {
		if blockedTypes[ctx.Request.Type()] {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		url := ctx.Request.URL().String()
		for _, domain := range b.cfg.Browser.BlockedDomains {
			if strings.Contains(url, domain) {
				ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
				return
			}
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})
	if err != nil {
		b.logger.Warn("resource blocking unavailable", "error", err)
		return
	}

	go router.Run()
}

// Close shuts down the browser.
func (b *Browser) Close() error {
	if b.browser != nil {
		return b.browser.Close()
	}
	return nil
}
