package scraper

import (
	"context"
	"log/slog"

	"github.com/NavalkishorG/Backend-getquote/internal/browser"
	"github.com/NavalkishorG/Backend-getquote/internal/config"
	"github.com/NavalkishorG/Backend-getquote/internal/selectors"
	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

// portalDriver is the rod-backed Driver. One driver owns one page for the
// lifetime of one job.
type portalDriver struct {
	page     *browser.Page
	session  *browser.SessionManager
	cfg      *config.Config
	strategy selectors.Strategy
	logger   *slog.Logger
}

func newPortalDriver(page *browser.Page, cfg *config.Config, strategy selectors.Strategy, metrics browser.LoginMetrics, logger *slog.Logger) *portalDriver {
	return &portalDriver{
		page:     page,
		session:  browser.NewSessionManager(cfg, strategy, metrics, logger),
		cfg:      cfg,
		strategy: strategy,
		logger:   logger.With("component", "portal_driver"),
	}
}

// Start navigates to the target and makes sure the session is logged in.
// Any failure here is fatal to the job; nothing has been extracted yet.
func (d *portalDriver) Start(ctx context.Context, targetURL string, creds types.Credentials) error {
	if err := d.page.Navigate(ctx, targetURL); err != nil {
		return &types.NavigationError{URL: targetURL, Err: err, Fatal: true}
	}
	return d.session.EnsureAuthenticated(ctx, d.page, creds, targetURL)
}

func (d *portalDriver) Close() {
	if err := d.page.Close(); err != nil {
		d.logger.Debug("page close failed", "error", err)
	}
}
