package browser

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/NavalkishorG/Backend-getquote/internal/config"
	"github.com/NavalkishorG/Backend-getquote/internal/selectors"
	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

// LoginMetrics receives login attempt outcomes. Nil is a no-op sink.
type LoginMetrics interface {
	ObserveLoginAttempt()
	ObserveLoginFailure()
}

// SessionManager establishes and caches an authenticated portal session for
// one job's page. The cached state is trusted for the configured TTL; after
// that the page is re-checked even if nothing looks wrong.
type SessionManager struct {
	cfg      *config.Config
	strategy selectors.Strategy
	metrics  LoginMetrics
	logger   *slog.Logger

	mu    sync.Mutex
	state types.SessionState
}

// NewSessionManager creates a session manager for one browser context.
func NewSessionManager(cfg *config.Config, strategy selectors.Strategy, metrics LoginMetrics, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		cfg:      cfg,
		strategy: strategy,
		metrics:  metrics,
		logger:   logger.With("component", "session"),
	}
}

// Invalidate discards the cached session state.
func (m *SessionManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = types.SessionState{}
}

// EnsureAuthenticated makes sure the page holds a logged-in portal session,
// then leaves the page on targetURL. The page must already have navigated
// somewhere on the portal so the redirect check has a URL to inspect.
func (m *SessionManager) EnsureAuthenticated(ctx context.Context, page *Page, creds types.Credentials, targetURL string) error {
	m.mu.Lock()
	cached := m.state
	m.mu.Unlock()

	current := page.URL()
	onLoginPage := isLoginURL(current, m.cfg.Portal.LoginPath)

	if cached.Valid(time.Now()) && !onLoginPage {
		m.logger.Debug("cached session still valid", "url", current)
		return nil
	}

	// The portal redirects unauthenticated requests to the login form, so
	// the URL alone decides whether credentials are needed. A page that
	// stayed on the target with the listing markup present is a live
	// session left over from a previous run.
	if sessionFromLocation(current, m.cfg.Portal.LoginPath) {
		m.markAuthenticated()
		m.logger.Info("existing session detected, skipping login",
			"url", current,
			"listing_markup", page.Has(m.strategy.Chain(selectors.FieldDashboardMarker)),
		)
		return nil
	}

	if creds.Empty() {
		return &types.AuthError{Reason: "missing credentials", Err: types.ErrNoCredentials}
	}

	if err := m.login(ctx, page, creds); err != nil {
		if m.metrics != nil {
			var authErr *types.AuthError
			if errors.As(err, &authErr) {
				m.metrics.ObserveLoginFailure()
			}
		}
		return err
	}

	// The login redirect can land anywhere; go back to where the job
	// actually wants to be.
	if err := page.Navigate(ctx, targetURL); err != nil {
		return &types.NavigationError{URL: targetURL, Err: err, Fatal: true}
	}

	m.markAuthenticated()
	return nil
}

// login drives the credential form and waits for the portal to resolve it.
// Success is the URL leaving the login path or the listing markup
// appearing; an inline error element is a rejection; anything else is a
// timeout.
func (m *SessionManager) login(ctx context.Context, page *Page, creds types.Credentials) error {
	wait := m.cfg.Browser.SelectorWait

	if !isLoginURL(page.URL(), m.cfg.Portal.LoginPath) {
		if err := page.Navigate(ctx, m.cfg.Portal.LoginURL); err != nil {
			return &types.NavigationError{URL: m.cfg.Portal.LoginURL, Err: err, Fatal: true}
		}
		// An authenticated browser is bounced straight off the login page.
		if !isLoginURL(page.URL(), m.cfg.Portal.LoginPath) {
			m.logger.Info("login page redirected away, session already live")
			return nil
		}
	}

	m.logger.Info("submitting portal credentials", "email", creds.Email)
	if m.metrics != nil {
		m.metrics.ObserveLoginAttempt()
	}

	if err := page.Input(m.strategy.Chain(selectors.FieldLoginEmail), creds.Email, wait); err != nil {
		return &types.AuthError{Reason: "email field not found", Err: err}
	}
	if err := page.Input(m.strategy.Chain(selectors.FieldLoginPassword), creds.Password, wait); err != nil {
		return &types.AuthError{Reason: "password field not found", Err: err}
	}
	if err := page.Click(m.strategy.Chain(selectors.FieldLoginSubmit), wait); err != nil {
		// No clickable submit button; Enter on the focused password field
		// submits the form on the portal's current markup.
		if err := page.PressEnter(); err != nil {
			return &types.AuthError{Reason: "could not submit login form", Err: err}
		}
	}

	deadline := time.Now().Add(m.cfg.Portal.LoginTimeout)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}

		marker := page.Has(m.strategy.Chain(selectors.FieldDashboardMarker))
		settled, err := classifyLogin(
			!isLoginURL(page.URL(), m.cfg.Portal.LoginPath),
			marker,
			page.Has(m.strategy.Chain(selectors.FieldLoginError)),
		)
		if err != nil {
			return err
		}
		if settled {
			m.logger.Info("login accepted", "url", page.URL(), "marker", marker)
			return nil
		}
	}
	return &types.AuthError{Reason: "no redirect before deadline", Err: types.ErrLoginTimeout}
}

// classifyLogin resolves one poll of the post-submit page. Leaving the
// login path or the listing markup appearing both prove success; some
// redirects hydrate the listing in place, so the marker can settle the
// login before the address bar does. The inline error banner is a
// rejection only when neither success signal is present.
func classifyLogin(offLoginPath, markerPresent, errorPresent bool) (bool, error) {
	switch {
	case offLoginPath, markerPresent:
		return true, nil
	case errorPresent:
		return true, &types.AuthError{Reason: "credentials rejected", Err: types.ErrLoginRejected}
	}
	return false, nil
}

func (m *SessionManager) markAuthenticated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = types.SessionState{
		Authenticated: true,
		EstablishedAt: time.Now(),
		TTL:           m.cfg.Portal.SessionTTL,
	}
}

// sessionFromLocation reports whether the page's address alone proves a
// live session: any non-empty URL off the login path means the portal did
// not bounce the request to the credential form.
func sessionFromLocation(currentURL, loginPath string) bool {
	return currentURL != "" && !isLoginURL(currentURL, loginPath)
}

// isLoginURL reports whether a URL's path sits under the portal's login
// path. Query strings and fragments do not count; the portal carries a
// "redirect_to" parameter that embeds the login path on non-login pages.
func isLoginURL(rawURL, loginPath string) bool {
	if rawURL == "" || loginPath == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.Contains(rawURL, loginPath)
	}
	return strings.HasPrefix(u.Path, loginPath) || strings.Contains(u.Path, loginPath)
}
