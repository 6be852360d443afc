package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Portal.LoginURL == "" {
		return fmt.Errorf("portal.login_url must be set")
	}
	if cfg.Portal.LoginPath == "" {
		return fmt.Errorf("portal.login_path must be set")
	}
	if cfg.Portal.SessionTTL <= 0 {
		return fmt.Errorf("portal.session_ttl must be > 0")
	}
	if cfg.Portal.LoginTimeout <= 0 {
		return fmt.Errorf("portal.login_timeout must be > 0")
	}

	if cfg.Browser.NavTimeout <= 0 {
		return fmt.Errorf("browser.nav_timeout must be > 0")
	}
	if cfg.Browser.SelectorWait <= 0 {
		return fmt.Errorf("browser.selector_wait must be > 0")
	}

	if cfg.Engine.Workers < 1 {
		return fmt.Errorf("engine.workers must be >= 1, got %d", cfg.Engine.Workers)
	}
	if cfg.Engine.Workers > 16 {
		return fmt.Errorf("engine.workers must be <= 16, got %d", cfg.Engine.Workers)
	}
	if cfg.Engine.CandidateDelay < 0 {
		return fmt.Errorf("engine.candidate_delay must be >= 0")
	}

	if cfg.Storage.URI == "" {
		return fmt.Errorf("storage.uri must be set")
	}
	if cfg.Storage.Database == "" || cfg.Storage.Collection == "" {
		return fmt.Errorf("storage.database and storage.collection must be set")
	}

	if cfg.API.Port < 1 || cfg.API.Port > 65535 {
		return fmt.Errorf("api.port must be 1-65535, got %d", cfg.API.Port)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

// ValidatePortalURL checks that a job's target URL is well formed and lives
// on the configured portal host.
func ValidatePortalURL(cfg *Config, rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	base, err := url.Parse(cfg.Portal.BaseURL)
	if err == nil && base.Host != "" {
		if !strings.HasSuffix(u.Hostname(), strings.TrimPrefix(base.Hostname(), "app.")) {
			return fmt.Errorf("URL host %q is not the configured portal", u.Host)
		}
	}
	return nil
}
