package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and defaults.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	// Environment variable support
	v.SetEnvPrefix("TENDERD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Search default locations
		v.SetConfigName("tenderd")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".tenderd"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("portal.base_url", cfg.Portal.BaseURL)
	v.SetDefault("portal.listing_url", cfg.Portal.ListingURL)
	v.SetDefault("portal.login_url", cfg.Portal.LoginURL)
	v.SetDefault("portal.login_path", cfg.Portal.LoginPath)
	v.SetDefault("portal.session_ttl", cfg.Portal.SessionTTL)
	v.SetDefault("portal.login_timeout", cfg.Portal.LoginTimeout)

	v.SetDefault("browser.headless", cfg.Browser.Headless)
	v.SetDefault("browser.stealth", cfg.Browser.Stealth)
	v.SetDefault("browser.block_resources", cfg.Browser.BlockResources)
	v.SetDefault("browser.blocked_domains", cfg.Browser.BlockedDomains)
	v.SetDefault("browser.user_agent", cfg.Browser.UserAgent)
	v.SetDefault("browser.nav_timeout", cfg.Browser.NavTimeout)
	v.SetDefault("browser.selector_wait", cfg.Browser.SelectorWait)
	v.SetDefault("browser.popup_wait", cfg.Browser.PopupWait)

	v.SetDefault("engine.workers", cfg.Engine.Workers)
	v.SetDefault("engine.candidate_delay", cfg.Engine.CandidateDelay)
	v.SetDefault("engine.job_timeout", cfg.Engine.JobTimeout)

	v.SetDefault("storage.uri", cfg.Storage.URI)
	v.SetDefault("storage.database", cfg.Storage.Database)
	v.SetDefault("storage.collection", cfg.Storage.Collection)
	v.SetDefault("storage.credential_collection", cfg.Storage.CredentialCollection)
	v.SetDefault("storage.timeout", cfg.Storage.Timeout)

	v.SetDefault("api.port", cfg.API.Port)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.path", cfg.Metrics.Path)
}
