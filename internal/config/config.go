package config

import (
	"time"

	"github.com/NavalkishorG/Backend-getquote/internal/selectors"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for tenderd.
type Config struct {
	Portal   PortalConfig   `mapstructure:"portal"   yaml:"portal"`
	Browser  BrowserConfig  `mapstructure:"browser"  yaml:"browser"`
	Engine   EngineConfig   `mapstructure:"engine"   yaml:"engine"`
	Storage  StorageConfig  `mapstructure:"storage"  yaml:"storage"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	Security SecurityConfig `mapstructure:"security" yaml:"security"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"  yaml:"metrics"`

	// Selectors overrides individual selector chains by field name, so a
	// portal markup change can be patched without a rebuild.
	Selectors map[string][]selectors.Selector `mapstructure:"selectors" yaml:"selectors"`
}

// PortalConfig describes the procurement portal being scraped.
type PortalConfig struct {
	BaseURL    string `mapstructure:"base_url"    yaml:"base_url"`
	ListingURL string `mapstructure:"listing_url" yaml:"listing_url"`
	LoginURL   string `mapstructure:"login_url"   yaml:"login_url"`

	// LoginPath is the URL fragment that marks an unauthenticated page.
	LoginPath string `mapstructure:"login_path" yaml:"login_path"`

	SessionTTL   time.Duration `mapstructure:"session_ttl"   yaml:"session_ttl"`
	LoginTimeout time.Duration `mapstructure:"login_timeout" yaml:"login_timeout"`
}

// BrowserConfig controls the headless browser.
type BrowserConfig struct {
	Headless       bool          `mapstructure:"headless"        yaml:"headless"`
	Stealth        bool          `mapstructure:"stealth"         yaml:"stealth"`
	BlockResources bool          `mapstructure:"block_resources" yaml:"block_resources"`
	BlockedDomains []string      `mapstructure:"blocked_domains" yaml:"blocked_domains"`
	UserAgent      string        `mapstructure:"user_agent"      yaml:"user_agent"`
	NavTimeout     time.Duration `mapstructure:"nav_timeout"     yaml:"nav_timeout"`
	SelectorWait   time.Duration `mapstructure:"selector_wait"   yaml:"selector_wait"`

	// PopupWait bounds each candidate detail-container selector individually.
	PopupWait time.Duration `mapstructure:"popup_wait" yaml:"popup_wait"`
}

// EngineConfig controls job execution.
type EngineConfig struct {
	// Workers bounds how many scrape jobs run concurrently. Within one job
	// all browser operations are strictly sequential.
	Workers int `mapstructure:"workers" yaml:"workers"`

	// CandidateDelay is the politeness pause between popup cycles.
	CandidateDelay time.Duration `mapstructure:"candidate_delay" yaml:"candidate_delay"`
	JobTimeout     time.Duration `mapstructure:"job_timeout"     yaml:"job_timeout"`
}

// StorageConfig controls the MongoDB backing store.
type StorageConfig struct {
	URI                  string        `mapstructure:"uri"                   yaml:"uri"`
	Database             string        `mapstructure:"database"              yaml:"database"`
	Collection           string        `mapstructure:"collection"            yaml:"collection"`
	CredentialCollection string        `mapstructure:"credential_collection" yaml:"credential_collection"`
	Timeout              time.Duration `mapstructure:"timeout"               yaml:"timeout"`
}

// APIConfig controls the HTTP front end.
type APIConfig struct {
	Port        int    `mapstructure:"port"         yaml:"port"`
	TokenSecret string `mapstructure:"token_secret" yaml:"token_secret"`
}

// SecurityConfig holds the symmetric key for stored portal credentials.
type SecurityConfig struct {
	EncryptionKey string `mapstructure:"encryption_key" yaml:"encryption_key"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig controls the metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Portal: PortalConfig{
			BaseURL:      "https://app.estimateone.com",
			ListingURL:   "https://app.estimateone.com/tenders",
			LoginURL:     "https://app.estimateone.com/auth/login",
			LoginPath:    "/auth/login",
			SessionTTL:   30 * time.Minute,
			LoginTimeout: 20 * time.Second,
		},
		Browser: BrowserConfig{
			Headless:       true,
			Stealth:        true,
			BlockResources: true,
			BlockedDomains: []string{
				"google-analytics", "facebook.com", "twitter.com",
				"linkedin.com", "doubleclick.net",
			},
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
				"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			NavTimeout:   30 * time.Second,
			SelectorWait: 10 * time.Second,
			PopupWait:    time.Second,
		},
		Engine: EngineConfig{
			Workers:        3,
			CandidateDelay: 500 * time.Millisecond,
			JobTimeout:     10 * time.Minute,
		},
		Storage: StorageConfig{
			URI:                  "mongodb://localhost:27017",
			Database:             "getquote",
			Collection:           "tenders",
			CredentialCollection: "user_credentials",
			Timeout:              10 * time.Second,
		},
		API: APIConfig{
			Port: 8000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Path:    "/metrics",
		},
	}
}
