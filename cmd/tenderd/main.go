package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/NavalkishorG/Backend-getquote/internal/api"
	"github.com/NavalkishorG/Backend-getquote/internal/auth"
	"github.com/NavalkishorG/Backend-getquote/internal/browser"
	"github.com/NavalkishorG/Backend-getquote/internal/config"
	"github.com/NavalkishorG/Backend-getquote/internal/crypto"
	"github.com/NavalkishorG/Backend-getquote/internal/dashboard"
	"github.com/NavalkishorG/Backend-getquote/internal/observability"
	"github.com/NavalkishorG/Backend-getquote/internal/scraper"
	"github.com/NavalkishorG/Backend-getquote/internal/store"
	"github.com/NavalkishorG/Backend-getquote/internal/types"
	"github.com/NavalkishorG/Backend-getquote/internal/worker"
)

var (
	cfgFile  string
	verbose  bool
	email    string
	password string
	target   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tenderd",
		Short: "tenderd is a tender portal scraping service",
		Long: `tenderd scrapes construction tenders from the procurement portal into
MongoDB, either as a long-running HTTP service or as one-shot CLI runs.

Commands:
  serve    run the HTTP API (scrape triggers, dashboard, health, metrics)
  scrape   scrape the tender listing once and exit
  search   scrape specific project ids through the portal search
  config   show the effective configuration
  version  print version information`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// serveCmd creates the "serve" subcommand.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.NewMongoStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("connect storage: %w", err)
	}
	defer st.Close(context.Background())

	b, err := browser.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	defer b.Close()

	encryptor, err := crypto.NewEncryptor(crypto.DeriveKeyFromSecret(cfg.Security.EncryptionKey))
	if err != nil {
		return fmt.Errorf("init encryptor: %w", err)
	}

	metrics := observability.NewMetrics(logger)
	orchestrator := scraper.NewOrchestrator(cfg, b, st, metrics, logger)
	resolver := auth.NewCredentialResolver(st, encryptor, logger)
	verifier := auth.NewVerifier(cfg.API.TokenSecret)
	analytics := dashboard.New(st, logger)
	pool := worker.New(cfg.Engine.Workers, logger)

	server := api.NewServer(cfg, orchestrator, resolver, verifier, analytics, metrics, pool, logger)

	logger.Info("tenderd serving",
		"port", cfg.API.Port,
		"workers", cfg.Engine.Workers,
		"portal", cfg.Portal.BaseURL,
	)
	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	pool.Wait()
	logger.Info("tenderd stopped")
	return nil
}

// scrapeCmd creates the "scrape" subcommand for one-shot listing runs.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape the tender listing once",
		RunE:  runScrape,
	}
	addCredentialFlags(cmd)
	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	return runOnce(func(ctx context.Context, o *scraper.Orchestrator, url string, creds types.Credentials) (*types.RunSummary, error) {
		return o.ScrapeListing(ctx, url, creds)
	})
}

// searchCmd creates the "search" subcommand for per-id runs.
func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [project-id...]",
		Short: "Scrape specific projects by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(func(ctx context.Context, o *scraper.Orchestrator, url string, creds types.Credentials) (*types.RunSummary, error) {
				return o.ScrapeProjects(ctx, url, args, creds)
			})
		},
	}
	addCredentialFlags(cmd)
	return cmd
}

func addCredentialFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&email, "email", "", "portal login email")
	cmd.Flags().StringVar(&password, "password", "", "portal login password")
	cmd.Flags().StringVar(&target, "url", "", "listing URL (defaults to configured portal listing)")
}

// runOnce wires a one-shot scrape run and prints its summary.
func runOnce(run func(context.Context, *scraper.Orchestrator, string, types.Credentials) (*types.RunSummary, error)) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.NewMongoStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("connect storage: %w", err)
	}
	defer st.Close(context.Background())

	b, err := browser.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	defer b.Close()

	url := target
	if url == "" {
		url = cfg.Portal.ListingURL
	}
	creds := types.Credentials{Email: email, Password: password}

	jobCtx, cancel := context.WithTimeout(ctx, cfg.Engine.JobTimeout)
	defer cancel()

	start := time.Now()
	summary, err := run(jobCtx, scraper.NewOrchestrator(cfg, b, st, nil, logger), url, creds)
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}

	elapsed := time.Since(start)
	fmt.Printf("Scrape complete in %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("  Processed:  %d\n", summary.Processed)
	fmt.Printf("  Failed:     %d\n", summary.Failed)
	fmt.Printf("  Duplicates: %d\n", summary.SkippedDuplicates)
	for _, reason := range summary.FailureReasons() {
		fmt.Printf("  ! %s\n", reason)
	}
	return nil
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tenderd %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Portal:\n")
			fmt.Printf("  Base URL:        %s\n", cfg.Portal.BaseURL)
			fmt.Printf("  Listing URL:     %s\n", cfg.Portal.ListingURL)
			fmt.Printf("  Session TTL:     %s\n", cfg.Portal.SessionTTL)
			fmt.Printf("  Login Timeout:   %s\n", cfg.Portal.LoginTimeout)
			fmt.Printf("\nBrowser:\n")
			fmt.Printf("  Headless:        %v\n", cfg.Browser.Headless)
			fmt.Printf("  Stealth:         %v\n", cfg.Browser.Stealth)
			fmt.Printf("  Block Resources: %v\n", cfg.Browser.BlockResources)
			fmt.Printf("  Nav Timeout:     %s\n", cfg.Browser.NavTimeout)
			fmt.Printf("\nEngine:\n")
			fmt.Printf("  Workers:         %d\n", cfg.Engine.Workers)
			fmt.Printf("  Candidate Delay: %s\n", cfg.Engine.CandidateDelay)
			fmt.Printf("  Job Timeout:     %s\n", cfg.Engine.JobTimeout)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Database:        %s\n", cfg.Storage.Database)
			fmt.Printf("  Collection:      %s\n", cfg.Storage.Collection)
			fmt.Printf("\nAPI:\n")
			fmt.Printf("  Port:            %d\n", cfg.API.Port)
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:         %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Path:            %s\n", cfg.Metrics.Path)
			return nil
		},
	}
}

// loadConfig loads and validates configuration and builds the logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, setupLogger(cfg), nil
}

// setupLogger creates a structured logger per the logging config.
func setupLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
