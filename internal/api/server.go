// Package api is the HTTP front end: scrape triggers, dashboard views,
// health and metrics.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/NavalkishorG/Backend-getquote/internal/config"
	"github.com/NavalkishorG/Backend-getquote/internal/dashboard"
	"github.com/NavalkishorG/Backend-getquote/internal/observability"
	"github.com/NavalkishorG/Backend-getquote/internal/types"
	"github.com/NavalkishorG/Backend-getquote/internal/worker"
)

// JobRunner runs scrape jobs. The orchestrator implements it; tests
// substitute canned summaries.
type JobRunner interface {
	ScrapeListing(ctx context.Context, url string, creds types.Credentials) (*types.RunSummary, error)
	ScrapeProjects(ctx context.Context, url string, projectIDs []string, creds types.Credentials) (*types.RunSummary, error)
}

// CredentialSource resolves a verified caller to portal credentials.
type CredentialSource interface {
	Resolve(ctx context.Context, userID string) (types.Credentials, error)
}

// TokenVerifier validates Authorization headers.
type TokenVerifier interface {
	VerifyBearer(header string) (string, error)
}

// Server is the HTTP API over the scrape pipeline.
type Server struct {
	mux       *http.ServeMux
	cfg       *config.Config
	runner    JobRunner
	creds     CredentialSource
	verifier  TokenVerifier
	analytics *dashboard.Analytics
	metrics   *observability.Metrics
	pool      *worker.Pool
	logger    *slog.Logger
}

// NewServer wires the HTTP surface together.
func NewServer(cfg *config.Config, runner JobRunner, creds CredentialSource, verifier TokenVerifier, analytics *dashboard.Analytics, metrics *observability.Metrics, pool *worker.Pool, logger *slog.Logger) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		cfg:       cfg,
		runner:    runner,
		creds:     creds,
		verifier:  verifier,
		analytics: analytics,
		metrics:   metrics,
		pool:      pool,
		logger:    logger.With("component", "api_server"),
	}
	s.registerRoutes()
	return s
}

// Handler returns the server's root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe starts the server on the configured port and blocks until
// the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.API.Port),
		Handler: s.mux,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server starting", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /scrape-tenders", s.requireAuth(s.handleScrapeTenders))
	s.mux.HandleFunc("POST /scrape-project", s.requireAuth(s.handleScrapeProject))

	s.mux.HandleFunc("GET /dashboard/stats", s.handleDashboardStats)
	s.mux.HandleFunc("GET /dashboard/projects", s.handleDashboardProjects)

	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	if s.cfg.Metrics.Enabled && s.metrics != nil {
		s.mux.Handle("GET "+s.cfg.Metrics.Path, s.metrics)
	}
}

type contextKey string

const userIDKey contextKey = "user_id"

// requireAuth verifies the bearer token and stashes the caller's user id
// in the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.verifier.VerifyBearer(r.Header.Get("Authorization"))
		if err != nil {
			s.errorResponse(w, http.StatusUnauthorized, "Invalid or missing bearer token")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": config.Version,
	})
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.analytics.Stats(r.Context())
	if err != nil {
		s.logger.Error("dashboard stats failed", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	s.jsonResponse(w, http.StatusOK, stats)
}

func (s *Server) handleDashboardProjects(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	views, err := s.analytics.Projects(r.Context(), limit, r.URL.Query().Get("category"))
	if err != nil {
		s.logger.Error("dashboard projects failed", "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list projects")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"total":    len(views),
		"projects": views,
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response encoding failed", "error", err)
	}
}

// errorResponse writes the error shape callers expect: a detail string.
func (s *Server) errorResponse(w http.ResponseWriter, status int, detail string) {
	s.jsonResponse(w, status, map[string]string{"detail": detail})
}

// resolveCredentials fetches the caller's portal credentials. A user with
// nothing stored gets 404: the token was fine, the credential record is
// what is missing.
func (s *Server) resolveCredentials(ctx context.Context) (types.Credentials, int, string) {
	userID, _ := ctx.Value(userIDKey).(string)
	creds, err := s.creds.Resolve(ctx, userID)
	if err != nil {
		if errors.Is(err, types.ErrNoCredentials) {
			return types.Credentials{}, http.StatusNotFound, "No stored portal credentials for this user"
		}
		s.logger.Error("credential resolution failed", "user_id", userID, "error", err)
		return types.Credentials{}, http.StatusInternalServerError, "Failed to resolve credentials"
	}
	return creds, 0, ""
}
