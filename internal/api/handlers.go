package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

// scrapeTendersRequest triggers a listing-mode scrape.
type scrapeTendersRequest struct {
	URL string `json:"url"`
}

// scrapeProjectRequest triggers a per-id scrape.
type scrapeProjectRequest struct {
	ProjectIDs []string `json:"project_ids"`
	URL        string   `json:"url,omitempty"`
}

func (s *Server) handleScrapeTenders(w http.ResponseWriter, r *http.Request) {
	var req scrapeTendersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.URL == "" {
		req.URL = s.cfg.Portal.ListingURL
	}

	creds, status, detail := s.resolveCredentials(r.Context())
	if status != 0 {
		s.errorResponse(w, status, detail)
		return
	}

	summary, err := s.runJob(r.Context(), "scrape-tenders", func(ctx context.Context) (*types.RunSummary, error) {
		return s.runner.ScrapeListing(ctx, req.URL, creds)
	})
	if err != nil {
		s.scrapeError(w, err)
		return
	}

	message := fmt.Sprintf("Scraped %d projects", summary.Processed)
	if summary.SkippedDuplicates > 0 {
		message = fmt.Sprintf("%s (%d duplicates skipped)", message, summary.SkippedDuplicates)
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": message,
		"data": map[string]any{
			"projects_scraped": summary.Processed,
			"sample_project":   summary.Sample.Preview(),
			"scraped_at":       summary.FinishedAt.Format(time.RFC3339),
			"source":           summary.SourceURL,
		},
	})
}

func (s *Server) handleScrapeProject(w http.ResponseWriter, r *http.Request) {
	var req scrapeProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if len(req.ProjectIDs) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "project_ids must not be empty")
		return
	}
	if req.URL == "" {
		req.URL = s.cfg.Portal.ListingURL
	}

	creds, status, detail := s.resolveCredentials(r.Context())
	if status != 0 {
		s.errorResponse(w, status, detail)
		return
	}

	summary, err := s.runJob(r.Context(), "scrape-project", func(ctx context.Context) (*types.RunSummary, error) {
		return s.runner.ScrapeProjects(ctx, req.URL, req.ProjectIDs, creds)
	})
	if err != nil {
		s.scrapeError(w, err)
		return
	}

	total := len(req.ProjectIDs)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":  runStatus(summary),
		"message": runMessage(summary, total),
		"data": map[string]any{
			"total_requested": total,
			"processed":       summary.Processed,
			"failed":          summary.Failed,
			"success_rate":    successRate(summary.Processed, total),
			"sample_project":  summary.Sample.Preview(),
			"error_details":   summary.FailureReasons(),
			"scraped_at":      summary.FinishedAt.Format(time.RFC3339),
		},
	})
}

// runJob executes a scrape under a pool slot with the job timeout applied.
func (s *Server) runJob(ctx context.Context, name string, job func(context.Context) (*types.RunSummary, error)) (*types.RunSummary, error) {
	if s.metrics != nil {
		s.metrics.JobsStarted.Add(1)
		s.metrics.ActiveJobs.Add(1)
		defer s.metrics.ActiveJobs.Add(-1)
	}

	summary, err := s.pool.Do(ctx, name, func(ctx context.Context) (*types.RunSummary, error) {
		jobCtx, cancel := context.WithTimeout(ctx, s.cfg.Engine.JobTimeout)
		defer cancel()
		return job(jobCtx)
	})

	if s.metrics != nil {
		s.metrics.ObserveRun(summary, err)
	}
	return summary, err
}

// scrapeError maps a job-fatal error onto the HTTP status surface. Row
// failures never reach here; they ride back inside the summary.
func (s *Server) scrapeError(w http.ResponseWriter, err error) {
	s.logger.Error("scrape job failed", "error", err)

	var authErr *types.AuthError
	switch {
	case errors.As(err, &authErr),
		errors.Is(err, types.ErrLoginRejected),
		errors.Is(err, types.ErrLoginTimeout),
		errors.Is(err, types.ErrNoCredentials):
		s.errorResponse(w, http.StatusUnauthorized, fmt.Sprintf("Portal authentication failed: %v", err))
	case errors.Is(err, types.ErrNoRows):
		s.errorResponse(w, http.StatusNotFound, "No tender rows found on the listing page")
	case errors.Is(err, types.ErrInvalidURL), isValidationError(err):
		s.errorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		s.errorResponse(w, http.StatusInternalServerError, "Scrape job timed out")
	default:
		s.errorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Scrape failed: %v", err))
	}
}

// isValidationError recognizes target-URL validation failures, which have
// no sentinel of their own.
func isValidationError(err error) bool {
	msg := err.Error()
	for _, marker := range []string{"invalid URL", "URL scheme", "URL must have a host", "not the configured portal"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// runStatus folds a per-id summary into the three reported outcomes.
// Duplicates count as handled work, so an all-duplicate run is a success.
func runStatus(summary *types.RunSummary) string {
	switch {
	case summary.Failed == 0:
		return "success"
	case summary.Processed > 0 || summary.SkippedDuplicates > 0:
		return "partial_success"
	default:
		return "failed"
	}
}

func runMessage(summary *types.RunSummary, total int) string {
	switch runStatus(summary) {
	case "success":
		if summary.SkippedDuplicates > 0 {
			return fmt.Sprintf("Processed %d of %d projects (%d duplicates skipped)",
				summary.Processed, total, summary.SkippedDuplicates)
		}
		return fmt.Sprintf("Processed %d of %d projects", summary.Processed, total)
	case "partial_success":
		return fmt.Sprintf("Processed %d of %d projects, %d failed",
			summary.Processed, total, summary.Failed)
	default:
		return fmt.Sprintf("All %d projects failed", total)
	}
}

func successRate(processed, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(processed)/float64(total)*100)
}
