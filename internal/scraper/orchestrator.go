// Package scraper runs scrape jobs against the portal: enumerate the
// tender listing or hunt down specific project ids, extract each candidate,
// and persist whatever survived. Within one job every browser operation is
// strictly sequential; concurrency lives a level up in the worker pool.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/NavalkishorG/Backend-getquote/internal/browser"
	"github.com/NavalkishorG/Backend-getquote/internal/config"
	"github.com/NavalkishorG/Backend-getquote/internal/pipeline"
	"github.com/NavalkishorG/Backend-getquote/internal/selectors"
	"github.com/NavalkishorG/Backend-getquote/internal/store"
	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

// Candidate is one tender the job is considering: a listing row or a
// search hit.
type Candidate interface {
	// Record extracts the candidate's row-level fields.
	Record() (*types.TenderRecord, error)
}

// Driver is the browser-facing surface a job runs against. The production
// implementation drives a rod page; tests substitute fixtures.
type Driver interface {
	// Start navigates to the target URL and establishes an authenticated
	// session, leaving the page on the target.
	Start(ctx context.Context, targetURL string, creds types.Credentials) error

	// Rows enumerates the listing's tender rows in display order.
	Rows(ctx context.Context) ([]Candidate, error)

	// Locate finds one project by id through the listing's search box.
	// Returns types.ErrNotFound when neither the autocomplete nor the
	// results table surfaces the id.
	Locate(ctx context.Context, projectID string) (Candidate, error)

	// Detail opens the candidate's popup and extracts its fields. Best
	// effort: a partial or empty record with no error is a valid outcome.
	Detail(ctx context.Context, c Candidate) (*types.TenderRecord, error)

	Close()
}

// Orchestrator owns the shared pieces a job needs and runs jobs to
// completion.
type Orchestrator struct {
	cfg      *config.Config
	browser  *browser.Browser
	store    store.Store
	strategy selectors.Strategy
	metrics  browser.LoginMetrics
	logger   *slog.Logger
}

// NewOrchestrator creates an orchestrator over a shared browser and store.
// metrics may be nil for one-shot runs with nothing scraping the counters.
func NewOrchestrator(cfg *config.Config, b *browser.Browser, st store.Store, metrics browser.LoginMetrics, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		browser:  b,
		store:    st,
		strategy: selectors.Default().Merge(selectors.FromMap(cfg.Selectors)),
		metrics:  metrics,
		logger:   logger.With("component", "orchestrator"),
	}
}

// ScrapeListing scrapes every row of the tender listing at url.
func (o *Orchestrator) ScrapeListing(ctx context.Context, url string, creds types.Credentials) (*types.RunSummary, error) {
	if err := config.ValidatePortalURL(o.cfg, url); err != nil {
		return nil, err
	}
	d, err := o.newDriver()
	if err != nil {
		return nil, err
	}
	defer d.Close()
	return o.runListing(ctx, d, url, creds)
}

// ScrapeProjects scrapes the given project ids through the listing search.
func (o *Orchestrator) ScrapeProjects(ctx context.Context, url string, projectIDs []string, creds types.Credentials) (*types.RunSummary, error) {
	if err := config.ValidatePortalURL(o.cfg, url); err != nil {
		return nil, err
	}
	d, err := o.newDriver()
	if err != nil {
		return nil, err
	}
	defer d.Close()
	return o.runProjects(ctx, d, url, projectIDs, creds)
}

func (o *Orchestrator) newDriver() (Driver, error) {
	page, err := o.browser.NewPage()
	if err != nil {
		return nil, err
	}
	return newPortalDriver(page, o.cfg, o.strategy, o.metrics, o.logger), nil
}

// runListing is the listing-mode job body. Failures before the first row is
// enumerated abort the job; afterwards everything folds into the summary.
func (o *Orchestrator) runListing(ctx context.Context, d Driver, url string, creds types.Credentials) (*types.RunSummary, error) {
	summary := &types.RunSummary{SourceURL: url, StartedAt: time.Now().UTC()}

	if err := d.Start(ctx, url, creds); err != nil {
		return nil, err
	}
	rows, err := d.Rows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, types.ErrNoRows
	}
	o.logger.Info("listing enumerated", "rows", len(rows), "url", url)

	pipe := pipeline.Default(o.logger)
	for i, c := range rows {
		if i > 0 {
			if err := o.pause(ctx); err != nil {
				return nil, err
			}
		}
		o.processCandidate(ctx, d, c, "", i+1, url, pipe, summary)
	}

	summary.FinishedAt = time.Now().UTC()
	return summary, nil
}

// runProjects is the per-id job body. An id that cannot be found is a
// failed candidate, not a job failure.
func (o *Orchestrator) runProjects(ctx context.Context, d Driver, url string, projectIDs []string, creds types.Credentials) (*types.RunSummary, error) {
	summary := &types.RunSummary{SourceURL: url, StartedAt: time.Now().UTC()}

	if err := d.Start(ctx, url, creds); err != nil {
		return nil, err
	}

	pipe := pipeline.Default(o.logger)
	for i, id := range projectIDs {
		if i > 0 {
			if err := o.pause(ctx); err != nil {
				return nil, err
			}
		}

		id = strings.TrimSpace(id)
		if id == "" {
			summary.RecordFailed(id, "empty project id")
			continue
		}

		// The duplicate check runs before any search navigation; a known
		// id costs one store round trip and nothing in the browser.
		exists, err := o.store.Exists(ctx, id)
		if err != nil {
			summary.RecordFailed(id, fmt.Sprintf("duplicate check failed: %v", err))
			continue
		}
		if exists {
			o.logger.Info("skipping duplicate", "project_id", id)
			summary.RecordDuplicate(id)
			continue
		}

		c, err := d.Locate(ctx, id)
		if err != nil {
			if types.IsJobFatal(err) {
				return nil, err
			}
			summary.RecordFailed(id, locateFailure(err))
			continue
		}
		o.processCandidate(ctx, d, c, id, i+1, url, pipe, summary)
	}

	summary.FinishedAt = time.Now().UTC()
	return summary, nil
}

// processCandidate runs one candidate through extraction, dedup, merge and
// insert. wantID is set in per-id mode so a thin search hit still carries
// its id into the record.
func (o *Orchestrator) processCandidate(ctx context.Context, d Driver, c Candidate, wantID string, position int, url string, pipe *pipeline.Pipeline, summary *types.RunSummary) {
	rec, err := c.Record()
	if err != nil {
		summary.RecordFailed(wantID, fmt.Sprintf("row extraction failed: %v", err))
		return
	}
	if rec == nil {
		rec = &types.TenderRecord{}
	}
	rec.RowNumber = position
	rec.SourceURL = url
	if rec.ScrapedAt.IsZero() {
		rec.ScrapedAt = time.Now().UTC()
	}
	if rec.ProjectID == "" {
		rec.ProjectID = wantID
	}

	id := strings.TrimSpace(rec.ProjectID)
	if id == "" {
		summary.RecordFailed("", fmt.Sprintf("row %d has no project id", position))
		return
	}

	// Dedup before the popup: a known id never pays for detail
	// navigation.
	if wantID == "" {
		exists, err := o.store.Exists(ctx, id)
		if err != nil {
			summary.RecordFailed(id, fmt.Sprintf("duplicate check failed: %v", err))
			return
		}
		if exists {
			o.logger.Info("skipping duplicate", "project_id", id)
			summary.RecordDuplicate(id)
			return
		}
	}

	detail, err := d.Detail(ctx, c)
	if err != nil {
		// Popup extraction is best effort; the row fields alone are still
		// worth persisting.
		o.logger.Warn("detail extraction degraded", "project_id", id, "error", err)
	}
	rec.Merge(detail)

	processed, err := pipe.Process(rec)
	if err != nil {
		summary.RecordFailed(id, fmt.Sprintf("pipeline rejected record: %v", err))
		return
	}
	if processed == nil {
		summary.RecordFailed(id, "record dropped by pipeline")
		return
	}

	if err := o.store.Insert(ctx, processed); err != nil {
		summary.RecordFailed(id, fmt.Sprintf("insert failed: %v", err))
		return
	}
	o.logger.Info("tender persisted", "project_id", id, "row", position)
	summary.RecordProcessed(processed)
}

// pause is the politeness delay between candidates.
func (o *Orchestrator) pause(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(o.cfg.Engine.CandidateDelay):
		return nil
	}
}

func locateFailure(err error) string {
	if errors.Is(err, types.ErrNotFound) {
		return "not found in search"
	}
	return fmt.Sprintf("search failed: %v", err)
}
