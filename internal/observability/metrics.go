// Package observability exposes scrape-job counters in Prometheus text
// exposition format.
package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

// Metrics tracks operational counters across scrape jobs.
type Metrics struct {
	JobsStarted   atomic.Int64
	JobsSucceeded atomic.Int64
	JobsFailed    atomic.Int64

	TendersProcessed  atomic.Int64
	TendersFailed     atomic.Int64
	TendersDuplicates atomic.Int64

	LoginAttempts atomic.Int64
	LoginFailures atomic.Int64

	ActiveJobs atomic.Int32

	logger *slog.Logger
}

// NewMetrics creates a Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// ObserveRun folds one finished run's summary into the counters.
func (m *Metrics) ObserveRun(summary *types.RunSummary, err error) {
	if err != nil {
		m.JobsFailed.Add(1)
		return
	}
	m.JobsSucceeded.Add(1)
	if summary != nil {
		m.TendersProcessed.Add(int64(summary.Processed))
		m.TendersFailed.Add(int64(summary.Failed))
		m.TendersDuplicates.Add(int64(summary.SkippedDuplicates))
	}
}

// ObserveLoginAttempt counts one portal credential submission.
func (m *Metrics) ObserveLoginAttempt() {
	m.LoginAttempts.Add(1)
}

// ObserveLoginFailure counts one login that ended in an auth error.
func (m *Metrics) ObserveLoginFailure() {
	m.LoginFailures.Add(1)
}

// ServeHTTP serves the counters in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"tenderd_jobs_started_total", "Total scrape jobs started", m.JobsStarted.Load()},
		{"tenderd_jobs_succeeded_total", "Total scrape jobs that returned a summary", m.JobsSucceeded.Load()},
		{"tenderd_jobs_failed_total", "Total scrape jobs aborted by a fatal error", m.JobsFailed.Load()},
		{"tenderd_tenders_processed_total", "Total tenders persisted", m.TendersProcessed.Load()},
		{"tenderd_tenders_failed_total", "Total tender candidates that failed", m.TendersFailed.Load()},
		{"tenderd_tenders_duplicate_total", "Total tender candidates skipped as duplicates", m.TendersDuplicates.Load()},
		{"tenderd_login_attempts_total", "Total portal login attempts", m.LoginAttempts.Load()},
		{"tenderd_login_failures_total", "Total portal login failures", m.LoginFailures.Load()},
		{"tenderd_active_jobs", "Currently running scrape jobs", int64(m.ActiveJobs.Load())},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// Snapshot returns all counters as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"jobs_started":      m.JobsStarted.Load(),
		"jobs_succeeded":    m.JobsSucceeded.Load(),
		"jobs_failed":       m.JobsFailed.Load(),
		"tenders_processed": m.TendersProcessed.Load(),
		"tenders_failed":    m.TendersFailed.Load(),
		"tenders_duplicate": m.TendersDuplicates.Load(),
		"login_attempts":    m.LoginAttempts.Load(),
		"login_failures":    m.LoginFailures.Load(),
		"active_jobs":       int64(m.ActiveJobs.Load()),
	}
}
