package observability

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NavalkishorG/Backend-getquote/internal/browser"
	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// The session manager reports login outcomes through this interface.
var _ browser.LoginMetrics = (*Metrics)(nil)

func TestLoginCounters(t *testing.T) {
	m := NewMetrics(testLogger)

	m.ObserveLoginAttempt()
	m.ObserveLoginAttempt()
	m.ObserveLoginFailure()

	snap := m.Snapshot()
	if snap["login_attempts"] != 2 {
		t.Errorf("login_attempts = %d, want 2", snap["login_attempts"])
	}
	if snap["login_failures"] != 1 {
		t.Errorf("login_failures = %d, want 1", snap["login_failures"])
	}

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "tenderd_login_attempts_total 2") {
		t.Errorf("exposition missing attempt count:\n%s", body)
	}
	if !strings.Contains(body, "tenderd_login_failures_total 1") {
		t.Errorf("exposition missing failure count:\n%s", body)
	}
}

func TestObserveRun(t *testing.T) {
	m := NewMetrics(testLogger)

	m.ObserveRun(&types.RunSummary{Processed: 3, Failed: 1, SkippedDuplicates: 2}, nil)
	m.ObserveRun(nil, types.ErrNoRows)

	snap := m.Snapshot()
	if snap["jobs_succeeded"] != 1 || snap["jobs_failed"] != 1 {
		t.Errorf("job counters = %v", snap)
	}
	if snap["tenders_processed"] != 3 || snap["tenders_failed"] != 1 || snap["tenders_duplicate"] != 2 {
		t.Errorf("tender counters = %v", snap)
	}
}
