package scraper

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/NavalkishorG/Backend-getquote/internal/config"
	"github.com/NavalkishorG/Backend-getquote/internal/selectors"
	"github.com/NavalkishorG/Backend-getquote/internal/store"
	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeCandidate struct {
	rec *types.TenderRecord
	err error
}

func (c *fakeCandidate) Record() (*types.TenderRecord, error) { return c.rec, c.err }

type fakeDriver struct {
	startErr error
	rows     []Candidate
	located  map[string]Candidate
	details  map[string]*types.TenderRecord

	detailCalls []string
}

func (d *fakeDriver) Start(context.Context, string, types.Credentials) error { return d.startErr }

func (d *fakeDriver) Rows(context.Context) ([]Candidate, error) { return d.rows, nil }

func (d *fakeDriver) Locate(_ context.Context, projectID string) (Candidate, error) {
	if c, ok := d.located[projectID]; ok {
		return c, nil
	}
	return nil, types.ErrNotFound
}

func (d *fakeDriver) Detail(_ context.Context, c Candidate) (*types.TenderRecord, error) {
	fc := c.(*fakeCandidate)
	d.detailCalls = append(d.detailCalls, fc.rec.ProjectID)
	return d.details[fc.rec.ProjectID], nil
}

func (d *fakeDriver) Close() {}

func testOrchestrator(st store.Store) *Orchestrator {
	cfg := config.DefaultConfig()
	cfg.Engine.CandidateDelay = time.Millisecond
	return &Orchestrator{
		cfg:      cfg,
		store:    st,
		strategy: selectors.Default(),
		logger:   testLogger,
	}
}

func row(id string) *fakeCandidate {
	return &fakeCandidate{rec: &types.TenderRecord{ProjectID: id, ProjectName: "Project " + id}}
}

func TestRunListingSkipsDuplicates(t *testing.T) {
	st := store.NewMemoryStore()
	st.Seed("100", "200")

	d := &fakeDriver{rows: []Candidate{row("100"), row("200"), row("300")}}
	o := testOrchestrator(st)

	summary, err := o.runListing(context.Background(), d, "https://app.estimateone.com/tenders", types.Credentials{})
	if err != nil {
		t.Fatalf("run listing: %v", err)
	}

	if summary.Processed != 1 || summary.Failed != 0 || summary.SkippedDuplicates != 2 {
		t.Errorf("summary = %d/%d/%d, want 1/0/2",
			summary.Processed, summary.Failed, summary.SkippedDuplicates)
	}
	// Seed placed two records; exactly one insert may have followed.
	if st.InsertCalls != 1 {
		t.Errorf("insert calls = %d, want exactly 1", st.InsertCalls)
	}
	if summary.Sample == nil || summary.Sample.ProjectID != "300" {
		t.Errorf("sample should be the one processed record, got %+v", summary.Sample)
	}
	// Duplicates must be decided before any popup work.
	if len(d.detailCalls) != 1 || d.detailCalls[0] != "300" {
		t.Errorf("detail calls = %v, want only the new record", d.detailCalls)
	}
}

func TestRunListingEmptyIsFatal(t *testing.T) {
	o := testOrchestrator(store.NewMemoryStore())
	_, err := o.runListing(context.Background(), &fakeDriver{}, "https://app.estimateone.com/tenders", types.Credentials{})
	if !errors.Is(err, types.ErrNoRows) {
		t.Errorf("empty listing = %v, want ErrNoRows", err)
	}
}

func TestRunListingRowFailuresFoldIntoSummary(t *testing.T) {
	st := store.NewMemoryStore()
	d := &fakeDriver{rows: []Candidate{
		row("100"),
		&fakeCandidate{rec: &types.TenderRecord{ProjectName: "anonymous row"}},
		&fakeCandidate{err: errors.New("stale element")},
	}}
	o := testOrchestrator(st)

	summary, err := o.runListing(context.Background(), d, "https://app.estimateone.com/tenders", types.Credentials{})
	if err != nil {
		t.Fatalf("row failures must not abort the job: %v", err)
	}
	if summary.Processed != 1 || summary.Failed != 2 {
		t.Errorf("summary = %d processed %d failed, want 1/2", summary.Processed, summary.Failed)
	}
}

func TestRunListingMergesDetailFields(t *testing.T) {
	st := store.NewMemoryStore()
	d := &fakeDriver{
		rows: []Candidate{row("100")},
		details: map[string]*types.TenderRecord{
			"100": {NumberOfTrades: 14, SubmissionDeadline: "30 Sep 2026"},
		},
	}
	o := testOrchestrator(st)

	summary, err := o.runListing(context.Background(), d, "https://app.estimateone.com/tenders", types.Credentials{})
	if err != nil {
		t.Fatalf("run listing: %v", err)
	}
	if summary.Sample.NumberOfTrades != 14 || summary.Sample.SubmissionDeadline != "30 Sep 2026" {
		t.Errorf("popup fields not merged: %+v", summary.Sample)
	}
	if summary.Sample.ProjectName != "Project 100" {
		t.Errorf("row fields lost in merge: %+v", summary.Sample)
	}
}

func TestRunListingStartFailureAborts(t *testing.T) {
	o := testOrchestrator(store.NewMemoryStore())
	want := &types.AuthError{Reason: "credentials rejected", Err: types.ErrLoginRejected}

	_, err := o.runListing(context.Background(), &fakeDriver{startErr: want}, "https://app.estimateone.com/tenders", types.Credentials{})
	if !errors.Is(err, types.ErrLoginRejected) {
		t.Errorf("start failure = %v, want login rejection", err)
	}
	if !types.IsJobFatal(err) {
		t.Error("auth failure should be job fatal")
	}
}

func TestRunProjectsNotFound(t *testing.T) {
	st := store.NewMemoryStore()
	d := &fakeDriver{located: map[string]Candidate{"100": row("100")}}
	o := testOrchestrator(st)

	summary, err := o.runProjects(context.Background(), d,
		"https://app.estimateone.com/tenders", []string{"100", "999999"}, types.Credentials{})
	if err != nil {
		t.Fatalf("run projects: %v", err)
	}

	if summary.Processed != 1 || summary.Failed != 1 {
		t.Errorf("summary = %d/%d, want 1 processed 1 failed", summary.Processed, summary.Failed)
	}
	var failure types.CandidateResult
	for _, detail := range summary.Details {
		if detail.Outcome == types.OutcomeFailed {
			failure = detail
		}
	}
	if failure.ProjectID != "999999" || failure.Reason != "not found in search" {
		t.Errorf("failure detail = %+v", failure)
	}
}

func TestRunProjectsDuplicateSkipsSearch(t *testing.T) {
	st := store.NewMemoryStore()
	st.Seed("100")

	// No locate entry for 100: reaching the search would return not-found
	// and surface as a failure instead of a duplicate.
	d := &fakeDriver{}
	o := testOrchestrator(st)

	summary, err := o.runProjects(context.Background(), d,
		"https://app.estimateone.com/tenders", []string{"100"}, types.Credentials{})
	if err != nil {
		t.Fatalf("run projects: %v", err)
	}
	if summary.SkippedDuplicates != 1 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want one duplicate and no failures", summary)
	}
}

func TestScrapeListingRejectsForeignURL(t *testing.T) {
	o := testOrchestrator(store.NewMemoryStore())
	_, err := o.ScrapeListing(context.Background(), "https://evil.example.com/tenders", types.Credentials{})
	if err == nil {
		t.Fatal("foreign host should be rejected before any browser work")
	}
}
