package pipeline

import (
	"io"
	"log/slog"
	"testing"

	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestTrimMiddleware(t *testing.T) {
	p := New(testLogger)
	p.Use(&TrimMiddleware{})

	rec, err := p.Process(&types.TenderRecord{
		ProjectID:   "  168512 ",
		ProjectName: "\tRiverside Medical Centre\n",
		BuilderDescription: []types.BuilderDescription{
			{BuilderName: " Hutchinson Builders "},
		},
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if rec.ProjectID != "168512" {
		t.Errorf("project id = %q", rec.ProjectID)
	}
	if rec.ProjectName != "Riverside Medical Centre" {
		t.Errorf("project name = %q", rec.ProjectName)
	}
	if rec.BuilderDescription[0].BuilderName != "Hutchinson Builders" {
		t.Errorf("builder name = %q", rec.BuilderDescription[0].BuilderName)
	}
}

func TestRequireProjectIDDrops(t *testing.T) {
	p := New(testLogger)
	p.Use(&RequireProjectIDMiddleware{})

	rec, err := p.Process(&types.TenderRecord{ProjectName: "no id"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if rec != nil {
		t.Error("record without project id should be dropped")
	}

	rec, err = p.Process(&types.TenderRecord{ProjectID: "1"})
	if err != nil || rec == nil {
		t.Errorf("record with project id should pass, got %v, %v", rec, err)
	}
}

func TestSeenMiddlewareDropsRepeats(t *testing.T) {
	p := New(testLogger)
	p.Use(NewSeenMiddleware())

	first, _ := p.Process(&types.TenderRecord{ProjectID: "168512"})
	if first == nil {
		t.Fatal("first occurrence should pass")
	}
	second, _ := p.Process(&types.TenderRecord{ProjectID: "168512"})
	if second != nil {
		t.Error("repeat within one run should be dropped")
	}
}

func TestDefaultChainOrder(t *testing.T) {
	p := Default(testLogger)

	// Whitespace-only id must be trimmed before the id requirement runs.
	rec, err := p.Process(&types.TenderRecord{ProjectID: "   "})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if rec != nil {
		t.Error("whitespace-only project id should be dropped")
	}
}
