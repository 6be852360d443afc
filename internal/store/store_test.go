package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

func TestBuildDocumentDropsEmptyFields(t *testing.T) {
	rec := &types.TenderRecord{
		ProjectID:   "168512",
		ProjectName: "Riverside Medical Centre",
		ScrapedAt:   time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}

	doc := buildDocument(rec)

	if doc["project_id"] != "168512" {
		t.Errorf("project_id = %v", doc["project_id"])
	}
	if doc["project_name"] != "Riverside Medical Centre" {
		t.Errorf("project_name = %v", doc["project_name"])
	}
	for _, key := range []string{"max_budget", "builder", "distance", "has_documents", "number_of_trades", "builder_descriptions"} {
		if _, ok := doc[key]; ok {
			t.Errorf("empty field %q should be absent from document", key)
		}
	}
	if doc["scraped_at"] != "2026-08-30T10:00:00Z" {
		t.Errorf("scraped_at = %v", doc["scraped_at"])
	}
}

func TestBuildDocumentKeepsExplicitFalse(t *testing.T) {
	noDocs := false
	doc := buildDocument(&types.TenderRecord{ProjectID: "1", HasDocuments: &noDocs})
	if v, ok := doc["has_documents"]; !ok || v != false {
		t.Errorf("explicit has_documents=false should be stored, got %v", v)
	}
}

func TestMemoryStoreInsertAndExists(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := &types.TenderRecord{ProjectID: "168512"}
	if err := s.Insert(ctx, rec); err != nil {
		t.Fatalf("insert: %v", err)
	}

	exists, err := s.Exists(ctx, "168512")
	if err != nil || !exists {
		t.Errorf("Exists = %v, %v; want true", exists, err)
	}
	exists, _ = s.Exists(ctx, "999999")
	if exists {
		t.Error("unknown id should not exist")
	}

	err = s.Insert(ctx, rec)
	if !errors.Is(err, types.ErrDuplicateRecord) {
		t.Errorf("second insert = %v, want duplicate error", err)
	}

	err = s.Insert(ctx, &types.TenderRecord{})
	if !errors.Is(err, types.ErrMissingProjectID) {
		t.Errorf("insert without id = %v, want missing-id error", err)
	}
}

func TestMemoryStoreProjectsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, id := range []string{"1", "2", "3"} {
		if err := s.Insert(ctx, &types.TenderRecord{ProjectID: id}); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	records, err := s.Projects(ctx, 2)
	if err != nil {
		t.Fatalf("projects: %v", err)
	}
	if len(records) != 2 || records[0].ProjectID != "3" || records[1].ProjectID != "2" {
		t.Errorf("unexpected order: %+v", records)
	}
}
