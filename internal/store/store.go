// Package store persists scraped tenders and the per-user portal
// credentials the scraper logs in with.
package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

// Store is the persistence surface the pipeline writes through. Records are
// insert-only; nothing in the pipeline updates or deletes.
type Store interface {
	// Exists reports whether a project id is already persisted.
	Exists(ctx context.Context, projectID string) (bool, error)

	// Insert writes one record. Fields at their zero value are dropped
	// from the stored document rather than written as nulls.
	Insert(ctx context.Context, rec *types.TenderRecord) error

	// Projects returns the most recently scraped records, newest first.
	// A limit of 0 means no limit.
	Projects(ctx context.Context, limit int) ([]*types.TenderRecord, error)

	Close(ctx context.Context) error
}

// StoredCredential is a user's encrypted portal login as persisted.
type StoredCredential struct {
	UserID            string `bson:"user_id"`
	CredentialType    string `bson:"credential_type"`
	Email             string `bson:"email"`
	PasswordEncrypted string `bson:"password_encrypted"`
}

// CredentialStore looks up stored portal credentials by user.
type CredentialStore interface {
	Credential(ctx context.Context, userID string) (*StoredCredential, error)
}

// buildDocument flattens a record into the stored document, dropping every
// field the extraction never filled. ProjectID is assumed non-empty; the
// pipeline rejects records without one before they get here.
func buildDocument(rec *types.TenderRecord) bson.M {
	doc := bson.M{
		"project_id": rec.ProjectID,
	}

	setIf := func(key, val string) {
		if val != "" {
			doc[key] = val
		}
	}
	setIf("project_name", rec.ProjectName)
	setIf("project_address", rec.ProjectAddress)
	setIf("max_budget", rec.MaxBudget)
	setIf("overall_budget", rec.OverallBudget)
	setIf("distance", rec.Distance)
	setIf("category", rec.Category)
	setIf("builder", rec.Builder)
	setIf("quote_due_date", rec.QuoteDueDate)
	setIf("project_due_date", rec.ProjectDueDate)
	setIf("interest_level", rec.InterestLevel)
	setIf("submission_deadline", rec.SubmissionDeadline)
	setIf("source_url", rec.SourceURL)

	if rec.HasDocuments != nil {
		doc["has_documents"] = *rec.HasDocuments
	}
	if rec.NumberOfTrades > 0 {
		doc["number_of_trades"] = rec.NumberOfTrades
	}
	if len(rec.BuilderDescription) > 0 {
		doc["builder_descriptions"] = rec.BuilderDescription
	}
	if rec.RowNumber > 0 {
		doc["row_number"] = rec.RowNumber
	}
	if !rec.ScrapedAt.IsZero() {
		doc["scraped_at"] = rec.ScrapedAt.UTC().Format(time.RFC3339)
	}

	return doc
}

func timeParse(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
