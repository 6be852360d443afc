package store

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NavalkishorG/Backend-getquote/internal/config"
	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

// MongoStore persists tenders and credentials in MongoDB.
type MongoStore struct {
	client      *mongo.Client
	tenders     *mongo.Collection
	credentials *mongo.Collection
	logger      *slog.Logger
}

// NewMongoStore connects to MongoDB and ensures the tender collection's
// unique index on project_id. The index backs the insert-only contract;
// even if two jobs race past the duplicate check, the second insert fails
// instead of writing a second copy.
func NewMongoStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Storage.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Storage.URI))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	db := client.Database(cfg.Storage.Database)
	s := &MongoStore{
		client:      client,
		tenders:     db.Collection(cfg.Storage.Collection),
		credentials: db.Collection(cfg.Storage.CredentialCollection),
		logger:      logger.With("component", "mongo_store"),
	}

	_, err = s.tenders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "project_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("ensure project_id index: %w", err)
	}

	s.logger.Info("mongodb store ready",
		"database", cfg.Storage.Database,
		"collection", cfg.Storage.Collection,
	)
	return s, nil
}

// Exists reports whether a project id is already persisted.
func (s *MongoStore) Exists(ctx context.Context, projectID string) (bool, error) {
	err := s.tenders.FindOne(ctx, bson.M{"project_id": projectID},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("duplicate check for %s: %w", projectID, err)
	}
	return true, nil
}

// Insert writes one record, dropping fields the extraction never filled.
func (s *MongoStore) Insert(ctx context.Context, rec *types.TenderRecord) error {
	if rec == nil || rec.ProjectID == "" {
		return &types.PersistError{Err: types.ErrMissingProjectID}
	}
	if _, err := s.tenders.InsertOne(ctx, buildDocument(rec)); err != nil {
		return &types.PersistError{ProjectID: rec.ProjectID, Err: err}
	}
	s.logger.Debug("tender stored", "project_id", rec.ProjectID)
	return nil
}

// Projects returns the most recently scraped records, newest first.
func (s *MongoStore) Projects(ctx context.Context, limit int) ([]*types.TenderRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scraped_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := s.tenders.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list tenders: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*types.TenderRecord
	for cursor.Next(ctx) {
		var doc tenderDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode tender: %w", err)
		}
		records = append(records, doc.record())
	}
	return records, cursor.Err()
}

// Credential returns a user's stored portal login.
func (s *MongoStore) Credential(ctx context.Context, userID string) (*StoredCredential, error) {
	var cred StoredCredential
	err := s.credentials.FindOne(ctx, bson.M{
		"user_id":         userID,
		"credential_type": "portal",
	}).Decode(&cred)
	if err == mongo.ErrNoDocuments {
		return nil, types.ErrNoCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("credential lookup for %s: %w", userID, err)
	}
	return &cred, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// tenderDocument mirrors the stored document shape for reads.
type tenderDocument struct {
	ProjectID           string                     `bson:"project_id"`
	ProjectName         string                     `bson:"project_name"`
	ProjectAddress      string                     `bson:"project_address"`
	MaxBudget           string                     `bson:"max_budget"`
	OverallBudget       string                     `bson:"overall_budget"`
	Distance            string                     `bson:"distance"`
	Category            string                     `bson:"category"`
	Builder             string                     `bson:"builder"`
	QuoteDueDate        string                     `bson:"quote_due_date"`
	ProjectDueDate      string                     `bson:"project_due_date"`
	HasDocuments        *bool                      `bson:"has_documents"`
	InterestLevel       string                     `bson:"interest_level"`
	NumberOfTrades      int                        `bson:"number_of_trades"`
	SubmissionDeadline  string                     `bson:"submission_deadline"`
	BuilderDescriptions []types.BuilderDescription `bson:"builder_descriptions"`
	SourceURL           string                     `bson:"source_url"`
	ScrapedAt           string                     `bson:"scraped_at"`
	RowNumber           int                        `bson:"row_number"`
}

func (d *tenderDocument) record() *types.TenderRecord {
	rec := &types.TenderRecord{
		ProjectID:          d.ProjectID,
		ProjectName:        d.ProjectName,
		ProjectAddress:     d.ProjectAddress,
		MaxBudget:          d.MaxBudget,
		OverallBudget:      d.OverallBudget,
		Distance:           d.Distance,
		Category:           d.Category,
		Builder:            d.Builder,
		QuoteDueDate:       d.QuoteDueDate,
		ProjectDueDate:     d.ProjectDueDate,
		HasDocuments:       d.HasDocuments,
		InterestLevel:      d.InterestLevel,
		NumberOfTrades:     d.NumberOfTrades,
		SubmissionDeadline: d.SubmissionDeadline,
		BuilderDescription: d.BuilderDescriptions,
		SourceURL:          d.SourceURL,
		RowNumber:          d.RowNumber,
	}
	if t, err := timeParse(d.ScrapedAt); err == nil {
		rec.ScrapedAt = t
	}
	return rec
}
