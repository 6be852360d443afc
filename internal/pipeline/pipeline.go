// Package pipeline normalizes extracted records before they reach storage.
package pipeline

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

// Middleware processes a record and returns the (possibly modified) record.
// Return nil to drop the record from the pipeline.
type Middleware interface {
	Name() string
	Process(rec *types.TenderRecord) (*types.TenderRecord, error)
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates an empty Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// Default returns the chain every scrape job runs records through.
func Default(logger *slog.Logger) *Pipeline {
	p := New(logger)
	p.Use(&TrimMiddleware{})
	p.Use(&RequireProjectIDMiddleware{})
	p.Use(NewSeenMiddleware())
	return p
}

// Use appends a middleware to the chain.
func (p *Pipeline) Use(mw Middleware) {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
}

// Process runs the record through all middleware in order. A nil result
// with nil error means the record was dropped.
func (p *Pipeline) Process(rec *types.TenderRecord) (*types.TenderRecord, error) {
	current := rec
	for _, mw := range p.middlewares {
		result, err := mw.Process(current)
		if err != nil {
			return nil, err
		}
		if result == nil {
			p.logger.Debug("record dropped", "stage", mw.Name(), "project_id", rec.ProjectID)
			return nil, nil
		}
		current = result
	}
	return current, nil
}

// TrimMiddleware trims whitespace from every string field, including the
// nested builder commentary blocks.
type TrimMiddleware struct{}

func (m *TrimMiddleware) Name() string { return "trim" }

func (m *TrimMiddleware) Process(rec *types.TenderRecord) (*types.TenderRecord, error) {
	rec.ProjectID = strings.TrimSpace(rec.ProjectID)
	rec.ProjectName = strings.TrimSpace(rec.ProjectName)
	rec.ProjectAddress = strings.TrimSpace(rec.ProjectAddress)
	rec.MaxBudget = strings.TrimSpace(rec.MaxBudget)
	rec.OverallBudget = strings.TrimSpace(rec.OverallBudget)
	rec.Distance = strings.TrimSpace(rec.Distance)
	rec.Category = strings.TrimSpace(rec.Category)
	rec.Builder = strings.TrimSpace(rec.Builder)
	rec.QuoteDueDate = strings.TrimSpace(rec.QuoteDueDate)
	rec.ProjectDueDate = strings.TrimSpace(rec.ProjectDueDate)
	rec.InterestLevel = strings.TrimSpace(rec.InterestLevel)
	rec.SubmissionDeadline = strings.TrimSpace(rec.SubmissionDeadline)
	for i := range rec.BuilderDescription {
		b := &rec.BuilderDescription[i]
		b.BuilderName = strings.TrimSpace(b.BuilderName)
		b.Description = strings.TrimSpace(b.Description)
		b.BuilderBudget = strings.TrimSpace(b.BuilderBudget)
	}
	return rec, nil
}

// RequireProjectIDMiddleware drops records with no usable project id. A
// record without its natural key can never satisfy the duplicate check,
// so it never reaches storage.
type RequireProjectIDMiddleware struct{}

func (m *RequireProjectIDMiddleware) Name() string { return "require_project_id" }

func (m *RequireProjectIDMiddleware) Process(rec *types.TenderRecord) (*types.TenderRecord, error) {
	if rec.ProjectID == "" {
		return nil, nil
	}
	return rec, nil
}

// SeenMiddleware drops records whose project id already passed through this
// pipeline instance. The listing page occasionally repeats a row while the
// table re-renders; this keeps one run from double-inserting it.
type SeenMiddleware struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewSeenMiddleware creates a SeenMiddleware with an empty seen set.
func NewSeenMiddleware() *SeenMiddleware {
	return &SeenMiddleware{seen: make(map[string]struct{})}
}

func (m *SeenMiddleware) Name() string { return "seen" }

func (m *SeenMiddleware) Process(rec *types.TenderRecord) (*types.TenderRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seen[rec.ProjectID]; ok {
		return nil, nil
	}
	m.seen[rec.ProjectID] = struct{}{}
	return rec, nil
}
