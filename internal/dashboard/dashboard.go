// Package dashboard aggregates persisted tenders into the summary views
// the dashboard endpoints serve.
package dashboard

import (
	"context"
	"log/slog"

	"github.com/NavalkishorG/Backend-getquote/internal/parser"
	"github.com/NavalkishorG/Backend-getquote/internal/store"
	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

// Stats is the aggregate view over every persisted tender.
type Stats struct {
	TotalProjects int            `json:"total_projects"`
	TotalValue    float64        `json:"total_value"`
	AverageValue  float64        `json:"average_value"`
	AverageTrades float64        `json:"average_trades"`
	BudgetBands   map[string]int `json:"budget_bands"`
	Categories    map[string]int `json:"categories"`
	Priorities    map[string]int `json:"priorities"`
	WithDocuments int            `json:"with_documents"`
	LastScrapedAt string         `json:"last_scraped_at,omitempty"`
}

// ProjectView is one tender annotated with its derived budget figures.
type ProjectView struct {
	*types.TenderRecord
	BudgetValue    float64 `json:"budget_value"`
	BudgetCategory string  `json:"budget_category"`
	Priority       string  `json:"priority"`
}

// Analytics computes dashboard views from the store.
type Analytics struct {
	store  store.Store
	logger *slog.Logger
}

// New creates an Analytics over a store.
func New(st store.Store, logger *slog.Logger) *Analytics {
	return &Analytics{
		store:  st,
		logger: logger.With("component", "dashboard"),
	}
}

// Stats aggregates every persisted tender. The collection stays small
// enough (one portal, insert-only, deduplicated) that computing in process
// beats maintaining aggregation queries.
func (a *Analytics) Stats(ctx context.Context) (*Stats, error) {
	records, err := a.store.Projects(ctx, 0)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalProjects: len(records),
		BudgetBands:   make(map[string]int),
		Categories:    make(map[string]int),
		Priorities:    make(map[string]int),
	}

	totalTrades := 0
	for _, rec := range records {
		value := recordBudget(rec)
		stats.TotalValue += value
		totalTrades += rec.NumberOfTrades
		stats.BudgetBands[parser.CategorizeBudget(value)]++
		stats.Priorities[parser.ProjectPriority(rec.NumberOfTrades, value, rec.QuoteDueDate)]++
		if rec.Category != "" {
			stats.Categories[rec.Category]++
		}
		if rec.HasDocuments != nil && *rec.HasDocuments {
			stats.WithDocuments++
		}
		if stats.LastScrapedAt == "" && !rec.ScrapedAt.IsZero() {
			// Records come back newest first.
			stats.LastScrapedAt = rec.ScrapedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
	}
	if stats.TotalProjects > 0 {
		stats.AverageValue = stats.TotalValue / float64(stats.TotalProjects)
		stats.AverageTrades = float64(totalTrades) / float64(stats.TotalProjects)
	}
	return stats, nil
}

// Projects returns the most recent tenders annotated with derived budget
// figures, newest first. A non-empty category keeps only matching tenders;
// the filter runs after the fetch so a filtered page can come up short of
// the limit rather than over-fetching.
func (a *Analytics) Projects(ctx context.Context, limit int, category string) ([]ProjectView, error) {
	fetch := limit
	if category != "" {
		fetch = 0
	}
	records, err := a.store.Projects(ctx, fetch)
	if err != nil {
		return nil, err
	}

	views := make([]ProjectView, 0, len(records))
	for _, rec := range records {
		if category != "" && rec.Category != category {
			continue
		}
		value := recordBudget(rec)
		views = append(views, ProjectView{
			TenderRecord:   rec,
			BudgetValue:    value,
			BudgetCategory: parser.CategorizeBudget(value),
			Priority:       parser.ProjectPriority(rec.NumberOfTrades, value, rec.QuoteDueDate),
		})
		if limit > 0 && len(views) == limit {
			break
		}
	}
	return views, nil
}

// recordBudget prefers the row's budget range, falling back to the
// popup's overall budget when the row carried none.
func recordBudget(rec *types.TenderRecord) float64 {
	if v := parser.BudgetValue(rec.MaxBudget); v > 0 {
		return v
	}
	return parser.BudgetValue(rec.OverallBudget)
}
