package types

import (
	"time"
)

// BuilderDescription is one builder's free-text commentary block on a tender,
// parsed out of the detail popup.
type BuilderDescription struct {
	BuilderName   string `json:"builder_name,omitempty"   bson:"builder_name,omitempty"`
	Description   string `json:"description,omitempty"    bson:"description,omitempty"`
	BuilderBudget string `json:"builder_budget,omitempty" bson:"builder_budget,omitempty"`
}

// TenderRecord is one tender as surfaced to storage. All fields except
// ProjectID are optional; absent fields stay at their zero value and are
// dropped on insert. ProjectID is the natural key.
type TenderRecord struct {
	ProjectID      string `json:"project_id"`
	ProjectName    string `json:"project_name,omitempty"`
	ProjectAddress string `json:"project_address,omitempty"`

	// MaxBudget is the free-text budget range from the row,
	// OverallBudget the one from the detail popup.
	MaxBudget     string `json:"max_budget,omitempty"`
	OverallBudget string `json:"overall_budget,omitempty"`

	Distance       string `json:"distance,omitempty"`
	Category       string `json:"category,omitempty"`
	Builder        string `json:"builder,omitempty"`
	QuoteDueDate   string `json:"quote_due_date,omitempty"`
	ProjectDueDate string `json:"project_due_date,omitempty"`

	// HasDocuments is nil when the row gave no signal either way.
	HasDocuments  *bool  `json:"has_documents,omitempty"`
	InterestLevel string `json:"interest_level,omitempty"`

	NumberOfTrades     int                  `json:"number_of_trades,omitempty"`
	SubmissionDeadline string               `json:"submission_deadline,omitempty"`
	BuilderDescription []BuilderDescription `json:"builder_descriptions,omitempty"`

	SourceURL string    `json:"source_url,omitempty"`
	ScrapedAt time.Time `json:"scraped_at,omitempty"`

	// RowNumber is the record's position in the source listing. Advisory only.
	RowNumber int `json:"row_number,omitempty"`
}

// NewTenderRecord creates a record stamped with its source URL and scrape time.
func NewTenderRecord(sourceURL string) *TenderRecord {
	return &TenderRecord{
		SourceURL: sourceURL,
		ScrapedAt: time.Now().UTC(),
	}
}

// IsEmpty reports whether extraction produced nothing usable.
func (r *TenderRecord) IsEmpty() bool {
	return r.ProjectID == "" && r.ProjectName == "" && r.ProjectAddress == "" &&
		r.MaxBudget == "" && r.OverallBudget == "" && r.NumberOfTrades == 0 &&
		len(r.BuilderDescription) == 0
}

// Merge copies the non-zero fields of other into r. Row-level fields are
// gathered first, then popup fields merged in; popup values win on conflict.
func (r *TenderRecord) Merge(other *TenderRecord) {
	if other == nil {
		return
	}
	if other.ProjectID != "" {
		r.ProjectID = other.ProjectID
	}
	if other.ProjectName != "" {
		r.ProjectName = other.ProjectName
	}
	if other.ProjectAddress != "" {
		r.ProjectAddress = other.ProjectAddress
	}
	if other.MaxBudget != "" {
		r.MaxBudget = other.MaxBudget
	}
	if other.OverallBudget != "" {
		r.OverallBudget = other.OverallBudget
	}
	if other.Distance != "" {
		r.Distance = other.Distance
	}
	if other.Category != "" {
		r.Category = other.Category
	}
	if other.Builder != "" {
		r.Builder = other.Builder
	}
	if other.QuoteDueDate != "" {
		r.QuoteDueDate = other.QuoteDueDate
	}
	if other.ProjectDueDate != "" {
		r.ProjectDueDate = other.ProjectDueDate
	}
	if other.HasDocuments != nil {
		r.HasDocuments = other.HasDocuments
	}
	if other.InterestLevel != "" {
		r.InterestLevel = other.InterestLevel
	}
	if other.NumberOfTrades != 0 {
		r.NumberOfTrades = other.NumberOfTrades
	}
	if other.SubmissionDeadline != "" {
		r.SubmissionDeadline = other.SubmissionDeadline
	}
	if len(other.BuilderDescription) > 0 {
		r.BuilderDescription = other.BuilderDescription
	}
}

// Preview returns the compact view of a record used as the sample_project
// field of a run summary.
func (r *TenderRecord) Preview() map[string]any {
	if r == nil {
		return map[string]any{}
	}
	preview := map[string]any{
		"project_id": r.ProjectID,
	}
	if r.ProjectName != "" {
		preview["project_name"] = r.ProjectName
	}
	if r.Category != "" {
		preview["category"] = r.Category
	}
	if r.MaxBudget != "" {
		preview["max_budget"] = r.MaxBudget
	}
	if r.OverallBudget != "" {
		preview["overall_budget"] = r.OverallBudget
	}
	if r.NumberOfTrades > 0 {
		preview["number_of_trades"] = r.NumberOfTrades
	}
	return preview
}
