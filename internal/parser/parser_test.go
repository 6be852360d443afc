package parser

import (
	"testing"

	"github.com/NavalkishorG/Backend-getquote/internal/selectors"
)

const rowFixture = `
<table><tbody class="styles__tenderRow__b2e48989c7e9117bd552">
  <tr>
    <td><a class="styles__projectLink__bb24735487bba39065d8" href="#">Riverside Medical Centre</a>
        <span class="styles__projectId__a99146050623e131a1bf">168512</span></td>
    <td><span class="styles__projectAddress__e13a9deabdbf43356939">12 Wharf St, Brisbane QLD</span></td>
    <td>14km</td>
    <td><span class="styles__budgetRange__b101ae22d71fd54397d0">$5m - $10m</span></td>
    <td class="styles__lowPriority__ca01365a4bba34b27c8a"><span>Health</span></td>
    <td><span class="styles__builderName__f71d1b6dc7d0969616ea">Hutchinson Builders</span></td>
    <td class="styles__quoteDate__b21c670d4b980f23ba7c"><span class="styles__projectDate__efdf1ddef6a4526d58ac">12 Sep 2026</span></td>
    <td><span class="styles__projectDate__efdf1ddef6a4526d58ac">30 Sep 2026</span></td>
    <td><div class="reactSelect__single-value">Interested</div></td>
  </tr>
</tbody></table>`

const rowFixtureNoDocs = `
<table><tbody class="styles__tenderRow__b2e48989c7e9117bd552">
  <tr>
    <td><span class="styles__projectId__a99146050623e131a1bf">200001</span></td>
    <td><span class="styles__noDocsTag__d3dc744a652a94be3eea">No Docs</span></td>
  </tr>
</tbody></table>`

func TestExtractRow(t *testing.T) {
	rec, err := ExtractRow(rowFixture, selectors.Default())
	if err != nil {
		t.Fatalf("extract row: %v", err)
	}

	if rec.ProjectID != "168512" {
		t.Errorf("project id = %q, want 168512", rec.ProjectID)
	}
	if rec.ProjectName != "Riverside Medical Centre" {
		t.Errorf("project name = %q", rec.ProjectName)
	}
	if rec.ProjectAddress != "12 Wharf St, Brisbane QLD" {
		t.Errorf("address = %q", rec.ProjectAddress)
	}
	if rec.MaxBudget != "$5m - $10m" {
		t.Errorf("max budget = %q", rec.MaxBudget)
	}
	if rec.Distance != "14km" {
		t.Errorf("distance = %q, want 14km", rec.Distance)
	}
	if rec.Category != "Health" {
		t.Errorf("category = %q", rec.Category)
	}
	if rec.Builder != "Hutchinson Builders" {
		t.Errorf("builder = %q", rec.Builder)
	}
	if rec.QuoteDueDate != "12 Sep 2026" {
		t.Errorf("quote due = %q", rec.QuoteDueDate)
	}
	if rec.ProjectDueDate != "30 Sep 2026" {
		t.Errorf("project due = %q, want last date cell", rec.ProjectDueDate)
	}
	if rec.InterestLevel != "Interested" {
		t.Errorf("interest level = %q", rec.InterestLevel)
	}
	if rec.HasDocuments == nil || !*rec.HasDocuments {
		t.Error("row without no-docs tag should have documents")
	}
}

func TestExtractRowNoDocsTagInverts(t *testing.T) {
	rec, err := ExtractRow(rowFixtureNoDocs, selectors.Default())
	if err != nil {
		t.Fatalf("extract row: %v", err)
	}
	if rec.HasDocuments == nil || *rec.HasDocuments {
		t.Error("no-docs tag should invert has_documents")
	}
}

func TestExtractRowMissingFieldsAbsent(t *testing.T) {
	rec, err := ExtractRow(`<table><tbody><tr><td>bare row</td></tr></tbody></table>`, selectors.Default())
	if err != nil {
		t.Fatalf("extract row: %v", err)
	}
	if rec.ProjectID != "" || rec.ProjectName != "" || rec.MaxBudget != "" {
		t.Errorf("missing selectors should leave fields empty, got %+v", rec)
	}
}

const popupFixture = `
<div id="project-details">
  <h2>Riverside Medical Centre</h2>
  <span class="styles__projectAddress__e13a9deabdbf43356939">12 Wharf St, Brisbane QLD</span>
  <p>Quotes for 14 trades must be submitted by 30 Sep 2026. Late quotes not accepted.</p>
  <span class="styles__budgetRange__b101ae22d71fd54397d0">$5m - $10m</span>
  <div class="styles__stageDescription__a6f572d1edbede52b379">
    <strong>Hutchinson Builders says:</strong>
    <p class="styles__description__e5a48f83ebd7efa5e045">Structural package out to tender, documents on the portal.</p>
    <p class="styles__description__e5a48f83ebd7efa5e045">The approximate budget is <span>$2m - $4m</span> for this stage.</p>
  </div>
</div>`

func TestExtractPopup(t *testing.T) {
	rec, err := ExtractPopup(popupFixture, selectors.Default())
	if err != nil {
		t.Fatalf("extract popup: %v", err)
	}

	if rec.NumberOfTrades != 14 {
		t.Errorf("trades = %d, want 14", rec.NumberOfTrades)
	}
	if rec.SubmissionDeadline != "30 Sep 2026" {
		t.Errorf("deadline = %q, want 30 Sep 2026", rec.SubmissionDeadline)
	}
	if rec.ProjectName != "Riverside Medical Centre" {
		t.Errorf("popup name = %q", rec.ProjectName)
	}
	if rec.OverallBudget == "" {
		t.Error("overall budget missing")
	}
	if len(rec.BuilderDescription) != 1 {
		t.Fatalf("builder blocks = %d, want 1", len(rec.BuilderDescription))
	}
	block := rec.BuilderDescription[0]
	if block.BuilderName != "Hutchinson Builders" {
		t.Errorf("builder name = %q", block.BuilderName)
	}
	if block.BuilderBudget != "$2m - $4m" {
		t.Errorf("builder budget = %q, want $2m - $4m", block.BuilderBudget)
	}
}

func TestBudgetFromText(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"The approximate budget is $50k - $100k for the works.", "$50k - $100k"},
		{"The approximate budget is $1.2m.", "$1.2m"},
		{"approximate budget is $50,000 all up", "$50,000"},
		{"no budget mentioned here", ""},
	}
	for _, tt := range tests {
		if got := budgetFromText(tt.text); got != tt.want {
			t.Errorf("budgetFromText(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestBudgetValue(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"$50,000 - $100,000", 100000},
		{"TBD", 0},
		{"", 0},
		{"$250,000", 250000},
	}
	for _, tt := range tests {
		if got := BudgetValue(tt.input); got != tt.want {
			t.Errorf("BudgetValue(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCategorizeBudget(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "Not Specified"},
		{49999, "Under $50k"},
		{50000, "$50k - $100k"},
		{250000, "$100k - $500k"},
		{750000, "$500k - $1M"},
		{1000000, "Over $1M"},
	}
	for _, tt := range tests {
		if got := CategorizeBudget(tt.value); got != tt.want {
			t.Errorf("CategorizeBudget(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestProjectPriority(t *testing.T) {
	if got := ProjectPriority(60, 600000, ""); got != "high-priority" {
		t.Errorf("high score = %q", got)
	}
	if got := ProjectPriority(25, 60000, ""); got != "medium-priority" {
		t.Errorf("medium score = %q", got)
	}
	if got := ProjectPriority(0, 0, "TBD"); got != "low-priority" {
		t.Errorf("low score = %q", got)
	}
}
