// Package selectors maps the logical fields of a tender listing onto the
// portal's markup. Each field is an ordered chain of equivalent lookups so
// that minor markup drift degrades gracefully instead of breaking the
// extraction control flow.
package selectors

// Kind distinguishes selector syntaxes.
const (
	KindCSS   = "css"
	KindXPath = "xpath"
)

// Selector is a single lookup for a logical field.
type Selector struct {
	Kind  string `mapstructure:"kind"  yaml:"kind"`
	Query string `mapstructure:"query" yaml:"query"`
}

// Chain is an ordered list of equivalent selectors, tried first to last.
type Chain []Selector

// CSS builds a chain of CSS lookups.
func CSS(queries ...string) Chain {
	chain := make(Chain, 0, len(queries))
	for _, q := range queries {
		chain = append(chain, Selector{Kind: KindCSS, Query: q})
	}
	return chain
}

// Field names the logical lookups used throughout extraction.
type Field string

const (
	// Listing rows
	FieldRowContainer  Field = "row_container"
	FieldProjectLink   Field = "project_link"
	FieldProjectID     Field = "project_id"
	FieldProjectName   Field = "project_name"
	FieldAddress       Field = "address"
	FieldBudgetRange   Field = "budget_range"
	FieldCategory      Field = "category"
	FieldBuilder       Field = "builder"
	FieldQuoteDue      Field = "quote_due"
	FieldProjectDate   Field = "project_date"
	FieldNoDocsTag     Field = "no_docs_tag"
	FieldInterestLevel Field = "interest_level"

	// Search
	FieldSearchInput      Field = "search_input"
	FieldSearchButton     Field = "search_button"
	FieldAutocomplete     Field = "autocomplete"
	FieldSuggestedProject Field = "suggested_project"

	// Detail popup
	FieldDetailContainer  Field = "detail_container"
	FieldPopupTitle       Field = "popup_title"
	FieldPopupAddress     Field = "popup_address"
	FieldOverallBudget    Field = "overall_budget"
	FieldStageDescription Field = "stage_description"
	FieldBuilderName      Field = "builder_name_in_stage"
	FieldDescription      Field = "description"
	FieldReadMore         Field = "read_more"
	FieldOverlayOpen      Field = "overlay_open"

	// Login
	FieldLoginEmail      Field = "login_email"
	FieldLoginPassword   Field = "login_password"
	FieldLoginSubmit     Field = "login_submit"
	FieldLoginError      Field = "login_error"
	FieldDashboardMarker Field = "dashboard_marker"
)

// Strategy holds one chain per logical field.
type Strategy map[Field]Chain

// Chain returns the chain for a field, or nil when the strategy has none.
func (s Strategy) Chain(f Field) Chain { return s[f] }

// Merge overlays non-empty chains from other onto a copy of s, so a config
// file can replace individual chains without restating the whole mapping.
func (s Strategy) Merge(other Strategy) Strategy {
	merged := make(Strategy, len(s))
	for f, c := range s {
		merged[f] = c
	}
	for f, c := range other {
		if len(c) > 0 {
			merged[f] = c
		}
	}
	return merged
}

// FromMap converts a string-keyed chain map, as decoded from a config file,
// into a Strategy. Unknown field names pass through unused.
func FromMap(m map[string][]Selector) Strategy {
	strategy := make(Strategy, len(m))
	for name, chain := range m {
		strategy[Field(name)] = Chain(chain)
	}
	return strategy
}

// Default returns the selector mapping for the portal's current markup.
// The hashed class names are generated by the portal's build and change on
// redesigns; this table is the single place to re-tune when they do.
func Default() Strategy {
	return Strategy{
		FieldRowContainer: CSS("tbody.styles__tenderRow__b2e48989c7e9117bd552", "tbody[class*='tenderRow']"),
		FieldProjectLink:  CSS(".styles__projectLink__bb24735487bba39065d8", "a[class*='projectLink']"),
		FieldProjectID:    CSS(".styles__projectId__a99146050623e131a1bf", "[class*='projectId']"),
		FieldProjectName:  CSS(".styles__projectLink__bb24735487bba39065d8", "a[class*='projectLink']"),
		FieldAddress:      CSS(".styles__projectAddress__e13a9deabdbf43356939", "[class*='projectAddress']"),
		FieldBudgetRange:  CSS(".styles__budgetRange__b101ae22d71fd54397d0", "[class*='budgetRange']"),
		FieldCategory:     CSS(".styles__lowPriority__ca01365a4bba34b27c8a span", "[class*='lowPriority'] span"),
		FieldBuilder:      CSS(".styles__builderName__f71d1b6dc7d0969616ea", "[class*='builderName']"),
		FieldQuoteDue: CSS(
			".styles__quoteDate__b21c670d4b980f23ba7c .styles__projectDate__efdf1ddef6a4526d58ac",
			"[class*='quoteDate'] [class*='projectDate']",
		),
		FieldProjectDate:   CSS(".styles__projectDate__efdf1ddef6a4526d58ac", "[class*='projectDate']"),
		FieldNoDocsTag:     CSS(".styles__noDocsTag__d3dc744a652a94be3eea", "[class*='noDocsTag']"),
		FieldInterestLevel: CSS(".reactSelect__single-value"),

		FieldSearchInput: CSS(
			`input[placeholder*="Search by project name, project id, address, brand or product"]`,
			`input[placeholder*="Search by project name"]`,
		),
		FieldSearchButton:     CSS("button.btn.btn-primary.ml-1.fs-ignore-dead-clicks", "button.searchIcon"),
		FieldAutocomplete:     CSS(".styles__autocomplete__d2da89763ad53db5dcf7", "[class*='autocomplete']"),
		FieldSuggestedProject: CSS(".styles__suggestedProject__f400d5576aec8e4ea183 a", "[class*='suggestedProject'] a"),

		FieldDetailContainer: CSS(
			"#project-details",
			".styles__projectSection__f1b9aeb71ec0b48e56e0",
			".ReactModal__Content",
			"[role='dialog']",
		),
		FieldPopupTitle:       CSS("h1", "h2", "h3", ".project-title", "[class*='title']"),
		FieldPopupAddress:     CSS(".styles__projectAddress__e13a9deabdbf43356939", "[class*='address']", "[class*='location']"),
		FieldOverallBudget:    CSS(".styles__budgetRange__b101ae22d71fd54397d0", "[class*='budgetRange']"),
		FieldStageDescription: CSS(".styles__stageDescription__a6f572d1edbede52b379", "[class*='stageDescription']"),
		FieldBuilderName:      CSS("strong"),
		FieldDescription:      CSS(".styles__description__e5a48f83ebd7efa5e045", "[class*='description']"),
		FieldReadMore:         CSS("button[class*='readMore']", "a[class*='readMore']"),
		FieldOverlayOpen:      CSS(".ReactModal__Overlay--after-open"),

		FieldLoginEmail:    CSS("#user_log_in_email"),
		FieldLoginPassword: CSS("#user_log_in_plainPassword"),
		FieldLoginSubmit:   CSS("button.btn.btn-block.btn-lg.btn-primary", "button[type='submit']"),
		FieldLoginError:    CSS(".alert-danger", ".alert", "[class*='error']"),
		FieldDashboardMarker: CSS(
			"tbody.styles__tenderRow__b2e48989c7e9117bd552",
			".styles__projectLink__bb24735487bba39065d8",
			`input[placeholder*="Search by project name"]`,
		),
	}
}
