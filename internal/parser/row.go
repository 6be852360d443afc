package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/NavalkishorG/Backend-getquote/internal/selectors"
	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

// distanceSuffix marks the table cell holding the row's distance figure.
const distanceSuffix = "km"

// ExtractRow pulls the row-level fields of a tender out of a listing-row
// HTML fragment. Extraction is best-effort: a field whose selector chain
// resolves to nothing is simply absent from the result.
func ExtractRow(fragment string, strategy selectors.Strategy) (*types.TenderRecord, error) {
	f, err := NewFragment(fragment)
	if err != nil {
		return nil, err
	}

	rec := &types.TenderRecord{}
	rec.ProjectName = f.Text(strategy.Chain(selectors.FieldProjectName))
	rec.ProjectID = f.Text(strategy.Chain(selectors.FieldProjectID))
	rec.ProjectAddress = f.Text(strategy.Chain(selectors.FieldAddress))
	rec.MaxBudget = f.Text(strategy.Chain(selectors.FieldBudgetRange))
	rec.Category = f.Text(strategy.Chain(selectors.FieldCategory))
	rec.Builder = f.Text(strategy.Chain(selectors.FieldBuilder))
	rec.QuoteDueDate = f.Text(strategy.Chain(selectors.FieldQuoteDue))
	rec.InterestLevel = f.Text(strategy.Chain(selectors.FieldInterestLevel))
	rec.Distance = rowDistance(f)
	rec.ProjectDueDate = projectDueDate(f, strategy)

	// The listing tags rows that carry no documents; absence of the tag
	// means documents are available.
	hasDocs := !f.Has(strategy.Chain(selectors.FieldNoDocsTag))
	rec.HasDocuments = &hasDocs

	return rec, nil
}

// rowDistance scans the row's table cells for the first one that reads as a
// distance figure.
func rowDistance(f *Fragment) string {
	var distance string
	f.doc.Find("td").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text != "" && strings.HasSuffix(text, distanceSuffix) {
			distance = text
			return false
		}
		return true
	})
	return distance
}

// projectDueDate takes the last of the row's date cells: the first is the
// builder's quote-due date, the last the project's own due date.
func projectDueDate(f *Fragment, strategy selectors.Strategy) string {
	dates := f.Texts(strategy.Chain(selectors.FieldProjectDate))
	if len(dates) == 0 {
		return ""
	}
	return dates[len(dates)-1]
}
