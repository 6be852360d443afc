package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/NavalkishorG/Backend-getquote/internal/selectors"
	"github.com/NavalkishorG/Backend-getquote/internal/types"
)

var (
	tradesRe   = regexp.MustCompile(`(\d+)\s+trades`)
	deadlineRe = regexp.MustCompile(`submitted by\s+(.+?)\.`)

	// currencyRangeRe matches "$50k - $100k", "$1.2m" and plain "$50,000".
	currencyRangeRe = regexp.MustCompile(`\$\s*[\d,.]+\s*[kKmM]?(?:\s*-\s*\$\s*[\d,.]+\s*[kKmM]?)?`)
)

// budgetMarker splits a builder commentary block into prose and budget halves.
const budgetMarker = "approximate budget is"

// ExtractPopup derives the detail-popup fields of a tender from the popup
// container's HTML. Like row extraction it is best-effort throughout.
func ExtractPopup(fragment string, strategy selectors.Strategy) (*types.TenderRecord, error) {
	f, err := NewFragment(fragment)
	if err != nil {
		return nil, err
	}

	rec := &types.TenderRecord{}
	fullText := f.FullText()

	if m := tradesRe.FindStringSubmatch(fullText); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			rec.NumberOfTrades = n
		}
	}
	if m := deadlineRe.FindStringSubmatch(fullText); m != nil {
		rec.SubmissionDeadline = strings.TrimSpace(m[1])
	}

	rec.ProjectName = f.Text(strategy.Chain(selectors.FieldPopupTitle))
	rec.ProjectAddress = f.Text(strategy.Chain(selectors.FieldPopupAddress))
	rec.OverallBudget = f.Text(strategy.Chain(selectors.FieldOverallBudget))
	rec.BuilderDescription = builderBlocks(f, strategy)

	return rec, nil
}

// builderBlocks parses each builder commentary block into its name,
// free-text description and budget figure.
func builderBlocks(f *Fragment, strategy selectors.Strategy) []types.BuilderDescription {
	var blocks []types.BuilderDescription
	for _, section := range f.Sections(strategy.Chain(selectors.FieldStageDescription)) {
		sub, err := NewFragment(section)
		if err != nil {
			continue
		}

		var block types.BuilderDescription
		if name := sub.Text(strategy.Chain(selectors.FieldBuilderName)); name != "" {
			block.BuilderName = strings.TrimSpace(strings.TrimSuffix(name, "says:"))
		}

		// Budget element inside the block wins; otherwise fall back to
		// pattern-matching the text after the budget marker.
		budget := sub.Text(strategy.Chain(selectors.FieldOverallBudget))
		block.Description = blockDescription(sub, strategy)
		if budget == "" {
			budget = budgetFromText(sub.FullText())
		}
		block.BuilderBudget = budget

		if block.BuilderName != "" || block.Description != "" || block.BuilderBudget != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// blockDescription joins the block's prose lines, excluding the budget line.
func blockDescription(sub *Fragment, strategy selectors.Strategy) string {
	var parts []string
	for _, text := range sub.Texts(strategy.Chain(selectors.FieldDescription)) {
		lower := strings.ToLower(text)
		if text == "" || strings.Contains(lower, "approximate budget") {
			continue
		}
		if currencyRangeRe.MatchString(text) && len(text) < 40 {
			// A short line that is mostly a currency figure is the
			// budget element, not prose.
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// budgetFromText splits raw commentary at the budget marker and matches a
// currency range in the remainder.
func budgetFromText(text string) string {
	idx := strings.Index(strings.ToLower(text), budgetMarker)
	if idx < 0 {
		return ""
	}
	remainder := text[idx+len(budgetMarker):]
	return strings.TrimSpace(currencyRangeRe.FindString(remainder))
}
