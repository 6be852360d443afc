package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var numberRe = regexp.MustCompile(`[\d,]+`)

// BudgetValue extracts the numeric value of a free-text budget string.
// Ranges like "$50,000 - $100,000" yield the maximum of all numbers found;
// empty or non-numeric input ("TBD") yields 0.
func BudgetValue(budget string) float64 {
	if budget == "" {
		return 0
	}
	var max float64
	for _, m := range numberRe.FindAllString(budget, -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err != nil {
			continue
		}
		if v > max {
			max = v
		}
	}
	return max
}

// CategorizeBudget buckets a numeric budget into the dashboard's ranges.
func CategorizeBudget(value float64) string {
	switch {
	case value == 0:
		return "Not Specified"
	case value < 50000:
		return "Under $50k"
	case value < 100000:
		return "$50k - $100k"
	case value < 500000:
		return "$100k - $500k"
	case value < 1000000:
		return "$500k - $1M"
	default:
		return "Over $1M"
	}
}

// ProjectPriority scores a tender from its trade-match count, budget and
// due-date urgency.
func ProjectPriority(matches int, budget float64, dueDate string) string {
	score := 0

	switch {
	case matches > 50:
		score += 3
	case matches > 20:
		score += 2
	case matches > 0:
		score++
	}

	switch {
	case budget > 500000:
		score += 3
	case budget > 100000:
		score += 2
	case budget > 50000:
		score++
	}

	lower := strings.ToLower(dueDate)
	if lower != "" && lower != "tbd" {
		for _, word := range []string{"urgent", "asap", "immediate"} {
			if strings.Contains(lower, word) {
				score += 2
				break
			}
		}
	}

	switch {
	case score >= 6:
		return "high-priority"
	case score >= 3:
		return "medium-priority"
	default:
		return "low-priority"
	}
}
