package engine

import (
	"strings"

	"github.com/mbradford/expense-tracker/internal/domain"
)

// findLabelCategory scans active categories, in creation order, for a label
// contained in the normalized description. The winner is picked by two-stage
// filtering, not scoring: restrict to categories whose card name matches the
// expense's card member when that subset is non-empty, then take the first in
// order. Every other matching category, card-member match or not, is returned
// as a hint in matching order.
func findLabelCategory(expense *domain.Expense, categories []*domain.Category) (winner *domain.Category, hints []string) {
	normalized := Normalize(expense.Description)
	normalizedMember := Normalize(expense.CardMember)

	var matches []*domain.Category
	for _, cat := range categories {
		if !cat.Active {
			continue
		}
		for _, label := range cat.Labels {
			l := Normalize(label)
			if l != "" && strings.Contains(normalized, l) {
				matches = append(matches, cat)
				break
			}
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}

	winner = matches[0]
	for _, cat := range matches {
		if Normalize(cat.CardName) == normalizedMember {
			winner = cat
			break
		}
	}

	hints = make([]string, 0, len(matches)-1)
	for _, cat := range matches {
		if cat != winner {
			hints = append(hints, cat.Name)
		}
	}
	return winner, hints
}
