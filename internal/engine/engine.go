// Package engine decides which category an imported expense belongs to.
//
// The decision policy, per expense: a historical exact duplicate wins first,
// then label substring matching with card-member priority, then the Unknown
// fallback with a review flag. The engine is pure synchronous logic over an
// injected Snapshot; persistence and batching are the caller's problem.
package engine

import (
	"github.com/mbradford/expense-tracker/internal/domain"
	"github.com/rs/zerolog/log"
)

// Outcome names which branch of the decision policy produced a Decision.
type Outcome string

const (
	OutcomeHistorical Outcome = "historical"
	OutcomeLabel      Outcome = "label"
	OutcomeUnknown    Outcome = "unknown"
)

// Decision is what the engine hands back for one expense. CategoryHint is
// always a non-nil list so callers can persist it unconditionally.
type Decision struct {
	Category           string
	CategoryHint       []string
	NeedsReview        bool
	AssignedCardMember string
	Outcome            Outcome
}

// Categorize runs the full decision policy for one expense against a
// snapshot. "No match" is not an error, it is the Unknown outcome. The only
// error is a snapshot missing the Unknown category, which means the category
// corpus itself is broken.
func Categorize(expense *domain.Expense, snap Snapshot) (Decision, error) {
	if err := snap.Validate(); err != nil {
		return Decision{}, err
	}

	if name := findHistoricalCategory(expense, snap.History); name != "" {
		// A verbatim repeat is unambiguous: no hints, no review.
		log.Debug().Str("expense_id", expense.ID).Str("category", name).Msg("historical match")
		return Decision{
			Category:           name,
			CategoryHint:       []string{},
			AssignedCardMember: ResolveAssignedCardMember(snap.CategoryByName(name), expense, ""),
			Outcome:            OutcomeHistorical,
		}, nil
	}

	if winner, hints := findLabelCategory(expense, snap.Categories); winner != nil {
		if hints == nil {
			hints = []string{}
		}
		log.Debug().Str("expense_id", expense.ID).Str("category", winner.Name).Strs("hints", hints).Msg("label match")
		return Decision{
			Category:           winner.Name,
			CategoryHint:       hints,
			AssignedCardMember: ResolveAssignedCardMember(winner, expense, ""),
			Outcome:            OutcomeLabel,
		}, nil
	}

	log.Debug().Str("expense_id", expense.ID).Msg("no match, falling back to Unknown")
	return Decision{
		Category:           domain.UnknownCategoryName,
		CategoryHint:       []string{},
		NeedsReview:        true,
		AssignedCardMember: expense.CardMember,
		Outcome:            OutcomeUnknown,
	}, nil
}

// ResolveAssignedCardMember derives the card member attributed to an expense:
// an explicit override always wins, then the winning category's card name,
// then the original statement value as the Unknown-case fallback.
func ResolveAssignedCardMember(category *domain.Category, expense *domain.Expense, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if category != nil && category.CardName != "" {
		return category.CardName
	}
	return expense.CardMember
}
