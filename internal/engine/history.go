package engine

import (
	"github.com/mbradford/expense-tracker/internal/domain"
	"github.com/shopspring/decimal"
)

// amountTolerance absorbs binary floating-point representation error in
// imported amounts. It is not a business tolerance.
var amountTolerance = decimal.RequireFromString("0.01")

func amountsEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().Cmp(amountTolerance) <= 0
}

// findHistoricalCategory looks for a verbatim repeat of the expense in the
// trailing three-calendar-month window ending at the expense's date: same
// normalized description, same amount within tolerance. A repeat reuses its
// established category no matter what label rules would say now, because a
// past classification carries an explicit user decision.
//
// When repeats exist under different categories the first one encountered in
// history order wins; that tie is accepted as-is rather than guessed at.
func findHistoricalCategory(expense *domain.Expense, history []*domain.Expense) string {
	normalized := Normalize(expense.Description)
	windowStart := HistoryWindowStart(expense.Date)

	for _, h := range history {
		if h.Category == "" || h.Category == domain.UnknownCategoryName {
			continue
		}
		if h.Date.Before(windowStart) || h.Date.After(expense.Date) {
			continue
		}
		if Normalize(h.Description) == normalized && amountsEqual(h.Amount, expense.Amount) {
			return h.Category
		}
	}
	return ""
}
