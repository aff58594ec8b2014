package engine

import (
	"time"

	"github.com/mbradford/expense-tracker/internal/domain"
)

// HistoryWindowMonths is the trailing calendar-month window searched for
// historical duplicates.
const HistoryWindowMonths = 3

// Snapshot is the read-only view of the world one categorization run sees:
// the full category list in creation order and the recent categorized
// expense history. Callers materialize it once per batch; the engine never
// reaches out to storage itself.
type Snapshot struct {
	Categories []*domain.Category
	History    []*domain.Expense
}

// CategoryByName looks a category up by exact name, active or not.
func (s Snapshot) CategoryByName(name string) *domain.Category {
	for _, c := range s.Categories {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Validate checks the snapshot is usable: the canonical Unknown category
// must be present, or every run would be a configuration error anyway.
func (s Snapshot) Validate() error {
	if s.CategoryByName(domain.UnknownCategoryName) == nil {
		return domain.ErrUnknownCategoryMissing
	}
	return nil
}

// HistoryWindowStart returns the earliest date a history snapshot must cover
// for expenses dated up to ref.
func HistoryWindowStart(ref time.Time) time.Time {
	return ref.AddDate(0, -HistoryWindowMonths, 0)
}
