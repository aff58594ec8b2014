package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Expense is one imported statement line. The statement fields are written
// once at creation; only Category, CategoryHint, NeedsReview and
// AssignedCardMember are ever mutated afterwards, always together as a single
// atomic update.
type Expense struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	CardMember  string          `json:"cardMember"`
	Amount      decimal.Decimal `json:"amount"`

	AccountNumber        *string `json:"accountNumber,omitempty"`
	AccountID            *string `json:"accountId,omitempty"`
	ExtendedDetails      *string `json:"extendedDetails,omitempty"`
	AppearsOnStatementAs *string `json:"appearsOnStatementAs,omitempty"`
	Address              *string `json:"address,omitempty"`
	CityState            *string `json:"cityState,omitempty"`
	ZipCode              *string `json:"zipCode,omitempty"`
	Country              *string `json:"country,omitempty"`
	Reference            *string `json:"reference,omitempty"`

	// Derived fields. CategoryHint is always a list (possibly empty, never
	// null) once categorization has run, so consumers can rely on it.
	Category           string   `json:"category,omitempty"`
	CategoryHint       []string `json:"categoryHint"`
	NeedsReview        bool     `json:"needsReview"`
	AssignedCardMember string   `json:"assignedCardMember"`
	AutoCategorized    bool     `json:"autoCategorized"`

	CreatedAt time.Time `json:"createdAt"`
}

// ExpenseFilter narrows expense listings. Zero values mean "no filter".
type ExpenseFilter struct {
	StartDate          *time.Time
	EndDate            *time.Time
	AccountID          string
	Category           string
	AssignedCardMember string
	NeedsReview        *bool
}

// CategorizationUpdate is the atomic write applied to an expense when its
// categorization changes, whether by the engine or by a manual override. All
// four fields land in one update so no reader observes a half-derived state.
type CategorizationUpdate struct {
	Category           string
	CategoryHint       []string
	NeedsReview        bool
	AssignedCardMember string
	AccountID          *string
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) (*Expense, error)
	GetByID(ctx context.Context, id string) (*Expense, error)
	// SearchByIDPrefix returns expenses whose id starts with prefix, newest
	// first. Best-effort: the scan is capped, not exhaustive.
	SearchByIDPrefix(ctx context.Context, prefix string) ([]*Expense, error)
	// List returns filtered expenses, newest first.
	List(ctx context.Context, filter ExpenseFilter) ([]*Expense, error)
	// ListCategorizedSince returns expenses dated on or after since whose
	// category is set and not Unknown. This feeds the engine's history
	// snapshot; rows with unreadable stored amounts are skipped, not fatal.
	ListCategorizedSince(ctx context.Context, since time.Time) ([]*Expense, error)
	UpdateCategorization(ctx context.Context, id string, update CategorizationUpdate) (*Expense, error)
	Delete(ctx context.Context, id string) error
}
