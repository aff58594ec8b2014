package domain

import (
	"context"
	"time"
)

// UnknownCategoryName is the canonical fallback category. It always exists,
// carries no labels, and is the terminal outcome when nothing else matches.
const UnknownCategoryName = "Unknown"

// Category is a named spending bucket with label keywords used by the
// categorization engine. Name, account id and card name are immutable; only
// labels and the active flag are ever updated. Categories are never deleted.
type Category struct {
	Name      string    `json:"name"`
	Labels    []string  `json:"labels"`
	AccountID string    `json:"accountId"`
	CardName  string    `json:"cardName"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// CategoryUpdate carries the mutable category fields. Nil means "leave as is".
type CategoryUpdate struct {
	Labels *[]string
	Active *bool
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	// List returns categories in creation order, optionally filtered by
	// account id. Creation order is the engine's deterministic tie-break, so
	// implementations must keep it stable across calls.
	List(ctx context.Context, accountID string) ([]*Category, error)
	Update(ctx context.Context, name string, update CategoryUpdate) (*Category, error)
}
