package domain

import (
	"context"
	"time"
)

// Owner is a person who holds one or more cards. Owners are immutable after
// creation and are never deleted.
type Owner struct {
	Name      string    `json:"name"`
	CardName  string    `json:"cardName"`
	CreatedAt time.Time `json:"createdAt"`
}

type OwnerRepository interface {
	Create(ctx context.Context, owner *Owner) (*Owner, error)
	GetByName(ctx context.Context, name string) (*Owner, error)
	// List returns all owners in creation order.
	List(ctx context.Context) ([]*Owner, error)
}
