package service

import (
	"context"
	"strings"

	"github.com/mbradford/expense-tracker/internal/domain"
)

// OwnerService handles owner business logic
type OwnerService struct {
	ownerRepo domain.OwnerRepository
}

// NewOwnerService creates a new OwnerService
func NewOwnerService(ownerRepo domain.OwnerRepository) *OwnerService {
	return &OwnerService{ownerRepo: ownerRepo}
}

// CreateOwner creates a new owner. Owner names never contain spaces because
// they are the suffix of derived account ids.
func (s *OwnerService) CreateOwner(ctx context.Context, name, cardName string) (*domain.Owner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if strings.Contains(name, " ") {
		return nil, domain.ErrInvalidOwnerName
	}
	cardName = strings.TrimSpace(cardName)
	if cardName == "" {
		return nil, domain.ErrCardNameRequired
	}

	return s.ownerRepo.Create(ctx, &domain.Owner{Name: name, CardName: cardName})
}

// GetOwner retrieves an owner by name
func (s *OwnerService) GetOwner(ctx context.Context, name string) (*domain.Owner, error) {
	return s.ownerRepo.GetByName(ctx, name)
}

// GetOwners retrieves all owners
func (s *OwnerService) GetOwners(ctx context.Context) ([]*domain.Owner, error) {
	return s.ownerRepo.List(ctx)
}
