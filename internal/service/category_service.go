package service

import (
	"context"
	"errors"
	"strings"

	"github.com/mbradford/expense-tracker/internal/domain"
)

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
	accountRepo  domain.AccountRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository, accountRepo domain.AccountRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, accountRepo: accountRepo}
}

// CreateCategory creates a new category bound to an existing account
func (s *CategoryService) CreateCategory(ctx context.Context, name, accountID, cardName string, labels []string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, domain.ErrAccountIDRequired
	}

	if _, err := s.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	return s.categoryRepo.Create(ctx, &domain.Category{
		Name:      name,
		Labels:    cleanLabels(labels),
		AccountID: accountID,
		CardName:  strings.TrimSpace(cardName),
		Active:    true,
	})
}

// EnsureUnknown creates the canonical Unknown fallback category if it does
// not exist yet. It is safe to call on every startup.
func (s *CategoryService) EnsureUnknown(ctx context.Context) error {
	_, err := s.categoryRepo.GetByName(ctx, domain.UnknownCategoryName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		return err
	}

	_, err = s.categoryRepo.Create(ctx, &domain.Category{
		Name:   domain.UnknownCategoryName,
		Labels: []string{},
		Active: true,
	})
	if errors.Is(err, domain.ErrCategoryAlreadyExists) {
		return nil
	}
	return err
}

// GetCategory retrieves a category by name
func (s *CategoryService) GetCategory(ctx context.Context, name string) (*domain.Category, error) {
	return s.categoryRepo.GetByName(ctx, name)
}

// GetCategories retrieves categories in creation order, optionally filtered
// by account id
func (s *CategoryService) GetCategories(ctx context.Context, accountID string) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx, accountID)
}

// UpdateCategory updates a category's labels and/or active flag. The Unknown
// category must stay active; the engine depends on it as the fallback.
func (s *CategoryService) UpdateCategory(ctx context.Context, name string, update domain.CategoryUpdate) (*domain.Category, error) {
	if name == domain.UnknownCategoryName && update.Active != nil && !*update.Active {
		return nil, domain.ErrUnknownNotEditable
	}
	if update.Labels != nil {
		cleaned := cleanLabels(*update.Labels)
		update.Labels = &cleaned
	}
	return s.categoryRepo.Update(ctx, name, update)
}

// cleanLabels trims labels and drops blanks, keeping order
func cleanLabels(labels []string) []string {
	cleaned := make([]string, 0, len(labels))
	for _, label := range labels {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
