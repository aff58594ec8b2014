package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/mbradford/expense-tracker/internal/domain"
	"github.com/mbradford/expense-tracker/internal/engine"
)

const (
	// Prefix resolution bounds: shorter prefixes match too much, and a full
	// UUID is 36 characters so anything longer than 8 is treated as exact.
	minPrefixLength = 3
	maxPrefixLength = 8
)

// ExpenseService handles expense business logic, including running the
// categorization engine whenever an expense is created.
type ExpenseService struct {
	expenseRepo  domain.ExpenseRepository
	categoryRepo domain.CategoryRepository
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository, categoryRepo domain.CategoryRepository) *ExpenseService {
	return &ExpenseService{expenseRepo: expenseRepo, categoryRepo: categoryRepo}
}

// snapshot materializes the engine's view of the world for one expense: all
// categories in creation order plus the categorized history covering the
// trailing window ending at the expense date.
func (s *ExpenseService) snapshot(ctx context.Context, expense *domain.Expense) (engine.Snapshot, error) {
	categories, err := s.categoryRepo.List(ctx, "")
	if err != nil {
		return engine.Snapshot{}, err
	}
	history, err := s.expenseRepo.ListCategorizedSince(ctx, engine.HistoryWindowStart(expense.Date))
	if err != nil {
		return engine.Snapshot{}, err
	}
	return engine.Snapshot{Categories: categories, History: history}, nil
}

// CreateExpense validates, categorizes and stores a single expense. The
// engine runs exactly once, synchronously, before the row is persisted.
func (s *ExpenseService) CreateExpense(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	if err := validateExpense(expense); err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx, expense)
	if err != nil {
		return nil, err
	}
	created, _, err := s.createWithSnapshot(ctx, expense, snap)
	return created, err
}

// createWithSnapshot categorizes against an already materialized snapshot.
// Batch imports build the snapshot once and call this per row.
func (s *ExpenseService) createWithSnapshot(ctx context.Context, expense *domain.Expense, snap engine.Snapshot) (*domain.Expense, engine.Decision, error) {
	decision, err := engine.Categorize(expense, snap)
	if err != nil {
		return nil, engine.Decision{}, err
	}
	applyDecision(expense, decision, snap)

	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	created, err := s.expenseRepo.Create(ctx, expense)
	if err != nil {
		return nil, engine.Decision{}, err
	}
	return created, decision, nil
}

func applyDecision(expense *domain.Expense, decision engine.Decision, snap engine.Snapshot) {
	expense.Category = decision.Category
	expense.CategoryHint = decision.CategoryHint
	expense.NeedsReview = decision.NeedsReview
	expense.AssignedCardMember = decision.AssignedCardMember
	expense.AutoCategorized = true

	if category := snap.CategoryByName(decision.Category); category != nil && category.AccountID != "" {
		accountID := category.AccountID
		expense.AccountID = &accountID
	}
}

func validateExpense(expense *domain.Expense) error {
	if strings.TrimSpace(expense.Description) == "" {
		return domain.ErrDescriptionRequired
	}
	if strings.TrimSpace(expense.CardMember) == "" {
		return domain.ErrCardMemberRequired
	}
	return nil
}

// GetExpense retrieves an expense by its full id
func (s *ExpenseService) GetExpense(ctx context.Context, id string) (*domain.Expense, error) {
	return s.expenseRepo.GetByID(ctx, id)
}

// GetExpenses retrieves filtered expenses, newest first
func (s *ExpenseService) GetExpenses(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	return s.expenseRepo.List(ctx, filter)
}

// SearchExpenses returns expenses whose id starts with prefix
func (s *ExpenseService) SearchExpenses(ctx context.Context, prefix string) ([]*domain.Expense, error) {
	return s.expenseRepo.SearchByIDPrefix(ctx, prefix)
}

// DeleteExpense removes an expense
func (s *ExpenseService) DeleteExpense(ctx context.Context, id string) error {
	return s.expenseRepo.Delete(ctx, id)
}

// UpdateExpenseCategory applies a manual category override. The category must
// exist; hints are cleared and the review flag dropped because a human made
// the call. The assigned card member is re-derived from the new category
// unless an explicit override is given.
func (s *ExpenseService) UpdateExpenseCategory(ctx context.Context, id, categoryName, explicitCardMember string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetByName(ctx, categoryName)
	if err != nil {
		return nil, err
	}

	update := domain.CategorizationUpdate{
		Category:           category.Name,
		CategoryHint:       []string{},
		NeedsReview:        false,
		AssignedCardMember: engine.ResolveAssignedCardMember(category, expense, explicitCardMember),
	}
	if category.AccountID != "" {
		accountID := category.AccountID
		update.AccountID = &accountID
	}

	return s.expenseRepo.UpdateCategorization(ctx, id, update)
}

// UpdateExpenseCardMember overrides only the assigned card member, keeping
// the rest of the categorization as is
func (s *ExpenseService) UpdateExpenseCardMember(ctx context.Context, id, cardMember string) (*domain.Expense, error) {
	cardMember = strings.TrimSpace(cardMember)
	if cardMember == "" {
		return nil, domain.ErrCardMemberRequired
	}

	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.expenseRepo.UpdateCategorization(ctx, id, domain.CategorizationUpdate{
		Category:           expense.Category,
		CategoryHint:       expense.CategoryHint,
		NeedsReview:        expense.NeedsReview,
		AssignedCardMember: cardMember,
	})
}

// BulkUpdateResult tallies a bulk category update. Failures are keyed by the
// id (or prefix) the caller passed in.
type BulkUpdateResult struct {
	Updated []string          `json:"updated"`
	Failed  map[string]string `json:"failed"`
}

// BulkUpdateCategory re-categorizes a set of expenses, identified by full id
// or unique prefix. Each id succeeds or fails independently.
func (s *ExpenseService) BulkUpdateCategory(ctx context.Context, ids []string, categoryName string) (*BulkUpdateResult, error) {
	if _, err := s.categoryRepo.GetByName(ctx, categoryName); err != nil {
		return nil, err
	}

	result := &BulkUpdateResult{Updated: []string{}, Failed: map[string]string{}}
	for _, id := range ids {
		fullID, err := s.ResolveExpenseID(ctx, id)
		if err != nil {
			result.Failed[id] = err.Error()
			continue
		}
		if _, err := s.UpdateExpenseCategory(ctx, fullID, categoryName, ""); err != nil {
			result.Failed[id] = err.Error()
			continue
		}
		result.Updated = append(result.Updated, fullID)
	}

	log.Info().
		Str("category", categoryName).
		Int("updated", len(result.Updated)).
		Int("failed", len(result.Failed)).
		Msg("bulk category update finished")
	return result, nil
}

// ResolveExpenseID resolves a full id or short prefix to exactly one expense
// id. Prefixes shorter than three characters are rejected; a prefix matching
// more than one expense is ambiguous.
func (s *ExpenseService) ResolveExpenseID(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)

	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err == nil {
		return expense.ID, nil
	}
	if !errors.Is(err, domain.ErrExpenseNotFound) {
		return "", err
	}
	if len(id) < minPrefixLength || len(id) > maxPrefixLength {
		return "", domain.ErrExpenseNotFound
	}

	matches, err := s.expenseRepo.SearchByIDPrefix(ctx, id)
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", domain.ErrExpenseNotFound
	case 1:
		return matches[0].ID, nil
	default:
		return "", domain.ErrAmbiguousExpenseID
	}
}
