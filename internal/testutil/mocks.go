// Package testutil provides in-memory repository implementations for tests.
package testutil

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mbradford/expense-tracker/internal/domain"
)

// MockOwnerRepository is an in-memory OwnerRepository
type MockOwnerRepository struct {
	mu     sync.Mutex
	owners []*domain.Owner
}

func NewMockOwnerRepository() *MockOwnerRepository {
	return &MockOwnerRepository{}
}

func (m *MockOwnerRepository) Create(_ context.Context, owner *domain.Owner) (*domain.Owner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.owners {
		if existing.Name == owner.Name {
			return nil, domain.ErrOwnerAlreadyExists
		}
	}
	owner.CreatedAt = time.Now().UTC()
	m.owners = append(m.owners, owner)
	return owner, nil
}

func (m *MockOwnerRepository) GetByName(_ context.Context, name string) (*domain.Owner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, owner := range m.owners {
		if owner.Name == name {
			return owner, nil
		}
	}
	return nil, domain.ErrOwnerNotFound
}

func (m *MockOwnerRepository) List(_ context.Context) ([]*domain.Owner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Owner, len(m.owners))
	copy(out, m.owners)
	return out, nil
}

// MockAccountRepository is an in-memory AccountRepository
type MockAccountRepository struct {
	mu       sync.Mutex
	accounts []*domain.Account
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{}
}

func (m *MockAccountRepository) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.ID() == account.ID() {
			return nil, domain.ErrAccountAlreadyExists
		}
	}
	account.CreatedAt = time.Now().UTC()
	m.accounts = append(m.accounts, account)
	return account, nil
}

func (m *MockAccountRepository) GetByID(_ context.Context, accountID string) (*domain.Account, error) {
	if _, _, err := domain.SplitAccountID(accountID); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.accounts {
		if account.ID() == accountID {
			return account, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) List(_ context.Context, ownerName string) ([]*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Account
	for _, account := range m.accounts {
		if ownerName == "" || account.OwnerName == ownerName {
			out = append(out, account)
		}
	}
	return out, nil
}

func (m *MockAccountRepository) SetActive(_ context.Context, accountID string, active bool) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.accounts {
		if account.ID() == accountID {
			account.Active = active
			return account, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

// MockCategoryRepository is an in-memory CategoryRepository. Categories keep
// insertion order, matching the creation-order listing the engine depends on.
type MockCategoryRepository struct {
	mu         sync.Mutex
	categories []*domain.Category
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{}
}

func (m *MockCategoryRepository) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.categories {
		if existing.Name == category.Name {
			return nil, domain.ErrCategoryAlreadyExists
		}
	}
	category.CreatedAt = time.Now().UTC()
	if category.Labels == nil {
		category.Labels = []string{}
	}
	m.categories = append(m.categories, category)
	return category, nil
}

func (m *MockCategoryRepository) GetByName(_ context.Context, name string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, category := range m.categories {
		if category.Name == name {
			return category, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

func (m *MockCategoryRepository) List(_ context.Context, accountID string) ([]*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Category
	for _, category := range m.categories {
		if accountID == "" || category.AccountID == accountID {
			out = append(out, category)
		}
	}
	return out, nil
}

func (m *MockCategoryRepository) Update(_ context.Context, name string, update domain.CategoryUpdate) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, category := range m.categories {
		if category.Name == name {
			if update.Labels != nil {
				category.Labels = *update.Labels
			}
			if update.Active != nil {
				category.Active = *update.Active
			}
			return category, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

// MockExpenseRepository is an in-memory ExpenseRepository
type MockExpenseRepository struct {
	mu       sync.Mutex
	expenses []*domain.Expense
}

func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{}
}

func (m *MockExpenseRepository) Create(_ context.Context, expense *domain.Expense) (*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	expense.CreatedAt = time.Now().UTC()
	if expense.CategoryHint == nil {
		expense.CategoryHint = []string{}
	}
	m.expenses = append(m.expenses, expense)
	return expense, nil
}

func (m *MockExpenseRepository) GetByID(_ context.Context, id string) (*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, expense := range m.expenses {
		if expense.ID == id {
			return expense, nil
		}
	}
	return nil, domain.ErrExpenseNotFound
}

func (m *MockExpenseRepository) SearchByIDPrefix(_ context.Context, prefix string) ([]*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Expense
	for _, expense := range m.expenses {
		if strings.HasPrefix(expense.ID, prefix) {
			out = append(out, expense)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *MockExpenseRepository) List(_ context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Expense{}
	for _, expense := range m.expenses {
		if filter.StartDate != nil && expense.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && expense.Date.After(*filter.EndDate) {
			continue
		}
		if filter.AccountID != "" && (expense.AccountID == nil || *expense.AccountID != filter.AccountID) {
			continue
		}
		if filter.Category != "" && expense.Category != filter.Category {
			continue
		}
		if filter.NeedsReview != nil && expense.NeedsReview != *filter.NeedsReview {
			continue
		}
		if filter.AssignedCardMember != "" &&
			!strings.EqualFold(strings.TrimSpace(expense.AssignedCardMember), strings.TrimSpace(filter.AssignedCardMember)) {
			continue
		}
		out = append(out, expense)
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *MockExpenseRepository) ListCategorizedSince(_ context.Context, since time.Time) ([]*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Expense
	for _, expense := range m.expenses {
		if expense.Date.Before(since) {
			continue
		}
		if expense.Category == "" || expense.Category == domain.UnknownCategoryName {
			continue
		}
		out = append(out, expense)
	}
	return out, nil
}

func (m *MockExpenseRepository) UpdateCategorization(_ context.Context, id string, update domain.CategorizationUpdate) (*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, expense := range m.expenses {
		if expense.ID == id {
			expense.Category = update.Category
			expense.CategoryHint = update.CategoryHint
			if expense.CategoryHint == nil {
				expense.CategoryHint = []string{}
			}
			expense.NeedsReview = update.NeedsReview
			expense.AssignedCardMember = update.AssignedCardMember
			if update.AccountID != nil {
				expense.AccountID = update.AccountID
			}
			return expense, nil
		}
	}
	return nil, domain.ErrExpenseNotFound
}

func (m *MockExpenseRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, expense := range m.expenses {
		if expense.ID == id {
			m.expenses = append(m.expenses[:i], m.expenses[i+1:]...)
			return nil
		}
	}
	return domain.ErrExpenseNotFound
}

func sortNewestFirst(expenses []*domain.Expense) {
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].Date.After(expenses[j].Date) })
}

// MockStatementArchiver records archived statement files
type MockStatementArchiver struct {
	mu    sync.Mutex
	Files map[string][]byte
	Err   error
}

func NewMockStatementArchiver() *MockStatementArchiver {
	return &MockStatementArchiver{Files: map[string][]byte{}}
}

func (m *MockStatementArchiver) Archive(_ context.Context, filename string, data io.Reader) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	buf, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("statements/%s", filename)
	m.Files[key] = buf
	return key, nil
}
