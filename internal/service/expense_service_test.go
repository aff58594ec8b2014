package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/mbradford/expense-tracker/internal/domain"
	"github.com/mbradford/expense-tracker/internal/testutil"
)

func newExpenseFixture(t *testing.T) (*ExpenseService, *testutil.MockExpenseRepository, *testutil.MockCategoryRepository) {
	t.Helper()
	expenseRepo := testutil.NewMockExpenseRepository()
	categoryRepo := testutil.NewMockCategoryRepository()

	ctx := context.Background()
	seed := []*domain.Category{
		{Name: "JohnSpend", Labels: []string{"AT PUBLIC TRANSPORT", "APPLE.COM/BILL"}, AccountID: "Spending John", CardName: "JOHN SMITH", Active: true},
		{Name: "Groceries", Labels: []string{"COUNTDOWN"}, AccountID: "Groceries Jane", CardName: "JANE SMITH", Active: true},
		{Name: domain.UnknownCategoryName, Labels: []string{}, Active: true},
	}
	for _, c := range seed {
		if _, err := categoryRepo.Create(ctx, c); err != nil {
			t.Fatalf("seed category %s: %v", c.Name, err)
		}
	}

	return NewExpenseService(expenseRepo, categoryRepo), expenseRepo, categoryRepo
}

func makeExpense(description, cardMember, amount string) *domain.Expense {
	return &domain.Expense{
		Date:        time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Description: description,
		CardMember:  cardMember,
		Amount:      decimal.RequireFromString(amount),
	}
}

func TestCreateExpenseCategorizesByLabel(t *testing.T) {
	svc, _, _ := newExpenseFixture(t)
	ctx := context.Background()

	created, err := svc.CreateExpense(ctx, makeExpense("APPLE.COM/BILL SYDNEY", "JOHN SMITH", "12.99"))
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if created.ID == "" {
		t.Error("expected a generated id")
	}
	if created.Category != "JohnSpend" {
		t.Errorf("category = %q, want JohnSpend", created.Category)
	}
	if created.NeedsReview {
		t.Error("label match should not need review")
	}
	if !created.AutoCategorized {
		t.Error("expected auto categorized flag")
	}
	if created.AssignedCardMember != "JOHN SMITH" {
		t.Errorf("assigned card member = %q", created.AssignedCardMember)
	}
	if created.AccountID == nil || *created.AccountID != "Spending John" {
		t.Errorf("account id = %v, want Spending John", created.AccountID)
	}
}

func TestCreateExpenseFallsBackToUnknown(t *testing.T) {
	svc, _, _ := newExpenseFixture(t)
	ctx := context.Background()

	created, err := svc.CreateExpense(ctx, makeExpense("MINI SMILES DENTIST", "JOHN SMITH", "80.00"))
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if created.Category != domain.UnknownCategoryName {
		t.Errorf("category = %q, want Unknown", created.Category)
	}
	if !created.NeedsReview {
		t.Error("unknown outcome must need review")
	}
	if len(created.CategoryHint) != 0 {
		t.Errorf("hints = %v, want empty", created.CategoryHint)
	}
}

func TestCreateExpensePrefersHistory(t *testing.T) {
	svc, _, _ := newExpenseFixture(t)
	ctx := context.Background()

	// COUNTDOWN would label-match Groceries, but an identical expense was
	// already filed under JohnSpend last month.
	_, err := svc.CreateExpense(ctx, &domain.Expense{
		Date:        time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC),
		Description: "COUNTDOWN AUCKLAND",
		CardMember:  "JOHN SMITH",
		Amount:      decimal.RequireFromString("54.30"),
	})
	if err != nil {
		t.Fatalf("seed history: %v", err)
	}
	if _, err := svc.UpdateExpenseCategory(ctx, mustOnlyID(t, svc), "JohnSpend", ""); err != nil {
		t.Fatalf("recategorize history: %v", err)
	}

	created, err := svc.CreateExpense(ctx, makeExpense("COUNTDOWN AUCKLAND", "JOHN SMITH", "54.30"))
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if created.Category != "JohnSpend" {
		t.Errorf("category = %q, want historical JohnSpend", created.Category)
	}
	if len(created.CategoryHint) != 0 {
		t.Errorf("historical match must not carry hints, got %v", created.CategoryHint)
	}
}

func mustOnlyID(t *testing.T, svc *ExpenseService) string {
	t.Helper()
	expenses, err := svc.GetExpenses(context.Background(), domain.ExpenseFilter{})
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("expected exactly one expense, got %d", len(expenses))
	}
	return expenses[0].ID
}

func TestCreateExpenseValidation(t *testing.T) {
	svc, _, _ := newExpenseFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateExpense(ctx, makeExpense("", "JOHN SMITH", "1.00")); !errors.Is(err, domain.ErrDescriptionRequired) {
		t.Errorf("expected ErrDescriptionRequired, got %v", err)
	}
	if _, err := svc.CreateExpense(ctx, makeExpense("SOMETHING", "", "1.00")); !errors.Is(err, domain.ErrCardMemberRequired) {
		t.Errorf("expected ErrCardMemberRequired, got %v", err)
	}
}

func TestCreateExpenseMissingUnknownCategory(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewExpenseService(expenseRepo, categoryRepo)

	_, err := svc.CreateExpense(context.Background(), makeExpense("ANYTHING", "JOHN SMITH", "1.00"))
	if !errors.Is(err, domain.ErrUnknownCategoryMissing) {
		t.Fatalf("expected ErrUnknownCategoryMissing, got %v", err)
	}
}

func TestUpdateExpenseCategory(t *testing.T) {
	svc, _, _ := newExpenseFixture(t)
	ctx := context.Background()

	created, err := svc.CreateExpense(ctx, makeExpense("MINI SMILES DENTIST", "JOHN SMITH", "80.00"))
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	updated, err := svc.UpdateExpenseCategory(ctx, created.ID, "Groceries", "")
	if err != nil {
		t.Fatalf("UpdateExpenseCategory: %v", err)
	}
	if updated.Category != "Groceries" {
		t.Errorf("category = %q", updated.Category)
	}
	if updated.NeedsReview {
		t.Error("manual override must clear the review flag")
	}
	if updated.AssignedCardMember != "JANE SMITH" {
		t.Errorf("assigned card member = %q, want category card name", updated.AssignedCardMember)
	}
	if updated.AccountID == nil || *updated.AccountID != "Groceries Jane" {
		t.Errorf("account id = %v", updated.AccountID)
	}

	// Explicit card member override beats the category card name
	updated, err = svc.UpdateExpenseCategory(ctx, created.ID, "Groceries", "JOHN SMITH")
	if err != nil {
		t.Fatalf("UpdateExpenseCategory with override: %v", err)
	}
	if updated.AssignedCardMember != "JOHN SMITH" {
		t.Errorf("assigned card member = %q, want explicit override", updated.AssignedCardMember)
	}

	if _, err := svc.UpdateExpenseCategory(ctx, created.ID, "Nope", ""); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestResolveExpenseID(t *testing.T) {
	svc, expenseRepo, _ := newExpenseFixture(t)
	ctx := context.Background()

	seed := func(id string) {
		if _, err := expenseRepo.Create(ctx, &domain.Expense{
			ID:          id,
			Date:        time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			Description: "SEED",
			CardMember:  "JOHN SMITH",
			Amount:      decimal.RequireFromString("1.00"),
		}); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}
	seed("abc12345-0000-0000-0000-000000000000")
	seed("abd99999-0000-0000-0000-000000000000")

	full, err := svc.ResolveExpenseID(ctx, "abc12345-0000-0000-0000-000000000000")
	if err != nil || full != "abc12345-0000-0000-0000-000000000000" {
		t.Errorf("exact id resolution failed: %q, %v", full, err)
	}

	full, err = svc.ResolveExpenseID(ctx, "abc")
	if err != nil || full != "abc12345-0000-0000-0000-000000000000" {
		t.Errorf("prefix resolution failed: %q, %v", full, err)
	}

	if _, err := svc.ResolveExpenseID(ctx, "ab"); !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Errorf("too-short prefix should not resolve, got %v", err)
	}
	if _, err := svc.ResolveExpenseID(ctx, "abd0"); !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Errorf("unmatched prefix should not resolve, got %v", err)
	}

	seed("abc77777-0000-0000-0000-000000000000")
	if _, err := svc.ResolveExpenseID(ctx, "abc"); !errors.Is(err, domain.ErrAmbiguousExpenseID) {
		t.Errorf("expected ErrAmbiguousExpenseID, got %v", err)
	}
}

func TestBulkUpdateCategory(t *testing.T) {
	svc, expenseRepo, _ := newExpenseFixture(t)
	ctx := context.Background()

	ids := []string{
		"11111111-0000-0000-0000-000000000000",
		"22222222-0000-0000-0000-000000000000",
	}
	for _, id := range ids {
		if _, err := expenseRepo.Create(ctx, &domain.Expense{
			ID:          id,
			Date:        time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			Description: "SEED",
			CardMember:  "JOHN SMITH",
			Amount:      decimal.RequireFromString("1.00"),
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	result, err := svc.BulkUpdateCategory(ctx, []string{"1111", "2222", "9999"}, "Groceries")
	if err != nil {
		t.Fatalf("BulkUpdateCategory: %v", err)
	}
	if len(result.Updated) != 2 {
		t.Errorf("updated = %v, want both seeded expenses", result.Updated)
	}
	if len(result.Failed) != 1 {
		t.Errorf("failed = %v, want the missing prefix only", result.Failed)
	}
	if _, ok := result.Failed["9999"]; !ok {
		t.Errorf("failure should be keyed by the caller's input, got %v", result.Failed)
	}

	if _, err := svc.BulkUpdateCategory(ctx, []string{"1111"}, "Nope"); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("unknown target category must fail fast, got %v", err)
	}
}

func TestUpdateExpenseCardMember(t *testing.T) {
	svc, _, _ := newExpenseFixture(t)
	ctx := context.Background()

	created, err := svc.CreateExpense(ctx, makeExpense("APPLE.COM/BILL SYDNEY", "JOHN SMITH", "12.99"))
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	updated, err := svc.UpdateExpenseCardMember(ctx, created.ID, "JANE SMITH")
	if err != nil {
		t.Fatalf("UpdateExpenseCardMember: %v", err)
	}
	if updated.AssignedCardMember != "JANE SMITH" {
		t.Errorf("assigned card member = %q", updated.AssignedCardMember)
	}
	if updated.Category != "JohnSpend" {
		t.Errorf("category must be untouched, got %q", updated.Category)
	}

	if _, err := svc.UpdateExpenseCardMember(ctx, created.ID, "  "); !errors.Is(err, domain.ErrCardMemberRequired) {
		t.Errorf("expected ErrCardMemberRequired, got %v", err)
	}
}
