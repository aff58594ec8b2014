package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mbradford/expense-tracker/internal/domain"
	"github.com/mbradford/expense-tracker/internal/testutil"
)

func newCategoryFixture(t *testing.T) (*CategoryService, *testutil.MockCategoryRepository) {
	t.Helper()
	categoryRepo := testutil.NewMockCategoryRepository()
	accountRepo := testutil.NewMockAccountRepository()
	if _, err := accountRepo.Create(context.Background(), &domain.Account{
		AccountName: "Spending",
		BankName:    "Amex",
		OwnerName:   "John",
		CardMember:  "JOHN SMITH",
		Active:      true,
	}); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return NewCategoryService(categoryRepo, accountRepo), categoryRepo
}

func TestCreateCategory(t *testing.T) {
	svc, _ := newCategoryFixture(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, "JohnSpend", "Spending John", "JOHN SMITH", []string{" UBER ", "", "APPLE.COM/BILL"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if !created.Active {
		t.Error("new categories should start active")
	}
	if len(created.Labels) != 2 {
		t.Errorf("labels = %v, blanks should be dropped", created.Labels)
	}
	if created.Labels[0] != "UBER" {
		t.Errorf("labels should be trimmed, got %v", created.Labels)
	}

	if _, err := svc.CreateCategory(ctx, "", "Spending John", "", nil); !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
	if _, err := svc.CreateCategory(ctx, "X", "", "", nil); !errors.Is(err, domain.ErrAccountIDRequired) {
		t.Errorf("expected ErrAccountIDRequired, got %v", err)
	}
	if _, err := svc.CreateCategory(ctx, "X", "Missing John", "", nil); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
	if _, err := svc.CreateCategory(ctx, "JohnSpend", "Spending John", "", nil); !errors.Is(err, domain.ErrCategoryAlreadyExists) {
		t.Errorf("expected ErrCategoryAlreadyExists, got %v", err)
	}
}

func TestEnsureUnknown(t *testing.T) {
	svc, categoryRepo := newCategoryFixture(t)
	ctx := context.Background()

	if err := svc.EnsureUnknown(ctx); err != nil {
		t.Fatalf("EnsureUnknown: %v", err)
	}
	unknown, err := categoryRepo.GetByName(ctx, domain.UnknownCategoryName)
	if err != nil {
		t.Fatalf("Unknown should exist after EnsureUnknown: %v", err)
	}
	if !unknown.Active {
		t.Error("Unknown must be active")
	}

	// Idempotent
	if err := svc.EnsureUnknown(ctx); err != nil {
		t.Fatalf("second EnsureUnknown: %v", err)
	}
}

func TestUpdateCategoryProtectsUnknown(t *testing.T) {
	svc, _ := newCategoryFixture(t)
	ctx := context.Background()

	if err := svc.EnsureUnknown(ctx); err != nil {
		t.Fatalf("EnsureUnknown: %v", err)
	}

	inactive := false
	if _, err := svc.UpdateCategory(ctx, domain.UnknownCategoryName, domain.CategoryUpdate{Active: &inactive}); !errors.Is(err, domain.ErrUnknownNotEditable) {
		t.Errorf("deactivating Unknown must fail, got %v", err)
	}

	// Label updates on Unknown are still allowed
	labels := []string{}
	if _, err := svc.UpdateCategory(ctx, domain.UnknownCategoryName, domain.CategoryUpdate{Labels: &labels}); err != nil {
		t.Errorf("label update on Unknown: %v", err)
	}
}

func TestUpdateCategoryLabels(t *testing.T) {
	svc, _ := newCategoryFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, "JohnSpend", "Spending John", "", []string{"OLD"}); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	labels := []string{"NEW", " TRIM ME "}
	updated, err := svc.UpdateCategory(ctx, "JohnSpend", domain.CategoryUpdate{Labels: &labels})
	if err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if len(updated.Labels) != 2 || updated.Labels[1] != "TRIM ME" {
		t.Errorf("labels = %v", updated.Labels)
	}

	if _, err := svc.UpdateCategory(ctx, "Missing", domain.CategoryUpdate{Labels: &labels}); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
}
