package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/mbradford/expense-tracker/internal/domain"
	"github.com/mbradford/expense-tracker/internal/testutil"
)

func seedReportExpense(t *testing.T, repo *testutil.MockExpenseRepository, date time.Time, amount, accountID string) {
	t.Helper()
	expense := &domain.Expense{
		Date:        date,
		Description: "SEED " + amount,
		CardMember:  "JOHN SMITH",
		Amount:      decimal.RequireFromString(amount),
	}
	if accountID != "" {
		expense.AccountID = &accountID
	}
	if _, err := repo.Create(context.Background(), expense); err != nil {
		t.Fatalf("seed expense: %v", err)
	}
}

func TestExpensesByAccount(t *testing.T) {
	repo := testutil.NewMockExpenseRepository()
	svc := NewReportService(repo)
	date := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	seedReportExpense(t, repo, date, "10.00", "Spending John")
	seedReportExpense(t, repo, date, "5.50", "Spending John")
	seedReportExpense(t, repo, date, "20.00", "Groceries Jane")
	seedReportExpense(t, repo, date, "-45.00", "Spending John")        // payment, ignored
	seedReportExpense(t, repo, date, "99.00", "Card-Payments John")    // repayment account, excluded
	seedReportExpense(t, repo, date, "7.25", "")                       // no account yet

	report, err := svc.ExpensesByAccount(context.Background(), domain.ExpenseFilter{})
	if err != nil {
		t.Fatalf("ExpensesByAccount: %v", err)
	}

	if report.TotalExpenses != 4 {
		t.Errorf("total expenses = %d, want 4", report.TotalExpenses)
	}
	if !report.TotalAmount.Equal(decimal.RequireFromString("42.75")) {
		t.Errorf("total amount = %s, want 42.75", report.TotalAmount)
	}
	if len(report.AccountGroups) != 3 {
		t.Fatalf("groups = %d, want 3", len(report.AccountGroups))
	}

	byID := map[string]*domain.AccountExpenseGroup{}
	for _, group := range report.AccountGroups {
		byID[group.AccountID] = group
	}
	spending, ok := byID["Spending John"]
	if !ok {
		t.Fatal("missing Spending John group")
	}
	if spending.ExpenseCount != 2 {
		t.Errorf("Spending John count = %d, want 2 (payment excluded)", spending.ExpenseCount)
	}
	if !spending.TotalAmount.Equal(decimal.RequireFromString("15.50")) {
		t.Errorf("Spending John total = %s", spending.TotalAmount)
	}
	if spending.OwnerName != "John" {
		t.Errorf("owner = %q, want John", spending.OwnerName)
	}
	if _, ok := byID["Uncategorized"]; !ok {
		t.Error("expenses without an account should land in Uncategorized")
	}
	if _, ok := byID["Card-Payments John"]; ok {
		t.Error("Card-Payments account must be excluded")
	}
}

func TestMonthlyReportWindow(t *testing.T) {
	repo := testutil.NewMockExpenseRepository()
	svc := NewReportService(repo)

	seedReportExpense(t, repo, time.Date(2026, 8, 11, 0, 0, 0, 0, time.UTC), "1.00", "Spending John")  // day before cycle
	seedReportExpense(t, repo, time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC), "2.00", "Spending John")  // first day
	seedReportExpense(t, repo, time.Date(2026, 9, 11, 12, 0, 0, 0, time.UTC), "4.00", "Spending John") // last day
	seedReportExpense(t, repo, time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), "8.00", "Spending John")  // next cycle

	report, err := svc.MonthlyReport(context.Background(), "August", 2026)
	if err != nil {
		t.Fatalf("MonthlyReport: %v", err)
	}
	if report.TotalExpenses != 2 {
		t.Errorf("total expenses = %d, want the 12th through 11th window", report.TotalExpenses)
	}
	if !report.TotalAmount.Equal(decimal.RequireFromString("6.00")) {
		t.Errorf("total amount = %s, want 6.00", report.TotalAmount)
	}

	if _, err := svc.MonthlyReport(context.Background(), "Octember", 2026); err == nil {
		t.Error("bad month name should be rejected")
	}
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		in   string
		want time.Month
	}{
		{"January", time.January},
		{"august", time.August},
		{"AUG", time.August},
		{" dec ", time.December},
	}
	for _, tt := range tests {
		got, err := ParseMonth(tt.in)
		if err != nil {
			t.Errorf("ParseMonth(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMonth(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseMonth("smarch"); err == nil {
		t.Error("expected error for unknown month")
	}
}
