package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/mbradford/expense-tracker/internal/domain"
)

// Statement months run from the 12th of one month to the 11th of the next,
// matching the card's billing cycle.
const statementCycleDay = 12

// ReportService builds expense reports
type ReportService struct {
	expenseRepo domain.ExpenseRepository
}

// NewReportService creates a new ReportService
func NewReportService(expenseRepo domain.ExpenseRepository) *ReportService {
	return &ReportService{expenseRepo: expenseRepo}
}

// ExpensesByAccount groups filtered expenses by account. Only positive
// amounts count toward totals, and the Card-Payments account is excluded
// entirely because card repayments are not spending.
func (s *ReportService) ExpensesByAccount(ctx context.Context, filter domain.ExpenseFilter) (*domain.ExpensesByAccountReport, error) {
	expenses, err := s.expenseRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	groups := map[string]*domain.AccountExpenseGroup{}
	var order []string

	report := &domain.ExpensesByAccountReport{
		StartDate:     filter.StartDate,
		EndDate:       filter.EndDate,
		TotalAmount:   decimal.Zero,
		AccountGroups: []*domain.AccountExpenseGroup{},
	}

	for _, expense := range expenses {
		if expense.Amount.Sign() <= 0 {
			continue
		}
		accountID := "Uncategorized"
		accountName, ownerName := accountID, ""
		if expense.AccountID != nil && *expense.AccountID != "" {
			accountID = *expense.AccountID
			if name, owner, err := domain.SplitAccountID(accountID); err == nil {
				accountName, ownerName = name, owner
			} else {
				accountName = accountID
			}
		}
		if accountName == domain.CardPaymentsAccountName {
			continue
		}

		group, ok := groups[accountID]
		if !ok {
			group = &domain.AccountExpenseGroup{
				AccountID:   accountID,
				AccountName: accountName,
				OwnerName:   ownerName,
				TotalAmount: decimal.Zero,
				Expenses:    []*domain.Expense{},
			}
			groups[accountID] = group
			order = append(order, accountID)
		}
		group.Expenses = append(group.Expenses, expense)
		group.ExpenseCount++
		group.TotalAmount = group.TotalAmount.Add(expense.Amount)

		report.TotalAmount = report.TotalAmount.Add(expense.Amount)
		report.TotalExpenses++
	}

	sort.Strings(order)
	for _, accountID := range order {
		report.AccountGroups = append(report.AccountGroups, groups[accountID])
	}
	return report, nil
}

// MonthlyReport builds the by-account report for one statement month. The
// window runs from the 12th of the named month to the 11th of the next.
func (s *ReportService) MonthlyReport(ctx context.Context, monthName string, year int) (*domain.ExpensesByAccountReport, error) {
	month, err := ParseMonth(monthName)
	if err != nil {
		return nil, err
	}

	start := time.Date(year, month, statementCycleDay, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC)

	return s.ExpensesByAccount(ctx, domain.ExpenseFilter{StartDate: &start, EndDate: &end})
}

// ParseMonth accepts full month names and common three-letter abbreviations
func ParseMonth(name string) (time.Month, error) {
	cleaned := strings.ToLower(strings.TrimSpace(name))
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		if cleaned == full || cleaned == full[:3] {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unrecognized month %q", name)
}
