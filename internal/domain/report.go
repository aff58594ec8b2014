package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CardPaymentsAccountName tracks payments made to credit cards. It is not
// real spending, so reports exclude it from totals and display.
const CardPaymentsAccountName = "Card-Payments"

// AccountExpenseGroup is one account's slice of a report.
type AccountExpenseGroup struct {
	AccountID    string          `json:"accountId"`
	AccountName  string          `json:"accountName"`
	OwnerName    string          `json:"ownerName"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	ExpenseCount int             `json:"expenseCount"`
	Expenses     []*Expense      `json:"expenses"`
}

// ExpensesByAccountReport groups a filtered expense set by account. Only
// positive amounts count toward totals; negative amounts are card payments.
type ExpensesByAccountReport struct {
	StartDate     *time.Time             `json:"startDate,omitempty"`
	EndDate       *time.Time             `json:"endDate,omitempty"`
	TotalAmount   decimal.Decimal        `json:"totalAmount"`
	TotalExpenses int                    `json:"totalExpenses"`
	AccountGroups []*AccountExpenseGroup `json:"accountGroups"`
}
