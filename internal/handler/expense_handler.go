package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/mbradford/expense-tracker/internal/domain"
	"github.com/mbradford/expense-tracker/internal/service"
)

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents the create expense request body
type CreateExpenseRequest struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	CardMember  string `json:"cardMember"`
	Amount      string `json:"amount"`

	AccountNumber        *string `json:"accountNumber,omitempty"`
	ExtendedDetails      *string `json:"extendedDetails,omitempty"`
	AppearsOnStatementAs *string `json:"appearsOnStatementAs,omitempty"`
	Address              *string `json:"address,omitempty"`
	CityState            *string `json:"cityState,omitempty"`
	ZipCode              *string `json:"zipCode,omitempty"`
	Country              *string `json:"country,omitempty"`
	Reference            *string `json:"reference,omitempty"`
}

// UpdateExpenseCategoryRequest is a manual category override
type UpdateExpenseCategoryRequest struct {
	Category   string `json:"category"`
	CardMember string `json:"cardMember,omitempty"`
}

// UpdateExpenseCardMemberRequest overrides the assigned card member
type UpdateExpenseCardMemberRequest struct {
	CardMember string `json:"cardMember"`
}

// BulkUpdateRequest re-categorizes a set of expenses by id or prefix
type BulkUpdateRequest struct {
	IDs      []string `json:"ids"`
	Category string   `json:"category"`
}

// CreateExpense creates and categorizes a single expense
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	expense := &domain.Expense{
		Date:                 date,
		Description:          req.Description,
		CardMember:           req.CardMember,
		Amount:               amount,
		AccountNumber:        req.AccountNumber,
		ExtendedDetails:      req.ExtendedDetails,
		AppearsOnStatementAs: req.AppearsOnStatementAs,
		Address:              req.Address,
		CityState:            req.CityState,
		ZipCode:              req.ZipCode,
		Country:              req.Country,
		Reference:            req.Reference,
	}

	created, err := h.expenseService.CreateExpense(c.Request().Context(), expense)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// GetExpense returns one expense by id
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	expense, err := h.expenseService.GetExpense(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, expense)
}

// GetExpenses returns filtered expenses, newest first
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	filter, err := parseExpenseFilter(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	expenses, err := h.expenseService.GetExpenses(c.Request().Context(), filter)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, expenses)
}

// SearchExpenses returns expenses whose id starts with the given prefix
func (h *ExpenseHandler) SearchExpenses(c echo.Context) error {
	prefix := c.QueryParam("prefix")
	if prefix == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "prefix", Message: "Prefix is required"},
		})
	}

	expenses, err := h.expenseService.SearchExpenses(c.Request().Context(), prefix)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, expenses)
}

// UpdateExpenseCategory applies a manual category override
func (h *ExpenseHandler) UpdateExpenseCategory(c echo.Context) error {
	var req UpdateExpenseCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Category == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category is required"},
		})
	}

	expense, err := h.expenseService.UpdateExpenseCategory(c.Request().Context(), c.Param("id"), req.Category, req.CardMember)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, expense)
}

// UpdateExpenseCardMember overrides only the assigned card member
func (h *ExpenseHandler) UpdateExpenseCardMember(c echo.Context) error {
	var req UpdateExpenseCardMemberRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	expense, err := h.expenseService.UpdateExpenseCardMember(c.Request().Context(), c.Param("id"), req.CardMember)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, expense)
}

// BulkUpdateCategory re-categorizes a set of expenses
func (h *ExpenseHandler) BulkUpdateCategory(c echo.Context) error {
	var req BulkUpdateRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if len(req.IDs) == 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "ids", Message: "At least one expense id is required"},
		})
	}
	if req.Category == "" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category is required"},
		})
	}

	result, err := h.expenseService.BulkUpdateCategory(c.Request().Context(), req.IDs, req.Category)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// DeleteExpense removes an expense
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	if err := h.expenseService.DeleteExpense(c.Request().Context(), c.Param("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseExpenseFilter(c echo.Context) (domain.ExpenseFilter, error) {
	filter := domain.ExpenseFilter{
		AccountID:          c.QueryParam("accountId"),
		Category:           c.QueryParam("category"),
		AssignedCardMember: c.QueryParam("assignedCardMember"),
	}

	if raw := c.QueryParam("startDate"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, fmt.Errorf("startDate must be in YYYY-MM-DD format")
		}
		filter.StartDate = &start
	}
	if raw := c.QueryParam("endDate"); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, fmt.Errorf("endDate must be in YYYY-MM-DD format")
		}
		end = end.Add(24*time.Hour - time.Second)
		filter.EndDate = &end
	}
	if raw := c.QueryParam("needsReview"); raw != "" {
		needsReview := raw == "true"
		filter.NeedsReview = &needsReview
	}
	return filter, nil
}
