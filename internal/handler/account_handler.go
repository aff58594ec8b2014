package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mbradford/expense-tracker/internal/service"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccountRequest represents the create account request body
type CreateAccountRequest struct {
	AccountName string `json:"accountName"`
	BankName    string `json:"bankName"`
	OwnerName   string `json:"ownerName"`
	CardMember  string `json:"cardMember"`
}

// UpdateAccountRequest carries the single mutable account field
type UpdateAccountRequest struct {
	Active *bool `json:"active"`
}

// CreateAccount creates a new account
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	var req CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	account, err := h.accountService.CreateAccount(c.Request().Context(), req.AccountName, req.BankName, req.OwnerName, req.CardMember)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, account)
}

// GetAccount returns one account by its derived id
func (h *AccountHandler) GetAccount(c echo.Context) error {
	account, err := h.accountService.GetAccount(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, account)
}

// GetAccounts returns accounts, optionally filtered by owner
func (h *AccountHandler) GetAccounts(c echo.Context) error {
	accounts, err := h.accountService.GetAccounts(c.Request().Context(), c.QueryParam("owner"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, accounts)
}

// UpdateAccount flips an account's active flag
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	var req UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Active == nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "active", Message: "Active flag is required"},
		})
	}

	account, err := h.accountService.SetAccountActive(c.Request().Context(), c.Param("id"), *req.Active)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, account)
}
