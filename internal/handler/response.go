package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/mbradford/expense-tracker/internal/domain"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://expense-tracker.app/errors/validation"
	ErrorTypeNotFound     = "https://expense-tracker.app/errors/not-found"
	ErrorTypeUnauthorized = "https://expense-tracker.app/errors/unauthorized"
	ErrorTypeConflict     = "https://expense-tracker.app/errors/conflict"
	ErrorTypeInternal     = "https://expense-tracker.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// respondDomainError maps known domain errors to problem responses. Unmapped
// errors are logged and reported as internal.
func respondDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrOwnerNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrExpenseNotFound):
		return NewNotFoundError(c, err.Error())
	case errors.Is(err, domain.ErrOwnerAlreadyExists),
		errors.Is(err, domain.ErrAccountAlreadyExists),
		errors.Is(err, domain.ErrCategoryAlreadyExists):
		return NewConflictError(c, err.Error())
	case errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrInvalidOwnerName),
		errors.Is(err, domain.ErrCardNameRequired),
		errors.Is(err, domain.ErrDescriptionRequired),
		errors.Is(err, domain.ErrCardMemberRequired),
		errors.Is(err, domain.ErrCardMemberUnknown),
		errors.Is(err, domain.ErrBankNameRequired),
		errors.Is(err, domain.ErrAccountIDRequired),
		errors.Is(err, domain.ErrInvalidAccountID),
		errors.Is(err, domain.ErrUnknownNotEditable),
		errors.Is(err, domain.ErrAmbiguousExpenseID):
		return NewValidationError(c, err.Error(), nil)
	default:
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("unhandled error")
		return NewInternalError(c, "An unexpected error occurred")
	}
}
