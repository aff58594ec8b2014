package domain

import "errors"

// Domain errors
var (
	ErrOwnerNotFound      = errors.New("owner not found")
	ErrOwnerAlreadyExists = errors.New("owner already exists")

	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyExists = errors.New("account already exists")
	ErrInvalidAccountID     = errors.New("invalid account id")

	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category already exists")

	ErrExpenseNotFound    = errors.New("expense not found")
	ErrAmbiguousExpenseID = errors.New("expense id prefix matches multiple expenses")

	// ErrUnknownCategoryMissing signals a broken category corpus: the
	// canonical "Unknown" fallback must exist before any categorization run.
	ErrUnknownCategoryMissing = errors.New("canonical Unknown category missing")

	ErrNameRequired        = errors.New("name is required")
	ErrInvalidOwnerName    = errors.New("owner name must not contain spaces")
	ErrCardNameRequired    = errors.New("card name is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrCardMemberRequired  = errors.New("card member is required")
	ErrCardMemberUnknown   = errors.New("card member does not match any owner")
	ErrBankNameRequired    = errors.New("bank name is required")
	ErrAccountIDRequired   = errors.New("account id is required")
	ErrUnknownNotEditable  = errors.New("the Unknown category cannot be deactivated")
)
