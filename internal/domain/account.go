package domain

import (
	"context"
	"strings"
	"time"
)

// Account is a spending bucket owned by one Owner. Only the active flag is
// mutable after creation.
type Account struct {
	AccountName string    `json:"accountName"`
	BankName    string    `json:"bankName"`
	OwnerName   string    `json:"ownerName"`
	CardMember  string    `json:"cardMember"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ID returns the derived unique account identifier: account name and owner
// name joined by a single space.
func (a *Account) ID() string {
	return a.AccountName + " " + a.OwnerName
}

// SplitAccountID splits an account id back into account name and owner name.
// Owner names contain no spaces, so the split happens at the last space.
func SplitAccountID(accountID string) (accountName, ownerName string, err error) {
	idx := strings.LastIndex(accountID, " ")
	if idx <= 0 || idx == len(accountID)-1 {
		return "", "", ErrInvalidAccountID
	}
	return accountID[:idx], accountID[idx+1:], nil
}

type AccountRepository interface {
	Create(ctx context.Context, account *Account) (*Account, error)
	GetByID(ctx context.Context, accountID string) (*Account, error)
	// List returns accounts in creation order, optionally filtered by owner.
	List(ctx context.Context, ownerName string) ([]*Account, error)
	SetActive(ctx context.Context, accountID string, active bool) (*Account, error)
}
