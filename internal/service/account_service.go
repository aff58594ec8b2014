package service

import (
	"context"
	"strings"

	"github.com/mbradford/expense-tracker/internal/domain"
)

// AccountService handles account business logic
type AccountService struct {
	accountRepo domain.AccountRepository
	ownerRepo   domain.OwnerRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo domain.AccountRepository, ownerRepo domain.OwnerRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo, ownerRepo: ownerRepo}
}

// CreateAccount creates a new account under an existing owner. The card
// member must be the card name of some owner so imported statement rows can
// be traced back to a person.
func (s *AccountService) CreateAccount(ctx context.Context, accountName, bankName, ownerName, cardMember string) (*domain.Account, error) {
	accountName = strings.TrimSpace(accountName)
	if accountName == "" {
		return nil, domain.ErrNameRequired
	}
	bankName = strings.TrimSpace(bankName)
	if bankName == "" {
		return nil, domain.ErrBankNameRequired
	}
	cardMember = strings.TrimSpace(cardMember)
	if cardMember == "" {
		return nil, domain.ErrCardMemberRequired
	}

	if _, err := s.ownerRepo.GetByName(ctx, strings.TrimSpace(ownerName)); err != nil {
		return nil, err
	}
	if err := s.validateCardMember(ctx, cardMember); err != nil {
		return nil, err
	}

	return s.accountRepo.Create(ctx, &domain.Account{
		AccountName: accountName,
		BankName:    bankName,
		OwnerName:   strings.TrimSpace(ownerName),
		CardMember:  cardMember,
		Active:      true,
	})
}

// GetAccount retrieves an account by its derived id
func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.GetByID(ctx, accountID)
}

// GetAccounts retrieves accounts, optionally filtered by owner
func (s *AccountService) GetAccounts(ctx context.Context, ownerName string) ([]*domain.Account, error) {
	return s.accountRepo.List(ctx, ownerName)
}

// SetAccountActive flips an account's active flag
func (s *AccountService) SetAccountActive(ctx context.Context, accountID string, active bool) (*domain.Account, error) {
	return s.accountRepo.SetActive(ctx, accountID, active)
}

func (s *AccountService) validateCardMember(ctx context.Context, cardMember string) error {
	owners, err := s.ownerRepo.List(ctx)
	if err != nil {
		return err
	}
	for _, owner := range owners {
		if strings.EqualFold(owner.CardName, cardMember) {
			return nil
		}
	}
	return domain.ErrCardMemberUnknown
}
