// Package seed loads owners, accounts and categories from a YAML file so a
// fresh table can be bootstrapped in one command.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	"github.com/mbradford/expense-tracker/internal/domain"
	"github.com/mbradford/expense-tracker/internal/service"
)

// File is the on-disk seed format
type File struct {
	Owners     []OwnerSeed    `yaml:"owners"`
	Accounts   []AccountSeed  `yaml:"accounts"`
	Categories []CategorySeed `yaml:"categories"`
}

type OwnerSeed struct {
	Name     string `yaml:"name"`
	CardName string `yaml:"card_name"`
}

type AccountSeed struct {
	AccountName string `yaml:"account_name"`
	BankName    string `yaml:"bank_name"`
	OwnerName   string `yaml:"owner_name"`
	CardMember  string `yaml:"card_member"`
}

type CategorySeed struct {
	Name      string   `yaml:"name"`
	AccountID string   `yaml:"account_id"`
	CardName  string   `yaml:"card_name"`
	Labels    []string `yaml:"labels"`
}

// Summary tallies what a seed run created and skipped
type Summary struct {
	Created int
	Skipped int
}

// Parse reads and validates a seed file
func Parse(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &file, nil
}

// Apply creates every seeded entity, skipping ones that already exist so the
// same file can be applied repeatedly. Ordering matters: owners before
// accounts before categories, and the Unknown category is ensured first.
func Apply(ctx context.Context, file *File, owners *service.OwnerService, accounts *service.AccountService, categories *service.CategoryService) (*Summary, error) {
	summary := &Summary{}

	if err := categories.EnsureUnknown(ctx); err != nil {
		return nil, err
	}

	for _, seed := range file.Owners {
		_, err := owners.CreateOwner(ctx, seed.Name, seed.CardName)
		if err := tally(summary, err, domain.ErrOwnerAlreadyExists); err != nil {
			return summary, fmt.Errorf("owner %s: %w", seed.Name, err)
		}
	}
	for _, seed := range file.Accounts {
		_, err := accounts.CreateAccount(ctx, seed.AccountName, seed.BankName, seed.OwnerName, seed.CardMember)
		if err := tally(summary, err, domain.ErrAccountAlreadyExists); err != nil {
			return summary, fmt.Errorf("account %s: %w", seed.AccountName, err)
		}
	}
	for _, seed := range file.Categories {
		_, err := categories.CreateCategory(ctx, seed.Name, seed.AccountID, seed.CardName, seed.Labels)
		if err := tally(summary, err, domain.ErrCategoryAlreadyExists); err != nil {
			return summary, fmt.Errorf("category %s: %w", seed.Name, err)
		}
	}

	log.Info().Int("created", summary.Created).Int("skipped", summary.Skipped).Msg("seed applied")
	return summary, nil
}

func tally(summary *Summary, err, alreadyExists error) error {
	switch {
	case err == nil:
		summary.Created++
		return nil
	case errors.Is(err, alreadyExists):
		summary.Skipped++
		return nil
	default:
		return err
	}
}
