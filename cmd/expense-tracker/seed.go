package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/mbradford/expense-tracker/internal/cli"
	"github.com/mbradford/expense-tracker/internal/seed"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Create owners, accounts and categories from a YAML file",
		Long: `Create owners, accounts and categories from a YAML seed file via the
API. Entities that already exist are skipped, so the same file can be
applied repeatedly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			file, err := seed.Parse(f)
			if err != nil {
				return err
			}

			client := newAPIClient()
			var created, skipped int
			apply := func(label, path string, body interface{}) error {
				err := client.do(cmd.Context(), http.MethodPost, path, body, nil)
				switch {
				case err == nil:
					created++
					return nil
				case strings.Contains(err.Error(), "already exists"):
					skipped++
					return nil
				default:
					return fmt.Errorf("%s: %w", label, err)
				}
			}

			for _, owner := range file.Owners {
				body := map[string]string{"name": owner.Name, "cardName": owner.CardName}
				if err := apply("owner "+owner.Name, "/api/v1/owners", body); err != nil {
					return err
				}
			}
			for _, account := range file.Accounts {
				body := map[string]string{
					"accountName": account.AccountName,
					"bankName":    account.BankName,
					"ownerName":   account.OwnerName,
					"cardMember":  account.CardMember,
				}
				if err := apply("account "+account.AccountName, "/api/v1/accounts", body); err != nil {
					return err
				}
			}
			for _, category := range file.Categories {
				body := map[string]interface{}{
					"name":      category.Name,
					"accountId": category.AccountID,
					"cardName":  category.CardName,
					"labels":    category.Labels,
				}
				if err := apply("category "+category.Name, "/api/v1/categories", body); err != nil {
					return err
				}
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Seed applied: %d created, %d skipped", created, skipped)))
			return nil
		},
	}
}
