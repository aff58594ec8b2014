package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/mbradford/expense-tracker/internal/cli"
	"github.com/mbradford/expense-tracker/internal/domain"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage spending accounts",
	}

	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(setAccountActiveCmd())

	return cmd
}

func listAccountsCmd() *cobra.Command {
	var ownerName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient()

			path := "/api/v1/accounts"
			if ownerName != "" {
				path += "?owner=" + url.QueryEscape(ownerName)
			}

			var accounts []*domain.Account
			if err := client.do(cmd.Context(), http.MethodGet, path, nil, &accounts); err != nil {
				return err
			}

			if len(accounts) == 0 {
				fmt.Println(cli.InfoStyle.Render("No accounts found."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Bank"),
				cli.HeaderStyle.Render("Owner"),
				cli.HeaderStyle.Render("Card Member"),
				cli.HeaderStyle.Render("Active"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 20), strings.Repeat("-", 10), strings.Repeat("-", 10),
				strings.Repeat("-", 14), strings.Repeat("-", 6))
			for _, account := range accounts {
				active := "yes"
				if !account.Active {
					active = cli.SubtleStyle.Render("no")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					account.ID(), account.BankName, account.OwnerName, account.CardMember, active)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&ownerName, "owner", "", "filter by owner name")

	return cmd
}

func addAccountCmd() *cobra.Command {
	var (
		bankName   string
		ownerName  string
		cardMember string
	)

	cmd := &cobra.Command{
		Use:   "add <account-name>",
		Short: "Add a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient()

			body := map[string]string{
				"accountName": args[0],
				"bankName":    bankName,
				"ownerName":   ownerName,
				"cardMember":  cardMember,
			}
			var account domain.Account
			if err := client.do(cmd.Context(), http.MethodPost, "/api/v1/accounts", body, &account); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Created account %s", account.ID())))
			return nil
		},
	}

	cmd.Flags().StringVar(&bankName, "bank", "", "bank name (required)")
	cmd.Flags().StringVar(&ownerName, "owner", "", "owner name (required)")
	cmd.Flags().StringVar(&cardMember, "card-member", "", "card member name (required)")
	_ = cmd.MarkFlagRequired("bank")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("card-member")

	return cmd
}

func setAccountActiveCmd() *cobra.Command {
	var active bool

	cmd := &cobra.Command{
		Use:   "set-active <account-id>",
		Short: "Activate or deactivate an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient()

			body := map[string]bool{"active": active}
			var account domain.Account
			path := "/api/v1/accounts/" + url.PathEscape(args[0])
			if err := client.do(cmd.Context(), http.MethodPut, path, body, &account); err != nil {
				return err
			}

			state := "active"
			if !account.Active {
				state = "inactive"
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Account %s is now %s", account.ID(), state)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&active, "active", true, "desired active state")

	return cmd
}
