package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/mbradford/expense-tracker/internal/cli"
	"github.com/mbradford/expense-tracker/internal/domain"
)

func ownersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "owners",
		Short: "Manage card owners",
	}

	cmd.AddCommand(listOwnersCmd())
	cmd.AddCommand(addOwnerCmd())

	return cmd
}

func listOwnersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all owners",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient()

			var owners []*domain.Owner
			if err := client.do(cmd.Context(), http.MethodGet, "/api/v1/owners", nil, &owners); err != nil {
				return err
			}

			if len(owners) == 0 {
				fmt.Println(cli.InfoStyle.Render("No owners found. Use 'expense-tracker owners add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\n",
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Card Name"))
			fmt.Fprintf(w, "%s\t%s\n", strings.Repeat("-", 12), strings.Repeat("-", 20))
			for _, owner := range owners {
				fmt.Fprintf(w, "%s\t%s\n", owner.Name, owner.CardName)
			}
			return nil
		},
	}
}

func addOwnerCmd() *cobra.Command {
	var cardName string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient()

			var owner domain.Owner
			body := map[string]string{"name": args[0], "cardName": cardName}
			if err := client.do(cmd.Context(), http.MethodPost, "/api/v1/owners", body, &owner); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Created owner %s (%s)", owner.Name, owner.CardName)))
			return nil
		},
	}

	cmd.Flags().StringVar(&cardName, "card-name", "", "name as it appears on the card (required)")
	_ = cmd.MarkFlagRequired("card-name")

	return cmd
}
