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

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage expense categories",
		Long:  `List, add and update the categories the auto-categorization engine matches against.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories in creation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient()

			path := "/api/v1/categories"
			if accountID != "" {
				path += "?accountId=" + url.QueryEscape(accountID)
			}

			var categories []*domain.Category
			if err := client.do(cmd.Context(), http.MethodGet, path, nil, &categories); err != nil {
				return err
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found. Use 'expense-tracker categories add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Account"),
				cli.HeaderStyle.Render("Card Name"),
				cli.HeaderStyle.Render("Active"),
				cli.HeaderStyle.Render("Labels"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 14), strings.Repeat("-", 16), strings.Repeat("-", 14),
				strings.Repeat("-", 6), strings.Repeat("-", 30))
			for _, category := range categories {
				active := "yes"
				if !category.Active {
					active = cli.SubtleStyle.Render("no")
				}
				labels := strings.Join(category.Labels, ", ")
				if labels == "" {
					labels = cli.SubtleStyle.Render("(none)")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					category.Name, category.AccountID, category.CardName, active, labels)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "filter by account id")

	return cmd
}

func addCategoryCmd() *cobra.Command {
	var (
		accountID string
		cardName  string
		labels    []string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient()

			body := map[string]interface{}{
				"name":      args[0],
				"accountId": accountID,
				"cardName":  cardName,
				"labels":    labels,
			}
			var category domain.Category
			if err := client.do(cmd.Context(), http.MethodPost, "/api/v1/categories", body, &category); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Created category %s with %d labels", category.Name, len(category.Labels))))
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "account id the category belongs to (required)")
	cmd.Flags().StringVar(&cardName, "card-name", "", "card member the category assigns expenses to")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "label keyword, repeatable")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var (
		labels    []string
		setActive string
	)

	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Update a category's labels or active flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient()

			body := map[string]interface{}{}
			if cmd.Flags().Changed("label") {
				body["labels"] = labels
			}
			if setActive != "" {
				if setActive != "true" && setActive != "false" {
					return fmt.Errorf("--active must be true or false")
				}
				body["active"] = setActive == "true"
			}
			if len(body) == 0 {
				return fmt.Errorf("nothing to update, pass --label and/or --active")
			}

			var category domain.Category
			path := "/api/v1/categories/" + url.PathEscape(args[0])
			if err := client.do(cmd.Context(), http.MethodPut, path, body, &category); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Updated category %s", category.Name)))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&labels, "label", nil, "replacement label keyword, repeatable")
	cmd.Flags().StringVar(&setActive, "active", "", "set active state (true or false)")

	return cmd
}
