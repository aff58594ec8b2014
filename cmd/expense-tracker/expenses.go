package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/mbradford/expense-tracker/internal/cli"
	"github.com/mbradford/expense-tracker/internal/domain"
	"github.com/mbradford/expense-tracker/internal/service"
)

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Manage expenses",
	}

	cmd.AddCommand(listExpensesCmd())
	cmd.AddCommand(showExpenseCmd())
	cmd.AddCommand(uploadStatementCmd())
	cmd.AddCommand(updateExpenseCmd())
	cmd.AddCommand(updateCardMemberCmd())
	cmd.AddCommand(bulkUpdateCmd())
	cmd.AddCommand(deleteExpenseCmd())

	return cmd
}

func listExpensesCmd() *cobra.Command {
	var (
		startDate   string
		endDate     string
		accountID   string
		category    string
		cardMember  string
		needsReview bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient()

			query := url.Values{}
			if startDate != "" {
				query.Set("startDate", startDate)
			}
			if endDate != "" {
				query.Set("endDate", endDate)
			}
			if accountID != "" {
				query.Set("accountId", accountID)
			}
			if category != "" {
				query.Set("category", category)
			}
			if cardMember != "" {
				query.Set("assignedCardMember", cardMember)
			}
			if needsReview {
				query.Set("needsReview", "true")
			}

			path := "/api/v1/expenses"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}

			var expenses []*domain.Expense
			if err := client.do(cmd.Context(), http.MethodGet, path, nil, &expenses); err != nil {
				return err
			}

			if len(expenses) == 0 {
				fmt.Println(cli.InfoStyle.Render("No expenses found."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Date"),
				cli.HeaderStyle.Render("Description"),
				cli.HeaderStyle.Render("Amount"),
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Review"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 8), strings.Repeat("-", 10), strings.Repeat("-", 30),
				strings.Repeat("-", 10), strings.Repeat("-", 14), strings.Repeat("-", 6))
			for _, expense := range expenses {
				review := ""
				if expense.NeedsReview {
					review = cli.WarningStyle.Render("yes")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					expense.ID[:8],
					expense.Date.Format("2006-01-02"),
					truncate(expense.Description, 40),
					expense.Amount.StringFixed(2),
					expense.Category,
					review)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&accountID, "account", "", "filter by account id")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&cardMember, "card-member", "", "filter by assigned card member")
	cmd.Flags().BoolVar(&needsReview, "needs-review", false, "only expenses needing review")

	return cmd
}

func showExpenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id-or-prefix>",
		Short: "Show one expense in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient()

			id, err := client.resolveExpenseID(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var expense domain.Expense
			if err := client.do(cmd.Context(), http.MethodGet, "/api/v1/expenses/"+id, nil, &expense); err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render(expense.Description))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "ID\t%s\n", expense.ID)
			fmt.Fprintf(w, "Date\t%s\n", expense.Date.Format("2006-01-02"))
			fmt.Fprintf(w, "Amount\t%s\n", expense.Amount.StringFixed(2))
			fmt.Fprintf(w, "Card member\t%s\n", expense.CardMember)
			fmt.Fprintf(w, "Assigned to\t%s\n", expense.AssignedCardMember)
			fmt.Fprintf(w, "Category\t%s\n", expense.Category)
			if len(expense.CategoryHint) > 0 {
				fmt.Fprintf(w, "Hints\t%s\n", strings.Join(expense.CategoryHint, ", "))
			}
			if expense.AccountID != nil {
				fmt.Fprintf(w, "Account\t%s\n", *expense.AccountID)
			}
			fmt.Fprintf(w, "Needs review\t%t\n", expense.NeedsReview)
			fmt.Fprintf(w, "Auto categorized\t%t\n", expense.AutoCategorized)
			return nil
		},
	}
}

func uploadStatementCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <statement.csv>",
		Short: "Import a statement CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient()

			var summary service.UploadSummary
			if err := client.uploadFile(cmd.Context(), "/api/v1/expenses/upload", args[0], &summary); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Imported %d expenses", summary.Processed)))
			fmt.Printf("  historical: %d  label: %d  unknown: %d  needs review: %d\n",
				summary.Historical, summary.Label, summary.Unknown, summary.NeedsReview)
			if len(summary.Errors) > 0 {
				fmt.Println(cli.WarningStyle.Render(fmt.Sprintf("%d rows failed:", len(summary.Errors))))
				for _, msg := range summary.Errors {
					fmt.Println("  " + msg)
				}
			}
			return nil
		},
	}
}

func updateExpenseCmd() *cobra.Command {
	var (
		category   string
		cardMember string
	)

	cmd := &cobra.Command{
		Use:   "update <id-or-prefix>",
		Short: "Manually set an expense's category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient()

			id, err := client.resolveExpenseID(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			body := map[string]string{"category": category}
			if cardMember != "" {
				body["cardMember"] = cardMember
			}
			var expense domain.Expense
			if err := client.do(cmd.Context(), http.MethodPatch, "/api/v1/expenses/"+id+"/category", body, &expense); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Expense %s is now %s (assigned to %s)",
				expense.ID[:8], expense.Category, expense.AssignedCardMember)))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "target category (required)")
	cmd.Flags().StringVar(&cardMember, "card-member", "", "explicit card member override")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func updateCardMemberCmd() *cobra.Command {
	var cardMember string

	cmd := &cobra.Command{
		Use:   "update-card-member <id-or-prefix>",
		Short: "Override the assigned card member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient()

			id, err := client.resolveExpenseID(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			body := map[string]string{"cardMember": cardMember}
			var expense domain.Expense
			if err := client.do(cmd.Context(), http.MethodPatch, "/api/v1/expenses/"+id+"/card-member", body, &expense); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Expense %s assigned to %s", expense.ID[:8], expense.AssignedCardMember)))
			return nil
		},
	}

	cmd.Flags().StringVar(&cardMember, "card-member", "", "card member to assign (required)")
	_ = cmd.MarkFlagRequired("card-member")

	return cmd
}

func bulkUpdateCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "bulk-update <id-or-prefix>...",
		Short: "Re-categorize many expenses at once",
		Long: `Re-categorize a set of expenses, identified by full id or unique
prefix. Each expense succeeds or fails independently.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient()

			bar := progressbar.NewOptions(len(args),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Updating expenses..."),
			)

			var updated int
			failed := map[string]string{}
			for _, arg := range args {
				id, err := client.resolveExpenseID(cmd.Context(), arg)
				if err != nil {
					failed[arg] = err.Error()
					_ = bar.Add(1)
					continue
				}
				body := map[string]string{"category": category}
				if err := client.do(cmd.Context(), http.MethodPatch, "/api/v1/expenses/"+id+"/category", body, nil); err != nil {
					failed[arg] = err.Error()
					_ = bar.Add(1)
					continue
				}
				updated++
				_ = bar.Add(1)
			}
			_ = bar.Finish()
			fmt.Println()

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Updated %d of %d expenses", updated, len(args))))
			if len(failed) > 0 {
				fmt.Println(cli.ErrorStyle.Render(fmt.Sprintf("%d failed:", len(failed))))
				for id, msg := range failed {
					fmt.Printf("  %s: %s\n", id, msg)
				}
				return fmt.Errorf("%d of %d updates failed", len(failed), len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "target category (required)")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func deleteExpenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id-or-prefix>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient()

			id, err := client.resolveExpenseID(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if err := client.do(cmd.Context(), http.MethodDelete, "/api/v1/expenses/"+id, nil, nil); err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Deleted expense %s", id[:8])))
			return nil
		},
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
