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

func reportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Spending reports grouped by account",
	}

	cmd.AddCommand(byAccountReportCmd())
	cmd.AddCommand(monthlyReportCmd())

	return cmd
}

func byAccountReportCmd() *cobra.Command {
	var (
		startDate  string
		endDate    string
		cardMember string
	)

	cmd := &cobra.Command{
		Use:   "by-account",
		Short: "Group spending by account for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient()

			query := url.Values{}
			if startDate != "" {
				query.Set("startDate", startDate)
			}
			if endDate != "" {
				query.Set("endDate", endDate)
			}
			if cardMember != "" {
				query.Set("assignedCardMember", cardMember)
			}

			path := "/api/v1/reports/by-account"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}

			var report domain.ExpensesByAccountReport
			if err := client.do(cmd.Context(), http.MethodGet, path, nil, &report); err != nil {
				return err
			}

			printReport(&report)
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&cardMember, "card-member", "", "filter by assigned card member")

	return cmd
}

func monthlyReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "monthly <month> <year>",
		Short: "Group spending by account for one statement month",
		Long: `Group spending by account for a statement month. Statement months run
from the 12th of the named month to the 11th of the next, so
'reports monthly august 2026' covers 12 Aug through 11 Sep.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newAPIClient()

			path := fmt.Sprintf("/api/v1/reports/monthly/%s/%s",
				url.PathEscape(args[1]), url.PathEscape(args[0]))

			var report domain.ExpensesByAccountReport
			if err := client.do(cmd.Context(), http.MethodGet, path, nil, &report); err != nil {
				return err
			}

			printReport(&report)
			return nil
		},
	}
}

func printReport(report *domain.ExpensesByAccountReport) {
	if report.StartDate != nil && report.EndDate != nil {
		fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%s to %s",
			report.StartDate.Format("2006-01-02"), report.EndDate.Format("2006-01-02"))))
	}

	if len(report.AccountGroups) == 0 {
		fmt.Println(cli.InfoStyle.Render("No spending in this period."))
		return
	}

	for _, group := range report.AccountGroups {
		title := group.AccountID
		if group.OwnerName != "" {
			title = fmt.Sprintf("%s (%s)", group.AccountName, group.OwnerName)
		}
		fmt.Println(cli.TitleStyle.Render(title))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, expense := range group.Expenses {
			fmt.Fprintf(w, "  %s\t%s\t%s\n",
				expense.Date.Format("2006-01-02"),
				truncate(expense.Description, 40),
				expense.Amount.StringFixed(2))
		}
		w.Flush()
		fmt.Printf("  %s %s over %d expenses\n\n",
			cli.HeaderStyle.Render("Subtotal"), group.TotalAmount.StringFixed(2), group.ExpenseCount)
	}

	fmt.Println(strings.Repeat("=", 40))
	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Total %s over %d expenses",
		report.TotalAmount.StringFixed(2), report.TotalExpenses)))
}
