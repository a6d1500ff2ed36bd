package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/app"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
)

func summaryCmd(e *env) *cobra.Command {
	var (
		month string
		top   int
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the dashboard for a month",
		Long: `Display the month's budget standing, the categories with the most spending,
renewals due in the next week and the most recent expenses.

A month without a budget gets one seeded from the category defaults, the same
as opening it in the app.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if top <= 0 {
				return fmt.Errorf("--top must be positive")
			}
			today := domain.Today(e.clock)
			m, err := resolveMonth(month, today)
			if err != nil {
				return err
			}
			return e.withLedgers(cmd, func(l *app.Ledgers) error {
				if _, err := l.Budgets.GetOrCreate(cmd.Context(), m); err != nil {
					return fmt.Errorf("failed to create budget for %s: %w", m, err)
				}
				return printSummary(cmd, l.Dashboard().Summary(m, today, top), today)
			})
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to report (YYYY-MM, default current)")
	cmd.Flags().IntVar(&top, "top", domain.DefaultTopCategories, "number of categories in the breakdown")

	return cmd
}

func printSummary(cmd *cobra.Command, s domain.DashboardSummary, today domain.Date) error {
	out := cmd.OutOrStdout()

	remaining := SuccessStyle.Render(formatYen(s.BudgetRemaining))
	if s.BudgetRemaining.IsNegative() {
		remaining = ErrorStyle.Render(formatYen(s.BudgetRemaining))
	}
	overview := strings.Join([]string{
		fmt.Sprintf("Budget     %s", formatYenInt(s.TotalBudget)),
		fmt.Sprintf("Spent      %s", formatYen(s.TotalSpending)),
		fmt.Sprintf("Remaining  %s", remaining),
		fmt.Sprintf("Used       %s", formatPercent(s.Stats.BudgetUsage)),
		fmt.Sprintf("Subs       %s / month (%d active)", formatYen(s.Stats.TotalSubscriptions), s.ActiveSubscriptions),
	}, "\n")

	fmt.Fprintln(out, TitleStyle.Render("💴 "+s.Stats.Month))
	fmt.Fprintln(out, BoxStyle.Render(overview))
	fmt.Fprintln(out)

	fmt.Fprintln(out, TitleStyle.Render("Top categories"))
	if len(s.TopCategories) == 0 {
		fmt.Fprintln(out, SubtleStyle.Render("No expenses this month."))
	} else {
		w := newTable(out)
		if err := writeHeader(w, "Category", "Spent", "Budget", "Used"); err != nil {
			return err
		}
		for _, row := range s.TopCategories {
			if err := writeRow(w,
				row.Category.Icon+" "+row.Category.Name,
				formatYenInt(row.Spent),
				formatYenInt(row.Budget),
				formatPercent(row.UsagePercent),
			); err != nil {
				return err
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, TitleStyle.Render("Upcoming renewals"))
	if err := printRenewals(out, s.UpcomingRenewals, today); err != nil {
		return err
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, TitleStyle.Render("Recent expenses"))
	if len(s.RecentExpenses) == 0 {
		fmt.Fprintln(out, SubtleStyle.Render("No expenses yet."))
		return nil
	}
	w := newTable(out)
	if err := writeHeader(w, "Date", "Category", "Amount", "Description"); err != nil {
		return err
	}
	for _, ex := range s.RecentExpenses {
		if err := writeRow(w,
			ex.Date.String(),
			ex.Category.DisplayName(),
			formatYenInt(ex.Amount),
			ex.Description,
		); err != nil {
			return err
		}
	}
	return w.Flush()
}
