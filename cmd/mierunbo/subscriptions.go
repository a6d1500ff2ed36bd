package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/app"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/service"
)

func subscriptionsCmd(e *env) *cobra.Command {
	var filter, sort string

	cmd := &cobra.Command{
		Use:     "subscriptions",
		Aliases: []string{"subs"},
		Short:   "List subscriptions with their monthly cost",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := domain.ParseSubscriptionFilter(filter)
			if err != nil {
				return err
			}
			order, err := domain.ParseSubscriptionSort(sort)
			if err != nil {
				return err
			}
			today := domain.Today(e.clock)

			return e.withLedgers(cmd, func(l *app.Ledgers) error {
				out := cmd.OutOrStdout()
				subs := l.Subscriptions.List(f, order)
				if len(subs) == 0 {
					fmt.Fprintln(out, SubtleStyle.Render("No subscriptions found."))
					return nil
				}

				w := newTable(out)
				if err := writeHeader(w, "Name", "Amount", "Cycle", "Monthly", "Next billing", "Status"); err != nil {
					return err
				}
				for _, s := range subs {
					if err := writeRow(w,
						s.Icon+" "+s.Name,
						formatYenInt(s.Amount),
						string(s.BillingCycle),
						formatYen(s.MonthlyAmount()),
						s.NextBillingDate.String()+" ("+formatDays(s.DaysUntilBilling(today))+")",
						subscriptionStatus(s),
					); err != nil {
						return err
					}
				}
				if err := w.Flush(); err != nil {
					return err
				}

				fmt.Fprintln(out)
				fmt.Fprintf(out, "%s %s / month, %s / year\n",
					TitleStyle.Render("Total"),
					formatYen(l.Subscriptions.MonthlyTotal()),
					formatYen(l.Subscriptions.YearlyTotal()),
				)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "all", "all, active or paused")
	cmd.Flags().StringVar(&sort, "sort", "nextBilling", "nextBilling, amount or name")

	return cmd
}

func subscriptionStatus(s domain.Subscription) string {
	switch {
	case !s.IsActive:
		return SubtleStyle.Render("cancelled")
	case s.IsPaused:
		return SubtleStyle.Render("paused")
	default:
		return SuccessStyle.Render("active")
	}
}

func renewalsCmd(e *env) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "renewals",
		Short: "List renewals due soon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days < 0 {
				return fmt.Errorf("--days must not be negative")
			}
			today := domain.Today(e.clock)
			return e.withLedgers(cmd, func(l *app.Ledgers) error {
				return printRenewals(cmd.OutOrStdout(), l.Subscriptions.UpcomingRenewals(today, days), today)
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", domain.DefaultRenewalWindowDays, "window in days")

	return cmd
}

func printRenewals(out io.Writer, subs []domain.Subscription, today domain.Date) error {
	if len(subs) == 0 {
		fmt.Fprintln(out, SubtleStyle.Render("Nothing due."))
		return nil
	}

	w := newTable(out)
	if err := writeHeader(w, "Name", "Amount", "Date", "When"); err != nil {
		return err
	}
	for _, s := range subs {
		d := s.DaysUntilBilling(today)
		when := formatDays(d)
		if domain.IsUrgent(d) {
			when = WarningStyle.Render(when)
		}
		if err := writeRow(w, s.Icon+" "+s.Name, formatYenInt(s.Amount), s.NextBillingDate.String(), when); err != nil {
			return err
		}
	}
	return w.Flush()
}

func advanceCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "advance",
		Short: "Roll stale next billing dates forward to today",
		Long: `Advance every subscription whose next billing date has passed to its next
date on or after today. This is the same pass the API server runs on its
renewal schedule. No expenses are recorded.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			today := domain.Today(e.clock)
			return e.withLedgers(cmd, func(l *app.Ledgers) error {
				renewals := service.NewRenewalService(l.Subscriptions, nil, log.Logger)
				result, err := renewals.AdvanceDue(cmd.Context(), today)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(result.Renewed) == 0 {
					fmt.Fprintln(out, SubtleStyle.Render("All billing dates are current."))
					return nil
				}
				fmt.Fprintln(out, SuccessStyle.Render(fmt.Sprintf("Advanced %d subscription(s)", len(result.Renewed))))
				return printRenewals(out, result.Renewed, today)
			})
		},
	}
}
