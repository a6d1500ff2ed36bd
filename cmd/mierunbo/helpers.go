package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
)

// formatYen renders a decimal yen amount rounded to whole yen with thousands separators
func formatYen(d decimal.Decimal) string {
	rounded := d.Round(0)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	digits := rounded.String()
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "¥" + b.String()
}

func formatYenInt(amount int64) string {
	return formatYen(decimal.NewFromInt(amount))
}

// formatPercent renders a percentage with one decimal place
func formatPercent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

// formatDays describes how far away a billing date is
func formatDays(days int) string {
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days < 0:
		return fmt.Sprintf("%d days ago", -days)
	default:
		return fmt.Sprintf("in %d days", days)
	}
}

// resolveMonth maps "" to the month of today, otherwise validates YYYY-MM
func resolveMonth(s string, today domain.Date) (string, error) {
	if s == "" {
		return today.YearMonth(), nil
	}
	month, err := domain.ParseMonth(s)
	if err != nil {
		return "", err
	}
	return month.YearMonth(), nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// writeRow writes tab separated cells
func writeRow(w io.Writer, cells ...string) error {
	_, err := fmt.Fprintln(w, strings.Join(cells, "\t"))
	return err
}

// writeHeader writes a styled header row followed by a separator
func writeHeader(w io.Writer, titles ...string) error {
	styled := make([]string, len(titles))
	rules := make([]string, len(titles))
	for i, t := range titles {
		styled[i] = HeaderStyle.Render(t)
		rules[i] = strings.Repeat("─", len([]rune(t)))
	}
	if err := writeRow(w, styled...); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return writeRow(w, rules...)
}
