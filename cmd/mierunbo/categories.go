package main

import (
	"github.com/spf13/cobra"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List expense categories and their default budgets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := newTable(cmd.OutOrStdout())
			if err := writeHeader(w, "Key", "Name", "Default budget"); err != nil {
				return err
			}
			for _, c := range domain.Categories() {
				if err := writeRow(w, string(c.Key), c.Icon+" "+c.Name, formatYenInt(c.Budget)); err != nil {
					return err
				}
			}
			if err := writeRow(w, "", TitleStyle.Render("Total"), formatYenInt(domain.DefaultTotalBudget())); err != nil {
				return err
			}
			return w.Flush()
		},
	}
}
