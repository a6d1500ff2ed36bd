package domain

import (
	"maps"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID              string                `json:"id"`
	Month           string                `json:"month"`
	TotalBudget     int64                 `json:"totalBudget"`
	CategoryBudgets map[CategoryKey]int64 `json:"categoryBudgets"`
}

// DefaultBudget synthesizes a budget for month from the category catalog
func DefaultBudget(id, month string) Budget {
	return Budget{
		ID:              id,
		Month:           month,
		TotalBudget:     DefaultTotalBudget(),
		CategoryBudgets: DefaultCategoryBudgets(),
	}
}

// Clone returns a copy that shares no map with b
func (b Budget) Clone() Budget {
	if b.CategoryBudgets != nil {
		b.CategoryBudgets = maps.Clone(b.CategoryBudgets)
	}
	return b
}

// CategoryBudget returns the per-category amount, falling back to the catalog default
func (b Budget) CategoryBudget(key CategoryKey) int64 {
	if amount, ok := b.CategoryBudgets[key]; ok {
		return amount
	}
	if c, ok := LookupCategory(key); ok {
		return c.Budget
	}
	return 0
}

// UsagePercent returns spent / budget × 100, or 0 when budget is zero
func UsagePercent(spent decimal.Decimal, budget decimal.Decimal) decimal.Decimal {
	if budget.IsZero() {
		return decimal.Zero
	}
	return spent.Div(budget).Mul(decimal.NewFromInt(100))
}
