package domain

import "github.com/shopspring/decimal"

// DefaultTopCategories is the breakdown size shown on the dashboard
const DefaultTopCategories = 5

// DefaultRecentExpenses is the number of recent expenses shown on the dashboard
const DefaultRecentExpenses = 5

// DefaultRenewalWindowDays is the upcoming-renewal window shown on the dashboard
const DefaultRenewalWindowDays = 7

// CategorySpend is one row of a month's category breakdown
type CategorySpend struct {
	Category     Category        `json:"category"`
	Spent        int64           `json:"spent"`
	Budget       int64           `json:"budget"`
	UsagePercent decimal.Decimal `json:"usagePercent"`
}

// MonthlyStats summarizes spend for a single month
type MonthlyStats struct {
	Month              string                `json:"month"`
	TotalExpenses      int64                 `json:"totalExpenses"`
	TotalSubscriptions decimal.Decimal       `json:"totalSubscriptions"`
	ByCategory         map[CategoryKey]int64 `json:"byCategory"`
	BudgetUsage        decimal.Decimal       `json:"budgetUsage"`
}

// DashboardSummary contains the main dashboard metrics
type DashboardSummary struct {
	Stats               MonthlyStats    `json:"stats"`
	TotalBudget         int64           `json:"totalBudget"`
	TotalSpending       decimal.Decimal `json:"totalSpending"`
	BudgetRemaining     decimal.Decimal `json:"budgetRemaining"`
	TopCategories       []CategorySpend `json:"topCategories"`
	UpcomingRenewals    []Subscription  `json:"upcomingRenewals"`
	ActiveSubscriptions int             `json:"activeSubscriptions"`
	RecentExpenses      []Expense       `json:"recentExpenses"`
}
