package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
)

// ExpenseReader is the part of the expense ledger the dashboard reads
type ExpenseReader interface {
	TotalForMonth(month string) int64
	TotalForCategoryInMonth(month string, category domain.CategoryKey) int64
	Recent(n int) []domain.Expense
}

// SubscriptionReader is the part of the subscription ledger the dashboard reads
type SubscriptionReader interface {
	MonthlyTotal() decimal.Decimal
	Active() []domain.Subscription
	UpcomingRenewals(today domain.Date, withinDays int) []domain.Subscription
}

// BudgetReader looks up a month's budget without creating it
type BudgetReader interface {
	Get(month string) (domain.Budget, bool)
}

// DashboardService combines the three ledgers into reporting figures. It never mutates them;
// a month with no budget record reads as the default budget GetOrCreate would create.
type DashboardService struct {
	expenses      ExpenseReader
	subscriptions SubscriptionReader
	budgets       BudgetReader
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(expenses ExpenseReader, subscriptions SubscriptionReader, budgets BudgetReader) *DashboardService {
	return &DashboardService{
		expenses:      expenses,
		subscriptions: subscriptions,
		budgets:       budgets,
	}
}

// budgetFor returns month's budget, or an unsaved default one when the month has no record
func (s *DashboardService) budgetFor(month string) domain.Budget {
	if b, ok := s.budgets.Get(month); ok {
		return b
	}
	return domain.DefaultBudget("", month)
}

func (s *DashboardService) totalBudget(month string) int64 {
	return s.budgetFor(month).TotalBudget
}

// TotalSpending is month's expense total plus the flat monthly subscription total
func (s *DashboardService) TotalSpending(month string) decimal.Decimal {
	return decimal.NewFromInt(s.expenses.TotalForMonth(month)).Add(s.subscriptions.MonthlyTotal())
}

// BudgetRemaining is month's total budget minus spending; negative when over budget
func (s *DashboardService) BudgetRemaining(month string) decimal.Decimal {
	return RemainingBudget(s.totalBudget(month), s.TotalSpending(month))
}

// BudgetProgressPercent is spending as a percentage of month's total budget, 0 for a zero budget
func (s *DashboardService) BudgetProgressPercent(month string) decimal.Decimal {
	return ProgressPercent(s.TotalSpending(month), s.totalBudget(month))
}

// CategoryBreakdown lists categories with nonzero expense spend in month, largest first.
// limit > 0 truncates the list.
func (s *DashboardService) CategoryBreakdown(month string, limit int) []domain.CategorySpend {
	budget := s.budgetFor(month)

	rows := make([]domain.CategorySpend, 0)
	for _, c := range domain.Categories() {
		spent := s.expenses.TotalForCategoryInMonth(month, c.Key)
		if spent == 0 {
			continue
		}
		catBudget := budget.CategoryBudget(c.Key)
		rows = append(rows, domain.CategorySpend{
			Category:     c,
			Spent:        spent,
			Budget:       catBudget,
			UsagePercent: domain.UsagePercent(decimal.NewFromInt(spent), decimal.NewFromInt(catBudget)),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Spent > rows[j].Spent })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// MonthlyStats summarizes month
func (s *DashboardService) MonthlyStats(month string) domain.MonthlyStats {
	byCategory := make(map[domain.CategoryKey]int64)
	for _, key := range domain.CategoryKeys() {
		if spent := s.expenses.TotalForCategoryInMonth(month, key); spent != 0 {
			byCategory[key] = spent
		}
	}

	return domain.MonthlyStats{
		Month:              month,
		TotalExpenses:      s.expenses.TotalForMonth(month),
		TotalSubscriptions: s.subscriptions.MonthlyTotal(),
		ByCategory:         byCategory,
		BudgetUsage:        s.BudgetProgressPercent(month),
	}
}

// Summary assembles the dashboard for month as seen on today. top <= 0 uses the default breakdown size.
func (s *DashboardService) Summary(month string, today domain.Date, top int) domain.DashboardSummary {
	if top <= 0 {
		top = domain.DefaultTopCategories
	}

	return domain.DashboardSummary{
		Stats:               s.MonthlyStats(month),
		TotalBudget:         s.totalBudget(month),
		TotalSpending:       s.TotalSpending(month),
		BudgetRemaining:     s.BudgetRemaining(month),
		TopCategories:       s.CategoryBreakdown(month, top),
		UpcomingRenewals:    s.subscriptions.UpcomingRenewals(today, domain.DefaultRenewalWindowDays),
		ActiveSubscriptions: len(s.subscriptions.Active()),
		RecentExpenses:      s.expenses.Recent(domain.DefaultRecentExpenses),
	}
}

// RemainingBudget returns total - spending
func RemainingBudget(total int64, spending decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(total).Sub(spending)
}

// ProgressPercent returns spending / total × 100, or 0 when total is 0
func ProgressPercent(spending decimal.Decimal, total int64) decimal.Decimal {
	return domain.UsagePercent(spending, decimal.NewFromInt(total))
}
