package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/ledger"
)

func TestGetBudget_CreatesFromDefaults(t *testing.T) {
	s := newTestServer(t)
	s.addExpense(t, 18000, domain.CategoryFood, domain.NewDate(2024, 6, 3))

	rec := s.do(t, http.MethodGet, "/api/v1/budgets/current", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var budget BudgetResponse
	decodeJSON(t, rec, &budget)
	assert.Equal(t, "bud-1", budget.ID)
	assert.Equal(t, "2024-06", budget.Month)
	assert.Equal(t, int64(180000), budget.TotalBudget)
	assert.Equal(t, domain.DefaultCategoryBudgets(), budget.CategoryBudgets)
	assertDecimal(t, "18000", budget.TotalSpending)
	assertDecimal(t, "162000", budget.BudgetRemaining)
	assertDecimal(t, "10", budget.ProgressPercent)
	assert.Equal(t, 1, s.store.WriteCount(ledger.BudgetsBlob))

	// The explicit month returns the same record
	rec = s.do(t, http.MethodGet, "/api/v1/budgets/2024-06", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &budget)
	assert.Equal(t, "bud-1", budget.ID)
	assert.Equal(t, 1, s.store.WriteCount(ledger.BudgetsBlob))
}

func TestGetBudget_InvalidMonth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/budgets/2024-6", nil)
	problem := assertProblem(t, rec, http.StatusBadRequest, ErrorTypeValidation)
	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "month", problem.Errors[0].Field)
	assert.Empty(t, s.budgets.All())
}

func TestSetBudget_NewMonth(t *testing.T) {
	s := newTestServer(t)
	s.addExpense(t, 25000, domain.CategoryFood, domain.NewDate(2024, 7, 3))

	rec := s.do(t, http.MethodPut, "/api/v1/budgets/2024-07", map[string]interface{}{
		"totalBudget": 100000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var budget BudgetResponse
	decodeJSON(t, rec, &budget)
	assert.Equal(t, "2024-07", budget.Month)
	assert.Equal(t, int64(100000), budget.TotalBudget)
	assert.Empty(t, budget.CategoryBudgets)
	assertDecimal(t, "75000", budget.BudgetRemaining)
	assertDecimal(t, "25", budget.ProgressPercent)

	assert.Equal(t, []string{"budget.updated"}, s.publisher.Types())
	assert.Equal(t, []string{"2024-07"}, s.publisher.Months())
}

func TestSetBudget_KeepsCategoriesWhenOmitted(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/v1/budgets/2024-06", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/budgets/2024-06", map[string]interface{}{
		"totalBudget": 200000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var budget BudgetResponse
	decodeJSON(t, rec, &budget)
	assert.Equal(t, int64(200000), budget.TotalBudget)
	assert.Equal(t, domain.DefaultCategoryBudgets(), budget.CategoryBudgets)

	rec = s.do(t, http.MethodPut, "/api/v1/budgets/2024-06", map[string]interface{}{
		"totalBudget":     200000,
		"categoryBudgets": map[string]int64{"food": 60000},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Decode into a fresh value so keys from the first response cannot linger
	var replaced BudgetResponse
	decodeJSON(t, rec, &replaced)
	assert.Equal(t, map[domain.CategoryKey]int64{domain.CategoryFood: 60000}, replaced.CategoryBudgets)
}

func TestSetBudget_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		body  map[string]interface{}
		field string
	}{
		{"bad month", "/api/v1/budgets/next", map[string]interface{}{"totalBudget": 1000}, "month"},
		{"negative total", "/api/v1/budgets/2024-06", map[string]interface{}{"totalBudget": -1}, "totalBudget"},
		{"unknown category", "/api/v1/budgets/2024-06", map[string]interface{}{
			"totalBudget":     1000,
			"categoryBudgets": map[string]int64{"pets": 100},
		}, "categoryBudgets.pets"},
		{"negative category amount", "/api/v1/budgets/2024-06", map[string]interface{}{
			"totalBudget":     1000,
			"categoryBudgets": map[string]int64{"food": -100},
		}, "categoryBudgets.food"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			rec := s.do(t, http.MethodPut, tt.path, tt.body)
			problem := assertProblem(t, rec, http.StatusBadRequest, ErrorTypeValidation)
			require.Len(t, problem.Errors, 1)
			assert.Equal(t, tt.field, problem.Errors[0].Field)
			assert.Empty(t, s.budgets.All())
			assert.Empty(t, s.publisher.Types())
		})
	}
}

func TestSetCategoryBudget(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/api/v1/budgets/2024-06/categories/food", map[string]interface{}{
		"amount": 12000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var budget BudgetResponse
	decodeJSON(t, rec, &budget)
	assert.Equal(t, int64(12000), budget.CategoryBudgets[domain.CategoryFood])
	assert.Equal(t, int64(15000), budget.CategoryBudgets[domain.CategoryTransport])
	assert.Equal(t, int64(180000), budget.TotalBudget)
	assert.Equal(t, []string{"budget.updated"}, s.publisher.Types())
}

func TestSetCategoryBudget_ValidationErrors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/api/v1/budgets/2024-06/categories/pets", map[string]interface{}{"amount": 100})
	problem := assertProblem(t, rec, http.StatusBadRequest, ErrorTypeValidation)
	assert.Equal(t, "category", problem.Errors[0].Field)

	rec = s.do(t, http.MethodPut, "/api/v1/budgets/2024-06/categories/food", map[string]interface{}{"amount": -5})
	problem = assertProblem(t, rec, http.StatusBadRequest, ErrorTypeValidation)
	assert.Equal(t, "amount", problem.Errors[0].Field)

	assert.Empty(t, s.budgets.All())
}
