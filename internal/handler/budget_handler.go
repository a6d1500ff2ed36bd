package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/ledger"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/service"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/websocket"
)

// currentMonthParam selects the month today falls in
const currentMonthParam = "current"

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgets   *ledger.BudgetLedger
	dashboard *service.DashboardService
	publisher websocket.EventPublisher
	clock     domain.Clock
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgets *ledger.BudgetLedger, dashboard *service.DashboardService, publisher websocket.EventPublisher, clock domain.Clock) *BudgetHandler {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	if clock == nil {
		clock = domain.SystemClock
	}
	return &BudgetHandler{
		budgets:   budgets,
		dashboard: dashboard,
		publisher: publisher,
		clock:     clock,
	}
}

// SetBudgetRequest represents the set budget request body
type SetBudgetRequest struct {
	TotalBudget     int64            `json:"totalBudget"`
	CategoryBudgets map[string]int64 `json:"categoryBudgets,omitempty"`
}

// SetCategoryBudgetRequest represents the set category budget request body
type SetCategoryBudgetRequest struct {
	Amount int64 `json:"amount"`
}

// BudgetResponse is a month's budget together with its current standing
type BudgetResponse struct {
	domain.Budget
	TotalSpending   decimal.Decimal `json:"totalSpending"`
	BudgetRemaining decimal.Decimal `json:"budgetRemaining"`
	ProgressPercent decimal.Decimal `json:"progressPercent"`
}

func (h *BudgetHandler) toBudgetResponse(b domain.Budget) BudgetResponse {
	return BudgetResponse{
		Budget:          b,
		TotalSpending:   h.dashboard.TotalSpending(b.Month),
		BudgetRemaining: h.dashboard.BudgetRemaining(b.Month),
		ProgressPercent: h.dashboard.BudgetProgressPercent(b.Month),
	}
}

// monthParam resolves the :month path parameter, accepting "current"
func (h *BudgetHandler) monthParam(c echo.Context) (string, error) {
	return resolveMonth(c.Param("month"), h.clock)
}

// resolveMonth maps "" and "current" to the month of today, otherwise parses YYYY-MM
func resolveMonth(s string, clock domain.Clock) (string, error) {
	if s == "" || s == currentMonthParam {
		return domain.Today(clock).YearMonth(), nil
	}
	month, err := domain.ParseMonth(s)
	if err != nil {
		return "", err
	}
	return month.YearMonth(), nil
}

// GetBudget godoc
// @Summary Get a month's budget
// @Description Returns the budget, creating it from the category defaults on first access
// @Tags budgets
// @Produce json
// @Param month path string true "Month (YYYY-MM) or current"
// @Success 200 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Router /budgets/{month} [get]
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	month, err := h.monthParam(c)
	if err != nil {
		return newDomainValidationError(c, err)
	}

	budget, err := h.budgets.GetOrCreate(c.Request().Context(), month)
	if err != nil {
		log.Error().Err(err).Str("month", month).Msg("Failed to persist new budget")
		return NewInternalError(c, "Failed to load budget")
	}

	return c.JSON(http.StatusOK, h.toBudgetResponse(budget))
}

// SetBudget godoc
// @Summary Set a month's total budget
// @Description Omitting categoryBudgets keeps the existing per-category amounts
// @Tags budgets
// @Accept json
// @Produce json
// @Param month path string true "Month (YYYY-MM) or current"
// @Param request body SetBudgetRequest true "Budget values"
// @Success 200 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Router /budgets/{month} [put]
func (h *BudgetHandler) SetBudget(c echo.Context) error {
	month, err := h.monthParam(c)
	if err != nil {
		return newDomainValidationError(c, err)
	}

	var req SetBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.TotalBudget < 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "totalBudget", Message: "Must be zero or greater"},
		})
	}

	var categoryBudgets map[domain.CategoryKey]int64
	if req.CategoryBudgets != nil {
		categoryBudgets = make(map[domain.CategoryKey]int64, len(req.CategoryBudgets))
		var errs []ValidationError
		for k, amount := range req.CategoryBudgets {
			key := domain.CategoryKey(k)
			if !key.IsValid() {
				errs = append(errs, ValidationError{Field: "categoryBudgets." + k, Message: "Unknown category"})
				continue
			}
			if amount < 0 {
				errs = append(errs, ValidationError{Field: "categoryBudgets." + k, Message: "Must be zero or greater"})
				continue
			}
			categoryBudgets[key] = amount
		}
		if len(errs) > 0 {
			return NewValidationError(c, "Validation failed", errs)
		}
	}

	budget, err := h.budgets.SetTotal(c.Request().Context(), month, req.TotalBudget, categoryBudgets)
	if err != nil {
		log.Error().Err(err).Str("month", month).Msg("Failed to persist budget")
		return NewInternalError(c, "Failed to save budget")
	}

	log.Info().Str("month", month).Int64("total_budget", budget.TotalBudget).Msg("Budget updated")
	h.publisher.Publish(websocket.BudgetUpdated(budget).ForMonth(budget.Month))

	return c.JSON(http.StatusOK, h.toBudgetResponse(budget))
}

// SetCategoryBudget godoc
// @Summary Set one category's budget for a month
// @Tags budgets
// @Accept json
// @Produce json
// @Param month path string true "Month (YYYY-MM) or current"
// @Param category path string true "Category key"
// @Param request body SetCategoryBudgetRequest true "Category amount"
// @Success 200 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Router /budgets/{month}/categories/{category} [put]
func (h *BudgetHandler) SetCategoryBudget(c echo.Context) error {
	month, err := h.monthParam(c)
	if err != nil {
		return newDomainValidationError(c, err)
	}

	category := domain.CategoryKey(c.Param("category"))
	if !category.IsValid() {
		return newDomainValidationError(c, domain.ErrInvalidCategory)
	}

	var req SetCategoryBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Amount < 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Must be zero or greater"},
		})
	}

	budget, err := h.budgets.SetCategoryBudget(c.Request().Context(), month, category, req.Amount)
	if err != nil {
		log.Error().Err(err).Str("month", month).Str("category", string(category)).Msg("Failed to persist category budget")
		return NewInternalError(c, "Failed to save budget")
	}

	log.Info().Str("month", month).Str("category", string(category)).Int64("amount", req.Amount).Msg("Category budget updated")
	h.publisher.Publish(websocket.BudgetUpdated(budget).ForMonth(budget.Month))

	return c.JSON(http.StatusOK, h.toBudgetResponse(budget))
}
