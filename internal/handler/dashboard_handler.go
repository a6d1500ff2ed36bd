package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/ledger"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/service"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboard *service.DashboardService
	budgets   *ledger.BudgetLedger
	clock     domain.Clock
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard *service.DashboardService, budgets *ledger.BudgetLedger, clock domain.Clock) *DashboardHandler {
	if clock == nil {
		clock = domain.SystemClock
	}
	return &DashboardHandler{
		dashboard: dashboard,
		budgets:   budgets,
		clock:     clock,
	}
}

// GetSummary godoc
// @Summary Get dashboard summary
// @Description Monthly stats, budget standing, top categories, upcoming renewals and recent expenses
// @Tags dashboard
// @Produce json
// @Param month query string false "Month (YYYY-MM), defaults to the current month"
// @Param top query int false "Number of categories in the breakdown" default(5)
// @Success 200 {object} domain.DashboardSummary
// @Failure 400 {object} ProblemDetails
// @Router /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	month, err := resolveMonth(c.QueryParam("month"), h.clock)
	if err != nil {
		return newDomainValidationError(c, err)
	}

	top := domain.DefaultTopCategories
	if s := c.QueryParam("top"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return NewValidationError(c, "Invalid top", []ValidationError{
				{Field: "top", Message: "Must be a positive integer"},
			})
		}
		top = n
	}

	// The summary reads the month's budget; make sure one exists the way the budget page would
	if _, err := h.budgets.GetOrCreate(c.Request().Context(), month); err != nil {
		log.Error().Err(err).Str("month", month).Msg("Failed to persist new budget")
		return NewInternalError(c, "Failed to load budget")
	}

	summary := h.dashboard.Summary(month, domain.Today(h.clock), top)
	return c.JSON(http.StatusOK, summary)
}
