package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/ledger"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/websocket"
)

// SubscriptionHandler handles subscription-related HTTP requests
type SubscriptionHandler struct {
	subscriptions *ledger.SubscriptionLedger
	publisher     websocket.EventPublisher
	clock         domain.Clock
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptions *ledger.SubscriptionLedger, publisher websocket.EventPublisher, clock domain.Clock) *SubscriptionHandler {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	if clock == nil {
		clock = domain.SystemClock
	}
	return &SubscriptionHandler{
		subscriptions: subscriptions,
		publisher:     publisher,
		clock:         clock,
	}
}

// CreateSubscriptionRequest represents the create subscription request body
type CreateSubscriptionRequest struct {
	Name         string `json:"name"`
	Amount       int64  `json:"amount"`
	BillingCycle string `json:"billingCycle"`
	Category     string `json:"category,omitempty"`
	StartDate    string `json:"startDate,omitempty"`
	Description  string `json:"description,omitempty"`
	Icon         string `json:"icon,omitempty"`
	Color        string `json:"color,omitempty"`
}

// UpdateSubscriptionRequest represents the partial update subscription request body
type UpdateSubscriptionRequest struct {
	Name         *string `json:"name,omitempty"`
	Amount       *int64  `json:"amount,omitempty"`
	BillingCycle *string `json:"billingCycle,omitempty"`
	Category     *string `json:"category,omitempty"`
	StartDate    *string `json:"startDate,omitempty"`
	Description  *string `json:"description,omitempty"`
	Icon         *string `json:"icon,omitempty"`
	Color        *string `json:"color,omitempty"`
}

// SubscriptionResponse is a subscription plus figures derived for today
type SubscriptionResponse struct {
	domain.Subscription
	MonthlyAmount    decimal.Decimal `json:"monthlyAmount"`
	DaysUntilBilling int             `json:"daysUntilBilling"`
	IsUrgent         bool            `json:"isUrgent"`
}

// SubscriptionTotalsResponse reports the normalized cost of billable subscriptions
type SubscriptionTotalsResponse struct {
	MonthlyTotal decimal.Decimal `json:"monthlyTotal"`
	YearlyTotal  decimal.Decimal `json:"yearlyTotal"`
	ActiveCount  int             `json:"activeCount"`
}

func toSubscriptionResponse(s domain.Subscription, today domain.Date) SubscriptionResponse {
	days := s.DaysUntilBilling(today)
	return SubscriptionResponse{
		Subscription:     s,
		MonthlyAmount:    s.MonthlyAmount(),
		DaysUntilBilling: days,
		IsUrgent:         s.IsBillable() && domain.IsUrgent(days),
	}
}

func toSubscriptionResponses(subs []domain.Subscription, today domain.Date) []SubscriptionResponse {
	out := make([]SubscriptionResponse, len(subs))
	for i, s := range subs {
		out[i] = toSubscriptionResponse(s, today)
	}
	return out
}

// CreateSubscription godoc
// @Summary Create a subscription
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param request body CreateSubscriptionRequest true "Subscription creation request"
// @Success 201 {object} SubscriptionResponse
// @Failure 400 {object} ProblemDetails
// @Router /subscriptions [post]
func (h *SubscriptionHandler) CreateSubscription(c echo.Context) error {
	var req CreateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	today := domain.Today(h.clock)
	start := today
	if req.StartDate != "" {
		parsed, err := domain.ParseDate(req.StartDate)
		if err != nil {
			return newDomainValidationError(c, err)
		}
		start = parsed
	}

	category := domain.CategoryKey(req.Category)
	if req.Category == "" {
		category = domain.CategorySubscription
	}

	input := domain.CreateSubscriptionInput{
		Name:         strings.TrimSpace(req.Name),
		Amount:       req.Amount,
		BillingCycle: domain.BillingCycle(req.BillingCycle),
		Category:     category,
		StartDate:    start,
		Description:  req.Description,
		Icon:         req.Icon,
		Color:        req.Color,
	}
	if err := input.Validate(); err != nil {
		return newDomainValidationError(c, err)
	}

	sub, err := h.subscriptions.Add(c.Request().Context(), input)
	if err != nil {
		log.Error().Err(err).Str("subscription_id", sub.ID).Msg("Failed to persist subscription")
		return NewInternalError(c, "Failed to save subscription")
	}

	log.Info().Str("subscription_id", sub.ID).Str("name", sub.Name).Msg("Subscription created")
	h.publisher.Publish(websocket.SubscriptionCreated(sub))

	return c.JSON(http.StatusCreated, toSubscriptionResponse(sub, today))
}

// GetSubscriptions godoc
// @Summary List subscriptions
// @Tags subscriptions
// @Produce json
// @Param filter query string false "all, active or paused" default(all)
// @Param sort query string false "nextBilling, amount or name" default(nextBilling)
// @Success 200 {array} SubscriptionResponse
// @Failure 400 {object} ProblemDetails
// @Router /subscriptions [get]
func (h *SubscriptionHandler) GetSubscriptions(c echo.Context) error {
	filter, err := domain.ParseSubscriptionFilter(c.QueryParam("filter"))
	if err != nil {
		return NewValidationError(c, "Invalid filter", []ValidationError{
			{Field: "filter", Message: "Must be one of: all, active, paused"},
		})
	}
	order, err := domain.ParseSubscriptionSort(c.QueryParam("sort"))
	if err != nil {
		return NewValidationError(c, "Invalid sort", []ValidationError{
			{Field: "sort", Message: "Must be one of: nextBilling, amount, name"},
		})
	}

	subs := h.subscriptions.List(filter, order)
	return c.JSON(http.StatusOK, toSubscriptionResponses(subs, domain.Today(h.clock)))
}

// GetSubscription godoc
// @Summary Get a subscription
// @Tags subscriptions
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} SubscriptionResponse
// @Failure 404 {object} ProblemDetails
// @Router /subscriptions/{id} [get]
func (h *SubscriptionHandler) GetSubscription(c echo.Context) error {
	sub, ok := h.subscriptions.Get(c.Param("id"))
	if !ok {
		return NewNotFoundError(c, "Subscription not found")
	}
	return c.JSON(http.StatusOK, toSubscriptionResponse(sub, domain.Today(h.clock)))
}

// UpdateSubscription godoc
// @Summary Update a subscription
// @Description Merge the supplied fields; changing the start date or cycle recomputes the next billing date
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param id path string true "Subscription ID"
// @Param request body UpdateSubscriptionRequest true "Fields to change"
// @Success 200 {object} SubscriptionResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /subscriptions/{id} [put]
func (h *SubscriptionHandler) UpdateSubscription(c echo.Context) error {
	id := c.Param("id")

	var req UpdateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	patch := domain.SubscriptionPatch{
		Amount:      req.Amount,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		patch.Name = &name
	}
	if req.BillingCycle != nil {
		cycle := domain.BillingCycle(*req.BillingCycle)
		patch.BillingCycle = &cycle
	}
	if req.Category != nil {
		category := domain.CategoryKey(*req.Category)
		patch.Category = &category
	}
	if req.StartDate != nil {
		start, err := domain.ParseDate(*req.StartDate)
		if err != nil {
			return newDomainValidationError(c, err)
		}
		patch.StartDate = &start
	}
	if err := patch.Validate(); err != nil {
		return newDomainValidationError(c, err)
	}

	sub, found, err := h.subscriptions.Update(c.Request().Context(), id, patch)
	if !found {
		return NewNotFoundError(c, "Subscription not found")
	}
	if err != nil {
		log.Error().Err(err).Str("subscription_id", id).Msg("Failed to persist subscription update")
		return NewInternalError(c, "Failed to save subscription")
	}

	log.Info().Str("subscription_id", id).Msg("Subscription updated")
	h.publisher.Publish(websocket.SubscriptionUpdated(sub))

	return c.JSON(http.StatusOK, toSubscriptionResponse(sub, domain.Today(h.clock)))
}

// DeleteSubscription godoc
// @Summary Delete a subscription
// @Tags subscriptions
// @Param id path string true "Subscription ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /subscriptions/{id} [delete]
func (h *SubscriptionHandler) DeleteSubscription(c echo.Context) error {
	id := c.Param("id")

	_, found, err := h.subscriptions.Delete(c.Request().Context(), id)
	if !found {
		return NewNotFoundError(c, "Subscription not found")
	}
	if err != nil {
		log.Error().Err(err).Str("subscription_id", id).Msg("Failed to persist subscription deletion")
		return NewInternalError(c, "Failed to delete subscription")
	}

	log.Info().Str("subscription_id", id).Msg("Subscription deleted")
	h.publisher.Publish(websocket.SubscriptionDeleted(map[string]string{"id": id}))

	return c.NoContent(http.StatusNoContent)
}

// TogglePause godoc
// @Summary Pause or resume a subscription
// @Tags subscriptions
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} SubscriptionResponse
// @Failure 404 {object} ProblemDetails
// @Router /subscriptions/{id}/toggle-pause [patch]
func (h *SubscriptionHandler) TogglePause(c echo.Context) error {
	id := c.Param("id")

	sub, found, err := h.subscriptions.TogglePause(c.Request().Context(), id)
	if !found {
		return NewNotFoundError(c, "Subscription not found")
	}
	if err != nil {
		log.Error().Err(err).Str("subscription_id", id).Msg("Failed to persist pause toggle")
		return NewInternalError(c, "Failed to save subscription")
	}

	if sub.IsPaused {
		log.Info().Str("subscription_id", id).Msg("Subscription paused")
		h.publisher.Publish(websocket.SubscriptionPaused(sub))
	} else {
		log.Info().Str("subscription_id", id).Msg("Subscription resumed")
		h.publisher.Publish(websocket.SubscriptionResumed(sub))
	}

	return c.JSON(http.StatusOK, toSubscriptionResponse(sub, domain.Today(h.clock)))
}

// CancelSubscription godoc
// @Summary Cancel a subscription
// @Description Cancelling is permanent; the subscription stops counting toward totals
// @Tags subscriptions
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} SubscriptionResponse
// @Failure 404 {object} ProblemDetails
// @Router /subscriptions/{id}/cancel [patch]
func (h *SubscriptionHandler) CancelSubscription(c echo.Context) error {
	id := c.Param("id")

	sub, found, err := h.subscriptions.Cancel(c.Request().Context(), id)
	if !found {
		return NewNotFoundError(c, "Subscription not found")
	}
	if err != nil {
		log.Error().Err(err).Str("subscription_id", id).Msg("Failed to persist cancellation")
		return NewInternalError(c, "Failed to save subscription")
	}

	log.Info().Str("subscription_id", id).Msg("Subscription cancelled")
	h.publisher.Publish(websocket.SubscriptionCancelled(sub))

	return c.JSON(http.StatusOK, toSubscriptionResponse(sub, domain.Today(h.clock)))
}

// GetTotals godoc
// @Summary Get normalized subscription totals
// @Tags subscriptions
// @Produce json
// @Success 200 {object} SubscriptionTotalsResponse
// @Router /subscriptions/totals [get]
func (h *SubscriptionHandler) GetTotals(c echo.Context) error {
	return c.JSON(http.StatusOK, SubscriptionTotalsResponse{
		MonthlyTotal: h.subscriptions.MonthlyTotal(),
		YearlyTotal:  h.subscriptions.YearlyTotal(),
		ActiveCount:  len(h.subscriptions.Active()),
	})
}

// GetUpcoming godoc
// @Summary List renewals due soon
// @Tags subscriptions
// @Produce json
// @Param days query int false "Window in days" default(7)
// @Success 200 {array} SubscriptionResponse
// @Failure 400 {object} ProblemDetails
// @Router /subscriptions/upcoming [get]
func (h *SubscriptionHandler) GetUpcoming(c echo.Context) error {
	days := domain.DefaultRenewalWindowDays
	if s := c.QueryParam("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return NewValidationError(c, "Invalid days", []ValidationError{
				{Field: "days", Message: "Must be a non-negative integer"},
			})
		}
		days = n
	}

	today := domain.Today(h.clock)
	return c.JSON(http.StatusOK, toSubscriptionResponses(h.subscriptions.UpcomingRenewals(today, days), today))
}
