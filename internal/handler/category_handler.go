package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
)

// CategoryHandler serves the static category catalog and subscription presets
type CategoryHandler struct{}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// GetCategories godoc
// @Summary List expense categories
// @Tags categories
// @Produce json
// @Success 200 {array} domain.Category
// @Router /categories [get]
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.Categories())
}

// GetSubscriptionPresets godoc
// @Summary List subscription quick-add presets
// @Tags subscriptions
// @Produce json
// @Success 200 {array} domain.SubscriptionPreset
// @Router /subscription-presets [get]
func (h *CategoryHandler) GetSubscriptionPresets(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.SubscriptionPresets())
}
