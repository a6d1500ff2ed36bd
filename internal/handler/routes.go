package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers groups every HTTP handler the API serves
type Handlers struct {
	Category     *CategoryHandler
	Expense      *ExpenseHandler
	Subscription *SubscriptionHandler
	Budget       *BudgetHandler
	Dashboard    *DashboardHandler
	WebSocket    *WebSocketHandler
	Docs         *DocsHandler
}

// RegisterRoutes sets up all API routes. apiMiddleware applies to /api/v1 only.
func RegisterRoutes(e *echo.Echo, h Handlers, apiMiddleware ...echo.MiddlewareFunc) {
	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Change feed
	if h.WebSocket != nil {
		e.GET("/ws", h.WebSocket.HandleWS)
	}

	// API description
	if h.Docs != nil {
		e.GET("/openapi.json", h.Docs.ServeSpec)
		e.GET("/swagger/*", h.Docs.Browse)
	}

	// API version 1
	api := e.Group("/api/v1", apiMiddleware...)

	// Reference data
	api.GET("/categories", h.Category.GetCategories)
	api.GET("/subscription-presets", h.Category.GetSubscriptionPresets)

	// Expense routes
	expenses := api.Group("/expenses")
	expenses.POST("", h.Expense.CreateExpense)
	expenses.GET("", h.Expense.GetExpenses)
	expenses.GET("/recent", h.Expense.GetRecentExpenses)
	expenses.GET("/:id", h.Expense.GetExpense)
	expenses.PUT("/:id", h.Expense.UpdateExpense)
	expenses.DELETE("/:id", h.Expense.DeleteExpense)
	expenses.POST("/:id/receipt", h.Expense.UploadReceipt)
	expenses.GET("/:id/receipt", h.Expense.GetReceipt)
	expenses.DELETE("/:id/receipt", h.Expense.DeleteReceipt)

	// Subscription routes
	subscriptions := api.Group("/subscriptions")
	subscriptions.POST("", h.Subscription.CreateSubscription)
	subscriptions.GET("", h.Subscription.GetSubscriptions)
	subscriptions.GET("/totals", h.Subscription.GetTotals)
	subscriptions.GET("/upcoming", h.Subscription.GetUpcoming)
	subscriptions.GET("/:id", h.Subscription.GetSubscription)
	subscriptions.PUT("/:id", h.Subscription.UpdateSubscription)
	subscriptions.DELETE("/:id", h.Subscription.DeleteSubscription)
	subscriptions.PATCH("/:id/toggle-pause", h.Subscription.TogglePause)
	subscriptions.PATCH("/:id/cancel", h.Subscription.CancelSubscription)

	// Budget routes
	budgets := api.Group("/budgets")
	budgets.GET("/:month", h.Budget.GetBudget)
	budgets.PUT("/:month", h.Budget.SetBudget)
	budgets.PUT("/:month/categories/:category", h.Budget.SetCategoryBudget)

	// Dashboard routes
	api.GET("/dashboard/summary", h.Dashboard.GetSummary)
}
