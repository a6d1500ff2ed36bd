package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/app"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/config"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/handler"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/middleware"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/service"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/websocket"
)

// @title Mierunbo API
// @version 1.0
// @description Household expense, subscription and budget tracking
// @BasePath /api/v1
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Open storage and load the ledgers
	ledgers, err := app.Open(context.Background(), cfg.Storage, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open ledgers")
	}
	log.Info().
		Int("expenses", len(ledgers.Expenses.All())).
		Int("subscriptions", len(ledgers.Subscriptions.All())).
		Int("budgets", len(ledgers.Budgets.All())).
		Msg("Ledgers loaded")

	// Change feed
	hub := websocket.NewHub()

	// Initialize services
	dashboardService := ledgers.Dashboard()
	receiptService := service.NewReceiptService(ledgers.Store, log.Logger)
	renewalService := service.NewRenewalService(ledgers.Subscriptions, hub, log.Logger)

	// Start the renewal worker unless disabled
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()

	var renewalWorker *service.RenewalWorker
	if cfg.RenewalSchedule != "" {
		renewalWorker, err = service.NewRenewalWorker(renewalService, log.Logger, service.RenewalWorkerConfig{
			Schedule: cfg.RenewalSchedule,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create renewal worker")
		}
		renewalWorker.Start(workerCtx)
	} else {
		log.Info().Msg("Renewal worker disabled")
	}

	// Rate limiter for the API group
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst, log.Logger)

	// Initialize handlers
	handlers := handler.Handlers{
		Category:     handler.NewCategoryHandler(),
		Expense:      handler.NewExpenseHandler(ledgers.Expenses, receiptService, hub, domain.SystemClock),
		Subscription: handler.NewSubscriptionHandler(ledgers.Subscriptions, hub, domain.SystemClock),
		Budget:       handler.NewBudgetHandler(ledgers.Budgets, dashboardService, hub, domain.SystemClock),
		Dashboard:    handler.NewDashboardHandler(dashboardService, ledgers.Budgets, domain.SystemClock),
		WebSocket:    handler.NewWebSocketHandler(hub, cfg.CORSOrigins),
	}
	if cfg.DocsEnabled {
		handlers.Docs = handler.NewDocsHandler()
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		MaxAge:       86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(middleware.RequestLogger(log.Logger))

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Register routes
	handler.RegisterRoutes(e, handlers, middleware.RateLimitMiddleware(rateLimiter))

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.Storage.Backend).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if renewalWorker != nil {
		renewalWorker.Stop()
	}
	rateLimiter.Stop()
	hub.CloseAll()

	if err := ledgers.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close storage")
	}

	log.Info().Msg("Server exited")
}
