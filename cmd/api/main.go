package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/handlers"
	custommiddleware "fintrack/internal/middleware"
	"fintrack/internal/repositories"
	"fintrack/internal/scheduler"
	"fintrack/internal/services"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load .env if present; real deployments set environment variables directly
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	db, err := database.Initialize(cfg)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err.Error())
		os.Exit(1)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	blacklistedTokenRepo := repositories.NewBlacklistedTokenRepository(db)

	// Services
	metrics := services.NewPrometheusMetrics()
	tokenService := services.NewTokenService(&cfg.JWT)
	passwordService := services.NewPasswordService()
	authService := services.NewAuthService(
		userRepo,
		refreshTokenRepo,
		blacklistedTokenRepo,
		passwordService,
		tokenService,
		cfg.Security.SignupInviteCode,
		logger,
	)
	transactionService := services.NewTransactionService(transactionRepo, metrics, logger)
	summaryService := services.NewSummaryService(transactionRepo, logger)
	recurrenceService := services.NewRecurrenceService(transactionRepo, metrics, logger, cfg.Recurrence.RunTimeout)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, recurrenceService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)
	recurrenceHandler := handlers.NewRecurrenceHandler(recurrenceService)
	healthHandler := handlers.NewHealthCheckHandler(db)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = custommiddleware.CustomHTTPErrorHandler

	// Middleware chain: trace ID first so every later stage can log it
	e.Use(custommiddleware.RequestID())
	e.Use(custommiddleware.PanicRecovery())
	e.Use(custommiddleware.SecurityHeaders())
	e.Use(custommiddleware.RateLimiter())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	// Public endpoints
	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)
	auth.POST("/logout", authHandler.Logout)

	// Authenticated endpoints
	requireAuth := custommiddleware.RequireAuth(tokenService, blacklistedTokenRepo)

	me := api.Group("/me", requireAuth)
	me.GET("", authHandler.GetProfile)
	me.PUT("/savings-goal", authHandler.UpdateSavingsGoal)

	transactions := api.Group("/transactions", requireAuth)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.POST("/recurring/run", recurrenceHandler.RunRecurrence)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	summary := api.Group("/summary", requireAuth)
	summary.GET("", summaryHandler.GetSummary)
	summary.GET("/monthly", summaryHandler.GetMonthlySeries)

	// Development-only endpoints
	if cfg.IsDevelopment() {
		devHandler := handlers.NewDevHandler(transactionRepo)
		dev := api.Group("/dev", requireAuth)
		dev.POST("/generate-sample-data", devHandler.GenerateSampleData)
		logger.Info("Development endpoints enabled")
	}

	// Background recurrence scheduler
	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	defer cancelScheduler()

	var recurrenceScheduler *scheduler.RecurrenceScheduler
	if cfg.Recurrence.Enabled {
		recurrenceScheduler = scheduler.NewRecurrenceScheduler(recurrenceService, cfg.Recurrence.Interval, logger)
		go recurrenceScheduler.Start(schedulerCtx)
	} else {
		logger.Info("Recurrence scheduler disabled by configuration")
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting API server",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
		)
		if err := e.StartServer(server); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	cancelScheduler()
	if recurrenceScheduler != nil {
		recurrenceScheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err.Error())
	}

	logger.Info("Server exited")
}
