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
	"github.com/mbradford/expense-tracker/internal/config"
	"github.com/mbradford/expense-tracker/internal/handler"
	"github.com/mbradford/expense-tracker/internal/middleware"
	"github.com/mbradford/expense-tracker/internal/repository/dynamo"
	"github.com/mbradford/expense-tracker/internal/repository/storage"
	"github.com/mbradford/expense-tracker/internal/seed"
	"github.com/mbradford/expense-tracker/internal/service"
)

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

	ctx := context.Background()

	// Connect to DynamoDB
	client, err := dynamo.NewClient(ctx, cfg.DynamoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create DynamoDB client")
	}
	if err := dynamo.Ping(ctx, client, cfg.DynamoDB.Table); err != nil {
		log.Fatal().Err(err).Msg("Failed to reach DynamoDB table")
	}
	log.Info().Str("table", cfg.DynamoDB.Table).Msg("Connected to DynamoDB")

	// Initialize repositories
	ownerRepo := dynamo.NewOwnerRepository(client, cfg.DynamoDB.Table)
	accountRepo := dynamo.NewAccountRepository(client, cfg.DynamoDB.Table)
	categoryRepo := dynamo.NewCategoryRepository(client, cfg.DynamoDB.Table)
	expenseRepo := dynamo.NewExpenseRepository(client, cfg.DynamoDB.Table)

	// Statement archive is optional
	var archiver storage.StatementArchiver
	if cfg.Archive.Bucket != "" {
		s3Archive, err := storage.NewS3StatementArchive(ctx, cfg.Archive)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize statement archive")
		}
		archiver = s3Archive
		log.Info().Str("bucket", cfg.Archive.Bucket).Msg("Statement archive enabled")
	}

	// Initialize services
	ownerService := service.NewOwnerService(ownerRepo)
	accountService := service.NewAccountService(accountRepo, ownerRepo)
	categoryService := service.NewCategoryService(categoryRepo, accountRepo)
	expenseService := service.NewExpenseService(expenseRepo, categoryRepo)
	uploadService := service.NewUploadService(expenseService, archiver)
	reportService := service.NewReportService(expenseRepo)

	// The engine cannot run without the Unknown fallback
	if err := categoryService.EnsureUnknown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure Unknown category")
	}

	// Apply the seed file if one is configured
	if cfg.SeedFile != "" {
		if err := applySeed(ctx, cfg.SeedFile, ownerService, accountService, categoryService); err != nil {
			log.Fatal().Err(err).Str("file", cfg.SeedFile).Msg("Failed to apply seed file")
		}
	}

	// Initialize handlers
	ownerHandler := handler.NewOwnerHandler(ownerService)
	accountHandler := handler.NewAccountHandler(accountService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	uploadHandler := handler.NewUploadHandler(uploadService)
	reportHandler := handler.NewReportHandler(reportService)

	apiKeyMiddleware := middleware.NewAPIKeyMiddleware(cfg.APIKey)
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, middleware.APIKeyHeader},
		AllowCredentials: true,
		MaxAge:           86400,
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
	e.Use(zerologMiddleware())

	// Rate limiting middleware
	e.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, apiKeyMiddleware, ownerHandler, accountHandler, categoryHandler, expenseHandler, uploadHandler, reportHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func applySeed(ctx context.Context, path string, owners *service.OwnerService, accounts *service.AccountService, categories *service.CategoryService) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	file, err := seed.Parse(f)
	if err != nil {
		return err
	}
	_, err = seed.Apply(ctx, file, owners, accounts, categories)
	return err
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
