package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoicedash/internal/analytics"
	"invoicedash/internal/caching"
	"invoicedash/internal/config"
	"invoicedash/internal/handlers"
	"invoicedash/internal/jobs/background"
	"invoicedash/internal/middleware"
	"invoicedash/internal/repositories"
	"invoicedash/internal/services"
	"invoicedash/pkg/database"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func NewServeCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}
}

// app holds the wired handlers the router needs
type app struct {
	cfg       *config.Config
	cacheSvc  caching.CacheService
	health    *handlers.HealthHandlers
	auth      *handlers.AuthHandlers
	dashboard *handlers.DashboardHandlers
	invoices  *handlers.InvoiceHandlers
}

func runServe(parent context.Context, cfg *config.Config) error {
	logger := config.GetLogger()

	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = random.String(32)
		logger.Warn("JWT_SECRET not set, using a generated secret; sessions end on restart")
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	redisClient := caching.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()
	cacheSvc := caching.NewRedisCacheService(redisClient)

	minioSvc, err := services.NewMinioService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		return fmt.Errorf("failed to initialize MinIO service: %w", err)
	}
	if err := minioSvc.EnsureBucketExists(ctx, cfg.MinioBucket); err != nil {
		logger.WithField("module", "cmd").Warnf("bucket %s unavailable, PDF export will fail: %v", cfg.MinioBucket, err)
	}

	invoiceRepo := repositories.NewInvoiceRepo(pool)
	customerRepo := repositories.NewCustomerRepo(pool)
	userRepo := repositories.NewUserRepo(pool)

	summarySvc := analytics.NewSummaryService(invoiceRepo, customerRepo, cacheSvc, 2*cfg.SummaryRefreshInterval)
	invoiceSvc := services.NewInvoiceService(invoiceRepo, customerRepo, cacheSvc, cfg.ViewCacheTTL)
	pdfSvc := services.NewInvoicePDFService(invoiceRepo, customerRepo, minioSvc, cfg.MinioBucket)
	provider := services.NewCredentialsProvider(userRepo, cacheSvc, services.CredentialsProviderConfig{
		JWTSecret:   cfg.JWTSecret,
		SessionTTL:  cfg.SessionTTL,
		MaxAttempts: cfg.LoginMaxAttempts,
		Window:      cfg.LoginWindow,
	})
	authSvc := services.NewAuthService(provider, cacheSvc)

	scheduler, err := background.NewJobScheduler(summarySvc, cfg.SummaryRefreshInterval, background.NewRedisLocker(redisClient, time.Minute))
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			logger.WithField("module", "cmd").Warnf("scheduler shutdown: %v", err)
		}
	}()

	e := newServer(&app{
		cfg:       cfg,
		cacheSvc:  cacheSvc,
		health:    handlers.NewHealthHandlers(pool, cacheSvc, scheduler),
		auth:      handlers.NewAuthHandlers(authSvc, cfg.JWTSecret, cfg.CookieSecure),
		dashboard: handlers.NewDashboardHandlers(summarySvc),
		invoices:  handlers.NewInvoiceHandlers(invoiceSvc, pdfSvc),
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("module", "cmd").Infof("invoicedash v%s starting on port %s", version, cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.WithField("module", "cmd").Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newServer(a *app) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(requestLogger(config.GetLogger()))

	e.GET("/health", a.health.LivenessCheck)
	e.GET("/health/ready", a.health.ReadinessCheck)
	e.GET("/health/jobs", a.health.JobStatus)

	e.GET(services.LoginPath, a.auth.LoginPage, middleware.GuestOnly(a.cfg.JWTSecret, a.cacheSvc))
	e.POST(services.LoginPath, a.auth.Login)
	e.POST("/logout", a.auth.Logout)

	dashboard := e.Group(services.DashboardPath, middleware.RequireSession(a.cfg.JWTSecret, a.cacheSvc)...)
	dashboard.GET("", a.dashboard.Overview)

	invoices := dashboard.Group("/invoices")
	invoices.GET("", a.invoices.ListInvoices)
	invoices.GET("/create", a.invoices.NewInvoiceForm)
	invoices.POST("", a.invoices.CreateInvoice)
	invoices.GET("/:id/edit", a.invoices.EditInvoiceForm)
	invoices.POST("/:id", a.invoices.UpdateInvoice)
	invoices.PUT("/:id", a.invoices.UpdateInvoice)
	invoices.POST("/:id/delete", a.invoices.DeleteInvoice)
	invoices.DELETE("/:id", a.invoices.DeleteInvoice)
	invoices.POST("/:id/pdf", a.invoices.ExportInvoicePDF)

	return e
}

func requestLogger(logger *logrus.Logger) echo.MiddlewareFunc {
	return echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"module":     "http",
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"request_id": v.RequestID,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request failed")
				return nil
			}
			entry.Info("request")
			return nil
		},
	})
}
