package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/config"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/domain/abdm"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/domain/dataexport"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/domain/futureready"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/domain/insights"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/domain/monetization"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/domain/reports"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/clock"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/db"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/dispatch"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/middleware"
	"github.com/shashank-icloud/ayusetu-mobi-sub002/internal/platform/rest"
)

const version = "0.1.0"

// sweepInterval is how often the developer-mode processors look for due work.
const sweepInterval = 500 * time.Millisecond

func main() {
	rootCmd := &cobra.Command{
		Use:   "ayusetu-server",
		Short: "AyuSetu health-record API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for migrations")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s)\n", count)
			return nil
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	clk := clock.New()
	d := dispatch.Dispatcher{DeveloperMode: cfg.DeveloperMode, LatencyScale: cfg.LatencyScale}

	// Database: optional in developer mode, required otherwise.
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		logger.Info().Msg("connected to database")
	}

	// Outbound clients. Developer mode never dials out, so they stay nil.
	var apiClient, abdmClient *rest.Client
	if !cfg.DeveloperMode {
		apiClient = rest.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)
		abdmClient = rest.NewClient(cfg.ABDMBaseURL, cfg.HTTPTimeout)
	}

	// Repositories
	var (
		exportRepo dataexport.ExportRepository
		shareRepo  dataexport.ShareLinkRepository
		reportRepo reports.ReportRepository
	)
	if pool != nil {
		exportRepo = dataexport.NewExportRepoPG(pool)
		shareRepo = dataexport.NewShareLinkRepoPG(pool)
		reportRepo = reports.NewReportRepoPG(pool)
	} else {
		exportRepo = dataexport.NewMemExportRepo()
		shareRepo = dataexport.NewMemShareLinkRepo()
		reportRepo = reports.NewMemReportRepo()
	}
	subRepo := monetization.NewMemSubscriptionRepo()
	consultRepo := monetization.NewMemConsultationRepo()
	settingsRepo := futureready.NewMemSettingsRepo()
	backupRepo := futureready.NewMemBackupRepo()

	// Services
	exportSvc := dataexport.NewService(d, apiClient, exportRepo, shareRepo, clk, logger)
	reportSvc := reports.NewService(d, apiClient, reportRepo, clk, logger)
	monetizationSvc := monetization.NewService(d, apiClient, subRepo, consultRepo, clk, logger)
	futureSvc := futureready.NewService(d, apiClient, settingsRepo, backupRepo, clk, logger)
	insightSvc := insights.NewService(d, apiClient, logger)
	abdmSvc := abdm.NewService(d, abdmClient, cfg.SessionSecret, clk, logger)

	// Developer-mode background processors
	if cfg.DeveloperMode {
		exportProc := dataexport.NewProcessor(exportRepo, clk, cfg.ExportProcessingDelay, logger)
		exportProc.Start(ctx, sweepInterval)
		defer exportProc.Stop()

		backupProc := futureready.NewProcessor(backupRepo, clk, cfg.ExportProcessingDelay, logger)
		backupProc.Start(ctx, sweepInterval)
		defer backupProc.Stop()
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	}

	// Domain routes
	dataexport.NewHandler(exportSvc).RegisterRoutes(apiV1)
	reports.NewHandler(reportSvc).RegisterRoutes(apiV1)
	monetization.NewHandler(monetizationSvc).RegisterRoutes(apiV1)
	futureready.NewHandler(futureSvc).RegisterRoutes(apiV1)
	insights.NewHandler(insightSvc).RegisterRoutes(apiV1)
	abdm.NewHandler(abdmSvc).RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().
			Str("addr", addr).
			Bool("developer_mode", cfg.DeveloperMode).
			Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
