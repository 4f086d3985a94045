package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medrefer-ai/interaction-engine/internal/config"
	"github.com/medrefer-ai/interaction-engine/internal/domain/alerts"
	"github.com/medrefer-ai/interaction-engine/internal/domain/checker"
	"github.com/medrefer-ai/interaction-engine/internal/domain/knowledge"
	"github.com/medrefer-ai/interaction-engine/internal/domain/medications"
	"github.com/medrefer-ai/interaction-engine/internal/domain/risk"
	"github.com/medrefer-ai/interaction-engine/internal/platform/db"
	"github.com/medrefer-ai/interaction-engine/internal/platform/feed"
	"github.com/medrefer-ai/interaction-engine/internal/platform/metrics"
	"github.com/medrefer-ai/interaction-engine/internal/platform/middleware"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "interactiond",
		Short: "Drug interaction checking engine",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(kbCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the interaction engine API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func kbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Manage the interaction knowledge base",
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load interaction entries from a JSON dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			if file == "" {
				return fmt.Errorf("--file is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
			svc := knowledge.NewService(knowledge.NewRepoPG(pool), knowledge.NewStore(), logger)

			// all-or-nothing: a bad entry halfway through the file must
			// not leave a partially seeded knowledge base
			txCtx, tx, err := db.WithTx(ctx, pool)
			if err != nil {
				return err
			}
			n, err := svc.Seed(txCtx, file)
			if err != nil {
				_ = tx.Rollback(ctx)
				return fmt.Errorf("seed failed: %w", err)
			}
			if err := tx.Commit(ctx); err != nil {
				return fmt.Errorf("commit seed: %w", err)
			}
			fmt.Printf("Inserted %d interaction entries.\n", n)
			return nil
		},
	}
	seedCmd.Flags().String("file", "", "Path to a JSON array of interaction entries")
	cmd.AddCommand(seedCmd)

	reloadCmd := &cobra.Command{
		Use:   "reload",
		Short: "Rebuild a snapshot from the database and report the entry count",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
			svc := knowledge.NewService(knowledge.NewRepoPG(pool), knowledge.NewStore(), logger)
			n, err := svc.Reload(ctx)
			if err != nil {
				return fmt.Errorf("reload failed: %w", err)
			}
			fmt.Printf("Loaded %d active interaction entries.\n", n)
			return nil
		},
	}
	cmd.AddCommand(reloadCmd)

	return cmd
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
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	minSeverity, _ := knowledge.ParseSeverity(cfg.MinAlertSeverity)

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Refuse to serve against a half-migrated schema.
	statuses, err := db.NewMigrator(pool, cfg.MigrationsDir).Status(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to check migration status")
	}
	for _, s := range statuses {
		if !s.Applied {
			logger.Fatal().Int("version", s.Version).Str("name", s.Name).
				Msg("pending migration; run `interactiond migrate up` first")
		}
	}

	// Knowledge base: repository + snapshot store, loaded before serving.
	kbStore := knowledge.NewStore()
	kbSvc := knowledge.NewService(knowledge.NewRepoPG(pool), kbStore, logger)
	if _, err := kbSvc.Reload(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to load knowledge base")
	}

	// Periodic snapshot refresh.
	scheduler := gocron.NewScheduler(time.UTC)
	if _, err := scheduler.Every(cfg.KBRefresh).Do(func() {
		refreshCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
		defer cancel()
		if _, err := kbSvc.Reload(refreshCtx); err != nil {
			logger.Error().Err(err).Msg("periodic knowledge base refresh failed")
		}
	}); err != nil {
		logger.Fatal().Err(err).Msg("failed to schedule knowledge base refresh")
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	// Feed hub for the live alert stream.
	hub := feed.NewHub(logger)

	// Domain services.
	medsSvc := medications.NewService(medications.NewRepoPG(pool))
	alertsSvc := alerts.NewService(alerts.NewRepoPG(pool), hub, alerts.NewLogNotifier(logger), minSeverity, logger)
	checkSvc := checker.NewService(kbSvc, medsSvc, alerts.Sink{Svc: alertsSvc}, logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(metrics.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	e.GET("/health", db.HealthHandler(pool, version))
	e.GET("/metrics", metrics.Handler())
	e.GET("/ws/alerts", feed.Handler(hub))

	apiV1 := e.Group("/api/v1")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	checker.NewHandler(checkSvc).RegisterRoutes(apiV1)
	alerts.NewHandler(alertsSvc).RegisterRoutes(apiV1)
	risk.NewHandler(checkSvc, alertsSvc).RegisterRoutes(apiV1)
	medications.NewHandler(medsSvc).RegisterRoutes(apiV1)

	adminGroup := apiV1.Group("/admin")
	knowledge.NewHandler(kbSvc).RegisterRoutes(adminGroup)

	// Serve with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
