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

	"github.com/ehr/riskdash/internal/config"
	"github.com/ehr/riskdash/internal/domain/admin"
	"github.com/ehr/riskdash/internal/domain/cohort"
	"github.com/ehr/riskdash/internal/domain/dashboard"
	"github.com/ehr/riskdash/internal/domain/patient"
	"github.com/ehr/riskdash/internal/domain/table"
	"github.com/ehr/riskdash/internal/platform/auth"
	"github.com/ehr/riskdash/internal/platform/db"
	"github.com/ehr/riskdash/internal/platform/metrics"
	"github.com/ehr/riskdash/internal/platform/middleware"
	"github.com/ehr/riskdash/migrations"
)

const version = "0.1.0"

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger.Level(cfg.Level())
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()

	var pool *pgxpool.Pool
	if cfg.HasDatabase() {
		pool, err = db.NewPool(ctx, db.PoolConfig{
			URL:      cfg.DatabaseURL,
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		logger.Info().Msg("connected to database")

		n, err := db.NewMigrator(pool, migrations.FS).Up(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to apply migrations")
		}
		if n > 0 {
			logger.Info().Int("count", n).Msg("applied migrations")
		}
	} else {
		logger.Warn().Msg("DATABASE_URL not set, snapshots and staff users are kept in memory")
	}

	srv, err := newServer(ctx, cfg, logger, pool, metrics.New())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build server")
	}

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := srv.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.echo.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

type server struct {
	echo     *echo.Echo
	patients *patient.Service
}

// newServer wires storage, domain services and routes. A nil pool selects
// the in-memory repositories. The first cohort is generated before return.
func newServer(ctx context.Context, cfg *config.Config, logger zerolog.Logger, pool *pgxpool.Pool, m *metrics.Metrics) (*server, error) {
	var (
		snapshots patient.SnapshotRepository
		users     admin.UserRepository
	)
	if pool != nil {
		snapshots = patient.NewSnapshotRepo(pool)
		users = admin.NewUserRepo(pool)
	} else {
		snapshots = patient.NewMemorySnapshotRepo(cfg.SnapshotRetention)
		users = admin.NewMemoryUserRepo()
	}

	patientSvc := patient.NewService(snapshots, cfg.CohortSize, logger)
	patientSvc.OnGenerate(func(s *patient.Snapshot) {
		st := cohort.Aggregate(s.Patients, s.GeneratedAt)
		m.ObserveCohort(metrics.CohortSummary{
			High:             st.HighRisk,
			Medium:           st.MediumRisk,
			Low:              st.LowRisk,
			Critical:         st.CriticalPatients,
			AverageRiskScore: st.AverageRiskScore,
			GeneratedAt:      s.GeneratedAt,
		})
	})
	if _, err := patientSvc.Regenerate(ctx, cfg.CohortSeed); err != nil {
		return nil, fmt.Errorf("generate initial cohort: %w", err)
	}

	views, err := table.NewController(cfg.TableCacheSize)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.SecurityHeaders(!cfg.IsDev()))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
	}))
	e.Use(m.Middleware())
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	e.Use(middleware.BodyLimit("1M"))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	}
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	apiV1 := e.Group("/api/v1")

	// Auth middleware
	if cfg.IsDev() && cfg.AuthSigningKey == "" {
		apiV1.Use(auth.DevAuthMiddleware())
	} else {
		apiV1.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			SigningKey: []byte(cfg.AuthSigningKey),
			Skipper:    auth.AuthSkipper,
		}))
	}
	apiV1.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))

	dashHandler := dashboard.NewHandler(patientSvc, views, cfg.LoadDelay)
	dashHandler.OnCancel(m.LoadCancelled)
	dashHandler.RegisterRoutes(apiV1)

	adminSvc := admin.NewService(users, patientSvc)
	admin.NewHandler(adminSvc).RegisterRoutes(apiV1)

	return &server{echo: e, patients: patientSvc}, nil
}
