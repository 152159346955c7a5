package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/wegsoft/weg_abrechnung_app/internal/core/domain"
	portssvc "github.com/wegsoft/weg_abrechnung_app/internal/core/ports/services"
	"github.com/wegsoft/weg_abrechnung_app/internal/core/services"
	"github.com/wegsoft/weg_abrechnung_app/internal/handlers"
	"github.com/wegsoft/weg_abrechnung_app/internal/middleware"
	"github.com/wegsoft/weg_abrechnung_app/internal/renderer"
	"github.com/wegsoft/weg_abrechnung_app/internal/repositories/database/pgsql"
	"github.com/wegsoft/weg_abrechnung_app/pkg/config"
	"github.com/wegsoft/weg_abrechnung_app/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())
	r.Use(middleware.RateLimit(newIPLimiter(cfg, logger)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	serviceContainer := buildServices(dbPool, cfg, logger)
	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildServices wires repositories, renderers and services into the container
// the route registration consumes.
func buildServices(dbPool *pgxpool.Pool, cfg *config.Config, logger *slog.Logger) *portssvc.ServiceContainer {
	repos := pgsql.NewRepositoryProvider(dbPool)

	renderers := map[domain.StatementFormat]portssvc.StatementRenderer{
		domain.FormatText: renderer.NewTextRenderer(cfg.StatementFooterText),
		domain.FormatPDF:  renderer.NewPDFRenderer(cfg.StatementFooterText),
		domain.FormatXLSX: renderer.NewXLSXRenderer(),
	}

	var statementOptions []services.StatementServiceOption
	if cfg.ProjectionPlannedCosts != "" {
		plannedCosts, err := decimal.NewFromString(cfg.ProjectionPlannedCosts)
		if err != nil {
			logger.Warn("Invalid PROJECTION_PLANNED_COSTS, budget projection disabled",
				slog.String("value", cfg.ProjectionPlannedCosts))
		} else {
			monthlyAdvance := decimal.Zero
			if cfg.ProjectionMonthlyAdvance != "" {
				monthlyAdvance, err = decimal.NewFromString(cfg.ProjectionMonthlyAdvance)
				if err != nil {
					logger.Warn("Invalid PROJECTION_MONTHLY_ADVANCE, defaulting to zero",
						slog.String("value", cfg.ProjectionMonthlyAdvance))
					monthlyAdvance = decimal.Zero
				}
			}
			statementOptions = append(statementOptions,
				services.WithBudgetProjection(plannedCosts, monthlyAdvance, cfg.ProjectionNote))
		}
	}

	return services.NewContainer(&repos, renderers, cfg.TaxDeductibleAccounts, statementOptions...)
}

// newIPLimiter builds the per-IP rate limiter from configuration.
func newIPLimiter(cfg *config.Config, logger *slog.Logger) *limiter.Limiter {
	period, err := time.ParseDuration(cfg.RateLimitPeriod)
	if err != nil {
		period = time.Minute
		logger.Warn("Invalid RATE_LIMIT_PERIOD, defaulting to 1m",
			slog.String("value", cfg.RateLimitPeriod))
	}
	rate := limiter.Rate{Period: period, Limit: cfg.RateLimitCount}
	return limiter.New(memory.NewStore(), rate)
}

// runMigrations applies all pending up migrations through a temporary
// database/sql connection on the pgx stdlib driver.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
