package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"

	"github.com/GokhanYmn/NakitAkisGrafana/internal/clients/evds"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/core/services"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/handlers"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/importer"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/middleware"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/platform/config"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/repositories/database/pgsql"
	"github.com/GokhanYmn/NakitAkisGrafana/internal/scheduler"
	"github.com/GokhanYmn/NakitAkisGrafana/migrations"
	"github.com/GokhanYmn/NakitAkisGrafana/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	importFile := flag.String("import", "", "bulk-load an EVDS workbook into the rate series and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// A dead database is the one fatal condition: nothing can run without it.
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	source := evds.NewClient(cfg.EVDSBaseURL, cfg.EVDSAPIKey, cfg.EVDSTimeout, logger)
	container := services.NewServiceContainer(cfg, repos, source, logger)

	if *importFile != "" {
		writer := services.NewSeriesWriter(repos.RateSeriesRepo, logger)
		imp := importer.NewExcelImporter(writer, cfg.CarryForwardDays, logger)
		result, err := imp.ImportFile(context.Background(), *importFile)
		if err != nil {
			logger.Error("Import failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Import finished",
			slog.Int("imported", result.Imported),
			slog.Int("gaps_filled", result.GapsFilled),
			slog.Int("skipped", result.Skipped),
			slog.Int("write_errors", result.WriteErrors),
		)
		return
	}

	if cfg.SchedulerEnabled {
		sched, err := scheduler.New(cfg, container, logger)
		if err != nil {
			logger.Error("Failed to build scheduler", slog.String("error", err.Error()))
			os.Exit(1)
		}
		sched.Start()
		defer sched.Stop()
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	// Grafana calls from the browser; allow it.
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies the embedded schema migrations over a temporary
// database/sql connection, pgx stdlib driver for compatibility with the pool.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	logger.Info("Database migrations applied.")
	return nil
}
