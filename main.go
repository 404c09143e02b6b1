package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/francisco-sereno/synapsis-bolt-sub001/adapters/postgres"
	"github.com/francisco-sereno/synapsis-bolt-sub001/app"
	"github.com/francisco-sereno/synapsis-bolt-sub001/internal"
	"github.com/francisco-sereno/synapsis-bolt-sub001/internal/admin"
	"github.com/francisco-sereno/synapsis-bolt-sub001/internal/api"
	"github.com/francisco-sereno/synapsis-bolt-sub001/internal/config"
	"github.com/francisco-sereno/synapsis-bolt-sub001/internal/errors"
	"github.com/francisco-sereno/synapsis-bolt-sub001/internal/migration"
	"github.com/francisco-sereno/synapsis-bolt-sub001/ports"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase opens the PostgreSQL pool and brings the schema up to date
func initDatabase(ctx context.Context, appConfig *config.Config, logger *internal.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	db.SetMaxOpenConns(appConfig.Database.MaxOpenConns)
	db.SetMaxIdleConns(appConfig.Database.MaxIdleConns)
	db.SetConnMaxLifetime(appConfig.Database.ConnMaxLifetime)

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "database migration failed")
	}
	logger.Info("Database ready (schema %s)", migrator.Version())
	return db, nil
}

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel)).With("Main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo ports.AnalysisRepository
	checks := map[string]admin.ReadinessCheck{}
	if appConfig.Database.Enabled() {
		db, err := initDatabase(ctx, appConfig, logger)
		if err != nil {
			logger.Error("%v", err)
			os.Exit(1)
		}
		defer db.Close()
		repo = postgres.NewAnalysisRepository(db)
		checks["postgres"] = db.PingContext
	} else {
		logger.Warn("DATABASE_URL not set; analyses will be computed but not stored")
	}

	service := app.NewAnalysisService(repo,
		app.WithBatchLimits(appConfig.Batch.Concurrency, appConfig.Batch.MaxRequests),
		app.WithLogger(logger),
	)

	server := api.NewServer(service, logger, appConfig.Server.GinMode)
	errs := make(chan error, 2)
	go func() {
		if err := server.Start(":" + appConfig.Server.Port); err != nil {
			errs <- err
		}
	}()

	var adminApp *admin.App
	if appConfig.Admin.Enabled {
		adminApp = admin.NewApp(admin.Config{Port: appConfig.Admin.Port, Checks: checks}, logger)
		go func() {
			if err := adminApp.Start(); err != nil {
				errs <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errs:
		logger.Error("Server failed: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("API shutdown: %v", err)
	}
	if adminApp != nil {
		if err := adminApp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Admin shutdown: %v", err)
		}
	}
	logger.Info("Stopped")
}
