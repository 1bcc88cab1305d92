package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/nonprofit_ledger/internal/chart"
	portsrepo "github.com/SscSPs/nonprofit_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/nonprofit_ledger/internal/core/services"
	"github.com/SscSPs/nonprofit_ledger/internal/handlers"
	"github.com/SscSPs/nonprofit_ledger/internal/middleware"
	"github.com/SscSPs/nonprofit_ledger/internal/platform/config"
	"github.com/SscSPs/nonprofit_ledger/internal/repositories/bolt"
	"github.com/SscSPs/nonprofit_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/nonprofit_ledger/internal/repositories/memory"
	"github.com/SscSPs/nonprofit_ledger/internal/scheduler"
	"github.com/SscSPs/nonprofit_ledger/internal/seed"
	"github.com/SscSPs/nonprofit_ledger/migrations"
	"github.com/SscSPs/nonprofit_ledger/pkg/database"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run starts the server and blocks until it is shut down. Resources opened
// here are released before it returns.
func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := middleware.WithLogger(context.Background(), logger)

	repos, closeStore, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.StorageDriver, err)
	}
	defer closeStore()

	svc := services.NewServiceContainer(repos)

	coa, err := chart.Load(cfg.ChartOfAccountsPath)
	if err != nil {
		return fmt.Errorf("load chart of accounts %q: %w", cfg.ChartOfAccountsPath, err)
	}
	if err := svc.Account.SyncChart(ctx, coa); err != nil {
		return fmt.Errorf("sync chart of accounts: %w", err)
	}

	if cfg.SeedDemoData {
		reqs, err := seed.Generate(coa, seed.Options{Entities: cfg.DemoEntities})
		if err != nil {
			return fmt.Errorf("generate demo data: %w", err)
		}
		n, err := seed.Post(ctx, svc.Journal, reqs, "seed")
		if err != nil {
			return fmt.Errorf("seed demo data after %d entries: %w", n, err)
		}
	}

	if cfg.IntegrityCheckSchedule != "" {
		sched, err := scheduler.New(svc.Reporting, cfg.IntegrityCheckSchedule, logger)
		if err != nil {
			return fmt.Errorf("create scheduler: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), middleware.CORS(cfg.FrontendBaseURL))

	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("set trusted proxies: %w", err)
	}

	if err := handlers.RegisterRoutes(r, cfg, svc); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed to run: %w", err)
	case <-sigChan:
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// openRepositories opens the configured store. The returned func releases it.
func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageBolt:
		store, err := bolt.Open(cfg.BoltPath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("Bolt store opened", slog.String("path", cfg.BoltPath))
		return bolt.NewRepositoryProvider(store), func() {
			if err := store.Close(); err != nil {
				logger.Error("Error closing bolt store", slog.String("error", err.Error()))
			}
		}, nil

	case config.StoragePostgres:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("Database connection pool established.")

		if err := database.RunMigrations(cfg.DatabaseURL, migrations.FS, logger); err != nil {
			dbPool.Close()
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil

	default:
		logger.Warn("Using in-memory storage; data is lost on restart")
		return memory.NewRepositoryProvider(), func() {}, nil
	}
}
