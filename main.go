package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tablepulse-io/tablepulse-engine/pkg/config"
	"github.com/tablepulse-io/tablepulse-engine/pkg/handlers"
	"github.com/tablepulse-io/tablepulse-engine/pkg/logging"
	"github.com/tablepulse-io/tablepulse-engine/pkg/middleware"
	"github.com/tablepulse-io/tablepulse-engine/pkg/profiler"
	"github.com/tablepulse-io/tablepulse-engine/pkg/repositories"
	"github.com/tablepulse-io/tablepulse-engine/pkg/services"

	// sqlite is always compiled in. postgres and mssql register behind
	// build tags; see adapters_postgres.go and adapters_mssql.go.
	_ "github.com/tablepulse-io/tablepulse-engine/pkg/adapters/datasource/sqlite"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	historyRepo := repositories.NewFileHistoryRepository(cfg.History.Dir, logger)
	snapshotRepo := repositories.NewFileSnapshotRepository(cfg.History.Dir, logger)
	profileStore := repositories.NewMemoryProfileStore()

	connections := services.NewConnectionService(logger)
	history := services.NewHistoryService(historyRepo, logger)
	engine := profiler.New(profiler.Config{
		FreshnessColumns: cfg.Profile.FreshnessColumns,
		QueryTimeout:     cfg.Profile.QueryTimeout(),
		MaxConcurrency:   cfg.Profile.MaxColumnConcurrency,
	}, logger)
	profiles := services.NewProfileService(connections, engine, profileStore, history, cfg.Profile.MaxTableConcurrency, logger)
	changes := services.NewChangeService(connections, snapshotRepo, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewConnectionsHandler(connections, logger).RegisterRoutes(mux)
	handlers.NewProfileHandler(profiles, logger).RegisterRoutes(mux)
	handlers.NewAlertsHandler(history, logger).RegisterRoutes(mux)
	handlers.NewChangesHandler(changes, logger).RegisterRoutes(mux)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("starting tablepulse-engine",
		zap.String("addr", server.Addr),
		zap.String("version", cfg.Version),
		zap.String("env", cfg.Env),
		zap.String("history_dir", cfg.History.Dir))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server failed", zap.Error(err))
	}

	// Drain adapter pools once no request can reach them.
	connections.Close()
	logger.Info("stopped")
}
