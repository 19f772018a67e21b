// Package main is the entry point for the ambar API server.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ambar/internal/config"
	v1 "ambar/internal/infrastructure/http/v1"
	"ambar/internal/infrastructure/remote/gist"
	"ambar/internal/infrastructure/storage/file"
	"ambar/internal/infrastructure/storage/memory"
	"ambar/internal/infrastructure/storage/postgres"
	"ambar/internal/infrastructure/storage/redis"
	"ambar/internal/store"
	"ambar/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Infow("starting ambar server", "backend", cfg.Storage.Backend)

	// --- Snapshot backend ---
	snapshots, err := openSnapshots(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open snapshot backend", "error", err)
	}
	defer closeSnapshots(snapshots, log)

	// --- Record store ---
	st, err := store.Open(ctx, snapshots)
	if err != nil {
		log.Fatalw("failed to open store", "error", err)
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Store:       st,
		Snapshots:   snapshots,
		Gist:        gist.NewClient(cfg.Remote.BaseURL),
		RemoteToken: cfg.Remote.Token,
		Logger:      log,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// openSnapshots builds the snapshot backend selected by configuration.
func openSnapshots(ctx context.Context, cfg config.Config) (store.SnapshotStore, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return memory.New(), nil
	case "file":
		return file.New(cfg.Storage.File.Path)
	case "redis":
		return redis.New(ctx, cfg.Storage.Redis.Addr)
	case "postgres":
		return postgres.New(ctx, cfg.Storage.Postgres.DSN)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// closeSnapshots releases backend connections when the backend holds any.
func closeSnapshots(snapshots store.SnapshotStore, log *logger.Logger) {
	if closer, ok := snapshots.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Warnw("failed to close snapshot backend", "error", err)
		}
	}
}
