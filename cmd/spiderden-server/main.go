package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg := loadServerConfig()
	logger := NewLogger(cfg.LogLevel)

	tuning, err := loadTuning(cfg.TuningFile)
	if err != nil {
		logger.Fatalf("Failed to load tuning: %v", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	srv := NewServer(cfg, tuning, rng, logger)

	// Restore the world from the last snapshot if one exists.
	if cfg.SnapshotPath != "" {
		if err := srv.world.LoadSnapshot(cfg.SnapshotPath); err != nil {
			if os.IsNotExist(errors.Unwrap(err)) || os.IsNotExist(err) {
				logger.Infof("No snapshot found at %s, starting fresh", cfg.SnapshotPath)
			} else {
				logger.Fatalf("Failed to restore snapshot: path=%s error=%v", cfg.SnapshotPath, err)
			}
		} else {
			logger.Infof("World restored from snapshot: path=%s", cfg.SnapshotPath)
		}
	}

	srv.sweeper.Run()

	mux := http.NewServeMux()
	srv.Routes(mux)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}

	go func() {
		logger.Infof("spiderden-server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Infof("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Errorf("HTTP shutdown failed: %v", err)
	}

	// Final snapshot so a restart picks up where we left off.
	if cfg.SnapshotPath != "" {
		if err := srv.world.SaveSnapshot(cfg.SnapshotPath); err != nil {
			logger.Errorf("Final snapshot failed: path=%s error=%v", cfg.SnapshotPath, err)
		}
	}
	srv.Close()
	logger.Infof("Shutdown complete")
}
