package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vinyl-crate/internal/config"
	"vinyl-crate/internal/media"
	"vinyl-crate/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting vinyl-crate media server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the disk store, with S3 in front when enabled
	diskStore, err := media.NewDiskStore(cfg.Media.Dir, cfg.Media.BaseURL, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize media directory: %w", err)
	}

	var s3Store media.Store
	if cfg.Media.S3Enabled {
		s3Store, err = media.NewS3Store(ctx, cfg.Media.S3Bucket, cfg.Media.S3Region, cfg.Media.S3Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 store, falling back to local disk only")
			s3Store = nil
		}
	} else {
		logger.Info().Msg("using local disk for uploads (S3 disabled)")
	}

	store := media.NewFallbackStore(s3Store, diskStore, cfg.Media.S3Enabled, logger)
	mediaHandler := media.NewHandler(store, logger)

	// Routes: uploads plus static serving of stored files
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})
	r.Post("/upload", mediaHandler.Upload)
	r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(cfg.Media.Dir))))

	server := &http.Server{
		Addr:         cfg.Media.Address(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Media.Address()).
			Str("dir", cfg.Media.Dir).
			Msg("media server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
