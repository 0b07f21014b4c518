package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"digame/internal/app/bin"
	"digame/internal/app/db"
	"digame/internal/app/storage"
	"digame/internal/configs"
	"digame/internal/handler"
	"digame/internal/pkg/logx"
	"digame/internal/pkg/pow"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host a document store compatible with the chat client",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	logx.InitGlobalLogger(cfg.IsDevelopment(), nil)
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("bin_backend", cfg.BinBackend).
		Int64("max_document_bytes", cfg.MaxDocumentBytes).
		Int("pow_difficulty", cfg.PowDifficulty).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openBinRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	deps := &handler.AppDeps{
		Config: cfg,
		Bins:   bin.NewService(repo),
	}
	if cfg.PowDifficulty > 0 {
		deps.PoW = pow.NewManager(ctx, cfg.PowDifficulty)
	}

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler.Router(ctx, deps),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logx.Info(fmt.Sprintf("digame bin store starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logx.Info("Received shutdown signal. Starting graceful shutdown...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logx.Error(err, "Server stopped with error")
		return err
	}

	logx.Info("Server gracefully stopped.")
	return nil
}

// openBinRepository builds the configured bin backend and returns its release function.
func openBinRepository(ctx context.Context, cfg *configs.AppConfig) (bin.Repository, func(), error) {
	switch cfg.BinBackend {
	case configs.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		logx.Info("Bins stored in PostgreSQL.")
		return db.NewBinRepository(pool), pool.Close, nil

	case configs.BackendS3:
		repo, err := storage.NewBinRepository(ctx, storage.ServiceConfig{
			S3BucketName:      cfg.S3BucketName,
			S3Endpoint:        cfg.S3Endpoint,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, nil, err
		}
		logx.Info("Bins stored in S3.", "bucket", cfg.S3BucketName)
		return repo, func() {}, nil

	default:
		logx.Warn("Bins stored in memory; they are lost on restart.")
		return bin.NewMemoryRepository(), func() {}, nil
	}
}
