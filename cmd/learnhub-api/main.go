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

	"github.com/ShadyM97/LearnHub-Backend/app"
	"github.com/ShadyM97/LearnHub-Backend/config"
	"github.com/ShadyM97/LearnHub-Backend/internal/observability"
	"github.com/ShadyM97/LearnHub-Backend/routes"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "learnhub-api: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.New(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting learnhub api",
		zap.String("environment", cfg.Environment),
		zap.String("database", cfg.Database.LogString()),
		zap.String("jwks_url", cfg.Supabase.JWKSURL()))

	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize dependencies", zap.Error(err))
		return err
	}

	srv := newServer(cfg, routes.SetupRoutes(deps))
	return serve(ctx, srv, deps, cfg.Server.ShutdownTimeout, logger)
}

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	return observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
}

func newServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

// serve runs srv until ctx is cancelled, then drains in-flight requests
// and releases deps
func serve(ctx context.Context, srv *http.Server, deps *app.Dependencies, shutdownTimeout time.Duration, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
		if serveErr != nil {
			logger.Error("server error", zap.Error(serveErr))
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
		serveErr = errors.Join(serveErr, err)
	}
	if err := deps.Close(shutdownCtx); err != nil {
		logger.Error("dependency shutdown failed", zap.Error(err))
		serveErr = errors.Join(serveErr, err)
	}

	logger.Info("server stopped")
	return serveErr
}
