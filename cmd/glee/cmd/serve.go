package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Togather-Foundation/glee/internal/app"
	"github.com/Togather-Foundation/glee/internal/config"
	"github.com/Togather-Foundation/glee/internal/metrics"
	"github.com/Togather-Foundation/glee/internal/seed"
	"github.com/Togather-Foundation/glee/internal/telemetry"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	host string
	port int
}

func newServeCommand(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server and begin accepting API requests.

The server will:
- Load configuration from environment variables (and a .env file if present)
- Open the configured storage backend (postgres, sqlite or firestore)
- Start background job workers when running on postgres
- Handle graceful shutdown on SIGINT/SIGTERM

Examples:
  # Start with default configuration (from env vars)
  glee serve

  # Start on a specific host and port
  glee serve --host 127.0.0.1 --port 9090

  # Start with debug logging against a local sqlite file
  STORAGE_BACKEND=sqlite glee serve --log-level debug --log-format console`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if opts.host != "" {
				cfg.Server.Host = opts.host
			}
			if opts.port != 0 {
				cfg.Server.Port = opts.port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&opts.host, "host", "", "server host address (default: 0.0.0.0)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "server port (default: 8080)")
	return cmd
}

func runServer(ctx context.Context, cfg config.Config) error {
	logger := config.NewLogger(cfg.Logging)
	logger.Info().Str("backend", cfg.Storage.Backend).Msg("starting glee")

	metrics.Init(Version, GitCommit, BuildDate, cfg.Storage.Backend)

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing, Version)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(stopCtx); err != nil {
			logger.Error().Err(err).Msg("tracing shutdown error")
		}
	}()

	openCtx, openCancel := context.WithTimeout(ctx, 30*time.Second)
	a, err := app.New(openCtx, cfg, logger, config.NewSlogLogger(cfg.Logging), buildInfo())
	openCancel()
	if err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.Close(stopCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
		}
	}()

	if cfg.SeedOnStart {
		doc, err := seed.Default()
		if err != nil {
			return err
		}
		if _, err := a.Seed(ctx, doc); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	if a.Backend.Pool != nil {
		dbCollector := metrics.NewDBCollector(a.Backend.Pool)
		go dbCollector.Start(ctx, 15*time.Second)
		defer dbCollector.Stop()
		logger.Info().Msg("database metrics collector started")
	}

	if err := a.StartJobs(ctx); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           a.Handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second, // SMS dispatch runs inline
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	return gracefulShutdown(server, logger)
}

func gracefulShutdown(server *http.Server, logger zerolog.Logger) error {
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}
