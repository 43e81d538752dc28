package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/lead-budget/internal/config"
	"github.com/iwvelando/lead-budget/internal/server"
	"github.com/iwvelando/lead-budget/pkg/constants"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	serverConfigLocation string
	serverAddress        string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculator HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := server.LoadConfig(serverConfigLocation)
		if err != nil {
			return err
		}
		if serverAddress != "" {
			cfg.Address = serverAddress
		}

		serverLogger := logger
		if cfg.Logging != (config.LoggingConfig{}) {
			serverLogger, err = config.NewLogger(cfg.Logging, logLevel)
			if err != nil {
				return eris.Wrap(err, "failed to initialize server logger")
			}
			defer func() {
				_ = serverLogger.Sync()
			}()
		}

		return serve(ctx, serverLogger, cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverConfigLocation, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	serveCmd.Flags().StringVar(&serverAddress, "address", "", "listen address override, e.g. :8080")
}

// serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests within the configured shutdown timeout.
func serve(ctx context.Context, logger *zap.Logger, cfg *server.Config) error {
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           server.NewHandler(logger, cfg, version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening",
			zap.String("op", "main.serve"),
			zap.String("address", cfg.Address),
			zap.Int64("maxUploadSize", cfg.UploadSizeBytes()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server: listen")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeoutDuration())
		defer cancel()

		logger.Info("shutting down server",
			zap.String("op", "main.serve"),
		)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "server: shutdown")
		}
		return nil
	})
	return g.Wait()
}
