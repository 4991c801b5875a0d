package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func serveCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo application",
		Long: `Run the demo user directory over HTTP.

Examples:
  inertia serve
  inertia serve --addr=:3000
  inertia serve --config=deploy/inertia.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			logger := newLogger(cfg)
			registry := prometheus.NewRegistry()
			app := buildApp(cfg, logger, registry)

			mux := http.NewServeMux()
			if cfg.Metrics.Enabled {
				mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			}
			mux.Handle("/", app)

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()

			success(cmd.OutOrStdout(), "Listening on %s", cfg.Addr)
			if cfg.Metrics.Enabled {
				info(cmd.OutOrStdout(), "Metrics at %s", cfg.Metrics.Path)
			}
			logger.Info("server started", "addr", cfg.Addr, "version", app.Factory.Version())

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from inertia.yaml, then :8080)")

	return cmd
}
