package main

import (
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/pthm/inertia"
	"github.com/pthm/inertia/internal/config"
	"github.com/pthm/inertia/internal/demo"
)

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadOptional(".")
	}
	return config.Load(path)
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// buildApp wires the demo application from configuration. registry
// receives the page metrics when they are enabled.
func buildApp(cfg *config.Config, logger *slog.Logger, registry prometheus.Registerer) *demo.App {
	opts := []inertia.Option{
		inertia.WithLogger(logger),
	}

	switch {
	case cfg.Manifest != "":
		opts = append(opts, inertia.WithVersion(inertia.VersionFromFile(cfg.Manifest)))
	case cfg.Version != "":
		opts = append(opts, inertia.WithVersion(cfg.Version))
	}

	if cfg.Metrics.Enabled {
		opts = append(opts, inertia.WithMetrics(inertia.NewMetrics(
			inertia.WithNamespace(cfg.Metrics.Namespace),
			inertia.WithRegistry(registry),
		)))
	}

	return demo.New(demo.SeedStore(), demo.Options{
		RootView:       cfg.RootView,
		Title:          cfg.Title,
		Entry:          cfg.Entry,
		FactoryOptions: opts,
	})
}
