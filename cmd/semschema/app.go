package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/semschema/config"
	"github.com/c360studio/semschema/schema"
	"github.com/c360studio/semschema/source"
	"github.com/c360studio/semschema/validator"
)

// app wires configuration, loading and metrics for one CLI invocation.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	loader   *source.Loader
	provider source.BaseProvider
	closer   io.Closer
	registry *prometheus.Registry
	metrics  *validator.Metrics
}

func newApp(ctx context.Context, flags globalFlags) (*app, error) {
	bootstrap := slog.New(slog.NewTextHandler(os.Stderr, nil))
	loader := config.NewLoader(bootstrap)

	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = loader.LoadFile(flags.configPath)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if len(flags.base) > 0 {
		cfg.Base.Names = flags.base
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	docs := source.NewLoader(cfg.LoaderOptions(logger)...)
	provider, err := source.NewRemoteProvider(ctx, cfg.ProviderConfig(), docs, logger)
	if err != nil {
		return nil, fmt.Errorf("create base provider: %w", err)
	}
	return newAppWith(cfg, logger, docs, provider), nil
}

func newAppWith(cfg *config.Config, logger *slog.Logger, loader *source.Loader, provider source.BaseProvider) *app {
	registry := prometheus.NewRegistry()
	a := &app{
		cfg:      cfg,
		logger:   logger,
		loader:   loader,
		provider: provider,
		registry: registry,
		metrics:  validator.NewMetrics(registry),
	}
	if c, ok := provider.(io.Closer); ok {
		a.closer = c
	}
	return a
}

// Close releases the base provider.
func (a *app) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func (a *app) schemaOptions(extra ...validator.Option) []schema.Option {
	vopts := append(a.cfg.ValidatorOptions(), validator.WithMetrics(a.metrics))
	vopts = append(vopts, extra...)
	opts := []schema.Option{
		schema.WithLoader(a.loader),
		schema.WithBaseProvider(a.provider),
		schema.WithLogger(a.logger),
		schema.WithValidatorOptions(vopts...),
	}
	if len(a.cfg.Base.Names) > 0 {
		opts = append(opts, schema.WithBase(a.cfg.Base.Names...))
	}
	return opts
}

// open loads one document with the configured validation mode.
func (a *app) open(ctx context.Context, src string) (*schema.Schema, error) {
	return schema.New(ctx, src, a.schemaOptions()...)
}

// writeMetrics writes the validator metrics in the node exporter textfile
// format.
func (a *app) writeMetrics(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, a.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// watch validates paths once, then again after every change until ctx is
// done.
func (a *app) watch(ctx context.Context, paths []string, out io.Writer) error {
	files, err := source.ExpandGlobs(paths)
	if err != nil {
		return err
	}
	w, err := source.NewWatcher(files, a.cfg.Source.Debounce, a.logger)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	report := func(files []string) error {
		r, err := a.validate(ctx, files)
		if err != nil {
			return err
		}
		return writeJSON(out, r)
	}
	if err := report(files); err != nil {
		return err
	}
	a.logger.Info("Watching vocabulary files", slog.Int("files", len(files)))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events():
			if !ok {
				return nil
			}
			a.logger.Info("Vocabulary file changed",
				slog.String("path", event.Path),
				slog.String("operation", string(event.Operation)))
			if event.Operation == source.WatchOpDelete {
				continue
			}
			if err := report([]string{event.Path}); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("Revalidation failed",
					slog.String("path", event.Path),
					slog.String("error", err.Error()))
			}
		}
	}
}
