package app

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/seedsync/internal/config"
	"github.com/stacklok/seedsync/internal/db"
	"github.com/stacklok/seedsync/internal/httpclient"
	"github.com/stacklok/seedsync/internal/identity"
	"github.com/stacklok/seedsync/internal/seeding"
	"github.com/stacklok/seedsync/internal/sources"
	"github.com/stacklok/seedsync/internal/storage"
	dbstore "github.com/stacklok/seedsync/internal/storage/db"
	"github.com/stacklok/seedsync/internal/storage/inmemory"
	pkgsync "github.com/stacklok/seedsync/internal/sync"
	"github.com/stacklok/seedsync/internal/sync/coordinator"
	"github.com/stacklok/seedsync/internal/sync/state"
	"github.com/stacklok/seedsync/internal/telemetry"
)

// SeedSyncAppOptions is a function that configures the seedsync app builder
type SeedSyncAppOptions func(*seedSyncAppConfig) error

// seedSyncAppConfig collects the builder inputs.
// It supports dependency injection for testing while providing sensible defaults for production
type seedSyncAppConfig struct {
	config *config.Config

	// Optional component overrides (primarily for testing)
	store        storage.Store
	stateService state.EventStateService
	source       sources.EntrantSource
	sleeper      sources.Sleeper

	// Telemetry components
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

func baseConfig(opts ...SeedSyncAppOptions) (*seedSyncAppConfig, error) {
	cfg := &seedSyncAppConfig{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	return cfg, nil
}

// NewSeedSyncApp builds a SeedSyncApp from the configuration and the injected components
func NewSeedSyncApp(ctx context.Context, opts ...SeedSyncAppOptions) (*SeedSyncApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	app := &SeedSyncApp{
		config:     cfg.config,
		components: &AppComponents{},
	}

	// Ensure cleanup happens on error
	cleanupNeeded := true
	defer func() {
		if cleanupNeeded {
			_ = app.Close(context.WithoutCancel(ctx))
		}
	}()

	if err := buildTelemetry(ctx, cfg, app); err != nil {
		return nil, fmt.Errorf("failed to build telemetry: %w", err)
	}

	if err := buildStorageComponents(ctx, cfg, app); err != nil {
		return nil, fmt.Errorf("failed to build storage components: %w", err)
	}

	syncCoordinator, err := buildSyncComponents(cfg, app.components)
	if err != nil {
		return nil, fmt.Errorf("failed to build sync components: %w", err)
	}
	app.components.Coordinator = syncCoordinator

	cleanupNeeded = false
	return app, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) SeedSyncAppOptions {
	return func(cfg *seedSyncAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithStore allows injecting a custom store (for testing)
func WithStore(s storage.Store) SeedSyncAppOptions {
	return func(cfg *seedSyncAppConfig) error {
		if s == nil {
			return fmt.Errorf("store cannot be nil")
		}
		cfg.store = s
		return nil
	}
}

// WithStateService allows injecting a custom state service (for testing)
func WithStateService(svc state.EventStateService) SeedSyncAppOptions {
	return func(cfg *seedSyncAppConfig) error {
		cfg.stateService = svc
		return nil
	}
}

// WithEntrantSource allows injecting a custom entrant source in place of the platform API
func WithEntrantSource(src sources.EntrantSource) SeedSyncAppOptions {
	return func(cfg *seedSyncAppConfig) error {
		cfg.source = src
		return nil
	}
}

// WithSleeper overrides how the page fetcher waits out rate limits (for testing)
func WithSleeper(s sources.Sleeper) SeedSyncAppOptions {
	return func(cfg *seedSyncAppConfig) error {
		cfg.sleeper = s
		return nil
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider instead of building one from config
func WithTracerProvider(tp trace.TracerProvider) SeedSyncAppOptions {
	return func(cfg *seedSyncAppConfig) error {
		cfg.tracerProvider = tp
		return nil
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider instead of building one from config
func WithMeterProvider(mp metric.MeterProvider) SeedSyncAppOptions {
	return func(cfg *seedSyncAppConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// buildTelemetry creates the providers that were not injected
func buildTelemetry(ctx context.Context, b *seedSyncAppConfig, app *SeedSyncApp) error {
	if b.tracerProvider != nil && b.meterProvider != nil {
		return nil
	}

	tel, err := telemetry.New(ctx, b.config.Telemetry)
	if err != nil {
		return err
	}
	app.cleanups = append(app.cleanups, tel.Shutdown)

	if b.tracerProvider == nil {
		b.tracerProvider = tel.TracerProvider()
	}
	if b.meterProvider == nil {
		b.meterProvider = tel.MeterProvider()
	}
	return nil
}

// buildStorageComponents picks the store and the state service.
// A configured database backs both; otherwise the store is in memory and the
// status lives in the status directory when one is set.
func buildStorageComponents(ctx context.Context, b *seedSyncAppConfig, app *SeedSyncApp) error {
	c := app.components

	if b.store == nil && b.config.Database != nil {
		pool, err := db.NewPool(ctx, b.config.Database)
		if err != nil {
			return err
		}
		app.cleanups = append(app.cleanups, func(context.Context) error {
			pool.Close()
			return nil
		})
		c.Pool = pool

		b.store, err = dbstore.New(
			dbstore.WithConnectionPool(pool),
			dbstore.WithTracer(b.tracerProvider.Tracer(dbstore.StoreTracerName)),
		)
		if err != nil {
			return fmt.Errorf("failed to create database store: %w", err)
		}
		slog.Info("Using PostgreSQL store")
	}

	if b.store == nil {
		slog.Warn("No database configured, seed assignments are kept in memory for this run only")
		b.store = inmemory.New()
	}
	c.Store = b.store

	if b.stateService == nil {
		svc, err := state.NewStateService(ctx, c.Pool, b.config.GetStatusDir())
		if err != nil {
			return fmt.Errorf("failed to create state service: %w", err)
		}
		b.stateService = svc
	}
	c.StateService = b.stateService

	return nil
}

// buildSyncComponents builds the fetcher, resolvers, sync manager and coordinator
func buildSyncComponents(b *seedSyncAppConfig, c *AppComponents) (coordinator.Coordinator, error) {
	slog.Info("Initializing sync components")

	platform := &b.config.Platform

	syncMetrics, err := telemetry.NewSyncMetrics(b.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync metrics: %w", err)
	}

	if b.source == nil {
		token, err := platform.GetToken()
		if err != nil {
			return nil, err
		}
		b.source = sources.NewGraphQLSource(
			httpclient.NewDefaultClient(platform.GetTimeout()),
			platform.GetEndpoint(),
			token,
		)
	}

	fetcherOpts := []sources.FetcherOption{
		sources.WithPerPage(platform.GetPerPage()),
		sources.WithMaxAttempts(platform.GetMaxAttempts()),
		sources.WithDefaultRetryAfter(platform.GetDefaultRetryAfter()),
		sources.WithFetchMetrics(syncMetrics),
	}
	if b.sleeper != nil {
		fetcherOpts = append(fetcherOpts, sources.WithSleeper(b.sleeper))
	}
	fetcher := sources.NewPageFetcher(b.source, fetcherOpts...)

	manager := pkgsync.NewDefaultSyncManager(
		c.Store,
		fetcher,
		seeding.NewResolver(seeding.NewScorer(c.Store)),
		identity.NewResolver(c.Store),
		pkgsync.WithStateService(c.StateService),
		pkgsync.WithTracer(b.tracerProvider.Tracer(pkgsync.SyncTracerName)),
	)

	var coordOpts []coordinator.Option
	if syncMetrics != nil {
		coordOpts = append(coordOpts, coordinator.WithSyncMetrics(syncMetrics))
		slog.Info("Sync metrics enabled")
	}

	syncCoordinator := coordinator.New(manager, c.StateService, b.config, coordOpts...)
	slog.Info("Sync components initialized successfully")

	return syncCoordinator, nil
}
