package cmd

import (
	"fmt"

	"agents-manager/core/config"
	"agents-manager/core/gateway"
	"agents-manager/core/journal"
	"agents-manager/core/logger"
	"agents-manager/core/manifest"
	"agents-manager/core/reconcile"

	"go.uber.org/zap"
)

// app bundles what a command needs to talk to the engine.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *manifest.Store
	gateway gateway.Gateway
	engine  *reconcile.Engine
	journal *journal.Journal
}

type appOptions struct {
	wrap      func(gateway.Gateway, *config.Config) gateway.Gateway
	observers []reconcile.Observer
}

type appOption func(*appOptions)

// withGatewayWrapper decorates the configured gateway, e.g. with a listing cache.
func withGatewayWrapper(wrap func(gateway.Gateway, *config.Config) gateway.Gateway) appOption {
	return func(o *appOptions) { o.wrap = wrap }
}

// withObserver adds an engine observer next to the journal.
func withObserver(obs reconcile.Observer) appOption {
	return func(o *appOptions) { o.observers = append(o.observers, obs) }
}

// newApp loads the project configuration and wires the engine.
func newApp(opts ...appOption) (*app, error) {
	var o appOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := config.LoadConfig(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, err := manifest.NewStore(rootDir)
	if err != nil {
		return nil, err
	}

	gw, err := gateway.New(cfg.Remote, cfg.Storage, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway: %w", err)
	}
	if o.wrap != nil {
		gw = o.wrap(gw, cfg)
	}

	a := &app{cfg: cfg, logger: l, store: store, gateway: gw}

	var engineOpts []reconcile.Option
	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal, store.Root(), l)
		if err != nil {
			// History is optional; syncing must not depend on it.
			l.Warn("Sync journal unavailable", zap.Error(err))
		} else {
			a.journal = j
			engineOpts = append(engineOpts, reconcile.WithObserver(j))
		}
	}
	for _, obs := range o.observers {
		engineOpts = append(engineOpts, reconcile.WithObserver(obs))
	}

	a.engine = reconcile.NewEngine(store, gw, l, cfg.Reconcile, engineOpts...)
	return a, nil
}

// Close releases the journal and flushes the logger.
func (a *app) Close() {
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.logger.Warn("Failed to close sync journal", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
