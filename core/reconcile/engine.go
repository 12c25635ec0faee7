package reconcile

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"agents-manager/core/document"
	"agents-manager/core/faults"
	"agents-manager/core/gateway"
	"agents-manager/core/manifest"
	"agents-manager/core/resource"

	"go.uber.org/zap"
)

// Observer receives an Event for every applied step.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

// Engine plans and applies synchronization between a project and the remote.
type Engine struct {
	store      *manifest.Store
	gw         gateway.Gateway
	logger     *zap.Logger
	cfg        Config
	normalizer *document.Normalizer
	observers  []Observer
	now        func() time.Time
}

// Option customises an Engine.
type Option func(*Engine)

// WithObserver registers an observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

// WithNormalizer replaces the key-case normalizer.
func WithNormalizer(n *document.Normalizer) Option {
	return func(e *Engine) { e.normalizer = n }
}

// NewEngine builds an engine.
func NewEngine(store *manifest.Store, gw gateway.Gateway, logger *zap.Logger, cfg Config, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultEnvironment == "" {
		cfg.DefaultEnvironment = manifest.DefaultEnvironment
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 30
	}
	e := &Engine{
		store:      store,
		gw:         gw,
		logger:     logger,
		cfg:        cfg,
		normalizer: document.DefaultNormalizer,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the local store the engine works on.
func (e *Engine) Store() *manifest.Store {
	return e.store
}

// DefaultEnvironment returns the configured baseline environment.
func (e *Engine) DefaultEnvironment() string {
	return e.cfg.DefaultEnvironment
}

func (e *Engine) emit(ev Event) {
	ev.Time = e.now()
	for _, o := range e.observers {
		o.Observe(ev)
	}
}

// fingerprint returns the snake_case form of config and its canonical hash.
func (e *Engine) fingerprint(config document.Document) (document.Document, string) {
	snake := e.normalizer.Apply(document.Snake, config)
	return snake, document.Hash(snake)
}

func (e *Engine) entryLogger(kind resource.Kind, entry manifest.Entry) *zap.Logger {
	return e.logger.With(
		zap.String("kind", string(kind)),
		zap.String("env", entry.Env(e.cfg.DefaultEnvironment)),
		zap.String("remote_id", entry.RemoteID),
		zap.String("config", entry.ConfigPath),
	)
}

// resolve finds the single entry matching selector: remote ID first, then config
// path, then display name. env, when set, restricts the candidates.
func (e *Engine) resolve(m *manifest.Manifest, selector, env string) (int, error) {
	var candidates []int
	for i, entry := range m.Entries {
		if env == "" || entry.Env(e.cfg.DefaultEnvironment) == env {
			candidates = append(candidates, i)
		}
	}

	byID := filter(candidates, func(i int) bool { return m.Entries[i].RemoteID == selector })
	if len(byID) == 1 {
		return byID[0], nil
	}
	if len(byID) > 1 {
		envs := make([]string, 0, len(byID))
		for _, i := range byID {
			envs = append(envs, m.Entries[i].Env(e.cfg.DefaultEnvironment))
		}
		return -1, faults.New(faults.Ambiguous,
			fmt.Sprintf("%s %q exists in several environments (%s); pass --env", m.Kind, selector, strings.Join(envs, ", ")), nil)
	}

	wanted := cleanRel(selector)
	byPath := filter(candidates, func(i int) bool { return cleanRel(m.Entries[i].ConfigPath) == wanted })
	if len(byPath) == 1 {
		return byPath[0], nil
	}

	byName := filter(candidates, func(i int) bool {
		doc, err := e.store.ReadConfig(m.Entries[i].ConfigPath)
		return err == nil && doc.Name() == selector
	})
	switch len(byName) {
	case 0:
		return -1, faults.New(faults.NotFound, fmt.Sprintf("no %s matches %q", m.Kind, selector), nil)
	case 1:
		return byName[0], nil
	default:
		ids := make([]string, 0, len(byName))
		for _, i := range byName {
			id := m.Entries[i].RemoteID
			if id == "" {
				id = "<no id: " + m.Entries[i].ConfigPath + ">"
			}
			ids = append(ids, id)
		}
		return -1, faults.New(faults.Ambiguous,
			fmt.Sprintf("%d %ss are named %q; use a remote ID instead: %s", len(byName), m.Kind, selector, strings.Join(ids, ", ")), nil)
	}
}

func filter(idx []int, keep func(int) bool) []int {
	var out []int
	for _, i := range idx {
		if keep(i) {
			out = append(out, i)
		}
	}
	return out
}

func cleanRel(p string) string {
	return strings.TrimPrefix(path.Clean(strings.ReplaceAll(p, "\\", "/")), "./")
}

// batchContext detaches remote calls from cancellation so an entry in progress
// always completes; cancellation is honoured between entries.
func batchContext(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
