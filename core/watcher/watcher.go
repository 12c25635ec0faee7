package watcher

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Config holds watch settings.
type Config struct {
	// IntervalSeconds is the polling period.
	IntervalSeconds int `mapstructure:"interval_seconds" default:"2"`
	// Notify enables fsnotify wake-ups between polls.
	Notify bool `mapstructure:"notify" default:"true"`
}

// Interval returns the polling period, at least one second.
func (c Config) Interval() time.Duration {
	if c.IntervalSeconds < 1 {
		return time.Second
	}
	return time.Duration(c.IntervalSeconds) * time.Second
}

// FilesFunc returns the paths to watch. It is called on every cycle so newly
// referenced files are picked up.
type FilesFunc func() []string

// TriggerFunc runs when a change is detected.
type TriggerFunc func(ctx context.Context) error

// Snapshot maps a path to its modification time in nanoseconds, 0 when absent.
type Snapshot map[string]int64

// Take stats every path.
func Take(paths []string) Snapshot {
	snap := make(Snapshot, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			snap[p] = 0
			continue
		}
		snap[p] = info.ModTime().UnixNano()
	}
	return snap
}

// Changed reports whether other differs from s in membership or any timestamp.
func (s Snapshot) Changed(other Snapshot) bool {
	if len(s) != len(other) {
		return true
	}
	for path, mtime := range s {
		if got, ok := other[path]; !ok || got != mtime {
			return true
		}
	}
	return false
}

// Option customises a Watcher.
type Option func(*Watcher)

// WithNotify enables fsnotify wake-ups on the watched files' directories.
func WithNotify(enabled bool) Option {
	return func(w *Watcher) { w.notify = enabled }
}

// Watcher polls a file set and runs a trigger whenever it changes.
type Watcher struct {
	interval time.Duration
	files    FilesFunc
	trigger  TriggerFunc
	logger   *zap.Logger
	notify   bool
}

// New builds a watcher. A non-positive interval defaults to one second.
func New(interval time.Duration, files FilesFunc, trigger TriggerFunc, logger *zap.Logger, opts ...Option) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Watcher{
		interval: interval,
		files:    files,
		trigger:  trigger,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is cancelled. Trigger errors are logged and polling goes on.
func (w *Watcher) Run(ctx context.Context) error {
	baseline := Take(w.files())

	var (
		fsw    *fsnotify.Watcher
		events <-chan fsnotify.Event
		errs   <-chan error
		dirs   = make(map[string]struct{})
	)
	if w.notify {
		var err error
		fsw, err = fsnotify.NewWatcher()
		if err != nil {
			w.logger.Warn("Failed to start file notifications, falling back to polling", zap.Error(err))
		} else {
			defer fsw.Close()
			events, errs = fsw.Events, fsw.Errors
			w.watchDirs(fsw, dirs, baseline)
		}
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Watching for changes",
		zap.Int("files", len(baseline)),
		zap.Duration("interval", w.interval),
		zap.Bool("notify", fsw != nil),
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			w.logger.Debug("File event", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.logger.Warn("File notification error", zap.Error(err))
			continue
		}

		current := Take(w.files())
		if fsw != nil {
			w.watchDirs(fsw, dirs, current)
		}
		if !baseline.Changed(current) {
			continue
		}

		w.logger.Info("Change detected, pushing")
		if err := w.trigger(ctx); err != nil {
			w.logger.Error("Triggered push failed", zap.Error(err))
		}
		// Edits made while the trigger ran, the trigger's own writes included, show
		// up as a change on the next cycle. A converged push writes nothing.
		baseline = current
	}
}

// watchDirs adds the parent directory of every path not yet watched.
func (w *Watcher) watchDirs(fsw *fsnotify.Watcher, dirs map[string]struct{}, snap Snapshot) {
	for path := range snap {
		dir := filepath.Dir(path)
		if _, ok := dirs[dir]; ok {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			w.logger.Debug("Failed to watch directory", zap.String("path", dir), zap.Error(err))
			continue
		}
		dirs[dir] = struct{}{}
	}
}
