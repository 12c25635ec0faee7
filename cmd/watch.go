package cmd

import (
	"context"
	"errors"
	"time"

	"agents-manager/core/manifest"
	"agents-manager/core/reconcile"
	"agents-manager/core/resource"
	"agents-manager/core/watcher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	watchInterval int
	watchKind     string
	watchEnv      string
)

// watchCmd pushes whenever a manifest or config changes.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Push automatically when local files change",
	Long: `Polls the manifests and every referenced config file and runs a push when any of
them changes. Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchInterval, "interval", 0, "Polling interval in seconds (default from config)")
	watchCmd.Flags().StringVar(&watchKind, "kind", "", "Only watch and push this kind")
	watchCmd.Flags().StringVar(&watchEnv, "env", "", "Only push entries of this environment")

	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	kinds := resource.All()
	if watchKind != "" {
		k, err := resource.Parse(watchKind)
		if err != nil {
			return err
		}
		kinds = []resource.Kind{k}
	}

	cfg := a.cfg.Watch
	if watchInterval > 0 {
		cfg.IntervalSeconds = watchInterval
	}

	trigger := func(ctx context.Context) error {
		return pushKinds(ctx, a.engine, a.logger, kinds, watchEnv)
	}
	w := watcher.New(cfg.Interval(), func() []string { return watchFiles(a.store, kinds) }, trigger, a.logger,
		watcher.WithNotify(cfg.Notify))

	a.logger.Info("Watching for changes", zap.Duration("interval", cfg.Interval()), zap.Bool("notify", cfg.Notify))
	return w.Run(cmd.Context())
}

// watchFiles lists every manifest of kinds and the configs they reference. Missing
// manifests are listed too so that creating one counts as a change.
func watchFiles(store *manifest.Store, kinds []resource.Kind) []string {
	var files []string
	for _, kind := range kinds {
		files = append(files, store.ManifestPath(kind))
		if !store.Exists(kind) {
			continue
		}
		m, err := store.Load(kind, false)
		if err != nil {
			continue
		}
		for _, e := range m.Entries {
			if e.ConfigPath != "" {
				files = append(files, store.Resolve(e.ConfigPath))
			}
		}
	}
	return files
}

// pushKinds pushes every existing manifest among kinds. Per-entry failures are
// already logged by the engine; the joined error is returned for the caller's log.
func pushKinds(ctx context.Context, engine *reconcile.Engine, l *zap.Logger, kinds []resource.Kind, env string) error {
	var errs []error
	for _, kind := range kinds {
		if !engine.Store().Exists(kind) {
			continue
		}
		start := time.Now()
		result, err := engine.Push(ctx, kind, reconcile.PushOptions{Environment: env})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		l.Info("Push finished",
			zap.String("kind", string(kind)),
			zap.Int("created", result.Created),
			zap.Int("updated", result.Updated),
			zap.Int("failed", result.Failed),
			zap.Duration("took", time.Since(start)),
		)
		if result.Err != nil {
			errs = append(errs, result.Err)
		}
	}
	return errors.Join(errs...)
}
