// Package watcher re-runs a push whenever local manifests or config files change.
//
// The watched file set is recomputed on every cycle through a FilesFunc, so entries
// added to a manifest are picked up without a restart. Each cycle takes a Snapshot of
// modification times (a file that cannot be stat'ed counts as absent with timestamp 0)
// and compares it with the baseline. Any difference runs the trigger once; a fresh
// snapshot taken afterwards becomes the new baseline, so the manifest write done by
// the push does not fire again.
//
// With WithNotify(true) fsnotify events on the parent directories wake the loop before
// the next tick. Polling stays authoritative: events only shorten the wait, and the
// watcher silently degrades to pure polling when notifications are unavailable.
//
// Usage:
//
//	w := watcher.New(2*time.Second, files, func(ctx context.Context) error {
//		_, err := engine.Push(ctx, resource.Agent, reconcile.PushOptions{})
//		return err
//	}, logger, watcher.WithNotify(true))
//	err := w.Run(ctx)
//
// Concurrent manual pushes are not coordinated with the watcher.
package watcher
