// Package reconcile keeps a project's manifests and config files in step with the
// remote service, across resource kinds and environments.
//
// # Plans
//
// Every operation is split into a planner that only reads state and an apply step:
//
//   - PlanPush walks the manifest in order. An entry whose config is missing or not a
//     JSON object yields a warn action. An entry without a remote ID is created;
//     otherwise it is updated, or skipped when the push policy is skip-unchanged and
//     the canonical hash of its snake_case config equals the last known hash.
//   - PlanPull lists the remote (metadata only) for the requested environment, every
//     environment found in the manifest, or the default one, and classifies each
//     resource against the local index keyed by (environment, remote ID):
//
//	tracked   + update/all  -> update the config in place
//	tracked   + default     -> skip (local edits are never clobbered)
//	untracked + update      -> skip
//	untracked + default/all -> create with a freshly allocated file name
//
// Dry runs return the plan's counts without touching the remote or the disk and never
// ask for confirmation, so their counts match a real run against the same state.
//
// # Applying
//
// Push and Pull process one resource at a time. A failure on one entry is logged with
// its kind, environment, remote ID and config path, counted, and the batch moves on.
// The manifest is saved once at the end with every mutation that succeeded. The
// context is checked between entries; a remote call already in flight completes.
//
// Delete removes the remote resource first (best effort, not-found counts as done),
// then the config file and the manifest entry. DeleteAll does the same per entry
// after a single confirmation.
//
// Status compares each config's hash with the recorded one without any network call.
//
// # Selectors
//
// Single-target operations accept a remote ID, a config path or a display name, tried
// in that order. Names are not unique: several matches is an Ambiguous error listing
// the candidate remote IDs.
//
// # Observers and caching
//
// Observers registered with WithObserver receive an Event per applied step; the sync
// journal and the metrics collector use this. CachedGateway adds a TTL listing cache
// with singleflight de-duplication for the long-running HTTP surface.
package reconcile
