// Package manifest is the local resource store: one manifest file per resource kind
// plus the config files its entries reference.
//
// # Layout
//
//	<root>/agents.json            {"agents": [{"config": "agent_configs/Support.json", "id": "...", "env": "prod", "hash": "..."}]}
//	<root>/agent_configs/*.json   one JSON object per resource
//
// The remote ID and the last known hash are stored inline in the manifest entry.
// Entries are identified by (environment, remote ID); display names live inside the
// config files and are not unique.
//
// # Writes
//
// Manifests and configs are replaced whole: the new content is written to a temporary
// file in the target directory and renamed over the old one, so readers never observe
// a half-written document. There is no cross-process locking.
//
// # Errors
//
// Load returns a faults.Configuration error wrapping ErrNotFound or ErrCorrupt;
// ReadConfig wraps ErrConfigMissing or ErrConfigInvalid.
package manifest
