package manifest

import (
	"encoding/json"
	"errors"
	"fmt"

	"agents-manager/core/resource"
)

// DefaultEnvironment is the baseline environment of entries that do not name one.
const DefaultEnvironment = "prod"

var (
	// ErrNotFound is wrapped when a manifest file does not exist.
	ErrNotFound = errors.New("manifest not found")
	// ErrCorrupt is wrapped when a manifest file is not valid JSON or lacks the kind's array.
	ErrCorrupt = errors.New("manifest corrupt")
)

// Entry is one declared resource.
type Entry struct {
	// ConfigPath is the config file, relative to the project root, slash-separated.
	ConfigPath string `json:"config"`
	// RemoteID is empty until the resource has been created remotely.
	RemoteID string `json:"id,omitempty"`
	// Environment partitions remote identity; empty means the baseline environment.
	Environment string `json:"env,omitempty"`
	// Hash is the canonical fingerprint of the config at the last successful push or pull.
	Hash string `json:"hash,omitempty"`
}

// Env returns the entry's environment, falling back to def and then DefaultEnvironment.
func (e Entry) Env(def string) string {
	if e.Environment != "" {
		return e.Environment
	}
	if def != "" {
		return def
	}
	return DefaultEnvironment
}

// Manifest is the ordered list of entries for one kind.
type Manifest struct {
	Kind    resource.Kind
	Entries []Entry
}

// New returns an empty manifest.
func New(kind resource.Kind) *Manifest {
	return &Manifest{Kind: kind, Entries: []Entry{}}
}

// MarshalJSON renders {"<kind>s": [...]}.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	entries := m.Entries
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(map[string][]Entry{m.Kind.Plural(): entries})
}

// Parse decodes a manifest document for kind.
func Parse(kind resource.Kind, raw []byte) (*Manifest, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	list, ok := top[kind.Plural()]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q array", ErrCorrupt, kind.Plural())
	}
	var entries []Entry
	if err := json.Unmarshal(list, &entries); err != nil {
		return nil, fmt.Errorf("%w: %q is not an array of entries: %v", ErrCorrupt, kind.Plural(), err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return &Manifest{Kind: kind, Entries: entries}, nil
}

// IndexOf returns the position of the entry with remoteID in env, or -1.
func (m *Manifest) IndexOf(env, remoteID, defaultEnv string) int {
	if remoteID == "" {
		return -1
	}
	for i, e := range m.Entries {
		if e.RemoteID == remoteID && e.Env(defaultEnv) == env {
			return i
		}
	}
	return -1
}

// Append adds an entry at the end.
func (m *Manifest) Append(e Entry) {
	m.Entries = append(m.Entries, e)
}

// RemoveAt drops the entry at i, preserving order.
func (m *Manifest) RemoveAt(i int) {
	m.Entries = append(m.Entries[:i:i], m.Entries[i+1:]...)
}

// Environments lists the distinct environments in manifest order.
func (m *Manifest) Environments(defaultEnv string) []string {
	seen := make(map[string]struct{})
	var envs []string
	for _, e := range m.Entries {
		env := e.Env(defaultEnv)
		if _, ok := seen[env]; ok {
			continue
		}
		seen[env] = struct{}{}
		envs = append(envs, env)
	}
	return envs
}
