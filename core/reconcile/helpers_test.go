package reconcile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"agents-manager/core/document"
	"agents-manager/core/faults"
	"agents-manager/core/gateway"
	"agents-manager/core/manifest"
	"agents-manager/core/resource"

	"github.com/stretchr/testify/require"
)

// fakeGateway is an in-memory remote used by scenario tests.
type fakeGateway struct {
	mu        sync.Mutex
	seq       int
	resources map[string][]*remoteResource
	listErr   map[string]error
	getErr    map[string]error
	calls     map[string]int
}

type remoteResource struct {
	id     string
	config document.Document
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		resources: make(map[string][]*remoteResource),
		listErr:   make(map[string]error),
		getErr:    make(map[string]error),
		calls:     make(map[string]int),
	}
}

func bucketKey(kind resource.Kind, env string) string {
	return string(kind) + "/" + env
}

// seed registers a remote resource without counting a call.
func (f *fakeGateway) seed(kind resource.Kind, env, id string, config document.Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := bucketKey(kind, env)
	f.resources[key] = append(f.resources[key], &remoteResource{id: id, config: config})
}

func (f *fakeGateway) find(kind resource.Kind, env, id string) *remoteResource {
	for _, r := range f.resources[bucketKey(kind, env)] {
		if r.id == id {
			return r
		}
	}
	return nil
}

func (f *fakeGateway) count(kind resource.Kind, env string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.resources[bucketKey(kind, env)])
}

func (f *fakeGateway) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeGateway) Create(_ context.Context, kind resource.Kind, env string, config document.Document) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create"]++
	f.seq++
	id := fmt.Sprintf("%s_%d", kind, f.seq)
	key := bucketKey(kind, env)
	f.resources[key] = append(f.resources[key], &remoteResource{id: id, config: config.Clone()})
	return id, nil
}

func (f *fakeGateway) Update(_ context.Context, kind resource.Kind, env, remoteID string, config document.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["update"]++
	r := f.find(kind, env, remoteID)
	if r == nil {
		return faults.New(faults.NotFound, "no such resource", nil)
	}
	r.config = config.Clone()
	return nil
}

func (f *fakeGateway) Get(_ context.Context, kind resource.Kind, env, remoteID string) (document.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["get"]++
	if err := f.getErr[remoteID]; err != nil {
		return nil, err
	}
	r := f.find(kind, env, remoteID)
	if r == nil {
		return nil, faults.New(faults.NotFound, "no such resource", nil)
	}
	return r.config.Clone(), nil
}

func (f *fakeGateway) List(_ context.Context, kind resource.Kind, env string, _ int, filter string) ([]gateway.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["list"]++
	if err := f.listErr[env]; err != nil {
		return nil, err
	}
	var out []gateway.Summary
	for _, r := range f.resources[bucketKey(kind, env)] {
		if filter != "" && r.config.Name() != filter {
			continue
		}
		out = append(out, gateway.Summary{RemoteID: r.id, Name: r.config.Name()})
	}
	return out, nil
}

func (f *fakeGateway) Delete(_ context.Context, kind resource.Kind, env, remoteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["delete"]++
	key := bucketKey(kind, env)
	for i, r := range f.resources[key] {
		if r.id == remoteID {
			f.resources[key] = append(f.resources[key][:i], f.resources[key][i+1:]...)
			return nil
		}
	}
	return faults.New(faults.NotFound, "no such resource", nil)
}

func newProject(t *testing.T) *manifest.Store {
	t.Helper()
	store, err := manifest.NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func writeFile(t *testing.T, store *manifest.Store, rel, body string) {
	t.Helper()
	path := store.Resolve(rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func readFile(t *testing.T, store *manifest.Store, rel string) string {
	t.Helper()
	raw, err := os.ReadFile(store.Resolve(rel))
	require.NoError(t, err)
	return string(raw)
}

func saveManifest(t *testing.T, store *manifest.Store, kind resource.Kind, entries ...manifest.Entry) {
	t.Helper()
	m := manifest.New(kind)
	m.Entries = append(m.Entries, entries...)
	require.NoError(t, store.Save(m))
}

func loadManifest(t *testing.T, store *manifest.Store, kind resource.Kind) *manifest.Manifest {
	t.Helper()
	m, err := store.Load(kind, false)
	require.NoError(t, err)
	return m
}

func testConfig() Config {
	return Config{DefaultEnvironment: "prod", PushPolicy: "always", KeyCase: "snake", PageSize: 30}
}

func snakeHash(t *testing.T, raw string) string {
	t.Helper()
	doc, err := document.Decode([]byte(raw))
	require.NoError(t, err)
	return document.Hash(document.ToSnake(doc))
}

func accept(PlanSummary) (bool, error) { return true, nil }

func decline(PlanSummary) (bool, error) { return false, nil }
