package reconcile

import (
	"context"
	"errors"
	"testing"

	"agents-manager/core/document"
	"agents-manager/core/faults"
	"agents-manager/core/gateway/mocks"
	"agents-manager/core/manifest"
	"agents-manager/core/resource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const lookupTool = `{"name": "lookup", "type": "webhook", "apiSchema": {"url": "https://example.com", "requestHeaders": {"Content-Type": "application/json"}}}`

// TestPush_ToolCreateThenUpdate: an untracked tool is created exactly once, then
// only ever updated.
func TestPush_ToolCreateThenUpdate(t *testing.T) {
	store := newProject(t)
	writeFile(t, store, "tool_configs/lookup.json", lookupTool)
	saveManifest(t, store, resource.Tool, manifest.Entry{ConfigPath: "tool_configs/lookup.json"})

	gw := new(mocks.Gateway)
	gw.On("Create", mock.Anything, resource.Tool, "prod", mock.MatchedBy(func(doc document.Document) bool {
		api, ok := doc.Object("api_schema")
		if !ok {
			return false
		}
		headers, ok := api.Object("request_headers")
		return ok && headers["Content-Type"] == "application/json"
	})).Return("tool_1", nil).Once()
	gw.On("Update", mock.Anything, resource.Tool, "prod", "tool_1", mock.Anything).Return(nil)

	engine := NewEngine(store, gw, nil, testConfig())

	result, err := engine.Push(context.Background(), resource.Tool, PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.NoError(t, result.Err)

	m := loadManifest(t, store, resource.Tool)
	require.Len(t, m.Entries, 1)
	assert.Equal(t, "tool_1", m.Entries[0].RemoteID)
	assert.Equal(t, snakeHash(t, lookupTool), m.Entries[0].Hash)

	result, err = engine.Push(context.Background(), resource.Tool, PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Updated)

	gw.AssertNumberOfCalls(t, "Create", 1)
	gw.AssertNumberOfCalls(t, "Update", 1)
}

func TestPush_Idempotent(t *testing.T) {
	store := newProject(t)
	writeFile(t, store, "agent_configs/a.json", `{"name":"A"}`)
	writeFile(t, store, "agent_configs/b.json", `{"name":"B"}`)
	saveManifest(t, store, resource.Agent,
		manifest.Entry{ConfigPath: "agent_configs/a.json"},
		manifest.Entry{ConfigPath: "agent_configs/b.json"},
	)
	gw := newFakeGateway()
	engine := NewEngine(store, gw, nil, testConfig())

	_, err := engine.Push(context.Background(), resource.Agent, PushOptions{})
	require.NoError(t, err)
	first := loadManifest(t, store, resource.Agent)

	_, err = engine.Push(context.Background(), resource.Agent, PushOptions{})
	require.NoError(t, err)
	second := loadManifest(t, store, resource.Agent)

	assert.Equal(t, first.Entries, second.Entries)
	assert.Equal(t, 2, gw.count(resource.Agent, "prod"))
	assert.Equal(t, 2, gw.callCount("create"))
	assert.Equal(t, 2, gw.callCount("update"))
}

func TestPush_MissingAndInvalidConfigsWarn(t *testing.T) {
	store := newProject(t)
	writeFile(t, store, "agent_configs/ok.json", `{"name":"OK"}`)
	writeFile(t, store, "agent_configs/broken.json", `{"name":`)
	saveManifest(t, store, resource.Agent,
		manifest.Entry{ConfigPath: "agent_configs/gone.json", RemoteID: "a0"},
		manifest.Entry{ConfigPath: "agent_configs/broken.json"},
		manifest.Entry{ConfigPath: "agent_configs/ok.json"},
	)
	gw := newFakeGateway()
	engine := NewEngine(store, gw, nil, testConfig())

	plan, err := engine.PlanPush(context.Background(), resource.Agent, PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, PlanSummary{Create: 1, Warn: 2}, plan.Summary)
	assert.Equal(t, "missing config", plan.Actions[0].Reason)

	result, err := engine.Push(context.Background(), resource.Agent, PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Warned)
	assert.Equal(t, 1, result.Created)

	m := loadManifest(t, store, resource.Agent)
	assert.Equal(t, "a0", m.Entries[0].RemoteID, "warned entries are left alone")
	assert.Empty(t, m.Entries[1].RemoteID)
	assert.NotEmpty(t, m.Entries[2].RemoteID)
}

func TestPush_FailureDoesNotAbortBatch(t *testing.T) {
	store := newProject(t)
	writeFile(t, store, "agent_configs/a.json", `{"name":"A"}`)
	writeFile(t, store, "agent_configs/b.json", `{"name":"B"}`)
	saveManifest(t, store, resource.Agent,
		manifest.Entry{ConfigPath: "agent_configs/a.json"},
		manifest.Entry{ConfigPath: "agent_configs/b.json"},
	)

	gw := new(mocks.Gateway)
	gw.On("Create", mock.Anything, resource.Agent, "prod", document.Document{"name": "A"}).
		Return("", faults.New(faults.Network, "timeout", nil))
	gw.On("Create", mock.Anything, resource.Agent, "prod", document.Document{"name": "B"}).
		Return("agent_b", nil)

	engine := NewEngine(store, gw, nil, testConfig())
	result, err := engine.Push(context.Background(), resource.Agent, PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Created)
	assert.True(t, faults.Is(result.Err, faults.Network))

	m := loadManifest(t, store, resource.Agent)
	assert.Empty(t, m.Entries[0].RemoteID)
	assert.Equal(t, "agent_b", m.Entries[1].RemoteID, "successful entries persist despite earlier failures")
}

func TestPush_SkipUnchangedPolicy(t *testing.T) {
	store := newProject(t)
	body := `{"name":"A","prompt":"hi"}`
	writeFile(t, store, "agent_configs/a.json", body)
	saveManifest(t, store, resource.Agent,
		manifest.Entry{ConfigPath: "agent_configs/a.json", RemoteID: "a1", Hash: snakeHash(t, body)},
	)
	gw := newFakeGateway()
	gw.seed(resource.Agent, "prod", "a1", document.Document{"name": "A"})

	cfg := testConfig()
	cfg.PushPolicy = string(PolicySkipUnchanged)
	engine := NewEngine(store, gw, nil, cfg)

	result, err := engine.Push(context.Background(), resource.Agent, PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, gw.callCount("update"))

	// The flag overrides configuration.
	result, err = engine.Push(context.Background(), resource.Agent, PushOptions{Policy: PolicyAlways})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	writeFile(t, store, "agent_configs/a.json", `{"name":"A","prompt":"hello"}`)
	result, err = engine.Push(context.Background(), resource.Agent, PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, snakeHash(t, `{"name":"A","prompt":"hello"}`), loadManifest(t, store, resource.Agent).Entries[0].Hash)
}

func TestPush_InvalidPolicy(t *testing.T) {
	store := newProject(t)
	saveManifest(t, store, resource.Agent)
	cfg := testConfig()
	cfg.PushPolicy = "sometimes"

	_, err := NewEngine(store, newFakeGateway(), nil, cfg).Push(context.Background(), resource.Agent, PushOptions{})
	assert.Error(t, err)
}

func TestPush_DryRunTouchesNothing(t *testing.T) {
	store := newProject(t)
	writeFile(t, store, "agent_configs/a.json", `{"name":"A"}`)
	writeFile(t, store, "agent_configs/b.json", `{"name":"B"}`)
	saveManifest(t, store, resource.Agent,
		manifest.Entry{ConfigPath: "agent_configs/a.json"},
		manifest.Entry{ConfigPath: "agent_configs/b.json", RemoteID: "b1"},
	)
	before := readFile(t, store, "agents.json")

	gw := new(mocks.Gateway)
	engine := NewEngine(store, gw, nil, testConfig())

	result, err := engine.Push(context.Background(), resource.Agent, PushOptions{DryRun: true})
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, before, readFile(t, store, "agents.json"))
	gw.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	gw.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPush_Selectors(t *testing.T) {
	store := newProject(t)
	writeFile(t, store, "agent_configs/support.json", `{"name":"Support"}`)
	writeFile(t, store, "agent_configs/support-1.json", `{"name":"Support"}`)
	writeFile(t, store, "agent_configs/sales.json", `{"name":"Sales"}`)
	saveManifest(t, store, resource.Agent,
		manifest.Entry{ConfigPath: "agent_configs/support.json", RemoteID: "s1"},
		manifest.Entry{ConfigPath: "agent_configs/support-1.json", RemoteID: "s2"},
		manifest.Entry{ConfigPath: "agent_configs/sales.json", RemoteID: "s3", Environment: "staging"},
		manifest.Entry{ConfigPath: "agent_configs/sales.json", RemoteID: "s3"},
	)
	engine := NewEngine(store, newFakeGateway(), nil, testConfig())
	ctx := context.Background()

	t.Run("ByRemoteID", func(t *testing.T) {
		plan, err := engine.PlanPush(ctx, resource.Agent, PushOptions{Selector: "s2"})
		require.NoError(t, err)
		require.Len(t, plan.Actions, 1)
		assert.Equal(t, "agent_configs/support-1.json", plan.Actions[0].ConfigPath)
	})

	t.Run("ByConfigPath", func(t *testing.T) {
		plan, err := engine.PlanPush(ctx, resource.Agent, PushOptions{Selector: "./agent_configs/support.json"})
		require.NoError(t, err)
		require.Len(t, plan.Actions, 1)
		assert.Equal(t, "s1", plan.Actions[0].RemoteID)
	})

	t.Run("AmbiguousName", func(t *testing.T) {
		_, err := engine.PlanPush(ctx, resource.Agent, PushOptions{Selector: "Support"})
		require.Error(t, err)
		assert.True(t, faults.Is(err, faults.Ambiguous))
		assert.Contains(t, err.Error(), "s1")
		assert.Contains(t, err.Error(), "s2")
	})

	t.Run("IDInSeveralEnvironments", func(t *testing.T) {
		_, err := engine.PlanPush(ctx, resource.Agent, PushOptions{Selector: "s3"})
		assert.True(t, faults.Is(err, faults.Ambiguous))

		plan, err := engine.PlanPush(ctx, resource.Agent, PushOptions{Selector: "s3", Environment: "staging"})
		require.NoError(t, err)
		assert.Equal(t, "staging", plan.Actions[0].Environment)
	})

	t.Run("NameScopedByEnvironment", func(t *testing.T) {
		plan, err := engine.PlanPush(ctx, resource.Agent, PushOptions{Selector: "Sales", Environment: "prod"})
		require.NoError(t, err)
		assert.Equal(t, "prod", plan.Actions[0].Environment)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := engine.PlanPush(ctx, resource.Agent, PushOptions{Selector: "nobody"})
		assert.True(t, faults.Is(err, faults.NotFound))
	})
}

func TestPush_EnvironmentScope(t *testing.T) {
	store := newProject(t)
	writeFile(t, store, "agent_configs/a.json", `{"name":"A"}`)
	saveManifest(t, store, resource.Agent,
		manifest.Entry{ConfigPath: "agent_configs/a.json"},
		manifest.Entry{ConfigPath: "agent_configs/a.json", Environment: "staging"},
	)
	gw := newFakeGateway()
	engine := NewEngine(store, gw, nil, testConfig())

	result, err := engine.Push(context.Background(), resource.Agent, PushOptions{Environment: "staging"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, gw.count(resource.Agent, "prod"))
	assert.Equal(t, 1, gw.count(resource.Agent, "staging"))
}

func TestPush_MissingManifest(t *testing.T) {
	engine := NewEngine(newProject(t), newFakeGateway(), nil, testConfig())

	_, err := engine.Push(context.Background(), resource.Agent, PushOptions{})
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.Configuration))
	assert.ErrorIs(t, err, manifest.ErrNotFound)
}

func TestPush_CancelledBetweenEntries(t *testing.T) {
	store := newProject(t)
	writeFile(t, store, "agent_configs/a.json", `{"name":"A"}`)
	writeFile(t, store, "agent_configs/b.json", `{"name":"B"}`)
	saveManifest(t, store, resource.Agent,
		manifest.Entry{ConfigPath: "agent_configs/a.json"},
		manifest.Entry{ConfigPath: "agent_configs/b.json"},
	)

	ctx, cancel := context.WithCancel(context.Background())
	gw := new(mocks.Gateway)
	gw.On("Create", mock.Anything, resource.Agent, "prod", mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return("agent_a", nil).Once()

	result, err := NewEngine(store, gw, nil, testConfig()).Push(ctx, resource.Agent, PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.True(t, errors.Is(result.Err, context.Canceled))

	m := loadManifest(t, store, resource.Agent)
	assert.Equal(t, "agent_a", m.Entries[0].RemoteID, "the entry in flight completes and is saved")
	assert.Empty(t, m.Entries[1].RemoteID)
}

func TestPush_NotifiesObservers(t *testing.T) {
	store := newProject(t)
	writeFile(t, store, "agent_configs/a.json", `{"name":"A"}`)
	saveManifest(t, store, resource.Agent,
		manifest.Entry{ConfigPath: "agent_configs/a.json"},
		manifest.Entry{ConfigPath: "agent_configs/missing.json"},
	)

	var events []Event
	engine := NewEngine(store, newFakeGateway(), nil, testConfig(), WithObserver(ObserverFunc(func(e Event) {
		events = append(events, e)
	})))

	_, err := engine.Push(context.Background(), resource.Agent, PushOptions{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ActionCreate, events[0].Action)
	assert.Equal(t, "agent_1", events[0].RemoteID)
	assert.Equal(t, OperationPush, events[0].Operation)
	assert.False(t, events[0].Time.IsZero())
	assert.Equal(t, ActionWarn, events[1].Action)
}
