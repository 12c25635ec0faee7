package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"agents-manager/core/reconcile"
	"agents-manager/core/resource"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Observe(t *testing.T) {
	c := New()
	at := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	c.Observe(reconcile.Event{Kind: resource.Agent, Operation: reconcile.OperationPush, Action: reconcile.ActionCreate, Environment: "prod", Time: at})
	c.Observe(reconcile.Event{Kind: resource.Agent, Operation: reconcile.OperationPush, Action: reconcile.ActionCreate, Environment: "prod", Time: at})
	c.Observe(reconcile.Event{Kind: resource.Agent, Operation: reconcile.OperationPush, Action: reconcile.ActionUpdate, Environment: "prod", Err: errors.New("boom"), Time: at})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.operations.WithLabelValues("agent", "push", "create", "prod", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("agent", "push", "update", "prod", "error")))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(c.lastEvent.WithLabelValues("agent", "push")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.operations))
}

func TestCollector_Handler(t *testing.T) {
	c := New()
	c.Observe(reconcile.Event{Kind: resource.Tool, Operation: reconcile.OperationPull, Action: reconcile.ActionUpdate, Environment: "staging"})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `agents_sync_operations_total{action="update",env="staging",kind="tool",operation="pull",result="ok"} 1`)
}

func TestCollector_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
