package reconcile

import (
	"context"
	"sync"
	"testing"
	"time"

	"agents-manager/core/document"
	"agents-manager/core/gateway"
	"agents-manager/core/resource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedGateway_ServesFreshListings(t *testing.T) {
	fake := newFakeGateway()
	fake.seed(resource.Agent, "prod", "a1", document.Document{"name": "A"})

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewCachedGateway(fake, time.Minute)
	cache.now = func() time.Time { return clock }
	ctx := context.Background()

	first, err := cache.List(ctx, resource.Agent, "prod", 30, "")
	require.NoError(t, err)
	second, err := cache.List(ctx, resource.Agent, "prod", 30, "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fake.callCount("list"))

	// Results are copies.
	second[0].Name = "mutated"
	third, err := cache.List(ctx, resource.Agent, "prod", 30, "")
	require.NoError(t, err)
	assert.Equal(t, "A", third[0].Name)

	// Other environments are separate keys.
	_, err = cache.List(ctx, resource.Agent, "staging", 30, "")
	require.NoError(t, err)
	assert.Equal(t, 2, fake.callCount("list"))

	clock = clock.Add(2 * time.Minute)
	_, err = cache.List(ctx, resource.Agent, "prod", 30, "")
	require.NoError(t, err)
	assert.Equal(t, 3, fake.callCount("list"))
}

func TestCachedGateway_WritesInvalidate(t *testing.T) {
	fake := newFakeGateway()
	cache := NewCachedGateway(fake, time.Hour)
	ctx := context.Background()

	items, err := cache.List(ctx, resource.Tool, "prod", 30, "")
	require.NoError(t, err)
	assert.Empty(t, items)

	id, err := cache.Create(ctx, resource.Tool, "prod", document.Document{"name": "lookup"})
	require.NoError(t, err)

	items, err = cache.List(ctx, resource.Tool, "prod", 30, "")
	require.NoError(t, err)
	assert.Equal(t, []gateway.Summary{{RemoteID: id, Name: "lookup"}}, items)

	require.NoError(t, cache.Delete(ctx, resource.Tool, "prod", id))
	items, err = cache.List(ctx, resource.Tool, "prod", 30, "")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 3, fake.callCount("list"))

	cache.InvalidateAll()
	_, err = cache.List(ctx, resource.Tool, "prod", 30, "")
	require.NoError(t, err)
	assert.Equal(t, 4, fake.callCount("list"))
}

func TestCachedGateway_ZeroTTLDoesNotCache(t *testing.T) {
	fake := newFakeGateway()
	cache := NewCachedGateway(fake, 0)

	for i := 0; i < 3; i++ {
		_, err := cache.List(context.Background(), resource.Agent, "prod", 30, "")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, fake.callCount("list"))
}

func TestCachedGateway_ConcurrentListsShareOneCall(t *testing.T) {
	release := make(chan struct{})
	slow := &blockingListGateway{fakeGateway: newFakeGateway(), release: release}
	cache := NewCachedGateway(slow, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.List(context.Background(), resource.Agent, "prod", 30, "")
			assert.NoError(t, err)
		}()
	}

	require.Eventually(t, func() bool { return slow.callCount("list") == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, slow.callCount("list"))
}

// blockingListGateway holds List calls until release is closed.
type blockingListGateway struct {
	*fakeGateway
	release chan struct{}
}

func (g *blockingListGateway) List(ctx context.Context, kind resource.Kind, env string, pageSize int, filter string) ([]gateway.Summary, error) {
	g.mu.Lock()
	g.calls["list"]++
	g.mu.Unlock()
	<-g.release
	return nil, nil
}
