package reconcile

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"agents-manager/core/document"
	"agents-manager/core/gateway"
	"agents-manager/core/resource"

	"golang.org/x/sync/singleflight"
)

// listing is one cached List result.
type listing struct {
	items []gateway.Summary
	built time.Time
}

// CachedGateway decorates a Gateway with a TTL cache of List results. Concurrent
// misses for the same key share one remote call. Create, Update and Delete pass
// through and invalidate the listings of their kind and environment.
type CachedGateway struct {
	gateway.Gateway

	ttl time.Duration
	now func() time.Time

	mu       sync.RWMutex
	listings map[string]listing
	sf       singleflight.Group
}

// NewCachedGateway wraps gw. A zero TTL disables caching but keeps de-duplication.
func NewCachedGateway(gw gateway.Gateway, ttl time.Duration) *CachedGateway {
	return &CachedGateway{
		Gateway:  gw,
		ttl:      ttl,
		now:      time.Now,
		listings: make(map[string]listing),
	}
}

func listingPrefix(kind resource.Kind, env string) string {
	return string(kind) + "|" + env + "|"
}

func listingKey(kind resource.Kind, env string, pageSize int, filter string) string {
	return fmt.Sprintf("%s%d|%s", listingPrefix(kind, env), pageSize, filter)
}

func (c *CachedGateway) fresh(l listing) bool {
	return c.ttl > 0 && c.now().Sub(l.built) <= c.ttl
}

// List serves from cache when fresh, otherwise lists remotely.
func (c *CachedGateway) List(ctx context.Context, kind resource.Kind, env string, pageSize int, filter string) ([]gateway.Summary, error) {
	key := listingKey(kind, env, pageSize, filter)

	c.mu.RLock()
	cached, ok := c.listings[key]
	c.mu.RUnlock()
	if ok && c.fresh(cached) {
		return cloneSummaries(cached.items), nil
	}

	result, err, _ := c.sf.Do(key, func() (any, error) {
		c.mu.RLock()
		cached, ok := c.listings[key]
		c.mu.RUnlock()
		if ok && c.fresh(cached) {
			return cached.items, nil
		}

		items, err := c.Gateway.List(ctx, kind, env, pageSize, filter)
		if err != nil {
			return nil, err
		}
		if c.ttl > 0 {
			c.mu.Lock()
			c.listings[key] = listing{items: items, built: c.now()}
			c.mu.Unlock()
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneSummaries(result.([]gateway.Summary)), nil
}

func (c *CachedGateway) Create(ctx context.Context, kind resource.Kind, env string, config document.Document) (string, error) {
	defer c.Invalidate(kind, env)
	return c.Gateway.Create(ctx, kind, env, config)
}

func (c *CachedGateway) Update(ctx context.Context, kind resource.Kind, env, remoteID string, config document.Document) error {
	defer c.Invalidate(kind, env)
	return c.Gateway.Update(ctx, kind, env, remoteID, config)
}

func (c *CachedGateway) Delete(ctx context.Context, kind resource.Kind, env, remoteID string) error {
	defer c.Invalidate(kind, env)
	return c.Gateway.Delete(ctx, kind, env, remoteID)
}

// Invalidate drops cached listings of kind in env.
func (c *CachedGateway) Invalidate(kind resource.Kind, env string) {
	prefix := listingPrefix(kind, env)
	c.mu.Lock()
	for key := range c.listings {
		if strings.HasPrefix(key, prefix) {
			delete(c.listings, key)
		}
	}
	c.mu.Unlock()
}

// InvalidateAll drops every cached listing.
func (c *CachedGateway) InvalidateAll() {
	c.mu.Lock()
	c.listings = make(map[string]listing)
	c.mu.Unlock()
}

func cloneSummaries(in []gateway.Summary) []gateway.Summary {
	if in == nil {
		return nil
	}
	out := make([]gateway.Summary, len(in))
	copy(out, in)
	return out
}
