package usecase

import (
	"sync"

	"github.com/polkiloo/vinylstore/internal/domain/model"
)

// OrderCache holds the order snapshots one session has seen. A snapshot only
// replaces the cached one when its read began later.
type OrderCache struct {
	mu     sync.RWMutex
	orders map[int64]cachedOrder
	seq    uint64
}

type cachedOrder struct {
	order  model.Order
	readAt uint64
}

func newOrderCache() *OrderCache {
	return &OrderCache{orders: make(map[int64]cachedOrder)}
}

// Begin marks the start of a marketplace read and returns its token for Store.
func (c *OrderCache) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Store caches orders read under token. Orders already cached from a read
// that began after token are left alone.
func (c *OrderCache) Store(token uint64, orders ...model.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, o := range orders {
		if cur, ok := c.orders[o.ID]; ok && cur.readAt > token {
			continue
		}
		c.orders[o.ID] = cachedOrder{order: o, readAt: token}
	}
}

// Get returns the cached snapshot of orderID.
func (c *OrderCache) Get(orderID int64) (model.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cur, ok := c.orders[orderID]
	return cur.order, ok
}

// Len returns number of cached orders.
func (c *OrderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.orders)
}

type cacheKey struct {
	userID int64
	role   model.Role
}

// OrderCacheRegistry owns one OrderCache per session and view role.
type OrderCacheRegistry struct {
	mu     sync.Mutex
	caches map[cacheKey]*OrderCache
}

// NewOrderCacheRegistry constructs an empty registry.
func NewOrderCacheRegistry() *OrderCacheRegistry {
	return &OrderCacheRegistry{caches: make(map[cacheKey]*OrderCache)}
}

// For returns the cache of session, creating it on first use.
func (r *OrderCacheRegistry) For(session model.Session) *OrderCache {
	key := cacheKey{userID: session.UserID, role: session.Role}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.caches[key]
	if !ok {
		c = newOrderCache()
		r.caches[key] = c
	}
	return c
}

// Release drops every cache of userID.
func (r *OrderCacheRegistry) Release(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.caches {
		if key.userID == userID {
			delete(r.caches, key)
		}
	}
}
