package cache

import (
	"context"
	"sync/atomic"
)

// Metrics holds the counters the actor updates as it serves requests. All
// fields are updated with sync/atomic so that an observability exporter
// (see the observability package) can read them from a different goroutine
// than the single actor goroutine that increments them. Each counter is
// read atomically on its own; a Snapshot is not one atomic read of all six.
type Metrics struct {
	Hits           atomic.Int64
	Misses         atomic.Int64
	Adds           atomic.Int64
	Removes        atomic.Int64
	BulkPrefetches atomic.Int64
	QueueDepth     atomic.Int64
}

// Snapshot is a point-in-time copy of Metrics suitable for exporting.
type Snapshot struct {
	Hits           int64
	Misses         int64
	Adds           int64
	Removes        int64
	BulkPrefetches int64
	QueueDepth     int64
}

// Snapshot copies the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		Hits:           m.Hits.Load(),
		Misses:         m.Misses.Load(),
		Adds:           m.Adds.Load(),
		Removes:        m.Removes.Load(),
		BulkPrefetches: m.BulkPrefetches.Load(),
		QueueDepth:     m.QueueDepth.Load(),
	}
}

// Cache owns the store and the driver, and implements the get-or-fetch
// policy described in spec.md §4.3. It is not safe for concurrent use: it is
// meant to be driven exclusively by the single actor goroutine (actor.go),
// which is what gives mutation its atomicity (see DESIGN.md on the
// single-writer-actor-vs-concurrent-map tradeoff).
type Cache struct {
	tree    *store
	driver  Driver
	Metrics *Metrics
}

// New creates an empty cache backed by driver. Nothing is fetched eagerly;
// the store starts empty and is populated lazily.
func New(driver Driver) *Cache {
	return &Cache{tree: newStore(), driver: driver, Metrics: &Metrics{}}
}

// Get copies out the item at key with no I/O, returning ok=false on a pure
// cache miss.
func (c *Cache) Get(key Key) (Item, bool) {
	item, ok := c.tree.get(key)
	if !ok {
		return Item{}, false
	}
	return item.Clone(), true
}

// GetAll is a batch form of Get; entries absent from the cache come back as
// a zero Item at the same index as the requested key.
func (c *Cache) GetAll(keys []Key) []Item {
	out := make([]Item, len(keys))
	for i, k := range keys {
		if item, ok := c.Get(k); ok {
			out[i] = item
		}
	}
	return out
}

// Add inserts item under its own key, first-write-wins, and returns the
// value now stored at that key (which may not be item itself, if something
// had already claimed the key).
func (c *Cache) Add(item Item) Item {
	c.tree.insert(item.Object, item.Clone())
	c.Metrics.Adds.Add(1)
	stored, _ := c.tree.get(item.Object)
	return stored
}

// AddAll bulk-inserts items, first-write-wins per key (so within items
// itself, the first occurrence of a duplicate key wins), and returns the
// values now stored for each of items' keys in order.
func (c *Cache) AddAll(items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = c.Add(item)
	}
	return out
}

// Remove deletes the entry at key, if any. It cannot fail: removing an
// absent key is a no-op.
func (c *Cache) Remove(key Key) (Item, bool) {
	item, ok := c.tree.remove(key)
	if ok {
		c.Metrics.Removes.Add(1)
	}
	return item, ok
}

// RemoveAll removes every key in keys.
func (c *Cache) RemoveAll(keys []Key) {
	for _, k := range keys {
		c.Remove(k)
	}
}

// Clear drops every item in the cache.
func (c *Cache) Clear() {
	c.tree.clear()
}

// Len reports the total number of cached items across every application.
func (c *Cache) Len() int {
	return c.tree.len()
}

// ModifyIfPresent applies mutate to the entry at key in place and returns
// the updated value, if key was already cached. If key is absent, it falls
// back to GetOrCreate with no mutation applied (matching spec.md §4.3: a
// modify against an uncached item degrades to a plain fetch).
func (c *Cache) ModifyIfPresent(ctx context.Context, key Key, mutate func(*Item)) (Item, error) {
	if item, ok := c.tree.get(key); ok {
		mutate(&item)
		c.tree.replace(key, item)
		return item.Clone(), nil
	}
	return c.GetOrCreate(ctx, key)
}

// GetOrCreate implements the policy from spec.md §4.3:
//  1. if present, return a copy;
//  2. else if key.Sender has never been touched, bulk-prefetch the whole
//     application and return the now-present entry;
//  3. else fetch just this one key from the driver.
func (c *Cache) GetOrCreate(ctx context.Context, key Key) (Item, error) {
	if item, ok := c.tree.get(key); ok {
		c.Metrics.Hits.Add(1)
		return item.Clone(), nil
	}
	c.Metrics.Misses.Add(1)
	if !c.tree.hasApp(key) {
		return c.prefetchApp(ctx, key)
	}
	item, err := c.driver.LookupExternal(ctx, key)
	if err != nil {
		return Item{}, driverErr("lookup_external", key, err)
	}
	c.tree.replace(key, item)
	return item.Clone(), nil
}

func (c *Cache) prefetchApp(ctx context.Context, key Key) (Item, error) {
	items, err := c.driver.LookupBulk(ctx, key)
	if err != nil {
		return Item{}, driverErr("lookup_bulk", key, err)
	}
	// Touch the outer bucket even if items is empty, so a second miss for
	// this sender does not re-trigger a bulk fetch.
	c.tree.bucket(key.Sender)
	for _, item := range items {
		c.tree.insert(item.Object, item)
	}
	c.Metrics.BulkPrefetches.Add(1)
	if item, ok := c.tree.get(key); ok {
		return item.Clone(), nil
	}
	return Item{}, ErrNotFound
}

// GetOrCreateAll partitions keys into present/absent, fetches the absent
// ones serially through GetOrCreate, and returns every result in the
// original input order (duplicate keys are resolved independently and may
// repeat in the output).
func (c *Cache) GetOrCreateAll(ctx context.Context, keys []Key) ([]Item, error) {
	out := make([]Item, len(keys))
	for i, key := range keys {
		item, err := c.GetOrCreate(ctx, key)
		if err != nil {
			return nil, err
		}
		out[i] = item
	}
	return out, nil
}

// request dispatches one Request to its handling routine and produces the
// matching Response. It is the sole entry point the actor loop calls; every
// suspension point inside it is either a driver call or another
// GetOrCreate, never a lock acquisition, because the store is owned, not
// shared.
func (c *Cache) request(ctx context.Context, req Request) (Response, error) {
	switch r := req.(type) {
	case ItemRequest:
		item, err := c.GetOrCreate(ctx, r.Key)
		if err != nil {
			return nil, err
		}
		return ItemResponse{Item: item}, nil

	case ParentRequest:
		target, err := c.GetOrCreate(ctx, r.Key)
		if err != nil {
			return nil, err
		}
		item, err := c.GetOrCreate(ctx, target.Parent)
		if err != nil {
			return nil, err
		}
		return ItemResponse{Item: item}, nil

	case ChildrenRequest:
		target, err := c.GetOrCreate(ctx, r.Key)
		if err != nil {
			return nil, err
		}
		children, err := c.GetOrCreateAll(ctx, target.Children)
		if err != nil {
			return nil, err
		}
		return ChildrenResponse{Items: children}, nil

	case RelationRequest:
		relKeys, err := c.driver.LookupRelations(ctx, r.Key, r.Kind)
		if err != nil {
			return nil, driverErr("lookup_relations", r.Key, err)
		}
		items, err := c.GetOrCreateAll(ctx, relKeys)
		if err != nil {
			return nil, err
		}
		return RelationsResponse{Kind: r.Kind, Items: items}, nil

	case EventRequest:
		item, err := c.applyEvent(ctx, r.Event)
		if err != nil {
			return nil, err
		}
		return ItemResponse{Item: item}, nil

	case AddAllRequest:
		c.AddAll(r.Items)
		return AddAllResponse{}, nil

	default:
		return nil, ErrInvalidResponse
	}
}
