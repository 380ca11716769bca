// Package fixture provides Driver implementations for testing the cache
// core without a real accessibility bus connection.
package fixture

import (
	"context"
	"sync"

	cache "github.com/odilia-app/cache"
)

// Driver is a pre-seeded, in-memory stand-in for a real bus driver. Tests
// populate it with the items and relations it should answer with; every
// lookup method is otherwise a plain map read, so a Driver never performs
// I/O and a test using one never needs a real AT-SPI connection.
type Driver struct {
	mu        sync.Mutex
	items     map[cache.Key]cache.Item
	bulk      map[string][]cache.Item
	relations map[cache.Key]map[cache.RelationType][]cache.Key
	calls     []string
}

// New creates an empty Driver.
func New() *Driver {
	return &Driver{
		items:     make(map[cache.Key]cache.Item),
		bulk:      make(map[string][]cache.Item),
		relations: make(map[cache.Key]map[cache.RelationType][]cache.Key),
	}
}

// Seed registers item as the answer LookupExternal gives for item.Object.
func (d *Driver) Seed(item cache.Item) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items[item.Object] = item
}

// SeedBulk registers items as the answer LookupBulk gives for sender.
func (d *Driver) SeedBulk(sender string, items []cache.Item) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bulk[sender] = items
}

// SeedRelation registers targets as the answer LookupRelations gives for
// (key, kind).
func (d *Driver) SeedRelation(key cache.Key, kind cache.RelationType, targets []cache.Key) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.relations[key] == nil {
		d.relations[key] = make(map[cache.RelationType][]cache.Key)
	}
	d.relations[key][kind] = targets
}

// Calls returns the ordered list of method names invoked on d so far, for
// tests asserting a bulk prefetch happened exactly once.
func (d *Driver) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

func (d *Driver) record(name string) {
	d.calls = append(d.calls, name)
}

func (d *Driver) LookupExternal(ctx context.Context, key cache.Key) (cache.Item, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("LookupExternal")
	item, ok := d.items[key]
	if !ok {
		return cache.Item{}, cache.ErrNotFound
	}
	return item, nil
}

func (d *Driver) LookupBulk(ctx context.Context, key cache.Key) ([]cache.Item, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("LookupBulk")
	return append([]cache.Item(nil), d.bulk[key.Sender]...), nil
}

func (d *Driver) LookupRelations(ctx context.Context, key cache.Key, ty cache.RelationType) ([]cache.Key, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("LookupRelations")
	byKind, ok := d.relations[key]
	if !ok {
		return nil, nil
	}
	return append([]cache.Key(nil), byKind[ty]...), nil
}

func (d *Driver) LookupFromDescriptor(ctx context.Context, desc cache.Descriptor) (cache.Item, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("LookupFromDescriptor")
	return cache.Item{
		Object:      desc.Object,
		App:         desc.App,
		Parent:      desc.Parent,
		Interfaces:  desc.Interfaces,
		Role:        desc.Role,
		States:      desc.States,
		Children:    desc.Children,
		ChildrenNum: intPtr(desc.ChildCount),
	}, nil
}

func (d *Driver) LookupFromLegacyDescriptor(ctx context.Context, desc cache.LegacyDescriptor) (cache.Item, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("LookupFromLegacyDescriptor")
	return cache.Item{
		Object:     desc.Object,
		App:        desc.App,
		Parent:     desc.Parent,
		Interfaces: desc.Interfaces,
		Role:       desc.Role,
		States:     desc.States,
		Children:   desc.Children,
	}, nil
}

func intPtr(v int) *int { return &v }

// PanicDriver implements cache.Driver by panicking on every call. It is
// used to assert that a code path never reaches out to the driver — a pure
// cache-hit path, for instance.
type PanicDriver struct{}

func (PanicDriver) LookupExternal(context.Context, cache.Key) (cache.Item, error) {
	panic("fixture: unexpected driver call: LookupExternal")
}

func (PanicDriver) LookupBulk(context.Context, cache.Key) ([]cache.Item, error) {
	panic("fixture: unexpected driver call: LookupBulk")
}

func (PanicDriver) LookupRelations(context.Context, cache.Key, cache.RelationType) ([]cache.Key, error) {
	panic("fixture: unexpected driver call: LookupRelations")
}

func (PanicDriver) LookupFromDescriptor(context.Context, cache.Descriptor) (cache.Item, error) {
	panic("fixture: unexpected driver call: LookupFromDescriptor")
}

func (PanicDriver) LookupFromLegacyDescriptor(context.Context, cache.LegacyDescriptor) (cache.Item, error) {
	panic("fixture: unexpected driver call: LookupFromLegacyDescriptor")
}
