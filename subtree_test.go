package cache

import (
	"context"
	"testing"

	"github.com/odilia-app/cache/drivers/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtreeVisitsEachNodeOnce(t *testing.T) {
	d := fixture.New()
	root := NewKey("app", "root")
	c1, c2, gc := NewKey("app", "c1"), NewKey("app", "c2"), NewKey("app", "gc")
	d.SeedBulk("app", []Item{
		{Object: root, Children: []Key{c1, c2}},
		{Object: c1, Children: []Key{gc}},
		{Object: c2},
		{Object: gc},
	})

	actor := NewActor(New(d), 8, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go actor.Run(ctx)

	items, err := Subtree(ctx, actor.Handle(), root)
	require.NoError(t, err)

	seen := map[Key]bool{}
	for _, item := range items {
		assert.False(t, seen[item.Object], "node visited twice: %s", item.Object)
		seen[item.Object] = true
	}
	assert.Len(t, items, 4)
	assert.Equal(t, root, items[0].Object)
}

// TestSubtreeBreaksCycles covers spec.md §8 scenario 5: a corrupt tree where
// a child's children list loops back to an ancestor must still terminate
// and must still visit every distinct key exactly once.
func TestSubtreeBreaksCycles(t *testing.T) {
	d := fixture.New()
	root := NewKey("app", "root")
	c1 := NewKey("app", "c1")
	d.SeedBulk("app", []Item{
		{Object: root, Children: []Key{c1}},
		{Object: c1, Children: []Key{root}}, // cycle back to root
	})

	actor := NewActor(New(d), 8, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go actor.Run(ctx)

	items, err := Subtree(ctx, actor.Handle(), root)
	require.NoError(t, err)

	assert.Len(t, items, 2)
	keys := map[Key]bool{items[0].Object: true, items[1].Object: true}
	assert.True(t, keys[root])
	assert.True(t, keys[c1])
}

func TestSubtreePropagatesDriverError(t *testing.T) {
	// A lookup error (as opposed to a panic) must surface through Subtree
	// rather than being swallowed; the fixture's bulk answer for "app" is
	// empty, so the first-touch prefetch reports the root ErrNotFound.
	d := fixture.New()
	d.SeedBulk("app", nil)
	actor := NewActor(New(d), 8, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go actor.Run(ctx)

	_, err := Subtree(ctx, actor.Handle(), NewKey("app", "missing"))
	require.Error(t, err)
}
