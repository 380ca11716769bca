package cache

import (
	"context"
	"testing"

	"github.com/odilia-app/cache/drivers/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestChildrenAddedInsertsAtClampedIndex covers spec.md §8 scenario 3.
func TestChildrenAddedInsertsAtClampedIndex(t *testing.T) {
	c := New(fixture.PanicDriver{})
	p := NewKey("app", "p")
	a, b, cc, d := NewKey("app", "a"), NewKey("app", "b"), NewKey("app", "c"), NewKey("app", "d")
	c.Add(Item{Object: p, Children: []Key{a, b, cc}})
	c.Add(Item{Object: a})
	c.Add(Item{Object: b})
	c.Add(Item{Object: cc})
	c.Add(Item{Object: d})

	_, err := c.applyEvent(context.Background(), ChildrenChangedEvent{
		Parent: p, Detail: ChildAdded, Index: 1, Child: d,
	})
	require.NoError(t, err)

	parent, _ := c.Get(p)
	assert.Equal(t, []Key{a, d, b, cc}, parent.Children)

	child, _ := c.Get(d)
	assert.Equal(t, p, child.Parent)
}

func TestChildrenAddedClampsIndexBeyondLength(t *testing.T) {
	c := New(fixture.PanicDriver{})
	p := NewKey("app", "p")
	a := NewKey("app", "a")
	newChild := NewKey("app", "new")
	c.Add(Item{Object: p, Children: []Key{a}})
	c.Add(Item{Object: a})
	c.Add(Item{Object: newChild})

	_, err := c.applyEvent(context.Background(), ChildrenChangedEvent{
		Parent: p, Detail: ChildAdded, Index: 99, Child: newChild,
	})
	require.NoError(t, err)

	parent, _ := c.Get(p)
	assert.Equal(t, []Key{a, newChild}, parent.Children)
}

func TestChildrenRemovedDropsFirstOccurrence(t *testing.T) {
	c := New(fixture.PanicDriver{})
	p := NewKey("app", "p")
	a, b := NewKey("app", "a"), NewKey("app", "b")
	c.Add(Item{Object: p, Children: []Key{a, b}})

	_, err := c.applyEvent(context.Background(), ChildrenChangedEvent{
		Parent: p, Detail: ChildRemoved, Child: a,
	})
	require.NoError(t, err)

	parent, _ := c.Get(p)
	assert.Equal(t, []Key{b}, parent.Children)
}

// TestStateChangedTogglesBit covers spec.md §8 scenario 4.
func TestStateChangedTogglesBit(t *testing.T) {
	c := New(fixture.PanicDriver{})
	x := NewKey("app", "x")
	c.Add(Item{Object: x, States: StateSet(0).With(StateFocusable)})

	item, err := c.applyEvent(context.Background(), StateChangedEvent{Target: x, State: StateFocused, Enabled: true})
	require.NoError(t, err)
	assert.True(t, item.States.Has(StateFocusable))
	assert.True(t, item.States.Has(StateFocused))

	item, err = c.applyEvent(context.Background(), StateChangedEvent{Target: x, State: StateFocused, Enabled: false})
	require.NoError(t, err)
	assert.True(t, item.States.Has(StateFocusable))
	assert.False(t, item.States.Has(StateFocused))
}

func TestTextChangedInsertAndDelete(t *testing.T) {
	c := New(fixture.PanicDriver{})
	x := NewKey("app", "x")
	c.Add(Item{Object: x, Text: normalizeText("helloworld")})

	item, err := c.applyEvent(context.Background(), TextChangedEvent{
		Target: x, Detail: TextInserted, Offset: 5, InsertedText: " ",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello world", textOf(item.Text))

	item, err = c.applyEvent(context.Background(), TextChangedEvent{
		Target: x, Detail: TextDeleted, Offset: 5, Length: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "helloworld", textOf(item.Text))
}

func TestTextChangedDeleteToEmptyNormalizesToAbsent(t *testing.T) {
	c := New(fixture.PanicDriver{})
	x := NewKey("app", "x")
	c.Add(Item{Object: x, Text: normalizeText("hi")})

	item, err := c.applyEvent(context.Background(), TextChangedEvent{
		Target: x, Detail: TextDeleted, Offset: 0, Length: 2,
	})
	require.NoError(t, err)
	assert.Nil(t, item.Text)
}

func TestPropertyChangeUpdatesRecognizedFields(t *testing.T) {
	c := New(fixture.PanicDriver{})
	x := NewKey("app", "x")
	c.Add(Item{Object: x})

	item, err := c.applyEvent(context.Background(), PropertyChangeEvent{
		Target: x, Property: PropertyName, Text: "new name",
	})
	require.NoError(t, err)
	assert.Equal(t, "new name", textOf(item.Name))

	item, err = c.applyEvent(context.Background(), PropertyChangeEvent{
		Target: x, Property: PropertyRole, Role: RoleDialog,
	})
	require.NoError(t, err)
	assert.Equal(t, RoleDialog, item.Role)
}

func TestCacheAddPromotesDescriptorFirstWriteWins(t *testing.T) {
	d := fixture.New()
	obj := NewKey("app", "x")
	c := New(d)

	item, err := c.applyEvent(context.Background(), CacheAddEvent{Descriptor: Descriptor{
		Object: obj, Role: RoleButton,
	}})
	require.NoError(t, err)
	assert.Equal(t, obj, item.Object)
	assert.Equal(t, []string{"LookupFromDescriptor"}, d.Calls())

	// A second cache:add for the same key must not call the driver again.
	_, err = c.applyEvent(context.Background(), CacheAddEvent{Descriptor: Descriptor{
		Object: obj, Role: RoleDialog,
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"LookupFromDescriptor"}, d.Calls())
}

func TestCacheRemoveDropsEntry(t *testing.T) {
	c := New(fixture.PanicDriver{})
	x := NewKey("app", "x")
	c.Add(Item{Object: x})

	_, err := c.applyEvent(context.Background(), CacheRemoveEvent{Key: x})
	require.NoError(t, err)
	_, ok := c.Get(x)
	assert.False(t, ok)
}

func TestApplicationExitDropsWholeBucket(t *testing.T) {
	c := New(fixture.PanicDriver{})
	c.Add(Item{Object: NewKey("app", "1")})
	c.Add(Item{Object: NewKey("app", "2")})

	_, err := c.applyEvent(context.Background(), ApplicationExitEvent{Sender: "app"})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestWindowActivateAndDeactivateToggleStateActive(t *testing.T) {
	c := New(fixture.PanicDriver{})
	w := NewKey("app", "win")
	c.Add(Item{Object: w})

	item, err := c.applyEvent(context.Background(), WindowActivatedEvent{Target: w})
	require.NoError(t, err)
	assert.True(t, item.States.Has(StateActive))

	item, err = c.applyEvent(context.Background(), WindowDeactivatedEvent{Target: w})
	require.NoError(t, err)
	assert.False(t, item.States.Has(StateActive))
}

func TestUnknownEventKindIsReportedNotPanicked(t *testing.T) {
	c := New(fixture.PanicDriver{})
	assert.NotPanics(t, func() {
		_, err := c.applyEvent(context.Background(), unknownEvent{})
		assert.ErrorIs(t, err, ErrUnknownEvent)
	})
}

// unknownEvent implements Event but is deliberately absent from applyEvent's
// type switch, modeling a future event kind this version of the package
// does not yet recognize.
type unknownEvent struct{}

func (unknownEvent) apply(ctx context.Context, c *Cache) (Item, error) { return Item{}, nil }
