package cache

import "context"

// Event is the sum type of every upstream bus notification the cache knows
// how to turn into a mutation. Each concrete type's apply method is the
// per-kind routine the dispatcher in applyEvent delegates to; every one
// returns the target item post-mutation, matching spec.md §4.4's "each
// handler returns the target item" rule, so that downstream consumers (the
// handler-routing layer named in spec.md §1, out of scope here) can react
// without a second round trip.
type Event interface {
	apply(ctx context.Context, c *Cache) (Item, error)
}

// ChildDetail distinguishes the two directions a ChildrenChangedEvent can
// describe.
type ChildDetail int

const (
	ChildAdded ChildDetail = iota
	ChildRemoved
)

// ChildrenChangedEvent is "object:children-changed:add" / ":remove". On Add,
// Child is inserted into Parent's child list at min(Index, len); on Remove,
// the first occurrence of Child is dropped from Parent's child list.
type ChildrenChangedEvent struct {
	Parent Key
	Detail ChildDetail
	Index  int
	Child  Key
}

func (e ChildrenChangedEvent) apply(ctx context.Context, c *Cache) (Item, error) {
	parent, err := c.GetOrCreate(ctx, e.Parent)
	if err != nil {
		return Item{}, err
	}
	switch e.Detail {
	case ChildAdded:
		if _, err := c.GetOrCreate(ctx, e.Child); err != nil {
			return Item{}, err
		}
		idx := e.Index
		if idx > len(parent.Children) {
			idx = len(parent.Children)
		}
		if idx < 0 {
			idx = 0
		}
		children := make([]Key, 0, len(parent.Children)+1)
		children = append(children, parent.Children[:idx]...)
		children = append(children, e.Child)
		children = append(children, parent.Children[idx:]...)
		parent.Children = children
		c.setChild(e.Child, e.Parent)
	case ChildRemoved:
		parent.Children = removeFirst(parent.Children, e.Child)
	}
	c.tree.replace(e.Parent, parent)
	return parent.Clone(), nil
}

func (c *Cache) setChild(child, parent Key) {
	item, ok := c.tree.get(child)
	if !ok {
		return
	}
	item.Parent = parent
	c.tree.replace(child, item)
}

func removeFirst(keys []Key, target Key) []Key {
	for i, k := range keys {
		if k == target {
			out := make([]Key, 0, len(keys)-1)
			out = append(out, keys[:i]...)
			out = append(out, keys[i+1:]...)
			return out
		}
	}
	return keys
}

// StateChangedEvent is "object:state-changed". It sets or clears a single
// state bit on Target, creating the item first if it was not cached.
type StateChangedEvent struct {
	Target  Key
	State   State
	Enabled bool
}

func (e StateChangedEvent) apply(ctx context.Context, c *Cache) (Item, error) {
	if _, err := c.GetOrCreate(ctx, e.Target); err != nil {
		return Item{}, err
	}
	return c.ModifyIfPresent(ctx, e.Target, func(item *Item) {
		if e.Enabled {
			item.States = item.States.With(e.State)
		} else {
			item.States = item.States.Without(e.State)
		}
	})
}

// TextDetail distinguishes the two directions a TextChangedEvent can
// describe.
type TextDetail int

const (
	TextInserted TextDetail = iota
	TextDeleted
)

// TextChangedEvent is "object:text-changed:insert" / ":delete". It splices
// InsertedText in (or removes Length characters) at Offset, clamped to the
// current text length, and normalizes an empty result back to absent.
type TextChangedEvent struct {
	Target       Key
	Detail       TextDetail
	Offset       int
	Length       int
	InsertedText string
}

func (e TextChangedEvent) apply(ctx context.Context, c *Cache) (Item, error) {
	if _, err := c.GetOrCreate(ctx, e.Target); err != nil {
		return Item{}, err
	}
	return c.ModifyIfPresent(ctx, e.Target, func(item *Item) {
		current := []rune(textOf(item.Text))
		offset := e.Offset
		if offset < 0 {
			offset = 0
		}
		if offset > len(current) {
			offset = len(current)
		}
		switch e.Detail {
		case TextInserted:
			spliced := make([]rune, 0, len(current)+len(e.InsertedText))
			spliced = append(spliced, current[:offset]...)
			spliced = append(spliced, []rune(e.InsertedText)...)
			spliced = append(spliced, current[offset:]...)
			current = spliced
		case TextDeleted:
			end := offset + e.Length
			if end > len(current) {
				end = len(current)
			}
			if end < offset {
				end = offset
			}
			spliced := make([]rune, 0, len(current)-(end-offset))
			spliced = append(spliced, current[:offset]...)
			spliced = append(spliced, current[end:]...)
			current = spliced
		}
		item.Text = normalizeText(string(current))
	})
}

// TextCaretMovedEvent is "object:text-caret-moved". It never mutates the
// store; it exists only so the caret position can travel alongside the
// (possibly lazily-populated) target item to a downstream consumer.
type TextCaretMovedEvent struct {
	Target   Key
	Position int
}

func (e TextCaretMovedEvent) apply(ctx context.Context, c *Cache) (Item, error) {
	return c.GetOrCreate(ctx, e.Target)
}

// Property names a recognized field a PropertyChangeEvent may update.
type Property int

const (
	PropertyName Property = iota
	PropertyDescription
	PropertyHelpText
	PropertyRole
	PropertyParent
)

// PropertyChangeEvent is "object:property-change:*". Only recognized
// properties are applied; an unrecognized Property value leaves the item
// untouched (the handler never errors on it — it simply has nothing to do).
type PropertyChangeEvent struct {
	Target   Key
	Property Property
	Text     string // used by Name/Description/HelpText
	Role     Role   // used by Role
	Parent   Key    // used by Parent
}

func (e PropertyChangeEvent) apply(ctx context.Context, c *Cache) (Item, error) {
	if _, err := c.GetOrCreate(ctx, e.Target); err != nil {
		return Item{}, err
	}
	return c.ModifyIfPresent(ctx, e.Target, func(item *Item) {
		switch e.Property {
		case PropertyName:
			item.Name = normalizeText(e.Text)
		case PropertyDescription:
			item.Description = normalizeText(e.Text)
		case PropertyHelpText:
			item.HelpText = normalizeText(e.Text)
		case PropertyRole:
			item.Role = e.Role
		case PropertyParent:
			item.Parent = e.Parent
		}
	})
}

// CacheAddEvent is "cache:add": the bus is announcing a newly created
// accessible via its thin descriptor shape. The descriptor is promoted to a
// full Item via Driver.LookupFromDescriptor and inserted first-write-wins.
type CacheAddEvent struct {
	Descriptor Descriptor
}

func (e CacheAddEvent) apply(ctx context.Context, c *Cache) (Item, error) {
	if item, ok := c.tree.get(e.Descriptor.Object); ok {
		return item.Clone(), nil
	}
	item, err := c.driver.LookupFromDescriptor(ctx, e.Descriptor)
	if err != nil {
		return Item{}, driverErr("lookup_from_descriptor", e.Descriptor.Object, err)
	}
	c.tree.insert(e.Descriptor.Object, item)
	return item.Clone(), nil
}

// CacheAddLegacyEvent is the legacy-wire-shape sibling of CacheAddEvent.
type CacheAddLegacyEvent struct {
	Descriptor LegacyDescriptor
}

func (e CacheAddLegacyEvent) apply(ctx context.Context, c *Cache) (Item, error) {
	if item, ok := c.tree.get(e.Descriptor.Object); ok {
		return item.Clone(), nil
	}
	item, err := c.driver.LookupFromLegacyDescriptor(ctx, e.Descriptor)
	if err != nil {
		return Item{}, driverErr("lookup_from_legacy_descriptor", e.Descriptor.Object, err)
	}
	c.tree.insert(e.Descriptor.Object, item)
	return item.Clone(), nil
}

// CacheRemoveEvent is "cache:remove": the target is dropped unconditionally.
type CacheRemoveEvent struct{ Key Key }

func (e CacheRemoveEvent) apply(ctx context.Context, c *Cache) (Item, error) {
	item, _ := c.Remove(e.Key)
	return item, nil
}

// ApplicationExitEvent fires when an application peer disconnects from the
// bus; the entire outer bucket for Sender is dropped in one step.
type ApplicationExitEvent struct{ Sender string }

func (e ApplicationExitEvent) apply(ctx context.Context, c *Cache) (Item, error) {
	c.tree.removeApp(e.Sender)
	return Item{}, nil
}

// The remaining event kinds round out the "15+" taxonomy spec.md §4.4
// alludes to. Each models a real AT-SPI Object/Window event. All but the two
// window events carry no cache-relevant mutation beyond making sure the
// target is populated, the same treatment TextCaretMovedEvent gets;
// WindowActivatedEvent and WindowDeactivatedEvent also set or clear
// StateActive.

// VisibleDataChangedEvent is "object:visible-data-changed" (geometry is not
// modeled in Item; only the target's presence matters here).
type VisibleDataChangedEvent struct{ Target Key }

func (e VisibleDataChangedEvent) apply(ctx context.Context, c *Cache) (Item, error) {
	return c.GetOrCreate(ctx, e.Target)
}

// SelectionChangedEvent is "object:selection-changed".
type SelectionChangedEvent struct{ Target Key }

func (e SelectionChangedEvent) apply(ctx context.Context, c *Cache) (Item, error) {
	return c.GetOrCreate(ctx, e.Target)
}

// ActiveDescendantChangedEvent is "object:active-descendant-changed".
type ActiveDescendantChangedEvent struct {
	Target Key
	Child  Key
}

func (e ActiveDescendantChangedEvent) apply(ctx context.Context, c *Cache) (Item, error) {
	if _, err := c.GetOrCreate(ctx, e.Child); err != nil {
		return Item{}, err
	}
	return c.GetOrCreate(ctx, e.Target)
}

// AnnouncementEvent is "object:announcement".
type AnnouncementEvent struct {
	Target Key
	Text   string
}

func (e AnnouncementEvent) apply(ctx context.Context, c *Cache) (Item, error) {
	return c.GetOrCreate(ctx, e.Target)
}

// AttributesChangedEvent is "object:attributes-changed". Free-form
// attributes are not modeled in Item, so this only ensures the target is
// populated.
type AttributesChangedEvent struct{ Target Key }

func (e AttributesChangedEvent) apply(ctx context.Context, c *Cache) (Item, error) {
	return c.GetOrCreate(ctx, e.Target)
}

// BoundsChangedEvent is "object:bounds-changed". Geometry is not modeled in
// Item.
type BoundsChangedEvent struct{ Target Key }

func (e BoundsChangedEvent) apply(ctx context.Context, c *Cache) (Item, error) {
	return c.GetOrCreate(ctx, e.Target)
}

// WindowActivatedEvent is "window:activate": it sets StateActive on Target.
type WindowActivatedEvent struct{ Target Key }

func (e WindowActivatedEvent) apply(ctx context.Context, c *Cache) (Item, error) {
	if _, err := c.GetOrCreate(ctx, e.Target); err != nil {
		return Item{}, err
	}
	return c.ModifyIfPresent(ctx, e.Target, func(item *Item) {
		item.States = item.States.With(StateActive)
	})
}

// WindowDeactivatedEvent is "window:deactivate": it clears StateActive on
// Target.
type WindowDeactivatedEvent struct{ Target Key }

func (e WindowDeactivatedEvent) apply(ctx context.Context, c *Cache) (Item, error) {
	if _, err := c.GetOrCreate(ctx, e.Target); err != nil {
		return Item{}, err
	}
	return c.ModifyIfPresent(ctx, e.Target, func(item *Item) {
		item.States = item.States.Without(StateActive)
	})
}

// applyEvent dispatches ev to its apply method. Unknown event kinds (a
// custom Event implementation outside this package that the dispatcher has
// no special knowledge of) are rejected with ErrUnknownEvent rather than a
// panic — the actor logs and discards it, per spec.md §7.
func (c *Cache) applyEvent(ctx context.Context, ev Event) (Item, error) {
	switch ev.(type) {
	case ChildrenChangedEvent, StateChangedEvent, TextChangedEvent, TextCaretMovedEvent,
		PropertyChangeEvent, CacheAddEvent, CacheAddLegacyEvent, CacheRemoveEvent,
		ApplicationExitEvent, VisibleDataChangedEvent, SelectionChangedEvent,
		ActiveDescendantChangedEvent, AnnouncementEvent, AttributesChangedEvent,
		BoundsChangedEvent, WindowActivatedEvent, WindowDeactivatedEvent:
		return ev.apply(ctx, c)
	default:
		return Item{}, ErrUnknownEvent
	}
}
