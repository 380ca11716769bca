package cache

import "context"

// Driver is the abstract, asynchronous collaborator the cache calls out to
// on a miss. It is the only seam between the cache and the accessibility
// bus: transport, authentication, and marshalling all live behind it, which
// is what lets tests run the cache entirely in-memory against a fixture or
// panic-on-call implementation (see drivers/fixture).
//
// Implementations must be safe to call from the single actor goroutine that
// owns the Cache; they may internally spawn their own goroutines, but must
// not touch the Cache themselves.
type Driver interface {
	// LookupExternal fetches a single accessible that was not found in the
	// cache.
	LookupExternal(ctx context.Context, key Key) (Item, error)

	// LookupBulk fetches every accessible owned by key.Sender. The cache
	// never caches this as the response to a single-key miss — it is only
	// ever used to prefetch an entire application on first touch.
	LookupBulk(ctx context.Context, key Key) ([]Item, error)

	// LookupRelations fetches the relation targets of kind ty for key. This
	// is separate from LookupExternal because a relation set can be large
	// and should only be fetched when a consumer actually asks for it.
	LookupRelations(ctx context.Context, key Key, ty RelationType) ([]Key, error)

	// LookupFromDescriptor promotes a thin upstream cache descriptor (as
	// delivered by a cache:add event) into a full Item by supplementing the
	// fields the descriptor doesn't carry with further bus calls.
	LookupFromDescriptor(ctx context.Context, d Descriptor) (Item, error)

	// LookupFromLegacyDescriptor is the same promotion for the legacy wire
	// shape older bus peers still emit.
	LookupFromLegacyDescriptor(ctx context.Context, d LegacyDescriptor) (Item, error)
}

// Descriptor is the thin "cache:add" shape the bus sends for a newly created
// accessible: it already carries the bitsets, role, and declared child
// count, but not the textual fields; the bus driver's LookupFromDescriptor
// fills in the name and description (help text and text content are left
// absent).
type Descriptor struct {
	Object      Key
	App         Key
	Parent      Key
	Index       int
	ChildCount  int
	Interfaces  InterfaceSet
	Role        Role
	States      StateSet
	ShortName   string
	Children    []Key
	HasChildren bool
}

// LegacyDescriptor is the older "cache:add" wire shape: it carries a full
// children list instead of a declared count, a plain Name instead of
// ShortName, and no index (callers must look the index up separately).
type LegacyDescriptor struct {
	Object     Key
	App        Key
	Parent     Key
	Interfaces InterfaceSet
	Role       Role
	States     StateSet
	Children   []Key
	Name       string
}
