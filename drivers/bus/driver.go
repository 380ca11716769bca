// Package bus implements cache.Driver against a live AT-SPI accessibility
// bus connection over D-Bus.
package bus

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
	cache "github.com/odilia-app/cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const ifaceAccessible = "org.a11y.atspi.Accessible"

// accessibleRef is the wire shape AT-SPI uses for an accessible reference: a
// bus name paired with an object path.
type accessibleRef struct {
	Sender string
	Path   dbus.ObjectPath
}

func (r accessibleRef) key() cache.Key {
	if r.Sender == "" && r.Path == "" {
		return cache.Key{}
	}
	return cache.NewKey(r.Sender, string(r.Path))
}

// Driver talks to the accessibility bus via godbus. LookupExternal fans its
// several property reads out in parallel with errgroup, since the name,
// description, role, children, state set, and interface set of one
// accessible are independent reads that do not need to serialize against
// each other.
type Driver struct {
	conn *dbus.Conn
	cfg  Config
	log  *zap.Logger
}

// Dial connects to the bus named by cfg.Address (or the session bus if
// empty) and returns a ready Driver.
func Dial(cfg Config, log *zap.Logger) (*Driver, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var conn *dbus.Conn
	var err error
	if cfg.Address == "" {
		conn, err = dbus.SessionBusPrivate()
	} else {
		conn, err = dbus.Dial(cfg.Address)
	}
	if err != nil {
		return nil, fmt.Errorf("bus: dial: %w", err)
	}
	if err := conn.Auth(nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("bus: auth: %w", err)
	}
	if err := conn.Hello(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("bus: hello: %w", err)
	}
	return &Driver{conn: conn, cfg: cfg, log: log}, nil
}

// Close disconnects the underlying bus connection.
func (d *Driver) Close() error {
	return d.conn.Close()
}

func (d *Driver) object(key cache.Key) (dbus.BusObject, error) {
	if !d.cfg.allowed(key.Sender) {
		return nil, fmt.Errorf("bus: destination %q is not in the allow list", key.Sender)
	}
	return d.conn.Object(key.Sender, dbus.ObjectPath(key.ID)), nil
}

// call invokes method on obj, bounding the round trip by d.cfg.Timeout when
// one is configured. A caller-supplied deadline that is already tighter than
// cfg.Timeout is left alone: context.WithTimeout only ever shortens ctx.
func (d *Driver) call(ctx context.Context, obj dbus.BusObject, method string, dest interface{}, args ...interface{}) error {
	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}
	return obj.CallWithContext(ctx, ifaceAccessible+"."+method, 0, args...).Store(dest)
}

// accessibleProps is every property LookupExternal reads, fetched in
// parallel.
type accessibleProps struct {
	name        string
	description string
	roleName    string
	parent      accessibleRef
	children    []accessibleRef
	states      []uint32
	interfaces  []string
}

func (d *Driver) fetchProps(ctx context.Context, key cache.Key) (accessibleProps, error) {
	obj, err := d.object(key)
	if err != nil {
		return accessibleProps{}, err
	}

	var props accessibleProps
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.call(gctx, obj, "GetName", &props.name) })
	g.Go(func() error { return d.call(gctx, obj, "GetDescription", &props.description) })
	g.Go(func() error { return d.call(gctx, obj, "GetRoleName", &props.roleName) })
	g.Go(func() error { return d.call(gctx, obj, "GetParent", &props.parent) })
	g.Go(func() error { return d.call(gctx, obj, "GetChildren", &props.children) })
	g.Go(func() error { return d.call(gctx, obj, "GetState", &props.states) })
	g.Go(func() error { return d.call(gctx, obj, "GetInterfaces", &props.interfaces) })

	if err := g.Wait(); err != nil {
		return accessibleProps{}, err
	}
	return props, nil
}

func childKeys(refs []accessibleRef) []cache.Key {
	out := make([]cache.Key, len(refs))
	for i, r := range refs {
		out[i] = r.key()
	}
	return out
}

func (props accessibleProps) toItem(self cache.Key) cache.Item {
	childCount := len(props.children)
	return cache.Item{
		Object:      self,
		App:         cache.NewKey(self.Sender, "/org/a11y/atspi/accessible/root"),
		Parent:      props.parent.key(),
		Role:        roleFromWireName(props.roleName),
		States:      stateSetFromWire(props.states),
		Interfaces:  interfaceSetFromNames(props.interfaces),
		Children:    childKeys(props.children),
		ChildrenNum: &childCount,
		Name:        normalizeTextField(props.name),
		Description: normalizeTextField(props.description),
	}
}

func normalizeTextField(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// LookupExternal fetches every property of a single accessible.
func (d *Driver) LookupExternal(ctx context.Context, key cache.Key) (cache.Item, error) {
	props, err := d.fetchProps(ctx, key)
	if err != nil {
		return cache.Item{}, err
	}
	return props.toItem(key), nil
}

// LookupBulk fetches the root accessible of key.Sender and every
// descendant, flattened, supplementing the application with a full-tree
// prefetch the way a real AT-SPI peer answers a "cache:add" burst on
// startup.
func (d *Driver) LookupBulk(ctx context.Context, key cache.Key) ([]cache.Item, error) {
	root := cache.NewKey(key.Sender, "/org/a11y/atspi/accessible/root")
	return d.lookupSubtree(ctx, root)
}

func (d *Driver) lookupSubtree(ctx context.Context, root cache.Key) ([]cache.Item, error) {
	visited := map[cache.Key]bool{root: true}
	queue := []cache.Key{root}
	var out []cache.Item

	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]

		item, err := d.LookupExternal(ctx, key)
		if err != nil {
			return nil, err
		}
		out = append(out, item)

		for _, child := range item.Children {
			if visited[child] {
				continue
			}
			visited[child] = true
			queue = append(queue, child)
		}
	}
	return out, nil
}

// LookupRelations fetches the relation set for key and returns the targets
// of the single requested kind.
func (d *Driver) LookupRelations(ctx context.Context, key cache.Key, ty cache.RelationType) ([]cache.Key, error) {
	obj, err := d.object(key)
	if err != nil {
		return nil, err
	}

	var relations []struct {
		Kind    uint32
		Targets []accessibleRef
	}
	if err := d.call(ctx, obj, "GetRelationSet", &relations); err != nil {
		return nil, err
	}

	for _, rel := range relations {
		if cache.RelationType(rel.Kind) == ty {
			return childKeys(rel.Targets), nil
		}
	}
	return nil, nil
}

// LookupFromDescriptor promotes a thin cache:add descriptor into a full
// Item by filling in the textual fields LookupExternal would otherwise
// supply.
func (d *Driver) LookupFromDescriptor(ctx context.Context, desc cache.Descriptor) (cache.Item, error) {
	obj, err := d.object(desc.Object)
	if err != nil {
		return cache.Item{}, err
	}
	var name, description string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.call(gctx, obj, "GetName", &name) })
	g.Go(func() error { return d.call(gctx, obj, "GetDescription", &description) })
	if err := g.Wait(); err != nil {
		return cache.Item{}, err
	}

	childCount := desc.ChildCount
	return cache.Item{
		Object:      desc.Object,
		App:         desc.App,
		Parent:      desc.Parent,
		Interfaces:  desc.Interfaces,
		Role:        desc.Role,
		States:      desc.States,
		Children:    desc.Children,
		ChildrenNum: &childCount,
		Name:        normalizeTextField(name),
		Description: normalizeTextField(description),
	}, nil
}

// LookupFromLegacyDescriptor is the same promotion for the legacy wire
// shape, which already carries a plain Name instead of ShortName.
func (d *Driver) LookupFromLegacyDescriptor(ctx context.Context, desc cache.LegacyDescriptor) (cache.Item, error) {
	obj, err := d.object(desc.Object)
	if err != nil {
		return cache.Item{}, err
	}
	var description string
	if err := d.call(ctx, obj, "GetDescription", &description); err != nil {
		return cache.Item{}, err
	}

	childCount := len(desc.Children)
	return cache.Item{
		Object:      desc.Object,
		App:         desc.App,
		Parent:      desc.Parent,
		Interfaces:  desc.Interfaces,
		Role:        desc.Role,
		States:      desc.States,
		Children:    desc.Children,
		ChildrenNum: &childCount,
		Name:        normalizeTextField(desc.Name),
		Description: normalizeTextField(description),
	}, nil
}

var _ cache.Driver = (*Driver)(nil)
