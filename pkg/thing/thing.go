package thing

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/thingsync/thing-go/pkg/log"
	"github.com/thingsync/thing-go/pkg/property"
)

// Config configures a Thing.
type Config struct {
	// Name is the device name recorded in sync events.
	Name string

	// BaseName is placed on the first record of every outbound pack and
	// stripped from inbound record names.
	BaseName string

	// Clock drives publish scheduling and change timestamps.
	// If nil, the system clock is used.
	Clock property.Clock

	// Naming selects how composite attributes are addressed.
	Naming Naming

	// UseIdentifiers makes Encode address properties by identifier
	// instead of by name.
	UseIdentifiers bool

	// IO is the attribute bridge used by ReadPass and WritePass.
	IO AttributeIO

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger receives sync events. If nil, events are discarded.
	ProtocolLogger log.Logger
}

// Stats counts what the container did since it was created.
type Stats struct {
	// Published is the number of property values handed to the transport.
	Published uint64

	// Applied is the number of inbound updates copied to local values.
	Applied uint64

	// Synced is the number of updates dispatched to sync hooks.
	Synced uint64

	// Dropped is the number of inbound updates that were ignored.
	Dropped uint64
}

// Thing is the property container of one device.
type Thing struct {
	config    Config
	clock     property.Clock
	logger    *slog.Logger
	plog      log.Logger
	sessionID string
	remote    string

	properties     []*property.Property
	primitiveCount int

	// syncing is set while a reconnection batch is dispatched.
	syncing bool

	stats Stats
}

// New creates an empty container.
func New(config Config) *Thing {
	clock := config.Clock
	if clock == nil {
		clock = property.NewSystemClock()
	}
	plog := config.ProtocolLogger
	if plog == nil {
		plog = log.NoopLogger{}
	}

	return &Thing{
		config:    config,
		clock:     clock,
		logger:    config.Logger,
		plog:      plog,
		sessionID: uuid.NewString(),
	}
}

// RegisterOption customizes a registration.
type RegisterOption func(*registerOptions)

type registerOptions struct {
	identifier int
}

// WithIdentifier assigns an explicit identifier. AutoIdentifier selects
// the next identifier in registration order.
func WithIdentifier(id int) RegisterOption {
	return func(o *registerOptions) {
		o.identifier = id
	}
}

// Register attaches p to the container under name.
//
// Registration is idempotent by name: if a property with the same name
// exists, the existing property is returned unchanged and p stays
// unattached. Without WithIdentifier the identifier is the first free one
// starting at the number of properties registered before.
func (t *Thing) Register(p *property.Property, name string, perm property.Permission, opts ...RegisterOption) (*property.Property, error) {
	if existing := t.Lookup(name); existing != nil {
		return existing, nil
	}

	if p == nil {
		return nil, fmt.Errorf("register %q: nil property", name)
	}
	if name == "" {
		return nil, ErrInvalidName
	}
	if perm != property.Read && perm != property.Write && perm != property.ReadWrite {
		return nil, fmt.Errorf("register %q: %w: %d", name, property.ErrInvalidPermission, perm)
	}
	if p.Active() {
		return nil, fmt.Errorf("register %q: %w", name, ErrAlreadyAttached)
	}

	o := registerOptions{identifier: property.AutoIdentifier}
	for _, opt := range opts {
		opt(&o)
	}

	id := o.identifier
	if id == property.AutoIdentifier {
		id = len(t.properties)
		for t.lookupExactIdentifier(id) != nil {
			id++
		}
	}
	if id < 0 {
		return nil, fmt.Errorf("register %q: %w: %d", name, ErrInvalidIdentifier, id)
	}
	if other := t.lookupExactIdentifier(id); other != nil {
		return nil, fmt.Errorf("register %q: %w: %d is used by %q", name, ErrDuplicateIdentifier, id, other.Name())
	}

	p.Attach(name, perm, id, t.clock)
	if p.IsPrimitive() {
		t.primitiveCount++
	}
	t.properties = append(t.properties, p)

	t.debug("property registered",
		"name", name,
		"identifier", id,
		"permission", perm.String(),
		"kind", p.Value().Kind().String())
	return p, nil
}

// Lookup returns the property with the given name, or nil.
func (t *Thing) Lookup(name string) *property.Property {
	for _, p := range t.properties {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// LookupByIdentifier returns the property with the given identifier, or
// nil. Identifiers above 255 are packed attribute tags and resolve via
// their low byte.
func (t *Thing) LookupByIdentifier(id int) *property.Property {
	if id > 255 {
		id &= 0xff
	}
	return t.lookupExactIdentifier(id)
}

// NameByIdentifier returns the name of the property LookupByIdentifier
// resolves to.
func (t *Thing) NameByIdentifier(id int) (string, bool) {
	p := t.LookupByIdentifier(id)
	if p == nil {
		return "", false
	}
	return p.Name(), true
}

func (t *Thing) lookupExactIdentifier(id int) *property.Property {
	for _, p := range t.properties {
		if p.Identifier() == id {
			return p
		}
	}
	return nil
}

// Properties returns the registered properties in registration order.
func (t *Thing) Properties() []*property.Property {
	out := make([]*property.Property, len(t.properties))
	copy(out, t.properties)
	return out
}

// Count returns the number of registered properties.
func (t *Thing) Count() int { return len(t.properties) }

// PrimitiveCount returns the number of registered scalar properties.
func (t *Thing) PrimitiveCount() int { return t.primitiveCount }

// Naming returns the configured attribute naming.
func (t *Thing) Naming() Naming { return t.config.Naming }

// SessionID returns the identifier stamped on all sync events.
func (t *Thing) SessionID() string { return t.sessionID }

// SetRemoteAddr records the mirror address for sync events.
func (t *Thing) SetRemoteAddr(addr string) { t.remote = addr }

// Stats returns a snapshot of the counters.
func (t *Thing) Stats() Stats { return t.stats }

// debug logs a debug message if logging is enabled.
func (t *Thing) debug(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Debug(msg, args...)
	}
}

// emit sends a sync event to the protocol logger.
func (t *Thing) emit(event log.Event) {
	event.Timestamp = time.Now()
	event.SessionID = t.sessionID
	event.DeviceName = t.config.Name
	event.RemoteAddr = t.remote
	t.plog.Log(event)
}

// drop records an ignored inbound update.
func (t *Thing) drop(name string, id int, reason log.DropReason) {
	t.stats.Dropped++
	t.debug("inbound update dropped", "name", name, "identifier", id, "reason", reason.String())
	t.emit(log.Event{
		Direction: log.DirectionIn,
		Layer:     log.LayerContainer,
		Category:  log.CategoryDropped,
		Property:  &log.PropertyEvent{Name: name, Identifier: id, Reason: reason},
	})
}
