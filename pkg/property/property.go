package property

import "time"

// AutoIdentifier asks the container to assign the next free identifier.
const AutoIdentifier = -1

// UpdateFunc is called when a property received a new value.
type UpdateFunc func(p *Property)

// SyncFunc decides, during reconnection replay, whether the cloud value
// replaces the local one.
type SyncFunc func(p *Property)

var defaultClock Clock = NewSystemClock()

// Property tracks one named value and its synchronization state.
//
// A Property is created unattached; the container attaches it exactly
// once at registration and owns it from then on. Properties are not safe
// for concurrent use.
type Property struct {
	name       string
	identifier int
	permission Permission
	value      Value
	clock      Clock
	active     bool

	policy      Policy
	minDelta    float64
	minInterval uint64 // ms
	interval    uint64 // ms

	onUpdate UpdateFunc
	onSync   SyncFunc

	updatedOnce        bool
	modifiedInCallback bool

	// lastUpdated is the monotonic time of the last publish.
	lastUpdated uint64

	// Epoch seconds used by reconnection sync.
	lastLocalChange uint64
	lastCloudChange uint64
}

// New creates an unattached property around v with PolicyNone.
func New(v Value) *Property {
	return &Property{
		value:      v,
		clock:      defaultClock,
		permission: Read,
	}
}

// Attach initializes identity and permission. It returns false if the
// property was already attached, in which case nothing changes.
func (p *Property) Attach(name string, perm Permission, identifier int, clock Clock) bool {
	if p.active {
		return false
	}
	p.name = name
	p.permission = perm
	p.identifier = identifier
	if clock != nil {
		p.clock = clock
	}
	p.active = true
	return true
}

// Active returns true once the property has been attached to a container.
func (p *Property) Active() bool { return p.active }

// Name returns the property name.
func (p *Property) Name() string { return p.name }

// Identifier returns the numeric identifier assigned at registration.
func (p *Property) Identifier() int { return p.identifier }

// Permission returns the property permission.
func (p *Property) Permission() Permission { return p.permission }

// Value returns the wrapped value.
func (p *Property) Value() Value { return p.value }

// IsReadableByCloud returns true if the value may flow to the cloud.
func (p *Property) IsReadableByCloud() bool { return p.permission.CanRead() }

// IsWritableByCloud returns true if the cloud may change the value.
func (p *Property) IsWritableByCloud() bool { return p.permission.CanWrite() }

// IsPrimitive returns true if the wrapped value is a scalar leaf.
func (p *Property) IsPrimitive() bool { return p.value.IsPrimitive() }

// Policy returns the configured update policy.
func (p *Property) Policy() Policy { return p.policy }

// MinDelta returns the change threshold used by PolicyOnChange.
func (p *Property) MinDelta() float64 { return p.minDelta }

// OnUpdate sets the change callback.
func (p *Property) OnUpdate(fn UpdateFunc) *Property {
	p.onUpdate = fn
	return p
}

// OnSync sets the reconnection sync callback.
func (p *Property) OnSync(fn SyncFunc) *Property {
	p.onSync = fn
	return p
}

// PublishOnChange publishes the value whenever it moved by at least
// minDelta, but not more often than once per minInterval.
func (p *Property) PublishOnChange(minDelta float64, minInterval time.Duration) *Property {
	p.policy = PolicyOnChange
	p.minDelta = minDelta
	p.minInterval = durationMillis(minInterval)
	return p
}

// PublishEvery publishes the value once per interval regardless of changes.
func (p *Property) PublishEvery(interval time.Duration) *Property {
	p.policy = PolicyTimeInterval
	p.interval = durationMillis(interval)
	return p
}

// PublishAt configures the policy from an Interval constant: OnChange
// selects PublishOnChange(minDelta, 0), anything else a periodic publish.
func (p *Property) PublishAt(every Interval, minDelta float64) *Property {
	if every == OnChange {
		return p.PublishOnChange(minDelta, 0)
	}
	return p.PublishEvery(time.Duration(every) * time.Second)
}

// ShouldBeUpdated reports whether the property has to be transmitted now.
// A pending forced update from ExecOnChange is consumed by the call.
func (p *Property) ShouldBeUpdated() bool {
	if p.updatedOnce && p.modifiedInCallback {
		p.modifiedInCallback = false
		return true
	}
	return p.IsDue()
}

// IsDue is ShouldBeUpdated without consuming a pending forced update.
// MarkPublished consumes it instead.
func (p *Property) IsDue() bool {
	if !p.updatedOnce || p.modifiedInCallback {
		return true
	}

	elapsed := p.clock.Millis() - p.lastUpdated
	switch p.policy {
	case PolicyOnChange:
		return p.value.IsDifferentFromCloud(p.minDelta) && elapsed >= p.minInterval
	case PolicyTimeInterval:
		return elapsed >= p.interval
	default:
		return false
	}
}

// MarkPublished records that the current value was handed to the
// transport. The cloud copy becomes the local copy.
func (p *Property) MarkPublished() {
	p.updatedOnce = true
	p.modifiedInCallback = false
	p.lastUpdated = p.clock.Millis()
	p.value.FromLocalToCloud()
}

// IsDifferentFromCloud reports whether the local copy differs from the
// cloud copy, honoring the configured delta.
func (p *Property) IsDifferentFromCloud() bool {
	return p.value.IsDifferentFromCloud(p.minDelta)
}

// FromCloudToLocal overwrites the local copy with the cloud copy.
func (p *Property) FromCloudToLocal() { p.value.FromCloudToLocal() }

// ExecOnChange runs the update callback. If the value matches the cloud
// copy afterwards, the next ShouldBeUpdated call fires once more.
func (p *Property) ExecOnChange() {
	if p.onUpdate != nil {
		p.onUpdate(p)
	}
	if !p.value.IsDifferentFromCloud(p.minDelta) {
		p.modifiedInCallback = true
	}
}

// ExecOnSync runs the sync callback.
func (p *Property) ExecOnSync() {
	if p.onSync != nil {
		p.onSync(p)
	}
}

// UpdateLocalTimestamp stamps the local change time for remote-readable
// properties. Without a wall clock the stamp is 0.
func (p *Property) UpdateLocalTimestamp() {
	if !p.IsReadableByCloud() {
		return
	}
	epoch, ok := p.clock.Epoch()
	if !ok {
		epoch = 0
	}
	p.lastLocalChange = epoch
}

// LastUpdated returns the monotonic millisecond time of the last publish.
func (p *Property) LastUpdated() uint64 { return p.lastUpdated }

// LastLocalChange returns the epoch of the last local change.
func (p *Property) LastLocalChange() uint64 { return p.lastLocalChange }

// SetLastLocalChange sets the epoch of the last local change.
func (p *Property) SetLastLocalChange(t uint64) { p.lastLocalChange = t }

// LastCloudChange returns the epoch of the last cloud change.
func (p *Property) LastCloudChange() uint64 { return p.lastCloudChange }

// SetLastCloudChange sets the epoch of the last cloud change.
func (p *Property) SetLastCloudChange(t uint64) { p.lastCloudChange = t }

func durationMillis(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(d.Milliseconds())
}
