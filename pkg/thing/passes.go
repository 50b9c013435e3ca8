package thing

import (
	"errors"
	"fmt"

	"github.com/thingsync/thing-go/pkg/log"
	"github.com/thingsync/thing-go/pkg/property"
)

// Update is one inbound change for a property.
type Update struct {
	// Name is the property name.
	Name string

	// Time is the epoch second at which the cloud changed the value.
	Time uint64
}

// ReadPass reads the cloud-writable properties from the attribute bridge
// into their cloud copies and applies each one as an inbound update with
// change time 0.
//
// Unlike a literal read of every property, two cases are skipped on
// purpose: properties the cloud may not write (their inbound update would
// be ignored anyway) and properties whose bridge value equals the local
// value. Update callbacks therefore only fire on changes, and an unchanged
// value is not republished every cycle. Callers that need a callback for
// every property on every pass use ReadSyncPass.
//
// A failing read skips the property; the pass continues and all failures
// are returned joined.
func (t *Thing) ReadPass() error {
	return t.readPass(false)
}

// ReadSyncPass is ReadPass with every cloud-writable value dispatched to
// the sync hooks, changed or not.
func (t *Thing) ReadSyncPass() error {
	return t.readPass(true)
}

func (t *Thing) readPass(sync bool) error {
	if t.config.IO == nil {
		return ErrNoAttributeIO
	}

	t.syncing = sync
	defer func() { t.syncing = false }()

	var errs []error
	for _, p := range t.properties {
		if !p.IsWritableByCloud() {
			continue
		}
		if err := t.readProperty(p); err != nil {
			errs = append(errs, err)
			continue
		}
		if !sync && !p.Value().IsDifferentFromCloud(0) {
			continue
		}
		t.applyInbound(p, 0)
	}
	return t.passError("read", errs)
}

func (t *Thing) readProperty(p *property.Property) error {
	io := t.config.IO
	for _, attr := range p.Value().Attributes() {
		name := t.config.Naming.Join(p.Name(), attr.Name)

		var v any
		var err error
		switch attr.Scalar.Kind() {
		case property.KindBool:
			v, err = io.ReadBool(name)
		case property.KindInt:
			v, err = io.ReadInt(name)
		case property.KindFloat:
			v, err = io.ReadFloat(name)
		case property.KindString:
			v, err = io.ReadString(name)
		default:
			err = fmt.Errorf("%w: %s", property.ErrUnknownKind, attr.Scalar.Kind())
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if err := attr.Scalar.SetCloud(v); err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
	}
	return nil
}

// WritePass writes the local value of every property to the attribute
// bridge, in registration order. A failing write does not stop the pass;
// all failures are returned joined.
func (t *Thing) WritePass() error {
	if t.config.IO == nil {
		return ErrNoAttributeIO
	}

	io := t.config.IO
	var errs []error
	for _, p := range t.properties {
		for _, attr := range p.Value().Attributes() {
			name := t.config.Naming.Join(p.Name(), attr.Name)

			var err error
			switch v := attr.Scalar.Local().(type) {
			case bool:
				err = io.WriteBool(name, v)
			case int64:
				err = io.WriteInt(name, v)
			case float64:
				err = io.WriteFloat(name, v)
			case string:
				err = io.WriteString(name, v)
			default:
				err = fmt.Errorf("%w: %T", property.ErrTypeMismatch, v)
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("write %s: %w", name, err))
			}
		}
	}
	return t.passError("write", errs)
}

func (t *Thing) passError(pass string, errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	err := errors.Join(errs...)
	t.debug("pass failed", "pass", pass, "failures", len(errs))
	t.emit(log.Event{
		Layer:    log.LayerContainer,
		Category: log.CategoryError,
		Error:    &log.ErrorEventData{Layer: log.LayerContainer, Message: err.Error(), Context: pass + " pass"},
	})
	return err
}

// ApplyInbound applies a remote change of the named property whose cloud
// copy has already been set. Unknown and non-writable properties are
// ignored. Outside a sync batch the cloud value replaces the local value
// and the update callback runs; inside one the sync hook decides.
func (t *Thing) ApplyInbound(name string, remoteChangeTime uint64) {
	p := t.Lookup(name)
	if p == nil {
		t.drop(name, property.AutoIdentifier, log.DropUnknownProperty)
		return
	}
	t.applyInbound(p, remoteChangeTime)
}

func (t *Thing) applyInbound(p *property.Property, remoteChangeTime uint64) {
	if !p.IsWritableByCloud() {
		t.drop(p.Name(), p.Identifier(), log.DropNotWritable)
		return
	}

	p.SetLastCloudChange(remoteChangeTime)

	if t.syncing {
		t.stats.Synced++
		t.emit(log.Event{
			Direction: log.DirectionIn,
			Layer:     log.LayerContainer,
			Category:  log.CategorySync,
			Property: &log.PropertyEvent{
				Name:        p.Name(),
				Identifier:  p.Identifier(),
				LocalChange: p.LastLocalChange(),
				CloudChange: remoteChangeTime,
			},
		})
		p.ExecOnSync()
		return
	}

	t.stats.Applied++
	p.FromCloudToLocal()
	t.emit(log.Event{
		Direction: log.DirectionIn,
		Layer:     log.LayerContainer,
		Category:  log.CategoryInbound,
		Property: &log.PropertyEvent{
			Name:       p.Name(),
			Identifier: p.Identifier(),
			Value:      localValue(p),
		},
	})
	p.ExecOnChange()
}

// ApplyBatch applies a batch of inbound updates whose cloud copies have
// already been set. Updates are dispatched in registration order, not in
// batch order. If sync is true, every update of the batch goes to the
// sync hook of its property.
func (t *Thing) ApplyBatch(updates []Update, sync bool) {
	t.syncing = sync
	defer func() { t.syncing = false }()

	times := make(map[string]uint64, len(updates))
	for _, u := range updates {
		times[u.Name] = u.Time
	}

	for _, p := range t.properties {
		ts, ok := times[p.Name()]
		if !ok {
			continue
		}
		delete(times, p.Name())
		t.applyInbound(p, ts)
	}

	// Whatever is left matched no property.
	for _, u := range updates {
		if _, ok := times[u.Name]; ok {
			delete(times, u.Name)
			t.drop(u.Name, property.AutoIdentifier, log.DropUnknownProperty)
		}
	}
}

// UpdateTimestampsForLocallyChanged stamps the local change time of every
// primitive, cloud-readable property whose local value differs from its
// cloud copy. Called while disconnected, so a later sync batch can tell
// which side changed last.
func (t *Thing) UpdateTimestampsForLocallyChanged() {
	if t.primitiveCount == 0 {
		return
	}
	for _, p := range t.properties {
		if p.IsPrimitive() && p.IsReadableByCloud() && p.Value().IsDifferentFromCloud(0) {
			p.UpdateLocalTimestamp()
		}
	}
}

// localValue returns the local value of a primitive property, or nil.
func localValue(p *property.Property) any {
	if !p.IsPrimitive() {
		return nil
	}
	if s, ok := p.Value().(property.Scalar); ok {
		return s.Local()
	}
	return nil
}
