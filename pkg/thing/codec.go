package thing

import (
	"fmt"
	"strings"

	"github.com/thingsync/thing-go/pkg/log"
	"github.com/thingsync/thing-go/pkg/property"
	"github.com/thingsync/thing-go/pkg/wire"
)

// Encode collects every cloud-readable property that is due for
// publication into one record pack and marks it published. It returns
// nil without error if nothing is due.
func (t *Thing) Encode() ([]byte, error) {
	return t.encode(false)
}

// EncodeAll is Encode with every cloud-readable property forced into the
// pack, as needed after a reconnection.
func (t *Thing) EncodeAll() ([]byte, error) {
	return t.encode(true)
}

func (t *Thing) encode(all bool) ([]byte, error) {
	var due []*property.Property
	var records []wire.Record
	for _, p := range t.properties {
		if !p.IsReadableByCloud() {
			continue
		}
		// IsDue leaves a forced update pending until MarkPublished, so a
		// failed encode keeps it.
		if !all && !p.IsDue() {
			continue
		}
		recs, err := t.records(p)
		if err != nil {
			return nil, err
		}
		due = append(due, p)
		records = append(records, recs...)
	}
	if len(records) == 0 {
		return nil, nil
	}

	if t.config.BaseName != "" {
		records[0].BaseName = t.config.BaseName
	}
	if epoch, ok := t.clock.Epoch(); ok {
		records[0].BaseTime = float64(epoch)
	}

	data, err := wire.Encode(records)
	if err != nil {
		t.emit(log.Event{
			Direction: log.DirectionOut,
			Layer:     log.LayerWire,
			Category:  log.CategoryError,
			Error:     &log.ErrorEventData{Layer: log.LayerWire, Message: err.Error(), Context: "encode"},
		})
		return nil, err
	}

	for _, p := range due {
		p.MarkPublished()
	}
	t.stats.Published += uint64(len(due))

	t.debug("pack encoded", "properties", len(due), "records", len(records), "size", len(data))
	t.emit(log.Event{
		Direction: log.DirectionOut,
		Layer:     log.LayerWire,
		Category:  log.CategoryPublish,
		Pack:      &log.PackEvent{Records: len(records), Size: len(data)},
	})
	return data, nil
}

// records converts a property into one record per attribute.
func (t *Thing) records(p *property.Property) ([]wire.Record, error) {
	attrs := p.Value().Attributes()
	out := make([]wire.Record, 0, len(attrs))
	for i, attr := range attrs {
		v, err := wireValue(attr.Scalar.Local())
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", p.Name(), err)
		}
		r := wire.Record{Value: v}
		if t.config.UseIdentifiers {
			r.HasIdentifier = true
			r.Identifier = p.Identifier()
			if !p.IsPrimitive() {
				r.Identifier = (i+1)<<8 | p.Identifier()
			}
		} else {
			r.Name = t.config.Naming.Join(p.Name(), attr.Name)
		}
		out = append(out, r)
	}
	return out, nil
}

func wireValue(v any) (wire.Value, error) {
	switch v := v.(type) {
	case bool:
		return wire.BoolValue(v), nil
	case int64:
		return wire.IntValue(v), nil
	case float64:
		return wire.NumberValue(v), nil
	case string:
		return wire.StringValue(v), nil
	default:
		return wire.Value{}, fmt.Errorf("%w: %T", property.ErrTypeMismatch, v)
	}
}

// Decode decodes a record pack received from the cloud, stores each
// value in the cloud copy of its property and dispatches the changed
// properties with ApplyBatch.
//
// Records for unknown or non-writable properties, and values that do not
// fit the property type, are dropped. Only a malformed pack is an error.
func (t *Thing) Decode(data []byte, sync bool) error {
	records, err := wire.Decode(data)
	if err != nil {
		t.emit(log.Event{
			Direction: log.DirectionIn,
			Layer:     log.LayerWire,
			Category:  log.CategoryError,
			Error:     &log.ErrorEventData{Layer: log.LayerWire, Message: err.Error(), Context: "decode"},
		})
		return err
	}

	t.emit(log.Event{
		Direction: log.DirectionIn,
		Layer:     log.LayerWire,
		Category:  log.CategoryInbound,
		Pack:      &log.PackEvent{Records: len(records), Size: len(data), Sync: sync},
	})

	var updates []Update
	for _, r := range records {
		p, scalar, label := t.resolve(r)
		if p == nil {
			t.drop(label, r.Identifier, log.DropUnknownProperty)
			continue
		}
		if !p.IsWritableByCloud() {
			t.drop(p.Name(), p.Identifier(), log.DropNotWritable)
			continue
		}
		if scalar == nil {
			t.drop(label, p.Identifier(), log.DropUnknownProperty)
			continue
		}
		if err := setCloud(scalar, r.Value); err != nil {
			t.debug("inbound value rejected", "name", label, "error", err)
			t.drop(p.Name(), p.Identifier(), log.DropTypeMismatch)
			continue
		}

		var ts uint64
		if at := r.AbsoluteTime(); at > 0 {
			ts = uint64(at)
		}
		updates = append(updates, Update{Name: p.Name(), Time: ts})
	}

	if len(updates) > 0 {
		t.ApplyBatch(updates, sync)
	}
	return nil
}

// resolve finds the property and attribute a record addresses. The label
// names the record for diagnostics.
func (t *Thing) resolve(r wire.Record) (*property.Property, property.Scalar, string) {
	if r.HasIdentifier {
		label := fmt.Sprintf("#%d", r.Identifier)
		p := t.LookupByIdentifier(r.Identifier)
		if p == nil {
			return nil, nil, label
		}
		index := 0
		if r.Identifier > 255 {
			index = r.Identifier>>8 - 1
		}
		attrs := p.Value().Attributes()
		if index >= len(attrs) {
			return p, nil, label
		}
		return p, attrs[index].Scalar, label
	}

	name := strings.TrimPrefix(r.FullName(), t.config.BaseName)
	if p := t.Lookup(name); p != nil {
		if p.IsPrimitive() {
			return p, p.Value().Attributes()[0].Scalar, name
		}
		return p, nil, name
	}

	prop, attr := t.config.Naming.Split(name)
	p := t.Lookup(prop)
	if p == nil {
		return nil, nil, name
	}
	for _, a := range p.Value().Attributes() {
		if attr != "" && a.Name == attr {
			return p, a.Scalar, name
		}
	}
	return p, nil, name
}

func setCloud(s property.Scalar, v wire.Value) error {
	switch v.Kind {
	case wire.ValueNumber:
		f, ok := v.Float64()
		if !ok {
			return fmt.Errorf("%w: undecodable number", property.ErrTypeMismatch)
		}
		return s.SetCloud(f)
	case wire.ValueString:
		return s.SetCloud(v.String)
	case wire.ValueBool:
		return s.SetCloud(v.Bool)
	default:
		return fmt.Errorf("%w: record has no value", property.ErrTypeMismatch)
	}
}
