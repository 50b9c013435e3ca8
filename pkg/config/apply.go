package config

import (
	"fmt"
	"strings"

	"github.com/thingsync/thing-go/pkg/property"
	"github.com/thingsync/thing-go/pkg/thing"
)

// Apply registers the declared properties on th, in declaration order,
// and returns them in the same order.
func Apply(th *thing.Thing, cfg *Config) ([]*property.Property, error) {
	out := make([]*property.Property, 0, len(cfg.Properties))
	for _, pc := range cfg.Properties {
		p, err := pc.build()
		if err != nil {
			return out, err
		}
		perm, err := property.ParsePermission(pc.Permission)
		if err != nil {
			return out, fmt.Errorf("property %q: %w", pc.Name, err)
		}

		var opts []thing.RegisterOption
		if pc.Identifier != nil {
			opts = append(opts, thing.WithIdentifier(*pc.Identifier))
		}
		registered, err := th.Register(p, pc.Name, perm, opts...)
		if err != nil {
			return out, err
		}
		out = append(out, registered)
	}
	return out, nil
}

// build creates the unattached property described by pc.
func (pc PropertyConfig) build() (*property.Property, error) {
	kind, err := property.ParseKind(pc.Type)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", pc.Name, err)
	}
	if _, err := property.ParsePermission(pc.Permission); err != nil {
		return nil, fmt.Errorf("property %q: %w", pc.Name, err)
	}

	v, err := property.NewValue(kind)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", pc.Name, err)
	}
	if pc.Initial != nil {
		if err := setInitial(v, pc.Initial); err != nil {
			return nil, fmt.Errorf("property %q: initial value: %w", pc.Name, err)
		}
	}

	p := property.New(v)
	if err := pc.Publish.apply(p); err != nil {
		return nil, fmt.Errorf("property %q: %w", pc.Name, err)
	}

	sync, err := property.ParseSyncPolicy(pc.Sync)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", pc.Name, err)
	}
	if sync != nil {
		p.OnSync(sync)
	}
	return p, nil
}

func (c PublishConfig) apply(p *property.Property) error {
	switch strings.ToLower(strings.TrimSpace(c.Mode)) {
	case "", "none":
		return nil
	case "on-change", "on_change", "onchange":
		minInterval, err := parseDuration(c.MinInterval)
		if err != nil {
			return fmt.Errorf("min_interval: %w", err)
		}
		p.PublishOnChange(c.MinDelta, minInterval)
	case "every", "interval":
		interval, err := parseDuration(c.Interval)
		if err != nil {
			return fmt.Errorf("interval: %w", err)
		}
		p.PublishEvery(interval)
	default:
		return fmt.Errorf("unknown publish mode %q", c.Mode)
	}
	return nil
}

// setInitial sets both copies of v. Composite values take a list in
// attribute order or a map keyed by attribute name.
func setInitial(v property.Value, initial any) error {
	attrs := v.Attributes()

	if v.IsPrimitive() {
		return setScalar(attrs[0].Scalar, initial)
	}

	switch init := initial.(type) {
	case []any:
		if len(init) != len(attrs) {
			return fmt.Errorf("want %d values, got %d", len(attrs), len(init))
		}
		for i, a := range attrs {
			if err := setScalar(a.Scalar, init[i]); err != nil {
				return fmt.Errorf("%s: %w", a.Name, err)
			}
		}
	case map[string]any:
		known := 0
		for _, a := range attrs {
			x, ok := init[a.Name]
			if !ok {
				continue
			}
			if err := setScalar(a.Scalar, x); err != nil {
				return fmt.Errorf("%s: %w", a.Name, err)
			}
			known++
		}
		if known != len(init) {
			return fmt.Errorf("unknown attribute in %v", init)
		}
	default:
		return fmt.Errorf("%w: composite value needs a list or map, got %T", property.ErrTypeMismatch, initial)
	}
	return nil
}

func setScalar(s property.Scalar, v any) error {
	if err := s.SetLocal(v); err != nil {
		return err
	}
	return s.SetCloud(v)
}
