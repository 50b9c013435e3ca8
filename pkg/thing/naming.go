package thing

import (
	"fmt"
	"strings"
)

// Naming selects how attribute names of composite properties are formed.
type Naming uint8

const (
	// FlatNaming joins property and attribute with a dot: "location.lat".
	FlatNaming Naming = iota

	// ScopedNaming joins property and attribute with a colon: "location:lat".
	ScopedNaming
)

// String returns the naming mode name.
func (n Naming) String() string {
	switch n {
	case FlatNaming:
		return "flat"
	case ScopedNaming:
		return "scoped"
	default:
		return "unknown"
	}
}

// Separator returns the string placed between property and attribute.
func (n Naming) Separator() string {
	if n == ScopedNaming {
		return ":"
	}
	return "."
}

// Join builds the full attribute name. An empty attribute yields the
// property name itself.
func (n Naming) Join(property, attribute string) string {
	if attribute == "" {
		return property
	}
	return property + n.Separator() + attribute
}

// Split separates a full name at the first separator. The attribute is
// empty if the name contains no separator.
func (n Naming) Split(name string) (property, attribute string) {
	property, attribute, _ = strings.Cut(name, n.Separator())
	return property, attribute
}

// ParseNaming parses a naming mode name. An empty string selects
// FlatNaming.
func ParseNaming(s string) (Naming, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "flat", "full":
		return FlatNaming, nil
	case "scoped", "lite":
		return ScopedNaming, nil
	default:
		return 0, fmt.Errorf("unknown naming mode %q", s)
	}
}
