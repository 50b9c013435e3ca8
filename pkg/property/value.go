package property

import (
	"fmt"
	"strings"
)

// Kind identifies the type of a property value.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindLocation
)

// String returns the kind name.
func (k Kind) String() string {
	names := []string{"unknown", "bool", "int", "float", "string", "location"}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// ParseKind parses a kind name as used in device description files.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bool", "boolean":
		return KindBool, nil
	case "int", "integer":
		return KindInt, nil
	case "float", "number", "double":
		return KindFloat, nil
	case "string", "text":
		return KindString, nil
	case "location":
		return KindLocation, nil
	default:
		return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// NewValue creates a zero value of the given kind.
func NewValue(k Kind) (Value, error) {
	switch k {
	case KindBool:
		return NewBool(false), nil
	case KindInt:
		return NewInt(0), nil
	case KindFloat:
		return NewFloat(0), nil
	case KindString:
		return NewString(""), nil
	case KindLocation:
		return NewLocation(0, 0), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, k)
	}
}

// Value is the capability set every property value provides.
type Value interface {
	// Kind returns the value type.
	Kind() Kind

	// IsPrimitive returns true for scalar leaves.
	IsPrimitive() bool

	// IsDifferentFromCloud reports whether the local copy differs from the
	// cloud copy. Numeric values only count differences of at least minDelta.
	IsDifferentFromCloud(minDelta float64) bool

	// FromCloudToLocal copies the cloud copy over the local copy.
	FromCloudToLocal()

	// FromLocalToCloud copies the local copy over the cloud copy.
	FromLocalToCloud()

	// Attributes lists the scalar leaves that make up the value. A
	// primitive returns itself with an empty attribute name.
	Attributes() []Attribute
}

// Attribute is one addressable scalar leaf of a value.
type Attribute struct {
	// Name is the attribute name within the property ("" for primitives).
	Name string

	// Scalar holds the attribute's local and cloud copies.
	Scalar Scalar
}

// Scalar is a primitive value whose copies can be read and set
// generically, as needed by the codec and the hardware bridge.
type Scalar interface {
	Value

	// Local returns the local copy.
	Local() any

	// Cloud returns the cloud copy.
	Cloud() any

	// SetLocal sets the local copy. Numbers of any Go type are accepted
	// by numeric scalars.
	SetLocal(v any) error

	// SetCloud sets the cloud copy.
	SetCloud(v any) error
}
