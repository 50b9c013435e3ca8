package wire

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/thingsync/thing-go/pkg/numeric"
)

// SenML CBOR labels (RFC 8428 section 6).
const (
	KeyBaseName    = -2
	KeyBaseTime    = -3
	KeyName        = 0
	KeyValue       = 2
	KeyStringValue = 3
	KeyBoolValue   = 4
	KeyTime        = 6
)

// Codec errors.
var (
	ErrEmptyPack     = errors.New("empty pack")
	ErrInvalidRecord = errors.New("invalid record")
)

// ValueKind identifies which SenML value field a record carries.
type ValueKind uint8

const (
	ValueNone ValueKind = iota
	ValueNumber
	ValueString
	ValueBool
)

// String returns the value kind name.
func (k ValueKind) String() string {
	switch k {
	case ValueNumber:
		return "number"
	case ValueString:
		return "string"
	case ValueBool:
		return "bool"
	default:
		return "none"
	}
}

// Value is the tagged value of a record.
type Value struct {
	Kind ValueKind

	// Number holds the encoded CBOR number as received or produced.
	Number cbor.RawMessage

	String string
	Bool   bool
}

// NumberValue creates a numeric value using the shortest lossless float.
func NumberValue(f float64) Value {
	// Encoding a float64 cannot fail.
	raw, _ := Marshal(f)
	return Value{Kind: ValueNumber, Number: raw}
}

// IntValue creates a numeric value encoded as a CBOR integer.
func IntValue(i int64) Value {
	raw, _ := Marshal(i)
	return Value{Kind: ValueNumber, Number: raw}
}

// StringValue creates a text value.
func StringValue(s string) Value { return Value{Kind: ValueString, String: s} }

// BoolValue creates a boolean value.
func BoolValue(b bool) Value { return Value{Kind: ValueBool, Bool: b} }

// Float64 converts a numeric value. It returns false for other kinds and
// for numbers that cannot be decoded.
func (v Value) Float64() (float64, bool) {
	if v.Kind != ValueNumber {
		return 0, false
	}
	return numeric.FromRaw(v.Number)
}

// Any returns the value as float64, string or bool, or nil.
func (v Value) Any() any {
	switch v.Kind {
	case ValueNumber:
		if f, ok := v.Float64(); ok {
			return f
		}
	case ValueString:
		return v.String
	case ValueBool:
		return v.Bool
	}
	return nil
}

// Record is one SenML record.
type Record struct {
	BaseName string
	BaseTime float64

	// Name addresses the property by name. Ignored if HasIdentifier is set.
	Name string

	// Identifier addresses the property numerically.
	Identifier    int
	HasIdentifier bool

	// Time is relative to BaseTime; the sum is a Unix time in seconds.
	Time float64

	Value Value

	hasBaseName bool
	hasBaseTime bool
}

// FullName returns the base name joined with the record name.
func (r Record) FullName() string {
	return r.BaseName + r.Name
}

// AbsoluteTime returns BaseTime + Time.
func (r Record) AbsoluteTime() float64 {
	return r.BaseTime + r.Time
}

// MarshalCBOR encodes the record as a map with SenML labels.
func (r Record) MarshalCBOR() ([]byte, error) {
	m := make(map[int]any, 4)
	if r.BaseName != "" {
		m[KeyBaseName] = r.BaseName
	}
	if r.BaseTime != 0 {
		m[KeyBaseTime] = r.BaseTime
	}
	if r.HasIdentifier {
		m[KeyName] = r.Identifier
	} else if r.Name != "" {
		m[KeyName] = r.Name
	}
	if r.Time != 0 {
		m[KeyTime] = r.Time
	}
	switch r.Value.Kind {
	case ValueNumber:
		if len(r.Value.Number) == 0 {
			return nil, fmt.Errorf("%w: empty number", ErrInvalidRecord)
		}
		m[KeyValue] = r.Value.Number
	case ValueString:
		m[KeyStringValue] = r.Value.String
	case ValueBool:
		m[KeyBoolValue] = r.Value.Bool
	}
	return encMode.Marshal(m)
}

// UnmarshalCBOR decodes a record. Unknown labels are ignored.
func (r *Record) UnmarshalCBOR(data []byte) error {
	var m map[int]cbor.RawMessage
	if err := decMode.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	*r = Record{}
	for key, raw := range m {
		var err error
		switch key {
		case KeyBaseName:
			r.hasBaseName = true
			err = decMode.Unmarshal(raw, &r.BaseName)
		case KeyBaseTime:
			r.hasBaseTime = true
			r.BaseTime, err = decodeNumber(raw)
		case KeyName:
			err = r.decodeName(raw)
		case KeyTime:
			r.Time, err = decodeNumber(raw)
		case KeyValue:
			if numeric.Classify(raw) == numeric.TagNone {
				err = errors.New("value is not a number")
			}
			r.Value = Value{Kind: ValueNumber, Number: raw}
		case KeyStringValue:
			r.Value.Kind = ValueString
			err = decMode.Unmarshal(raw, &r.Value.String)
		case KeyBoolValue:
			r.Value.Kind = ValueBool
			err = decMode.Unmarshal(raw, &r.Value.Bool)
		}
		if err != nil {
			return fmt.Errorf("%w: label %d: %v", ErrInvalidRecord, key, err)
		}
	}
	return nil
}

// decodeName accepts a text name or an integer identifier.
func (r *Record) decodeName(raw cbor.RawMessage) error {
	if numeric.Classify(raw) == numeric.TagInteger {
		var id int
		if err := decMode.Unmarshal(raw, &id); err != nil {
			return err
		}
		r.Identifier = id
		r.HasIdentifier = true
		return nil
	}
	return decMode.Unmarshal(raw, &r.Name)
}

func decodeNumber(raw cbor.RawMessage) (float64, error) {
	f, ok := numeric.FromRaw(raw)
	if !ok {
		return 0, errors.New("not a number")
	}
	return f, nil
}
