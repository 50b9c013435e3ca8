package numeric

import (
	"encoding/binary"
	"math"

	"github.com/fxamacker/cbor/v2"
)

// Tag identifies the numeric encoding of a CBOR data item.
type Tag uint8

const (
	// TagNone means the item is not a number.
	TagNone Tag = iota

	// TagInteger is a major type 0 or 1 integer.
	TagInteger

	// TagHalf is a 16-bit float (initial byte 0xf9).
	TagHalf

	// TagSingle is a 32-bit float (initial byte 0xfa).
	TagSingle

	// TagDouble is a 64-bit float (initial byte 0xfb).
	TagDouble
)

// String returns the tag name.
func (t Tag) String() string {
	switch t {
	case TagInteger:
		return "integer"
	case TagHalf:
		return "half"
	case TagSingle:
		return "single"
	case TagDouble:
		return "double"
	default:
		return "none"
	}
}

// CBOR initial bytes for the float encodings of major type 7.
const (
	initialHalf   = 0xf9
	initialSingle = 0xfa
	initialDouble = 0xfb
)

// Classify reports the numeric encoding of a single CBOR data item.
func Classify(raw []byte) Tag {
	if len(raw) == 0 {
		return TagNone
	}
	switch major := raw[0] >> 5; major {
	case 0, 1:
		return TagInteger
	case 7:
		switch raw[0] {
		case initialHalf:
			if len(raw) >= 3 {
				return TagHalf
			}
		case initialSingle:
			if len(raw) >= 5 {
				return TagSingle
			}
		case initialDouble:
			if len(raw) >= 9 {
				return TagDouble
			}
		}
	}
	return TagNone
}

// FromRaw converts one encoded CBOR number into a float64.
// The second result is false when raw is not a number or cannot be
// decoded; callers skip such values instead of substituting a default.
func FromRaw(raw []byte) (float64, bool) {
	switch Classify(raw) {
	case TagInteger:
		var i int64
		if err := cbor.Unmarshal(raw, &i); err == nil {
			return float64(i), true
		}
		// Unsigned values above MaxInt64 still fit a float64.
		var u uint64
		if err := cbor.Unmarshal(raw, &u); err == nil {
			return float64(u), true
		}
		return 0, false
	case TagHalf:
		return HalfToFloat64(binary.BigEndian.Uint16(raw[1:3])), true
	case TagSingle:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(raw[1:5]))), true
	case TagDouble:
		return math.Float64frombits(binary.BigEndian.Uint64(raw[1:9])), true
	default:
		return 0, false
	}
}

// HalfToFloat64 expands an IEEE-754 binary16 bit pattern.
func HalfToFloat64(bits uint16) float64 {
	exp := int(bits>>10) & 0x1f
	mant := int(bits & 0x3ff)

	var val float64
	switch exp {
	case 0:
		// Subnormal (or zero).
		val = math.Ldexp(float64(mant), -24)
	case 31:
		if mant == 0 {
			val = math.Inf(1)
		} else {
			val = math.NaN()
		}
	default:
		val = math.Ldexp(float64(mant+1024), exp-25)
	}

	if bits&0x8000 != 0 {
		return -val
	}
	return val
}

// ToFloat64 converts an already decoded Go number into a float64.
// Values produced by a generic CBOR decode (int64, uint64, float64) and
// plain Go numerics from configuration files are all accepted.
func ToFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case cbor.RawMessage:
		return FromRaw(n)
	default:
		return 0, false
	}
}
