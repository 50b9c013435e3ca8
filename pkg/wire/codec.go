package wire

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder mode for payloads.
// Configured for deterministic encoding and shortest-float numbers.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for payloads.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		ShortestFloat: cbor.ShortestFloat16,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeUnix,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	// Lenient decoding: remote senders are not under our control.
	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// Marshal encodes a value to CBOR bytes.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR bytes into a value.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// NewEncoder creates a new CBOR encoder that writes to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder creates a new CBOR decoder that reads from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}

// Encode encodes records into a SenML pack.
func Encode(records []Record) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrEmptyPack
	}
	data, err := Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pack: %w", err)
	}
	return data, nil
}

// Decode decodes a SenML pack. Base name and base time are propagated to
// every record that follows the record defining them.
func Decode(data []byte) ([]Record, error) {
	var records []Record
	if err := Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode pack: %w", err)
	}

	var baseName string
	var baseTime float64
	for i := range records {
		r := &records[i]
		if r.hasBaseName {
			baseName = r.BaseName
		} else {
			r.BaseName = baseName
		}
		if r.hasBaseTime {
			baseTime = r.BaseTime
		} else {
			r.BaseTime = baseTime
		}
	}
	return records, nil
}
