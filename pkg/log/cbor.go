package log

import (
	"fmt"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var (
	eventEncMode cbor.EncMode
	eventDecMode cbor.DecMode
)

func init() {
	var err error

	// Timestamps keep nanosecond precision; key order is canonical so two
	// identical events encode to identical bytes.
	eventEncMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create event CBOR encoder mode: %v", err))
	}

	// Property values arrive as interface values. Maps decode with string
	// keys and integers as int64 so decoded events export to JSON as is.
	eventDecMode, err = cbor.DecOptions{
		DupMapKey:      cbor.DupMapKeyQuiet,
		IndefLength:    cbor.IndefLengthAllowed,
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		IntDec:         cbor.IntDecConvertSigned,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create event CBOR decoder mode: %v", err))
	}
}

// EncodeEvent encodes an Event to CBOR bytes.
func EncodeEvent(event Event) ([]byte, error) {
	return eventEncMode.Marshal(event)
}

// DecodeEvent decodes CBOR bytes into an Event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := eventDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder returns an event encoder writing a CBOR sequence to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return eventEncMode.NewEncoder(w)
}

// NewDecoder returns an event decoder reading a CBOR sequence from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return eventDecMode.NewDecoder(r)
}
