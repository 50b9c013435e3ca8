package log

import (
	"strings"
	"time"
)

// Event represents a sync log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the container instance that produced the event.
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates value flow relative to the device.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// DeviceName is the configured device name.
	DeviceName string `cbor:"6,keyasint,omitempty"`

	// RemoteAddr is the mirror address, if connected.
	RemoteAddr string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame    *FrameEvent     `cbor:"10,keyasint,omitempty"` // Transport layer
	Pack     *PackEvent      `cbor:"11,keyasint,omitempty"` // Wire layer
	Property *PropertyEvent  `cbor:"12,keyasint,omitempty"` // Container layer
	Error    *ErrorEventData `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of value flow.
type Direction uint8

const (
	// DirectionIn indicates a value coming from the mirror.
	DirectionIn Direction = 0
	// DirectionOut indicates a value going to the mirror.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerTransport is the framing layer (raw bytes).
	LayerTransport Layer = 0
	// LayerWire is the pack encoding layer.
	LayerWire Layer = 1
	// LayerContainer is the property container.
	LayerContainer Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerWire:
		return "WIRE"
	case LayerContainer:
		return "CONTAINER"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryPublish indicates values handed to the transport.
	CategoryPublish Category = 0
	// CategoryInbound indicates an accepted remote update.
	CategoryInbound Category = 1
	// CategorySync indicates a reconnection replay decision.
	CategorySync Category = 2
	// CategoryDropped indicates an inbound update that was discarded.
	CategoryDropped Category = 3
	// CategoryError indicates an error event.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryPublish:
		return "PUBLISH"
	case CategoryInbound:
		return "INBOUND"
	case CategorySync:
		return "SYNC"
	case CategoryDropped:
		return "DROPPED"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory parses a category name, case-insensitively.
func ParseCategory(s string) (Category, bool) {
	for c := CategoryPublish; c <= CategoryError; c++ {
		if strings.EqualFold(c.String(), s) {
			return c, true
		}
	}
	return 0, false
}

// FrameEvent captures raw frame data at the transport layer.
type FrameEvent struct {
	// Size is the frame size in bytes (including length prefix).
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame bytes (may be truncated for large frames).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// PackEvent summarizes an encoded or decoded record pack.
type PackEvent struct {
	// Records is the number of records in the pack.
	Records int `cbor:"1,keyasint"`

	// Size is the encoded size in bytes.
	Size int `cbor:"2,keyasint"`

	// Sync is set for reconnection replay batches.
	Sync bool `cbor:"3,keyasint,omitempty"`
}

// PropertyEvent captures a decision about one property.
type PropertyEvent struct {
	// Name is the property name.
	Name string `cbor:"1,keyasint"`

	// Identifier is the numeric property identifier.
	Identifier int `cbor:"2,keyasint"`

	// Value is the value involved (CBOR-compatible representation).
	Value any `cbor:"3,keyasint,omitempty"`

	// Reason explains a dropped update.
	Reason DropReason `cbor:"4,keyasint,omitempty"`

	// LocalChange and CloudChange are the epoch seconds compared by a
	// sync policy.
	LocalChange uint64 `cbor:"5,keyasint,omitempty"`
	CloudChange uint64 `cbor:"6,keyasint,omitempty"`
}

// DropReason explains why an inbound update was discarded.
type DropReason uint8

const (
	DropNone DropReason = iota
	// DropUnknownProperty indicates no property matched the name or identifier.
	DropUnknownProperty
	// DropNotWritable indicates the property is not writable by the cloud.
	DropNotWritable
	// DropTypeMismatch indicates the value did not fit the property type.
	DropTypeMismatch
)

// String returns the drop reason name.
func (r DropReason) String() string {
	switch r {
	case DropNone:
		return "NONE"
	case DropUnknownProperty:
		return "UNKNOWN_PROPERTY"
	case DropNotWritable:
		return "NOT_WRITABLE"
	case DropTypeMismatch:
		return "TYPE_MISMATCH"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
