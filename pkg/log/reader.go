package log

import (
	"errors"
	"io"
	"iter"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter selects events from a log. Zero fields match everything.
type Filter struct {
	SessionID  string
	DeviceName string
	Direction  *Direction
	Layer      *Layer
	Category   *Category

	// TimeStart is inclusive, TimeEnd exclusive.
	TimeStart *time.Time
	TimeEnd   *time.Time

	// Property matches the name in the property payload. Events without
	// one never match.
	Property string
}

// Match reports whether event satisfies every set criterion.
func (f Filter) Match(event Event) bool {
	switch {
	case f.SessionID != "" && event.SessionID != f.SessionID,
		f.DeviceName != "" && event.DeviceName != f.DeviceName,
		f.Direction != nil && event.Direction != *f.Direction,
		f.Layer != nil && event.Layer != *f.Layer,
		f.Category != nil && event.Category != *f.Category:
		return false
	case f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart),
		f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd):
		return false
	case f.Property != "" && (event.Property == nil || event.Property.Name != f.Property):
		return false
	}
	return true
}

// Reader streams events from a .tlog file.
type Reader struct {
	file   *os.File
	dec    *cbor.Decoder
	filter Filter
}

// NewReader opens path and yields every event.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens path and yields only events matching filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{file: f, dec: NewDecoder(f), filter: filter}, nil
}

// Next returns the next matching event, or io.EOF at the end of the file.
// A file cut inside an event returns io.ErrUnexpectedEOF.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.dec.Decode(&event); err != nil {
			return Event{}, err
		}
		if r.filter.Match(event) {
			return event, nil
		}
	}
}

// Events iterates the remaining matching events. Iteration stops after
// the first error, which is yielded with a zero Event. A clean end of
// file yields nothing.
func (r *Reader) Events() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			event, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(event, err) || err != nil {
				return
			}
		}
	}
}

// Close closes the file.
func (r *Reader) Close() error {
	return r.file.Close()
}
