// Package memio provides an in-memory attribute store that stands in for
// the radio module of a device.
package memio

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/thingsync/thing-go/pkg/thing"
)

// Store errors.
var (
	ErrNotFound     = errors.New("attribute not found")
	ErrTypeMismatch = errors.New("attribute type mismatch")
)

// Store holds attribute values by full attribute name.
// It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	values map[string]any
	reads  uint64
	writes uint64
}

// New creates an empty store.
func New() *Store {
	return &Store{values: make(map[string]any)}
}

// Set stores a value of type bool, int64, float64 or string, replacing
// any previous value regardless of its type.
func (s *Store) Set(name string, v any) error {
	switch v.(type) {
	case bool, int64, float64, string:
	default:
		return fmt.Errorf("%w: %s: unsupported type %T", ErrTypeMismatch, name, v)
	}
	s.mu.Lock()
	s.values[name] = v
	s.mu.Unlock()
	return nil
}

// Get returns the stored value.
func (s *Store) Get(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

// Names returns the stored attribute names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Counts returns the number of reads and writes served.
func (s *Store) Counts() (reads, writes uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reads, s.writes
}

func read[T any](s *Store, name string) (T, error) {
	var zero T
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[name]
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	tv, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s holds %T, want %T", ErrTypeMismatch, name, v, zero)
	}
	s.reads++
	return tv, nil
}

func write[T any](s *Store, name string, v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.values[name]; ok {
		if _, same := old.(T); !same {
			return fmt.Errorf("%w: %s holds %T, got %T", ErrTypeMismatch, name, old, v)
		}
	}
	s.values[name] = v
	s.writes++
	return nil
}

func (s *Store) ReadBool(name string) (bool, error) { return read[bool](s, name) }
func (s *Store) ReadInt(name string) (int64, error) { return read[int64](s, name) }
func (s *Store) ReadFloat(name string) (float64, error) { return read[float64](s, name) }
func (s *Store) ReadString(name string) (string, error) { return read[string](s, name) }
func (s *Store) WriteBool(name string, v bool) error { return write(s, name, v) }
func (s *Store) WriteInt(name string, v int64) error { return write(s, name, v) }
func (s *Store) WriteFloat(name string, v float64) error { return write(s, name, v) }
func (s *Store) WriteString(name string, v string) error { return write(s, name, v) }

// Compile-time interface satisfaction check.
var _ thing.AttributeIO = (*Store)(nil)
