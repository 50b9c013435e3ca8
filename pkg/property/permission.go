package property

import (
	"fmt"
	"strings"
)

// Permission defines which direction a property may flow.
type Permission uint8

const (
	// Read allows the remote side to read the property (device to cloud).
	Read Permission = 1 << iota

	// Write allows the remote side to write the property (cloud to device).
	Write

	// ReadWrite allows both directions.
	ReadWrite = Read | Write
)

// CanRead returns true if the remote side may read the property.
func (p Permission) CanRead() bool { return p&Read != 0 }

// CanWrite returns true if the remote side may write the property.
func (p Permission) CanWrite() bool { return p&Write != 0 }

// String returns the permission name.
func (p Permission) String() string {
	switch p {
	case Read:
		return "READ"
	case Write:
		return "WRITE"
	case ReadWrite:
		return "READWRITE"
	default:
		return "NONE"
	}
}

// ParsePermission parses a permission name such as "read" or "readwrite".
func ParsePermission(s string) (Permission, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read", "r", "ro":
		return Read, nil
	case "write", "w", "wo":
		return Write, nil
	case "readwrite", "read_write", "read-write", "rw":
		return ReadWrite, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPermission, s)
	}
}
