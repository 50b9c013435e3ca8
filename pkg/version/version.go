// Package version provides sync protocol version parsing, comparison, and
// the protocol names negotiated on mirror links.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current is the sync protocol version implemented by this library.
const Current = "1.0"

// protocolPrefix starts every negotiated protocol name.
const protocolPrefix = "thing-sync/"

// Version represents a parsed "major.minor" protocol version.
type Version struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (Version, error) {
	major, minor, ok := strings.Cut(s, ".")
	if !ok || strings.Contains(minor, ".") {
		return Version{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	maj, err := strconv.ParseUint(major, 10, 16)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: bad major component", s)
	}
	mnr, err := strconv.ParseUint(minor, 10, 16)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return Version{Major: uint16(maj), Minor: uint16(mnr)}, nil
}

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible returns true if the other version has the same major version.
// Minor versions only add optional record fields.
func (v Version) Compatible(other Version) bool {
	return v.Major == other.Major
}

// Protocol returns the protocol name for a major version, "thing-sync/N".
// It is offered as the TLS ALPN protocol and the WebSocket subprotocol.
func Protocol(major uint16) string {
	return protocolPrefix + strconv.FormatUint(uint64(major), 10)
}

// MajorFromProtocol extracts the major version from a protocol name.
func MajorFromProtocol(name string) (uint16, error) {
	suffix, ok := strings.CutPrefix(name, protocolPrefix)
	if !ok {
		return 0, fmt.Errorf("not a sync protocol name: %q", name)
	}
	if suffix == "" {
		return 0, fmt.Errorf("empty major version in protocol %q", name)
	}

	major, err := strconv.ParseUint(suffix, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid major version in protocol %q: %w", name, err)
	}
	return uint16(major), nil
}

// SupportedProtocols returns the protocol names for all supported major
// versions. Currently only major version 1.
func SupportedProtocols() []string {
	current, _ := Parse(Current)
	return []string{Protocol(current.Major)}
}

// CheckNegotiated verifies a protocol name picked by the mirror. An empty
// name means the mirror did not negotiate and is accepted.
func CheckNegotiated(name string) error {
	if name == "" {
		return nil
	}
	major, err := MajorFromProtocol(name)
	if err != nil {
		return err
	}
	current, _ := Parse(Current)
	if !current.Compatible(Version{Major: major}) {
		return fmt.Errorf("mirror speaks sync protocol %d, want %d", major, current.Major)
	}
	return nil
}
