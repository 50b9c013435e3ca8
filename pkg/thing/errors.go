package thing

import "errors"

// Container errors.
var (
	ErrInvalidName         = errors.New("invalid property name")
	ErrInvalidIdentifier   = errors.New("invalid property identifier")
	ErrDuplicateIdentifier = errors.New("duplicate property identifier")
	ErrAlreadyAttached     = errors.New("property already attached to a container")
	ErrNoAttributeIO       = errors.New("no attribute I/O configured")
)
