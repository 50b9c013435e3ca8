package property

import "errors"

// Property errors.
var (
	ErrInvalidPermission = errors.New("invalid permission")
	ErrTypeMismatch      = errors.New("value type mismatch")
	ErrUnknownKind       = errors.New("unknown value kind")
	ErrUnknownSyncPolicy = errors.New("unknown sync policy")
)
