package thing

// AttributeIO is the bridge to the module that holds attribute values on
// the device side, typically a radio coprocessor. Names are full
// attribute names as produced by the container's Naming.
//
// Calls are synchronous. Errors are reported back to the caller of the
// pass and never retried by the container.
type AttributeIO interface {
	ReadBool(name string) (bool, error)
	ReadInt(name string) (int64, error)
	ReadFloat(name string) (float64, error)
	ReadString(name string) (string, error)

	WriteBool(name string, v bool) error
	WriteInt(name string, v int64) error
	WriteFloat(name string, v float64) error
	WriteString(name string, v string) error
}
