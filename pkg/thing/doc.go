// Package thing implements the property container of a device.
//
// A Thing owns the registered properties of one device in registration
// order. An external cycle driver calls ReadPass and WritePass to bridge
// the properties to the radio module (AttributeIO), Encode to collect
// the values that are due for publication, and Decode or ApplyBatch to
// hand over values received from the cloud mirror.
//
// A Thing is not safe for concurrent use. All calls are expected from
// the goroutine running the cycle driver.
//
// # Addressing
//
// Properties are addressed by name or by identifier. A composite value
// such as property.Location exposes attributes which are addressed as
// "<property><sep><attribute>", where the separator depends on the
// configured Naming, or by a packed identifier
// (attribute index + 1) << 8 | property identifier.
package thing
