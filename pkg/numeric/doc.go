// Package numeric normalizes decoded wire numbers into float64.
//
// Remote updates carry numbers in whichever CBOR encoding the sender
// picked: an integer, or an IEEE-754 float of 16, 32 or 64 bits. The
// property core only works with one canonical numeric type, so every
// inbound number passes through FromRaw before it reaches a property.
//
// # Half-Precision Floats
//
// Half-precision values are expanded by hand (see HalfToFloat64) rather
// than relying on a float16 arithmetic type. The expansion follows
// RFC 8949 Appendix D and reproduces binary16 semantics exactly,
// including subnormals, signed zero, infinities and NaN.
package numeric
