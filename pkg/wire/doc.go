// Package wire implements the CBOR payload format exchanged with the
// remote mirror.
//
// Payloads are SenML packs (RFC 8428) in their CBOR representation: an
// array of maps with integer labels.
//
//	[
//	  {-2: "thing-1/", 0: "temperature", 2: 21.5, 6: 1700000000},
//	  {0: "switch", 4: true},
//	  {0: 3, 3: "ready"}             // name replaced by an identifier
//	]
//
// # Names and Identifiers
//
// A record is addressed either by name (text) or, in compact payloads, by
// the numeric identifier of the property. Identifiers above 255 carry an
// attribute index in the high byte for composite properties.
//
// # Numbers
//
// Numbers are encoded with the shortest float that preserves the value,
// so 1.0 travels as a half-precision float. Decoded numbers are kept as
// raw CBOR and converted with package numeric.
//
// # Base Fields
//
// Base name and base time apply to the record that carries them and to
// all later records until replaced. Decode returns records with the
// effective base fields filled in.
package wire
