// Package transport carries encoded record packs between a device and
// its mirror.
//
// The property container never imports this package. The device command
// takes packs from thing.Encode, sends them over a Link and feeds every
// received frame to thing.Decode.
//
// # Links
//
//	┌────────────────────────────────┐
//	│      SenML CBOR pack           │
//	├────────────────────────────────┤
//	│ Length-Prefix Framing (4B) │ WS │
//	├────────────────────────────┤ binary
//	│   TLS (optional)  /  TCP   │ msg │
//	└────────────────────────────────┘
//
// A stream link (TCP, optionally TLS) delimits packs with a 4-byte
// big-endian length prefix. A WebSocket link sends one pack per binary
// message. Both enforce the same maximum pack size.
//
// Each link reads on its own goroutine and hands frames to Receive over
// a channel, so a Receive timeout never leaves a stream in the middle
// of a frame.
package transport
