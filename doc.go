// Package chromawire transmits bytes over a clockless eight-state channel
// (an RGB indicator watched by a camera, a pub/sub topic, any medium that
// can hold one of eight discrete states at a time).
//
// Components:
//   - wire: the transition code itself — symbol alphabet, per-byte framing,
//     sequence encode/decode. Pure functions, explicit state.
//   - channel: Emitter/Sensor transport contracts plus an in-memory Pipe
//     loopback and broker-backed drivers (channel/redis, channel/nats).
//   - codec: Codec[V] payload serialization (JSON, CBOR, Msgpack, ...).
//   - capture: trace recording, replay, and keyed trace stores.
//
// This package ties them together:
//   - Encoder/Decoder: byte-stream sessions over an Emitter/Sensor,
//     carrying the previous-symbol state across calls.
//   - Sender[V]/Receiver[V]: typed message links on top of the sessions.
//     Every byte of a message ends with Mark1 except the last, which ends
//     with Mark2; that marker distinction is the whole message framing.
//
// Sessions are strictly sequential: each owns exactly one previous-symbol
// value and must not be shared across goroutines. Independent links on
// separate channels are fine.
package chromawire
