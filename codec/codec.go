// Package codec serializes the values a chromawire link transmits.
//
// The line code below moves raw bytes; a Codec[V] decides what those
// bytes are. Implementations range from identity (Bytes, String) through
// general-purpose formats (JSON, CBOR, Msgpack, Protobuf) to the Limit
// wrapper guarding receivers against oversized payloads.
package codec

// Codec encodes/decodes values V to []byte for transmission.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
