// Package channel defines the physical transport abstraction used by
// chromawire.
//
// A channel is anything that can hold one of the eight wire.Symbol states
// at a time: three GPIO-driven LEDs, a region of pixels under a camera, a
// pub/sub topic carrying one byte per transition. The codec above this
// package is clockless, which puts two hard requirements on transports:
// emitters MUST present symbols in order without loss, and sensors MUST
// deliver every state change in order — duplicates are fine (cameras
// sample faster than emitters change state), drops are not, because each
// symbol is only meaningful relative to the one before it.
//
// The keyspace of symbol values on the wire is owned by chromawire: a
// transport MUST carry the wire.Symbol numeric value bit-exact and MUST
// NOT inject symbols of its own.
package channel

import (
	"context"

	"github.com/unkn0wn-root/chromawire/wire"
)

// Emitter drives the physical channel, one symbol at a time.
//
// An emitter MUST present every symbol it is given, in the order given,
// and MUST hold each symbol until the next Emit (latching, like an LED
// that stays lit). Emitting wire.Closed signals the channel going down.
// Implementations need not be safe for concurrent use: an encoding
// session is strictly sequential and owns its emitter.
type Emitter interface {
	// Emit presents s on the channel. It blocks until the symbol is
	// presented or ctx is done.
	Emit(ctx context.Context, s wire.Symbol) error

	// Close releases the transport. The channel reads as Closed afterwards.
	Close(ctx context.Context) error
}

// Sensor observes the physical channel, one sample at a time.
//
// Sense returns the channel state at a sampling instant. It MAY return
// the same symbol any number of times in a row and MUST deliver every
// state change, in order, without loss. Once the underlying stream has
// ended, Sense returns wire.Closed forever — a dark channel is a valid
// observation, not an error. Errors are reserved for transport failures.
type Sensor interface {
	Sense(ctx context.Context) (wire.Symbol, error)

	// Close releases the transport.
	Close(ctx context.Context) error
}
