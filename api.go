package chromawire

import (
	"context"

	ch "github.com/unkn0wn-root/chromawire/channel"
	c "github.com/unkn0wn-root/chromawire/codec"
)

// Sender transmits typed messages over an Emitter. V is the caller's
// value type; serialization is handled by a pluggable Codec[V].
//
// Each message is framed on the wire by the byte markers alone: every
// byte ends with Mark1 except the last, which ends with Mark2. No length
// prefix, no addressing.
type Sender[V any] interface {
	// Send encodes v and emits it as one message. A transport error may
	// leave the channel mid-message; the receiver reports and discards
	// the partial message on its side.
	Send(ctx context.Context, v V) error

	// Close takes the channel dark and releases the emitter.
	Close(ctx context.Context) error
}

// Receiver reconstructs typed messages from a Sensor.
type Receiver[V any] interface {
	// Receive blocks until one complete message arrives and decodes.
	// It returns io.EOF when the channel goes dark between messages.
	// After a MessageSizeError or an AbortError wrapping a framing
	// failure the stream has been resynced and Receive may be called
	// again.
	Receive(ctx context.Context) (V, error)

	// Close releases the sensor.
	Close(ctx context.Context) error
}

// SenderOptions tune a Sender. Emitter and Codec are required.
type SenderOptions[V any] struct {
	Emitter ch.Emitter
	Codec   c.Codec[V]

	Logger Logger // nil => NopLogger
	Hooks  Hooks  // nil => NopHooks
}

// ReceiverOptions tune a Receiver. Sensor and Codec are required. To
// record what the sensor saw, wrap it with capture.NewRecorder first.
type ReceiverOptions[V any] struct {
	Sensor ch.Sensor
	Codec  c.Codec[V]

	Logger Logger // nil => NopLogger
	Hooks  Hooks  // nil => NopHooks

	// MaxMessageBytes bounds accepted message size. 0 => 1 MiB. A
	// clockless optical link moves tens of bytes per second; anything
	// near the default limit signals a broken or hostile peer.
	MaxMessageBytes int
}

// NewSender builds a Sender over opts.Emitter.
func NewSender[V any](opts SenderOptions[V]) (Sender[V], error) {
	return newSender[V](opts)
}

// NewReceiver builds a Receiver over opts.Sensor.
func NewReceiver[V any](opts ReceiverOptions[V]) (Receiver[V], error) {
	return newReceiver[V](opts)
}
