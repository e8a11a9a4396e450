package chromawire

import (
	"context"
	"fmt"

	"github.com/unkn0wn-root/chromawire/channel"
	"github.com/unkn0wn-root/chromawire/wire"
)

// Encoder is a byte-stream session over an Emitter. It carries the
// previously emitted symbol across calls, which is the entire codec
// state: each byte becomes four data transitions plus a marker, every
// one chosen relative to the symbol before it.
//
// NOT safe for concurrent use. One stream, one owner (the code is
// differential; interleaving two writers would scramble both streams).
type Encoder struct {
	em       channel.Emitter
	previous wire.Symbol
	log      Logger
	hooks    Hooks
	closed   bool
}

// EncoderOptions tune an Encoder. The zero value is usable.
type EncoderOptions struct {
	Logger Logger // nil => NopLogger
	Hooks  Hooks  // nil => NopHooks
}

// NewEncoder starts an encoding session on em. The carried state begins
// at wire.Closed: the channel is dark until the first write lights it.
func NewEncoder(em channel.Emitter, opts EncoderOptions) (*Encoder, error) {
	if em == nil {
		return nil, fmt.Errorf("chromawire: emitter is required")
	}
	var log Logger = opts.Logger
	if log == nil {
		log = NopLogger{}
	}
	var hooks Hooks = opts.Hooks
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &Encoder{
		em:       em,
		previous: wire.Closed,
		log:      log,
		hooks:    hooks,
	}, nil
}

// Previous returns the carried symbol state, for instrumentation.
func (e *Encoder) Previous() wire.Symbol { return e.previous }

// EmitByte emits b as four data transitions plus Mark1.
func (e *Encoder) EmitByte(ctx context.Context, b byte) error {
	return e.EmitByteMarked(ctx, b, wire.Mark1)
}

// EmitByteMarked is EmitByte with an explicit terminating marker, for
// callers using the Mark1/Mark2 distinction as a stream-level signal
// (the message link marks the final byte of each message with Mark2).
func (e *Encoder) EmitByteMarked(ctx context.Context, b byte, marker wire.Symbol) error {
	if e.closed {
		return ErrEncoderClosed
	}
	if !marker.IsMarker() {
		return fmt.Errorf("chromawire: %v is not a marker symbol", marker)
	}
	for shift := 6; shift >= 0; shift -= 2 {
		s := wire.EmitHalfNibble(b>>shift, e.previous)
		if err := e.em.Emit(ctx, s); err != nil {
			return err
		}
		e.previous = s
	}
	if err := e.em.Emit(ctx, marker); err != nil {
		return err
	}
	e.previous = marker
	return nil
}

// Write emits every byte of p, each framed with Mark1. It returns the
// number of bytes fully emitted; a transport error may leave the channel
// mid-byte, in which case the receiver sees a framing or channel-down
// condition rather than a phantom byte.
func (e *Encoder) Write(ctx context.Context, p []byte) (int, error) {
	for i, b := range p {
		if err := e.EmitByte(ctx, b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// WriteString emits every byte of s, each framed with Mark1.
func (e *Encoder) WriteString(ctx context.Context, s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if err := e.EmitByte(ctx, s[i]); err != nil {
			return i, err
		}
	}
	return len(s), nil
}

// Down takes the channel dark by emitting wire.Closed. A later write
// lights it again; the code is self-synchronizing from the dark state.
// Does nothing when the channel is already dark.
func (e *Encoder) Down(ctx context.Context) error {
	if e.closed {
		return ErrEncoderClosed
	}
	if e.previous == wire.Closed {
		return nil
	}
	if err := e.em.Emit(ctx, wire.Closed); err != nil {
		return err
	}
	e.previous = wire.Closed
	e.log.Debug("chromawire.channel_down", nil)
	return nil
}

// Close takes the channel dark and releases the emitter. Subsequent
// writes return ErrEncoderClosed.
func (e *Encoder) Close(ctx context.Context) error {
	if e.closed {
		return nil
	}
	downErr := e.Down(ctx)
	e.closed = true
	if err := e.em.Close(ctx); err != nil {
		return err
	}
	return downErr
}
