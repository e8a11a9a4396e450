package chromawire

import (
	"context"
	"fmt"
	"io"

	"github.com/unkn0wn-root/chromawire/channel"
	"github.com/unkn0wn-root/chromawire/wire"
)

// Decoder is a byte-stream session over a Sensor. It carries the
// previously observed symbol across calls and reconstructs one byte per
// marker transition.
//
// NOT safe for concurrent use; a decoding session owns its sensor.
type Decoder struct {
	sn       channel.Sensor
	previous wire.Symbol
	log      Logger
	hooks    Hooks
	closed   bool

	// down distinguishes "went dark" from "not yet lit": both leave
	// previous at Closed, but only the former should end reads instead
	// of idling until the first transition.
	down bool
}

// DecoderOptions tune a Decoder. The zero value is usable.
type DecoderOptions struct {
	Logger Logger // nil => NopLogger
	Hooks  Hooks  // nil => NopHooks
}

// NewDecoder starts a decoding session on sn. The carried state begins
// at wire.Closed: before any observation the channel is presumed dark.
func NewDecoder(sn channel.Sensor, opts DecoderOptions) (*Decoder, error) {
	if sn == nil {
		return nil, fmt.Errorf("chromawire: sensor is required")
	}
	var log Logger = opts.Logger
	if log == nil {
		log = NopLogger{}
	}
	var hooks Hooks = opts.Hooks
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &Decoder{
		sn:       sn,
		previous: wire.Closed,
		log:      log,
		hooks:    hooks,
	}, nil
}

// Previous returns the carried symbol state, for instrumentation.
func (d *Decoder) Previous() wire.Symbol { return d.previous }

// ReceiveByte samples the channel until one byte completes, returning the
// byte and the marker that terminated it.
//
// Idle samples (the sensor seeing the same state again) cost nothing: a
// live sensor oversamples without bound, so only actual transitions
// count toward the wire.TransitionBudget. Exhausting the budget without
// a marker yields a wire.FramingError. The channel going dark yields
// io.EOF at a byte boundary (clean end of transmission) and a
// wire.ChannelClosedError mid-byte.
//
// A sensor that reports a dark channel without blocking (a drained
// loopback, a replayed trace) makes ReceiveByte poll while it waits for
// the first transition; ctx is checked on every idle sample, so bound
// such reads with a deadline.
func (d *Decoder) ReceiveByte(ctx context.Context) (byte, wire.Symbol, error) {
	if d.closed {
		return 0, wire.Closed, ErrDecoderClosed
	}

	var acc byte
	bits := 0
	transitions := 0
	for {
		incoming, err := d.sn.Sense(ctx)
		if err != nil {
			return 0, wire.Closed, err
		}
		if !incoming.Valid() {
			return 0, wire.Closed, fmt.Errorf("chromawire: %w (value %d)", wire.ErrBadSymbol, uint8(incoming))
		}
		if incoming == wire.Closed && d.down {
			return 0, wire.Closed, io.EOF
		}
		d.down = false

		outcome, v := wire.Observe(incoming, d.previous)
		d.previous = incoming

		switch outcome {
		case wire.Idle:
			if err := ctx.Err(); err != nil {
				return 0, wire.Closed, err
			}
			continue
		case wire.Data:
			acc = acc<<2 | v
			bits += 2
		case wire.Mark1Seen, wire.Mark2Seen:
			return acc, incoming, nil
		case wire.Down:
			d.down = true
			if bits == 0 {
				d.log.Debug("chromawire.channel_down", nil)
				return 0, wire.Closed, io.EOF
			}
			d.hooks.ChannelDown(bits)
			d.log.Warn("chromawire.channel_down_mid_byte", Fields{"bits": bits})
			return 0, wire.Closed, &wire.ChannelClosedError{Bits: bits}
		}

		transitions++
		if transitions >= wire.TransitionBudget {
			d.hooks.FramingError(transitions)
			d.log.Warn("chromawire.framing_error", Fields{"transitions": transitions})
			return 0, wire.Closed, &wire.FramingError{Transitions: transitions}
		}
	}
}

// Read fills p with decoded bytes. It returns early, without error, when
// a byte arrives terminated by Mark2 (end of message); with io.EOF when
// the channel goes dark between bytes; and with the underlying error on
// a mid-byte failure. n counts the bytes stored either way.
func (d *Decoder) Read(ctx context.Context, p []byte) (int, error) {
	for i := range p {
		b, marker, err := d.ReceiveByte(ctx)
		if err != nil {
			return i, err
		}
		p[i] = b
		if marker == wire.Mark2 {
			return i + 1, nil
		}
	}
	return len(p), nil
}

// Resync discards transitions until a marker passes, so the next
// ReceiveByte starts on a byte boundary. Call it after a framing error to
// salvage the rest of the stream. It returns the number of non-idle
// transitions discarded; the channel going dark during resync returns
// io.EOF.
func (d *Decoder) Resync(ctx context.Context) (int, error) {
	if d.closed {
		return 0, ErrDecoderClosed
	}

	discarded := 0
	for {
		incoming, err := d.sn.Sense(ctx)
		if err != nil {
			return discarded, err
		}
		if !incoming.Valid() {
			return discarded, fmt.Errorf("chromawire: %w (value %d)", wire.ErrBadSymbol, uint8(incoming))
		}
		if incoming == wire.Closed && d.down {
			return discarded, io.EOF
		}
		d.down = false

		outcome, _ := wire.Observe(incoming, d.previous)
		d.previous = incoming

		switch outcome {
		case wire.Idle:
			if err := ctx.Err(); err != nil {
				return discarded, err
			}
			continue
		case wire.Mark1Seen, wire.Mark2Seen:
			d.hooks.Resynced(discarded)
			d.log.Debug("chromawire.resynced", Fields{"discarded": discarded})
			return discarded, nil
		case wire.Down:
			d.down = true
			return discarded, io.EOF
		default:
			discarded++
		}
	}
}

// Close releases the sensor. Subsequent reads return ErrDecoderClosed.
func (d *Decoder) Close(ctx context.Context) error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.sn.Close(ctx)
}
