package chromawire

import (
	"context"
	"fmt"
	"io"

	c "github.com/unkn0wn-root/chromawire/codec"
	"github.com/unkn0wn-root/chromawire/wire"
)

const defaultMaxMessageBytes = 1 << 20

type sender[V any] struct {
	enc   *Encoder
	codec c.Codec[V]
	log   Logger
	hooks Hooks
}

var _ Sender[string] = (*sender[string])(nil)

func newSender[V any](opts SenderOptions[V]) (*sender[V], error) {
	if opts.Emitter == nil {
		return nil, fmt.Errorf("chromawire: emitter is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("chromawire: codec is required")
	}

	var log Logger = opts.Logger
	if log == nil {
		log = NopLogger{}
	}
	var hooks Hooks = opts.Hooks
	if hooks == nil {
		hooks = NopHooks{}
	}

	enc, err := NewEncoder(opts.Emitter, EncoderOptions{Logger: log, Hooks: hooks})
	if err != nil {
		return nil, err
	}
	return &sender[V]{enc: enc, codec: opts.Codec, log: log, hooks: hooks}, nil
}

func (s *sender[V]) Send(ctx context.Context, v V) error {
	raw, err := s.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("chromawire: encode: %w", err)
	}
	if len(raw) == 0 {
		return ErrEmptyMessage
	}

	for _, b := range raw[:len(raw)-1] {
		if err := s.enc.EmitByte(ctx, b); err != nil {
			return err
		}
	}
	if err := s.enc.EmitByteMarked(ctx, raw[len(raw)-1], wire.Mark2); err != nil {
		return err
	}

	s.hooks.MessageSent(len(raw))
	s.log.Debug("chromawire.message_sent", Fields{"bytes": len(raw)})
	return nil
}

func (s *sender[V]) Close(ctx context.Context) error {
	return s.enc.Close(ctx)
}

type receiver[V any] struct {
	dec   *Decoder
	codec c.Codec[V]
	log   Logger
	hooks Hooks
	max   int
}

var _ Receiver[string] = (*receiver[string])(nil)

func newReceiver[V any](opts ReceiverOptions[V]) (*receiver[V], error) {
	if opts.Sensor == nil {
		return nil, fmt.Errorf("chromawire: sensor is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("chromawire: codec is required")
	}

	var log Logger = opts.Logger
	if log == nil {
		log = NopLogger{}
	}
	var hooks Hooks = opts.Hooks
	if hooks == nil {
		hooks = NopHooks{}
	}

	dec, err := NewDecoder(opts.Sensor, DecoderOptions{Logger: log, Hooks: hooks})
	if err != nil {
		return nil, err
	}
	return &receiver[V]{
		dec:   dec,
		codec: opts.Codec,
		log:   log,
		hooks: hooks,
		max:   coalesce(opts.MaxMessageBytes, defaultMaxMessageBytes),
	}, nil
}

func (r *receiver[V]) Receive(ctx context.Context) (V, error) {
	var zero V

	var buf []byte
	for {
		b, marker, err := r.dec.ReceiveByte(ctx)
		switch {
		case err == nil:
		case err == io.EOF:
			if len(buf) == 0 {
				return zero, io.EOF
			}
			// Clean channel-down between bytes, but mid-message.
			return zero, &AbortError{Bytes: len(buf), Cause: io.ErrUnexpectedEOF}
		case wire.IsChannelClosed(err):
			return zero, &AbortError{Bytes: len(buf), Cause: err}
		case wire.IsFraming(err):
			// Realign to the next byte boundary so the stream stays usable.
			if _, rerr := r.dec.Resync(ctx); rerr != nil && rerr != io.EOF {
				return zero, rerr
			}
			return zero, &AbortError{Bytes: len(buf), Cause: err}
		default:
			return zero, err
		}

		buf = append(buf, b)
		if len(buf) > r.max {
			return zero, r.discardOversize(ctx, marker, len(buf))
		}
		if marker == wire.Mark2 {
			break
		}
	}

	v, err := r.codec.Decode(buf)
	if err != nil {
		r.hooks.DecodeError(err)
		r.log.Warn("chromawire.decode_error", Fields{"bytes": len(buf), "err": err})
		return zero, fmt.Errorf("chromawire: decode: %w", err)
	}

	r.hooks.MessageReceived(len(buf))
	r.log.Debug("chromawire.message_received", Fields{"bytes": len(buf)})
	return v, nil
}

// discardOversize drains the rest of an over-limit message (through its
// Mark2) so the next Receive starts on a message boundary.
func (r *receiver[V]) discardOversize(ctx context.Context, lastMarker wire.Symbol, got int) error {
	for lastMarker != wire.Mark2 {
		_, marker, err := r.dec.ReceiveByte(ctx)
		if err != nil {
			// The stream died while draining; report the size problem,
			// it is what the caller can act on.
			break
		}
		lastMarker = marker
		got++
	}
	r.hooks.MessageOversize(r.max, got)
	r.log.Warn("chromawire.message_oversize", Fields{"limit": r.max, "bytes": got})
	return &MessageSizeError{Limit: r.max, Got: got}
}

func (r *receiver[V]) Close(ctx context.Context) error {
	return r.dec.Close(ctx)
}
