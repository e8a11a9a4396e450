// Package redis carries chromawire symbols over Redis Pub/Sub, one
// message per transition. The payload is a single byte holding the
// wire.Symbol numeric value.
//
// Redis Pub/Sub is fire-and-forget: a subscriber that was not listening
// when a symbol was published never sees it. That is fine for a live
// transition stream (the sensor side must be up before the emitter
// starts, exactly as a camera must be pointed at the LED first) but makes
// this transport unsuitable for replay; record traces with the capture
// package instead.
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/chromawire/channel"
	"github.com/unkn0wn-root/chromawire/wire"
)

var (
	ErrNilClient = errors.New("redis channel: nil client")
	ErrNoStream  = errors.New("redis channel: stream name is required")

	// ErrBadFrame reports a pub/sub payload that is not a single
	// in-alphabet symbol byte. Foreign writers on the stream produce it.
	ErrBadFrame = errors.New("redis channel: malformed symbol frame")
)

// Channel is an Emitter/Sensor pair over one pub/sub stream.
type Channel struct {
	rdb         goredis.UniversalClient
	stream      string
	closeClient bool

	sub   *goredis.PubSub
	msgCh <-chan *goredis.Message
}

var (
	_ channel.Emitter = (*Channel)(nil)
	_ channel.Sensor  = (*Channel)(nil)
)

// Config configures a redis channel.
type Config struct {
	Client goredis.UniversalClient
	// Stream is the pub/sub channel symbols travel on.
	Stream string
	// CloseClient releases the client on Close. Set it only when this
	// channel exclusively owns the client.
	CloseClient bool
	// Buffer is the subscriber queue depth. 0 => 64. Symbols beyond it
	// are dropped by go-redis, which breaks the transition stream; size
	// it for the fastest burst the emitter can produce.
	Buffer int
}

// New subscribes to cfg.Stream and returns the channel. The subscription
// is confirmed before New returns, so symbols published afterwards are
// not lost.
func New(ctx context.Context, cfg Config) (*Channel, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	if cfg.Stream == "" {
		return nil, ErrNoStream
	}
	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = 64
	}

	sub := cfg.Client.Subscribe(ctx, cfg.Stream)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	return &Channel{
		rdb:         cfg.Client,
		stream:      cfg.Stream,
		closeClient: cfg.CloseClient,
		sub:         sub,
		msgCh:       sub.Channel(goredis.WithChannelSize(buffer)),
	}, nil
}

// Emit publishes one symbol.
func (c *Channel) Emit(ctx context.Context, s wire.Symbol) error {
	if !s.Valid() {
		return fmt.Errorf("redis channel: %w (value %d)", wire.ErrBadSymbol, uint8(s))
	}
	return c.rdb.Publish(ctx, c.stream, []byte{byte(s)}).Err()
}

// Sense returns the next published symbol. When the subscription has been
// closed the channel reads as dark: wire.Closed, no error.
func (c *Channel) Sense(ctx context.Context) (wire.Symbol, error) {
	select {
	case msg, ok := <-c.msgCh:
		if !ok {
			return wire.Closed, nil
		}
		return decodeFrame(msg.Payload)
	case <-ctx.Done():
		return wire.Closed, ctx.Err()
	}
}

func decodeFrame(payload string) (wire.Symbol, error) {
	if len(payload) != 1 {
		return wire.Closed, fmt.Errorf("%w: %d bytes", ErrBadFrame, len(payload))
	}
	s := wire.Symbol(payload[0])
	if !s.Valid() {
		return wire.Closed, fmt.Errorf("%w: value %d", ErrBadFrame, payload[0])
	}
	return s, nil
}

// Close tears down the subscription, and the client too when this channel
// owns it. Safe to call multiple times.
func (c *Channel) Close(context.Context) error {
	if err := c.sub.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
		return err
	}
	if c.closeClient {
		if err := c.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
