// Package nats carries chromawire symbols over a NATS subject, one
// message per transition. The payload is a single byte holding the
// wire.Symbol numeric value.
//
// Like Redis Pub/Sub, NATS core delivery is at-most-once to live
// subscribers: bring the sensing side up before the emitter starts.
package nats

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/unkn0wn-root/chromawire/channel"
	"github.com/unkn0wn-root/chromawire/wire"
)

var (
	ErrNilConn   = errors.New("nats channel: nil connection")
	ErrNoSubject = errors.New("nats channel: subject is required")

	// ErrBadFrame reports a message that is not a single in-alphabet
	// symbol byte.
	ErrBadFrame = errors.New("nats channel: malformed symbol frame")
)

// Channel is an Emitter/Sensor pair over one subject.
type Channel struct {
	conn      *nats.Conn
	subject   string
	closeConn bool

	sub   *nats.Subscription
	msgCh chan *nats.Msg

	done      chan struct{}
	closeOnce sync.Once
}

var (
	_ channel.Emitter = (*Channel)(nil)
	_ channel.Sensor  = (*Channel)(nil)
)

// Config configures a NATS channel.
type Config struct {
	Conn    *nats.Conn
	Subject string
	// CloseConn closes the connection on Close. Set it only when this
	// channel exclusively owns the connection; Connect sets it for you.
	CloseConn bool
	// Buffer is the subscriber queue depth. 0 => 64.
	Buffer int
}

// New subscribes to cfg.Subject on an existing connection.
func New(cfg Config) (*Channel, error) {
	if cfg.Conn == nil {
		return nil, ErrNilConn
	}
	if cfg.Subject == "" {
		return nil, ErrNoSubject
	}
	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = 64
	}

	msgCh := make(chan *nats.Msg, buffer)
	sub, err := cfg.Conn.ChanSubscribe(cfg.Subject, msgCh)
	if err != nil {
		return nil, err
	}

	return &Channel{
		conn:      cfg.Conn,
		subject:   cfg.Subject,
		closeConn: cfg.CloseConn,
		sub:       sub,
		msgCh:     msgCh,
		done:      make(chan struct{}),
	}, nil
}

// Connect dials url, subscribes to subject, and returns a channel that
// owns the connection. For a shared connection use New.
func Connect(url, subject string, opts ...nats.Option) (*Channel, error) {
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	c, err := New(Config{Conn: conn, Subject: subject, CloseConn: true})
	if err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

// Emit publishes one symbol.
func (c *Channel) Emit(ctx context.Context, s wire.Symbol) error {
	if !s.Valid() {
		return fmt.Errorf("nats channel: %w (value %d)", wire.ErrBadSymbol, uint8(s))
	}
	if err := c.conn.Publish(c.subject, []byte{byte(s)}); err != nil {
		return err
	}
	// Publish only queues; push it out so the sensor side sees the
	// transition while the emitter still holds the physical state.
	return c.conn.FlushWithContext(ctx)
}

// Sense returns the next published symbol. After Close the channel reads
// as dark: wire.Closed, no error.
func (c *Channel) Sense(ctx context.Context) (wire.Symbol, error) {
	select {
	case msg := <-c.msgCh:
		return decodeFrame(msg.Data)
	case <-c.done:
		// Drain what arrived before shutdown.
		select {
		case msg := <-c.msgCh:
			return decodeFrame(msg.Data)
		default:
			return wire.Closed, nil
		}
	case <-ctx.Done():
		return wire.Closed, ctx.Err()
	}
}

func decodeFrame(data []byte) (wire.Symbol, error) {
	if len(data) != 1 {
		return wire.Closed, fmt.Errorf("%w: %d bytes", ErrBadFrame, len(data))
	}
	s := wire.Symbol(data[0])
	if !s.Valid() {
		return wire.Closed, fmt.Errorf("%w: value %d", ErrBadFrame, data[0])
	}
	return s, nil
}

// Close unsubscribes, and closes the connection when this channel owns
// it. Safe to call multiple times.
func (c *Channel) Close(context.Context) error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		if uerr := c.sub.Unsubscribe(); uerr != nil && !errors.Is(uerr, nats.ErrConnectionClosed) {
			err = uerr
		}
		if c.closeConn && !c.conn.IsClosed() {
			c.conn.Close()
		}
	})
	return err
}
