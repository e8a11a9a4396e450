package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/unkn0wn-root/chromawire/wire"
)

// ErrPipeClosed is returned by Emit after the pipe has been closed.
var ErrPipeClosed = errors.New("channel: pipe closed")

// Pipe is an in-memory Emitter/Sensor pair: symbols emitted on one side
// come out the other, in order. It backs tests, the demo binary, and any
// in-process loopback.
//
// Oversampling (delivering each symbol several times) simulates a camera
// sampling faster than the emitter changes state, which is the normal
// condition on an optical link; it exercises the decoder's idle path end
// to end.
//
// A pipe is safe for one emitting goroutine and one sensing goroutine.
type Pipe struct {
	ch         chan wire.Symbol
	oversample int

	done      chan struct{}
	closeOnce sync.Once
}

// PipeConfig tunes a Pipe. The zero value is usable.
type PipeConfig struct {
	// Buffer is the number of queued samples before Emit blocks. 0 => 64.
	Buffer int
	// Oversample delivers each emitted symbol this many times. 0 => 1.
	Oversample int
}

var (
	_ Emitter = (*Pipe)(nil)
	_ Sensor  = (*Pipe)(nil)
)

// NewPipe creates a loopback channel.
func NewPipe(cfg PipeConfig) *Pipe {
	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = 64
	}
	oversample := cfg.Oversample
	if oversample <= 0 {
		oversample = 1
	}
	return &Pipe{
		ch:         make(chan wire.Symbol, buffer),
		oversample: oversample,
		done:       make(chan struct{}),
	}
}

// Emit queues s for the sensing side, oversample times.
func (p *Pipe) Emit(ctx context.Context, s wire.Symbol) error {
	if !s.Valid() {
		return fmt.Errorf("channel: %w (value %d)", wire.ErrBadSymbol, uint8(s))
	}
	for i := 0; i < p.oversample; i++ {
		// Shutdown wins over a free buffer slot; without this check the
		// select below picks at random between them.
		select {
		case <-p.done:
			return ErrPipeClosed
		default:
		}
		select {
		case <-p.done:
			return ErrPipeClosed
		case <-ctx.Done():
			return ctx.Err()
		case p.ch <- s:
		}
	}
	return nil
}

// Sense returns the next queued sample. A closed, drained pipe senses
// wire.Closed forever: the channel has gone dark. Dark samples return
// immediately, so a reader polling a dead pipe must bound itself with
// ctx.
func (p *Pipe) Sense(ctx context.Context) (wire.Symbol, error) {
	if err := ctx.Err(); err != nil {
		return wire.Closed, err
	}
	// Queued samples win over shutdown so nothing in flight is lost.
	select {
	case s := <-p.ch:
		return s, nil
	default:
	}
	select {
	case s := <-p.ch:
		return s, nil
	case <-p.done:
		select {
		case s := <-p.ch:
			return s, nil
		default:
			return wire.Closed, nil
		}
	case <-ctx.Done():
		return wire.Closed, ctx.Err()
	}
}

// Close marks the pipe dark. Both sides may call it; only the first call
// has any effect. Samples queued before Close still reach the sensor.
func (p *Pipe) Close(context.Context) error {
	p.closeOnce.Do(func() { close(p.done) })
	return nil
}
