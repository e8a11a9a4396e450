package channel

import (
	"context"
	"time"

	"github.com/unkn0wn-root/chromawire/wire"
)

// Paced decorates an Emitter with a minimum hold time between emissions.
// A physical indicator must hold each state long enough for the sensor to
// catch at least one frame of it; pacing enforces that floor without the
// inner emitter knowing about timing at all.
type Paced struct {
	next Emitter
	hold time.Duration
	last time.Time
}

var _ Emitter = (*Paced)(nil)

// NewPaced wraps next so consecutive emissions are at least hold apart.
// A non-positive hold makes the wrapper a passthrough.
func NewPaced(next Emitter, hold time.Duration) *Paced {
	return &Paced{next: next, hold: hold}
}

// Emit waits out the remainder of the hold window, then forwards to the
// inner emitter. The wait is cut short by ctx.
func (p *Paced) Emit(ctx context.Context, s wire.Symbol) error {
	if p.hold > 0 && !p.last.IsZero() {
		if wait := p.hold - time.Since(p.last); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
	}
	if err := p.next.Emit(ctx, s); err != nil {
		return err
	}
	p.last = time.Now()
	return nil
}

// Close forwards to the inner emitter.
func (p *Paced) Close(ctx context.Context) error {
	return p.next.Close(ctx)
}
