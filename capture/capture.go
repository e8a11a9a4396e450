// Package capture records, replays, and persists symbol traces.
//
// Debugging an optical link means knowing exactly what the sensor saw.
// A Recorder wraps any channel.Sensor and tees every observation into a
// growable trace; Replay turns a trace back into a Sensor so a failure
// can be re-decoded offline as many times as needed. Store implementations
// persist traces under composite keys (in-memory here, allegro/bigcache
// and dgraph-io/ristretto backends in subpackages).
//
// Stores are byte-for-byte transparent: Load returns exactly the
// sequence previously saved, revalidated against the symbol alphabet so
// a corrupted blob surfaces as an error rather than as garbage symbols.
package capture

import (
	"context"
	"sync"

	"github.com/unkn0wn-root/chromawire/channel"
	"github.com/unkn0wn-root/chromawire/internal/util"
	"github.com/unkn0wn-root/chromawire/wire"
)

// Store is keyed trace persistence. Must be safe for concurrent use.
type Store interface {
	// Save persists trace under key, replacing any previous trace.
	Save(ctx context.Context, key string, trace wire.Sequence) error

	// Load returns (trace, true, nil) on hit; (nil, false, nil) on miss.
	// A blob that fails alphabet validation returns an error wrapping
	// wire.ErrBadSymbol.
	Load(ctx context.Context, key string) (wire.Sequence, bool, error)

	// Delete removes a key (best-effort).
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// Key returns the canonical storage key for a trace,
// "trace:<namespace>:<id>". Oversized ids are hashed.
func Key(namespace, id string) string {
	return util.TraceKey(namespace, id)
}

// Recorder is a Sensor decorator that remembers every sample it passed
// through. Sense delegates to the wrapped sensor; snapshotting is safe
// from any goroutine while sensing continues.
type Recorder struct {
	sn channel.Sensor

	mu    sync.Mutex
	trace wire.Sequence
}

var _ channel.Sensor = (*Recorder)(nil)

// NewRecorder wraps sn. The recorder owns no resources of its own;
// Close closes the wrapped sensor.
func NewRecorder(sn channel.Sensor) *Recorder {
	return &Recorder{sn: sn}
}

// Sense delegates to the wrapped sensor and records the sample. Failed
// samples are not recorded; a replayed trace holds only what the
// decoder actually consumed.
func (r *Recorder) Sense(ctx context.Context) (wire.Symbol, error) {
	s, err := r.sn.Sense(ctx)
	if err != nil {
		return s, err
	}
	r.mu.Lock()
	r.trace = append(r.trace, s)
	r.mu.Unlock()
	return s, nil
}

// Close closes the wrapped sensor. The trace remains readable.
func (r *Recorder) Close(ctx context.Context) error {
	return r.sn.Close(ctx)
}

// Snapshot returns a copy of the trace so far.
func (r *Recorder) Snapshot() wire.Sequence {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(wire.Sequence, len(r.trace))
	copy(out, r.trace)
	return out
}

// Len returns the number of samples recorded so far.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trace)
}

// Reset discards the trace recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.trace = nil
	r.mu.Unlock()
}

// Replay returns a Sensor that plays back a recorded trace sample by
// sample, then reads as a dark channel forever. It does not copy the
// trace; do not mutate it while replaying.
func Replay(trace wire.Sequence) channel.Sensor {
	return &replaySensor{trace: trace}
}

type replaySensor struct {
	trace wire.Sequence
	pos   int
}

var _ channel.Sensor = (*replaySensor)(nil)

func (r *replaySensor) Sense(ctx context.Context) (wire.Symbol, error) {
	if err := ctx.Err(); err != nil {
		return wire.Closed, err
	}
	if r.pos >= len(r.trace) {
		return wire.Closed, nil
	}
	s := r.trace[r.pos]
	r.pos++
	return s, nil
}

func (r *replaySensor) Close(context.Context) error { return nil }
