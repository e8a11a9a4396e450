package capture

import (
	"context"
	"sync"
	"time"

	"github.com/unkn0wn-root/chromawire/wire"
)

const (
	defaultRetention = 24 * time.Hour
	defaultSweep     = time.Hour
)

type memTrace struct {
	data    []byte
	savedAt time.Time
}

// Memory is an in-process Store with TTL retention. A background sweep
// prunes traces older than the retention window; Close stops it.
type Memory struct {
	mu     sync.RWMutex
	traces map[string]memTrace

	retention time.Duration
	ticker    *time.Ticker
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

var _ Store = (*Memory)(nil)

// MemoryConfig tunes a Memory store. The zero value is usable.
type MemoryConfig struct {
	// Retention is how long a trace survives. 0 => 24h; negative
	// disables pruning entirely (traces live until deleted).
	Retention time.Duration
	// SweepInterval is how often expired traces are pruned. 0 => 1h.
	SweepInterval time.Duration
}

// NewMemory creates the store and starts its sweep loop.
func NewMemory(cfg MemoryConfig) *Memory {
	retention := cfg.Retention
	if retention == 0 {
		retention = defaultRetention
	}
	sweep := cfg.SweepInterval
	if sweep <= 0 {
		sweep = defaultSweep
	}

	s := &Memory{
		traces:    make(map[string]memTrace),
		retention: retention,
	}
	if retention > 0 {
		s.ticker = time.NewTicker(sweep)
		s.stopCh = make(chan struct{})
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-s.ticker.C:
					s.sweep()
				case <-s.stopCh:
					return
				}
			}
		}()
	}
	return s
}

func (s *Memory) Save(_ context.Context, key string, trace wire.Sequence) error {
	e := memTrace{data: trace.Bytes(), savedAt: time.Now()}
	s.mu.Lock()
	s.traces[key] = e
	s.mu.Unlock()
	return nil
}

func (s *Memory) Load(_ context.Context, key string) (wire.Sequence, bool, error) {
	s.mu.RLock()
	e, ok := s.traces[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	seq, err := wire.ParseSequence(e.data)
	if err != nil {
		return nil, false, err
	}
	return seq, true, nil
}

func (s *Memory) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.traces, key)
	s.mu.Unlock()
	return nil
}

func (s *Memory) sweep() {
	cutoff := time.Now().Add(-s.retention)
	s.mu.Lock()
	for k, e := range s.traces {
		if e.savedAt.Before(cutoff) {
			delete(s.traces, k)
		}
	}
	s.mu.Unlock()
}

func (s *Memory) Close(_ context.Context) error {
	if s.stopCh != nil {
		close(s.stopCh)
		s.ticker.Stop()
		s.wg.Wait()
		s.stopCh = nil
	}
	return nil
}
