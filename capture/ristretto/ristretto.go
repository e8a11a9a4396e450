// Package ristretto persists symbol traces in dgraph-io/ristretto.
// Admission is cost-based with cost = trace length, so long captures
// compete honestly for the configured budget and may be refused or
// evicted under pressure; a Load miss after Save is normal behavior,
// not corruption.
package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/chromawire/capture"
	"github.com/unkn0wn-root/chromawire/wire"
)

type Store struct {
	c   *rc.Cache
	ttl time.Duration
}

var _ capture.Store = (*Store)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64 // total trace bytes the store may hold
	BufferItems int64
	TTL         time.Duration // 0 = no expiry
	Metrics     bool
}

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c, ttl: cfg.TTL}, nil
}

func (s *Store) Save(_ context.Context, key string, trace wire.Sequence) error {
	b := trace.Bytes()
	s.c.SetWithTTL(key, b, int64(len(b)), s.ttl)
	// Sets are buffered; wait so a Save/Load pair in the same goroutine
	// behaves like a store, not a lossy cache.
	s.c.Wait()
	return nil
}

func (s *Store) Load(_ context.Context, key string) (wire.Sequence, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// drop unexpected entry shape
		s.c.Del(key)
		return nil, false, nil
	}
	seq, err := wire.ParseSequence(b)
	if err != nil {
		return nil, false, err
	}
	return seq, true, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.c.Del(key)
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes the underlying cache metrics (nil unless enabled).
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }
