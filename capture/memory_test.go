package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/unkn0wn-root/chromawire/wire"
)

func TestMemorySaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(MemoryConfig{})
	defer s.Close(ctx)

	trace := encodeText("H")
	key := Key("test", "one")

	if _, ok, err := s.Load(ctx, key); err != nil || ok {
		t.Fatalf("Load before save: ok=%v err=%v", ok, err)
	}
	if err := s.Save(ctx, key, trace); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := s.Load(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if len(got) != len(trace) {
		t.Fatalf("loaded %d symbols, want %d", len(got), len(trace))
	}
	for i := range got {
		if got[i] != trace[i] {
			t.Fatalf("symbol %d = %s, want %s", i, got[i], trace[i])
		}
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Load(ctx, key); ok {
		t.Fatalf("Load after delete: hit")
	}
}

func TestMemoryRejectsCorruptBlob(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(MemoryConfig{})
	defer s.Close(ctx)

	key := Key("test", "corrupt")
	if err := s.Save(ctx, key, encodeText("H")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Sabotage the stored blob behind the store's back.
	s.mu.Lock()
	e := s.traces[key]
	e.data[2] = 0xFF
	s.traces[key] = e
	s.mu.Unlock()

	if _, _, err := s.Load(ctx, key); !errors.Is(err, wire.ErrBadSymbol) {
		t.Fatalf("Load of corrupt blob = %v, want ErrBadSymbol", err)
	}
}

func TestMemorySweepPrunesExpired(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(MemoryConfig{Retention: time.Minute})
	defer s.Close(ctx)

	key := Key("test", "old")
	if err := s.Save(ctx, key, encodeText("H")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Age the entry past retention, then sweep directly rather than
	// waiting out the ticker.
	s.mu.Lock()
	e := s.traces[key]
	e.savedAt = time.Now().Add(-2 * time.Minute)
	s.traces[key] = e
	s.mu.Unlock()
	s.sweep()

	if _, ok, _ := s.Load(ctx, key); ok {
		t.Fatalf("expired trace survived sweep")
	}
}

func TestMemoryNegativeRetentionKeepsForever(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(MemoryConfig{Retention: -1})
	defer s.Close(ctx)

	key := Key("test", "keep")
	if err := s.Save(ctx, key, encodeText("H")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok, _ := s.Load(ctx, key); !ok {
		t.Fatalf("trace missing")
	}
	// Close without a sweeper must not hang or panic; call twice.
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(ctx); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
