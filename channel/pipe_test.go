package channel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/unkn0wn-root/chromawire/wire"
)

func TestPipeDeliversInOrder(t *testing.T) {
	ctx := context.Background()
	p := NewPipe(PipeConfig{})
	t.Cleanup(func() { _ = p.Close(ctx) })

	sent := []wire.Symbol{wire.Blue, wire.Green, wire.Mark1, wire.Closed}
	for _, s := range sent {
		if err := p.Emit(ctx, s); err != nil {
			t.Fatalf("Emit(%s): %v", s, err)
		}
	}
	for i, want := range sent {
		got, err := p.Sense(ctx)
		if err != nil {
			t.Fatalf("Sense %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("sample %d = %s, want %s", i, got, want)
		}
	}
}

func TestPipeOversample(t *testing.T) {
	ctx := context.Background()
	p := NewPipe(PipeConfig{Oversample: 3})
	t.Cleanup(func() { _ = p.Close(ctx) })

	if err := p.Emit(ctx, wire.Cyan); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	for i := 0; i < 3; i++ {
		got, err := p.Sense(ctx)
		if err != nil || got != wire.Cyan {
			t.Fatalf("sample %d = %s, %v; want Cyan", i, got, err)
		}
	}
}

// A closed pipe must first drain what was queued, then go dark forever.
func TestPipeDarkAfterClose(t *testing.T) {
	ctx := context.Background()
	p := NewPipe(PipeConfig{})

	if err := p.Emit(ctx, wire.Red); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := p.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := p.Sense(ctx)
	if err != nil || got != wire.Red {
		t.Fatalf("queued sample lost on close: %s, %v", got, err)
	}
	for i := 0; i < 3; i++ {
		got, err := p.Sense(ctx)
		if err != nil || got != wire.Closed {
			t.Fatalf("dark sample %d = %s, %v; want Closed", i, got, err)
		}
	}

	if err := p.Emit(ctx, wire.Blue); !errors.Is(err, ErrPipeClosed) {
		t.Fatalf("Emit after close = %v, want ErrPipeClosed", err)
	}
	// Close is idempotent.
	if err := p.Close(ctx); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

// Emit after Close must fail every time, buffer room or not — the done
// check has priority over a free slot, so nothing sneaks into the queue
// of a dead pipe.
func TestPipeEmitAfterCloseAlwaysFails(t *testing.T) {
	ctx := context.Background()
	p := NewPipe(PipeConfig{Buffer: 64})
	if err := p.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	for i := 0; i < 100; i++ {
		if err := p.Emit(ctx, wire.Blue); !errors.Is(err, ErrPipeClosed) {
			t.Fatalf("Emit %d after close = %v, want ErrPipeClosed", i, err)
		}
	}
	// And nothing was enqueued: the pipe reads dark.
	if got, err := p.Sense(ctx); err != nil || got != wire.Closed {
		t.Fatalf("Sense after rejected emits = %s, %v; want Closed", got, err)
	}
}

func TestPipeSenseHonorsContext(t *testing.T) {
	p := NewPipe(PipeConfig{})
	t.Cleanup(func() { _ = p.Close(context.Background()) })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := p.Sense(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Sense on empty pipe = %v, want deadline exceeded", err)
	}
}

func TestPipeEmitRejectsOutOfAlphabet(t *testing.T) {
	ctx := context.Background()
	p := NewPipe(PipeConfig{})
	t.Cleanup(func() { _ = p.Close(ctx) })

	if err := p.Emit(ctx, wire.Symbol(12)); !errors.Is(err, wire.ErrBadSymbol) {
		t.Fatalf("Emit(12) = %v, want ErrBadSymbol", err)
	}
}
