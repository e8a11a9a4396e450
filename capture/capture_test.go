package capture

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/unkn0wn-root/chromawire/channel"
	"github.com/unkn0wn-root/chromawire/wire"
)

func encodeText(text string) wire.Sequence {
	var seq wire.Sequence
	previous := wire.Closed
	for i := 0; i < len(text); i++ {
		seq, previous = wire.AppendByte(seq, previous, text[i])
	}
	return seq
}

func decodeAll(t *testing.T, seq wire.Sequence) string {
	t.Helper()
	var out []byte
	cursor := 0
	for cursor < len(seq) {
		b, _, err := wire.DecodeByte(seq, &cursor)
		if err != nil {
			t.Fatalf("DecodeByte at %d: %v", cursor, err)
		}
		out = append(out, b)
	}
	return string(out)
}

// TestRecorderTapsSensor runs an encoded stream through a recorded pipe
// and checks the trace replays to the same bytes.
func TestRecorderTapsSensor(t *testing.T) {
	ctx := context.Background()
	seq := encodeText("HI")

	p := channel.NewPipe(channel.PipeConfig{Buffer: len(seq)})
	for _, s := range seq {
		if err := p.Emit(ctx, s); err != nil {
			t.Fatalf("Emit: %v", err)
		}
	}
	_ = p.Close(ctx)

	rec := NewRecorder(p)
	for i := 0; i < len(seq); i++ {
		if _, err := rec.Sense(ctx); err != nil {
			t.Fatalf("Sense %d: %v", i, err)
		}
	}
	if rec.Len() != len(seq) {
		t.Fatalf("recorded %d samples, want %d", rec.Len(), len(seq))
	}

	trace := rec.Snapshot()
	if got := decodeAll(t, trace); got != "HI" {
		t.Fatalf("replayed trace decodes to %q, want %q", got, "HI")
	}

	rec.Reset()
	if rec.Len() != 0 {
		t.Fatalf("Len after Reset = %d", rec.Len())
	}
}

// TestRecorderSnapshotIsCopy: mutating a snapshot must not corrupt the
// live trace.
func TestRecorderSnapshotIsCopy(t *testing.T) {
	ctx := context.Background()
	p := channel.NewPipe(channel.PipeConfig{Buffer: 4})
	_ = p.Emit(ctx, wire.Blue)
	_ = p.Emit(ctx, wire.Green)

	rec := NewRecorder(p)
	if _, err := rec.Sense(ctx); err != nil {
		t.Fatalf("Sense: %v", err)
	}
	if _, err := rec.Sense(ctx); err != nil {
		t.Fatalf("Sense: %v", err)
	}

	snap := rec.Snapshot()
	snap[0] = wire.White

	if again := rec.Snapshot(); again[0] != wire.Blue {
		t.Fatalf("trace mutated through snapshot: %s", again[0])
	}
}

// TestReplaySensor plays a trace back and then reads dark forever.
func TestReplaySensor(t *testing.T) {
	ctx := context.Background()
	trace := wire.Sequence{wire.Blue, wire.Blue, wire.Mark1}

	sn := Replay(trace)
	for i, want := range trace {
		got, err := sn.Sense(ctx)
		if err != nil || got != want {
			t.Fatalf("Sense %d = %s, %v; want %s", i, got, err, want)
		}
	}
	for i := 0; i < 3; i++ {
		got, err := sn.Sense(ctx)
		if err != nil || got != wire.Closed {
			t.Fatalf("dark Sense %d = %s, %v; want Closed", i, got, err)
		}
	}
	if err := sn.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestReplaySensorHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sn := Replay(wire.Sequence{wire.Blue})
	if _, err := sn.Sense(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Sense with cancelled ctx = %v, want context.Canceled", err)
	}
}

func TestKeyComposition(t *testing.T) {
	if got := Key("bench", "run-7"); got != "trace:bench:run-7" {
		t.Fatalf("Key = %q", got)
	}

	long := strings.Repeat("x", 200)
	hashed := Key("bench", long)
	if !strings.HasPrefix(hashed, "trace:bench:") {
		t.Fatalf("hashed key = %q", hashed)
	}
	if strings.Contains(hashed, "xxx") {
		t.Fatalf("oversized id not hashed: %q", hashed)
	}
	if hashed != Key("bench", long) {
		t.Fatalf("hashed key not deterministic")
	}
}
