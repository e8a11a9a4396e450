package wire

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// ==============================
// Symbol tables
// ==============================

func TestSymbolTables(t *testing.T) {
	rows := []struct {
		s      Symbol
		name   string
		short  string
		marked string
	}{
		{Closed, "Dark", "D", "_D_"},
		{Blue, "Blue", "B", " B "},
		{Green, "Green", "G", " G "},
		{Cyan, "Cyan", "C", " C "},
		{Red, "Red", "R", " R "},
		{Magenta, "Magenta", "M", " M "},
		{Yellow, "Yellow", "Y", "!Y!"},
		{White, "White", "W", "|W|"},
	}
	for _, row := range rows {
		if got := row.s.String(); got != row.name {
			t.Fatalf("String(%d) = %q, want %q", row.s, got, row.name)
		}
		if got := row.s.Short(); got != row.short {
			t.Fatalf("Short(%s) = %q, want %q", row.s, got, row.short)
		}
		if got := row.s.Marked(); got != row.marked {
			t.Fatalf("Marked(%s) = %q, want %q", row.s, got, row.marked)
		}
	}

	// Out-of-alphabet values must render without panicking.
	if got := Symbol(8).String(); got != "Symbol(8)" {
		t.Fatalf("String(8) = %q", got)
	}
	if Symbol(8).Short() != "?" || Symbol(8).Marked() != "???" {
		t.Fatalf("out-of-alphabet short/marked forms changed")
	}
}

func TestSymbolClasses(t *testing.T) {
	for _, s := range alphabet {
		wantData := s >= Blue && s <= Magenta
		if s.IsData() != wantData {
			t.Fatalf("IsData(%s) = %v", s, s.IsData())
		}
		wantMarker := s == Yellow || s == White
		if s.IsMarker() != wantMarker {
			t.Fatalf("IsMarker(%s) = %v", s, s.IsMarker())
		}
		if !s.Valid() {
			t.Fatalf("Valid(%s) = false", s)
		}
	}
	if Symbol(8).Valid() {
		t.Fatalf("Valid(8) = true")
	}
}

// The numeric value IS the physical bit pattern: bit 2 red, bit 1 green,
// bit 0 blue. Any driver or sensor depends on this table being exact.
func TestSymbolRGBMapping(t *testing.T) {
	rows := []struct {
		s       Symbol
		r, g, b bool
	}{
		{Closed, false, false, false},
		{Blue, false, false, true},
		{Green, false, true, false},
		{Cyan, false, true, true},
		{Red, true, false, false},
		{Magenta, true, false, true},
		{Yellow, true, true, false},
		{White, true, true, true},
	}
	for _, row := range rows {
		r, g, b := row.s.RGB()
		if r != row.r || g != row.g || b != row.b {
			t.Fatalf("RGB(%s) = %v,%v,%v want %v,%v,%v", row.s, r, g, b, row.r, row.g, row.b)
		}
		if got := FromRGB(row.r, row.g, row.b); got != row.s {
			t.Fatalf("FromRGB(%v,%v,%v) = %s, want %s", row.r, row.g, row.b, got, row.s)
		}
	}
}

// ==============================
// Sequence renders and serialization
// ==============================

func TestSequenceRenders(t *testing.T) {
	seq, _ := AppendByte(nil, Closed, 'H')

	if got, want := seq.String(), "Green Cyan Blue Green White"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if got, want := seq.Compact(), "GCBGW"; got != want {
		t.Fatalf("Compact() = %q, want %q", got, want)
	}
	if got, want := seq.Marked(), " G  C  B  G |W|"; got != want {
		t.Fatalf("Marked() = %q, want %q", got, want)
	}

	var empty Sequence
	if empty.String() != "" || empty.Compact() != "" || empty.Marked() != "" {
		t.Fatalf("empty sequence should render empty")
	}
}

func TestSequenceBytesParseRoundTrip(t *testing.T) {
	var seq Sequence
	prev := Closed
	for _, b := range []byte("HELLO") {
		seq, prev = AppendByte(seq, prev, b)
	}

	raw := seq.Bytes()
	if len(raw) != len(seq) {
		t.Fatalf("Bytes length = %d, want %d", len(raw), len(seq))
	}

	back, err := ParseSequence(raw)
	if err != nil {
		t.Fatalf("ParseSequence: %v", err)
	}
	if len(back) != len(seq) {
		t.Fatalf("parsed length = %d, want %d", len(back), len(seq))
	}
	for i := range seq {
		if back[i] != seq[i] {
			t.Fatalf("symbol %d = %s, want %s", i, back[i], seq[i])
		}
	}

	// Empty blob round-trips to an empty sequence.
	if empty, err := ParseSequence(nil); err != nil || len(empty) != 0 {
		t.Fatalf("ParseSequence(nil) = %v, %v", empty, err)
	}
}

func TestParseSequenceRejectsOutOfRange(t *testing.T) {
	raw := []byte{byte(Blue), byte(Green), 8, byte(White)}
	_, err := ParseSequence(raw)
	if err == nil {
		t.Fatalf("expected error on out-of-range value")
	}
	if !errors.Is(err, ErrBadSymbol) {
		t.Fatalf("expected ErrBadSymbol, got %v", err)
	}
	if !strings.Contains(err.Error(), "byte 2") {
		t.Fatalf("error should name the offending index: %v", err)
	}
}

func TestParseSequenceCopies(t *testing.T) {
	raw := []byte{byte(Blue), byte(Green)}
	seq, err := ParseSequence(raw)
	if err != nil {
		t.Fatalf("ParseSequence: %v", err)
	}
	raw[0] = byte(Red)
	if seq[0] != Blue {
		t.Fatalf("parsed sequence aliases the input buffer")
	}
	out := seq.Bytes()
	out[1] = 9
	if !bytes.Equal(seq.Bytes(), []byte{byte(Blue), byte(Green)}) {
		t.Fatalf("Bytes output aliases the sequence")
	}
}
