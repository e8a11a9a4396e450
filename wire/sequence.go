package wire

import (
	"errors"
	"fmt"
	"strings"
)

// Sequence is an ordered symbol stream: producers append, consumers read
// by cursor (see DecodeByte). It grows without bound; there is no
// architectural limit on stream length.
type Sequence []Symbol

// ErrBadSymbol reports a serialized symbol value outside the alphabet.
var ErrBadSymbol = errors.New("wire: symbol out of range")

// String renders the sequence as space-separated colour names,
// e.g. "Green Cyan Blue Green White".
func (q Sequence) String() string {
	if len(q) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(q) * 6)
	for i, s := range q {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// Compact renders the sequence as concatenated one-letter forms,
// e.g. "GCBGW".
func (q Sequence) Compact() string {
	var b strings.Builder
	b.Grow(len(q))
	for _, s := range q {
		b.WriteString(s.Short())
	}
	return b.String()
}

// Marked renders the sequence in the three-character form that highlights
// markers and dark samples, e.g. " G  C  B  G |W|".
func (q Sequence) Marked() string {
	var b strings.Builder
	b.Grow(len(q) * 3)
	for _, s := range q {
		b.WriteString(s.Marked())
	}
	return b.String()
}

// Bytes serializes the sequence one byte per symbol, for capture stores
// and byte-oriented transports. ParseSequence is the inverse.
func (q Sequence) Bytes() []byte {
	out := make([]byte, len(q))
	for i, s := range q {
		out[i] = byte(s)
	}
	return out
}

// ParseSequence deserializes a byte-per-symbol blob, validating every
// value against the alphabet. A value outside it yields an error wrapping
// ErrBadSymbol with the offending index.
func ParseSequence(b []byte) (Sequence, error) {
	out := make(Sequence, len(b))
	for i, v := range b {
		s := Symbol(v)
		if !s.Valid() {
			return nil, fmt.Errorf("wire: byte %d is %d: %w", i, v, ErrBadSymbol)
		}
		out[i] = s
	}
	return out, nil
}
