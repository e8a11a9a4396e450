// Package wire implements the transition code at the heart of chromawire:
// a clockless line code that carries binary data over a channel with eight
// discrete states (an RGB indicator with each colour channel fully on or
// fully off).
//
// No clock signal exists. Timing is recovered from state *transitions*
// alone: every emitted symbol differs from the one before it, so a receiver
// that samples the channel faster than it changes sees either "no change"
// (idle, no information) or a transition (exactly one code unit). Five of
// the eight symbols carry 2-bit payloads as a rotating cycle; two are
// frame markers terminating each byte; the all-off symbol means the
// channel itself is down.
//
// The code is stateful in exactly one value: the previously emitted (or
// observed) symbol. State is threaded explicitly through every call, so
// independent streams may be coded concurrently as long as each owns its
// own previous-symbol value.
package wire

import (
	"errors"
	"fmt"
)

// Symbol is one of the eight channel states. The numeric value is the
// physical bit pattern: bit 2 = red, bit 1 = green, bit 0 = blue.
type Symbol uint8

const (
	Closed  Symbol = iota // all channels off: the link is down
	Blue                  // data cycle 0
	Green                 // data cycle 1
	Cyan                  // data cycle 2
	Red                   // data cycle 3
	Magenta               // data cycle 4
	Yellow                // frame marker (Mark2)
	White                 // frame marker (Mark1)
)

// Marker aliases. Both terminate a byte identically; the distinction is
// carried through to callers (see Observe) for stream-level use such as
// end-of-message signalling.
const (
	Mark1 = White
	Mark2 = Yellow
)

// dataCycle is the fixed order of the five payload symbols. Each 2-bit
// value selects a position in this cycle after rotation by offsetOf.
var dataCycle = [5]Symbol{Blue, Green, Cyan, Red, Magenta}

var names = [8]string{"Dark", "Blue", "Green", "Cyan", "Red", "Magenta", "Yellow", "White"}
var shortNames = [8]string{"D", "B", "G", "C", "R", "M", "Y", "W"}
var markedNames = [8]string{"_D_", " B ", " G ", " C ", " R ", " M ", "!Y!", "|W|"}

// Valid reports whether s is one of the eight alphabet symbols.
func (s Symbol) Valid() bool { return s <= White }

// IsData reports whether s is one of the five payload-carrying symbols.
func (s Symbol) IsData() bool { return s >= Blue && s <= Magenta }

// IsMarker reports whether s is a frame marker.
func (s Symbol) IsMarker() bool { return s == Yellow || s == White }

// String returns the full colour name ("Dark", "Blue", ...).
func (s Symbol) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Symbol(%d)", uint8(s))
	}
	return names[s]
}

// Short returns the one-letter form ("D", "B", ...).
func (s Symbol) Short() string {
	if !s.Valid() {
		return "?"
	}
	return shortNames[s]
}

// Marked returns the three-character form with markers highlighted
// ("_D_", " B ", ..., "!Y!", "|W|").
func (s Symbol) Marked() string {
	if !s.Valid() {
		return "???"
	}
	return markedNames[s]
}

// RGB returns the physical on/off state of each colour channel for s.
// Closed is off/off/off; White is on/on/on. Drivers and sensors MUST use
// exactly this mapping.
func (s Symbol) RGB() (r, g, b bool) {
	return s&4 != 0, s&2 != 0, s&1 != 0
}

// FromRGB is the inverse of RGB: it reconstructs the symbol a sensor saw
// from the on/off state of the three colour channels.
func FromRGB(r, g, b bool) Symbol {
	var s Symbol
	if r {
		s |= 4
	}
	if g {
		s |= 2
	}
	if b {
		s |= 1
	}
	return s
}

// Outcome classifies a single observed transition.
type Outcome uint8

const (
	Idle      Outcome = iota // no change since the previous sample
	Down                     // channel transitioned to Closed
	Mark1Seen                // byte terminated by Mark1
	Mark2Seen                // byte terminated by Mark2
	Data                     // a 2-bit payload transition
)

var outcomeNames = [...]string{"Idle", "Down", "Mark1Seen", "Mark2Seen", "Data"}

func (o Outcome) String() string {
	if int(o) >= len(outcomeNames) {
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
	return outcomeNames[o]
}

// offsetOf returns the data-cycle rotation implied by the previous symbol:
//
//	Closed  0    Cyan    3    Yellow  0
//	Blue    1    Red     4    White   0
//	Green   2    Magenta 5
//
// Data symbols rotate by their own cycle index plus one, so the next data
// symbol can never land on previous. Closed and the markers reset the
// rotation. Offset 5 reduces to 0 modulo the cycle length; it is kept
// unreduced here because the decode arithmetic in Observe depends on the
// unreduced value.
func offsetOf(previous Symbol) int {
	if previous.IsData() {
		return int(previous) // numeric value = cycle index + 1
	}
	return 0
}

// EmitHalfNibble encodes the low 2 bits of v as the next symbol to emit
// after previous. The result is always a data symbol and never equals
// previous, for any previous in the alphabet. Bits of v above the low two
// are ignored.
func EmitHalfNibble(v byte, previous Symbol) Symbol {
	v &= 0x03
	return dataCycle[(int(v)+offsetOf(previous))%5]
}

// Observe classifies the transition from previous to incoming and, for
// Data outcomes, recovers the 2-bit value that EmitHalfNibble encoded.
// The returned byte is meaningful only when the outcome is Data.
//
// The check order matters: an unchanged sample is Idle even when both
// symbols are Closed, so a dark channel idles rather than reporting Down
// on every sample. Both symbols must belong to the alphabet; feeding
// anything else is a caller contract violation.
func Observe(incoming, previous Symbol) (Outcome, byte) {
	if incoming == previous {
		return Idle, 0
	}
	switch incoming {
	case Closed:
		return Down, 0
	case Mark1:
		return Mark1Seen, 0
	case Mark2:
		return Mark2Seen, 0
	}

	nibblebase := int(incoming) - 1 // cycle index: Blue=0 .. Magenta=4
	offset := offsetOf(previous)

	// Inverse of (value + offset) % 5, folded onto the 2-bit range. The
	// split avoids a negative intermediate; the modulo-4 reduction after a
	// modulo-5 rotation is what embeds four values in a five-symbol cycle.
	if nibblebase >= offset {
		return Data, byte((nibblebase - offset) % 4)
	}
	return Data, byte((5 + nibblebase - offset) % 4)
}

// TransitionBudget is the most transitions a byte decoder examines before
// concluding the stream is malformed. A well-formed byte needs five (four
// data transitions plus a marker); the slack tolerates a few duplicated
// samples in recorded traces.
const TransitionBudget = 8

// AppendByte appends the five-symbol encoding of b (four data transitions,
// most significant 2 bits first, then Mark1) to dst, threading the carried
// previous symbol. It returns the grown sequence and the marker as the new
// previous for the next byte.
func AppendByte(dst Sequence, previous Symbol, b byte) (Sequence, Symbol) {
	return AppendByteMarked(dst, previous, b, Mark1)
}

// AppendByteMarked is AppendByte with an explicit terminating marker,
// for callers that use the Mark1/Mark2 distinction as a stream-level
// signal. marker must be Mark1 or Mark2; anything else panics.
func AppendByteMarked(dst Sequence, previous Symbol, b byte, marker Symbol) (Sequence, Symbol) {
	if !marker.IsMarker() {
		panic("wire: marker must be Mark1 or Mark2")
	}
	for shift := 6; shift >= 0; shift -= 2 {
		s := EmitHalfNibble(b>>shift, previous)
		dst = append(dst, s)
		previous = s
	}
	return append(dst, marker), marker
}

// DecodeByte decodes one byte from seq starting at *cursor, advancing the
// cursor past every symbol consumed. The previous symbol is seq[*cursor-1],
// or Closed when the cursor is at the start of the sequence.
//
// It examines at most TransitionBudget symbols. Idle samples (duplicates
// in a recorded trace) consume budget but no data slot. On success it
// returns the byte and the marker that terminated it. A sequence that ends
// or exhausts the budget without a marker yields a FramingError; a
// transition to Closed mid-byte yields a ChannelClosedError reporting the
// bits accumulated so far.
func DecodeByte(seq Sequence, cursor *int) (byte, Symbol, error) {
	previous := Closed
	if *cursor > 0 {
		previous = seq[*cursor-1]
	}
	if !previous.Valid() {
		return 0, Closed, &FramingError{Transitions: 0}
	}

	var acc byte
	bits := 0
	for n := 1; n <= TransitionBudget; n++ {
		if *cursor >= len(seq) {
			return 0, Closed, &FramingError{Transitions: n - 1}
		}
		incoming := seq[*cursor]
		*cursor++
		if !incoming.Valid() {
			return 0, Closed, &FramingError{Transitions: n}
		}

		outcome, v := Observe(incoming, previous)
		previous = incoming

		switch outcome {
		case Data:
			acc = acc<<2 | v
			bits += 2
		case Mark1Seen, Mark2Seen:
			return acc, incoming, nil
		case Down:
			return 0, Closed, &ChannelClosedError{Bits: bits}
		case Idle:
			// no transition; keep scanning
		}
	}
	return 0, Closed, &FramingError{Transitions: TransitionBudget}
}

// FramingError reports a byte decode that found no marker within the
// transition budget: the stream is truncated, corrupted, or not produced
// by a conforming encoder.
type FramingError struct {
	Transitions int // transitions examined before giving up
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("wire: no marker within %d transitions", e.Transitions)
}

// ChannelClosedError reports the channel going dark mid-byte. Bits is the
// number of payload bits accumulated before the transition to Closed; the
// partial byte is unusable and must be discarded.
type ChannelClosedError struct {
	Bits int
}

func (e *ChannelClosedError) Error() string {
	return fmt.Sprintf("wire: channel closed mid-byte after %d bits", e.Bits)
}

// IsFraming reports whether err is or wraps a FramingError.
func IsFraming(err error) bool {
	var fe *FramingError
	return errors.As(err, &fe)
}

// IsChannelClosed reports whether err is or wraps a ChannelClosedError.
func IsChannelClosed(err error) bool {
	var ce *ChannelClosedError
	return errors.As(err, &ce)
}
