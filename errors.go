package chromawire

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMessage is returned by Send when the codec produced zero
	// bytes: a zero-byte message has no final byte to carry the
	// end-of-message marker.
	ErrEmptyMessage = errors.New("chromawire: empty message")

	// ErrEncoderClosed is returned by writes after Encoder.Close.
	ErrEncoderClosed = errors.New("chromawire: encoder closed")

	// ErrDecoderClosed is returned by reads after Decoder.Close.
	ErrDecoderClosed = errors.New("chromawire: decoder closed")
)

// MessageSizeError reports a received message that exceeded the
// receiver's limit. The message was discarded and the stream resynced to
// the next message boundary, so the receiver remains usable.
type MessageSizeError struct {
	Limit int // configured maximum, bytes
	Got   int // size of the discarded message, bytes
}

func (e *MessageSizeError) Error() string {
	return fmt.Sprintf("chromawire: message of %d bytes exceeds limit %d", e.Got, e.Limit)
}

// AbortError reports a message cut short mid-stream: the channel went
// down or framing broke after some bytes had already accumulated.
type AbortError struct {
	Bytes int   // complete bytes received before the failure
	Cause error // the underlying wire error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("chromawire: message aborted after %d bytes: %v", e.Bytes, e.Cause)
}

func (e *AbortError) Unwrap() error { return e.Cause }
