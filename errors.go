package postcard

import "errors"

// Failure taxonomy (spec §7). Every error returned by this package is one
// of these sentinels, or wraps one via fmt.Errorf("...: %w", ...), so
// callers can distinguish causes with errors.Is while the wire contract
// itself stays a single opaque ok/fail bit plus a byte count.
var (
	// ErrBufferOverflow is returned by WriteCursor when the destination
	// range has fewer free bytes than the value requires.
	ErrBufferOverflow = errors.New("postcard: write cursor overflow")

	// ErrBufferUnderflow is returned by ReadCursor when fewer bytes remain
	// than the value requires.
	ErrBufferUnderflow = errors.New("postcard: read cursor underflow")

	// ErrMalformedVarint is returned when a varint does not terminate
	// within its maximum byte count, or its final byte carries overflow
	// bits beyond the target width.
	ErrMalformedVarint = errors.New("postcard: malformed varint")

	// ErrInvalidBool is returned when a decoded bool byte is neither 0 nor 1.
	ErrInvalidBool = errors.New("postcard: invalid bool byte")

	// ErrUnknownVariant is returned when a tagged union's decoded variant
	// index does not name a declared variant.
	ErrUnknownVariant = errors.New("postcard: unknown tagged-union variant")

	// ErrInvalidUTF8 is returned when a decoded text string is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("postcard: invalid UTF-8 in string")

	// ErrUnsupportedType is returned when the descriptor builder is asked
	// to build a Node for a Go type with no wire representation (e.g. a
	// channel, func, or complex type).
	ErrUnsupportedType = errors.New("postcard: unsupported type")
)
