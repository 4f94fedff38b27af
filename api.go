package postcard

import (
	"errors"
	"unsafe"
)

// Encode writes v's wire form to cursor using T's Node, building that Node
// (once, cached) via reflection if it hasn't been built or registered yet
// (spec §6 "encode(cursor, value)").
func Encode[T any](cursor *WriteCursor, v *T) error {
	node, err := NodeFor[T]()
	if err != nil {
		return err
	}
	return EncodeWalk(cursor, unsafe.Pointer(v), node)
}

// Decode populates out from cursor using T's Node (spec §6
// "decode(cursor, out_slot)"). On failure, out's contents must not be
// relied upon as initialized.
func Decode[T any](cursor *ReadCursor, out *T) error {
	node, err := NodeFor[T]()
	if err != nil {
		return err
	}
	return DecodeWalk(cursor, unsafe.Pointer(out), node)
}

// Marshal encodes v into a freshly allocated byte slice sized to fit
// exactly, the common entry point for callers that don't manage their own
// buffer. The core itself only ever deals in caller-owned fixed ranges
// (spec §1 "the host-provided byte buffer" is an external collaborator);
// Marshal grows a scratch buffer on overflow so callers don't have to
// precompute a bound.
func Marshal[T any](v *T) ([]byte, error) {
	size := 128
	for {
		buf := make([]byte, size)
		cursor := NewWriteCursor(buf)
		err := Encode(&cursor, v)
		if err == nil {
			return cursor.Written(), nil
		}
		if !errors.Is(err, ErrBufferOverflow) {
			return nil, err
		}
		size *= 2
	}
}

// Unmarshal decodes a T from data, the counterpart to Marshal. It does not
// itself require the whole of data be consumed; callers that need the
// "byte-count identity" property (spec testable property 3) should check
// ReadCursor.Remaining() via Decode directly instead.
func Unmarshal[T any](data []byte) (T, error) {
	var v T
	cursor := NewReadCursor(data)
	err := Decode(&cursor, &v)
	return v, err
}
