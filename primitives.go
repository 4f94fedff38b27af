package postcard

import (
	"math"
	"unicode/utf8"
)

// Primitive codecs (spec §4.3, §6 wire table). Each pairs one EncoderFn-
// shaped method on WriteCursor with one DecoderFn-shaped method on
// ReadCursor. u8/i8 are raw bytes; every other integer width routes
// through the varint/zig-zag primitives in varint.go; floats are raw
// little-endian IEEE-754 bytes; bool is one byte in {0,1}.

// AppendBool writes 0x00 for false, 0x01 for true.
func (c *WriteCursor) AppendBool(v bool) error {
	if v {
		return c.PushOne(1)
	}
	return c.PushOne(0)
}

// ReadBool reads a bool byte, failing on any value outside {0,1}
// (spec §4.3, ErrInvalidBool).
func (c *ReadCursor) ReadBool() (bool, error) {
	b, err := c.PopOne()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, ErrInvalidBool
	}
}

// AppendUint8 writes a single raw byte.
func (c *WriteCursor) AppendUint8(v uint8) error { return c.PushOne(v) }

// ReadUint8 reads a single raw byte.
func (c *ReadCursor) ReadUint8() (uint8, error) { return c.PopOne() }

// AppendInt8 writes a single raw, reinterpreted byte.
func (c *WriteCursor) AppendInt8(v int8) error { return c.PushOne(byte(v)) }

// ReadInt8 reads a single raw byte, reinterpreted as signed.
func (c *ReadCursor) ReadInt8() (int8, error) {
	b, err := c.PopOne()
	return int8(b), err
}

// AppendUint16/32/64/Uint, and their signed zig-zag counterparts, are thin
// instantiations of the generic varint primitives so call sites read like
// the rest of the wire table in spec §6.

func (c *WriteCursor) AppendUint16(v uint16) error { return AppendVarint(c, v) }
func (c *ReadCursor) ReadUint16() (uint16, error)  { return ReadVarint[uint16](c) }

func (c *WriteCursor) AppendUint32(v uint32) error { return AppendVarint(c, v) }
func (c *ReadCursor) ReadUint32() (uint32, error)  { return ReadVarint[uint32](c) }

func (c *WriteCursor) AppendUint64(v uint64) error { return AppendVarint(c, v) }
func (c *ReadCursor) ReadUint64() (uint64, error)  { return ReadVarint[uint64](c) }

// AppendUsize/ReadUsize encode usize as the platform's native uint varint
// width, per spec §4.2 ("usize ... follows the platform pointer width").
func (c *WriteCursor) AppendUsize(v uint) error { return AppendVarint(c, v) }
func (c *ReadCursor) ReadUsize() (uint, error)   { return ReadVarint[uint](c) }

func (c *WriteCursor) AppendInt16(v int16) error { return AppendZigzagVarint(c, v) }
func (c *ReadCursor) ReadInt16() (int16, error)  { return ReadZigzagVarint[int16](c) }

func (c *WriteCursor) AppendInt32(v int32) error { return AppendZigzagVarint(c, v) }
func (c *ReadCursor) ReadInt32() (int32, error)  { return ReadZigzagVarint[int32](c) }

func (c *WriteCursor) AppendInt64(v int64) error { return AppendZigzagVarint(c, v) }
func (c *ReadCursor) ReadInt64() (int64, error)  { return ReadZigzagVarint[int64](c) }

func (c *WriteCursor) AppendIsize(v int) error { return AppendZigzagVarint(c, v) }
func (c *ReadCursor) ReadIsize() (int, error)   { return ReadZigzagVarint[int](c) }

// AppendFloat32 writes the IEEE-754 little-endian bit pattern, 4 bytes.
// Non-canonical NaN payloads round-trip bit-for-bit (spec §9 Open Question b).
func (c *WriteCursor) AppendFloat32(v float32) error {
	bits := math.Float32bits(v)
	return c.PushN([]byte{byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)})
}

// ReadFloat32 reads a little-endian IEEE-754 float32.
func (c *ReadCursor) ReadFloat32() (float32, error) {
	b, err := c.PopN(4)
	if err != nil {
		return 0, err
	}
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits), nil
}

// AppendFloat64 writes the IEEE-754 little-endian bit pattern, 8 bytes.
func (c *WriteCursor) AppendFloat64(v float64) error {
	bits := math.Float64bits(v)
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(bits >> (8 * i))
	}
	return c.PushN(buf)
}

// ReadFloat64 reads a little-endian IEEE-754 float64.
func (c *ReadCursor) ReadFloat64() (float64, error) {
	b, err := c.PopN(8)
	if err != nil {
		return 0, err
	}
	var bits uint64
	for i := 0; i < 8; i++ {
		bits |= uint64(b[i]) << (8 * i)
	}
	return math.Float64frombits(bits), nil
}

// AppendString writes a length-prefixed UTF-8 string: varint_usize(byte_len)
// then the raw bytes (spec §6).
func (c *WriteCursor) AppendString(v string) error {
	if err := c.AppendUsize(uint(len(v))); err != nil {
		return err
	}
	return c.PushN([]byte(v))
}

// ReadString reads a length-prefixed string and validates it as UTF-8,
// failing with ErrInvalidUTF8 otherwise (spec §4.5 failure causes).
func (c *ReadCursor) ReadString() (string, error) {
	n, err := c.ReadUsize()
	if err != nil {
		return "", err
	}
	b, err := c.PopN(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// AppendBytes writes a length-prefixed raw byte slice — the same shape as
// a sequence of u8, provided directly to avoid a per-element loop.
func (c *WriteCursor) AppendBytes(v []byte) error {
	if err := c.AppendUsize(uint(len(v))); err != nil {
		return err
	}
	return c.PushN(v)
}

// ReadBytes reads a length-prefixed raw byte slice. The returned slice is a
// fresh copy; it does not alias the cursor's backing array.
func (c *ReadCursor) ReadBytes() ([]byte, error) {
	n, err := c.ReadUsize()
	if err != nil {
		return nil, err
	}
	b, err := c.PopN(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}
