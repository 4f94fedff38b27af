package postcard

// Uint128 and Int128 give this port a wire-compatible stand-in for Rust's
// native u128/i128 (spec §4.2, §6), which have no built-in Go equivalent.
// Both are plain two-word structs; Hi holds the upper 64 bits.
type Uint128 struct {
	Lo uint64
	Hi uint64
}

type Int128 struct {
	Lo uint64
	Hi uint64 // two's complement; sign bit is Hi's MSB
}

func (u Uint128) negative() bool { return false }
func (i Int128) negative() bool  { return int64(i.Hi) < 0 }

// shiftRight1 shifts a 128-bit unsigned magnitude right by one bit.
func shiftRight1(lo, hi uint64) (uint64, uint64) {
	return (lo >> 1) | (hi << 63), hi >> 1
}

// shiftLeft1 shifts a 128-bit value left by one bit.
func shiftLeft1(lo, hi uint64) (uint64, uint64) {
	return lo << 1, (hi << 1) | (lo >> 63)
}

// AppendUint128 writes a 128-bit unsigned varint: up to 19 bytes (spec §4.2,
// ceil(128/7) = 19).
func AppendUint128(c *WriteCursor, v Uint128) error {
	lo, hi := v.Lo, v.Hi
	for {
		if hi == 0 && lo < 0x80 {
			return c.PushOne(byte(lo))
		}
		if err := c.PushOne(byte(lo&0x7f) | 0x80); err != nil {
			return err
		}
		lo, hi = shiftRight7(lo, hi)
	}
}

func shiftRight7(lo, hi uint64) (uint64, uint64) {
	newLo := (lo >> 7) | (hi << 57)
	newHi := hi >> 7
	return newLo, newHi
}

// ReadUint128 decodes a 128-bit unsigned varint, enforcing the same
// overflow rule as readVarintWidth: bits beyond bit 127 in the 19th byte
// must be zero.
func ReadUint128(c *ReadCursor) (Uint128, error) {
	const maxBytes = 19
	var lo, hi uint64

	for i := 0; i < maxBytes; i++ {
		d, err := c.PopOne()
		if err != nil {
			return Uint128{}, ErrBufferUnderflow
		}
		group := uint64(d & 0x7f)

		if i == maxBytes-1 {
			// 19*7 = 133 bits of capacity for 128 bits of value: the
			// last group sits at bit offset 18*7=126 and contributes bits
			// [126,133), of which only [126,128) fall within the 128-bit
			// budget -- i.e. only the group's bits 0 and 1. Bits 2..6 must
			// be zero.
			if group&0x7C != 0 { // bits 2..6 of the final 7-bit group
				return Uint128{}, ErrMalformedVarint
			}
		}

		// accumulate group at bit position i*7 across the 128-bit pair
		lo, hi = orAtBit(lo, hi, group, uint(i)*7)

		if d&0x80 == 0 {
			return Uint128{Lo: lo, Hi: hi}, nil
		}
	}

	return Uint128{}, ErrMalformedVarint
}

// orAtBit ORs a (at most 7-bit) group into the 128-bit (lo,hi) pair at the
// given bit offset.
func orAtBit(lo, hi uint64, group uint64, bit uint) (uint64, uint64) {
	switch {
	case bit >= 128:
		return lo, hi
	case bit+7 <= 64:
		return lo | (group << bit), hi
	case bit >= 64:
		return lo, hi | (group << (bit - 64))
	default:
		// straddles the lo/hi boundary
		loBits := 64 - bit
		return lo | (group << bit), hi | (group >> loBits)
	}
}

// AppendInt128 zig-zag transforms a 128-bit signed value then varint-encodes
// the result, mirroring AppendZigzagVarint at width 128.
func AppendInt128(c *WriteCursor, v Int128) error {
	// zigzag: (n << 1) XOR (n >> 127)
	signMask := uint64(0)
	if v.negative() {
		signMask = ^uint64(0)
	}
	shLo, shHi := shiftLeft1(v.Lo, v.Hi)
	u := Uint128{Lo: shLo ^ signMask, Hi: shHi ^ signMask}
	return AppendUint128(c, u)
}

// ReadInt128 reads a 128-bit varint and reverses the zig-zag transform.
func ReadInt128(c *ReadCursor) (Int128, error) {
	u, err := ReadUint128(c)
	if err != nil {
		return Int128{}, err
	}
	shrLo, shrHi := shiftRight1(u.Lo, u.Hi)
	var signMask uint64
	if u.Lo&1 != 0 {
		signMask = ^uint64(0)
	}
	return Int128{Lo: shrLo ^ signMask, Hi: shrHi ^ signMask}, nil
}
