package postcard

import "testing"

func TestUint128RoundTripSmallValues(t *testing.T) {
	samples := []Uint128{
		{Lo: 0},
		{Lo: 1},
		{Lo: 127},
		{Lo: 128},
		{Lo: 300},
		{Lo: ^uint64(0)},
		{Lo: ^uint64(0), Hi: ^uint64(0)}, // max u128
		{Lo: 0, Hi: 1},                  // exactly 2^64
	}
	for _, v := range samples {
		buf := make([]byte, 32)
		c := NewWriteCursor(buf)
		if err := AppendUint128(&c, v); err != nil {
			t.Fatalf("AppendUint128(%+v): %v", v, err)
		}
		rc := NewReadCursor(c.Written())
		got, err := ReadUint128(&rc)
		if err != nil {
			t.Fatalf("ReadUint128: %v", err)
		}
		if got != v {
			t.Fatalf("round trip %+v, got %+v", v, got)
		}
		if rc.Remaining() != 0 {
			t.Fatalf("Remaining() = %d, want 0", rc.Remaining())
		}
	}
}

func TestUint128MatchesPlainVarintForSmallValues(t *testing.T) {
	// a u128 holding a value that fits in 16 bits must encode identically
	// to the ordinary varint path, since both implement the same scheme.
	buf1 := make([]byte, 32)
	c1 := NewWriteCursor(buf1)
	if err := AppendUint128(&c1, Uint128{Lo: 300}); err != nil {
		t.Fatalf("AppendUint128: %v", err)
	}

	buf2 := make([]byte, 32)
	c2 := NewWriteCursor(buf2)
	if err := AppendVarint(&c2, uint32(300)); err != nil {
		t.Fatalf("AppendVarint: %v", err)
	}

	if string(c1.Written()) != string(c2.Written()) {
		t.Fatalf("u128 encoding %x, plain varint encoding %x", c1.Written(), c2.Written())
	}
}

func TestInt128RoundTrip(t *testing.T) {
	samples := []Int128{
		{Lo: 0, Hi: 0},                                    // 0
		{Lo: 1, Hi: 0},                                    // 1
		{Lo: ^uint64(0), Hi: ^uint64(0)},                  // -1
		{Lo: ^uint64(0) - 1, Hi: ^uint64(0)},              // -2
		{Lo: 0x8000000000000000, Hi: 0},                   // 2^63, positive, straddles the word boundary on zigzag
	}
	for _, v := range samples {
		buf := make([]byte, 32)
		c := NewWriteCursor(buf)
		if err := AppendInt128(&c, v); err != nil {
			t.Fatalf("AppendInt128(%+v): %v", v, err)
		}
		rc := NewReadCursor(c.Written())
		got, err := ReadInt128(&rc)
		if err != nil {
			t.Fatalf("ReadInt128: %v", err)
		}
		if got != v {
			t.Fatalf("round trip %+v, got %+v", v, got)
		}
	}
}

func TestReadUint128RejectsOverflowInFinalByte(t *testing.T) {
	// 19 bytes, all continuation-flagged except the last, whose low bits
	// overflow the 128-bit budget.
	data := make([]byte, 19)
	for i := 0; i < 18; i++ {
		data[i] = 0xFF
	}
	data[18] = 0x7F // bits 2..6 set: exceeds 128 bits of capacity
	rc := NewReadCursor(data)
	if _, err := ReadUint128(&rc); err == nil {
		t.Fatal("expected an error for a u128 varint overflowing 128 bits")
	}
}

// TestReadUint128RejectsOverflowBit2 pins the exact boundary: the 19th
// byte's bit 2 (mask 0x04) sits at absolute bit 128, one past the 128-bit
// budget, so it must be rejected even though bits 3..6 are clear. A mask of
// 0x78 (bits 3..6 only) would miss this and silently drop the bit instead
// of failing.
func TestReadUint128RejectsOverflowBit2(t *testing.T) {
	data := make([]byte, 19)
	for i := 0; i < 18; i++ {
		data[i] = 0xFF
	}
	data[18] = 0x04
	rc := NewReadCursor(data)
	if _, err := ReadUint128(&rc); err == nil {
		t.Fatal("expected an error for a u128 varint whose 19th byte sets bit 2 (absolute bit 128)")
	}
}
