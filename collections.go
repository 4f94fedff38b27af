package postcard

// AppendSequence writes a length-prefixed sequence of T: varint_usize(len)
// then each element encoded in order via enc (spec §4.3).
func AppendSequence[T any](c *WriteCursor, values []T, enc func(*WriteCursor, *T) error) error {
	if err := c.AppendUsize(uint(len(values))); err != nil {
		return err
	}
	for i := range values {
		if err := enc(c, &values[i]); err != nil {
			return err
		}
	}
	return nil
}

// ReadSequence reads a length-prefixed sequence, decoding each element via
// dec. The whole decode either fully succeeds or returns nil and an error —
// no partial slice is handed back on failure (spec §5, "no memory leaks on
// the error path").
func ReadSequence[T any](c *ReadCursor, dec func(*ReadCursor, *T) error) ([]T, error) {
	n, err := c.ReadUsize()
	if err != nil {
		return nil, err
	}
	// Bound the attacker-controlled length against what's actually left
	// before allocating: no sequence of at-least-one-byte elements can
	// exceed Remaining(), so a length prefix that does is malformed, not
	// merely large. Skipping this check lets a huge n reach make([]T, n)
	// (multi-GB allocation, or a negative int(n) panic on some platforms)
	// before the element loop ever gets a chance to fail cleanly.
	if n > uint(c.Remaining()) {
		return nil, ErrBufferUnderflow
	}
	out := make([]T, n)
	for i := range out {
		if err := dec(c, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// AppendArray writes N back-to-back elements with no length prefix
// (spec §4.3). len(values) is the array's static length N.
func AppendArray[T any](c *WriteCursor, values []T, enc func(*WriteCursor, *T) error) error {
	for i := range values {
		if err := enc(c, &values[i]); err != nil {
			return err
		}
	}
	return nil
}

// ReadArray decodes exactly n back-to-back elements into a fresh [n]T-shaped
// slice. Callers with a true fixed-size Go array copy the result in.
func ReadArray[T any](c *ReadCursor, n int, dec func(*ReadCursor, *T) error) ([]T, error) {
	out := make([]T, n)
	for i := range out {
		if err := dec(c, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// AppendOption writes bool(present) then the payload if v is non-nil
// (spec §4.3).
func AppendOption[T any](c *WriteCursor, v *T, enc func(*WriteCursor, *T) error) error {
	if v == nil {
		return c.AppendBool(false)
	}
	if err := c.AppendBool(true); err != nil {
		return err
	}
	return enc(c, v)
}

// ReadOption reads the presence bool; on false, returns a nil *T without
// consuming further bytes; on true, decodes T and returns its address.
func ReadOption[T any](c *ReadCursor, dec func(*ReadCursor, *T) error) (*T, error) {
	present, err := c.ReadBool()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	var v T
	if err := dec(c, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
