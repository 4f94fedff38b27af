package postcard

import "unsafe"

// UnionVariant describes one declared variant of a tagged union (spec
// §4.5). Variants are supplied in declaration order; that order, not any
// field on the variant itself, is what ends up on the wire as the u32
// discriminant (spec §9 "Tagged-union versioning").
type UnionVariant[U any] struct {
	// Matches reports whether v holds this variant, used at encode time to
	// pick which variant_index and payload encoder to run.
	Matches func(v U) bool
	// Encode writes this variant's payload as if it were a record: nothing
	// for a unit variant, one field's encoding for a newtype variant, or
	// each field's encoding in order for a tuple/struct variant.
	Encode func(c *WriteCursor, v U) error
	// Decode reads this variant's payload and returns the reconstructed
	// union value.
	Decode func(c *ReadCursor) (U, error)
}

// UnionDescriptor is what a user-declared tagged union contributes to the
// descriptor graph: a flat, declaration-ordered variant list (spec §4.5,
// §4.6). A hand-written Matches/Encode/Decode triple per variant is the Go
// stand-in for the Rust derive macro's generated match arms; cmd/postcardgen
// emits this shape mechanically for a declared Go sum-type encoding (see
// cmd/postcardgen).
type UnionDescriptor[U any] struct {
	Variants []UnionVariant[U]
}

// NewUnionNode builds the Leaf Node a tagged union contributes (spec §4.5):
//
//   - Encode inspects v's runtime variant via the first matching
//     UnionVariant, writes varint_u32(variant_index), then the payload.
//   - Decode reads varint_u32(variant_index); ErrUnknownVariant if it names
//     no declared variant, otherwise decodes the payload via that variant.
//
// Register the result for U with RegisterNode so that NodeOf(U) and any
// containing record's field walk finds it.
func NewUnionNode[U any](d UnionDescriptor[U]) *Node {
	return &Node{
		Kind: NodeLeaf,
		Encode: func(c *WriteCursor, p unsafe.Pointer) error {
			v := *(*U)(p)
			for i, variant := range d.Variants {
				if !variant.Matches(v) {
					continue
				}
				if err := AppendVarint(c, uint32(i)); err != nil {
					return err
				}
				return variant.Encode(c, v)
			}
			return ErrUnsupportedType
		},
		Decode: func(c *ReadCursor, p unsafe.Pointer) error {
			idx, err := ReadVarint[uint32](c)
			if err != nil {
				return err
			}
			if int(idx) >= len(d.Variants) {
				return ErrUnknownVariant
			}
			v, err := d.Variants[idx].Decode(c)
			if err != nil {
				return err
			}
			*(*U)(p) = v
			return nil
		},
	}
}
