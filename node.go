package postcard

import "unsafe"

// EncoderFn reads the value at p (of some statically known type T) and
// appends its wire form to c (spec §3).
type EncoderFn func(c *WriteCursor, p unsafe.Pointer) error

// DecoderFn populates the uninitialized storage at p (of some statically
// known type T) from c. On success p is fully initialized. On failure p may
// have been partly written: this package's scalar leaf decoders store the
// zero value before returning the error, and a Record walk leaves the
// fields decoded before the failing one in place.
type DecoderFn func(c *ReadCursor, p unsafe.Pointer) error

// NodeKind distinguishes the two shapes a Node can take (spec §3).
type NodeKind uint8

const (
	// NodeLeaf carries a single EncoderFn/DecoderFn pair: primitives, and
	// any type needing a runtime decision before field walking (tagged
	// unions, sequences, options, arrays).
	NodeLeaf NodeKind = iota
	// NodeRecord carries a statically known, ordered list of FieldDescriptors.
	NodeRecord
)

// FieldDescriptor pairs a field's byte offset within its containing
// aggregate with the Node describing that field's type (spec §3). Offsets
// must be the host's true in-memory layout; this port obtains them from
// reflect.StructField.Offset, which reports exactly that.
type FieldDescriptor struct {
	Offset uintptr
	Node   *Node
}

// Node is the static, type-erased description of how to encode/decode some
// type T (spec §3). Every Node is built once and shared by every caller
// that uses the same T — see the cache in descriptor.go.
type Node struct {
	Kind NodeKind

	// Leaf
	Encode EncoderFn
	Decode DecoderFn

	// Record
	Fields []FieldDescriptor
}

// EncodeWalk is the encode half of the walker described in spec §4.4: it
// interprets node against base, writing to c. The only observable side
// effect is advancing c.
func EncodeWalk(c *WriteCursor, base unsafe.Pointer, node *Node) error {
	if node.Kind == NodeLeaf {
		return node.Encode(c, base)
	}
	for _, f := range node.Fields {
		if err := EncodeWalk(c, unsafe.Add(base, f.Offset), f.Node); err != nil {
			return err
		}
	}
	return nil
}

// DecodeWalk is the symmetric decode half: it invokes the decoder on a
// Leaf, or for a Record iterates fields in declaration order, offsetting
// into base (uninitialized storage) and expecting each sub-call to fully
// initialize its sub-range. On any sub-step failure it returns immediately
// and performs no further writes (spec §4.4 edge-case policy).
func DecodeWalk(c *ReadCursor, base unsafe.Pointer, node *Node) error {
	if node.Kind == NodeLeaf {
		return node.Decode(c, base)
	}
	for _, f := range node.Fields {
		if err := DecodeWalk(c, unsafe.Add(base, f.Offset), f.Node); err != nil {
			return err
		}
	}
	return nil
}
