package postcard

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// nodeCache ensures every type T gets exactly one Node, shared by every
// caller (spec §3 invariant). Nodes are built once, lazily, the first time
// a type is seen, and never rebuilt.
var nodeCache sync.Map // reflect.Type -> *Node

// customNodes lets callers — or cmd/postcardgen-emitted code — supply a
// hand-built Node for a type instead of the reflection-based default.
// Tagged unions always go through this path (see union.go); anything with
// bespoke wire semantics can too.
var customNodes sync.Map // reflect.Type -> *Node

// RegisterNode installs a Node for t, overriding the reflection-based
// descriptor builder for that type. Call before the first Encode/Decode
// that touches t — typically from an init func, the way generated
// descriptor code would register itself.
func RegisterNode(t reflect.Type, n *Node) {
	customNodes.Store(t, n)
	nodeCache.Store(t, n)
}

// NodeFor returns the (possibly cached) Node describing T, building it via
// reflection over T's declared fields if one hasn't been built or
// registered yet.
func NodeFor[T any]() (*Node, error) {
	var zero T
	t := reflect.TypeOf(&zero).Elem()
	return NodeOf(t)
}

// NodeOf returns the Node for t, the general entry point used recursively
// while building Nodes for fields, slice elements, and pointer targets.
func NodeOf(t reflect.Type) (*Node, error) {
	if n, ok := nodeCache.Load(t); ok {
		return n.(*Node), nil
	}
	if n, ok := customNodes.Load(t); ok {
		nodeCache.Store(t, n)
		return n.(*Node), nil
	}

	// Store a placeholder before recursing so that self-referential and
	// mutually-referential types resolve through one level of indirection
	// instead of infinitely recursing (spec §9 "Recursive types").
	node := &Node{}
	actual, loaded := nodeCache.LoadOrStore(t, node)
	if loaded {
		return actual.(*Node), nil
	}

	if err := buildNode(t, node); err != nil {
		nodeCache.Delete(t)
		return nil, err
	}
	return node, nil
}

// buildNode fills in node in place for type t, dispatching on t's Kind.
// Scalar kinds get direct-pointer-cast Leaf closures with no further
// reflection at encode/decode time; composite kinds (slice, array,
// pointer, struct) retain just enough reflection to navigate an arbitrary
// element/field type, matching the cost model glint's own reflect-based
// instruction builder pays once per type, not once per call.
func buildNode(t reflect.Type, node *Node) error {
	switch t.Kind() {
	case reflect.Bool:
		*node = leafNode(
			func(c *WriteCursor, p unsafe.Pointer) error { return c.AppendBool(*(*bool)(p)) },
			func(c *ReadCursor, p unsafe.Pointer) error {
				v, err := c.ReadBool()
				if err != nil {
					return err
				}
				*(*bool)(p) = v
				return nil
			})

	case reflect.Uint8:
		*node = leafNode(
			func(c *WriteCursor, p unsafe.Pointer) error { return c.AppendUint8(*(*uint8)(p)) },
			func(c *ReadCursor, p unsafe.Pointer) error {
				v, err := c.ReadUint8()
				*(*uint8)(p) = v
				return err
			})

	case reflect.Uint16:
		*node = leafNode(
			func(c *WriteCursor, p unsafe.Pointer) error { return c.AppendUint16(*(*uint16)(p)) },
			func(c *ReadCursor, p unsafe.Pointer) error {
				v, err := c.ReadUint16()
				*(*uint16)(p) = v
				return err
			})

	case reflect.Uint32:
		*node = leafNode(
			func(c *WriteCursor, p unsafe.Pointer) error { return c.AppendUint32(*(*uint32)(p)) },
			func(c *ReadCursor, p unsafe.Pointer) error {
				v, err := c.ReadUint32()
				*(*uint32)(p) = v
				return err
			})

	case reflect.Uint64:
		*node = leafNode(
			func(c *WriteCursor, p unsafe.Pointer) error { return c.AppendUint64(*(*uint64)(p)) },
			func(c *ReadCursor, p unsafe.Pointer) error {
				v, err := c.ReadUint64()
				*(*uint64)(p) = v
				return err
			})

	case reflect.Uint:
		*node = leafNode(
			func(c *WriteCursor, p unsafe.Pointer) error { return c.AppendUsize(*(*uint)(p)) },
			func(c *ReadCursor, p unsafe.Pointer) error {
				v, err := c.ReadUsize()
				*(*uint)(p) = v
				return err
			})

	case reflect.Int8:
		*node = leafNode(
			func(c *WriteCursor, p unsafe.Pointer) error { return c.AppendInt8(*(*int8)(p)) },
			func(c *ReadCursor, p unsafe.Pointer) error {
				v, err := c.ReadInt8()
				*(*int8)(p) = v
				return err
			})

	case reflect.Int16:
		*node = leafNode(
			func(c *WriteCursor, p unsafe.Pointer) error { return c.AppendInt16(*(*int16)(p)) },
			func(c *ReadCursor, p unsafe.Pointer) error {
				v, err := c.ReadInt16()
				*(*int16)(p) = v
				return err
			})

	case reflect.Int32:
		*node = leafNode(
			func(c *WriteCursor, p unsafe.Pointer) error { return c.AppendInt32(*(*int32)(p)) },
			func(c *ReadCursor, p unsafe.Pointer) error {
				v, err := c.ReadInt32()
				*(*int32)(p) = v
				return err
			})

	case reflect.Int64:
		*node = leafNode(
			func(c *WriteCursor, p unsafe.Pointer) error { return c.AppendInt64(*(*int64)(p)) },
			func(c *ReadCursor, p unsafe.Pointer) error {
				v, err := c.ReadInt64()
				*(*int64)(p) = v
				return err
			})

	case reflect.Int:
		*node = leafNode(
			func(c *WriteCursor, p unsafe.Pointer) error { return c.AppendIsize(*(*int)(p)) },
			func(c *ReadCursor, p unsafe.Pointer) error {
				v, err := c.ReadIsize()
				*(*int)(p) = v
				return err
			})

	case reflect.Float32:
		*node = leafNode(
			func(c *WriteCursor, p unsafe.Pointer) error { return c.AppendFloat32(*(*float32)(p)) },
			func(c *ReadCursor, p unsafe.Pointer) error {
				v, err := c.ReadFloat32()
				*(*float32)(p) = v
				return err
			})

	case reflect.Float64:
		*node = leafNode(
			func(c *WriteCursor, p unsafe.Pointer) error { return c.AppendFloat64(*(*float64)(p)) },
			func(c *ReadCursor, p unsafe.Pointer) error {
				v, err := c.ReadFloat64()
				*(*float64)(p) = v
				return err
			})

	case reflect.String:
		*node = leafNode(
			func(c *WriteCursor, p unsafe.Pointer) error { return c.AppendString(*(*string)(p)) },
			func(c *ReadCursor, p unsafe.Pointer) error {
				v, err := c.ReadString()
				*(*string)(p) = v
				return err
			})

	case reflect.Slice:
		return buildSliceNode(t, node)

	case reflect.Array:
		return buildArrayNode(t, node)

	case reflect.Pointer:
		return buildPointerNode(t, node)

	case reflect.Struct:
		return buildStructNode(t, node)

	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}

	return nil
}

func leafNode(enc EncoderFn, dec DecoderFn) Node {
	return Node{Kind: NodeLeaf, Encode: enc, Decode: dec}
}

// buildSliceNode handles both the []byte fast path and the general
// sequence-of-T case (spec §4.3 "length-prefixed sequence of T").
func buildSliceNode(t reflect.Type, node *Node) error {
	if t.Elem().Kind() == reflect.Uint8 {
		*node = leafNode(
			func(c *WriteCursor, p unsafe.Pointer) error { return c.AppendBytes(*(*[]byte)(p)) },
			func(c *ReadCursor, p unsafe.Pointer) error {
				v, err := c.ReadBytes()
				*(*[]byte)(p) = v
				return err
			})
		return nil
	}

	elemNode, err := NodeOf(t.Elem())
	if err != nil {
		return err
	}

	*node = leafNode(
		func(c *WriteCursor, p unsafe.Pointer) error {
			sv := reflect.NewAt(t, p).Elem()
			n := sv.Len()
			if err := c.AppendUsize(uint(n)); err != nil {
				return err
			}
			for i := 0; i < n; i++ {
				addr := unsafe.Pointer(sv.Index(i).UnsafeAddr())
				if err := EncodeWalk(c, addr, elemNode); err != nil {
					return err
				}
			}
			return nil
		},
		func(c *ReadCursor, p unsafe.Pointer) error {
			n, err := c.ReadUsize()
			if err != nil {
				return err
			}
			// A malformed length prefix from an adversarial peer must fail,
			// not crash: no sequence of at-least-one-byte elements can
			// exceed the bytes actually left, so bound n against Remaining
			// before ever allocating. Left unchecked, a huge or negative-
			// once-truncated n reaches reflect.MakeSlice before the element
			// loop gets a chance to hit ErrBufferUnderflow itself.
			if n > uint(c.Remaining()) {
				return ErrBufferUnderflow
			}
			out := reflect.MakeSlice(t, int(n), int(n))
			for i := 0; i < int(n); i++ {
				addr := unsafe.Pointer(out.Index(i).UnsafeAddr())
				if err := DecodeWalk(c, addr, elemNode); err != nil {
					return err
				}
			}
			reflect.NewAt(t, p).Elem().Set(out)
			return nil
		})
	return nil
}

// buildArrayNode handles spec §4.3's fixed array [T; N]: N back-to-back
// elements, no length prefix.
func buildArrayNode(t reflect.Type, node *Node) error {
	elemNode, err := NodeOf(t.Elem())
	if err != nil {
		return err
	}
	n := t.Len()

	*node = leafNode(
		func(c *WriteCursor, p unsafe.Pointer) error {
			av := reflect.NewAt(t, p).Elem()
			for i := 0; i < n; i++ {
				addr := unsafe.Pointer(av.Index(i).UnsafeAddr())
				if err := EncodeWalk(c, addr, elemNode); err != nil {
					return err
				}
			}
			return nil
		},
		func(c *ReadCursor, p unsafe.Pointer) error {
			av := reflect.NewAt(t, p).Elem()
			for i := 0; i < n; i++ {
				addr := unsafe.Pointer(av.Index(i).UnsafeAddr())
				if err := DecodeWalk(c, addr, elemNode); err != nil {
					return err
				}
			}
			return nil
		})
	return nil
}

// buildPointerNode handles spec §4.3's optional T: encode as bool(present)
// then the payload if present.
func buildPointerNode(t reflect.Type, node *Node) error {
	elem := t.Elem()
	elemNode, err := NodeOf(elem)
	if err != nil {
		return err
	}

	*node = leafNode(
		func(c *WriteCursor, p unsafe.Pointer) error {
			ptr := *(*unsafe.Pointer)(p)
			if ptr == nil {
				return c.AppendBool(false)
			}
			if err := c.AppendBool(true); err != nil {
				return err
			}
			return EncodeWalk(c, ptr, elemNode)
		},
		func(c *ReadCursor, p unsafe.Pointer) error {
			present, err := c.ReadBool()
			if err != nil {
				return err
			}
			if !present {
				*(*unsafe.Pointer)(p) = nil
				return nil
			}
			newVal := reflect.New(elem)
			addr := unsafe.Pointer(newVal.Pointer())
			if err := DecodeWalk(c, addr, elemNode); err != nil {
				return err
			}
			*(*unsafe.Pointer)(p) = addr
			return nil
		})
	return nil
}

// buildStructNode handles spec §4.5's record contract: one FieldDescriptor
// per declared field, in declaration order, at that field's true in-memory
// offset. Every field participates regardless of exportedness — postcard's
// wire contract is the Rust struct's memory layout, which has no concept
// of visibility (see DESIGN.md).
func buildStructNode(t reflect.Type, node *Node) error {
	fields := make([]FieldDescriptor, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		fn, err := NodeOf(f.Type)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		fields = append(fields, FieldDescriptor{Offset: f.Offset, Node: fn})
	}

	node.Kind = NodeRecord
	node.Fields = fields
	return nil
}
