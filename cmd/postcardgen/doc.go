// Command postcardgen is the compile-time counterpart to descriptor.go's
// reflection-based builder (spec §4.6 "a compile-time macro generates the
// descriptor instead of building it via reflection at runtime").
//
// Given a Go source file, it finds struct and tagged-union declarations
// annotated with a "//postcard:generate" comment and emits a sibling
// "_postcard.go" file defining, for each one, a static *postcard.Node whose
// Encode/Decode access each field directly by name in declaration order,
// plus an init() that registers it with postcard.RegisterNode. This mirrors
// structgenerator.go's shape: parse a declaration, walk its fields, emit Go
// source as a string — but walks a Go struct declaration via go/ast instead
// of a glint wire schema, since there's no running program with a wire
// document to introspect at generate time.
//
// Tagged unions are declared as an interface annotated
// "//postcard:union variant=A,B,C" naming its implementing variant types in
// declaration order; postcardgen emits the UnionDescriptor/UnionVariant
// wiring (union.go) with one type-switch case per named variant.
//
// Using the generated Node for a type is optional — NodeFor[T] already
// builds an equivalent Node lazily via reflection the first time T is seen.
// postcardgen exists for callers who want that cost paid at compile time
// instead of at first use, and who want the wire layout fixed in source
// under code review rather than implicit in struct field order.
package main
