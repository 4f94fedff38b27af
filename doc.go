// Package postcard implements a compact, non-self-describing binary
// serialization format wire-compatible with Rust's "postcard" encoding.
//
// Multi-byte integers use LEB128-style variable length encoding; signed
// integers are zig-zag transformed before being varint-encoded; floating
// point values are written as IEEE-754 little-endian bytes; variable-sized
// collections are length-prefixed; tagged unions are dispatched on a
// leading u32 variant index.
//
// The package performs no I/O and starts no goroutines. Its only state is a
// process-wide cache of descriptor Nodes, each built once per type on first
// use or supplied via RegisterNode. An Encode or Decode call is a single
// synchronous walk over that descriptor graph (see Node) against a
// caller-owned byte range (see WriteCursor, ReadCursor).
package postcard
