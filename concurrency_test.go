package postcard

import (
	"sync"
	"testing"
)

// TestConcurrentEncodeDecodeDisjointCursors exercises spec §5's concurrency
// contract: two unrelated Encode/Decode calls against disjoint cursors and
// values may run in parallel with no shared mutable state other than the
// read-only, lazily-built-once Node cache (descriptor.go). Grounded on
// glint's own decoder_race_test.go, which asserts the analogous property
// for its instruction-list walker; run with `go test -race` to confirm no
// data race in the shared nodeCache/customNodes sync.Map access.
func TestConcurrentEncodeDecodeDisjointCursors(t *testing.T) {
	const goroutines = 64

	var wg sync.WaitGroup
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			v := flatRecord{A: uint8(i), B: uint16(i * 7), C: uint32(i * 131), D: int8(-i), E: int16(-i * 3), F: int32(-i * 17)}
			buf := make([]byte, 64)
			c := NewWriteCursor(buf)
			if err := Encode(&c, &v); err != nil {
				errs[i] = err
				return
			}

			rc := NewReadCursor(c.Written())
			var out flatRecord
			if err := Decode(&rc, &out); err != nil {
				errs[i] = err
				return
			}
			if out != v {
				t.Errorf("goroutine %d: decoded %+v, want %+v", i, out, v)
			}
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("goroutine %d: %v", i, err)
		}
	}
}

// TestConcurrentFirstUseOfSameTypeBuildsOneNode exercises the nodeCache's
// LoadOrStore race (descriptor.go, NodeOf): many goroutines requesting the
// Node for the same not-yet-seen type concurrently must all observe exactly
// one built Node, never a torn or duplicate one.
func TestConcurrentFirstUseOfSameTypeBuildsOneNode(t *testing.T) {
	type freshType struct {
		X uint32
		Y string
	}

	const goroutines = 32
	nodes := make([]*Node, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := NodeFor[freshType]()
			if err != nil {
				t.Errorf("NodeFor: %v", err)
				return
			}
			nodes[i] = n
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if nodes[i] != nodes[0] {
			t.Fatal("concurrent first use must converge on exactly one built Node")
		}
	}
}
