package postcard

// Tuple2 through Tuple7 give Go — which has no native tuple type — a
// stand-in for postcard's (T1, ..., Tk) for k in 1..=7 (spec §4.3): each is
// just a struct, so the existing record descriptor (descriptor.go,
// buildStructNode) already encodes/decodes it correctly as the
// concatenation of its fields' encodings at their declared offsets. No
// separate tuple codec is needed; a 1-tuple is simply T itself.
type Tuple2[A, B any] struct {
	F0 A
	F1 B
}

type Tuple3[A, B, C any] struct {
	F0 A
	F1 B
	F2 C
}

type Tuple4[A, B, C, D any] struct {
	F0 A
	F1 B
	F2 C
	F3 D
}

type Tuple5[A, B, C, D, E any] struct {
	F0 A
	F1 B
	F2 C
	F3 D
	F4 E
}

type Tuple6[A, B, C, D, E, F any] struct {
	F0 A
	F1 B
	F2 C
	F3 D
	F4 E
	F5 F
}

type Tuple7[A, B, C, D, E, F, G any] struct {
	F0 A
	F1 B
	F2 C
	F3 D
	F4 E
	F5 F
	F6 G
}
