package batch

// Buffer is a growable array whose reallocations are observable. Views handed
// to an Evaluator keep pointing at the old backing array after a reallocation,
// so the owner checks CapacityChanged before every submission and rebinds.
//
// Buffers are allocated explicitly and released explicitly; a released buffer
// must not be appended to again.
type Buffer[T any] struct {
	data     []T
	boundCap int
	released bool
}

func NewBuffer[T any](capacity int) *Buffer[T] {
	return &Buffer[T]{
		data:     make([]T, 0, capacity),
		boundCap: -1,
	}
}

func (b *Buffer[T]) Len() int       { return len(b.data) }
func (b *Buffer[T]) Cap() int       { return cap(b.data) }
func (b *Buffer[T]) At(i int) T     { return b.data[i] }
func (b *Buffer[T]) Set(i int, v T) { b.data[i] = v }

// Slice returns the live view. It is invalidated by the next Append.
func (b *Buffer[T]) Slice() []T { return b.data }

func (b *Buffer[T]) Append(v T) {
	if b.released {
		panic("batch: append to released buffer")
	}
	b.data = append(b.data, v)
}

// SwapRemove overwrites slot i with the last element and shrinks by one.
func (b *Buffer[T]) SwapRemove(i int) {
	last := len(b.data) - 1
	b.data[i] = b.data[last]
	var zero T
	b.data[last] = zero
	b.data = b.data[:last]
}

// CapacityChanged reports whether the backing array moved since the buffer
// was last bound to an evaluator.
func (b *Buffer[T]) CapacityChanged() bool { return cap(b.data) != b.boundCap }

func (b *Buffer[T]) full() []T {
	b.boundCap = cap(b.data)
	return b.data[:cap(b.data)]
}

// Release drops the backing array.
func (b *Buffer[T]) Release() {
	b.data = nil
	b.boundCap = -1
	b.released = true
}
