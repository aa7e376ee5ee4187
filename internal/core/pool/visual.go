package pool

// VisualPool lends entities whose pool eligibility is their own active flag:
// an entity is free again the moment its holder calls Release on it.
type VisualPool[T Pooled] struct {
	*Container[T]
	name string
}

// NewVisualPool pre-warms warm entities built by newFn.
func NewVisualPool[T Pooled](name string, warm int, newFn func() T) *VisualPool[T] {
	return &VisualPool[T]{
		Container: NewContainer[T](&nodeLifecycle[T]{newFn: newFn}, warm),
		name:      name,
	}
}

func (p *VisualPool[T]) Name() string { return p.name }
