package pool

// Handle is a generic pooled slot carrying an arbitrary value.
type Handle struct {
	Node
	Value any
}

// HandlePool lends generic handles; GetAs offers typed retrieval.
type HandlePool struct {
	*Container[*Handle]
	name string
}

// NewHandlePool pre-warms warm handles whose values are built by newFn.
func NewHandlePool(name string, warm int, newFn func() any) *HandlePool {
	lc := &nodeLifecycle[*Handle]{newFn: func() *Handle {
		return &Handle{Value: newFn()}
	}}
	return &HandlePool{
		Container: NewContainer[*Handle](lc, warm),
		name:      name,
	}
}

func (p *HandlePool) Name() string { return p.name }

// GetAs borrows a handle and returns its value as I. When the value does not
// implement I the handle is released again and ok is false.
func GetAs[I any](p *HandlePool) (v I, h *Handle, ok bool) {
	h = p.GetEntity()
	v, ok = h.Value.(I)
	if !ok {
		h.Release()
		return v, nil, false
	}
	return v, h, true
}
