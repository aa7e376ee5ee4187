package pool

// Lifecycle supplies a Container with construction and liveness rules.
type Lifecycle[T any] interface {
	New() T
	// Alive is false once the entity was destroyed outside the container.
	Alive(e T) bool
	// Free is the validity predicate GetEntity looks for.
	Free(e T) bool
	Activate(e T)
	Deactivate(e T)
	Dispose(e T)
}

// Container is the reuse container: an ordered, growable list of entities
// lent out by a linear scan for the first free slot.
//
// The scan is O(n) per call and compacts destroyed slots as it passes them.
// n is bounded by the simultaneous on-screen entities of one kind, so a free
// list is not used.
type Container[T any] struct {
	items []T
	lc    Lifecycle[T]
}

// NewContainer builds a container and pre-warms warm inactive entities.
func NewContainer[T any](lc Lifecycle[T], warm int) *Container[T] {
	if warm < 0 {
		warm = 0
	}
	c := &Container[T]{
		items: make([]T, 0, warm),
		lc:    lc,
	}
	for i := 0; i < warm; i++ {
		e := lc.New()
		lc.Deactivate(e)
		c.items = append(c.items, e)
	}
	return c
}

// GetEntity returns an entity that was free at the moment of the call and
// marks it active. The container grows by exactly one entity when no free
// slot exists.
func (c *Container[T]) GetEntity() T {
	i := 0
	for i < len(c.items) {
		e := c.items[i]
		if !c.lc.Alive(e) {
			// Destroyed elsewhere: shift the tail left and drop the last slot.
			copy(c.items[i:], c.items[i+1:])
			var zero T
			c.items[len(c.items)-1] = zero
			c.items = c.items[:len(c.items)-1]
			continue
		}
		if c.lc.Free(e) {
			c.lc.Activate(e)
			return e
		}
		i++
	}

	e := c.lc.New()
	c.lc.Deactivate(e)
	c.items = append(c.items, e)
	c.lc.Activate(e)
	return e
}

// DisableAllEntities deactivates every tracked entity.
func (c *Container[T]) DisableAllEntities() {
	for _, e := range c.items {
		if c.lc.Alive(e) {
			c.lc.Deactivate(e)
		}
	}
}

// Destroy disposes every owned entity and clears the container.
func (c *Container[T]) Destroy() {
	for _, e := range c.items {
		if c.lc.Alive(e) {
			c.lc.Dispose(e)
		}
	}
	clear(c.items)
	c.items = c.items[:0]
}

// Len returns the number of tracked slots, destroyed ones not yet compacted
// included.
func (c *Container[T]) Len() int { return len(c.items) }

// ActiveCount returns how many tracked entities are currently lent out.
func (c *Container[T]) ActiveCount() int {
	n := 0
	for _, e := range c.items {
		if c.lc.Alive(e) && !c.lc.Free(e) {
			n++
		}
	}
	return n
}

// Each visits every live tracked entity, free or not.
func (c *Container[T]) Each(fn func(T)) {
	for _, e := range c.items {
		if c.lc.Alive(e) {
			fn(e)
		}
	}
}
