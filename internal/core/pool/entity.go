package pool

// EntityID encodes a 32-bit serial in the lower bits and a 32-bit generation
// in the upper bits. The serial is fixed when the entity is constructed; the
// generation increments every time the entity is lent out again, so a caller
// holding an ID past its release can tell the entity was reused.
type EntityID uint64

func NewEntityID(serial uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(serial))
}

func (id EntityID) Serial() uint32     { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// Node is the pool bookkeeping embedded in every pooled entity.
// The zero value is an active, never-lent entity; containers initialise it.
type Node struct {
	id        EntityID
	free      bool
	destroyed bool
}

func (n *Node) ID() EntityID { return n.id }

// Active reports whether the entity is currently lent out.
func (n *Node) Active() bool { return !n.free && !n.destroyed }

// Release deactivates the entity. The owning container hands it out again on
// a later GetEntity; no call into the container is needed.
func (n *Node) Release() { n.free = true }

// Destroy marks the entity as destroyed outside its container. The container
// drops the slot the next time a scan passes over it.
func (n *Node) Destroy() {
	n.destroyed = true
	n.free = true
}

func (n *Node) Destroyed() bool { return n.destroyed }

func (n *Node) poolNode() *Node { return n }

// Pooled is satisfied by any pointer type embedding Node.
type Pooled interface {
	poolNode() *Node
}

// nodeLifecycle drives a Pooled entity through the Node flags.
type nodeLifecycle[T Pooled] struct {
	newFn  func() T
	serial uint32
}

func (l *nodeLifecycle[T]) New() T {
	e := l.newFn()
	l.serial++
	e.poolNode().id = NewEntityID(l.serial, 0)
	return e
}

func (l *nodeLifecycle[T]) Alive(e T) bool { return !e.poolNode().destroyed }
func (l *nodeLifecycle[T]) Free(e T) bool  { return e.poolNode().free }

func (l *nodeLifecycle[T]) Activate(e T) {
	n := e.poolNode()
	n.free = false
	n.id = NewEntityID(n.id.Serial(), n.id.Generation()+1)
}

func (l *nodeLifecycle[T]) Deactivate(e T) { e.poolNode().free = true }
func (l *nodeLifecycle[T]) Dispose(e T)    { e.poolNode().Destroy() }
