package pool

import (
	"fmt"
	"sort"
)

// Pool is the untyped view of a declared pool.
type Pool interface {
	Name() string
	Len() int
	ActiveCount() int
	DisableAllEntities()
	Destroy()
}

// Registry is a name-keyed collection of pre-declared pools.
type Registry struct {
	pools map[string]Pool
}

func NewRegistry() *Registry {
	return &Registry{
		pools: make(map[string]Pool, 16),
	}
}

// Declare adds a pool. Names are unique per registry.
func (r *Registry) Declare(p Pool) error {
	if _, dup := r.pools[p.Name()]; dup {
		return fmt.Errorf("pool %q already declared", p.Name())
	}
	r.pools[p.Name()] = p
	return nil
}

func (r *Registry) Lookup(name string) (Pool, bool) {
	p, ok := r.pools[name]
	return p, ok
}

// Visual looks up a VisualPool of entity type T.
func Visual[T Pooled](r *Registry, name string) (*VisualPool[T], bool) {
	p, ok := r.pools[name]
	if !ok {
		return nil, false
	}
	vp, ok := p.(*VisualPool[T])
	return vp, ok
}

// Handles looks up a HandlePool.
func Handles(r *Registry, name string) (*HandlePool, bool) {
	p, ok := r.pools[name]
	if !ok {
		return nil, false
	}
	hp, ok := p.(*HandlePool)
	return hp, ok
}

// Names returns declared pool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.pools))
	for n := range r.pools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DisableAll() {
	for _, p := range r.pools {
		p.DisableAllEntities()
	}
}

// DestroyAll destroys every pool and forgets them.
func (r *Registry) DestroyAll() {
	for name, p := range r.pools {
		p.Destroy()
		delete(r.pools, name)
	}
}
