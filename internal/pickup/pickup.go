// Package pickup models collectible world entities. A Pickup is lent out by a
// category pool, sits in the drop scheduler's registry while active, and is
// returned to its pool the moment OnCollected deactivates it.
package pickup

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/l1jgo/dropsim/internal/core/event"
	"github.com/l1jgo/dropsim/internal/core/pool"
	"github.com/l1jgo/dropsim/internal/data"
)

// Sinks receive the numeric effect of a collected pickup.
type Sinks interface {
	GrantExp(amount int)
	GrantGold(amount int)
	Heal(amount int)
	DamageAllEnemies(amount int)
	OpenChest(tier int)
}

// Collector is implemented by the scheduler that owns the pickup.
type Collector interface {
	RequestCollectAll()
}

// Env is shared by every pickup of one scheduler.
type Env struct {
	Sinks     Sinks
	Collector Collector
	Bus       *event.Bus
}

// Pickup is a category-tagged collectible.
type Pickup struct {
	pool.Node
	desc   *data.PickupDescriptor
	effect Effect
	env    *Env
	pos    mgl32.Vec2
}

// New builds an inactive-ready pickup. Pools call it when they grow.
func New(desc *data.PickupDescriptor, effect Effect, env *Env) *Pickup {
	return &Pickup{desc: desc, effect: effect, env: env}
}

func (p *Pickup) Category() data.Category            { return p.desc.Category }
func (p *Pickup) Descriptor() *data.PickupDescriptor { return p.desc }
func (p *Pickup) AffectedByMagnet() bool             { return p.desc.AffectedByMagnet }
func (p *Pickup) Position() mgl32.Vec2               { return p.pos }
func (p *Pickup) SetPosition(v mgl32.Vec2)           { p.pos = v }

// OnCollected applies the category effect, fires feedback and deactivates the
// pickup. Calls on an inactive pickup are ignored, so it runs at most once
// per lend.
func (p *Pickup) OnCollected(forced bool) {
	if !p.Active() {
		return
	}
	p.effect.Apply(p.env, p)
	if p.env != nil {
		event.Emit(p.env.Bus, event.PickupCollected{
			ID:       p.ID(),
			Category: p.desc.Category,
			Pos:      p.pos,
			Forced:   forced,
		})
	}
	p.Release()
}
