package pickup

import (
	"math"

	"github.com/l1jgo/dropsim/internal/data"
)

// Effect is the category-specific part of collecting a pickup.
type Effect interface {
	Apply(env *Env, p *Pickup)
}

// Rates scale descriptor values, like server-wide exp/gold rates.
type Rates struct {
	Exp  float64
	Gold float64
}

// NewEffect builds the effect for a descriptor. One effect instance is shared
// by every pickup of the category.
func NewEffect(desc *data.PickupDescriptor, rates Rates) Effect {
	switch desc.Category.Kind() {
	case data.KindGem:
		return &GemEffect{Exp: int(math.Round(desc.Value * orOne(rates.Exp)))}
	case data.KindCoin:
		return &CoinEffect{Value: desc.Value * orOne(rates.Gold)}
	case data.KindFood:
		return &FoodEffect{Heal: int(desc.Value)}
	case data.KindBomb:
		return &BombEffect{Damage: int(desc.Value)}
	case data.KindMagnet:
		return MagnetEffect{}
	default:
		return &ChestEffect{Tier: max(int(desc.Value), 1)}
	}
}

func orOne(rate float64) float64 {
	if rate <= 0 {
		return 1
	}
	return rate
}

type GemEffect struct{ Exp int }

func (e *GemEffect) Apply(env *Env, _ *Pickup) { env.Sinks.GrantExp(e.Exp) }

// CoinEffect grants currency. Fractional values carry over between pickups
// so repeated fractional grants do not lose value.
type CoinEffect struct {
	Value float64
	carry float64
}

func (e *CoinEffect) Apply(env *Env, _ *Pickup) {
	total := e.Value + e.carry
	whole := math.Floor(total)
	e.carry = total - whole
	if whole > 0 {
		env.Sinks.GrantGold(int(whole))
	}
}

// Carry returns the fractional remainder waiting for the next coin.
func (e *CoinEffect) Carry() float64 { return e.carry }

type FoodEffect struct{ Heal int }

func (e *FoodEffect) Apply(env *Env, _ *Pickup) { env.Sinks.Heal(e.Heal) }

// BombEffect damages every enemy. Bombs are not magnet-affected: they are
// collected where they lie.
type BombEffect struct{ Damage int }

func (e *BombEffect) Apply(env *Env, _ *Pickup) { env.Sinks.DamageAllEnemies(e.Damage) }

// MagnetEffect asks the owning scheduler to collect everything magnet-affected.
type MagnetEffect struct{}

func (MagnetEffect) Apply(env *Env, _ *Pickup) {
	if env.Collector != nil {
		env.Collector.RequestCollectAll()
	}
}

type ChestEffect struct{ Tier int }

func (e *ChestEffect) Apply(env *Env, _ *Pickup) { env.Sinks.OpenChest(e.Tier) }
