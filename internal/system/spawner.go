package system

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	coresys "github.com/l1jgo/dropsim/internal/core/system"
	"github.com/l1jgo/dropsim/internal/data"
	"github.com/l1jgo/dropsim/internal/pickup"
)

// Spawner is the drop scheduler's spawn surface.
type Spawner interface {
	Spawn(c data.Category, pos mgl32.Vec2) *pickup.Pickup
	CheckCooldown(c data.Category) bool
}

// Centerer reports where spawns are centred.
type Centerer interface {
	Center() mgl32.Vec2
}

type weightedCategory struct {
	category data.Category
	upTo     int // cumulative weight
}

// SpawnSystem stands in for enemy deaths: every tick it rolls perTick weighted
// categories and spawns those off cooldown in a ring around the player.
// Phase 3 (Update).
type SpawnSystem struct {
	sched   Spawner
	center  Centerer
	rng     *rand.Rand
	perTick int
	minDist float64
	maxDist float64
	weights []weightedCategory
	total   int
	skipped int
}

func NewSpawnSystem(sched Spawner, center Centerer, table *data.PickupTable, rng *rand.Rand, perTick int, minDist, maxDist float64) *SpawnSystem {
	s := &SpawnSystem{
		sched:   sched,
		center:  center,
		rng:     rng,
		perTick: perTick,
		minDist: minDist,
		maxDist: maxDist,
	}
	for _, d := range table.All() {
		if d.SpawnWeight <= 0 {
			continue
		}
		s.total += d.SpawnWeight
		s.weights = append(s.weights, weightedCategory{category: d.Category, upTo: s.total})
	}
	return s
}

func (s *SpawnSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *SpawnSystem) Update(_ time.Duration) {
	if s.total == 0 {
		return
	}
	for i := 0; i < s.perTick; i++ {
		c := s.roll()
		if !s.sched.CheckCooldown(c) {
			s.skipped++
			continue
		}
		s.sched.Spawn(c, s.ringPoint())
	}
}

// Skipped returns how many rolls a category cooldown rejected.
func (s *SpawnSystem) Skipped() int { return s.skipped }

func (s *SpawnSystem) roll() data.Category {
	n := s.rng.Intn(s.total)
	for _, w := range s.weights {
		if n < w.upTo {
			return w.category
		}
	}
	return s.weights[len(s.weights)-1].category
}

func (s *SpawnSystem) ringPoint() mgl32.Vec2 {
	angle := s.rng.Float64() * 2 * math.Pi
	dist := s.minDist + s.rng.Float64()*(s.maxDist-s.minDist)
	c := s.center.Center()
	return mgl32.Vec2{
		c.X() + float32(math.Cos(angle)*dist),
		c.Y() + float32(math.Sin(angle)*dist),
	}
}
