package system

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	coresys "github.com/l1jgo/dropsim/internal/core/system"
	"github.com/l1jgo/dropsim/internal/world"
)

// PlayerMoveSystem walks the simulated player around a circle of pathRadius.
// Phase 0 (Input).
type PlayerMoveSystem struct {
	world      *world.State
	pathRadius float64
}

func NewPlayerMoveSystem(ws *world.State, pathRadius float64) *PlayerMoveSystem {
	return &PlayerMoveSystem{world: ws, pathRadius: pathRadius}
}

func (s *PlayerMoveSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *PlayerMoveSystem) Update(dt time.Duration) {
	p := s.world.Player()
	if s.pathRadius <= 0 || p.Speed <= 0 {
		return
	}
	// 角速度 = 線速度 / 半徑
	p.Heading += float64(p.Speed) * dt.Seconds() / s.pathRadius
	if p.Heading > 2*math.Pi {
		p.Heading -= 2 * math.Pi
	}
	p.Pos = mgl32.Vec2{
		float32(math.Cos(p.Heading) * s.pathRadius),
		float32(math.Sin(p.Heading) * s.pathRadius),
	}
}
