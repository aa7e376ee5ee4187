package system

import (
	"time"

	coresys "github.com/l1jgo/dropsim/internal/core/system"
	"github.com/l1jgo/dropsim/internal/world"
	"go.uber.org/zap"
)

// CleanupSystem respawns enemies killed by bombs every interval ticks.
// Phase 5 (Cleanup).
type CleanupSystem struct {
	world    *world.State
	interval int
	ticks    int
	log      *zap.Logger
}

func NewCleanupSystem(ws *world.State, interval int, log *zap.Logger) *CleanupSystem {
	if interval < 1 {
		interval = 1
	}
	return &CleanupSystem{world: ws, interval: interval, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.ticks++
	if s.ticks%s.interval != 0 {
		return
	}
	if n := s.world.RespawnDead(); n > 0 {
		s.log.Debug("enemies respawned", zap.Int("count", n))
	}
}
