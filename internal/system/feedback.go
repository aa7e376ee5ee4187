package system

// 撿取回饋（粒子 / 音效）。
// 回饋物件從 HandlePool 借出，存活 ttl tick 後歸還。

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/l1jgo/dropsim/internal/core/event"
	"github.com/l1jgo/dropsim/internal/core/pool"
	coresys "github.com/l1jgo/dropsim/internal/core/system"
	"github.com/l1jgo/dropsim/internal/data"
	"go.uber.org/zap"
)

// Emitter is a pooled fire-and-forget feedback effect.
type Emitter interface {
	Fire(c data.Category, pos mgl32.Vec2)
}

// ParticleBurst stands in for an on-collect particle effect.
type ParticleBurst struct {
	Category data.Category
	Pos      mgl32.Vec2
	Fired    int
}

func (b *ParticleBurst) Fire(c data.Category, pos mgl32.Vec2) {
	b.Category = c
	b.Pos = pos
	b.Fired++
}

// SoundCue stands in for an on-collect sound.
type SoundCue struct {
	Clip  string
	Plays int
}

func (s *SoundCue) Fire(c data.Category, _ mgl32.Vec2) {
	s.Clip = "pickup_" + c.String()
	s.Plays++
}

const (
	PoolParticle = "particle"
	PoolSound    = "sound"
)

type liveHandle struct {
	h   *pool.Handle
	ttl int
}

// FeedbackSystem fires pooled feedback for every collected pickup and keeps
// per-category totals.
// Phase 4 (PostUpdate).
type FeedbackSystem struct {
	pools     *pool.Registry
	live      []liveHandle
	ttl       int
	collected [data.CategoryCount]int
	forced    int
	log       *zap.Logger
}

// NewFeedbackSystem declares the particle and sound pools and subscribes to
// pickup events on bus.
func NewFeedbackSystem(bus *event.Bus, warm, ttl int, log *zap.Logger) (*FeedbackSystem, error) {
	s := &FeedbackSystem{
		pools: pool.NewRegistry(),
		live:  make([]liveHandle, 0, 64),
		ttl:   max(ttl, 1),
		log:   log,
	}
	if err := s.pools.Declare(pool.NewHandlePool(PoolParticle, warm, func() any { return &ParticleBurst{} })); err != nil {
		return nil, err
	}
	if err := s.pools.Declare(pool.NewHandlePool(PoolSound, warm, func() any { return &SoundCue{} })); err != nil {
		return nil, err
	}
	event.Subscribe(bus, s.onCollected)
	event.Subscribe(bus, s.onCollectAll)
	return s, nil
}

func (s *FeedbackSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *FeedbackSystem) onCollected(ev event.PickupCollected) {
	s.collected[ev.Category]++
	if ev.Forced {
		s.forced++
	}
	for _, name := range []string{PoolParticle, PoolSound} {
		hp, ok := pool.Handles(s.pools, name)
		if !ok {
			continue
		}
		em, h, ok := pool.GetAs[Emitter](hp)
		if !ok {
			continue
		}
		em.Fire(ev.Category, ev.Pos)
		s.live = append(s.live, liveHandle{h: h, ttl: s.ttl})
	}
	s.log.Debug("pickup collected",
		zap.Stringer("category", ev.Category),
		zap.Uint64("id", uint64(ev.ID)),
		zap.Bool("forced", ev.Forced),
	)
}

func (s *FeedbackSystem) onCollectAll(ev event.CollectAllRequested) {
	s.log.Debug("collect-all requested",
		zap.Bool("deferred", ev.Deferred),
		zap.Bool("coalesced", ev.Coalesced),
	)
}

// Update ages live feedback handles and returns expired ones to their pools.
func (s *FeedbackSystem) Update(_ time.Duration) {
	for i := 0; i < len(s.live); i++ {
		s.live[i].ttl--
		if s.live[i].ttl > 0 {
			continue
		}
		s.live[i].h.Release()
		last := len(s.live) - 1
		s.live[i] = s.live[last]
		s.live = s.live[:last]
		i--
	}
}

// Collected returns how many pickups of category c were collected.
func (s *FeedbackSystem) Collected(c data.Category) int { return s.collected[c] }

// Forced returns how many pickups collect-all passes took.
func (s *FeedbackSystem) Forced() int { return s.forced }

// Live returns the number of feedback handles currently lent out.
func (s *FeedbackSystem) Live() int { return len(s.live) }

// Pools exposes the feedback pools.
func (s *FeedbackSystem) Pools() *pool.Registry { return s.pools }

// Close destroys the feedback pools.
func (s *FeedbackSystem) Close() {
	s.live = s.live[:0]
	s.pools.DestroyAll()
}
