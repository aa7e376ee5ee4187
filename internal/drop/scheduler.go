// Package drop owns the active pickups of one player and runs the per-tick
// magnet proximity batch over them.
//
// Every tick the scheduler joins the batch it submitted on the previous tick,
// removes the pickups it flagged, merges pickups spawned while that batch was
// in flight, then submits a new batch over the registry. The registry's shape
// only changes outside the submit→join window.
package drop

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/l1jgo/dropsim/internal/core/batch"
	"github.com/l1jgo/dropsim/internal/core/event"
	"github.com/l1jgo/dropsim/internal/core/pool"
	coresys "github.com/l1jgo/dropsim/internal/core/system"
	"github.com/l1jgo/dropsim/internal/data"
	"github.com/l1jgo/dropsim/internal/pickup"
	"github.com/l1jgo/dropsim/internal/tween"
	"go.uber.org/zap"
)

// Player is what the scheduler needs from player locomotion.
type Player interface {
	Center() mgl32.Vec2
	MagnetRadiusSq() float32
}

// Mover is the animation primitive attracted pickups are handed to.
type Mover interface {
	MoveTo(m tween.Movable, target tween.Target, duration, delay time.Duration, done func())
}

// Options tune the scheduler. Zero values fall back to defaults.
type Options struct {
	PoolWarm      int
	Workers       int // -1 = GOMAXPROCS, 0 = inline
	MinChunk      int
	TweenDuration time.Duration
	TweenStagger  time.Duration
	Rates         pickup.Rates
	Now           func() time.Time
}

// Stats are cumulative scheduler counters.
type Stats struct {
	Spawned        int
	Deferred       int // spawns queued behind an in-flight batch
	Attracted      int
	ForceCollects  int // collect-all passes executed
	ForceCollected int
	Coalesced      int // collect-all requests folded into a pending pass
	Batches        int
	Rebinds        int
}

// Scheduler is the drop/magnet scheduler.
// Phase 2 (Batch).
type Scheduler struct {
	table  *data.PickupTable
	pools  *pool.Registry
	byCat  [data.CategoryCount]*pool.VisualPool[*pickup.Pickup]
	player Player
	mover  Mover
	env    *pickup.Env
	log    *zap.Logger
	now    func() time.Time

	duration time.Duration
	stagger  time.Duration

	// Active-pickup registry: index-aligned sequences. ids holds the loan
	// each slot was registered under; a slot whose pickup was released and
	// lent out again no longer matches it.
	entities  []*pickup.Pickup
	ids       []pool.EntityID
	positions *batch.Buffer[mgl32.Vec2]
	attracted *batch.Buffer[bool]

	pending   []loan
	collected []*pickup.Pickup

	eval              *batch.Evaluator[mgl32.Vec2, bool]
	job               *batch.Handle[bool]
	collectAllPending bool

	lastSpawn [data.CategoryCount]time.Time
	stats     Stats
	closed    bool
}

const initialCapacity = 64

// loan is a pickup together with the ID it was spawned under.
type loan struct {
	p  *pickup.Pickup
	id pool.EntityID
}

func (l loan) valid() bool { return l.p.Active() && l.p.ID() == l.id }

// NewScheduler declares one pickup pool per descriptor in table and allocates
// the snapshot buffers. Close releases them.
func NewScheduler(table *data.PickupTable, player Player, mover Mover, sinks pickup.Sinks, bus *event.Bus, opts Options, log *zap.Logger) (*Scheduler, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MinChunk <= 0 {
		opts.MinChunk = 64
	}
	s := &Scheduler{
		table:     table,
		pools:     pool.NewRegistry(),
		player:    player,
		mover:     mover,
		log:       log,
		now:       opts.Now,
		duration:  opts.TweenDuration,
		stagger:   opts.TweenStagger,
		entities:  make([]*pickup.Pickup, 0, initialCapacity),
		ids:       make([]pool.EntityID, 0, initialCapacity),
		positions: batch.NewBuffer[mgl32.Vec2](initialCapacity),
		attracted: batch.NewBuffer[bool](initialCapacity),
		pending:   make([]loan, 0, 16),
		eval:      batch.NewEvaluator[mgl32.Vec2, bool](opts.Workers, opts.MinChunk),
	}
	s.env = &pickup.Env{Sinks: sinks, Collector: s, Bus: bus}

	for _, desc := range table.All() {
		effect := pickup.NewEffect(desc, opts.Rates)
		env := s.env
		vp := pool.NewVisualPool(desc.Category.String(), opts.PoolWarm, func() *pickup.Pickup {
			return pickup.New(desc, effect, env)
		})
		if err := s.pools.Declare(vp); err != nil {
			return nil, err
		}
		s.byCat[desc.Category] = vp
	}
	return s, nil
}

func (s *Scheduler) Phase() coresys.Phase { return coresys.PhaseBatch }

// Update runs one tick: join, remove attracted, merge pending, submit.
func (s *Scheduler) Update(_ time.Duration) {
	if s.closed {
		return
	}
	if s.job != nil {
		s.join()
	}
	s.mergePending()
	if len(s.entities) > 0 {
		s.submit()
	}
}

// Spawn lends a pickup of category c from its pool and places it at pos. It
// joins the registry directly, or the pending queue while a batch is in
// flight. Unknown categories are logged and return nil.
func (s *Scheduler) Spawn(c data.Category, pos mgl32.Vec2) *pickup.Pickup {
	if !c.Valid() || s.byCat[c] == nil || s.closed {
		s.log.Warn("spawn of undeclared pickup category", zap.Stringer("category", c))
		return nil
	}
	p := s.byCat[c].GetEntity()
	p.SetPosition(pos)
	s.lastSpawn[c] = s.now()
	s.stats.Spawned++

	deferred := s.job != nil
	if deferred {
		s.pending = append(s.pending, loan{p: p, id: p.ID()})
		s.stats.Deferred++
	} else {
		s.register(p)
	}
	event.Emit(s.env.Bus, event.PickupSpawned{
		ID:       p.ID(),
		Category: c,
		Pos:      pos,
		Deferred: deferred,
	})
	return p
}

// CheckCooldown reports whether the category's cooldown has elapsed since
// its last spawn. A category never spawned is ready.
func (s *Scheduler) CheckCooldown(c data.Category) bool {
	desc := s.table.Get(c)
	if desc == nil {
		return false
	}
	last := s.lastSpawn[c]
	if last.IsZero() {
		return true
	}
	return s.now().Sub(last) >= desc.Cooldown()
}

// RequestCollectAll force-collects every magnet-affected active pickup. While
// a batch is in flight the request is deferred to the next join; repeated
// requests before that join fold into one pass.
func (s *Scheduler) RequestCollectAll() {
	if s.job == nil {
		event.Emit(s.env.Bus, event.CollectAllRequested{})
		s.collectAll()
		return
	}
	coalesced := s.collectAllPending
	if coalesced {
		s.stats.Coalesced++
	}
	s.collectAllPending = true
	event.Emit(s.env.Bus, event.CollectAllRequested{Deferred: true, Coalesced: coalesced})
	s.log.Debug("collect-all deferred to next join", zap.Bool("coalesced", coalesced))
}

func (s *Scheduler) submit() {
	for i, p := range s.entities {
		s.positions.Set(i, p.Position())
	}
	if s.positions.CapacityChanged() || s.attracted.CapacityChanged() {
		s.eval.Bind(s.positions, s.attracted)
		s.stats.Rebinds++
	}
	center := s.player.Center()
	r2 := s.player.MagnetRadiusSq()
	s.job = s.eval.Submit(len(s.entities), func(pos mgl32.Vec2) bool {
		d := pos.Sub(center)
		return d.Dot(d) <= r2
	})
	s.stats.Batches++
}

func (s *Scheduler) join() {
	results := s.job.Join()
	s.job = nil
	assertAligned(s)
	if len(results) != len(s.entities) {
		panic("drop: registry resized during an in-flight batch")
	}

	if s.collectAllPending {
		s.collectAllPending = false
		s.collectAll()
		return
	}

	for i := 0; i < len(s.entities); i++ {
		p := s.entities[i]
		if !s.slotValid(i) {
			// Released, destroyed or re-lent behind the scheduler's back.
			s.removeAt(i)
			i--
			continue
		}
		if !s.attracted.At(i) {
			continue
		}
		s.removeAt(i)
		i--
		s.collected = append(s.collected, p)
	}
	s.stats.Attracted += len(s.collected)
	s.animate()
}

// animate hands attracted pickups to the mover. Pickups not affected by the
// magnet are collected where they lie.
func (s *Scheduler) animate() {
	slot := 0
	for i, p := range s.collected {
		s.collected[i] = nil
		if !p.AffectedByMagnet() || s.mover == nil {
			p.OnCollected(false)
			continue
		}
		delay := time.Duration(slot) * s.stagger
		slot++
		id := p.ID()
		s.mover.MoveTo(p, s.player.Center, s.duration, delay, func() {
			if p.ID() == id {
				p.OnCollected(false)
			}
		})
	}
	s.collected = s.collected[:0]
}

// collectAll removes every magnet-affected pickup from the registry, then
// collects them. Effects may re-enter RequestCollectAll.
func (s *Scheduler) collectAll() {
	s.stats.ForceCollects++
	var forced []*pickup.Pickup
	for i := 0; i < len(s.entities); i++ {
		p := s.entities[i]
		if !s.slotValid(i) {
			s.removeAt(i)
			i--
			continue
		}
		if !p.AffectedByMagnet() {
			continue
		}
		s.removeAt(i)
		i--
		forced = append(forced, p)
	}
	s.stats.ForceCollected += len(forced)
	for _, p := range forced {
		p.OnCollected(true)
	}
}

func (s *Scheduler) register(p *pickup.Pickup) {
	s.entities = append(s.entities, p)
	s.ids = append(s.ids, p.ID())
	s.positions.Append(p.Position())
	s.attracted.Append(false)
}

func (s *Scheduler) mergePending() {
	if len(s.pending) == 0 {
		return
	}
	for i, l := range s.pending {
		if l.valid() {
			s.register(l.p)
		}
		s.pending[i] = loan{}
	}
	s.pending = s.pending[:0]
	assertAligned(s)
}

// removeAt swap-back removes index i from every registry sequence.
func (s *Scheduler) removeAt(i int) {
	last := len(s.entities) - 1
	s.entities[i] = s.entities[last]
	s.entities[last] = nil
	s.entities = s.entities[:last]
	s.ids[i] = s.ids[last]
	s.ids = s.ids[:last]
	s.positions.SwapRemove(i)
	s.attracted.SwapRemove(i)
}

// slotValid reports whether slot i still holds the loan it was registered
// under.
func (s *Scheduler) slotValid(i int) bool {
	p := s.entities[i]
	return p.Active() && p.ID() == s.ids[i]
}

func (s *Scheduler) aligned() bool {
	n := len(s.entities)
	return n == len(s.ids) && n == s.positions.Len() && n == s.attracted.Len()
}

// Active returns the number of registered pickups.
func (s *Scheduler) Active() int { return len(s.entities) }

// Pending returns the number of pickups waiting for the next merge.
func (s *Scheduler) Pending() int { return len(s.pending) }

// InFlight reports whether a batch is outstanding.
func (s *Scheduler) InFlight() bool { return s.job != nil }

func (s *Scheduler) Stats() Stats { return s.stats }

// Pools exposes the per-category pools, keyed by category name.
func (s *Scheduler) Pools() *pool.Registry { return s.pools }

// Close joins any outstanding batch, releases the snapshot buffers and
// destroys every pickup pool.
func (s *Scheduler) Close() {
	if s.closed {
		return
	}
	if s.job != nil {
		s.job.Join()
		s.job = nil
	}
	s.closed = true
	s.positions.Release()
	s.attracted.Release()
	clear(s.entities)
	s.entities = s.entities[:0]
	s.ids = s.ids[:0]
	clear(s.pending)
	s.pending = s.pending[:0]
	s.pools.DisableAll()
	s.pools.DestroyAll()
	s.byCat = [data.CategoryCount]*pool.VisualPool[*pickup.Pickup]{}
}
