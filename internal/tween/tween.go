// Package tween moves entities toward a (possibly moving) target over a fixed
// duration, after an optional delay, and reports completion via callback.
package tween

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	coresys "github.com/l1jgo/dropsim/internal/core/system"
)

// Movable is anything with a 2D position.
type Movable interface {
	Position() mgl32.Vec2
	SetPosition(v mgl32.Vec2)
}

// Target is sampled every tick so a moving destination is tracked.
type Target func() mgl32.Vec2

type move struct {
	m        Movable
	target   Target
	from     mgl32.Vec2
	duration time.Duration
	delay    time.Duration
	elapsed  time.Duration
	started  bool
	done     func()
}

// Runner advances every running move once per tick.
// Phase 3 (Update).
type Runner struct {
	moves    []*move
	finished []*move
	spare    []*move
}

func NewRunner() *Runner {
	return &Runner{
		moves: make([]*move, 0, 64),
	}
}

func (r *Runner) Phase() coresys.Phase { return coresys.PhaseUpdate }

// MoveTo starts moving m to target over duration once delay has elapsed, then
// calls done. A zero duration lands on the target the first tick after delay.
func (r *Runner) MoveTo(m Movable, target Target, duration, delay time.Duration, done func()) {
	mv := r.alloc()
	*mv = move{m: m, target: target, duration: duration, delay: delay, done: done}
	r.moves = append(r.moves, mv)
}

// Len returns the number of running moves.
func (r *Runner) Len() int { return len(r.moves) }

func (r *Runner) Update(dt time.Duration) {
	for i := 0; i < len(r.moves); i++ {
		mv := r.moves[i]
		mv.elapsed += dt
		if mv.elapsed < mv.delay {
			continue
		}
		if !mv.started {
			mv.from = mv.m.Position()
			mv.started = true
		}
		t := float32(1)
		if mv.duration > 0 {
			t = min(float32(mv.elapsed-mv.delay)/float32(mv.duration), 1)
		}
		to := mv.target()
		mv.m.SetPosition(mv.from.Add(to.Sub(mv.from).Mul(easeOutQuad(t))))
		if t < 1 {
			continue
		}
		last := len(r.moves) - 1
		r.moves[i] = r.moves[last]
		r.moves[last] = nil
		r.moves = r.moves[:last]
		i--
		r.finished = append(r.finished, mv)
	}

	// Callbacks run after the sweep; they may start new moves.
	for i, mv := range r.finished {
		if mv.done != nil {
			mv.done()
		}
		r.finished[i] = nil
		*mv = move{}
		r.spare = append(r.spare, mv)
	}
	r.finished = r.finished[:0]
}

func (r *Runner) alloc() *move {
	if n := len(r.spare); n > 0 {
		mv := r.spare[n-1]
		r.spare = r.spare[:n-1]
		return mv
	}
	return &move{}
}

func easeOutQuad(t float32) float32 {
	return 1 - (1-t)*(1-t)
}
