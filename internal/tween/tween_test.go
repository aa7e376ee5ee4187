package tween

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

type dot struct{ p mgl32.Vec2 }

func (d *dot) Position() mgl32.Vec2     { return d.p }
func (d *dot) SetPosition(v mgl32.Vec2) { d.p = v }

func TestMoveReachesTargetAfterDelay(t *testing.T) {
	r := NewRunner()
	d := &dot{}
	target := mgl32.Vec2{10, 0}
	finished := 0
	r.MoveTo(d, func() mgl32.Vec2 { return target }, 100*time.Millisecond, 50*time.Millisecond, func() { finished++ })

	r.Update(40 * time.Millisecond)
	if d.p != (mgl32.Vec2{}) {
		t.Fatalf("Expected no movement during delay, got %v", d.p)
	}

	r.Update(60 * time.Millisecond) // 50ms into the move
	if d.p.X() <= 0 || d.p.X() >= 10 {
		t.Fatalf("Expected partial progress, got %v", d.p)
	}
	if finished != 0 {
		t.Fatal("Callback fired early")
	}

	r.Update(60 * time.Millisecond)
	if d.p != target {
		t.Errorf("Expected to land on target, got %v", d.p)
	}
	if finished != 1 || r.Len() != 0 {
		t.Errorf("Expected one completion and no running moves, got %d and %d", finished, r.Len())
	}
}

func TestMoveTracksMovingTarget(t *testing.T) {
	r := NewRunner()
	d := &dot{}
	target := mgl32.Vec2{5, 5}
	r.MoveTo(d, func() mgl32.Vec2 { return target }, 20*time.Millisecond, 0, nil)

	r.Update(10 * time.Millisecond)
	target = mgl32.Vec2{-5, 0}
	r.Update(10 * time.Millisecond)
	if d.p != target {
		t.Errorf("Expected to land on the moved target, got %v", d.p)
	}
}

func TestCallbackMayStartMoves(t *testing.T) {
	r := NewRunner()
	a, b := &dot{}, &dot{}
	origin := func() mgl32.Vec2 { return mgl32.Vec2{1, 1} }
	r.MoveTo(a, origin, 0, 0, func() {
		r.MoveTo(b, origin, 0, 0, nil)
	})
	r.Update(time.Millisecond)
	if r.Len() != 1 {
		t.Fatalf("Expected the chained move to be running, got %d", r.Len())
	}
	r.Update(time.Millisecond)
	if b.p != (mgl32.Vec2{1, 1}) || r.Len() != 0 {
		t.Errorf("Expected chained move to finish, got %v (running %d)", b.p, r.Len())
	}
}
