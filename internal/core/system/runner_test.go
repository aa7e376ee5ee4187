package system

import (
	"testing"
	"time"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
}

func (r *recorder) Phase() Phase           { return r.phase }
func (r *recorder) Update(_ time.Duration) { *r.log = append(*r.log, r.name) }

func TestRunnerPhaseOrder(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recorder{"cleanup", PhaseCleanup, &log})
	r.Register(&recorder{"spawn", PhaseUpdate, &log})
	r.Register(&recorder{"batch", PhaseBatch, &log})
	r.Register(&recorder{"tween", PhaseUpdate, &log})
	r.Register(&recorder{"move", PhaseInput, &log})

	r.Tick(time.Millisecond)

	want := []string{"move", "batch", "spawn", "tween", "cleanup"}
	if len(log) != len(want) {
		t.Fatalf("Expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], log[i])
		}
	}
	if r.Ticks() != 1 {
		t.Errorf("Expected 1 tick, got %d", r.Ticks())
	}
}
