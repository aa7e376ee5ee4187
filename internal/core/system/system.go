package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: player locomotion
	PhasePreUpdate               // 1: dispatch last tick's events
	PhaseBatch                   // 2: join last tick's proximity batch, submit the next
	PhaseUpdate                  // 3: gameplay: spawns, tweens, pickup effects
	PhasePostUpdate              // 4: feedback
	PhaseCleanup                 // 5: reap dead entities
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePreUpdate:
		return "pre-update"
	case PhaseBatch:
		return "batch"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post-update"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
