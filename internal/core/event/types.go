package event

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/l1jgo/dropsim/internal/core/pool"
	"github.com/l1jgo/dropsim/internal/data"
)

// PickupSpawned is emitted when the scheduler lends out a pickup.
type PickupSpawned struct {
	ID       pool.EntityID
	Category data.Category
	Pos      mgl32.Vec2
	Deferred bool // queued behind an in-flight batch
}

// PickupCollected is emitted once per pickup, before it is deactivated.
type PickupCollected struct {
	ID       pool.EntityID
	Category data.Category
	Pos      mgl32.Vec2
	Forced   bool // collected by a collect-all pass
}

// CollectAllRequested is emitted for every RequestCollectAll call.
type CollectAllRequested struct {
	Deferred  bool
	Coalesced bool
}
