package world

import "sync/atomic"

// enemyIDCounter generates unique enemy IDs.
var enemyIDCounter atomic.Int32

// NextEnemyID returns a unique ID for an enemy instance.
func NextEnemyID() int32 {
	return enemyIDCounter.Add(1)
}

// EnemyInfo is a bomb target. Enemies do not move in the sim.
type EnemyInfo struct {
	ID    int32
	HP    int
	MaxHP int
	Dead  bool
}
