package world

import "github.com/go-gl/mathgl/mgl32"

// PlayerInfo holds in-memory data for the simulated player.
// Accessed only from the game loop goroutine; no locks needed.
type PlayerInfo struct {
	Pos          mgl32.Vec2
	Heading      float64 // radians along the walk circle
	Speed        float32 // units per second
	BaseMagnet   float32 // magnet radius before level scaling
	MagnetRadius float32
	Level        int
	Exp          int // cumulative total exp
	Gold         int
	HP           int
	MaxHP        int
	Chests       int // chests opened
}

// ExpForLevel returns the cumulative exp needed to reach level+1.
func ExpForLevel(level int) int {
	return 10 * level * (level + 1) / 2
}
