package system

import (
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/l1jgo/dropsim/internal/core/event"
	"github.com/l1jgo/dropsim/internal/core/pool"
	coresys "github.com/l1jgo/dropsim/internal/core/system"
	"github.com/l1jgo/dropsim/internal/data"
	"github.com/l1jgo/dropsim/internal/drop"
	"github.com/l1jgo/dropsim/internal/pickup"
	"github.com/l1jgo/dropsim/internal/scripting"
	"github.com/l1jgo/dropsim/internal/tween"
	"github.com/l1jgo/dropsim/internal/world"
	"go.uber.org/zap"
)

type flatFormulas struct{}

func (flatFormulas) RollChest(scripting.ChestContext) scripting.ChestReward {
	return scripting.ChestReward{Gold: 25}
}
func (flatFormulas) CalcMagnetRadius(_ int, base float64) float64 { return base }

func newWorld(enemies int) *world.State {
	return world.NewState(world.PlayerInfo{BaseMagnet: 2, MaxHP: 100, Speed: 0}, enemies, 10, flatFormulas{}, zap.NewNop())
}

func testTable(t *testing.T) *data.PickupTable {
	t.Helper()
	table, err := data.NewPickupTable([]data.PickupDescriptor{
		{Category: data.CategoryGemSmall, AffectedByMagnet: true, Value: 1, SpawnWeight: 3},
		{Category: data.CategoryCoin, AffectedByMagnet: true, Value: 1, CooldownMs: 1000, SpawnWeight: 1},
		{Category: data.CategoryBomb, Value: 10},
		{Category: data.CategoryChest, AffectedByMagnet: true, Value: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func TestFeedbackBorrowsAndReturnsHandles(t *testing.T) {
	bus := event.NewBus()
	fb, err := NewFeedbackSystem(bus, 2, 3, zap.NewNop())
	if err != nil {
		t.Fatalf("NewFeedbackSystem: %v", err)
	}
	dispatch := NewEventDispatchSystem(bus)

	event.Emit(bus, event.PickupCollected{Category: data.CategoryCoin, Pos: mgl32.Vec2{1, 2}})
	event.Emit(bus, event.PickupCollected{Category: data.CategoryCoin, Forced: true})
	event.Emit(bus, event.PickupCollected{Category: data.CategoryFood})
	dispatch.Update(0)

	if fb.Collected(data.CategoryCoin) != 2 || fb.Collected(data.CategoryFood) != 1 || fb.Forced() != 1 {
		t.Errorf("Unexpected totals coin=%d food=%d forced=%d",
			fb.Collected(data.CategoryCoin), fb.Collected(data.CategoryFood), fb.Forced())
	}
	if fb.Live() != 6 {
		t.Fatalf("Expected a particle and a sound per pickup, got %d", fb.Live())
	}
	particles, _ := pool.Handles(fb.Pools(), PoolParticle)
	if particles.Len() != 3 {
		t.Errorf("Expected particle pool grown from 2 to 3, got %d", particles.Len())
	}

	for i := 0; i < 3; i++ {
		fb.Update(0)
	}
	if fb.Live() != 0 || particles.ActiveCount() != 0 {
		t.Errorf("Expected every handle returned after ttl, live=%d active=%d", fb.Live(), particles.ActiveCount())
	}
	fb.Close()
}

type fakeSpawner struct {
	ready  map[data.Category]bool
	spawns []data.Category
	at     []mgl32.Vec2
}

func (f *fakeSpawner) Spawn(c data.Category, pos mgl32.Vec2) *pickup.Pickup {
	f.spawns = append(f.spawns, c)
	f.at = append(f.at, pos)
	return nil
}
func (f *fakeSpawner) CheckCooldown(c data.Category) bool { return f.ready[c] }

type fixedCenter mgl32.Vec2

func (c fixedCenter) Center() mgl32.Vec2 { return mgl32.Vec2(c) }

func TestSpawnerRespectsCooldownAndWeights(t *testing.T) {
	sp := &fakeSpawner{ready: map[data.Category]bool{data.CategoryGemSmall: true}}
	s := NewSpawnSystem(sp, fixedCenter{5, 5}, testTable(t), rand.New(rand.NewSource(1)), 50, 1, 3)
	s.Update(0)

	if len(sp.spawns)+s.Skipped() != 50 {
		t.Fatalf("Expected 50 rolls, got %d spawns and %d skips", len(sp.spawns), s.Skipped())
	}
	if s.Skipped() == 0 {
		t.Error("Expected some coin rolls rejected by cooldown")
	}
	for i, c := range sp.spawns {
		if c != data.CategoryGemSmall {
			t.Fatalf("Spawned %s, only gem_small is off cooldown", c)
		}
		d := sp.at[i].Sub(mgl32.Vec2{5, 5}).Len()
		if d < 0.999 || d > 3.001 {
			t.Errorf("Spawn %d at distance %f outside the ring", i, d)
		}
	}
}

func TestPlayerMoveSystem(t *testing.T) {
	ws := newWorld(0)
	ws.Player().Speed = float32(3.14159265 * 2) // one lap per second on a unit circle
	m := NewPlayerMoveSystem(ws, 1)
	m.Update(250 * time.Millisecond)
	p := ws.Player().Pos
	if p.X() > 0.01 || p.Y() < 0.99 {
		t.Errorf("Expected a quarter lap to (0,1), got %v", p)
	}
}

func TestCleanupRespawnsOnInterval(t *testing.T) {
	ws := newWorld(2)
	ws.DamageAllEnemies(100)
	c := NewCleanupSystem(ws, 2, zap.NewNop())
	c.Update(0)
	if ws.AliveEnemies() != 0 {
		t.Fatal("Expected no respawn before the interval")
	}
	c.Update(0)
	if ws.AliveEnemies() != 2 {
		t.Errorf("Expected respawn on the interval, alive=%d", ws.AliveEnemies())
	}
}

func TestTickLoopEndToEnd(t *testing.T) {
	bus := event.NewBus()
	ws := newWorld(3)
	tw := tween.NewRunner()
	sched, err := drop.NewScheduler(testTable(t), ws, tw, ws, bus, drop.Options{
		PoolWarm:      2,
		Workers:       2,
		MinChunk:      1,
		TweenDuration: 32 * time.Millisecond,
		TweenStagger:  16 * time.Millisecond,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	defer sched.Close()
	fb, err := NewFeedbackSystem(bus, 4, 2, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	runner := coresys.NewRunner()
	runner.Register(NewCleanupSystem(ws, 1, zap.NewNop()))
	runner.Register(fb)
	runner.Register(tw)
	runner.Register(sched)
	runner.Register(NewEventDispatchSystem(bus))
	runner.Register(NewPlayerMoveSystem(ws, 0))

	sched.Spawn(data.CategoryGemSmall, mgl32.Vec2{0.5, 0})
	sched.Spawn(data.CategoryGemSmall, mgl32.Vec2{0, 1})
	sched.Spawn(data.CategoryChest, mgl32.Vec2{1, 1})
	sched.Spawn(data.CategoryBomb, mgl32.Vec2{-1, 0})
	sched.Spawn(data.CategoryGemSmall, mgl32.Vec2{40, 0})

	for i := 0; i < 10; i++ {
		runner.Tick(16 * time.Millisecond)
	}

	p := ws.Player()
	if p.Exp != 2 || p.Gold != 25 || p.Chests != 1 {
		t.Errorf("Unexpected player after collection: %+v", p)
	}
	if ws.Kills() != 3 {
		t.Errorf("Expected the bomb to kill all 3 enemies, got %d", ws.Kills())
	}
	if ws.AliveEnemies() != 3 {
		t.Errorf("Expected cleanup to respawn enemies, alive=%d", ws.AliveEnemies())
	}
	if sched.Active() != 1 || tw.Len() != 0 {
		t.Errorf("Expected only the far gem left and no running tweens, active=%d tweens=%d", sched.Active(), tw.Len())
	}
	if fb.Collected(data.CategoryGemSmall) != 2 || fb.Collected(data.CategoryBomb) != 1 {
		t.Errorf("Expected feedback for every collection, gems=%d bombs=%d",
			fb.Collected(data.CategoryGemSmall), fb.Collected(data.CategoryBomb))
	}
}
