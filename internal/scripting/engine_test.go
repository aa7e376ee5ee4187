package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, scripts map[string]string) *Engine {
	t.Helper()
	dir := t.TempDir()
	for rel, body := range scripts {
		p := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestRollChest(t *testing.T) {
	e := newTestEngine(t, map[string]string{
		"item/chest.lua": `
function open_chest(ctx)
  return { gold = ctx.tier * 100, exp = ctx.level, heal = ctx.max_hp - ctx.hp }
end`,
	})
	got := e.RollChest(ChestContext{Tier: 2, Level: 7, HP: 40, MaxHP: 100})
	want := ChestReward{Gold: 200, Exp: 7, Heal: 60}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestRollChestFallback(t *testing.T) {
	e := newTestEngine(t, map[string]string{
		"item/chest.lua": `function open_chest(ctx) error("boom") end`,
	})
	if got := e.RollChest(ChestContext{Tier: 3}); got.Gold != 30 {
		t.Errorf("Expected fallback of 30 gold, got %+v", got)
	}

	empty := newTestEngine(t, nil)
	if got := empty.RollChest(ChestContext{}); got.Gold != 10 {
		t.Errorf("Expected fallback of 10 gold without a script, got %+v", got)
	}
}

func TestCalcMagnetRadius(t *testing.T) {
	e := newTestEngine(t, map[string]string{
		"character/magnet.lua": `function calc_magnet_radius(level, base) return base + level * 0.5 end`,
	})
	if r := e.CalcMagnetRadius(4, 2); r != 4 {
		t.Errorf("Expected radius 4, got %f", r)
	}
	if r := newTestEngine(t, nil).CalcMagnetRadius(4, 2); r != 2 {
		t.Errorf("Expected base radius without a script, got %f", r)
	}
}

func TestBadScriptFailsLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "core"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "core", "bad.lua"), []byte("function ("), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewEngine(dir, zap.NewNop()); err == nil {
		t.Error("Expected a syntax error to fail NewEngine")
	}
}
