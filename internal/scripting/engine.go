package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for reward and growth formulas.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	// Core scripts first, then feature scripts
	for _, sub := range []string{"core", "item", "character"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// SetSeed reseeds Lua's math.random so reward rolls follow the sim seed.
func (e *Engine) SetSeed(seed int64) error {
	return e.vm.DoString(fmt.Sprintf("math.randomseed(%d)", seed))
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// ChestContext holds pre-packed data for a chest reward roll.
type ChestContext struct {
	Tier  int
	Level int
	HP    int
	MaxHP int
}

// ChestReward is returned by the Lua open_chest function.
type ChestReward struct {
	Gold int
	Exp  int
	Heal int
}

// RollChest calls the Lua open_chest function.
func (e *Engine) RollChest(ctx ChestContext) ChestReward {
	fallback := ChestReward{Gold: 10 * max(ctx.Tier, 1)}

	fn := e.vm.GetGlobal("open_chest")
	if fn == lua.LNil {
		e.log.Error("lua function open_chest not found")
		return fallback
	}

	t := e.vm.NewTable()
	t.RawSetString("tier", lua.LNumber(ctx.Tier))
	t.RawSetString("level", lua.LNumber(ctx.Level))
	t.RawSetString("hp", lua.LNumber(ctx.HP))
	t.RawSetString("max_hp", lua.LNumber(ctx.MaxHP))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua open_chest error", zap.Error(err))
		return fallback
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua open_chest returned non-table")
		return fallback
	}

	return ChestReward{
		Gold: int(lua.LVAsNumber(rt.RawGetString("gold"))),
		Exp:  int(lua.LVAsNumber(rt.RawGetString("exp"))),
		Heal: int(lua.LVAsNumber(rt.RawGetString("heal"))),
	}
}

// CalcMagnetRadius calls the Lua calc_magnet_radius function. The base
// radius is returned unchanged when the script is missing or fails.
func (e *Engine) CalcMagnetRadius(level int, base float64) float64 {
	fn := e.vm.GetGlobal("calc_magnet_radius")
	if fn == lua.LNil {
		return base
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(level), lua.LNumber(base)); err != nil {
		e.log.Error("lua calc_magnet_radius error", zap.Error(err))
		return base
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	r, ok := ret.(lua.LNumber)
	if !ok || r <= 0 {
		return base
	}
	return float64(r)
}
