package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/l1jgo/dropsim/internal/config"
	"github.com/l1jgo/dropsim/internal/core/event"
	coresys "github.com/l1jgo/dropsim/internal/core/system"
	"github.com/l1jgo/dropsim/internal/data"
	"github.com/l1jgo/dropsim/internal/drop"
	"github.com/l1jgo/dropsim/internal/pickup"
	"github.com/l1jgo/dropsim/internal/scripting"
	"github.com/l1jgo/dropsim/internal/system"
	"github.com/l1jgo/dropsim/internal/tween"
	"github.com/l1jgo/dropsim/internal/world"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name, runID string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             dropsim  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      掉落物 · 磁吸 排程模擬器             \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1m模擬:\033[0m %s \033[90m(run: %s)\033[0m\n\n", name, runID)
}

// displayWidth counts CJK runes as two columns.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		if r > 0x7F {
			w += 2
		} else {
			w++
		}
	}
	return w
}

func printSection(title string) {
	lineLen := max(46-displayWidth(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := max(42-displayWidth(label)-len(numStr), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main simulation logic ─────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/dropsim.toml"
	if p := os.Getenv("DROPSIM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if errors.Is(err, os.ErrNotExist) && os.Getenv("DROPSIM_CONFIG") == "" {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	runID := uuid.NewString()
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log = log.With(zap.String("run_id", runID))
	defer log.Sync()

	if stop := startProfile(cfg.Profile); stop != nil {
		defer stop()
	}

	printBanner(cfg.Sim.Name, runID)

	// 3. Static data
	printSection("資料載入")
	pickups, err := data.LoadPickupTable(cfg.Sim.PickupTable)
	if err != nil {
		return fmt.Errorf("pickup table: %w", err)
	}
	printStat("掉落物種類", pickups.Count())

	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// 4. Lua scripting engine
	luaEngine, err := scripting.NewEngine(cfg.Sim.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer luaEngine.Close()
	if err := luaEngine.SetSeed(seed); err != nil {
		return fmt.Errorf("scripting seed: %w", err)
	}
	printOK("Lua 腳本引擎載入完成")
	fmt.Println()

	// 5. World state
	printSection("世界")
	ws := world.NewState(world.PlayerInfo{
		Pos:        mgl32.Vec2{float32(cfg.Player.PathRadius), 0},
		Speed:      float32(cfg.Player.Speed),
		BaseMagnet: float32(cfg.Player.MagnetRadius),
		MaxHP:      cfg.Player.MaxHP,
	}, cfg.Enemies.Count, cfg.Enemies.HP, luaEngine, log)
	printStat("敵人", ws.AliveEnemies())
	fmt.Println()

	// 6. Drop scheduler and systems
	printSection("排程器")
	bus := event.NewBus()
	tweens := tween.NewRunner()
	sched, err := drop.NewScheduler(pickups, ws, tweens, ws, bus, drop.Options{
		PoolWarm:      cfg.Drop.PoolWarm,
		Workers:       cfg.Drop.Workers,
		MinChunk:      cfg.Drop.MinChunk,
		TweenDuration: cfg.Drop.TweenDuration,
		TweenStagger:  cfg.Drop.TweenStagger,
		Rates:         pickup.Rates{Exp: cfg.Rates.ExpRate, Gold: cfg.Rates.GoldRate},
	}, log)
	if err != nil {
		return fmt.Errorf("drop scheduler: %w", err)
	}
	defer sched.Close()
	for _, name := range sched.Pools().Names() {
		p, _ := sched.Pools().Lookup(name)
		printStat("物件池 "+name, p.Len())
	}

	feedback, err := system.NewFeedbackSystem(bus, cfg.Drop.FeedbackWarm, cfg.Drop.FeedbackTicks, log)
	if err != nil {
		return fmt.Errorf("feedback: %w", err)
	}
	defer feedback.Close()

	rng := rand.New(rand.NewSource(seed))
	spawner := system.NewSpawnSystem(sched, ws, pickups, rng, cfg.Spawn.PerTick, cfg.Spawn.MinDistance, cfg.Spawn.MaxDistance)

	runner := coresys.NewRunner()
	runner.Register(system.NewPlayerMoveSystem(ws, cfg.Player.PathRadius))
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(sched)
	runner.Register(spawner)
	runner.Register(tweens)
	runner.Register(feedback)
	runner.Register(system.NewCleanupSystem(ws, respawnInterval(cfg.Sim.TickRate), log))
	printOK("系統註冊完成")
	fmt.Println()

	// 7. Start sim loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Sim.TickRate)
	defer ticker.Stop()

	printSection("模擬就緒")
	printReady(fmt.Sprintf("模擬迴圈啟動 (tick: %s)", cfg.Sim.TickRate))
	if cfg.Sim.Ticks > 0 {
		printReady(fmt.Sprintf("執行 %d ticks 後結束", cfg.Sim.Ticks))
	}
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Sim.TickRate)
			if cfg.Sim.Ticks > 0 && runner.Ticks() >= uint64(cfg.Sim.Ticks) {
				log.Info("模擬完成", zap.Uint64("ticks", runner.Ticks()))
				printSummary(ws, sched, spawner, feedback)
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("收到關閉信號", zap.String("signal", sig.String()))
			printSummary(ws, sched, spawner, feedback)
			log.Info("模擬已停止", zap.Uint64("ticks", runner.Ticks()))
			return nil
		}
	}
}

// respawnInterval converts the 5 second enemy respawn period to ticks.
func respawnInterval(tick time.Duration) int {
	return max(int(5*time.Second/tick), 1)
}

func printSummary(ws *world.State, sched *drop.Scheduler, spawner *system.SpawnSystem, fb *system.FeedbackSystem) {
	st := sched.Stats()
	p := ws.Player()
	fmt.Println()
	printSection("統計")
	printStat("生成", st.Spawned)
	printStat("延後生成", st.Deferred)
	printStat("冷卻略過", spawner.Skipped())
	printStat("磁吸", st.Attracted)
	printStat("全部收集", st.ForceCollects)
	printStat("強制收集", st.ForceCollected)
	printStat("合併請求", st.Coalesced)
	printStat("批次", st.Batches)
	printStat("重新綁定", st.Rebinds)
	printStat("場上掉落物", sched.Active())
	for c := data.Category(0); c < data.CategoryCount; c++ {
		if n := fb.Collected(c); n > 0 {
			printStat("拾取 "+c.String(), n)
		}
	}
	fmt.Println()
	printSection("玩家")
	printStat("等級", p.Level)
	printStat("經驗", p.Exp)
	printStat("金幣", p.Gold)
	printStat("生命", p.HP)
	printStat("寶箱", p.Chests)
	printStat("擊殺", ws.Kills())
	fmt.Println()
}

// startProfile starts pkg/profile when profile.mode is set and returns its stop func.
func startProfile(cfg config.ProfileConfig) func() {
	var mode func(*profile.Profile)
	switch cfg.Mode {
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	case "trace":
		mode = profile.TraceProfile
	default:
		return nil
	}
	opts := []func(*profile.Profile){mode, profile.NoShutdownHook, profile.Quiet}
	if cfg.Path != "" {
		opts = append(opts, profile.ProfilePath(cfg.Path))
	}
	return profile.Start(opts...).Stop
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
