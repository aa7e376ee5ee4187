package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Sim     SimConfig     `toml:"sim"`
	Player  PlayerConfig  `toml:"player"`
	Drop    DropConfig    `toml:"drop"`
	Spawn   SpawnConfig   `toml:"spawn"`
	Enemies EnemyConfig   `toml:"enemies"`
	Rates   RatesConfig   `toml:"rates"`
	Logging LoggingConfig `toml:"logging"`
	Profile ProfileConfig `toml:"profile"`
}

type SimConfig struct {
	Name        string        `toml:"name"`
	TickRate    time.Duration `toml:"tick_rate"`
	Ticks       int           `toml:"ticks"` // 0 = run until signalled
	Seed        int64         `toml:"seed"`  // 0 = seed from clock
	PickupTable string        `toml:"pickup_table"`
	ScriptsDir  string        `toml:"scripts_dir"`
	StartTime   int64         // set at boot, not from config
}

type PlayerConfig struct {
	MagnetRadius float64 `toml:"magnet_radius"`
	Speed        float64 `toml:"speed"`       // units per second
	PathRadius   float64 `toml:"path_radius"` // the sim player walks a circle
	MaxHP        int     `toml:"max_hp"`
}

type DropConfig struct {
	PoolWarm      int           `toml:"pool_warm"` // entities pre-built per category
	Workers       int           `toml:"workers"`   // batch evaluator workers; -1 = GOMAXPROCS, 0 = inline
	MinChunk      int           `toml:"min_chunk"` // smallest slice handed to one worker
	TweenDuration time.Duration `toml:"tween_duration"`
	TweenStagger  time.Duration `toml:"tween_stagger"`
	FeedbackWarm  int           `toml:"feedback_warm"`
	FeedbackTicks int           `toml:"feedback_ticks"` // lifetime of a particle/sound handle
}

type SpawnConfig struct {
	PerTick     int     `toml:"per_tick"` // spawn attempts per tick
	MinDistance float64 `toml:"min_distance"`
	MaxDistance float64 `toml:"max_distance"`
}

type EnemyConfig struct {
	Count int `toml:"count"`
	HP    int `toml:"hp"`
}

type RatesConfig struct {
	ExpRate  float64 `toml:"exp_rate"`
	GoldRate float64 `toml:"gold_rate"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type ProfileConfig struct {
	Mode string `toml:"mode"` // "", "cpu", "mem" or "trace"
	Path string `toml:"path"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Sim.StartTime = time.Now().Unix()
	return cfg, nil
}

// Default returns the built-in configuration, used when no file exists.
func Default() *Config {
	cfg := defaults()
	cfg.Sim.StartTime = time.Now().Unix()
	return cfg
}

func (c *Config) validate() error {
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("sim.tick_rate must be positive")
	}
	if c.Player.MagnetRadius < 0 {
		return fmt.Errorf("player.magnet_radius must not be negative")
	}
	if c.Spawn.MaxDistance < c.Spawn.MinDistance {
		return fmt.Errorf("spawn.max_distance below spawn.min_distance")
	}
	switch c.Profile.Mode {
	case "", "cpu", "mem", "trace":
	default:
		return fmt.Errorf("profile.mode %q not one of cpu, mem, trace", c.Profile.Mode)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Sim: SimConfig{
			Name:        "dropsim",
			TickRate:    16 * time.Millisecond,
			Ticks:       0,
			PickupTable: "data/yaml/pickup_list.yaml",
			ScriptsDir:  "scripts",
		},
		Player: PlayerConfig{
			MagnetRadius: 2.0,
			Speed:        3.0,
			PathRadius:   12.0,
			MaxHP:        100,
		},
		Drop: DropConfig{
			PoolWarm:      5,
			Workers:       -1,
			MinChunk:      64,
			TweenDuration: 250 * time.Millisecond,
			TweenStagger:  10 * time.Millisecond,
			FeedbackWarm:  16,
			FeedbackTicks: 20,
		},
		Spawn: SpawnConfig{
			PerTick:     2,
			MinDistance: 1.0,
			MaxDistance: 8.0,
		},
		Enemies: EnemyConfig{
			Count: 24,
			HP:    40,
		},
		Rates: RatesConfig{
			ExpRate:  1.0,
			GoldRate: 1.0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
