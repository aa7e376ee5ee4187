package world

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/l1jgo/dropsim/internal/scripting"
	"go.uber.org/zap"
)

// Formulas are the scripted parts of the player's progression.
type Formulas interface {
	RollChest(ctx scripting.ChestContext) scripting.ChestReward
	CalcMagnetRadius(level int, base float64) float64
}

// State is the world the pickups are collected into: one player and a set of
// enemies. It is the XP/currency/health sink of every pickup effect.
type State struct {
	player   *PlayerInfo
	enemies  []*EnemyInfo
	enemyHP  int
	kills    int
	formulas Formulas
	log      *zap.Logger
}

// NewState creates the player at the origin and enemyCount enemies.
func NewState(player PlayerInfo, enemyCount, enemyHP int, formulas Formulas, log *zap.Logger) *State {
	p := player
	if p.Level == 0 {
		p.Level = 1
	}
	if p.HP == 0 {
		p.HP = p.MaxHP
	}
	p.MagnetRadius = p.BaseMagnet
	s := &State{
		player:   &p,
		enemies:  make([]*EnemyInfo, 0, enemyCount),
		enemyHP:  enemyHP,
		formulas: formulas,
		log:      log,
	}
	for i := 0; i < enemyCount; i++ {
		s.enemies = append(s.enemies, s.newEnemy())
	}
	s.refreshMagnet()
	return s
}

func (s *State) newEnemy() *EnemyInfo {
	return &EnemyInfo{ID: NextEnemyID(), HP: s.enemyHP, MaxHP: s.enemyHP}
}

func (s *State) Player() *PlayerInfo { return s.player }

// Center is the player's current position.
func (s *State) Center() mgl32.Vec2 { return s.player.Pos }

// MagnetRadiusSq is the squared magnet pickup radius.
func (s *State) MagnetRadiusSq() float32 {
	r := s.player.MagnetRadius
	return r * r
}

// Kills returns how many enemies bombs have killed.
func (s *State) Kills() int { return s.kills }

// AliveEnemies counts enemies with HP left.
func (s *State) AliveEnemies() int {
	n := 0
	for _, e := range s.enemies {
		if !e.Dead {
			n++
		}
	}
	return n
}

func (s *State) GrantExp(amount int) {
	p := s.player
	p.Exp += amount
	leveled := false
	for p.Exp >= ExpForLevel(p.Level) {
		p.Level++
		leveled = true
	}
	if leveled {
		s.refreshMagnet()
		s.log.Debug("level up",
			zap.Int("level", p.Level),
			zap.Float32("magnet_radius", p.MagnetRadius),
		)
	}
}

func (s *State) GrantGold(amount int) {
	s.player.Gold += amount
}

func (s *State) Heal(amount int) {
	p := s.player
	p.HP = min(p.HP+amount, p.MaxHP)
}

func (s *State) DamageAllEnemies(amount int) {
	for _, e := range s.enemies {
		if e.Dead {
			continue
		}
		e.HP -= amount
		if e.HP <= 0 {
			e.HP = 0
			e.Dead = true
			s.kills++
		}
	}
}

// OpenChest rolls the scripted reward and applies it.
func (s *State) OpenChest(tier int) {
	p := s.player
	r := s.formulas.RollChest(scripting.ChestContext{
		Tier:  tier,
		Level: p.Level,
		HP:    p.HP,
		MaxHP: p.MaxHP,
	})
	p.Chests++
	s.GrantGold(r.Gold)
	s.Heal(r.Heal)
	s.GrantExp(r.Exp)
	s.log.Debug("chest opened",
		zap.Int("tier", tier),
		zap.Int("gold", r.Gold),
		zap.Int("exp", r.Exp),
		zap.Int("heal", r.Heal),
	)
}

// RespawnDead replaces dead enemies with fresh ones and returns how many.
func (s *State) RespawnDead() int {
	n := 0
	for i, e := range s.enemies {
		if e.Dead {
			s.enemies[i] = s.newEnemy()
			n++
		}
	}
	return n
}

func (s *State) refreshMagnet() {
	p := s.player
	p.MagnetRadius = float32(s.formulas.CalcMagnetRadius(p.Level, float64(p.BaseMagnet)))
}
