// Package config provides YAML/TOML-based game configuration loading,
// validation and difficulty management for the platformer.
package config

import (
	"fmt"
	"math"
	"sort"
)

// PlatformerConfig contains all configuration for the platformer.
type PlatformerConfig struct {
	World      WorldConfig      `yaml:"world" toml:"world"`
	Player     PlayerConfig     `yaml:"player" toml:"player"`
	Mobs       MobConfig        `yaml:"mobs" toml:"mobs"`
	Levels     LevelsConfig     `yaml:"levels" toml:"levels"`
	Difficulty DifficultyConfig `yaml:"difficulty" toml:"difficulty"`
}

// Vec2 is a 2D vector in pixels.
type Vec2 struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
}

// WorldConfig defines physics parameters shared by every level.
type WorldConfig struct {
	Gravity Vec2 `yaml:"gravity" toml:"gravity"` // pixels per second squared
}

// PlayerConfig defines the player character.
type PlayerConfig struct {
	Character         string  `yaml:"character" toml:"character"`                       // "mario" or "luigi"
	MaxHealth         int     `yaml:"max_health" toml:"max_health"`                     // starting and maximum health
	MaxVelocity       float64 `yaml:"max_velocity" toml:"max_velocity"`                 // lateral speed cap
	WalkSpeed         float64 `yaml:"walk_speed" toml:"walk_speed"`                     // lateral velocity per move intent
	JumpSpeed         float64 `yaml:"jump_speed" toml:"jump_speed"`                     // upward velocity per jump
	Friction          float64 `yaml:"friction" toml:"friction"`                         // ground deceleration
	Mass              float64 `yaml:"mass" toml:"mass"`                                 // 0 keeps the default mass
	Spawn             *Vec2   `yaml:"spawn,omitempty" toml:"spawn,omitempty"`           // nil spawns at one cell from the corner
	TunnelHeal        int     `yaml:"tunnel_heal" toml:"tunnel_heal"`                   // health restored when taking a tunnel
	ResetScoreOnDeath bool    `yaml:"reset_score_on_death" toml:"reset_score_on_death"` // clear score when restarting after a loss
}

// MobConfig defines enemy behaviour that is not fixed per kind.
type MobConfig struct {
	CloudFireChance   float64 `yaml:"cloud_fire_chance" toml:"cloud_fire_chance"`     // probability per tick once cooled down
	CloudFireCooldown int     `yaml:"cloud_fire_cooldown" toml:"cloud_fire_cooldown"` // ticks between fireballs
}

// LevelsConfig defines the level sequence.
type LevelsConfig struct {
	Start string                 `yaml:"start" toml:"start"`
	Dir   string                 `yaml:"dir" toml:"dir"` // optional directory overriding the built-in levels
	Goals map[string]LevelTarget `yaml:"goals" toml:"goals"`
}

// LevelTarget names the levels reached from a level. "END" finishes the game.
type LevelTarget struct {
	Goal   string `yaml:"goal" toml:"goal"`
	Tunnel string `yaml:"tunnel" toml:"tunnel"`
}

// EndLevel is the goal target that finishes the game.
const EndLevel = "END"

// Target returns the goal table entry for a level.
func (l LevelsConfig) Target(level string) (LevelTarget, bool) {
	t, ok := l.Goals[level]
	return t, ok
}

// Names returns the levels listed in the goal table, sorted.
func (l LevelsConfig) Names() []string {
	names := make([]string, 0, len(l.Goals))
	for name := range l.Goals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CharacterName returns the display name of the configured character.
func (p PlayerConfig) CharacterName() string {
	if p.Character == "luigi" {
		return "Luigi"
	}
	return "Mario"
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled" toml:"enabled"`
	InitialLevel float64           `yaml:"initial_level" toml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression" toml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling" toml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type" toml:"type"`     // "score", "time", or "none"
	MaxAt int    `yaml:"max_at" toml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	FireRateMultiplier float64 `yaml:"fire_rate_multiplier" toml:"fire_rate_multiplier"` // cloud fire chance is scaled by 1+multiplier at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI value to a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p
	}
	return ""
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ValidationError reports a configuration entry that cannot be used.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// Validate checks the configuration and returns the first problem found
// as a *ValidationError.
func (c PlatformerConfig) Validate() error {
	g := c.World.Gravity
	if !finite(g.X) || !finite(g.Y) {
		return &ValidationError{Field: "world.gravity", Value: g, Reason: "must be finite"}
	}
	if c.Player.Character != "mario" && c.Player.Character != "luigi" {
		return &ValidationError{Field: "player.character", Value: c.Player.Character, Reason: "must be mario or luigi"}
	}
	if c.Player.MaxHealth < 1 {
		return &ValidationError{Field: "player.max_health", Value: c.Player.MaxHealth, Reason: "must be at least 1"}
	}
	if c.Player.MaxVelocity <= 0 || !finite(c.Player.MaxVelocity) {
		return &ValidationError{Field: "player.max_velocity", Value: c.Player.MaxVelocity, Reason: "must be positive"}
	}
	if c.Player.WalkSpeed <= 0 || !finite(c.Player.WalkSpeed) {
		return &ValidationError{Field: "player.walk_speed", Value: c.Player.WalkSpeed, Reason: "must be positive"}
	}
	if c.Player.JumpSpeed <= 0 || !finite(c.Player.JumpSpeed) {
		return &ValidationError{Field: "player.jump_speed", Value: c.Player.JumpSpeed, Reason: "must be positive"}
	}
	if c.Player.Friction < 0 {
		return &ValidationError{Field: "player.friction", Value: c.Player.Friction, Reason: "must not be negative"}
	}
	if c.Player.Mass < 0 {
		return &ValidationError{Field: "player.mass", Value: c.Player.Mass, Reason: "must not be negative"}
	}
	if c.Player.TunnelHeal < 0 {
		return &ValidationError{Field: "player.tunnel_heal", Value: c.Player.TunnelHeal, Reason: "must not be negative"}
	}
	if c.Mobs.CloudFireChance < 0 || c.Mobs.CloudFireChance > 1 {
		return &ValidationError{Field: "mobs.cloud_fire_chance", Value: c.Mobs.CloudFireChance, Reason: "must be within [0, 1]"}
	}
	if c.Mobs.CloudFireCooldown < 0 {
		return &ValidationError{Field: "mobs.cloud_fire_cooldown", Value: c.Mobs.CloudFireCooldown, Reason: "must not be negative"}
	}
	if c.Levels.Start == "" {
		return &ValidationError{Field: "levels.start", Value: c.Levels.Start, Reason: "must name a level"}
	}
	for _, name := range c.Levels.Names() {
		if c.Levels.Goals[name].Goal == "" {
			return &ValidationError{Field: "levels.goals." + name + ".goal", Value: "", Reason: "must name a level or END"}
		}
	}
	switch c.Difficulty.Progression.Type {
	case "", "none", "score", "time":
	default:
		return &ValidationError{Field: "difficulty.progression.type", Value: c.Difficulty.Progression.Type, Reason: "must be score, time or none"}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
