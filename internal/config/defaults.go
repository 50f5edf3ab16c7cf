package config

import (
	_ "embed"
)

//go:embed defaults/platformer.yaml
var defaultPlatformerYAML []byte

// DefaultPlatformerConfig returns the default platformer configuration.
func DefaultPlatformerConfig() PlatformerConfig {
	return PlatformerConfig{
		World: WorldConfig{
			Gravity: Vec2{X: 0, Y: 300},
		},
		Player: PlayerConfig{
			Character:   "mario",
			MaxHealth:   5,
			MaxVelocity: 100,
			WalkSpeed:   60,
			JumpSpeed:   200,
			Friction:    400,
			TunnelHeal:  2,
		},
		Mobs: MobConfig{
			CloudFireChance:   0.01,
			CloudFireCooldown: 150,
		},
		Levels: LevelsConfig{
			Start: "level1.txt",
			Goals: map[string]LevelTarget{
				"level1.txt": {Goal: "level2.txt", Tunnel: "bonus.txt"},
				"level2.txt": {Goal: "level3.txt", Tunnel: "bonus.txt"},
				"level3.txt": {Goal: EndLevel, Tunnel: "level1.txt"},
				"bonus.txt":  {Goal: "level2.txt", Tunnel: "level3.txt"},
			},
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 18000, // 3 minutes at 100 ticks per second
			},
			Scaling: ScalingConfig{
				FireRateMultiplier: 2.0,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "platformer":
		return defaultPlatformerYAML
	default:
		return nil
	}
}
