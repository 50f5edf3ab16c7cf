package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg := DefaultPlatformerConfig()
	if err := yaml.Unmarshal(GetDefaultYAML("platformer"), &cfg); err != nil {
		t.Fatalf("embedded default does not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultPlatformerConfig()) {
		t.Errorf("embedded default = %+v, expected %+v", cfg, DefaultPlatformerConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadPlatformerYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte(`
world:
  gravity: {x: 0, y: 450}
player:
  character: luigi
  max_health: 3
  spawn: {x: 32, y: 48}
levels:
  start: bonus.txt
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadPlatformer(path)
	if err != nil {
		t.Fatalf("LoadPlatformer: %v", err)
	}
	if cfg.World.Gravity.Y != 450 {
		t.Errorf("gravity.y = %v, expected 450", cfg.World.Gravity.Y)
	}
	if cfg.Player.CharacterName() != "Luigi" || cfg.Player.MaxHealth != 3 {
		t.Errorf("player = %+v", cfg.Player)
	}
	if cfg.Player.Spawn == nil || cfg.Player.Spawn.X != 32 || cfg.Player.Spawn.Y != 48 {
		t.Errorf("spawn = %+v, expected {32 48}", cfg.Player.Spawn)
	}
	if cfg.Player.MaxVelocity != 100 {
		t.Errorf("max_velocity should keep its default, got %v", cfg.Player.MaxVelocity)
	}
	if cfg.Levels.Start != "bonus.txt" {
		t.Errorf("start = %q", cfg.Levels.Start)
	}
	if _, ok := cfg.Levels.Target("level1.txt"); !ok {
		t.Error("default goal table should survive a partial file")
	}
}

func TestLoadPlatformerTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	data := []byte(`
[player]
character = "mario"
max_health = 8
tunnel_heal = 4

[levels]
start = "level2.txt"

[levels.goals."level2.txt"]
goal = "END"
tunnel = "level1.txt"
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadPlatformer(path)
	if err != nil {
		t.Fatalf("LoadPlatformer: %v", err)
	}
	if cfg.Player.MaxHealth != 8 || cfg.Player.TunnelHeal != 4 {
		t.Errorf("player = %+v", cfg.Player)
	}
	target, ok := cfg.Levels.Target("level2.txt")
	if !ok || target.Goal != EndLevel || target.Tunnel != "level1.txt" {
		t.Errorf("level2 target = %+v, %v", target, ok)
	}
}

func TestLoadPlatformerMissingFile(t *testing.T) {
	_, err := LoadPlatformer(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing custom config")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*PlatformerConfig)
		field string
	}{
		{"character", func(c *PlatformerConfig) { c.Player.Character = "peach" }, "player.character"},
		{"health", func(c *PlatformerConfig) { c.Player.MaxHealth = 0 }, "player.max_health"},
		{"speed cap", func(c *PlatformerConfig) { c.Player.MaxVelocity = -1 }, "player.max_velocity"},
		{"start", func(c *PlatformerConfig) { c.Levels.Start = "" }, "levels.start"},
		{"goal", func(c *PlatformerConfig) {
			c.Levels.Goals["broken.txt"] = LevelTarget{Tunnel: "level1.txt"}
		}, "levels.goals.broken.txt.goal"},
		{"fire chance", func(c *PlatformerConfig) { c.Mobs.CloudFireChance = 2 }, "mobs.cloud_fire_chance"},
		{"progression", func(c *PlatformerConfig) { c.Difficulty.Progression.Type = "random" }, "difficulty.progression.type"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultPlatformerConfig()
			tc.edit(&cfg)

			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Errorf("field = %q, expected %q", verr.Field, tc.field)
			}
		})
	}
}

func TestApplyPlatformerPreset(t *testing.T) {
	easy := DefaultPlatformerConfig()
	ApplyPlatformerPreset(&easy, DifficultyEasy)
	if easy.Player.MaxHealth != 7 || easy.Player.MaxVelocity != 120 {
		t.Errorf("easy preset = %+v", easy.Player)
	}

	hard := DefaultPlatformerConfig()
	ApplyPlatformerPreset(&hard, DifficultyHard)
	if hard.Player.MaxHealth != 3 || hard.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard preset = %+v / %+v", hard.Player, hard.Difficulty)
	}

	fixed := DefaultPlatformerConfig()
	ApplyPlatformerPreset(&fixed, DifficultyFixed)
	if fixed.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	if ParsePreset("nightmare") != "" {
		t.Error("unknown preset should parse to empty")
	}
}

func TestDifficultyFireChance(t *testing.T) {
	cfg := DefaultPlatformerConfig().Difficulty
	dm := NewDifficultyManager(cfg)

	if got := dm.FireChance(0.01, 0, 0); got != 0.01 {
		t.Errorf("FireChance at start = %v, expected 0.01", got)
	}
	if got := dm.FireChance(0.01, 0, 18000); got < 0.0299 || got > 0.0301 {
		t.Errorf("FireChance at max = %v, expected 0.03", got)
	}

	cfg.Enabled = false
	fixed := NewDifficultyManager(cfg)
	if got := fixed.Level(100, 100000); got != 0 {
		t.Errorf("disabled progression level = %v, expected 0", got)
	}
}
