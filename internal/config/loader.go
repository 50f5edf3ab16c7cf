package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadPlatformer loads the platformer configuration.
// Search order: customPath -> ~/.platformer/configs/platformer.{yaml,toml} ->
// ./configs/platformer.{yaml,toml} -> embedded default.
// Values missing from a file keep their defaults. The result is validated.
func LoadPlatformer(customPath string) (PlatformerConfig, error) {
	cfg := DefaultPlatformerConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := decode(customPath, data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	for _, path := range searchPaths() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		candidate := DefaultPlatformerConfig()
		if err := decode(path, data, &candidate); err != nil {
			continue
		}
		return candidate, candidate.Validate()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultPlatformerYAML, &cfg); err != nil {
		return DefaultPlatformerConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, cfg.Validate()
}

// decode picks the format from the file extension; anything but .toml is YAML.
func decode(path string, data []byte, cfg *PlatformerConfig) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

func searchPaths() []string {
	var paths []string
	for _, name := range []string{"platformer.yaml", "platformer.toml"} {
		if p := userConfigPath(name); p != "" {
			paths = append(paths, p)
		}
	}
	return append(paths,
		filepath.Join("configs", "platformer.yaml"),
		filepath.Join("configs", "platformer.toml"),
	)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".platformer", "configs", filename)
}

// ApplyPlatformerPreset modifies the config based on a difficulty preset.
func ApplyPlatformerPreset(cfg *PlatformerConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust gameplay based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Player.MaxHealth += 2
		cfg.Player.MaxVelocity = 120
	case DifficultyHard:
		cfg.Player.MaxHealth = max(1, cfg.Player.MaxHealth-2)
		cfg.Player.MaxVelocity = 80
	}
}
