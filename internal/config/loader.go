package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const t2048File = "t2048.yaml"

// LoadT2048 loads 2048 configuration.
// Search order: customPath -> ~/.arcade/configs/t2048.yaml -> ./configs/t2048.yaml -> embedded default
func LoadT2048(customPath string) (T2048Config, error) {
	var cfg T2048Config

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{filepath.Join("configs", t2048File)}
	if userCfgPath := userConfigPath(t2048File); userCfgPath != "" {
		candidates = append([]string{userCfgPath}, candidates...)
	}

	// Broken files further down the search path are skipped, not fatal
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var fileCfg T2048Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			continue
		}
		if fileCfg.Validate() == nil {
			return fileCfg, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultT2048YAML, &cfg); err != nil || cfg.Validate() != nil {
		return DefaultT2048Config(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c T2048Config) Validate() error {
	if c.Board.Size < 2 || c.Board.Size > 8 {
		return fmt.Errorf("board.size must be between 2 and 8, got %d", c.Board.Size)
	}
	if !validOdds(c.Board.Spawn4Odds) {
		return fmt.Errorf("board.spawn4_odds must be in [0,1], got %v", c.Board.Spawn4Odds)
	}
	if !validOdds(c.Endless.Spawn4Odds) {
		return fmt.Errorf("endless.spawn4_odds must be in [0,1], got %v", c.Endless.Spawn4Odds)
	}
	if len(c.Campaign.Levels) == 0 {
		return errors.New("campaign.levels must not be empty")
	}
	for i, lvl := range c.Campaign.Levels {
		if lvl.Target < 4 || lvl.Target&(lvl.Target-1) != 0 {
			return fmt.Errorf("campaign.levels[%d].target must be a power of two >= 4, got %d", i, lvl.Target)
		}
		if !validOdds(lvl.Spawn4Odds) {
			return fmt.Errorf("campaign.levels[%d].spawn4_odds must be in [0,1], got %v", i, lvl.Spawn4Odds)
		}
	}
	return nil
}

func validOdds(p float64) bool {
	return p >= 0 && p <= 1
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}
