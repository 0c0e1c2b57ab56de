// Package config provides YAML-based game configuration loading and
// difficulty presets for the arcade platform.
package config

// T2048Config contains all configuration for the 2048 game.
type T2048Config struct {
	Board    BoardConfig    `yaml:"board"`
	Endless  EndlessConfig  `yaml:"endless"`
	Campaign CampaignConfig `yaml:"campaign"`
}

// BoardConfig defines the board dimension and default spawn odds.
type BoardConfig struct {
	Size       int     `yaml:"size"`
	Spawn4Odds float64 `yaml:"spawn4_odds"` // Probability of a 4 instead of a 2
}

// EndlessConfig defines endless-mode parameters.
type EndlessConfig struct {
	Spawn4Odds float64 `yaml:"spawn4_odds"`
}

// CampaignConfig holds the ordered level table.
type CampaignConfig struct {
	Levels []LevelConfig `yaml:"levels"`
}

// LevelConfig defines one campaign level.
type LevelConfig struct {
	Name       string  `yaml:"name"`
	Target     int     `yaml:"target"`      // Tile value that clears the level
	Spawn4Odds float64 `yaml:"spawn4_odds"` // 0.0-1.0
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParseDifficultyPreset maps a flag value to a preset. Empty means normal.
func ParseDifficultyPreset(s string) (DifficultyPreset, bool) {
	switch DifficultyPreset(s) {
	case "":
		return DifficultyNormal, true
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s), true
	}
	return "", false
}
