// Package t2048 implements the 2048 sliding-tile puzzle: a pure grid engine,
// a session controller that owns score and lifecycle, and the terminal game
// with campaign and endless modes.
package t2048

import "github.com/vovakirdan/tui-2048/internal/config"

// Level defines a campaign level with a target tile.
type Level struct {
	ID     int
	Name   string
	Target int     // Target tile value to reach
	Spawn4 float64 // Probability of spawning 4 instead of 2 (0.0-1.0)
}

// LevelsFromConfig builds the campaign table from configuration.
func LevelsFromConfig(cfg config.T2048Config) []Level {
	levels := make([]Level, len(cfg.Campaign.Levels))
	for i, lvl := range cfg.Campaign.Levels {
		levels[i] = Level{
			ID:     i + 1,
			Name:   lvl.Name,
			Target: lvl.Target,
			Spawn4: lvl.Spawn4Odds,
		}
	}
	return levels
}

// DefaultLevels returns the built-in campaign.
func DefaultLevels() []Level {
	return LevelsFromConfig(config.DefaultT2048Config())
}

// LevelCount returns the number of built-in campaign levels.
func LevelCount() int {
	return len(DefaultLevels())
}

// LevelNames returns the names of the built-in levels.
func LevelNames() []string {
	levels := DefaultLevels()
	names := make([]string, len(levels))
	for i, lvl := range levels {
		names[i] = lvl.Name
	}
	return names
}

// LevelTargets returns the targets of the built-in levels.
func LevelTargets() []int {
	levels := DefaultLevels()
	targets := make([]int, len(levels))
	for i, lvl := range levels {
		targets[i] = lvl.Target
	}
	return targets
}
