package config

import (
	_ "embed"
)

//go:embed defaults/t2048.yaml
var defaultT2048YAML []byte

// DefaultT2048Config returns the built-in 2048 configuration.
func DefaultT2048Config() T2048Config {
	return T2048Config{
		Board: BoardConfig{
			Size:       4,
			Spawn4Odds: 0.10,
		},
		Endless: EndlessConfig{
			Spawn4Odds: 0.10,
		},
		Campaign: CampaignConfig{
			Levels: []LevelConfig{
				{Name: "Warm-up", Target: 128, Spawn4Odds: 0.10},
				{Name: "Getting Started", Target: 256, Spawn4Odds: 0.10},
				{Name: "Building Momentum", Target: 512, Spawn4Odds: 0.10},
				{Name: "The Climb", Target: 1024, Spawn4Odds: 0.10},
				{Name: "Classic 2048", Target: 2048, Spawn4Odds: 0.10},
				{Name: "Beyond Limits", Target: 4096, Spawn4Odds: 0.12},
				{Name: "Master Class", Target: 8192, Spawn4Odds: 0.15},
				{Name: "Expert Challenge", Target: 8192, Spawn4Odds: 0.18},
				{Name: "Grandmaster", Target: 8192, Spawn4Odds: 0.20},
				{Name: "Ultimate Champion", Target: 8192, Spawn4Odds: 0.25},
			},
		},
	}
}
