package config

import "math"

// Spawn odds adjustments per preset.
const (
	easyOddsFactor = 0.5
	hardOddsBonus  = 0.10
	maxSpawn4Odds  = 0.5
)

// ApplyT2048Preset modifies the config based on a difficulty preset.
// Easy halves the chance of a 4, hard raises it, fixed pins every
// campaign level to the board odds.
func ApplyT2048Preset(cfg *T2048Config, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		scaleOdds(cfg, func(p float64) float64 { return p * easyOddsFactor })
	case DifficultyHard:
		scaleOdds(cfg, func(p float64) float64 { return clampF(p+hardOddsBonus, 0, maxSpawn4Odds) })
	case DifficultyFixed:
		for i := range cfg.Campaign.Levels {
			cfg.Campaign.Levels[i].Spawn4Odds = cfg.Board.Spawn4Odds
		}
	}
}

func scaleOdds(cfg *T2048Config, f func(float64) float64) {
	cfg.Board.Spawn4Odds = f(cfg.Board.Spawn4Odds)
	cfg.Endless.Spawn4Odds = f(cfg.Endless.Spawn4Odds)
	for i := range cfg.Campaign.Levels {
		cfg.Campaign.Levels[i].Spawn4Odds = f(cfg.Campaign.Levels[i].Spawn4Odds)
	}
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
