package t2048

// DefaultSpawn4Odds is the chance that a spawned tile is a 4 instead of a 2.
const DefaultSpawn4Odds = 0.10

// NeverFour is the Spawn4Odds option for a board that only spawns 2s.
// A zero option selects DefaultSpawn4Odds.
const NeverFour = -1.0

// OddsOption converts a probability read from config into option form,
// so that a configured 0 stays 0 instead of falling back to the default.
func OddsOption(p float64) float64 {
	if p <= 0 {
		return NeverFour
	}
	return p
}

// resolveOdds turns an option value back into a probability.
func resolveOdds(opt float64) float64 {
	switch {
	case opt == 0:
		return DefaultSpawn4Odds
	case opt < 0:
		return 0
	}
	return opt
}

// Rand is the random source used for tile placement.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// SpawnTile places a 2 (90%) or 4 (10%) on a uniformly chosen empty cell.
func SpawnTile(grid Grid, rng Rand) (Grid, Cell, error) {
	return SpawnTileOdds(grid, rng, DefaultSpawn4Odds)
}

// SpawnTileOdds is SpawnTile with an explicit probability for a 4.
// The input grid is not modified.
func SpawnTileOdds(grid Grid, rng Rand, spawn4 float64) (Grid, Cell, error) {
	empty := grid.EmptyCells()
	if len(empty) == 0 {
		return grid, Cell{}, ErrGridFull
	}

	cell := empty[rng.Intn(len(empty))]

	value := 2
	if rng.Float64() < spawn4 {
		value = 4
	}

	out := grid.Clone()
	out[cell.Y][cell.X] = value
	return out, cell, nil
}
