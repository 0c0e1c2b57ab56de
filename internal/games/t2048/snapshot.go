package t2048

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying      GameStateType = "playing"
	StateLevelCleared GameStateType = "level_cleared"
	StateGameOver     GameStateType = "game_over"
	StateWin          GameStateType = "win"
	StatePausedSmall  GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick    uint64
	Mode    string // "campaign" or "endless"
	Level   int    // Current level (1-indexed for display)
	Target  int    // Current target tile value, 0 in endless
	Score   int
	Best    int
	Board   Grid
	MaxTile int
	State   GameStateType
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateWin
	case g.gameOver:
		state = StateGameOver
	case g.levelCleared:
		state = StateLevelCleared
	}

	board := g.session.Grid()
	return Snapshot{
		Tick:    g.tick,
		Mode:    string(g.variant.Mode),
		Level:   g.levelIndex + 1,
		Target:  g.currentTarget,
		Score:   g.session.Score(),
		Best:    g.best(),
		Board:   board,
		MaxTile: board.MaxTile(),
		State:   state,
	}
}

func (g *Game) best() int {
	return max(g.highScore, g.session.Best())
}
