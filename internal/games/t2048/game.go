package t2048

import (
	"math/rand"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeEndless  Mode = "endless"
)

// Variant describes one registered flavour of the game.
type Variant struct {
	ID    string
	Title string
	Mode  Mode
	Size  int // 0 means the configured board size
}

// Variants lists every registered game ID.
var Variants = []Variant{
	{ID: "2048", Title: "2048", Mode: ModeCampaign},
	{ID: "2048_endless", Title: "2048 (Endless)", Mode: ModeEndless},
	{ID: "2048_3x3", Title: "2048 Mini (3x3)", Mode: ModeEndless, Size: 3},
	{ID: "2048_5x5", Title: "2048 Big (5x5)", Mode: ModeEndless, Size: 5},
	{ID: "2048_6x6", Title: "2048 Huge (6x6)", Mode: ModeEndless, Size: 6},
}

// LookupVariant returns the variant registered under id.
func LookupVariant(id string) (Variant, bool) {
	for _, v := range Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

func init() {
	for _, v := range Variants {
		registry.Register(v.ID, func() registry.Game {
			return NewVariant(v)
		})
	}
}

// Game adapts a Session to the terminal platform: it maps input frames to
// moves, runs the campaign level table and renders the board.
type Game struct {
	variant Variant
	tick    uint64

	session   *Session
	levels    []Level
	endless   float64 // spawn odds in endless mode
	highScore int     // stored best score, supplied by the platform

	levelIndex    int
	currentTarget int

	screenW  int
	screenH  int
	tickRate int

	gameOver        bool
	levelCleared    bool
	won             bool
	paused          bool
	tooSmall        bool
	levelClearTicks int
}

// New creates a new campaign mode 2048 game.
func New() *Game {
	return NewVariant(Variants[0])
}

// NewVariant creates a game for the given variant.
func NewVariant(v Variant) *Game {
	return &Game{variant: v}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return g.variant.ID
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.variant.Title
}

// Mode returns campaign or endless.
func (g *Game) Mode() Mode {
	return g.variant.Mode
}

// SetHighScore sets the stored best score shown in the HUD.
func (g *Game) SetHighScore(score int) {
	g.highScore = score
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	gameCfg, err := config.LoadT2048(cfg.ConfigPath)
	if err != nil {
		gameCfg = config.DefaultT2048Config()
	}
	if preset, ok := config.ParseDifficultyPreset(cfg.Difficulty); ok {
		config.ApplyT2048Preset(&gameCfg, preset)
	}

	g.levels = LevelsFromConfig(gameCfg)
	g.endless = gameCfg.Endless.Spawn4Odds

	size := g.variant.Size
	if size == 0 {
		size = gameCfg.Board.Size
	}

	g.tick = 0
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = 60
	}
	g.gameOver = false
	g.levelCleared = false
	g.won = false
	g.paused = false
	g.levelClearTicks = 0

	g.levelIndex = 0
	if g.variant.Mode == ModeCampaign && cfg.StartLevel > 0 && cfg.StartLevel <= len(g.levels) {
		g.levelIndex = cfg.StartLevel - 1
	}
	g.loadLevel()

	if g.session != nil {
		g.highScore = max(g.highScore, g.session.Best())
	}

	// NewSession only fails on a nil source or a bad size; both are ruled out here
	g.session, _ = NewSession(SessionOptions{
		GameID:     g.ID(),
		Size:       max(size, MinSize),
		Spawn4Odds: OddsOption(g.spawnOdds()),
		Rand:       rand.New(rand.NewSource(cfg.Seed)),
	})

	g.checkScreenSize()
}

// loadLevel sets the target for the current level.
func (g *Game) loadLevel() {
	if g.variant.Mode == ModeEndless {
		g.currentTarget = 0
		return
	}
	g.currentTarget = g.levels[g.levelIndex].Target
}

func (g *Game) spawnOdds() float64 {
	if g.variant.Mode == ModeEndless {
		return g.endless
	}
	return g.levels[g.levelIndex].Spawn4
}

// Resize adapts the layout to a new terminal size without touching the board.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	if g.session != nil {
		g.checkScreenSize()
	}
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	boardW, boardH := boardDimensions(g.session.Size())
	// board + HUD above + controls line below
	g.tooSmall = g.screenW < boardW+4 || g.screenH < boardH+hudHeight+3
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	// Level cleared pause, auto-advance after two seconds
	if g.levelCleared {
		g.levelClearTicks++
		if g.levelClearTicks >= 2*g.tickRate {
			g.advanceLevel()
		}
		return core.StepResult{State: g.State()}
	}

	if g.gameOver || g.won {
		return core.StepResult{State: g.State()}
	}

	dir, ok := directionFromInput(in)
	if !ok {
		return core.StepResult{State: g.State()}
	}

	moved := g.processMove(dir)
	return core.StepResult{State: g.State(), Moved: moved}
}

// directionFromInput picks one direction per tick; extra keys are dropped.
func directionFromInput(in core.InputFrame) (Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return DirUp, true
	case in.Has(core.ActionDown):
		return DirDown, true
	case in.Has(core.ActionLeft):
		return DirLeft, true
	case in.Has(core.ActionRight):
		return DirRight, true
	}
	return 0, false
}

// processMove handles a move in the given direction.
func (g *Game) processMove(dir Direction) bool {
	outcome, err := g.session.Move(dir)
	if err != nil {
		g.gameOver = true
		return false
	}
	if !outcome.Changed {
		return false
	}

	if g.variant.Mode == ModeCampaign && g.currentTarget > 0 && g.session.Grid().MaxTile() >= g.currentTarget {
		g.levelCleared = true
		g.levelClearTicks = 0
		return true
	}

	if outcome.State == StateTerminal {
		g.gameOver = true
	}
	return true
}

// advanceLevel moves to the next level. Board and score carry over.
func (g *Game) advanceLevel() {
	g.levelCleared = false
	g.levelClearTicks = 0

	if g.levelIndex >= len(g.levels)-1 {
		g.won = true
		return
	}

	g.levelIndex++
	g.loadLevel()
	g.session.SetSpawn4Odds(g.spawnOdds())

	if g.session.State() == StateTerminal {
		g.gameOver = true
	}
}

// Session exposes the underlying session.
func (g *Game) Session() *Session {
	return g.session
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	score := 0
	if g.session != nil {
		score = g.session.Score()
	}
	return core.GameState{
		Score:    score,
		GameOver: g.gameOver || g.won,
		Paused:   g.paused || g.tooSmall || g.levelCleared,
	}
}
