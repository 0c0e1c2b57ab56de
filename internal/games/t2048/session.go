package t2048

import (
	"errors"
	"fmt"
	"sync"
)

// ErrSessionOver is returned when a move is attempted after the board locked up.
var ErrSessionOver = errors.New("t2048: session is over")

// SessionState is the lifecycle state of a session.
type SessionState string

const (
	StateActive   SessionState = "active"
	StateTerminal SessionState = "terminal"
)

// ScoreRecorder persists final scores and provides the best score per game.
// storage.Store implements it.
type ScoreRecorder interface {
	HighScore(gameID string) (int, error)
	SaveScore(gameID string, score int) (int64, error)
}

// SessionOptions configures a new Session.
type SessionOptions struct {
	GameID     string
	Size       int     // 0 means DefaultSize
	Spawn4Odds float64 // 0 means DefaultSpawn4Odds, NeverFour means only 2s
	Rand       Rand
	Recorder   ScoreRecorder // optional
}

// MoveOutcome describes the effect of one accepted move on a session.
type MoveOutcome struct {
	Direction  Direction
	ScoreDelta int
	Changed    bool
	Spawned    *Cell // nil when no tile was spawned
	State      SessionState
	NewBest    bool
}

// Session owns the authoritative grid, score and best score of one game.
// Moves are applied one at a time; each accepted move is followed by a spawn
// before the next move is considered.
type Session struct {
	mu sync.Mutex

	gameID     string
	size       int
	spawn4Odds float64
	rng        Rand
	recorder   ScoreRecorder

	grid     Grid
	score    int
	best     int
	moves    int
	history  []Direction
	state    SessionState
	recorded bool
}

// NewSession creates a session and deals the two opening tiles.
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.Rand == nil {
		return nil, errors.New("t2048: session needs a random source")
	}
	size := opts.Size
	if size == 0 {
		size = DefaultSize
	}
	if size < MinSize {
		return nil, fmt.Errorf("t2048: invalid board size %d: %w", size, ErrGridTooSmall)
	}
	s := &Session{
		gameID:     opts.GameID,
		size:       size,
		spawn4Odds: resolveOdds(opts.Spawn4Odds),
		rng:        opts.Rand,
		recorder:   opts.Recorder,
	}

	if s.recorder != nil && s.gameID != "" {
		if best, err := s.recorder.HighScore(s.gameID); err == nil {
			s.best = best
		}
	}

	s.resetLocked()
	return s, nil
}

// resetLocked clears the board and deals two tiles. Caller holds mu.
func (s *Session) resetLocked() {
	s.grid = NewGrid(s.size)
	s.score = 0
	s.moves = 0
	s.history = nil
	s.state = StateActive
	s.recorded = false

	s.spawnLocked()
	s.spawnLocked()
}

func (s *Session) spawnLocked() *Cell {
	grid, cell, err := SpawnTileOdds(s.grid, s.rng, s.spawn4Odds)
	if err != nil {
		return nil
	}
	s.grid = grid
	return &cell
}

// Reset starts a fresh game. The best score is kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// SetSpawn4Odds changes the spawn odds for subsequent tiles. p is a plain
// probability; 0 means no 4s.
func (s *Session) SetSpawn4Odds(p float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spawn4Odds = p
}

// Move applies one move. A move that changes nothing is accepted but has no
// effect: no spawn, no score, not counted.
func (s *Session) Move(dir Direction) (MoveOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminal {
		return MoveOutcome{Direction: dir, State: s.state}, ErrSessionOver
	}

	res := ApplyMove(s.grid, dir)
	out := MoveOutcome{Direction: dir, State: s.state}
	if !res.Changed {
		return out, nil
	}

	s.grid = res.Grid
	s.score += res.ScoreDelta
	s.moves++
	s.history = append(s.history, dir)
	if s.score > s.best {
		s.best = s.score
		out.NewBest = true
	}

	out.Changed = true
	out.ScoreDelta = res.ScoreDelta
	out.Spawned = s.spawnLocked()

	if IsTerminal(s.grid) {
		s.state = StateTerminal
		s.recordLocked()
	}
	out.State = s.state

	return out, nil
}

// recordLocked saves the final score once per game.
func (s *Session) recordLocked() {
	if s.recorded || s.recorder == nil || s.gameID == "" || s.score == 0 {
		return
	}
	s.recorded = true
	//nolint:errcheck // Best-effort save, the session is over either way
	s.recorder.SaveScore(s.gameID, s.score)
}

// Grid returns a copy of the current board.
func (s *Session) Grid() Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Clone()
}

// Score returns the running score.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Best returns the best score seen by this session, including stored ones.
func (s *Session) Best() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.best
}

// State returns the lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Moves returns the number of accepted moves.
func (s *Session) Moves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moves
}

// History returns the accepted moves in order.
func (s *Session) History() []Direction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Direction(nil), s.history...)
}

// GameID returns the identifier scores are recorded under.
func (s *Session) GameID() string {
	return s.gameID
}

// Size returns the board dimension.
func (s *Session) Size() int {
	return s.size
}

// SessionSnapshot is the serializable state of a session.
type SessionSnapshot struct {
	GameID  string       `json:"game_id"`
	Size    int          `json:"size"`
	Grid    [][]int      `json:"grid"`
	Score   int          `json:"score"`
	Best    int          `json:"best"`
	Moves   int          `json:"moves"`
	MaxTile int          `json:"max_tile"`
	State   SessionState `json:"state"`
}

// Snapshot captures the session for rendering or persistence.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionSnapshot{
		GameID:  s.gameID,
		Size:    s.size,
		Grid:    s.grid.Clone(),
		Score:   s.score,
		Best:    s.best,
		Moves:   s.moves,
		MaxTile: s.grid.MaxTile(),
		State:   s.state,
	}
}

// Restore replaces the session state with a previously taken snapshot.
// History is not part of a snapshot and starts empty.
func (s *Session) Restore(snap SessionSnapshot) error {
	grid, err := GridFromRows(snap.Grid)
	if err != nil {
		return fmt.Errorf("t2048: cannot restore session: %w", err)
	}
	if grid.Size() != s.size {
		return fmt.Errorf("t2048: cannot restore %dx%d board into %dx%d session", grid.Size(), grid.Size(), s.size, s.size)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.grid = grid
	s.score = snap.Score
	s.best = max(s.best, snap.Best, snap.Score)
	s.moves = snap.Moves
	s.history = nil
	s.state = StateActive
	s.recorded = snap.State == StateTerminal
	if IsTerminal(grid) {
		s.state = StateTerminal
	}
	return nil
}
