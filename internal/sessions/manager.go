// Package sessions keeps the live 2048 sessions played over the network.
// The web server and the MCP agent share one Manager; every accepted move is
// persisted so a session can be resumed by ID after a restart.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	ErrNotFound       = errors.New("sessions: game not found")
	ErrUnknownVariant = errors.New("sessions: unknown variant")
)

// Options configures a Manager.
type Options struct {
	// BoardSize is used by variants without a fixed size. Zero means t2048.DefaultSize.
	BoardSize int
	// Spawn4Odds is the chance a new tile is a 4 on campaign boards.
	// Zero means t2048.DefaultSpawn4Odds; t2048.NeverFour disables 4s.
	Spawn4Odds float64
	// EndlessSpawn4Odds is the same for endless-mode variants.
	EndlessSpawn4Odds float64
	// IdleTTL evicts sessions not touched for this long. Zero disables eviction.
	IdleTTL time.Duration
	// Seed feeds the per-session random sources. Zero means the current time.
	Seed   int64
	Logger *log.Logger
}

// DefaultOptions returns the options used by `arcade web` and `arcade mcp`.
func DefaultOptions() Options {
	return Options{
		BoardSize: t2048.DefaultSize,
		IdleTTL:   24 * time.Hour,
	}
}

// Update is delivered to subscribers after every change to a game.
type Update struct {
	ID       string                `json:"id"`
	Event    string                `json:"event"`
	Snapshot t2048.SessionSnapshot `json:"game"`
	Outcome  *t2048.MoveOutcome    `json:"-"`
}

// Manager owns the live sessions, keyed by a random ID.
type Manager struct {
	mu    sync.RWMutex
	games map[string]*entry

	store  *storage.Store
	opts   Options
	logger *log.Logger

	seedMu sync.Mutex
	seeds  *rand.Rand

	subMu sync.RWMutex
	subs  []func(Update)
}

type entry struct {
	session  *t2048.Session
	variant  t2048.Variant
	lastSeen time.Time
}

// NewManager creates a manager. store may be nil, in which case games live
// only in memory and final scores are not recorded.
func NewManager(store *storage.Store, opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "arcade-sessions",
		})
	}
	if opts.BoardSize < t2048.MinSize {
		opts.BoardSize = t2048.DefaultSize
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Manager{
		games:  make(map[string]*entry),
		store:  store,
		opts:   opts,
		logger: opts.Logger,
		seeds:  rand.New(rand.NewSource(seed)),
	}
}

// Subscribe registers fn to receive every Update. fn must not block.
func (m *Manager) Subscribe(fn func(Update)) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	m.subs = append(m.subs, fn)
}

func (m *Manager) publish(u Update) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()
	for _, fn := range m.subs {
		fn(u)
	}
}

func (m *Manager) nextRand() t2048.Rand {
	m.seedMu.Lock()
	defer m.seedMu.Unlock()
	return rand.New(rand.NewSource(m.seeds.Int63()))
}

func (m *Manager) newSession(v t2048.Variant, size int) (*t2048.Session, error) {
	if size == 0 {
		size = v.Size
	}
	if size == 0 {
		size = m.opts.BoardSize
	}
	opts := t2048.SessionOptions{
		GameID:     v.ID,
		Size:       size,
		Spawn4Odds: m.spawnOdds(v),
		Rand:       m.nextRand(),
	}
	if m.store != nil {
		opts.Recorder = m.store
	}
	return t2048.NewSession(opts)
}

func (m *Manager) spawnOdds(v t2048.Variant) float64 {
	if v.Mode == t2048.ModeEndless {
		return m.opts.EndlessSpawn4Odds
	}
	return m.opts.Spawn4Odds
}

// Create starts a new game of the given variant. An empty variant means "2048".
func (m *Manager) Create(variantID string) (string, t2048.SessionSnapshot, error) {
	if variantID == "" {
		variantID = t2048.Variants[0].ID
	}
	v, ok := t2048.LookupVariant(variantID)
	if !ok {
		return "", t2048.SessionSnapshot{}, fmt.Errorf("%w: %q", ErrUnknownVariant, variantID)
	}

	sess, err := m.newSession(v, 0)
	if err != nil {
		return "", t2048.SessionSnapshot{}, fmt.Errorf("sessions: cannot create game: %w", err)
	}

	id := uuid.NewString()
	m.mu.Lock()
	m.games[id] = &entry{session: sess, variant: v, lastSeen: time.Now()}
	m.mu.Unlock()

	snap := sess.Snapshot()
	m.persist(id, snap)
	m.logger.Info("game created", "id", id, "variant", v.ID, "size", sess.Size())
	m.publish(Update{ID: id, Event: "created", Snapshot: snap})
	return id, snap, nil
}

// lookup returns the live entry for id, resuming it from storage if needed.
func (m *Manager) lookup(id string) (*entry, error) {
	m.mu.RLock()
	e, ok := m.games[id]
	m.mu.RUnlock()
	if ok {
		m.touch(e)
		return e, nil
	}

	if m.store == nil {
		return nil, ErrNotFound
	}
	saved, err := m.store.LoadGame(id)
	if errors.Is(err, storage.ErrGameNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sessions: cannot load game %s: %w", id, err)
	}

	v, ok := t2048.LookupVariant(saved.Snapshot.GameID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, saved.Snapshot.GameID)
	}
	sess, err := m.newSession(v, saved.Snapshot.Size)
	if err != nil {
		return nil, fmt.Errorf("sessions: cannot resume game %s: %w", id, err)
	}
	if err := sess.Restore(saved.Snapshot); err != nil {
		return nil, fmt.Errorf("sessions: cannot resume game %s: %w", id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request may have resumed it first.
	if existing, ok := m.games[id]; ok {
		existing.lastSeen = time.Now()
		return existing, nil
	}
	e = &entry{session: sess, variant: v, lastSeen: time.Now()}
	m.games[id] = e
	m.logger.Info("game resumed", "id", id, "variant", v.ID, "score", saved.Snapshot.Score)
	return e, nil
}

func (m *Manager) touch(e *entry) {
	m.mu.Lock()
	e.lastSeen = time.Now()
	m.mu.Unlock()
}

func (m *Manager) persist(id string, snap t2048.SessionSnapshot) {
	if m.store == nil {
		return
	}
	if err := m.store.SaveGame(id, snap); err != nil {
		m.logger.Warn("cannot save game", "id", id, "err", err)
	}
}

// State returns the current snapshot of a game.
func (m *Manager) State(id string) (t2048.SessionSnapshot, error) {
	e, err := m.lookup(id)
	if err != nil {
		return t2048.SessionSnapshot{}, err
	}
	return e.session.Snapshot(), nil
}

// Move applies one move. Moves on a finished game return t2048.ErrSessionOver.
func (m *Manager) Move(id string, dir t2048.Direction) (t2048.MoveOutcome, t2048.SessionSnapshot, error) {
	e, err := m.lookup(id)
	if err != nil {
		return t2048.MoveOutcome{}, t2048.SessionSnapshot{}, err
	}

	out, err := e.session.Move(dir)
	snap := e.session.Snapshot()
	if err != nil {
		return out, snap, err
	}
	if !out.Changed {
		return out, snap, nil
	}

	m.persist(id, snap)
	event := "moved"
	if out.State == t2048.StateTerminal {
		event = "game_over"
		m.logger.Info("game over", "id", id, "variant", e.variant.ID, "score", snap.Score, "max_tile", snap.MaxTile)
	}
	m.publish(Update{ID: id, Event: event, Snapshot: snap, Outcome: &out})
	return out, snap, nil
}

// Reset restarts a game in place, keeping its ID and best score.
func (m *Manager) Reset(id string) (t2048.SessionSnapshot, error) {
	e, err := m.lookup(id)
	if err != nil {
		return t2048.SessionSnapshot{}, err
	}
	e.session.Reset()
	snap := e.session.Snapshot()
	m.persist(id, snap)
	m.publish(Update{ID: id, Event: "reset", Snapshot: snap})
	return snap, nil
}

// Delete forgets a game, both in memory and in storage.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	_, live := m.games[id]
	delete(m.games, id)
	m.mu.Unlock()

	if m.store == nil {
		if !live {
			return ErrNotFound
		}
		return nil
	}
	if !live {
		if _, err := m.store.LoadGame(id); errors.Is(err, storage.ErrGameNotFound) {
			return ErrNotFound
		}
	}
	if err := m.store.DeleteGame(id); err != nil {
		return fmt.Errorf("sessions: cannot delete game %s: %w", id, err)
	}
	return nil
}

// Len returns the number of games held in memory.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// BestScores returns the top recorded scores for a variant.
func (m *Manager) BestScores(variantID string, limit int) ([]storage.ScoreEntry, error) {
	if _, ok := t2048.LookupVariant(variantID); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variantID)
	}
	if m.store == nil {
		return nil, nil
	}
	return m.store.TopScores(variantID, limit)
}

// Stats returns score statistics for every variant that has finished games,
// in variant order.
func (m *Manager) Stats() ([]storage.GameStats, error) {
	if m.store == nil {
		return nil, nil
	}
	all, err := m.store.GetAllGamesStats()
	if err != nil {
		return nil, err
	}
	var out []storage.GameStats
	for _, v := range t2048.Variants {
		if gs, ok := all[v.ID]; ok {
			out = append(out, *gs)
		}
	}
	return out, nil
}

// Reap evicts games idle since before now-IdleTTL and prunes saved games of
// the same age. It returns the number of games evicted from memory.
func (m *Manager) Reap(now time.Time) int {
	if m.opts.IdleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-m.opts.IdleTTL)

	m.mu.Lock()
	evicted := 0
	for id, e := range m.games {
		if e.lastSeen.Before(cutoff) {
			delete(m.games, id)
			evicted++
		}
	}
	m.mu.Unlock()

	if m.store != nil {
		pruned, err := m.store.PruneGames(cutoff)
		if err != nil {
			m.logger.Warn("cannot prune saved games", "err", err)
		} else if pruned > 0 {
			m.logger.Debug("pruned saved games", "count", pruned)
		}
	}
	if evicted > 0 {
		m.logger.Info("evicted idle games", "count", evicted)
	}
	return evicted
}

// RunReaper calls Reap every interval until ctx is cancelled.
func (m *Manager) RunReaper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || m.opts.IdleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Reap(now)
		}
	}
}
