package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

type screenID int

const (
	screenMenu screenID = iota
	screenMode
	screenScoreboard
	screenGame
)

// SessionModel manages the full arcade flow in one program:
// menu -> (mode selector) -> game -> menu, with the scoreboard one key away.
// Sub-models signal completion with tea.Quit; the session swallows those
// commands and switches screens instead.
type SessionModel struct {
	store  *storage.Store
	config core.RuntimeConfig

	screen     screenID
	menu       MenuModel
	mode       T2048ModeModel
	scoreboard ScoreboardModel
	game       *GameModel
	quitting   bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		store:  store,
		config: cfg,
		menu:   NewMenuModel(store, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenMode:
		return m.updateMode(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	case screenGame:
		return m.updateGame(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.game = nil
	m.menu = NewMenuModel(m.store, m.config)
	return m, m.menu.Init()
}

func (m SessionModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	switch {
	case m.menu.IsQuitting():
		return m.quit()
	case m.menu.WantsScoreboard():
		m.screen = screenScoreboard
		m.scoreboard = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		return m, m.scoreboard.Init()
	case m.menu.Selected() != nil:
		id := m.menu.Selected().GameID
		if id == "2048" {
			m.screen = screenMode
			m.mode = NewT2048ModeModel(m.config.ScreenW, m.config.ScreenH)
			return m, m.mode.Init()
		}
		return m.startGame(id, m.config)
	}
	return m, cmd
}

func (m SessionModel) updateMode(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.mode.Update(msg)
	if mode, ok := next.(T2048ModeModel); ok {
		m.mode = mode
	}

	switch {
	case m.mode.IsQuitting():
		return m.quit()
	case m.mode.WantsBack():
		return m.toMenu()
	case m.mode.Selected() != nil:
		sel := m.mode.Selected()
		cfg := m.config
		cfg.StartLevel = sel.Level
		cfg.Difficulty = string(sel.Difficulty)
		return m.startGame(sel.GameID, cfg)
	}
	return m, cmd
}

func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scoreboard.Update(msg)
	if sb, ok := next.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	switch {
	case m.scoreboard.IsQuitting():
		return m.quit()
	case m.scoreboard.IsGoingBack():
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) startGame(id string, cfg core.RuntimeConfig) (tea.Model, tea.Cmd) {
	game, err := registry.Create(id)
	if err != nil {
		// menu only lists registered games
		return m.toMenu()
	}

	cfg.Seed = time.Now().UnixNano()
	gm := NewGameModel(game, m.store, cfg)
	gm.embedded = true
	m.game = &gm
	m.screen = screenGame
	return m, m.game.Init()
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if gm, ok := next.(GameModel); ok {
		m.game = &gm
	}

	switch {
	case m.game.BackToMenu():
		return m.toMenu()
	case m.game.IsQuitting():
		return m.quit()
	}
	return m, cmd
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenMode:
		return m.mode.View()
	case screenScoreboard:
		return m.scoreboard.View()
	case screenGame:
		if m.game != nil {
			return m.game.View()
		}
	}
	return m.menu.View()
}

// RunSession runs the menu-driven session in the local terminal.
func RunSession(store *storage.Store, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewSessionModel(store, cfg),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
