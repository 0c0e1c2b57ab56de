package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// T2048Selection holds the user's choice from the 2048 mode selector.
type T2048Selection struct {
	GameID     string // "2048" or "2048_endless"
	Level      int    // 0 = start from the beginning, otherwise 1-based
	Difficulty config.DifficultyPreset
}

var difficultyOrder = []config.DifficultyPreset{
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
	config.DifficultyFixed,
}

const (
	modeCampaign = iota
	modeEndless
	modeSelectLevel
	modeDifficulty
	modeOptionCount
)

// T2048ModeModel lets users choose game mode, starting level and difficulty.
type T2048ModeModel struct {
	cursor        int
	levelCursor   int
	difficulty    int
	inLevelSelect bool
	width         int
	height        int
	keyMapper     *KeyMapper
	selection     *T2048Selection
	quitting      bool
	back          bool
}

// NewT2048ModeModel creates a new 2048 mode selection model.
func NewT2048ModeModel(width, height int) T2048ModeModel {
	return T2048ModeModel{
		difficulty: 1, // normal
		width:      width,
		height:     height,
		keyMapper:  NewKeyMapper(),
	}
}

// Init initializes the model.
func (m T2048ModeModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m T2048ModeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		action := m.keyMapper.MapKeyToMenuAction(msg)
		if m.inLevelSelect {
			return m.handleLevelSelectKey(action)
		}
		return m.handleModeSelectKey(action)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m T2048ModeModel) choose(gameID string, level int) (tea.Model, tea.Cmd) {
	m.selection = &T2048Selection{
		GameID:     gameID,
		Level:      level,
		Difficulty: difficultyOrder[m.difficulty],
	}
	return m, tea.Quit
}

func (m T2048ModeModel) handleModeSelectKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < modeOptionCount-1 {
			m.cursor++
		}
	case MenuActionLeft:
		if m.cursor == modeDifficulty {
			m.difficulty = (m.difficulty + len(difficultyOrder) - 1) % len(difficultyOrder)
		}
	case MenuActionRight:
		if m.cursor == modeDifficulty {
			m.difficulty = (m.difficulty + 1) % len(difficultyOrder)
		}
	case MenuActionSelect:
		switch m.cursor {
		case modeCampaign:
			return m.choose("2048", 0)
		case modeEndless:
			return m.choose("2048_endless", 0)
		case modeSelectLevel:
			m.inLevelSelect = true
			m.levelCursor = 0
		case modeDifficulty:
			m.difficulty = (m.difficulty + 1) % len(difficultyOrder)
		}
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}
	return m, nil
}

func (m T2048ModeModel) handleLevelSelectKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.levelCursor > 0 {
			m.levelCursor--
		}
	case MenuActionDown:
		if m.levelCursor < t2048.LevelCount()-1 {
			m.levelCursor++
		}
	case MenuActionSelect:
		return m.choose("2048", m.levelCursor+1)
	case MenuActionBack:
		m.inLevelSelect = false
	}
	return m, nil
}

// View renders the mode/level selection.
func (m T2048ModeModel) View() string {
	if m.quitting {
		return ""
	}
	if m.inLevelSelect {
		return m.viewLevelSelect()
	}
	return m.viewModeSelect()
}

func (m T2048ModeModel) viewModeSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerStyled(menuTitleStyle, "2 0 4 8", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select game mode:", m.width))
	b.WriteString("\n\n")

	options := []string{
		fmt.Sprintf("Campaign (%d levels)", t2048.LevelCount()),
		"Endless Mode",
		"Select Level...",
		fmt.Sprintf("Difficulty: < %s >", difficultyOrder[m.difficulty]),
	}

	for i, opt := range options {
		if i == m.cursor {
			b.WriteString(centerStyled(menuCursorStyle, "> "+opt, m.width))
		} else {
			b.WriteString(centerText("  "+opt, m.width))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerStyled(menuHintStyle, "Enter: Select  |  Left/Right: Difficulty  |  Esc: Back", m.width))

	return b.String()
}

func (m T2048ModeModel) viewLevelSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerStyled(menuTitleStyle, "SELECT LEVEL", m.width))
	b.WriteString("\n\n")

	targets := t2048.LevelTargets()
	for i, name := range t2048.LevelNames() {
		line := fmt.Sprintf("%2d. %s (Target: %d)", i+1, name, targets[i])
		if i == m.levelCursor {
			b.WriteString(centerStyled(menuCursorStyle, "> "+line, m.width))
		} else {
			b.WriteString(centerText("  "+line, m.width))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerStyled(menuHintStyle, "Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m T2048ModeModel) Selected() *T2048Selection {
	return m.selection
}

// IsQuitting returns true if user wants to quit.
func (m T2048ModeModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m T2048ModeModel) WantsBack() bool {
	return m.back
}

// RunT2048ModeSelector shows the mode selector on its own. It returns nil
// when the user backs out or quits.
func RunT2048ModeSelector(width, height int) (*T2048Selection, error) {
	p := tea.NewProgram(NewT2048ModeModel(width, height), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("tui: mode selector: %w", err)
	}
	m, ok := final.(T2048ModeModel)
	if !ok {
		return nil, nil
	}
	return m.Selected(), nil
}
