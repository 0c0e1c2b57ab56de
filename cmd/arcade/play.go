package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagLevel      int
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play a board",
	Long: `Start playing the specified board (default 2048).

Playing plain 2048 without --level or --difficulty opens the mode
selector first: campaign, endless, level select and difficulty.

Controls:
  Arrows/WASD/HJKL - Slide tiles
  P/Space          - Pause
  R                - Restart
  Esc/B            - Pause, or leave after game over
  Ctrl+S           - Save a text screenshot
  Q/Ctrl+C         - Quit

Difficulty options (spawn odds of 4-tiles):
  easy   - Fewer 4s, the campaign ramps slowly
  normal - Configured odds
  hard   - More 4s from the first level
  fixed  - First level odds for the whole campaign

Examples:
  arcade play
  arcade play 2048_endless
  arcade play 2048 --level 3 --difficulty hard
  arcade play 2048_6x6 --config ./my-2048.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom 2048 config YAML (env: ARCADE_CONFIG)")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed (env: ARCADE_DIFFICULTY)")
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Campaign level to start at, 1-based (env: ARCADE_LEVEL)")
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

func runPlay(cmd *cobra.Command, args []string) error {
	gameID := t2048.Variants[0].ID
	if len(args) == 1 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q, run 'arcade list' to see available boards", gameID)
	}
	if _, ok := config.ParseDifficultyPreset(flagDifficulty); !ok {
		return fmt.Errorf("unknown difficulty %q, want easy, normal, hard or fixed", flagDifficulty)
	}
	if flagLevel < 0 || flagLevel > t2048.LevelCount() {
		return fmt.Errorf("level must be between 1 and %d", t2048.LevelCount())
	}
	if flagConfig != "" {
		if _, err := config.LoadT2048(flagConfig); err != nil {
			return err
		}
	}

	width, height := terminalSize()
	cfg := core.RuntimeConfig{
		ScreenW:    width,
		ScreenH:    height,
		TickRate:   flagFPS,
		Seed:       flagSeed,
		ConfigPath: flagConfig,
		Difficulty: flagDifficulty,
		StartLevel: flagLevel,
	}

	flags := cmd.Flags()
	if gameID == t2048.Variants[0].ID && !flags.Changed("level") && !flags.Changed("difficulty") {
		selection, err := tui.RunT2048ModeSelector(width, height)
		if err != nil {
			return err
		}
		// User pressed back or quit
		if selection == nil {
			return nil
		}
		gameID = selection.GameID
		cfg.StartLevel = selection.Level
		cfg.Difficulty = string(selection.Difficulty)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		// Continue without storage - the game still works
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	if err := tui.Run(game, store, cfg); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
