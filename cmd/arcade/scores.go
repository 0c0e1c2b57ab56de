package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagScoresLimit int
	flagInteractive bool
	flagClear       bool
	flagAllBoards   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores for a board",
	Long: `Display the top high scores for the specified board (default 2048).

Examples:
  arcade scores
  arcade scores 2048_5x5 --limit 20
  arcade scores --limit 0    # every recorded score
  arcade scores --all        # summary of every board
  arcade scores -i           # browse every board in the scoreboard
  arcade scores 2048 --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of scores to show, 0 for all (env: ARCADE_LIMIT)")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Open the interactive scoreboard")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores of the board")
	scoresCmd.Flags().BoolVarP(&flagAllBoards, "all", "a", false, "Show a summary of every board")
}

func runScores(cmd *cobra.Command, args []string) error {
	gameID := "2048"
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q, run 'arcade list' to see available boards", gameID)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagInteractive {
		width, height := terminalSize()
		return tui.RunScoreboard(store, width, height)
	}

	if flagAllBoards {
		return printAllStats(store)
	}

	title := registry.Title(gameID)
	if flagClear {
		if err := store.ClearScores(gameID); err != nil {
			return err
		}
		fmt.Printf("Cleared scores for %s\n", title)
		return nil
	}

	var scores []storage.ScoreEntry
	if flagScoresLimit <= 0 {
		scores, err = store.AllScores(gameID)
	} else {
		scores, err = store.TopScores(gameID, flagScoresLimit)
	}
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'arcade play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "When")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")

	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10s  %s\n", i+1, humanize.Comma(int64(entry.Score)), humanize.Time(entry.CreatedAt))
	}

	stats, err := store.GetGameStats(gameID)
	if err == nil && stats.GamesCount > 0 {
		fmt.Println()
		fmt.Printf("Best: %s  Games: %s  Average: %s\n",
			humanize.Comma(int64(stats.HighScore)),
			humanize.Comma(int64(stats.GamesCount)),
			humanize.CommafWithDigits(stats.AvgScore, 0),
		)
	}
	return nil
}

func printAllStats(store *storage.Store) error {
	all, err := store.GetAllGamesStats()
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}
	if len(all) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	fmt.Printf("  %-18s  %-6s  %-10s  %-10s  %s\n", "Board", "Games", "Best", "Average", "Last played")
	fmt.Printf("  %-18s  %-6s  %-10s  %-10s  %s\n", "-----", "-----", "----", "-------", "-----------")
	for _, info := range registry.List() {
		gs, ok := all[info.ID]
		if !ok {
			continue
		}
		fmt.Printf("  %-18s  %-6s  %-10s  %-10s  %s\n",
			info.Title,
			humanize.Comma(int64(gs.GamesCount)),
			humanize.Comma(int64(gs.HighScore)),
			humanize.CommafWithDigits(gs.AvgScore, 0),
			humanize.Time(gs.LastPlayed),
		)
	}
	return nil
}
