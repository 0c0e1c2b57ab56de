package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available boards",
	Long:  `Shows every registered 2048 board with its mode and size.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available boards:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, g := range games {
		if len(g.ID) > maxIDLen {
			maxIDLen = len(g.ID)
		}
	}

	fmt.Printf("  %-*s  %-9s  %-5s  %s\n", maxIDLen, "ID", "Mode", "Size", "Title")
	fmt.Printf("  %-*s  %-9s  %-5s  %s\n", maxIDLen, "--", "----", "----", "-----")

	for _, g := range games {
		mode, size := "-", "-"
		if v, ok := t2048.LookupVariant(g.ID); ok {
			mode = string(v.Mode)
			size = "cfg"
			if v.Size > 0 {
				size = fmt.Sprintf("%dx%d", v.Size, v.Size)
			}
		}
		fmt.Printf("  %-*s  %-9s  %-5s  %s\n", maxIDLen, g.ID, mode, size, g.Title)
	}

	fmt.Println()
	fmt.Println("Run 'arcade play <id>' to play a board.")
}
