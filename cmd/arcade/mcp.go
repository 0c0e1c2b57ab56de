package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/agent"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve 2048 as MCP tools over stdio",
	Long: `Run an MCP server on stdin/stdout so an assistant can play.

Tools: new_game, move, state, reset, best_scores.
Games are saved in the scores database and can be resumed by id,
including games started through 'arcade web'.

Example client entry:
  {"command": "arcade", "args": ["mcp"]}`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom 2048 config YAML (env: ARCADE_CONFIG)")
}

func runMCP(_ *cobra.Command, _ []string) error {
	// stdout carries the protocol; all logging goes to stderr.
	logger := newLogger("arcade-mcp")

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("games will not be saved", "db", flagDBPath, "err", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	// No reaper: the process lives as long as one client session.
	manager, err := newManager(store, 0)
	if err != nil {
		return err
	}

	logger.Debug("serving MCP over stdio")
	return agent.New(manager, logger).ServeStdio()
}
