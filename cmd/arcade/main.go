// arcade is a terminal 2048 arcade: play locally, host it over SSH or HTTP,
// or let an MCP client play it.
//
// Usage:
//
//	arcade list              - List available boards
//	arcade play [game]       - Play a board (default 2048)
//	arcade menu              - Start menu to pick boards interactively
//	arcade serve             - Start SSH server for remote play
//	arcade web               - Start the HTTP/websocket game server
//	arcade mcp               - Serve MCP tools over stdio
//	arcade scores <game>     - Show high scores for a board
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.arcade/scores.db)
//	--verbose       - Debug logging
//
// Every flag can also be set through an ARCADE_ environment variable,
// e.g. ARCADE_DB or ARCADE_IDLE_TIMEOUT.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	// Register the 2048 boards
	_ "github.com/vovakirdan/tui-2048/internal/games/t2048"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "2048 in your terminal, over SSH, HTTP and MCP",
	Long: `arcade is a 2048 game: slide the tiles, merge equal numbers and reach
the target tile before the board locks up.

Available commands:
  list     - Show all boards
  play     - Play a board directly
  menu     - Interactive picker menu
  serve    - Start SSH server for remote play
  web      - Start the HTTP API with websocket updates
  mcp      - Let an MCP client play over stdio
  scores   - View high scores

Examples:
  arcade play
  arcade play 2048_5x5 --difficulty hard
  arcade menu
  arcade serve --ssh :2222
  arcade web --port 8048
  arcade scores 2048`,
	SilenceUsage:      true,
	PersistentPreRunE: applyEnv,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second) (env: ARCADE_FPS)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed, 0 = random based on time (env: ARCADE_SEED)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to scores database (env: ARCADE_DB)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging (env: ARCADE_VERBOSE)")

	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(scoresCmd)
}

// applyEnv fills every flag the user did not set from its ARCADE_ variable.
func applyEnv(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	v.SetEnvPrefix("ARCADE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var firstErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("invalid value for ARCADE_%s: %w", strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_")), err)
		}
	})
	return firstErr
}

// newLogger returns the stderr logger shared by the server commands.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
