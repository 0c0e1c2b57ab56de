package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/agent"
	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/sessions"
	"github.com/vovakirdan/tui-2048/internal/storage"
	"github.com/vovakirdan/tui-2048/internal/web"
)

var (
	flagBind           string
	flagPort           int
	flagPublicURL      string
	flagSessionTimeout time.Duration
	flagNoMCP          bool
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the HTTP game server",
	Long: `Serve 2048 over HTTP.

Endpoints:
  POST /api/games               create a game ({"variant": "2048_5x5"})
  GET  /api/games/:id           board, score and state
  POST /api/games/:id/move      {"direction": "left"}
  POST /api/games/:id/reset     restart under the same id
  GET  /api/games/:id/ws        websocket feed of every change
  GET  /api/games/:id/qr        QR code linking to the game
  GET  /api/scores/:game        best scores of a board
  GET  /api/stats               games, best and average per board
  POST /mcp                     MCP JSON-RPC endpoint

Games are saved after every move and resumed by id after a restart.

Examples:
  arcade web
  arcade web --port 9000 --public-url https://2048.example.org`,
	Args: cobra.NoArgs,
	RunE: runWeb,
}

func init() {
	defaults := web.DefaultConfig()
	webCmd.Flags().StringVarP(&flagBind, "bind", "b", defaults.Bind, "Address to bind to (env: ARCADE_BIND)")
	webCmd.Flags().IntVarP(&flagPort, "port", "p", defaults.Port, "Port to listen on (env: ARCADE_PORT)")
	webCmd.Flags().StringVar(&flagPublicURL, "public-url", "", "Base URL used in QR codes (env: ARCADE_PUBLIC_URL)")
	webCmd.Flags().DurationVar(&flagSessionTimeout, "session-timeout", sessions.DefaultOptions().IdleTTL, "Idle time before a game is dropped (env: ARCADE_SESSION_TIMEOUT)")
	webCmd.Flags().BoolVar(&flagNoMCP, "no-mcp", false, "Do not expose the /mcp endpoint (env: ARCADE_NO_MCP)")
	webCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom 2048 config YAML (env: ARCADE_CONFIG)")
}

// newManager builds the session manager shared by `web` and `mcp`.
func newManager(store *storage.Store, idle time.Duration) (*sessions.Manager, error) {
	gameCfg, err := config.LoadT2048(flagConfig)
	if err != nil {
		return nil, err
	}

	opts := sessions.DefaultOptions()
	opts.BoardSize = gameCfg.Board.Size
	opts.Spawn4Odds = t2048.OddsOption(gameCfg.Board.Spawn4Odds)
	opts.EndlessSpawn4Odds = t2048.OddsOption(gameCfg.Endless.Spawn4Odds)
	opts.IdleTTL = idle
	opts.Seed = flagSeed
	opts.Logger = newLogger("arcade-sessions")
	return sessions.NewManager(store, opts), nil
}

func runWeb(_ *cobra.Command, _ []string) error {
	if flagPort < 1 || flagPort > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", flagPort)
	}
	logger := newLogger("arcade-web")

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	manager, err := newManager(store, flagSessionTimeout)
	if err != nil {
		return err
	}

	cfg := web.Config{Bind: flagBind, Port: flagPort, PublicURL: flagPublicURL}
	server := web.NewServer(cfg, manager, logger)
	if !flagNoMCP {
		server.MountMCP(agent.New(manager, newLogger("arcade-mcp")))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go manager.RunReaper(ctx, time.Minute)

	err = server.ListenAndServe(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
