// Package agent exposes 2048 games to language-model clients as MCP tools.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/sessions"
)

const (
	Name    = "arcade-2048"
	Version = "1.0.0"

	defaultScoreLimit = 10
)

const instructions = `2048 - MCP Interface

Slide numbered tiles on a square board. Equal tiles that collide merge into
their sum and add it to the score. After every move that changes the board a
new tile (2, sometimes 4) appears on an empty cell. The game ends when no move
can change the board.

TOOLS:
- new_game: start a game, returns its game_id
- move: slide the board up/down/left/right
- state: show the board of a game
- reset: restart a game under the same game_id
- best_scores: list recorded high scores for a variant

A move that changes nothing is accepted but does not spawn a tile.`

// Agent serves MCP tools backed by a sessions.Manager.
type Agent struct {
	manager *sessions.Manager
	srv     *server.MCPServer
	logger  *log.Logger
}

// New creates an agent and registers its tools.
func New(manager *sessions.Manager, logger *log.Logger) *Agent {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	a := &Agent{
		manager: manager,
		logger:  logger,
		srv: server.NewMCPServer(
			Name,
			Version,
			server.WithToolCapabilities(true),
			server.WithInstructions(instructions),
		),
	}
	a.registerTools()
	return a
}

// MCPServer returns the underlying MCP server.
func (a *Agent) MCPServer() *server.MCPServer {
	return a.srv
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects.
func (a *Agent) ServeStdio() error {
	return server.ServeStdio(a.srv)
}

// ServeHTTP handles one JSON-RPC message per POST request.
func (a *Agent) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "cannot read request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	response := a.srv.HandleMessage(r.Context(), body)
	w.Header().Set("Content-Type", "application/json")
	if response == nil {
		// Notifications carry no reply.
		w.WriteHeader(http.StatusAccepted)
		return
	}
	data, err := json.Marshal(response)
	if err != nil {
		http.Error(w, "cannot encode response", http.StatusInternalServerError)
		return
	}
	w.Write(data)
}

func (a *Agent) registerTools() {
	variantIDs := make([]string, 0, len(t2048.Variants))
	for _, v := range t2048.Variants {
		variantIDs = append(variantIDs, v.ID)
	}
	gameIDProp := map[string]interface{}{
		"type":        "string",
		"description": "Game ID returned by new_game",
	}

	a.srv.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new 2048 game and return its board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"variant": map[string]interface{}{
					"type":        "string",
					"description": "Board variant (default 2048)",
					"enum":        variantIDs,
				},
			},
		},
	}, a.handleNewGame)

	a.srv.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Slide every tile in one direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProp,
				"direction": map[string]interface{}{
					"type":        "string",
					"description": "Direction to slide",
					"enum":        []string{"up", "down", "left", "right"},
				},
			},
			Required: []string{"game_id", "direction"},
		},
	}, a.handleMove)

	a.srv.AddTool(mcp.Tool{
		Name:        "state",
		Description: "Show the current board, score and status of a game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProp,
			},
			Required: []string{"game_id"},
		},
	}, a.handleState)

	a.srv.AddTool(mcp.Tool{
		Name:        "reset",
		Description: "Restart a game with a fresh board, keeping its best score",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProp,
			},
			Required: []string{"game_id"},
		},
	}, a.handleReset)

	a.srv.AddTool(mcp.Tool{
		Name:        "best_scores",
		Description: "List the best recorded scores of a variant",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"variant": map[string]interface{}{
					"type":        "string",
					"description": "Board variant (default 2048)",
					"enum":        variantIDs,
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "How many scores to return (default 10)",
				},
			},
		},
	}, a.handleBestScores)
}

// arguments returns the tool call arguments as a map; a missing map is empty.
func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func stringArg(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return strings.TrimSpace(s)
}

func (a *Agent) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	variant := stringArg(arguments(request), "variant")

	id, snap, err := a.manager.Create(variant)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	a.logger.Info("agent started game", "id", id, "variant", snap.GameID)
	return mcp.NewToolResultText(fmt.Sprintf("Created game %s\n\n%s", id, formatSnapshot(snap))), nil
}

func (a *Agent) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	id := stringArg(args, "game_id")
	if id == "" {
		return mcp.NewToolResultError("game_id is required"), nil
	}
	dir, err := t2048.ParseDirection(stringArg(args, "direction"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, snap, err := a.manager.Move(id, dir)
	if errors.Is(err, t2048.ErrSessionOver) {
		return mcp.NewToolResultError("game is over, call reset to play again\n\n" + formatSnapshot(snap)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	switch {
	case !out.Changed:
		fmt.Fprintf(&b, "Move %s changed nothing; no tile spawned.\n\n", dir)
	case out.ScoreDelta > 0:
		fmt.Fprintf(&b, "Moved %s, merged for +%d.\n\n", dir, out.ScoreDelta)
	default:
		fmt.Fprintf(&b, "Moved %s.\n\n", dir)
	}
	b.WriteString(formatSnapshot(snap))
	return mcp.NewToolResultText(b.String()), nil
}

func (a *Agent) handleState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := stringArg(arguments(request), "game_id")
	if id == "" {
		return mcp.NewToolResultError("game_id is required"), nil
	}
	snap, err := a.manager.State(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSnapshot(snap)), nil
}

func (a *Agent) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := stringArg(arguments(request), "game_id")
	if id == "" {
		return mcp.NewToolResultError("game_id is required"), nil
	}
	snap, err := a.manager.Reset(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Game reset.\n\n" + formatSnapshot(snap)), nil
}

func (a *Agent) handleBestScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	variant := stringArg(args, "variant")
	if variant == "" {
		variant = t2048.Variants[0].ID
	}
	limit := defaultScoreLimit
	if n, ok := args["limit"].(float64); ok && n >= 1 {
		limit = int(n)
	}

	scores, err := a.manager.BestScores(variant, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(scores) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No scores recorded for %s yet.", variant)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Best scores for %s:\n", variant)
	for i, s := range scores {
		fmt.Fprintf(&b, "%2d. %s (%s)\n", i+1, humanize.Comma(int64(s.Score)), humanize.Time(s.CreatedAt))
	}
	return mcp.NewToolResultText(b.String()), nil
}

// formatSnapshot renders a board as plain text for the model.
func formatSnapshot(snap t2048.SessionSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Variant: %s  Size: %dx%d\n", snap.GameID, snap.Size, snap.Size)
	fmt.Fprintf(&b, "Score: %d  Best: %d  Moves: %d  Max tile: %d\n", snap.Score, snap.Best, snap.Moves, snap.MaxTile)
	status := "in progress"
	if snap.State == t2048.StateTerminal {
		status = "game over (no move changes the board)"
	}
	fmt.Fprintf(&b, "Status: %s\n\n", status)
	b.WriteString(t2048.Grid(snap.Grid).String())
	b.WriteString("\n")
	return b.String()
}
