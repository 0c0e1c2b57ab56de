// Package web serves 2048 games over HTTP: a JSON API for moves, a websocket
// feed for watchers and a QR code that links a phone to a running game.
package web

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/sessions"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

const (
	timeout      = 10 * time.Second
	qrSize       = 320
	defaultLimit = 10
	maxLimit     = 100
)

// Config holds the HTTP listener settings.
type Config struct {
	Bind string
	Port int
	// PublicURL is the base URL put into QR codes. Empty derives it from the request.
	PublicURL string
}

// DefaultConfig returns the settings used by `arcade web`.
func DefaultConfig() Config {
	return Config{
		Bind: "0.0.0.0",
		Port: 8048,
	}
}

// Addr returns the host:port to listen on.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}

// Server is the HTTP front end of a sessions.Manager.
type Server struct {
	cfg     Config
	manager *sessions.Manager
	hub     *Hub
	router  *httprouter.Router
	logger  *log.Logger
}

// NewServer wires routes and starts the websocket hub. Call Close when done.
func NewServer(cfg Config, manager *sessions.Manager, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "arcade-web",
		})
	}

	s := &Server{
		cfg:     cfg,
		manager: manager,
		hub:     NewHub(logger),
		router:  httprouter.New(),
		logger:  logger,
	}
	go s.hub.Run()
	manager.Subscribe(s.hub.Publish)

	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.GET("/healthz", s.handleHealth)
	r.GET("/api/variants", s.handleVariants)
	r.POST("/api/games", s.handleCreate)
	r.GET("/api/games/:id", s.handleGet)
	r.DELETE("/api/games/:id", s.handleDelete)
	r.POST("/api/games/:id/move", s.handleMove)
	r.POST("/api/games/:id/reset", s.handleReset)
	r.GET("/api/games/:id/ws", s.handleWS)
	r.GET("/api/games/:id/qr", s.handleQR)
	r.GET("/api/scores/:game", s.handleScores)
	r.GET("/api/stats", s.handleStats)

	r.PanicHandler = func(w http.ResponseWriter, req *http.Request, v any) {
		s.logger.Error("handler panic", "path", req.URL.Path, "panic", v)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// MountMCP exposes an MCP JSON-RPC handler at POST /mcp.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Handler(http.MethodPost, "/mcp", h)
}

// ServeHTTP implements http.Handler with request logging.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.router.ServeHTTP(rec, r)
	s.logger.Debug("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"remote", r.RemoteAddr,
		"duration", time.Since(start).Round(time.Microsecond),
	)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s,
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
	}

	s.logger.Info("starting web server", "address", srv.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		if err != nil {
			return fmt.Errorf("web: http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	return err
}

// Close stops the websocket hub.
func (s *Server) Close() {
	s.hub.Stop()
}

type gameResponse struct {
	ID   string                `json:"id"`
	Game t2048.SessionSnapshot `json:"game"`
}

type cellJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type moveResponse struct {
	gameResponse
	Direction  string    `json:"direction"`
	Changed    bool      `json:"changed"`
	ScoreDelta int       `json:"score_delta"`
	Spawned    *cellJSON `json:"spawned,omitempty"`
	NewBest    bool      `json:"new_best"`
}

type variantJSON struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Mode  string `json:"mode"`
	Size  int    `json:"size,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondManagerError maps manager errors to status codes.
func (s *Server) respondManagerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sessions.ErrNotFound):
		respondError(w, http.StatusNotFound, "game not found")
	case errors.Is(err, sessions.ErrUnknownVariant):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "err", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"games":  s.manager.Len(),
	})
}

func (s *Server) handleVariants(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	out := make([]variantJSON, 0, len(t2048.Variants))
	for _, v := range t2048.Variants {
		out = append(out, variantJSON{ID: v.ID, Title: v.Title, Mode: string(v.Mode), Size: v.Size})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Variant string `json:"variant"`
	}
	// An empty body picks the default variant.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, snap, err := s.manager.Create(req.Variant)
	if err != nil {
		s.respondManagerError(w, err)
		return
	}
	w.Header().Set("Location", "/api/games/"+id)
	respondJSON(w, http.StatusCreated, gameResponse{ID: id, Game: snap})
}

func (s *Server) handleGet(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	snap, err := s.manager.State(id)
	if err != nil {
		s.respondManagerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, gameResponse{ID: id, Game: snap})
}

func (s *Server) handleDelete(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	if err := s.manager.Delete(ps.ByName("id")); err != nil {
		s.respondManagerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	dir, err := t2048.ParseDirection(req.Direction)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := ps.ByName("id")
	out, snap, err := s.manager.Move(id, dir)
	if errors.Is(err, t2048.ErrSessionOver) {
		respondJSON(w, http.StatusConflict, map[string]any{
			"error": "game is over",
			"id":    id,
			"game":  snap,
		})
		return
	}
	if err != nil {
		s.respondManagerError(w, err)
		return
	}

	resp := moveResponse{
		gameResponse: gameResponse{ID: id, Game: snap},
		Direction:    dir.String(),
		Changed:      out.Changed,
		ScoreDelta:   out.ScoreDelta,
		NewBest:      out.NewBest,
	}
	if out.Spawned != nil {
		resp.Spawned = &cellJSON{X: out.Spawned.X, Y: out.Spawned.Y}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	snap, err := s.manager.Reset(id)
	if err != nil {
		s.respondManagerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, gameResponse{ID: id, Game: snap})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	snap, err := s.manager.State(id)
	if err != nil {
		s.respondManagerError(w, err)
		return
	}
	s.hub.serve(w, r, id, sessions.Update{ID: id, Event: "state", Snapshot: snap})
}

// handleQR renders a PNG QR code pointing at the game's API resource.
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if _, err := s.manager.State(id); err != nil {
		s.respondManagerError(w, err)
		return
	}

	png, err := qrcode.Encode(s.gameURL(r, id), qrcode.Medium, qrSize)
	if err != nil {
		s.logger.Error("qr generation failed", "game", id, "err", err)
		respondError(w, http.StatusInternalServerError, "qr generation failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

// gameURL builds the absolute URL of a game, honouring PublicURL and proxies.
func (s *Server) gameURL(r *http.Request, id string) string {
	base := strings.TrimSuffix(s.cfg.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host
	}
	return base + "/api/games/" + id
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLimit)
	}

	game := ps.ByName("game")
	scores, err := s.manager.BestScores(game, limit)
	if err != nil {
		s.respondManagerError(w, err)
		return
	}
	if scores == nil {
		scores = []storage.ScoreEntry{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"game":   game,
		"scores": scores,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	stats, err := s.manager.Stats()
	if err != nil {
		s.respondManagerError(w, err)
		return
	}
	if stats == nil {
		stats = []storage.GameStats{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("web: response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
