package web

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/sessions"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Watchers never send payloads; anything bigger than a close frame is noise.
	maxMessageSize = 512

	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Watchers join through the QR link from any host.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client is one websocket watcher of a single game.
type client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	gameID string
}

// Hub fans game updates out to the websocket watchers of each game.
// All registry state is owned by the Run goroutine.
type Hub struct {
	games      map[string]map[*client]bool
	broadcast  chan sessions.Update
	register   chan *client
	unregister chan *client
	done       chan struct{}
	stopOnce   sync.Once
	logger     *log.Logger
}

// NewHub creates a hub. Call Run before serving watchers.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		games:      make(map[string]map[*client]bool),
		broadcast:  make(chan sessions.Update, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			if h.games[c.gameID] == nil {
				h.games[c.gameID] = make(map[*client]bool)
			}
			h.games[c.gameID][c] = true
			h.logger.Debug("watcher joined", "game", c.gameID, "watchers", len(h.games[c.gameID]))

		case c := <-h.unregister:
			h.remove(c)

		case u := <-h.broadcast:
			h.fanOut(u)

		case <-h.done:
			for _, clients := range h.games {
				for c := range clients {
					close(c.send)
				}
			}
			h.games = make(map[string]map[*client]bool)
			return
		}
	}
}

// Stop ends Run and disconnects every watcher. Extra calls are no-ops.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) remove(c *client) {
	clients, ok := h.games[c.gameID]
	if !ok || !clients[c] {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.games, c.gameID)
	}
}

func (h *Hub) fanOut(u sessions.Update) {
	clients := h.games[u.ID]
	if len(clients) == 0 {
		return
	}
	data, err := json.Marshal(u)
	if err != nil {
		h.logger.Warn("cannot encode update", "game", u.ID, "err", err)
		return
	}
	for c := range clients {
		select {
		case c.send <- data:
		default:
			// Slow watcher, drop it.
			h.remove(c)
		}
	}
}

// Publish queues an update for the watchers of its game. It never blocks the
// caller for long: when the queue is full the update is dropped.
func (h *Hub) Publish(u sessions.Update) {
	select {
	case h.broadcast <- u:
	case <-h.done:
	default:
		h.logger.Warn("broadcast queue full, update dropped", "game", u.ID, "event", u.Event)
	}
}

// serve upgrades the request and attaches a watcher to gameID. The first
// message sent is the current snapshot.
func (h *Hub) serve(w http.ResponseWriter, r *http.Request, gameID string, first sessions.Update) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "game", gameID, "err", err)
		return
	}

	c := &client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		gameID: gameID,
	}
	if data, err := json.Marshal(first); err == nil {
		c.send <- data
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump drains the connection so pongs and close frames are handled.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("watcher read error", "game", c.gameID, "err", err)
			}
			return
		}
	}
}

// writePump sends queued updates and keeps the connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
