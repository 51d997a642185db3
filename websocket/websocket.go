// Package websocket pushes the board of a running match to read-only
// spectators.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tkahng/ludo"
	"github.com/tkahng/ludo/terminal"
)

// MessageType tags every frame sent to spectators.
type MessageType string

const (
	MessageTypeState MessageType = "state"
	MessageTypeEvent MessageType = "event"
)

type Message struct {
	Type MessageType `json:"type"`
	Data any         `json:"data"`
}

// StateFrame carries the snapshot together with its plain text drawing.
type StateFrame struct {
	Snapshot ludo.Snapshot `json:"snapshot"`
	Board    string        `json:"board"`
}

var errSlowClient = errors.New("spectator too slow, frame dropped")

// DefaultSetupConn limits reads and keeps the read deadline moving with pongs.
func DefaultSetupConn(c *websocket.Conn) {
	pw := 60 * time.Second
	c.SetReadLimit(512)
	_ = c.SetReadDeadline(time.Now().Add(pw))
	c.SetPongHandler(func(string) error {
		_ = c.SetReadDeadline(time.Now().Add(pw))
		return nil
	})
}

// DefaultUpgrader accepts the listed origins, or any origin when the list
// is empty.
func DefaultUpgrader(origins []string) websocket.Upgrader {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	upgrader.CheckOrigin = func(r *http.Request) bool {
		return len(origins) == 0 || slices.Contains(origins, r.Header.Get("Origin"))
	}
	return upgrader
}

// client owns one spectator connection. All writes happen in writeForever.
type client struct {
	conn   *websocket.Conn
	egress chan []byte
	wg     sync.WaitGroup
}

func (c *client) send(frame []byte) error {
	select {
	case c.egress <- frame:
		return nil
	default:
		return errSlowClient
	}
}

func (c *client) writeForever(ctx context.Context, ping time.Duration, done func()) {
	pingTicker := time.NewTicker(ping)
	defer func() {
		pingTicker.Stop()
		done()
		c.wg.Done()
	}()
	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		case frame := <-c.egress:
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-pingTicker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readForever drains the connection so control frames are processed; it
// returns when the spectator goes away.
func (c *client) readForever(done func()) {
	defer func() {
		done()
		c.wg.Done()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Hub tracks spectators and broadcasts every redraw to them. It implements
// ludo.Renderer so it can sit next to the terminal.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]context.CancelFunc
	latest  *ludo.Snapshot
	frame   []byte
	ping    time.Duration
	log     *slog.Logger
}

var _ ludo.Renderer = (*Hub)(nil)

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		clients: make(map[*client]context.CancelFunc),
		ping:    50 * time.Second,
		log:     logger,
	}
}

// Render caches the snapshot and broadcasts it.
func (h *Hub) Render(s ludo.Snapshot) {
	frame, err := json.Marshal(Message{
		Type: MessageTypeState,
		Data: StateFrame{Snapshot: s, Board: terminal.Draw(s, false)},
	})
	if err != nil {
		h.log.Error("encode snapshot", "error", err)
		return
	}
	h.mu.Lock()
	h.latest = &s
	h.frame = frame
	h.mu.Unlock()
	h.broadcast(frame)
}

// Notify broadcasts the event without caching it.
func (h *Hub) Notify(e ludo.Event) {
	frame, err := json.Marshal(Message{Type: MessageTypeEvent, Data: e})
	if err != nil {
		h.log.Error("encode event", "error", err, "kind", string(e.Kind))
		return
	}
	h.broadcast(frame)
}

func (h *Hub) broadcast(frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if err := c.send(frame); err != nil {
			h.log.Warn("broadcast", "error", err, "remote", c.conn.RemoteAddr().String())
		}
	}
}

// Latest returns the last rendered snapshot.
func (h *Hub) Latest() (ludo.Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.latest == nil {
		return ludo.Snapshot{}, false
	}
	return *h.latest, true
}

// Clients is the number of connected spectators.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades spectator connections. A new spectator immediately gets
// the latest board.
func (h *Hub) ServeWS(upgrader websocket.Upgrader, connSetup func(*websocket.Conn)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already replied to the client.
			return
		}
		connSetup(conn)

		c := &client{conn: conn, egress: make(chan []byte, 32)}
		c.wg.Add(2)
		ctx, cancel := context.WithCancel(context.Background())

		h.mu.Lock()
		h.clients[c] = cancel
		if h.frame != nil {
			_ = c.send(h.frame)
		}
		h.mu.Unlock()
		h.log.Info("spectator joined", "remote", conn.RemoteAddr().String())

		var once sync.Once
		done := func() { once.Do(func() { h.unregister(c) }) }
		go c.writeForever(ctx, h.ping, done)
		go c.readForever(done)
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	cancel, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		cancel()
	}
	_ = c.conn.Close()
	h.log.Info("spectator left", "remote", c.conn.RemoteAddr().String())
}

// Close disconnects every spectator.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c, cancel := range h.clients {
		cancel()
		delete(h.clients, c)
		clients = append(clients, c)
	}
	h.mu.Unlock()
	for _, c := range clients {
		c.wg.Wait()
	}
}
