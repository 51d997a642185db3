package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tkahng/ludo/web"
	lws "github.com/tkahng/ludo/websocket"
)

// SpectatorServer exposes a running match over HTTP. It never accepts moves.
type SpectatorServer struct {
	hub      *lws.Hub
	upgrader websocket.Upgrader
	mux      *http.ServeMux
	started  time.Time
	log      *slog.Logger
}

// NewSpectatorServer serves the hub's board. origins restricts websocket
// origins; empty allows all.
func NewSpectatorServer(hub *lws.Hub, origins []string, logger *slog.Logger) *SpectatorServer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &SpectatorServer{
		hub:      hub,
		upgrader: lws.DefaultUpgrader(origins),
		mux:      http.NewServeMux(),
		started:  time.Now(),
		log:      logger,
	}
	s.setupRoutes()
	return s
}

func (s *SpectatorServer) Handler() http.Handler {
	return s.mux
}

func (s *SpectatorServer) setupRoutes() {
	s.mux.HandleFunc("GET /{$}", web.ServeHTML)
	s.mux.HandleFunc("GET /api/ws", s.hub.ServeWS(s.upgrader, lws.DefaultSetupConn))
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
}

// handleState returns the latest board, or 204 before the first redraw.
func (s *SpectatorServer) handleState(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.hub.Latest()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, snap)
}

func (s *SpectatorServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]any{
		"status":     "ok",
		"uptime":     time.Since(s.started).String(),
		"spectators": s.hub.Clients(),
	})
}

func (s *SpectatorServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("write response", "error", err)
	}
}
