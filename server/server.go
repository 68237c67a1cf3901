package server

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chat-rooms/contract"
	"chat-rooms/runtime"
)

//go:embed static/index.html
var staticFS embed.FS

type Config struct {
	Host                 string
	Port                 int
	ConnectionBufferSize int
}

// Server is the HTTP boundary: the websocket endpoint plus a small browser
// client and a health probe.
type Server struct {
	log        *slog.Logger
	cfg        Config
	registry   contract.IRegistry
	dispatcher *runtime.Dispatcher
	handlers   *runtime.Handlers
	upgrader   websocket.Upgrader
	httpServer *http.Server
}

func NewServer(log *slog.Logger, cfg Config, registry contract.IRegistry,
	dispatcher *runtime.Dispatcher, handlers *runtime.Handlers) *Server {
	s := &Server{
		log:        log,
		cfg:        cfg,
		registry:   registry,
		dispatcher: dispatcher,
		handlers:   handlers,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWS)

	s.httpServer = &http.Server{
		Addr:    net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port)),
		Handler: mux,
	}
	return s
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) ListenAndServe() error {
	s.log.Info("Chat server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	rooms, users := s.registry.Counts()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":         "ok",
		"activeRooms":    rooms,
		"connectedUsers": users,
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("Websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(uuid.NewString(), conn, s.log, s.dispatcher, s.handlers, s.cfg.ConnectionBufferSize)
	s.log.Debug("Connection opened", "conn_id", client.id, "remote", conn.RemoteAddr().String())

	go client.WritePump()
	client.ReadLoop()
	s.log.Debug("Connection closed", "conn_id", client.id)
}
