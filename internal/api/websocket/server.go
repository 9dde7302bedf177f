package websocket

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development (TODO: restrict in production)
	},
}

// Server pushes completed analyses to WebSocket subscribers.
type Server struct {
	port   string
	server *http.Server
	hub    *Hub
	log    *logrus.Entry
}

// NewServer creates a new WebSocket server
func NewServer(log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	return &Server{
		hub: NewHub(log),
		log: log.WithField("component", "ws-server"),
	}
}

// Start starts the WebSocket server
func (s *Server) Start(port string) error {
	s.port = port

	// Start the hub in a goroutine
	go s.hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/analysis/live", s.handleAnalysisFeed)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	s.log.WithField("port", port).Info("WebSocket server listening")
	return s.server.ListenAndServe()
}

// handleAnalysisFeed subscribes a connection to the live analysis stream.
func (s *Server) handleAnalysisFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("failed to upgrade connection")
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// BroadcastAnalysis sends a completed analysis to all connected clients.
func (s *Server) BroadcastAnalysis(data []byte) {
	s.hub.Broadcast(data)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
