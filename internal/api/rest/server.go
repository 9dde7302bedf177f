package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/fortuna/propscout/internal/metrics"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// ServerOptions carries the optional surfaces of the API.
type ServerOptions struct {
	MetricsEnabled bool
}

// NewServer creates a new REST API server
func NewServer(port string, handler *Handler, log *logrus.Logger, opts ServerOptions) *Server {
	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggingMiddleware(log))
	router.Use(CORSMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	if opts.MetricsEnabled {
		router.Handle("/metrics", metrics.Handler()).Methods("GET")
	}

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Analyses
	api.HandleFunc("/analysis/player", handler.AnalyzePlayer).Methods("POST")
	api.HandleFunc("/analysis/matchup", handler.AnalyzeMatchup).Methods("POST")
	api.HandleFunc("/analysis/history/players", handler.PlayerHistory).Methods("GET")
	api.HandleFunc("/analysis/history/matchups", handler.MatchupHistory).Methods("GET")

	// Reference data
	api.HandleFunc("/players/search", handler.SearchPlayers).Methods("GET")
	api.HandleFunc("/teams", handler.GetTeams).Methods("GET")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
