package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/fortuna/propscout/internal/engine"
	"github.com/fortuna/propscout/internal/nba"
	"github.com/fortuna/propscout/internal/service"
	"github.com/fortuna/propscout/internal/store"
)

// AnalysisAPI is the service surface the handlers depend on.
type AnalysisAPI interface {
	AnalyzePlayer(ctx context.Context, req *service.PlayerRequest) (*engine.PredictionResult, error)
	AnalyzeMatchup(ctx context.Context, req *service.MatchupRequest) (*engine.TeamPrediction, error)
	PlayerHistory(ctx context.Context, playerName string, limit int) ([]*store.PlayerAnalysis, error)
	MatchupHistory(ctx context.Context, limit int) ([]*store.MatchupAnalysis, error)
}

// PlayerDirectory resolves player names for the search endpoint.
type PlayerDirectory interface {
	FindPlayers(ctx context.Context, name string) ([]engine.PlayerRef, error)
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	svc     AnalysisAPI
	players PlayerDirectory
	log     *logrus.Entry
}

// NewHandler creates a new handler
func NewHandler(svc AnalysisAPI, players PlayerDirectory, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.New()
	}
	return &Handler{
		svc:     svc,
		players: players,
		log:     log.WithField("component", "rest-handler"),
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "propscout",
		"version": "1.0.0",
	})
}

// AnalyzePlayer runs a player threshold analysis.
func (h *Handler) AnalyzePlayer(w http.ResponseWriter, r *http.Request) {
	var req service.PlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.svc.AnalyzePlayer(r.Context(), &req)
	if err != nil {
		h.respondAnalysisError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

// AnalyzeMatchup runs a team total analysis.
func (h *Handler) AnalyzeMatchup(w http.ResponseWriter, r *http.Request) {
	var req service.MatchupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.svc.AnalyzeMatchup(r.Context(), &req)
	if err != nil {
		h.respondAnalysisError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"result":  result,
	})
}

// PlayerHistory returns recent player analyses.
func (h *Handler) PlayerHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.PlayerHistory(r.Context(), r.URL.Query().Get("player"), queryLimit(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch history", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"analyses": records,
		"count":    len(records),
	})
}

// MatchupHistory returns recent matchup analyses.
func (h *Handler) MatchupHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.MatchupHistory(r.Context(), queryLimit(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch history", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"analyses": records,
		"count":    len(records),
	})
}

// SearchPlayers searches the roster by name substring.
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "Query parameter 'name' is required", nil)
		return
	}

	players, err := h.players.FindPlayers(r.Context(), name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to search players", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"players": players,
		"count":   len(players),
	})
}

// GetTeams returns the static team directory.
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	teams := nba.Teams()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"teams": teams,
		"count": len(teams),
	})
}

// respondAnalysisError maps engine errors onto HTTP statuses. An absence
// (unknown player, no data for the season) is a clean 404, not a failure.
func (h *Handler) respondAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case engine.IsAbsence(err):
		respondJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
	case isValidationError(err):
		respondError(w, http.StatusBadRequest, "Invalid request", err)
	default:
		h.log.WithError(err).Error("analysis failed")
		respondError(w, http.StatusInternalServerError, "Analysis failed", err)
	}
}

func isValidationError(err error) bool {
	var verr *service.ValidationError
	return errors.As(err, &verr)
}

func queryLimit(r *http.Request) int {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if l, err := strconv.Atoi(raw); err == nil && l > 0 && l <= 200 {
			limit = l
		}
	}
	return limit
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
