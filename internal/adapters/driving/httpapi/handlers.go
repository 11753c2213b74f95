package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/LuisVera22/service-gcp/internal/core/domain"
	"github.com/LuisVera22/service-gcp/internal/logger"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SearchRequest is the search endpoint's request body.
type SearchRequest struct {
	Query string `json:"query"`
}

// RebuildConflictResponse is returned to a rebuild trigger that found a
// build already running. It is a normal status, not a failure.
type RebuildConflictResponse struct {
	Status  string              `json:"status"`
	Details *domain.BuildStatus `json:"details,omitempty"`
}

// HealthResponse reports provider and index health.
type HealthResponse struct {
	Status          string    `json:"status"`
	EmbedderHealthy bool      `json:"embedder_healthy"`
	SourceHealthy   bool      `json:"source_healthy"`
	IndexExists     bool      `json:"index_exists"`
	IndexBuiltAt    time.Time `json:"index_built_at,omitzero"`
	BuildInProgress bool      `json:"build_in_progress"`
}

// handleSearch answers a natural-language query.
// Only a missing or empty query field is a client error; every degraded
// condition (empty index, provider fallback) still answers 200 with
// zero results and a recorded reason.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.queryService.Answer(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuery) {
			writeError(w, http.StatusBadRequest, "query field is required")
			return
		}
		// The orchestrator converts internal faults to degraded
		// responses; anything else is genuinely unexpected.
		logger.Warn("Search request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleRebuild forces a full index build pass.
func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	stats, err := s.indexService.Rebuild(r.Context())
	if err == nil {
		writeJSON(w, http.StatusOK, stats)
		return
	}

	if errors.Is(err, domain.ErrBuildInProgress) {
		status, statusErr := s.indexService.Status(r.Context())
		if statusErr != nil {
			status = nil
		}
		writeJSON(w, http.StatusConflict, RebuildConflictResponse{
			Status:  "build_in_progress",
			Details: status,
		})
		return
	}

	var buildErr *domain.BuildError
	if errors.As(err, &buildErr) {
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"status": "build_failed",
			"reason": string(buildErr.Reason),
		})
		return
	}

	logger.Warn("Rebuild request failed: %v", err)
	writeError(w, http.StatusInternalServerError, "rebuild failed")
}

// handleIndexStatus reports the index lifecycle state.
func (s *Server) handleIndexStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.indexService.Status(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "status unavailable")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// handleHealth reports provider reachability and index state.
// Degraded providers do not fail the endpoint; the body carries details.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}

	if s.embedder != nil {
		resp.EmbedderHealthy = s.embedder.Ping(r.Context()) == nil
	}
	if s.source != nil {
		resp.SourceHealthy = s.source.Ping(r.Context()) == nil
	}
	if !resp.EmbedderHealthy || !resp.SourceHealthy {
		resp.Status = "degraded"
	}

	if status, err := s.indexService.Status(r.Context()); err == nil {
		resp.IndexExists = status.Exists
		resp.IndexBuiltAt = status.BuiltAt
		resp.BuildInProgress = status.InProgress
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleVersion returns the service version.
func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response: %v", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
