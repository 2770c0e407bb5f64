package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wealth-planner/internal/service"
	"github.com/wealth-planner/internal/types"
)

// handleRunProjection handles POST /api/simulations/:id/projection - Project
// wealth over the requested horizon
func (s *Server) handleRunProjection(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	simulationID := vars["id"]

	if simulationID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Simulation ID required", nil)
		return
	}

	var req struct {
		LifeStatus       types.LifeStatus `json:"lifeStatus"`
		AnnualRealRate   float64          `json:"annualRealRate"`
		HorizonYears     int              `json:"horizonYears"`
		IncludeInsurance *bool            `json:"includeInsurance,omitempty"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	// Insurance is part of the totals unless the caller opts out
	includeInsurance := true
	if req.IncludeInsurance != nil {
		includeInsurance = *req.IncludeInsurance
	}

	params := &service.ProjectionParameters{
		SimulationID:     simulationID,
		LifeStatus:       req.LifeStatus,
		AnnualRealRate:   req.AnnualRealRate,
		HorizonYears:     req.HorizonYears,
		IncludeInsurance: includeInsurance,
	}

	result, err := s.projectionService.RunProjection(r.Context(), params)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// handleProjectionHistory handles GET /api/simulations/:id/projection/runs -
// Recent projection audit entries, newest first
func (s *Server) handleProjectionHistory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	simulationID := vars["id"]

	if simulationID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Simulation ID required", nil)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "limit must be an integer", nil)
			return
		}
		limit = parsed
	}

	runs, err := s.projectionService.History(r.Context(), simulationID, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, runs)
}
