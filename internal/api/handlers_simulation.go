package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/wealth-planner/internal/service"
	"github.com/wealth-planner/internal/types"
)

// handleCreateSimulation handles POST /api/simulations - Create a simulation
func (s *Server) handleCreateSimulation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID  string          `json:"clientId" validate:"required"`
		Name      string          `json:"name" validate:"required"`
		StartDate types.Date      `json:"startDate"`
		RealRate  decimal.Decimal `json:"realRate"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if err := validateRequest(&req); err != nil {
		respondServiceError(w, err)
		return
	}

	input := &service.CreateSimulationInput{
		ClientID:  req.ClientID,
		Name:      req.Name,
		StartDate: req.StartDate,
		RealRate:  req.RealRate,
	}

	simulation, err := s.simulationService.CreateSimulation(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, simulation)
}

// handleGetSimulation handles GET /api/simulations/:id - Get simulation details
func (s *Server) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	simulationID := vars["id"]

	if simulationID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Simulation ID required", nil)
		return
	}

	simulation, err := s.simulationService.GetSimulation(r.Context(), simulationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, simulation)
}

// handleUpdateSimulation handles PUT /api/simulations/:id - Update a simulation
func (s *Server) handleUpdateSimulation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	simulationID := vars["id"]

	if simulationID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Simulation ID required", nil)
		return
	}

	var req struct {
		Name      *string          `json:"name,omitempty"`
		StartDate *types.Date      `json:"startDate,omitempty"`
		RealRate  *decimal.Decimal `json:"realRate,omitempty"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	input := &service.UpdateSimulationInput{
		SimulationID: simulationID,
		Name:         req.Name,
		StartDate:    req.StartDate,
		RealRate:     req.RealRate,
	}

	simulation, err := s.simulationService.UpdateSimulation(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, simulation)
}

// handleDeleteSimulation handles DELETE /api/simulations/:id - Delete a
// simulation with its allocations, movements and insurances
func (s *Server) handleDeleteSimulation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	simulationID := vars["id"]

	if simulationID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Simulation ID required", nil)
		return
	}

	if err := s.simulationService.DeleteSimulation(r.Context(), simulationID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// handleDuplicateSimulation handles POST /api/simulations/:id/duplicate -
// Deep-copy a simulation under a new name
func (s *Server) handleDuplicateSimulation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	simulationID := vars["id"]

	if simulationID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Simulation ID required", nil)
		return
	}

	var req struct {
		Name string `json:"name" validate:"required"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if err := validateRequest(&req); err != nil {
		respondServiceError(w, err)
		return
	}

	duplicate, err := s.simulationService.DuplicateSimulation(r.Context(), simulationID, req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, duplicate)
}
