package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/wealth-planner/internal/service"
	"github.com/wealth-planner/internal/types"
)

// handleListMovements handles GET /api/simulations/:id/movements - List a
// simulation's movements in registration order
func (s *Server) handleListMovements(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	simulationID := vars["id"]

	if simulationID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Simulation ID required", nil)
		return
	}

	movements, err := s.movementService.ListMovements(r.Context(), simulationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, movements)
}

// handleCreateMovement handles POST /api/simulations/:id/movements - Create a
// planned cash movement
func (s *Server) handleCreateMovement(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	simulationID := vars["id"]

	if simulationID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Simulation ID required", nil)
		return
	}

	var req struct {
		Direction   types.MovementDirection `json:"direction" validate:"required"`
		Description string                  `json:"description"`
		Amount      decimal.Decimal         `json:"amount"`
		Recurrence  types.Recurrence        `json:"recurrence" validate:"required"`
		StartDate   types.Date              `json:"startDate"`
		EndDate     *types.Date             `json:"endDate,omitempty"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if err := validateRequest(&req); err != nil {
		respondServiceError(w, err)
		return
	}

	input := &service.CreateMovementInput{
		SimulationID: simulationID,
		Direction:    req.Direction,
		Description:  req.Description,
		Amount:       req.Amount,
		Recurrence:   req.Recurrence,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}

	movement, err := s.movementService.CreateMovement(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, movement)
}

// handleUpdateMovement handles PUT /api/movements/:id - Update a movement
func (s *Server) handleUpdateMovement(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	movementID := vars["id"]

	if movementID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Movement ID required", nil)
		return
	}

	var req struct {
		Direction   *types.MovementDirection `json:"direction,omitempty"`
		Description *string                  `json:"description,omitempty"`
		Amount      *decimal.Decimal         `json:"amount,omitempty"`
		Recurrence  *types.Recurrence        `json:"recurrence,omitempty"`
		StartDate   *types.Date              `json:"startDate,omitempty"`
		EndDate     *types.Date              `json:"endDate,omitempty"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	input := &service.UpdateMovementInput{
		MovementID:  movementID,
		Direction:   req.Direction,
		Description: req.Description,
		Amount:      req.Amount,
		Recurrence:  req.Recurrence,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}

	movement, err := s.movementService.UpdateMovement(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, movement)
}

// handleDeleteMovement handles DELETE /api/movements/:id - Delete a movement
func (s *Server) handleDeleteMovement(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	movementID := vars["id"]

	if movementID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Movement ID required", nil)
		return
	}

	if err := s.movementService.DeleteMovement(r.Context(), movementID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
