package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/wealth-planner/internal/service"
	"github.com/wealth-planner/internal/types"
)

// handleListInsurances handles GET /api/simulations/:id/insurances - List a
// simulation's insurance policies
func (s *Server) handleListInsurances(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	simulationID := vars["id"]

	if simulationID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Simulation ID required", nil)
		return
	}

	policies, err := s.insuranceService.ListInsurances(r.Context(), simulationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, policies)
}

// handleCreateInsurance handles POST /api/simulations/:id/insurances - Attach
// an insurance policy
func (s *Server) handleCreateInsurance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	simulationID := vars["id"]

	if simulationID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Simulation ID required", nil)
		return
	}

	var req struct {
		Name           string          `json:"name" validate:"required"`
		InsuredValue   decimal.Decimal `json:"insuredValue"`
		MonthlyPremium decimal.Decimal `json:"monthlyPremium"`
		StartDate      types.Date      `json:"startDate"`
		DurationMonths int             `json:"durationMonths" validate:"gt=0"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if err := validateRequest(&req); err != nil {
		respondServiceError(w, err)
		return
	}

	input := &service.CreateInsuranceInput{
		SimulationID:   simulationID,
		Name:           req.Name,
		InsuredValue:   req.InsuredValue,
		MonthlyPremium: req.MonthlyPremium,
		StartDate:      req.StartDate,
		DurationMonths: req.DurationMonths,
	}

	policy, err := s.insuranceService.CreateInsurance(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, policy)
}

// handleUpdateInsurance handles PUT /api/insurances/:id - Update an insurance
// policy
func (s *Server) handleUpdateInsurance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	insuranceID := vars["id"]

	if insuranceID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Insurance ID required", nil)
		return
	}

	var req struct {
		Name           *string          `json:"name,omitempty"`
		InsuredValue   *decimal.Decimal `json:"insuredValue,omitempty"`
		MonthlyPremium *decimal.Decimal `json:"monthlyPremium,omitempty"`
		StartDate      *types.Date      `json:"startDate,omitempty"`
		DurationMonths *int             `json:"durationMonths,omitempty"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	input := &service.UpdateInsuranceInput{
		InsuranceID:    insuranceID,
		Name:           req.Name,
		InsuredValue:   req.InsuredValue,
		MonthlyPremium: req.MonthlyPremium,
		StartDate:      req.StartDate,
		DurationMonths: req.DurationMonths,
	}

	policy, err := s.insuranceService.UpdateInsurance(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, policy)
}

// handleDeleteInsurance handles DELETE /api/insurances/:id - Remove an
// insurance policy
func (s *Server) handleDeleteInsurance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	insuranceID := vars["id"]

	if insuranceID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Insurance ID required", nil)
		return
	}

	if err := s.insuranceService.DeleteInsurance(r.Context(), insuranceID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
