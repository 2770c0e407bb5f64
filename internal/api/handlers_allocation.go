package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/wealth-planner/internal/service"
	"github.com/wealth-planner/internal/types"
)

// handleListAllocations handles GET /api/simulations/:id/allocations - List a
// simulation's allocations with their valuation records
func (s *Server) handleListAllocations(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	simulationID := vars["id"]

	if simulationID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Simulation ID required", nil)
		return
	}

	allocations, err := s.allocationService.ListAllocations(r.Context(), simulationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, allocations)
}

// handleCreateAllocation handles POST /api/simulations/:id/allocations -
// Create an allocation
func (s *Server) handleCreateAllocation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	simulationID := vars["id"]

	if simulationID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Simulation ID required", nil)
		return
	}

	var req struct {
		Category     types.AssetCategory `json:"category" validate:"required"`
		Name         string              `json:"name" validate:"required"`
		NominalValue *decimal.Decimal    `json:"nominalValue,omitempty"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if err := validateRequest(&req); err != nil {
		respondServiceError(w, err)
		return
	}

	input := &service.CreateAllocationInput{
		SimulationID: simulationID,
		Category:     req.Category,
		Name:         req.Name,
		NominalValue: req.NominalValue,
	}

	allocation, err := s.allocationService.CreateAllocation(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, allocation)
}

// handleUpdateAllocation handles PUT /api/allocations/:id - Update an allocation
func (s *Server) handleUpdateAllocation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	allocationID := vars["id"]

	if allocationID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Allocation ID required", nil)
		return
	}

	var req struct {
		Category     *types.AssetCategory `json:"category,omitempty"`
		Name         *string              `json:"name,omitempty"`
		NominalValue *decimal.Decimal     `json:"nominalValue,omitempty"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	input := &service.UpdateAllocationInput{
		AllocationID: allocationID,
		Category:     req.Category,
		Name:         req.Name,
		NominalValue: req.NominalValue,
	}

	allocation, err := s.allocationService.UpdateAllocation(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, allocation)
}

// handleDeleteAllocation handles DELETE /api/allocations/:id - Delete an
// allocation and its valuation records
func (s *Server) handleDeleteAllocation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	allocationID := vars["id"]

	if allocationID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Allocation ID required", nil)
		return
	}

	if err := s.allocationService.DeleteAllocation(r.Context(), allocationID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// handleAddRecord handles POST /api/allocations/:id/records - Append a dated
// valuation record
func (s *Server) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	allocationID := vars["id"]

	if allocationID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Allocation ID required", nil)
		return
	}

	var req struct {
		RecordDate types.Date      `json:"recordDate"`
		Value      decimal.Decimal `json:"value"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	input := &service.AddRecordInput{
		AllocationID: allocationID,
		RecordDate:   req.RecordDate,
		Value:        req.Value,
	}

	record, err := s.allocationService.AddRecord(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, record)
}

// handleListRecords handles GET /api/allocations/:id/records - List the
// valuation history of an allocation
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	allocationID := vars["id"]

	if allocationID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Allocation ID required", nil)
		return
	}

	records, err := s.allocationService.ListRecords(r.Context(), allocationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, records)
}
