package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wealth-planner/internal/types"
)

// parseYearParam reads a required integer year from the query string.
func parseYearParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, &types.ServiceError{
			Code:    ErrCodeValidationError,
			Message: fmt.Sprintf("%s parameter required", name),
			Details: map[string]interface{}{"field": name},
		}
	}

	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &types.ServiceError{
			Code:    ErrCodeValidationError,
			Message: fmt.Sprintf("%s must be a year", name),
			Details: map[string]interface{}{"field": name, "value": raw},
		}
	}

	return year, nil
}

// handleExpandTimeline handles GET /api/simulations/:id/timeline - Expand
// recurring movements into dated entries within a year window
func (s *Server) handleExpandTimeline(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	simulationID := vars["id"]

	if simulationID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Simulation ID required", nil)
		return
	}

	fromYear, err := parseYearParam(r, "from")
	if err != nil {
		respondServiceError(w, err)
		return
	}

	toYear, err := parseYearParam(r, "to")
	if err != nil {
		respondServiceError(w, err)
		return
	}

	entries, err := s.timelineService.ExpandTimeline(r.Context(), simulationID, fromYear, toYear)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}
