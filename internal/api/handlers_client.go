package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wealth-planner/internal/service"
)

// handleCreateClient handles POST /api/clients - Register a client
func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name" validate:"required"`
		Email string `json:"email" validate:"required,email"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if err := validateRequest(&req); err != nil {
		respondServiceError(w, err)
		return
	}

	input := &service.CreateClientInput{
		Name:  req.Name,
		Email: req.Email,
	}

	client, err := s.clientService.CreateClient(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, client)
}

// handleListClients handles GET /api/clients - List clients with paging
func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if limitStr := query.Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "limit must be an integer", nil)
			return
		}
		limit = parsed
	}

	offset := 0
	if offsetStr := query.Get("offset"); offsetStr != "" {
		parsed, err := strconv.Atoi(offsetStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "offset must be an integer", nil)
			return
		}
		offset = parsed
	}

	clients, err := s.clientService.ListClients(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, clients)
}

// handleGetClient handles GET /api/clients/:id - Get client details
func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	clientID := vars["id"]

	if clientID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Client ID required", nil)
		return
	}

	client, err := s.clientService.GetClient(r.Context(), clientID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// handleUpdateClient handles PUT /api/clients/:id - Update a client
func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	clientID := vars["id"]

	if clientID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Client ID required", nil)
		return
	}

	var req struct {
		Name   *string `json:"name,omitempty"`
		Email  *string `json:"email,omitempty" validate:"omitempty,email"`
		Active *bool   `json:"active,omitempty"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if err := validateRequest(&req); err != nil {
		respondServiceError(w, err)
		return
	}

	input := &service.UpdateClientInput{
		ClientID: clientID,
		Name:     req.Name,
		Email:    req.Email,
		Active:   req.Active,
	}

	client, err := s.clientService.UpdateClient(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, client)
}

// handleDeleteClient handles DELETE /api/clients/:id - Delete a client and
// everything attached to it
func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	clientID := vars["id"]

	if clientID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Client ID required", nil)
		return
	}

	if err := s.clientService.DeleteClient(r.Context(), clientID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// handleListSimulations handles GET /api/clients/:id/simulations - List a
// client's simulations
func (s *Server) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	clientID := vars["id"]

	if clientID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Client ID required", nil)
		return
	}

	simulations, err := s.simulationService.ListByClient(r.Context(), clientID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, simulations)
}
