package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/wealth-planner/internal/errors"
	"github.com/wealth-planner/internal/types"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error types.ServiceError `json:"error"`
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, statusCode int, code, message string, details map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error: types.ServiceError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	json.NewEncoder(w).Encode(response)
}

// respondServiceError maps a service error onto the wire envelope.
func respondServiceError(w http.ResponseWriter, err error) {
	statusCode, serviceErr := mapServiceError(err)
	respondError(w, statusCode, serviceErr.Code, serviceErr.Message, serviceErr.Details)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// parseJSONBody parses JSON request body.
func parseJSONBody(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// Common error codes
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeValidationError   = "VALIDATION_ERROR"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// mapServiceError maps service errors to HTTP status codes. Service error
// codes and details pass through unchanged; anything unrecognized collapses
// to a generic 500 so internal failures never leak detail onto the wire.
func mapServiceError(err error) (int, *types.ServiceError) {
	// Categorized errors carry their own status code and a wire-safe message
	var catErr *apperrors.CategorizedError
	if errors.As(err, &catErr) {
		return catErr.StatusCode, catErr.ToServiceError()
	}

	var serviceErr *types.ServiceError
	if errors.As(err, &serviceErr) {
		switch {
		case serviceErr.Code == ErrCodeValidationError || serviceErr.Code == ErrCodeInvalidInput:
			return http.StatusBadRequest, serviceErr
		case strings.HasSuffix(serviceErr.Code, "_NOT_FOUND"):
			return http.StatusNotFound, serviceErr
		case serviceErr.Code == "COMPUTATION_ERROR":
			return http.StatusInternalServerError, serviceErr
		}
	}

	return http.StatusInternalServerError, &types.ServiceError{
		Code:    ErrCodeInternalError,
		Message: "An internal error occurred",
	}
}
