package httpx

import (
	"encoding/json"
	"net/http"
)

// SuccessResponse is the envelope for every successful reply.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the envelope for every failed reply.
type ErrorResponse struct {
	Message string      `json:"message"`
	Error   interface{} `json:"error,omitempty"`
}

// ErrorDetail describes a single invalid request field.
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func JSONSuccess(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, SuccessResponse{Message: message, Data: data})
}

func JSONSuccessCreated(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusCreated, SuccessResponse{Message: message, Data: data})
}

func JSONError(w http.ResponseWriter, statusCode int, message string, detail interface{}) {
	writeJSON(w, statusCode, ErrorResponse{Message: message, Error: detail})
}

// JSONValidationError replies 422 with per-field details.
func JSONValidationError(w http.ResponseWriter, details []ErrorDetail) {
	JSONError(w, http.StatusUnprocessableEntity, "Validation failed", details)
}

// JSONInternalError hides the underlying failure from the client; the cause
// is expected to be logged by the caller.
func JSONInternalError(w http.ResponseWriter) {
	JSONError(w, http.StatusInternalServerError, "An error occurred. Please try again later.", nil)
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
