package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/dvloznov/finance-docproc/internal/apperrors"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Detail: message})
}

// WriteAppError writes err with its own status code and message.
func WriteAppError(w http.ResponseWriter, err *apperrors.AppError) {
	WriteError(w, err.StatusCode, err.Message)
}
