// Package httpapi holds the JSON response helpers, DTOs and middleware shared by the handlers.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/models"

	"github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 20

// WriteJSON writes v with the given status
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteErrorResponse writes the standard error body
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteJSON(w, status, map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": middleware.GetReqID(r.Context()),
	})
}

// StatusFor maps a domain error to its HTTP status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrUnavailable),
		errors.Is(err, models.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// WriteError maps err to a status and writes it. Server errors are logged and
// their detail is withheld from the client.
func WriteError(w http.ResponseWriter, r *http.Request, log *logger.Logger, action string, err error) {
	status := StatusFor(err)
	requestID := middleware.GetReqID(r.Context())

	if status == http.StatusInternalServerError {
		log.Error(action, "Request failed", requestID, err, map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		})
		WriteErrorResponse(w, r, status, "Internal server error")
		return
	}

	log.Debug(action, err.Error(), requestID, map[string]interface{}{
		"status_code": status,
	})
	WriteErrorResponse(w, r, status, err.Error())
}

// DecodeJSON reads a single JSON object from the request body into v
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", models.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON format", models.ErrInvalidInput)
	}
	return nil
}
