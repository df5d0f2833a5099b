// Package web contains helpers shared by the HTTP handlers: JSON responses, parameter parsing and middleware.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// ErrEmptyBody is returned by DecodeJSON when the request has no body.
var ErrEmptyBody = errors.New("request body is empty")

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	// Handle nil payload
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, map[string]string{"error": message})
}

// RespondValidationError writes 400 with a field -> rule map when err carries validator errors,
// and a generic invalid body message otherwise.
func RespondValidationError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		errorResponse := make(map[string]string, len(validationErrors))
		for _, fieldErr := range validationErrors {
			// fieldErr.Tag() returns "required", "max", etc.
			errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
		}
		logger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
		RespondJSON(w, logger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
		return
	}
	logger.ErrorContext(r.Context(), "Error validating request body", "error", err)
	RespondError(w, logger, http.StatusBadRequest, "Invalid request body")
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields and trailing data.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return ErrEmptyBody
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// PathID extracts a non-empty id path parameter. Returns the ID and a boolean indicating success.
func PathID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		id = strings.TrimSpace(r.PathValue("id"))
	}
	if id == "" {
		RespondError(w, logger, http.StatusBadRequest, "Missing ID")
		return "", false
	}
	return id, true
}
