package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/erazemk/retailapi/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into target. Malformed bodies are
// reported as validation errors.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return invalid(typeErr.Field, fmt.Sprintf("must be of type %s", typeErr.Type))
		}
		return invalid("body", "invalid JSON: "+err.Error())
	}
	return nil
}

// httpError is an error with a client-facing status and message.
type httpError struct {
	status  int
	message string
}

func (e *httpError) Error() string {
	return e.message
}

// notFound replaces store.ErrNotFound with a 404 carrying message.
func notFound(err error, message string) error {
	if errors.Is(err, store.ErrNotFound) {
		return &httpError{status: http.StatusNotFound, message: message}
	}
	return err
}

// writeError maps a handler error onto a response. Unexpected errors are
// logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *ValidationError
	var statusErr *httpError
	switch {
	case errors.As(err, &validationErr):
		jsonResponse(w, http.StatusUnprocessableEntity, validationErr)
	case errors.As(err, &statusErr):
		jsonError(w, statusErr.status, statusErr.message)
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "not found")
	default:
		slog.Error("request failed", "op", r.Pattern, "method", r.Method, "path", r.URL.Path, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal server error")
	}
}
