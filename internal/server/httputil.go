package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/goliatone/go-formbuilder/internal/storage"
	"github.com/goliatone/go-formbuilder/pkg/document"
	openapiexport "github.com/goliatone/go-formbuilder/pkg/export/openapi"
	"github.com/goliatone/go-formbuilder/pkg/lifecycle"
)

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON encode error: %v", err)
	}
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// storeErrorToHTTP maps storage and lifecycle errors to HTTP responses.
func storeErrorToHTTP(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, storage.ErrDuplicateID):
		writeError(w, http.StatusConflict, "DUPLICATE_ID", err.Error())
	case errors.Is(err, lifecycle.ErrAlreadyPublished),
		errors.Is(err, lifecycle.ErrNotPublished),
		errors.Is(err, lifecycle.ErrAlreadySubmitted),
		errors.Is(err, openapiexport.ErrNotPublished):
		writeError(w, http.StatusConflict, "LIFECYCLE_CONFLICT", err.Error())
	case errors.Is(err, lifecycle.ErrEmptyContent),
		errors.Is(err, document.ErrMalformedDocument):
		writeError(w, http.StatusBadRequest, "INVALID_CONTENT", err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
