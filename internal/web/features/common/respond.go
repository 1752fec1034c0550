// Package common holds helpers shared by the web feature packages.
package common

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gridhub-labs/gridhub/pkg/core"
)

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes an error payload in the {"detail": ...} shape.
func Error(w http.ResponseWriter, status int, detail string) {
	JSON(w, status, map[string]string{"detail": detail})
}

// StoreError maps a store error to 404 or 500.
func StoreError(w http.ResponseWriter, err error) {
	if core.IsNotFound(err) {
		Error(w, http.StatusNotFound, err.Error())
		return
	}
	Error(w, http.StatusInternalServerError, err.Error())
}

// Decode reads the request body as JSON into v.
func Decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// IntQuery parses an integer query parameter, falling back to def when
// absent or malformed and clamping the result to [lo, hi].
func IntQuery(r *http.Request, name string, def, lo, hi int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
