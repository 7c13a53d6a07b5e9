package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"smoothlife-panel/engine"
	"smoothlife-panel/palette"
	"smoothlife-panel/panel"
	"smoothlife-panel/params"
	"smoothlife-panel/preset"
	"smoothlife-panel/upload"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, preset.ErrNotFound), errors.Is(err, panel.ErrUnknownControl):
		return http.StatusNotFound
	case errors.Is(err, preset.ErrNotRemovable):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, engine.ErrClosed), errors.Is(err, upload.ErrStatus):
		return http.StatusBadGateway
	case errors.Is(err, upload.ErrNoEndpoint):
		return http.StatusServiceUnavailable
	case errors.Is(err, panel.ErrBadValue),
		errors.Is(err, panel.ErrBadIndex),
		errors.Is(err, params.ErrBadArgs),
		errors.Is(err, palette.ErrInvalidColor),
		errors.Is(err, palette.ErrBadGradientType),
		errors.Is(err, preset.ErrEmptyName),
		errors.Is(err, preset.ErrBadRecord):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("api: %v", err)
	}
	http.Error(w, err.Error(), status)
}
