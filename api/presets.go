package api

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"smoothlife-panel/preset"
)

type presetList struct {
	Presets      []preset.Preset `json:"presets"`
	RecentlyUsed []string        `json:"recentlyUsed"`
}

func (h *handler) getPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, presetList{
		Presets:      h.panel.Presets(),
		RecentlyUsed: h.panel.RecentPresets(),
	})
}

func (h *handler) savePreset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		Thumbnail bool   `json:"thumbnail"`
	}
	if !decode(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	p, err := h.panel.SavePreset(ctx, req.Name, req.Thumbnail)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *handler) removePreset(w http.ResponseWriter, r *http.Request) {
	if err := h.panel.RemovePreset(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) applyPreset(w http.ResponseWriter, r *http.Request) {
	p, err := h.panel.ApplyPreset(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Preset       preset.Preset `json:"preset"`
		RecentlyUsed []string      `json:"recentlyUsed"`
	}{p, h.panel.RecentPresets()})
}

func (h *handler) thumbnail(w http.ResponseWriter, r *http.Request) {
	path, err := h.panel.ThumbnailPath(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "thumbnail not found", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, path)
}
