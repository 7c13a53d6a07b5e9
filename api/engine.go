package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"smoothlife-panel/palette"
	"smoothlife-panel/params"
)

func (h *handler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.panel.Clear(0); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) splat(w http.ResponseWriter, r *http.Request) {
	if err := h.panel.Splat(); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) fullscreen(w http.ResponseWriter, r *http.Request) {
	var req struct {
		On bool `json:"on"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.respondState(w, h.panel.SetFullscreen(req.On))
}

func (h *handler) runOptions(w http.ResponseWriter, r *http.Request) {
	o := h.panel.State().Run
	if !decode(w, r, &o) {
		return
	}
	h.respondState(w, h.panel.SetRunOptions(o))
}

func (h *handler) drawOptions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode params.DrawMode `json:"mode"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.respondState(w, h.panel.SetDrawOptions(req.Mode))
}

func (h *handler) screenshot(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := strings.ToUpper(q.Get("format"))
	if format == "" {
		format = params.FormatPNG
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	data, err := h.engine.Screenshot(ctx, format, q["op"]...)
	if err != nil {
		writeError(w, err)
		return
	}
	if format == params.FormatJPEG {
		w.Header().Set("Content-Type", "image/jpeg")
	} else {
		w.Header().Set("Content-Type", "image/png")
	}
	_, _ = w.Write(data)
}

func (h *handler) buffer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	data, err := h.engine.GetBuffer(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

func (h *handler) engineLog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(h.engine.Log())
}

// upload sends the current parameters and the raw grid to the gallery.
func (h *handler) upload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	st := h.panel.State()
	values, err := json.Marshal(struct {
		Kernel   params.Kernel   `json:"kernel"`
		Smoother params.Smoother `json:"smoother"`
		Palette  palette.Palette `json:"palette"`
	}{st.Kernel, st.Smoother, st.Palette})
	if err != nil {
		writeError(w, err)
		return
	}
	buf, err := h.engine.GetBuffer(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.uploader.Upload(ctx, req.Name, values, buf); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
