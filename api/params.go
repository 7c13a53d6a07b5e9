package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"smoothlife-panel/dispatch"
	"smoothlife-panel/palette"
	"smoothlife-panel/panel"
	"smoothlife-panel/params"
)

type stateResponse struct {
	panel.State
	Share string  `json:"share"`
	FPS   float64 `json:"fps"`
}

func (h *handler) state() stateResponse {
	return stateResponse{State: h.panel.State(), Share: h.panel.ShareState(), FPS: h.engine.FPS()}
}

// respondState answers a mutation with the resulting state.
func (h *handler) respondState(w http.ResponseWriter, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.state())
}

func (h *handler) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.state())
}

func (h *handler) getControls(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.panel.Controls())
}

func (h *handler) setControl(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value json.RawMessage `json:"value"`
	}
	if !decode(w, r, &req) {
		return
	}
	if len(req.Value) == 0 {
		http.Error(w, "missing value", http.StatusBadRequest)
		return
	}
	group := dispatch.Group(chi.URLParam(r, "group"))
	h.respondState(w, h.panel.SetControl(group, chi.URLParam(r, "field"), string(req.Value)))
}

func (h *handler) putKernel(w http.ResponseWriter, r *http.Request) {
	var k params.Kernel
	if !decode(w, r, &k) {
		return
	}
	h.respondState(w, h.panel.SetKernel(k))
}

func (h *handler) putSmoother(w http.ResponseWriter, r *http.Request) {
	var s params.Smoother
	if !decode(w, r, &s) {
		return
	}
	h.respondState(w, h.panel.SetSmoother(s))
}

func (h *handler) putBrush(w http.ResponseWriter, r *http.Request) {
	var b params.Brush
	if !decode(w, r, &b) {
		return
	}
	h.respondState(w, h.panel.SetBrush(b))
}

func (h *handler) putPalette(w http.ResponseWriter, r *http.Request) {
	var p palette.Palette
	if !decode(w, r, &p) {
		return
	}
	if p.Stops == nil {
		p.Stops = []palette.ColorStop{}
	}
	h.respondState(w, h.panel.SetPalette(p))
}

func (h *handler) addStop(w http.ResponseWriter, r *http.Request) {
	h.respondState(w, h.panel.AddStop())
}

func stopIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid stop index", http.StatusBadRequest)
		return 0, false
	}
	return i, true
}

func (h *handler) setStop(w http.ResponseWriter, r *http.Request) {
	i, ok := stopIndex(w, r)
	if !ok {
		return
	}
	var s palette.ColorStop
	if !decode(w, r, &s) {
		return
	}
	h.respondState(w, h.panel.SetStop(i, s))
}

func (h *handler) removeStop(w http.ResponseWriter, r *http.Request) {
	i, ok := stopIndex(w, r)
	if !ok {
		return
	}
	h.respondState(w, h.panel.RemoveStop(i))
}

func (h *handler) moveStop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.respondState(w, h.panel.MoveStop(req.From, req.To))
}

func (h *handler) colorAt(w http.ResponseWriter, r *http.Request) {
	v, err := strconv.ParseFloat(r.URL.Query().Get("value"), 64)
	if err != nil {
		http.Error(w, "invalid value", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"value": v, "color": h.panel.ColorAt(v)})
}

const maxPreviewSide = 2048

func (h *handler) preview(w http.ResponseWriter, r *http.Request) {
	width, height := 256, 16
	q := r.URL.Query()
	for name, dst := range map[string]*int{"width": &width, "height": &height} {
		s := q.Get(name)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxPreviewSide {
			http.Error(w, "invalid "+name, http.StatusBadRequest)
			return
		}
		*dst = n
	}
	data, err := h.panel.Preview(width, height)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(data)
}
