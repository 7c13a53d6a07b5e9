package api

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"smoothlife-panel/engine"
	"smoothlife-panel/panel"
	"smoothlife-panel/upload"
)

// DefaultRequestTimeout bounds requests that wait for an engine reply.
const DefaultRequestTimeout = 5 * time.Second

type handler struct {
	panel    *panel.Panel
	engine   *engine.Client
	uploader *upload.Client
	timeout  time.Duration
}

// RegisterRoutes builds the router. staticFS may be nil when the UI is
// served elsewhere; timeout <= 0 selects DefaultRequestTimeout.
func RegisterRoutes(p *panel.Panel, client *engine.Client, uploader *upload.Client, staticFS fs.FS, timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	h := &handler{panel: p, engine: client, uploader: uploader, timeout: timeout}

	// Parameters
	r.Get("/api/state", h.getState)
	r.Get("/api/controls", h.getControls)
	r.Put("/api/controls/{group}/{field}", h.setControl)
	r.Put("/api/kernel", h.putKernel)
	r.Put("/api/smoother", h.putSmoother)
	r.Put("/api/brush", h.putBrush)

	// Palette
	r.Put("/api/palette", h.putPalette)
	r.Post("/api/palette/stops", h.addStop)
	r.Post("/api/palette/stops/move", h.moveStop)
	r.Put("/api/palette/stops/{index}", h.setStop)
	r.Delete("/api/palette/stops/{index}", h.removeStop)
	r.Get("/api/palette/color", h.colorAt)
	r.Get("/api/palette/preview.png", h.preview)

	// Presets
	r.Get("/api/presets", h.getPresets)
	r.Post("/api/presets", h.savePreset)
	r.Delete("/api/presets/{id}", h.removePreset)
	r.Post("/api/presets/{id}/apply", h.applyPreset)
	r.Get("/api/presets/{id}/thumbnail", h.thumbnail)

	// Engine
	r.Post("/api/engine/clear", h.clear)
	r.Post("/api/engine/splat", h.splat)
	r.Post("/api/engine/fullscreen", h.fullscreen)
	r.Post("/api/engine/run", h.runOptions)
	r.Post("/api/engine/draw", h.drawOptions)
	r.Get("/api/engine/screenshot", h.screenshot)
	r.Get("/api/engine/buffer", h.buffer)
	r.Get("/api/engine/log", h.engineLog)
	r.Post("/api/upload", h.upload)

	// WebSocket
	r.Get("/api/ws", h.handleWS)

	if staticFS != nil {
		r.Get("/", serveFile(staticFS, "index.html"))
		fileServer := http.FileServer(http.FS(staticFS))
		r.Get("/css/*", fileServer.ServeHTTP)
		r.Get("/js/*", fileServer.ServeHTTP)
		r.Get("/img/*", fileServer.ServeHTTP)
	}

	return r
}

// serveFile returns a handler that reads a single file from fsys and sends it.
// http.FileServer would redirect a path ending in index.html.
func serveFile(fsys fs.FS, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	}
}
