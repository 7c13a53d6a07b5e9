package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"smoothlife-panel/api"
	"smoothlife-panel/engine"
	"smoothlife-panel/panel"
	"smoothlife-panel/preset"
	"smoothlife-panel/upload"
)

type config struct {
	Port         string
	PresetFile   string
	ThumbnailDir string
	StaticDir    string
	EngineURL    string
	EngineCmd    string
	UploadURL    string
	Debounce     time.Duration
	InitialState string
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func loadConfig() (config, error) {
	c := config{
		Port:         envOr("PORT", "8080"),
		PresetFile:   "/data/presets.json",
		ThumbnailDir: envOr("THUMBNAIL_DIR", "/data/thumbnails"),
		StaticDir:    os.Getenv("STATIC_DIR"),
		EngineURL:    os.Getenv("ENGINE_URL"),
		EngineCmd:    os.Getenv("ENGINE_CMD"),
		UploadURL:    os.Getenv("UPLOAD_URL"),
		InitialState: os.Getenv("INITIAL_STATE"),
	}
	// PRESET_FILE set but empty selects in-memory storage.
	if v, ok := os.LookupEnv("PRESET_FILE"); ok {
		c.PresetFile = v
	}
	ms, err := strconv.Atoi(envOr("DEBOUNCE_MS", "200"))
	if err != nil || ms <= 0 {
		return c, fmt.Errorf("DEBOUNCE_MS: want a positive number of milliseconds, got %q", os.Getenv("DEBOUNCE_MS"))
	}
	c.Debounce = time.Duration(ms) * time.Millisecond
	return c, nil
}

// openTransport connects to the engine: a websocket URL wins over a command
// line, and with neither the in-process loopback is used.
func openTransport(c config) (engine.Transport, error) {
	switch {
	case c.EngineURL != "":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return engine.DialWS(ctx, c.EngineURL)
	case c.EngineCmd != "":
		fields := strings.Fields(c.EngineCmd)
		return engine.SpawnProcess(fields[0], fields[1:]...)
	}
	log.Printf("no ENGINE_URL or ENGINE_CMD set, using loopback engine")
	return engine.NewLoopback(), nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var storage preset.Storage
	if cfg.PresetFile != "" {
		storage = preset.NewFileStorage(cfg.PresetFile)
	}
	store := preset.NewStore(storage)
	go func() {
		if err := store.Load(); err != nil {
			log.Printf("failed to load presets: %v", err)
		}
	}()

	transport, err := openTransport(cfg)
	if err != nil {
		log.Fatalf("failed to start engine: %v", err)
	}
	client := engine.NewClient(transport)
	defer client.Close()

	p := panel.New(client, store, panel.Options{Delay: cfg.Debounce, ThumbnailDir: cfg.ThumbnailDir})
	defer p.Close()
	if err := p.Start(cfg.InitialState); err != nil {
		log.Fatalf("failed to initialise engine: %v", err)
	}

	var staticFS fs.FS
	if cfg.StaticDir != "" {
		staticFS = os.DirFS(cfg.StaticDir)
	}
	router := api.RegisterRoutes(p, client, upload.New(cfg.UploadURL), staticFS, 0)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("smoothlife-panel listening on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
