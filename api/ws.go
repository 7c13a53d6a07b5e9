package api

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"smoothlife-panel/engine"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsMessage struct {
	Type   string  `json:"type"`
	FPS    float64 `json:"fps,omitempty"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
}

// handleWS streams engine telemetry to one viewer at a time and accepts
// viewport resizes from it.
func (h *handler) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WS upgrade error: %v", err)
		return
	}
	defer conn.Close()

	// gorilla/websocket forbids concurrent writes.
	var writeMu sync.Mutex
	writeMsg := func(msg wsMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(msg)
	}

	telemetry := make(chan engine.Telemetry, 16)
	kick := h.engine.SetListener(telemetry) // kicks any prior viewer
	defer h.engine.ClearListener(telemetry)

	// Exits when ClearListener closes the channel.
	go func() {
		for t := range telemetry {
			if err := writeMsg(wsMessage{Type: "fps", FPS: t.FPS}); err != nil {
				return
			}
		}
	}()

	// Close the connection on engine exit or displacement so ReadJSON
	// below unblocks.
	connDone := make(chan struct{})
	go func() {
		select {
		case <-h.engine.Done():
			writeMsg(wsMessage{Type: "closed"}) //nolint:errcheck
			conn.Close()
		case <-kick:
			conn.Close()
		case <-connDone:
		}
	}()
	defer close(connDone)

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "resize":
			if msg.Width > 0 && msg.Height > 0 {
				if err := h.engine.Resize(msg.Width, msg.Height); err != nil {
					log.Printf("engine resize error: %v", err)
				}
			}
		}
	}
}
