package web

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"time"

	"github.com/odemirel/turretgo/internal/link"
	"github.com/odemirel/turretgo/internal/logic/control"
)

// CommandSink accepts locally generated wire bytes and feeds them into the
// control loop's inbound stream (see link.InjectPort).
type CommandSink interface {
	Push(b []byte)
}

// StateFunc returns a snapshot of the actuator state.
type StateFunc func() control.Snapshot

// Command is the POST /command request body. Commands go through the same
// 4-byte wire protocol as the serial link, so the web UI cannot do
// anything a serial host could not.
type Command struct {
	Actuator string `json:"actuator"` // "servo" or "stepper"
	Angle    int    `json:"angle"`    // 0-255, clamped downstream per actuator
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	Broadcaster *StatusBroadcaster
	Sink        CommandSink
	State       StateFunc
	staticFS    fs.FS
}

// NewHandlers creates handlers with the given dependencies.
// If sink is nil, POST /command returns 503 Service Unavailable.
func NewHandlers(broadcaster *StatusBroadcaster, sink CommandSink, state StateFunc, staticFS fs.FS) *Handlers {
	return &Handlers{
		Broadcaster: broadcaster,
		Sink:        sink,
		State:       state,
		staticFS:    staticFS,
	}
}

// ServeIndex serves the main HTML page (root path only).
func (h *Handlers) ServeIndex(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(h.staticFS, "index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// HandleState returns the current actuator state as JSON.
func (h *Handlers) HandleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.State())
}

// HandleCommand handles POST /command: validates the request, encodes it
// as a protocol frame and injects it into the control loop's input.
func (h *Handlers) HandleCommand(w http.ResponseWriter, r *http.Request) {
	var cmd Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	var code byte
	switch cmd.Actuator {
	case "servo":
		code = link.CmdServo
	case "stepper":
		code = link.CmdStepper
	default:
		http.Error(w, "actuator must be \"servo\" or \"stepper\"", http.StatusBadRequest)
		return
	}
	if cmd.Angle < 0 || cmd.Angle > 255 {
		http.Error(w, "angle must be between 0 and 255", http.StatusBadRequest)
		return
	}

	if h.Sink == nil {
		http.Error(w, "command input not configured", http.StatusServiceUnavailable)
		return
	}
	h.Sink.Push(link.Encode(code, byte(cmd.Angle)))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "queued"})
}

// HandleStatusStream handles GET /status/stream for SSE.
func (h *Handlers) HandleStatusStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx

	ch, unsub := h.Broadcaster.Subscribe()
	defer unsub()

	// Send initial comment to establish connection
	w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	// Heartbeat while idle
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()

		case <-ticker.C:
			w.Write([]byte(": heartbeat\n\n"))
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
