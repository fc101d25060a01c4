// Package web provides an HTTP status and control server for the
// daylight-sensor daemon.
package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"

	"github.com/sweeney/daylight-sensor/internal/logic"
	"github.com/sweeney/daylight-sensor/internal/status"
	"github.com/sweeney/daylight-sensor/internal/world"
)

// ToggleFunc flips a detector's inverted mode. It returns the resulting
// block state, or ok=false when no detector exists at the position.
// Implementations must hand the request to the simulation loop rather
// than mutating world state directly.
type ToggleFunc func(pos world.BlockPos) (logic.Properties, bool)

// RemoveFunc removes the detector at pos, reporting whether one existed.
// Like ToggleFunc, implementations hand the request to the simulation loop.
type RemoveFunc func(pos world.BlockPos) bool

// Server serves the status page and the toggle/remove endpoints over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	toggle     ToggleFunc
	remove     RemoveFunc
}

// New creates a Server that reads state from the given tracker. toggle and
// remove may be nil, in which case their endpoints return 503.
func New(addr string, tracker *status.Tracker, toggle ToggleFunc, remove RemoveFunc) *Server {
	s := &Server{tracker: tracker, toggle: toggle, remove: remove}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/toggle", s.handleToggle)
	mux.HandleFunc("/remove", s.handleRemove)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

// toggleResponse is the JSON body returned by the toggle endpoint.
type toggleResponse struct {
	OK       bool `json:"ok"`
	X        int  `json:"x"`
	Y        int  `json:"y"`
	Z        int  `json:"z"`
	Inverted bool `json:"inverted"`
	Power    int  `json:"power"`
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.toggle == nil {
		http.Error(w, "toggle unavailable", http.StatusServiceUnavailable)
		return
	}

	pos, err := parsePos(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	props, ok := s.toggle(pos)
	if !ok {
		http.Error(w, "no detector at position", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toggleResponse{
		OK:       true,
		X:        pos.X,
		Y:        pos.Y,
		Z:        pos.Z,
		Inverted: props.Inverted,
		Power:    int(props.Power),
	})
}

// removeResponse is the JSON body returned by the remove endpoint.
type removeResponse struct {
	OK bool `json:"ok"`
	X  int  `json:"x"`
	Y  int  `json:"y"`
	Z  int  `json:"z"`
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.remove == nil {
		http.Error(w, "remove unavailable", http.StatusServiceUnavailable)
		return
	}

	pos, err := parsePos(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !s.remove(pos) {
		http.Error(w, "no detector at position", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(removeResponse{OK: true, X: pos.X, Y: pos.Y, Z: pos.Z})
}

type posError string

func (e posError) Error() string { return string(e) }

func parsePos(r *http.Request) (world.BlockPos, error) {
	q := r.URL.Query()
	var pos world.BlockPos
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"x", &pos.X},
		{"y", &pos.Y},
		{"z", &pos.Z},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			return world.BlockPos{}, posError("missing query parameter " + p.name)
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return world.BlockPos{}, posError("invalid " + p.name + ": " + raw)
		}
		*p.dst = v
	}
	return pos, nil
}
