// pattern: Imperative Shell

// Package web serves the remote control API of a running instance. It reads
// only the last published layout and forwards every mutation to the UI event
// loop, which stays the single writer of the layout.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"panedit/internal/layout"
	"panedit/internal/logging"
)

// Config is where the API listens. Port 0 picks a free port.
type Config struct {
	Bind string
	Port int
}

// Server is the remote control API.
type Server struct {
	http     *http.Server
	addr     string
	listener net.Listener
	notify   func(any)
	logger   *logging.ScopedLogger
	events   *broker

	mu       sync.RWMutex
	snapshot layout.Snapshot
	encoded  []byte
}

// New builds a server. notify delivers mutation messages to the UI, usually
// tea.Program.Send; a nil notify makes every mutation answer 503.
func New(cfg Config, notify func(any), logProvider logging.LoggerProvider) *Server {
	s := &Server{
		addr:    net.JoinHostPort(cfg.Bind, fmt.Sprint(cfg.Port)),
		notify:  notify,
		logger:  logProvider.For("web"),
		events:  newBroker(),
		encoded: []byte(`{"groups":[],"activeGroup":""}`),
	}
	s.http = &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/events", s.handleEvents)
	mux.HandleFunc("GET /api/layout", s.handleGetLayout)
	mux.HandleFunc("GET /api/layout/stream", s.handleLayoutStream)
	mux.HandleFunc("POST /api/tabs", s.handleOpenTab)
	mux.HandleFunc("POST /api/groups/{id}/focus", s.handleFocusGroup)
	mux.HandleFunc("DELETE /api/groups/{id}", s.handleCloseGroup)
	return mux
}

// Publish stores snap as the served layout and wakes streaming clients.
// Called from the UI event loop after every layout change.
func (s *Server) Publish(snap layout.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error("failed to encode layout", "error", err)
		return
	}
	s.mu.Lock()
	s.snapshot, s.encoded = snap, data
	s.mu.Unlock()
	s.events.publish()
}

func (s *Server) current() (layout.Snapshot, []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.encoded
}

// Listen binds the configured address. Splitting Listen from Serve lets the
// caller record the real address before serving.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("web server listen: %w", err)
	}
	s.listener = ln
	return ln, nil
}

// Serve blocks serving ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("web server started", "addr", ln.Addr().String())
	return s.http.Serve(ln)
}

// Addr is the bound address after Listen, the configured one before.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Handler returns the request router.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Shutdown ends open streams and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("web server shutting down")
	s.events.close()
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
