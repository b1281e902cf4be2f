// pattern: Imperative Shell

package web

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

const streamWriteTimeout = 5 * time.Second

// handleLayoutStream handles GET /api/layout/stream. It upgrades to a
// websocket, sends the current layout, then sends the layout again after
// every change until the client goes away or the server shuts down. Bursts
// of changes are coalesced; a client always ends up with the latest layout.
func (s *Server) handleLayoutStream(w http.ResponseWriter, r *http.Request) {
	// Restrict to localhost origins to prevent cross-origin WebSocket attacks.
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"127.0.0.1:*", "localhost:*"},
	})
	if err != nil {
		s.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer func() { _ = conn.CloseNow() }()

	ch, cancel := s.events.subscribe()
	defer cancel()

	// The stream is write-only; CloseRead discards client frames and cancels
	// ctx once the client disconnects.
	ctx := conn.CloseRead(context.Background())

	s.logger.Debug("layout stream connected", "remote", r.RemoteAddr)
	defer s.logger.Debug("layout stream disconnected", "remote", r.RemoteAddr)

	if err := s.writeLayout(ctx, conn); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if err := s.writeLayout(ctx, conn); err != nil {
				return
			}
		}
	}
}

func (s *Server) writeLayout(ctx context.Context, conn *websocket.Conn) error {
	_, data := s.current()
	ctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
