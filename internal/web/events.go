// pattern: Imperative Shell

package web

import (
	"fmt"
	"net/http"
	"sync"
)

// broker numbers layout changes and wakes subscribers. A subscriber channel
// holds at most one revision, always the newest one it has not read yet.
type broker struct {
	mu     sync.Mutex
	rev    uint64
	subs   map[chan uint64]struct{}
	closed bool
}

func newBroker() *broker {
	return &broker{subs: make(map[chan uint64]struct{})}
}

// subscribe registers a subscriber. The channel is closed by cancel or when
// the broker closes.
func (b *broker) subscribe() (<-chan uint64, func()) {
	ch := make(chan uint64, 1)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subs[ch] = struct{}{}
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
	}
}

// publish advances the revision and hands it to every subscriber, replacing
// any revision still unread.
func (b *broker) publish() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rev++
	for ch := range b.subs {
		select {
		case <-ch:
		default:
		}
		ch <- b.rev
	}
	return b.rev
}

func (b *broker) revision() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rev
}

func (b *broker) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}

// handleEvents serves GET /api/events as server-sent events. Every event
// carries the layout JSON with its revision as the event id, starting with
// the current layout.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch, cancel := s.events.subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	send := func(rev uint64) {
		_, data := s.current()
		fmt.Fprintf(w, "id: %d\nevent: layout\ndata: %s\n\n", rev, data)
		flusher.Flush()
	}

	send(s.events.revision())
	for {
		select {
		case <-r.Context().Done():
			return
		case rev, ok := <-ch:
			if !ok {
				return
			}
			send(rev)
		}
	}
}
