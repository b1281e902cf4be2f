// pattern: Imperative Shell

package web

import (
	"encoding/json"
	"net/http"
	"slices"

	"panedit/internal/events"
	"panedit/internal/layout"
)

// OpenTabRequest is the body of POST /api/tabs.
type OpenTabRequest struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Group string `json:"group,omitempty"`
}

// handleGetLayout handles GET /api/layout.
// Returns the last published layout snapshot.
func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	_, data := s.current()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleOpenTab handles POST /api/tabs.
// Validates the request and queues the open on the UI event loop. Returns
// 202 because the layout changes asynchronously; watch the stream for the
// result.
func (s *Server) handleOpenTab(w http.ResponseWriter, r *http.Request) {
	var req OpenTabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	kind, err := layout.ParseKind(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	if req.Group != "" && !s.hasGroup(req.Group) {
		writeError(w, http.StatusNotFound, "group not found")
		return
	}

	tab := layout.NewTab(kind, req.ID)
	if !s.send(w, events.OpenTabMsg{Tab: tab, Group: req.Group}) {
		return
	}
	s.logger.Info("open tab requested", "tab", tab.Key(), "group", req.Group)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued", "tab": tab.Key()})
}

// handleFocusGroup handles POST /api/groups/{id}/focus.
func (s *Server) handleFocusGroup(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.hasGroup(id) {
		writeError(w, http.StatusNotFound, "group not found")
		return
	}
	if !s.send(w, events.FocusGroupMsg{Group: id}) {
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// handleCloseGroup handles DELETE /api/groups/{id}.
// The last pane is never closed; that is reported as a conflict.
func (s *Server) handleCloseGroup(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap, _ := s.current()
	if !s.hasGroup(id) {
		writeError(w, http.StatusNotFound, "group not found")
		return
	}
	if len(snap.Groups) <= 1 {
		writeError(w, http.StatusConflict, "cannot close the last pane")
		return
	}
	if !s.send(w, events.CloseGroupMsg{Group: id}) {
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *Server) hasGroup(id string) bool {
	snap, _ := s.current()
	return slices.ContainsFunc(snap.Groups, func(g layout.GroupSnapshot) bool { return g.ID == id })
}

// send forwards msg to the UI. Writes a 503 and returns false when no UI is
// attached.
func (s *Server) send(w http.ResponseWriter, msg any) bool {
	if s.notify == nil {
		writeError(w, http.StatusServiceUnavailable, "no interface attached")
		return false
	}
	s.notify(msg)
	return true
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
