package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"panedit/internal/events"
	"panedit/internal/layout"
	"panedit/internal/logging"
)

// recorder collects messages forwarded to the UI.
type recorder struct {
	mu   sync.Mutex
	msgs []any
}

func (r *recorder) send(msg any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) all() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any(nil), r.msgs...)
}

func newAPIServer(t *testing.T, notify func(any)) *Server {
	t.Helper()
	lm := logging.NewTestLogManager(100)
	t.Cleanup(func() { _ = lm.Close() })
	s := New(Config{Bind: "127.0.0.1", Port: 0}, notify, lm)

	st := layout.NewStore(layout.Options{})
	st.Restore(layout.Snapshot{
		Groups: []layout.GroupSnapshot{
			{ID: "g1", Tabs: []layout.TabItem{layout.Note("n1")}},
			{ID: "g2", Tabs: []layout.TabItem{layout.Board("b1")}},
		},
		ActiveGroup: "g2",
	})
	s.Publish(st.Snapshot())
	return s
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleGetLayout(t *testing.T) {
	s := newAPIServer(t, nil)

	rec := do(t, s, "GET", "/api/layout", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var snap layout.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("body is not a layout: %v", err)
	}
	if snap.ActiveGroup != "g2" || len(snap.Groups) != 2 {
		t.Errorf("layout = %+v", snap)
	}
	if snap.Groups[1].ActiveTab == nil || *snap.Groups[1].ActiveTab != layout.Board("b1") {
		t.Errorf("g2 active tab = %v", snap.Groups[1].ActiveTab)
	}
	if len(snap.Sizes) != 2 || snap.Sizes[0].Flex != 1 {
		t.Errorf("sizes = %+v", snap.Sizes)
	}
}

func TestHandleGetLayout_BeforePublish(t *testing.T) {
	lm := logging.NewTestLogManager(10)
	t.Cleanup(func() { _ = lm.Close() })
	s := New(Config{Bind: "127.0.0.1"}, nil, lm)

	rec := do(t, s, "GET", "/api/layout", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"groups":[],"activeGroup":""}` {
		t.Errorf("GET /api/layout = %d %q", rec.Code, rec.Body.String())
	}
}

func TestHandleOpenTab(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		want   any
	}{
		{
			name:   "active pane",
			body:   `{"type":"note","id":"n9"}`,
			status: http.StatusAccepted,
			want:   events.OpenTabMsg{Tab: layout.Note("n9")},
		},
		{
			name:   "explicit pane",
			body:   `{"type":"calendar","id":"c1","group":"g1"}`,
			status: http.StatusAccepted,
			want:   events.OpenTabMsg{Tab: layout.Calendar("c1"), Group: "g1"},
		},
		{name: "unknown type", body: `{"type":"sheet","id":"x"}`, status: http.StatusBadRequest},
		{name: "missing id", body: `{"type":"note"}`, status: http.StatusBadRequest},
		{name: "unknown pane", body: `{"type":"note","id":"x","group":"g7"}`, status: http.StatusNotFound},
		{name: "malformed", body: `{`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			s := newAPIServer(t, rec.send)

			resp := do(t, s, "POST", "/api/tabs", tt.body)
			if resp.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", resp.Code, tt.status, resp.Body.String())
			}
			msgs := rec.all()
			if tt.want == nil {
				if len(msgs) != 0 {
					t.Errorf("forwarded %v, want nothing", msgs)
				}
				return
			}
			if len(msgs) != 1 || msgs[0] != tt.want {
				t.Errorf("forwarded %v, want [%v]", msgs, tt.want)
			}
		})
	}
}

func TestHandleOpenTab_NoUI(t *testing.T) {
	s := newAPIServer(t, nil)
	rec := do(t, s, "POST", "/api/tabs", `{"type":"note","id":"n1"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHandleFocusGroup(t *testing.T) {
	rec := &recorder{}
	s := newAPIServer(t, rec.send)

	if resp := do(t, s, "POST", "/api/groups/g1/focus", ""); resp.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.Code)
	}
	if resp := do(t, s, "POST", "/api/groups/nope/focus", ""); resp.Code != http.StatusNotFound {
		t.Errorf("unknown group status = %d, want 404", resp.Code)
	}
	msgs := rec.all()
	if len(msgs) != 1 || msgs[0] != (events.FocusGroupMsg{Group: "g1"}) {
		t.Errorf("forwarded %v", msgs)
	}
}

func TestHandleCloseGroup(t *testing.T) {
	rec := &recorder{}
	s := newAPIServer(t, rec.send)

	if resp := do(t, s, "DELETE", "/api/groups/g2", ""); resp.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.Code)
	}
	if msgs := rec.all(); len(msgs) != 1 || msgs[0] != (events.CloseGroupMsg{Group: "g2"}) {
		t.Errorf("forwarded %v", msgs)
	}

	single := layout.NewStore(layout.Options{NewID: func() string { return "only" }})
	s.Publish(single.Snapshot())
	resp := do(t, s, "DELETE", "/api/groups/only", "")
	if resp.Code != http.StatusConflict {
		t.Errorf("closing the last pane status = %d, want 409", resp.Code)
	}
}
