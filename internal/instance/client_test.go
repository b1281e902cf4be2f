package instance

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_Layout(t *testing.T) {
	want := `{"groups":[],"activeGroup":""}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/layout" && r.Method == "GET" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(want))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	got, err := client.Layout()
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if string(got) != want {
		t.Fatalf("Layout() = %q, want %q", string(got), want)
	}
}

func TestClient_Layout_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal error"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Layout()
	if err == nil {
		t.Fatal("Layout() should fail on server error")
	}
	if !strings.Contains(err.Error(), "internal error") {
		t.Errorf("error = %v, want body in message", err)
	}
}

func TestClient_OpenTab(t *testing.T) {
	var got OpenTabRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tabs" || r.Method != "POST" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"status":"queued"}`))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).OpenTab("board", "b1", "g2"); err != nil {
		t.Fatalf("OpenTab() error: %v", err)
	}
	if got != (OpenTabRequest{Type: "board", ID: "b1", Group: "g2"}) {
		t.Errorf("request body = %+v", got)
	}
}

func TestClient_GroupCommands(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.URL.Path == "/api/groups/missing/focus" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"group not found"}`))
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.FocusGroup("g1"); err != nil {
		t.Fatalf("FocusGroup() error: %v", err)
	}
	if _, err := client.CloseGroup("g2"); err != nil {
		t.Fatalf("CloseGroup() error: %v", err)
	}
	_, err := client.FocusGroup("missing")
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound || se.Message != "group not found" {
		t.Errorf("FocusGroup(missing) error = %v", err)
	}
	if err.Error() != "panedit returned status 404: group not found" {
		t.Errorf("Error() = %q", err.Error())
	}

	want := []string{"POST /api/groups/g1/focus", "DELETE /api/groups/g2", "POST /api/groups/missing/focus"}
	if strings.Join(calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestExtractErrorMessage(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"error":"bad"}`, "bad"},
		{`{"other":"x"}`, `{"other":"x"}`},
		{`plain`, "plain"},
		{"trailing newline\n", "trailing newline"},
	}
	for _, tt := range tests {
		if got := extractErrorMessage([]byte(tt.body)); got != tt.want {
			t.Errorf("extractErrorMessage(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
}
