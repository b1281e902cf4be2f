package main

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"panedit/internal/config"
	"panedit/internal/layout"
	"panedit/internal/logging"
)

func TestNewLogManager(t *testing.T) {
	dataDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.LogLevel = "debug"

	lm, err := newLogManager(dataDir, &cfg)
	if err != nil {
		t.Fatalf("newLogManager() error = %v", err)
	}
	defer lm.Close()

	logger := lm.For("app")
	logger.Info("starting")
	logger.Warn("state database unavailable")
	_ = lm.Sync()

	if _, err := os.Stat(filepath.Join(dataDir, "panedit.log")); err != nil {
		t.Errorf("log file: %v", err)
	}
	select {
	case entry := <-lm.Entries():
		if entry.Scope != "app" || entry.Message != "state database unavailable" {
			t.Errorf("status entry = %+v, want the warning only", entry)
		}
	default:
		t.Error("warning did not reach the status channel")
	}
}

func TestOpenLayout_RestoresPreviousSession(t *testing.T) {
	dataDir := t.TempDir()
	cfg := config.DefaultConfig()
	lm := logging.NewTestLogManager(100)
	defer lm.Close()

	store, state := openLayout(dataDir, &cfg, lm)
	store.OpenTab(layout.Note("n1"), "")
	store.OpenTab(layout.Board("b1"), "")
	if !store.SplitWithTab(layout.Board("b1"), store.ActiveGroupID()) {
		t.Fatal("SplitWithTab() = false")
	}
	want := store.Snapshot()
	if err := state.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	restored, state2 := openLayout(dataDir, &cfg, lm)
	defer state2.Close()

	got := restored.Snapshot()
	if len(got.Groups) != 2 || got.ActiveGroup != want.ActiveGroup {
		t.Fatalf("restored = %+v, want %+v", got, want)
	}
	for i, g := range got.Groups {
		if g.ID != want.Groups[i].ID || len(g.Tabs) != len(want.Groups[i].Tabs) {
			t.Errorf("group %d = %+v, want %+v", i, g, want.Groups[i])
		}
	}
	if err := restored.Verify(); err != nil {
		t.Error(err)
	}
}

func TestOpenLayout_HonoursPaneCap(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Layout.MaxPanes = 2
	lm := logging.NewTestLogManager(100)
	defer lm.Close()

	store, state := openLayout(t.TempDir(), &cfg, lm)
	defer state.Close()

	if store.MaxGroups() != 2 {
		t.Errorf("MaxGroups() = %d, want 2", store.MaxGroups())
	}
}

func TestStartWeb_PublishesLayoutAndWritesPort(t *testing.T) {
	dataDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Web.Bind, cfg.Web.Port = "127.0.0.1", 0
	lm, err := newLogManager(dataDir, &cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer lm.Close()

	store, state := openLayout(dataDir, &cfg, lm)
	defer state.Close()

	var sent []any
	url, stop, err := startWeb(dataDir, &cfg, store, func(msg any) { sent = append(sent, msg) }, lm)
	if err != nil {
		t.Fatalf("startWeb() error = %v", err)
	}
	defer stop()

	addr, err := os.ReadFile(filepath.Join(dataDir, "panedit.port"))
	if err != nil || "http://"+string(addr) != url {
		t.Fatalf("port file = %q (%v), want address of %s", addr, err, url)
	}

	store.OpenTab(layout.Note("n1"), "")

	resp, err := http.Get(url + "/api/layout")
	if err != nil {
		t.Fatalf("GET /api/layout: %v", err)
	}
	defer resp.Body.Close()
	var snap layout.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Groups) != 1 || len(snap.Groups[0].Tabs) != 1 || snap.Groups[0].Tabs[0] != layout.Note("n1") {
		t.Errorf("served layout = %+v, want the opened tab", snap)
	}
	if len(sent) != 0 {
		t.Errorf("unexpected messages to the UI: %v", sent)
	}
}
