package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"panedit/internal/docs"
	"panedit/internal/drag"
	"panedit/internal/events"
	"panedit/internal/layout"
	"panedit/internal/logging"
)

func altRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

func TestHandleKey_LayoutActions(t *testing.T) {
	tests := []struct {
		name   string
		keys   []tea.KeyMsg
		groups []string
		active string
		check  func(t *testing.T, m Model)
	}{
		{
			name:   "split moves shown tab right of its pane",
			keys:   []tea.KeyMsg{{Type: tea.KeyCtrlBackslash}},
			groups: []string{"g1", "new1", "g2"},
			active: "new1",
			check: func(t *testing.T, m Model) {
				if got := tabs(t, m, "new1"); !equal(got, []string{"n1"}) {
					t.Errorf("new pane tabs = %v", got)
				}
			},
		},
		{
			name:   "focus right",
			keys:   []tea.KeyMsg{{Type: tea.KeyCtrlRight, Alt: true}},
			groups: []string{"g1", "g2"},
			active: "g2",
		},
		{
			name:   "focus left stops at the first pane",
			keys:   []tea.KeyMsg{{Type: tea.KeyCtrlLeft, Alt: true}},
			groups: []string{"g1", "g2"},
			active: "g1",
		},
		{
			name:   "next tab",
			keys:   []tea.KeyMsg{altRune(']')},
			groups: []string{"g1", "g2"},
			active: "g1",
			check: func(t *testing.T, m Model) {
				if g := m.store.ActiveGroup(); g.Active != layout.Note("n2") {
					t.Errorf("shown = %s, want note:n2", g.Active)
				}
			},
		},
		{
			name:   "prev tab wraps",
			keys:   []tea.KeyMsg{{Type: tea.KeyCtrlPgUp}},
			groups: []string{"g1", "g2"},
			active: "g1",
			check: func(t *testing.T, m Model) {
				if g := m.store.ActiveGroup(); g.Active != layout.Note("n2") {
					t.Errorf("shown = %s, want note:n2", g.Active)
				}
			},
		},
		{
			name:   "move tab right appends to neighbour",
			keys:   []tea.KeyMsg{{Type: tea.KeyShiftRight, Alt: true}},
			groups: []string{"g1", "g2"},
			active: "g2",
			check: func(t *testing.T, m Model) {
				if got := tabs(t, m, "g2"); !equal(got, []string{"n3", "n1"}) {
					t.Errorf("g2 tabs = %v", got)
				}
			},
		},
		{
			name:   "move sole tab right from last pane replaces the pane",
			keys:   []tea.KeyMsg{{Type: tea.KeyCtrlRight, Alt: true}, {Type: tea.KeyShiftRight, Alt: true}},
			groups: []string{"g1", "new1"},
			active: "new1",
		},
		{
			name:   "move tab left from first pane does nothing",
			keys:   []tea.KeyMsg{{Type: tea.KeyShiftLeft, Alt: true}},
			groups: []string{"g1", "g2"},
			active: "g1",
			check: func(t *testing.T, m Model) {
				if got := tabs(t, m, "g1"); !equal(got, []string{"n1", "n2"}) {
					t.Errorf("g1 tabs = %v", got)
				}
			},
		},
		{
			name:   "close tab shows the next one",
			keys:   []tea.KeyMsg{{Type: tea.KeyCtrlW}},
			groups: []string{"g1", "g2"},
			active: "g1",
			check: func(t *testing.T, m Model) {
				if g := m.store.ActiveGroup(); g.Active != layout.Note("n2") || len(g.Tabs) != 1 {
					t.Errorf("g1 = %+v", g)
				}
			},
		},
		{
			name:   "closing the last tab removes the pane",
			keys:   []tea.KeyMsg{{Type: tea.KeyCtrlRight, Alt: true}, {Type: tea.KeyCtrlW}},
			groups: []string{"g1"},
			active: "g1",
		},
		{
			name:   "close others",
			keys:   []tea.KeyMsg{altRune('w')},
			groups: []string{"g1", "g2"},
			active: "g1",
			check: func(t *testing.T, m Model) {
				if got := tabs(t, m, "g1"); !equal(got, []string{"n1"}) {
					t.Errorf("g1 tabs = %v", got)
				}
			},
		},
		{
			name:   "close pane focuses the left neighbour",
			keys:   []tea.KeyMsg{{Type: tea.KeyCtrlRight, Alt: true}, altRune('x')},
			groups: []string{"g1"},
			active: "g1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			for _, k := range tt.keys {
				m, _ = send(m, k)
			}
			if got := m.store.GroupIDs(); !equal(got, tt.groups) {
				t.Errorf("panes = %v, want %v", got, tt.groups)
			}
			if got := m.store.ActiveGroupID(); got != tt.active {
				t.Errorf("active = %s, want %s", got, tt.active)
			}
			if tt.check != nil {
				tt.check(t, m)
			}
			if err := m.store.Verify(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestHandleKey_ClosingLastPaneIsRefused(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlRight, Alt: true}, altRune('x'), altRune('x'))

	if m.store.Len() != 1 {
		t.Fatalf("panes = %d, want 1", m.store.Len())
	}
	if !strings.Contains(m.statusMessage, "last pane") {
		t.Errorf("status = %q, want an explanation", m.statusMessage)
	}
}

func TestHandleKey_SplitAtPaneLimit(t *testing.T) {
	m := newTestModelWith(t, newTestStore(t, 2))
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlBackslash})

	if m.store.Len() != 2 {
		t.Errorf("panes = %d, want 2", m.store.Len())
	}
	if m.statusMessage != "Pane limit reached (2)" {
		t.Errorf("status = %q", m.statusMessage)
	}
}

func TestHandleKey_Quit(t *testing.T) {
	m := newTestModel(t)

	_, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlD})
	if cmd == nil {
		t.Fatal("ctrl+d should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+d should return tea.Quit")
	}
}

func TestHandleKey_DoubleCtrlC(t *testing.T) {
	m := newTestModel(t)

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.statusMessage != quitHint {
		t.Errorf("status = %q, want quit hint", m.statusMessage)
	}
	if cmd == nil {
		t.Fatal("first ctrl+c should schedule clearing the hint")
	}

	_, cmd = send(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("second ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("second ctrl+c should return tea.Quit")
	}
}

func TestHandleKey_SlowCtrlCDoesNotQuit(t *testing.T) {
	m := newTestModel(t)
	m.lastCtrlCTime = time.Now().Add(-time.Second)

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.statusMessage != quitHint {
		t.Errorf("status = %q, want quit hint again", m.statusMessage)
	}
}

func TestClearStatusMsg(t *testing.T) {
	m := newTestModel(t)

	m.setInfo(quitHint)
	m, _ = send(m, clearStatusMsg{})
	if m.statusMessage != "" {
		t.Errorf("quit hint should clear, got %q", m.statusMessage)
	}

	m.setSuccess("Created \"x\"")
	m, _ = send(m, clearStatusMsg{})
	if m.statusMessage == "" {
		t.Error("other messages must not be cleared")
	}
}

func TestEscape_ClearsError(t *testing.T) {
	m := newTestModel(t)
	m.setError("Failed", errors.New("boom"))

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.statusMessage != "" || m.err != nil {
		t.Errorf("status = %q, err = %v", m.statusMessage, m.err)
	}
}

func TestRemoteMessages(t *testing.T) {
	m := newTestModel(t)

	m, _ = send(m, events.OpenTabMsg{Tab: layout.Board("b1"), Group: "g2"})
	if got := tabs(t, m, "g2"); !equal(got, []string{"n3", "b1"}) {
		t.Errorf("g2 tabs = %v", got)
	}
	if m.store.ActiveGroupID() != "g2" {
		t.Errorf("active = %s, want g2", m.store.ActiveGroupID())
	}

	m, _ = send(m, events.FocusGroupMsg{Group: "g1"})
	if m.store.ActiveGroupID() != "g1" {
		t.Errorf("active = %s, want g1", m.store.ActiveGroupID())
	}

	m, _ = send(m, events.CloseGroupMsg{Group: "g2"})
	if got := m.store.GroupIDs(); !equal(got, []string{"g1"}) {
		t.Errorf("panes = %v", got)
	}

	m, _ = send(m, events.WebListenURLMsg{URL: "http://127.0.0.1:4100"})
	if !strings.Contains(m.View(), "127.0.0.1:4100") {
		t.Error("header should show the listen address")
	}
}

func TestDocChanged(t *testing.T) {
	m := newTestModel(t)
	r := m.content.(*fakeRenderer)

	m, _ = send(m, docChangedMsg{change: docs.Change{ID: "n1", Op: docs.Changed}})
	if got := tabs(t, m, "g1"); !equal(got, []string{"n1", "n2"}) {
		t.Errorf("edit must not close tabs, g1 = %v", got)
	}

	m, _ = send(m, docChangedMsg{change: docs.Change{ID: "n3", Op: docs.Removed}})
	if got := m.store.GroupIDs(); !equal(got, []string{"g1"}) {
		t.Errorf("panes = %v, want g2 gone with its only tab", got)
	}
	if !equal(r.invalidated, []string{"n1", "n3"}) {
		t.Errorf("invalidated = %v", r.invalidated)
	}
}

func TestDocRemoved_CancelsDragOfThatTab(t *testing.T) {
	m := newTestModel(t)

	m, _ = send(m, press(2, 1), move(47, 1))
	m, _ = send(m, docChangedMsg{change: docs.Change{ID: "n1", Op: docs.Removed}})

	if m.drag.Dragging() {
		t.Error("drag of a deleted document should end")
	}
	if got := tabs(t, m, "g1"); !equal(got, []string{"n2"}) {
		t.Errorf("g1 tabs = %v", got)
	}
}

func TestDocRemoved_KeepsBoardWithSameID(t *testing.T) {
	m := newTestModel(t)
	if !m.store.OpenTab(layout.Board("n1"), "g2") {
		t.Fatal("OpenTab(board) = false")
	}

	m, _ = send(m, docChangedMsg{change: docs.Change{ID: "n1", Op: docs.Removed}})

	g1, _ := m.store.Group("g1")
	if g1.IndexOf(layout.Note("n1")) >= 0 {
		t.Error("note tab of a deleted document should close")
	}
	g2, _ := m.store.Group("g2")
	if g2.IndexOf(layout.Board("n1")) < 0 {
		t.Errorf("board tab sharing the id should stay, g2 = %v", tabs(t, m, "g2"))
	}
}

func TestPicker_OpensSelection(t *testing.T) {
	m := newTestModel(t)
	store := m.docs
	doc, err := store.Create("Groceries", "")
	if err != nil {
		t.Fatal(err)
	}

	_, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if cmd == nil {
		t.Fatal("ctrl+o should list documents")
	}
	listed, ok := cmd().(docsListedMsg)
	if !ok || len(listed.docs) != 1 {
		t.Fatalf("listing = %#v", listed)
	}

	m, _ = send(m, listed)
	if m.picker == nil {
		t.Fatal("picker should open")
	}
	if !strings.Contains(m.View(), "Groceries") {
		t.Error("picker should list the document")
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.picker != nil {
		t.Error("enter should close the picker")
	}
	if g := m.store.ActiveGroup(); g.ID != "g1" || g.Active != doc.Tab() {
		t.Errorf("active = %s/%s, want the picked note in g1", g.ID, g.Active)
	}
}

func TestPicker_EscapeCloses(t *testing.T) {
	m := newTestModel(t)

	m, _ = send(m, docsListedMsg{})
	if m.picker == nil {
		t.Fatal("picker should open on an empty listing")
	}
	m, _ = send(m, press(2, 1))
	if m.drag.State() != drag.Idle {
		t.Error("mouse must be ignored while the picker is open")
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEscape})
	if m.picker != nil {
		t.Error("esc should close the picker")
	}
	if got := tabs(t, m, "g1"); !equal(got, []string{"n1", "n2"}) {
		t.Errorf("g1 tabs = %v", got)
	}
}

func TestListingError(t *testing.T) {
	m := newTestModel(t)

	m, _ = send(m, docsListedMsg{err: errors.New("denied")})
	if m.picker != nil || m.statusLevel != StatusError {
		t.Errorf("picker %v, status %v", m.picker != nil, m.statusLevel)
	}
}

func TestNewNote(t *testing.T) {
	m := newTestModel(t)

	_, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if cmd == nil {
		t.Fatal("ctrl+n should create a note")
	}
	created, ok := cmd().(noteCreatedMsg)
	if !ok || created.err != nil {
		t.Fatalf("create = %#v", created)
	}

	m, _ = send(m, created)
	g := m.store.ActiveGroup()
	if g.ID != "g1" || g.Active != created.doc.Tab() {
		t.Errorf("active = %s/%s, want the new note in g1", g.ID, g.Active)
	}
	if m.statusLevel != StatusSuccess {
		t.Errorf("status level = %v, want success", m.statusLevel)
	}
}

func TestLogEntries_SurfaceErrorsFromOtherScopes(t *testing.T) {
	tests := []struct {
		name    string
		entry   logging.LogEntry
		wantMsg string
	}{
		{"web error", logging.LogEntry{Level: "ERROR", Scope: "web", Message: "listen failed"}, "[web] listen failed"},
		{"info ignored", logging.LogEntry{Level: "INFO", Scope: "web", Message: "started"}, ""},
		{"own errors ignored", logging.LogEntry{Level: "ERROR", Scope: "tui", Message: "x"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			m, _ = send(m, logEntriesMsg{entries: []logging.LogEntry{tt.entry}})
			if m.statusMessage != tt.wantMsg {
				t.Errorf("status = %q, want %q", m.statusMessage, tt.wantMsg)
			}
		})
	}
}
