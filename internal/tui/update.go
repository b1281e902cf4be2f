// pattern: Imperative Shell

package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"panedit/internal/docs"
	"panedit/internal/drag"
	"panedit/internal/events"
	"panedit/internal/layout"
	"panedit/internal/logging"
)

// doubleCtrlCWindow is the maximum time between two ctrl+c presses to trigger quit.
const doubleCtrlCWindow = 500 * time.Millisecond

// quitHint is shown after a single ctrl+c.
const quitHint = "ctrl+c ctrl+c to quit"

// logEntriesMsg delivers log entries from the logging channel.
type logEntriesMsg struct {
	entries []logging.LogEntry
}

// docChangedMsg reports a file change in the notes directory.
type docChangedMsg struct {
	change docs.Change
}

// docsListedMsg carries the documents for the picker.
type docsListedMsg struct {
	docs []docs.Document
	err  error
}

// noteCreatedMsg is sent when a new note has been written.
type noteCreatedMsg struct {
	doc docs.Document
	err error
}

// clearStatusMsg is sent after a timed delay to clear the status bar.
type clearStatusMsg struct{}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.picker != nil {
			m.picker.setSize(pickerSize(m.width, m.height))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case events.OpenTabMsg:
		if !m.store.OpenTab(msg.Tab, msg.Group) {
			m.logger.Debug("remote open had no effect", "tab", msg.Tab.Key(), "group", msg.Group)
		}
		return m, nil

	case events.FocusGroupMsg:
		m.store.FocusGroup(msg.Group)
		return m, nil

	case events.CloseGroupMsg:
		m.store.CloseGroup(msg.Group)
		return m, nil

	case events.WebListenURLMsg:
		m.listenURLs = append(m.listenURLs, msg.URL)
		return m, nil

	case docChangedMsg:
		m.applyDocChange(msg.change)
		return m, m.waitForDocChange()

	case docsListedMsg:
		if msg.err != nil {
			m.logger.Error("failed to list documents", "error", msg.err)
			m.setError("Failed to list documents", msg.err)
			return m, nil
		}
		w, h := pickerSize(m.width, m.height)
		m.picker = newPicker(m.styles, toListItems(msg.docs, m.store), w, h)
		return m, nil

	case noteCreatedMsg:
		if msg.err != nil {
			m.logger.Error("failed to create note", "error", msg.err)
			m.setError("Failed to create note", msg.err)
			return m, nil
		}
		m.content.Invalidate(msg.doc.ID)
		m.store.OpenTab(msg.doc.Tab(), "")
		m.setSuccess(fmt.Sprintf("Created %q", msg.doc.Title))
		return m, nil

	case logEntriesMsg:
		for _, entry := range msg.entries {
			if !entry.Severe() || entry.Scope == "tui" {
				continue
			}
			m.statusLevel = StatusError
			m.statusMessage = entry.Summary()
			m.err = nil
		}
		return m, m.consumeLogEntries()

	case clearStatusMsg:
		// Only clear if still showing the quit hint (don't clobber other status)
		if m.statusLevel == StatusInfo && m.statusMessage == quitHint {
			m.clearStatus()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logger.Debug("key pressed", "key", msg.String(), "drag", m.drag.State().String(), "pickerOpen", m.picker != nil)

	// Handle quit shortcuts first (ctrl+d always, ctrl+c double-press)
	if key.Matches(msg, m.keys.Quit) {
		m.logger.Debug("quit via key", "key", msg.String())
		return m, tea.Quit
	}
	if msg.Type == tea.KeyCtrlC {
		now := time.Now()
		if !m.lastCtrlCTime.IsZero() && now.Sub(m.lastCtrlCTime) <= doubleCtrlCWindow {
			m.logger.Debug("quit via double ctrl+c")
			return m, tea.Quit
		}
		m.lastCtrlCTime = now
		m.statusLevel = StatusInfo
		m.statusMessage = quitHint
		return m, tea.Tick(2*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
	}

	if m.picker != nil {
		return m.handlePickerKey(msg)
	}

	if key.Matches(msg, m.keys.Cancel) {
		if cmd, ok := m.cancelGesture(); ok {
			return m, cmd
		}
		if m.statusLevel == StatusError {
			m.clearStatus()
		}
		return m, nil
	}

	// Layout keys are ignored mid-gesture so the dragged tab cannot vanish
	// under the pointer.
	if m.drag.State() != drag.Idle || m.resize != nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Split):
		m.splitActive()
	case key.Matches(msg, m.keys.FocusLeft):
		m.store.FocusAdjacent(-1)
	case key.Matches(msg, m.keys.FocusRight):
		m.store.FocusAdjacent(1)
	case key.Matches(msg, m.keys.NextTab):
		m.store.CycleTab("", 1)
	case key.Matches(msg, m.keys.PrevTab):
		m.store.CycleTab("", -1)
	case key.Matches(msg, m.keys.MoveLeft):
		m.moveActive(-1)
	case key.Matches(msg, m.keys.MoveRight):
		m.moveActive(1)
	case key.Matches(msg, m.keys.CloseTab):
		g := m.store.ActiveGroup()
		m.store.CloseTab(g.Active, g.ID)
	case key.Matches(msg, m.keys.CloseOthers):
		g := m.store.ActiveGroup()
		m.store.CloseOtherTabs(g.Active, g.ID)
	case key.Matches(msg, m.keys.ClosePane):
		if !m.store.CloseGroup(m.store.ActiveGroupID()) && m.store.Len() == 1 {
			m.setInfo("The last pane cannot be closed")
		}
	case key.Matches(msg, m.keys.Picker):
		return m, m.listDocuments()
	case key.Matches(msg, m.keys.NewNote):
		return m, m.createNote()
	}
	return m, nil
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.picker.filtering() {
		switch msg.Type {
		case tea.KeyEscape:
			m.picker = nil
			return m, nil
		case tea.KeyEnter:
			if tab, ok := m.picker.selected(); ok {
				m.store.OpenTab(tab, "")
			}
			m.picker = nil
			return m, nil
		}
	}
	return m, m.picker.update(msg)
}

// applyDocChange refreshes cached content and closes tabs whose document was
// deleted.
func (m *Model) applyDocChange(change docs.Change) {
	m.content.Invalidate(change.ID)
	if change.Op != docs.Removed {
		return
	}
	// Only note tabs are backed by files.
	tab := layout.Note(change.ID)
	for _, g := range m.store.Groups() {
		if g.IndexOf(tab) < 0 {
			continue
		}
		if m.drag.Session().Tab == tab {
			m.drag.Cancel()
		}
		m.store.CloseTab(tab, g.ID)
	}
	m.logger.Info("document removed", "id", change.ID)
}

// setError sets the status bar to an error message.
func (m *Model) setError(message string, err error) {
	m.statusLevel = StatusError
	m.statusMessage = message
	m.err = err
}

// setSuccess sets the status bar to a success message.
func (m *Model) setSuccess(message string) {
	m.statusLevel = StatusSuccess
	m.statusMessage = message
	m.err = nil
}

// setInfo sets the status bar to an informational message.
func (m *Model) setInfo(message string) {
	m.statusLevel = StatusInfo
	m.statusMessage = message
	m.err = nil
}

// clearStatus resets the status bar.
func (m *Model) clearStatus() {
	m.statusLevel = StatusInfo
	m.statusMessage = ""
	m.err = nil
}

// listDocuments returns a command that reads the notes directory for the
// picker.
func (m Model) listDocuments() tea.Cmd {
	store := m.docs
	return func() tea.Msg {
		list, err := store.List()
		return docsListedMsg{docs: list, err: err}
	}
}

// createNote returns a command that writes a new untitled note.
func (m Model) createNote() tea.Cmd {
	store := m.docs
	return func() tea.Msg {
		doc, err := store.Create("", "")
		return noteCreatedMsg{doc: doc, err: err}
	}
}

// activeTab returns the shown tab of the active pane.
func (m Model) activeTab() (layout.Group, bool) {
	g := m.store.ActiveGroup()
	return g, !g.Active.IsZero()
}
