package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"panedit/internal/drag"
)

// renderOverlay draws the dragged tab's label next to the pointer on top of
// an already rendered frame.
func (m Model) renderOverlay(frame string) string {
	if !m.drag.Dragging() {
		return frame
	}
	s := m.drag.Session()
	label := m.styles.Overlay.Render(" ⠿ " + fit(m.content.Title(s.Tab), 20) + " ")
	w := ansi.StringWidth(label)

	x := s.Pointer.X + 1
	if m.width > 0 && x+w > m.width {
		x = max(m.width-w, 0)
	}
	y := s.Pointer.Y + 1
	if m.height > 0 && y >= m.height {
		y = max(s.Pointer.Y-1, 0)
	}
	return splice(frame, label, x, y)
}

// splice overwrites the cells of line y starting at column x with label,
// keeping the styling of what remains on either side.
func splice(frame, label string, x, y int) string {
	lines := strings.Split(frame, "\n")
	if y < 0 || y >= len(lines) || x < 0 {
		return frame
	}
	line := lines[y]
	if pad := x - ansi.StringWidth(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	left := ansi.Truncate(line, x, "")
	right := ansi.TruncateLeft(line, x+ansi.StringWidth(label), "")
	lines[y] = left + ansi.ResetStyle + label + ansi.ResetStyle + right
	return strings.Join(lines, "\n")
}

// drop ends the tab gesture and applies it to the layout. The returned
// command hands mouse reporting back to button-only motion when the gesture
// had captured it.
func (m *Model) drop() tea.Cmd {
	captured := m.drag.Captured()
	s := m.drag.Release()
	outcome := drag.Commit(m.store, s)
	m.logger.Debug("drag released",
		"tab", s.Tab.Key(),
		"from", s.FromGroup,
		"target", s.Target.Kind.String(),
		"group", s.Target.GroupID,
		"index", s.Target.Index,
		"outcome", outcome.String(),
	)

	if outcome == drag.OutcomeNone && s.Dragging && s.Target.Kind == drag.TargetEdge &&
		m.store.Len() >= m.store.MaxGroups() {
		m.setInfo(fmt.Sprintf("Pane limit reached (%d)", m.store.MaxGroups()))
	}
	if captured {
		return tea.EnableMouseCellMotion
	}
	return nil
}

// cancelGesture abandons any tab drag or divider drag in progress and
// reports whether there was one.
func (m *Model) cancelGesture() (tea.Cmd, bool) {
	switch {
	case m.resize != nil:
		m.endResize(true)
		return tea.EnableMouseCellMotion, true
	case m.drag.State() != drag.Idle:
		captured := m.drag.Captured()
		m.drag.Cancel()
		if captured {
			return tea.EnableMouseCellMotion, true
		}
		return nil, true
	}
	return nil, false
}
