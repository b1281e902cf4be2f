// pattern: Imperative Shell

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"panedit/internal/drag"
	"panedit/internal/geometry"
)

// handleMouse routes pointer events to the running gesture, or starts one.
// Only the left button drags; the wheel cycles tabs of the pane under the
// pointer.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	pt := geometry.Point{X: msg.X, Y: msg.Y}

	if m.picker != nil {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			return m.handlePress(pt)
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
			if m.resize != nil || m.drag.State() != drag.Idle {
				return m, nil
			}
			if id, ok := m.paneAt(pt); ok {
				delta := 1
				if msg.Button == tea.MouseButtonWheelUp {
					delta = -1
				}
				m.store.CycleTab(id, delta)
			}
		}
		return m, nil

	case tea.MouseActionMotion:
		if m.resize != nil {
			m.updateResize(pt)
			return m, nil
		}
		if m.drag.State() == drag.Idle {
			return m, nil
		}
		if !m.drag.Move(pt, m.responders()...) {
			return m, nil
		}
		// The edge zone only responds once dragging; resolve again.
		m.drag.Move(pt, m.responders()...)
		// Capture all motion until the drag ends.
		return m, tea.EnableMouseAllMotion

	case tea.MouseActionRelease:
		if m.resize != nil {
			m.endResize(false)
			return m, tea.EnableMouseCellMotion
		}
		if m.drag.State() == drag.Idle {
			return m, nil
		}
		// The release position is the final pointer position.
		if m.drag.Dragging() {
			m.drag.Move(pt, m.responders()...)
		}
		cmd := m.drop()
		return m, cmd
	}
	return m, nil
}

// handlePress starts the gesture that matches what was pressed: a divider
// starts a resize, a close glyph closes its tab, a tab arms a drag, and
// anywhere else in a pane focuses it.
func (m Model) handlePress(pt geometry.Point) (tea.Model, tea.Cmd) {
	if m.resize != nil || m.drag.State() != drag.Idle {
		return m, nil
	}
	if m.beginResize(pt) {
		return m, tea.EnableMouseAllMotion
	}
	if hit, ok := m.tabAt(pt); ok {
		if hit.close {
			m.store.CloseTab(hit.tab, hit.groupID)
			return m, nil
		}
		m.drag.Press(hit.tab, hit.groupID, pt)
		return m, nil
	}
	if id, ok := m.paneAt(pt); ok {
		m.store.FocusGroup(id)
	}
	return m, nil
}
