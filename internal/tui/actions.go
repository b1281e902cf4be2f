// pattern: Imperative Shell

package tui

import "fmt"

// splitActive moves the shown tab of the active pane into a new pane to its
// right.
func (m *Model) splitActive() {
	g, ok := m.activeTab()
	if !ok {
		return
	}
	if !m.store.SplitWithTab(g.Active, g.ID) && m.store.Len() >= m.store.MaxGroups() {
		m.setInfo(fmt.Sprintf("Pane limit reached (%d)", m.store.MaxGroups()))
	}
}

// moveActive moves the shown tab of the active pane to the neighbouring pane
// delta steps away, appending it there. Moving right from the rightmost pane
// opens a new pane, like dropping on the edge zone.
func (m *Model) moveActive(delta int) {
	g, ok := m.activeTab()
	if !ok {
		return
	}
	ids := m.store.GroupIDs()
	j := m.store.GroupIndex(g.ID) + delta
	switch {
	case j >= 0 && j < len(ids):
		m.store.MoveTabToGroup(g.Active, g.ID, ids[j], -1)
	case j == len(ids):
		if !m.store.MoveTabToNewGroup(g.Active, g.ID) && m.store.Len() >= m.store.MaxGroups() {
			m.setInfo(fmt.Sprintf("Pane limit reached (%d)", m.store.MaxGroups()))
		}
	}
}
