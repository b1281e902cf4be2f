package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"panedit/internal/drag"
	"panedit/internal/geometry"
	"panedit/internal/layout"
)

const (
	maxTabWidth = 24
	// minClosableTab is the narrowest tab that still shows its close glyph.
	minClosableTab = 5
	closeGlyph     = "×"
	caretGlyph     = "▎"
)

// tabCellWidth shares a strip of the given width between n tabs.
func tabCellWidth(width, n int) int {
	if n == 0 {
		return 0
	}
	return max(min(width/n, maxTabWidth), 1)
}

// caretIndex returns where the insertion caret goes in a pane's strip, or -1
// when no drag targets the pane.
func (m Model) caretIndex(groupID string) int {
	s := m.drag.Session()
	if !s.Dragging || s.Target.Kind != drag.TargetPane || s.Target.GroupID != groupID {
		return -1
	}
	return s.Target.Index
}

// renderStrip renders a pane's tab row at exactly width cells. Each tab and
// its close glyph are marked as zones. The caret replaces the leading blank
// of a tab, so showing it never moves the tabs.
func (m Model) renderStrip(g layout.Group, width int) string {
	if width <= 0 {
		return ""
	}
	n := len(g.Tabs)
	cell := tabCellWidth(width, n)
	caret := m.caretIndex(g.ID)
	focused := g.ID == m.store.ActiveGroupID()
	session := m.drag.Session()

	var b strings.Builder
	used := 0
	for i, t := range g.Tabs {
		if used+cell > width {
			break
		}
		style := m.styles.Tab
		switch {
		case session.Dragging && session.Tab == t && session.FromGroup == g.ID:
			style = m.styles.DraggedTab
		case t == g.Active && focused:
			style = m.styles.FocusedTab
		case t == g.Active:
			style = m.styles.ActiveTab
		}

		lead := style.Render(" ")
		if i == caret {
			lead = m.styles.Caret.Render(caretGlyph)
		}
		title := m.content.Title(t)

		var tab string
		if cell >= minClosableTab {
			label := fit(title, cell-3)
			closer := m.zones.Mark(closeZoneID(g.ID, t), style.Render(closeGlyph))
			tab = lead + style.Render(label+" ") + closer
		} else if cell > 1 {
			tab = lead + style.Render(fit(title, cell-1))
		} else {
			tab = style.Render(fit(title, 1))
		}
		b.WriteString(m.zones.Mark(tabZoneID(g.ID, t), tab))
		used += cell
	}

	if rest := width - used; rest > 0 {
		if caret >= n && caret >= 0 {
			b.WriteString(m.styles.Caret.Render(caretGlyph))
			rest--
		}
		b.WriteString(m.styles.Strip.Render(strings.Repeat(" ", rest)))
	}
	return b.String()
}

// fit truncates or pads s to exactly w cells.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	s = ansi.Truncate(s, w, "…")
	if pad := w - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// responders lists the drop targets in the order they are consulted: every
// pane, then the edge zone while a drag is active so it wins where they
// overlap.
func (m Model) responders() []drag.Responder {
	groups := m.store.Groups()
	rs := make([]drag.Responder, 0, len(groups)+1)
	for _, g := range groups {
		zones := make([]string, len(g.Tabs))
		for i, t := range g.Tabs {
			zones[i] = tabZoneID(g.ID, t)
		}
		rs = append(rs, drag.PaneResponder{
			GroupID:  g.ID,
			PaneZone: paneZoneID(g.ID),
			TabZones: zones,
			Provider: m.bounds,
		})
	}
	if m.drag.Dragging() {
		rs = append(rs, drag.EdgeResponder{Zone: edgeZoneID, Provider: m.bounds})
	}
	return rs
}

// tabHit is a press on a tab strip.
type tabHit struct {
	groupID string
	tab     layout.TabItem
	close   bool
}

// tabAt finds the tab, or the tab's close glyph, under pt.
func (m Model) tabAt(pt geometry.Point) (tabHit, bool) {
	for _, g := range m.store.Groups() {
		for _, t := range g.Tabs {
			if r, ok := m.bounds.Bounds(closeZoneID(g.ID, t)); ok && r.Contains(pt) {
				return tabHit{groupID: g.ID, tab: t, close: true}, true
			}
			if r, ok := m.bounds.Bounds(tabZoneID(g.ID, t)); ok && r.Contains(pt) {
				return tabHit{groupID: g.ID, tab: t}, true
			}
		}
	}
	return tabHit{}, false
}

// paneAt finds the pane under pt.
func (m Model) paneAt(pt geometry.Point) (string, bool) {
	for _, id := range m.store.GroupIDs() {
		if r, ok := m.bounds.Bounds(paneZoneID(id)); ok && r.Contains(pt) {
			return id, true
		}
	}
	return "", false
}
