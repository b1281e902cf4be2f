package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"panedit/internal/drag"
	"panedit/internal/geometry"
	"panedit/internal/layout"
)

const dividerWidth = 1

// paneWidths splits the panes area between the panes by their ratios, after
// setting aside one cell per divider.
func (m Model) paneWidths(total int) []int {
	ids := m.store.GroupIDs()
	if len(ids) == 0 {
		return nil
	}
	avail := max(total-dividerWidth*(len(ids)-1), len(ids))
	flexes := make([]float64, len(ids))
	for i, id := range ids {
		flexes[i] = m.store.Sizes().Flex(id)
	}
	return layout.Widths(flexes, avail)
}

// renderPanes lays the panes out side by side with a divider between each
// pair. While a tab is being dragged the right end of the last pane becomes
// the edge drop zone.
func (m Model) renderPanes(region Region) string {
	groups := m.store.Groups()
	widths := m.paneWidths(region.Width)
	height := region.Height

	parts := make([]string, 0, 2*len(groups))
	for i, g := range groups {
		last := i == len(groups)-1
		parts = append(parts, m.zones.Mark(paneZoneID(g.ID), m.renderPane(g, widths[i], height, last && m.drag.Dragging())))
		if !last {
			parts = append(parts, m.renderDivider(g.ID, height))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderPane renders one pane: its strip over the shown tab's content.
func (m Model) renderPane(g layout.Group, width, height int, withEdge bool) string {
	strip := m.renderStrip(g, width)
	bodyHeight := max(height-stripHeight, 1)

	bodyWidth := width
	edgeWidth := 0
	if withEdge {
		edgeWidth = min(max(m.cfg.Layout.EdgeZoneWidth, 1), width-1)
		if edgeWidth > 0 {
			bodyWidth = width - edgeWidth
		}
	}

	var text string
	if g.Active.IsZero() {
		text = m.styles.Help.Render(fit("ctrl+o open · ctrl+n new", bodyWidth-2))
	} else {
		text = m.content.Render(g.Active, bodyWidth-2, bodyHeight)
	}
	body := m.styles.Content.
		Width(bodyWidth).
		MaxWidth(bodyWidth).
		Height(bodyHeight).
		MaxHeight(bodyHeight).
		PaddingLeft(1).
		Render(text)

	if edgeWidth > 0 {
		hot := m.drag.Session().Target.Kind == drag.TargetEdge
		label := strings.Repeat("\n", bodyHeight/2) + "+"
		edge := m.styles.EdgeZone(hot).
			Width(edgeWidth).
			Height(bodyHeight).
			MaxHeight(bodyHeight).
			Align(lipgloss.Center).
			Render(label)
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.zones.Mark(edgeZoneID, edge))
	}
	return lipgloss.JoinVertical(lipgloss.Left, strip, body)
}

// renderDivider renders the draggable column on the right of pane leftID.
func (m Model) renderDivider(leftID string, height int) string {
	style := m.styles.Divider
	if m.resize != nil && m.resize.left == leftID {
		style = m.styles.ActiveDivider
	}
	col := strings.TrimSuffix(strings.Repeat("│\n", height), "\n")
	return m.zones.Mark(dividerZoneID(leftID), style.Render(col))
}

// dividerAt finds the divider under pt and returns the panes on either side.
func (m Model) dividerAt(pt geometry.Point) (left, right int, ok bool) {
	ids := m.store.GroupIDs()
	for i := 0; i < len(ids)-1; i++ {
		if r, found := m.bounds.Bounds(dividerZoneID(ids[i])); found && r.Contains(pt) {
			return i, i + 1, true
		}
	}
	return 0, 0, false
}

// beginResize starts a divider drag at pt. Refused while a tab gesture is in
// progress.
func (m *Model) beginResize(pt geometry.Point) bool {
	if m.resize != nil || m.drag.State() != drag.Idle {
		return false
	}
	li, ri, ok := m.dividerAt(pt)
	if !ok {
		return false
	}
	ids := m.store.GroupIDs()
	widths := m.paneWidths(m.width)
	m.resize = &resizeState{
		left:       ids[li],
		right:      ids[ri],
		startX:     pt.X,
		leftWidth:  widths[li],
		rightWidth: widths[ri],
	}
	m.logger.Debug("resize started", "left", ids[li], "right", ids[ri])
	return true
}

// updateResize applies the divider position, keeping both panes at least
// the configured minimum width.
func (m *Model) updateResize(pt geometry.Point) {
	r := m.resize
	nl, nr := layout.ClampResize(r.leftWidth, r.rightWidth, pt.X-r.startX, m.cfg.Layout.MinPaneWidth)
	m.store.Resize(r.left, r.right, nl, nr)
}

// endResize finishes the divider drag. With restore set the panes get their
// widths from before the gesture back.
func (m *Model) endResize(restore bool) {
	r := m.resize
	m.resize = nil
	if restore {
		m.store.Resize(r.left, r.right, r.leftWidth, r.rightWidth)
	}
	m.logger.Debug("resize finished", "left", r.left, "right", r.right, "restored", restore)
}
