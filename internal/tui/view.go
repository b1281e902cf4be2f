// pattern: Imperative Shell

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"panedit/internal/drag"
)

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	// Document picker is a modal overlay
	if m.picker != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.styles.Box.Render(m.picker.view()))
	}

	layout := ComputeLayout(m.width, m.height)

	header := m.renderHeader(layout.Header.Width)
	panes := m.renderPanes(layout.Panes)
	statusBar := lipgloss.NewStyle().Width(layout.StatusBar.Width).Render(ansi.Truncate(m.renderStatusBar(layout.StatusBar.Width), layout.StatusBar.Width, ""))

	frame := m.zones.Scan(lipgloss.JoinVertical(lipgloss.Left, header, panes, statusBar))
	return m.renderOverlay(frame)
}

// renderHeader renders the title line with the remote control address.
func (m Model) renderHeader(width int) string {
	title := m.styles.Title.Render("panedit")
	info := fmt.Sprintf(" %d/%d panes", m.store.Len(), m.store.MaxGroups())
	if len(m.listenURLs) > 0 {
		info += " · " + strings.Join(m.listenURLs, " ")
	}
	line := title + m.styles.Subtitle.Render(info)
	return lipgloss.NewStyle().Width(width).Render(ansi.Truncate(line, width, "…"))
}

// renderStatusBar renders the status bar with operation feedback and help.
func (m Model) renderStatusBar(width int) string {
	var statusIcon string
	var messageStyle lipgloss.Style

	switch m.statusLevel {
	case StatusSuccess:
		statusIcon = m.styles.Success.Render("✓")
		messageStyle = m.styles.Success
	case StatusError:
		statusIcon = m.styles.Error.Render("✗")
		messageStyle = m.styles.Error
	default: // StatusInfo
		statusIcon = ""
		messageStyle = m.styles.InfoStatus
	}

	var statusText string
	if statusIcon != "" {
		statusText = statusIcon + " " + messageStyle.Render(m.statusMessage)
	} else if m.statusMessage != "" {
		statusText = messageStyle.Render(m.statusMessage)
	}

	if m.statusLevel == StatusError && m.err != nil {
		statusText += m.styles.Help.Render(": " + m.err.Error() + " (esc to clear)")
	}

	help := m.renderContextualHelp()

	statusWidth := lipgloss.Width(statusText)
	helpWidth := lipgloss.Width(help)
	spacerWidth := width - statusWidth - helpWidth - 2 // 2 for padding

	if spacerWidth < 1 {
		spacerWidth = 1
	}

	spacer := strings.Repeat(" ", spacerWidth)

	return lipgloss.JoinHorizontal(lipgloss.Bottom,
		statusText,
		spacer,
		help,
	)
}

// renderContextualHelp returns help text for the current gesture.
func (m Model) renderContextualHelp() string {
	var help string
	switch {
	case m.resize != nil:
		help = "drag: resize • esc: cancel"
	case m.drag.State() == drag.Dragging:
		switch m.drag.Session().Target.Kind {
		case drag.TargetEdge:
			help = "release: new pane • esc: cancel"
		case drag.TargetPane:
			help = "release: drop here • esc: cancel"
		default:
			help = "esc: cancel"
		}
	default:
		parts := make([]string, 0, len(m.keys.ShortHelp()))
		for _, b := range m.keys.ShortHelp() {
			h := b.Help()
			parts = append(parts, h.Key+": "+h.Desc)
		}
		help = strings.Join(parts, " • ")
	}
	return m.styles.Help.Render(help)
}
