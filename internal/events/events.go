// package events contains message types shared between web and tui packages.
package events

import "panedit/internal/layout"

// OpenTabMsg asks the TUI to open a tab. An empty Group targets the active
// pane.
type OpenTabMsg struct {
	Tab   layout.TabItem
	Group string
}

// FocusGroupMsg asks the TUI to focus a pane.
type FocusGroupMsg struct {
	Group string
}

// CloseGroupMsg asks the TUI to close a pane.
type CloseGroupMsg struct {
	Group string
}

// WebListenURLMsg is sent when the web server starts listening.
type WebListenURLMsg struct{ URL string }
