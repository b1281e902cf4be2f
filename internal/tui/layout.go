// pattern: Functional Core

package tui

// Region defines a rectangular area within the terminal.
type Region struct {
	X      int // Left position (0-indexed)
	Y      int // Top position (0-indexed)
	Width  int // Width in cells
	Height int // Height in lines
}

// Layout holds computed regions for all UI components.
type Layout struct {
	Header    Region // App title (1 line)
	Panes     Region // Split container (dynamic)
	StatusBar Region // Status bar (1 line)
}

// Fixed heights for chrome elements
const (
	headerHeight    = 1
	statusBarHeight = 1
	stripHeight     = 1 // Tab strip at the top of each pane
	minPanesHeight  = 2 // Strip plus one content line
)

// ComputeLayout calculates regions based on terminal dimensions.
func ComputeLayout(width, height int) Layout {
	panesHeight := height - headerHeight - statusBarHeight
	if panesHeight < minPanesHeight {
		panesHeight = minPanesHeight
	}

	y := 0
	header := Region{X: 0, Y: y, Width: width, Height: headerHeight}
	y += headerHeight

	panes := Region{X: 0, Y: y, Width: width, Height: panesHeight}
	y += panesHeight

	statusBar := Region{X: 0, Y: y, Width: width, Height: statusBarHeight}

	return Layout{
		Header:    header,
		Panes:     panes,
		StatusBar: statusBar,
	}
}

// ContentHeight returns the lines left for document content in each pane
// below its tab strip.
func (l Layout) ContentHeight() int {
	h := l.Panes.Height - stripHeight
	if h < 1 {
		h = 1
	}
	return h
}
