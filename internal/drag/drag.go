// pattern: Functional Core

// Package drag tracks a tab drag gesture from press to release and resolves
// where the tab would land.
package drag

import (
	"panedit/internal/geometry"
	"panedit/internal/layout"
	"panedit/internal/logging"
)

// State is the phase of the gesture.
type State int

const (
	// Idle means no button is held over a tab.
	Idle State = iota
	// Pending means a tab was pressed but the pointer has not moved far
	// enough to count as a drag.
	Pending
	// Dragging means the tab is following the pointer.
	Dragging
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// DefaultThreshold is the pointer travel, in cells, that turns a press into a
// drag.
const DefaultThreshold = 2

// Session is a read-only view of the gesture in progress.
type Session struct {
	Dragging  bool
	Tab       layout.TabItem
	FromGroup string
	Origin    geometry.Point
	Pointer   geometry.Point
	Target    Target
}

// Controller is the drag state machine. It owns no rendering state; drop
// targets come from responders passed to Move.
type Controller struct {
	threshold int
	state     State
	session   Session
	captured  bool
	logger    *logging.ScopedLogger
}

// NewController returns an idle controller. A non-positive threshold uses
// DefaultThreshold.
func NewController(threshold int, logger *logging.ScopedLogger) *Controller {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Controller{threshold: threshold, logger: logger}
}

// State returns the current phase.
func (c *Controller) State() State {
	return c.state
}

// Dragging reports whether a tab is being dragged.
func (c *Controller) Dragging() bool {
	return c.state == Dragging
}

// Captured reports whether the controller currently holds pointer capture,
// meaning motion events must be delivered even without a held button.
func (c *Controller) Captured() bool {
	return c.captured
}

// Session returns a copy of the gesture in progress.
func (c *Controller) Session() Session {
	return c.session
}

// Press records a button press on a tab. It is refused unless the controller
// is idle, so two gestures never overlap.
func (c *Controller) Press(tab layout.TabItem, groupID string, pt geometry.Point) bool {
	if c.state != Idle || tab.IsZero() || groupID == "" {
		return false
	}
	c.state = Pending
	c.session = Session{
		Tab:       tab,
		FromGroup: groupID,
		Origin:    pt,
		Pointer:   pt,
	}
	return true
}

// Move updates the pointer. A pending press becomes a drag once the pointer
// has travelled the threshold; started reports that transition. While
// dragging, the drop target is recomputed by asking each responder in order
// and keeping the last that answered.
func (c *Controller) Move(pt geometry.Point, responders ...Responder) (started bool) {
	switch c.state {
	case Idle:
		return false
	case Pending:
		c.session.Pointer = pt
		if travel(c.session.Origin, pt) < c.threshold {
			return false
		}
		c.state = Dragging
		c.session.Dragging = true
		c.captured = true
		started = true
		c.logger.Debug("drag started", "tab", c.session.Tab.Key(), "group", c.session.FromGroup)
	case Dragging:
		c.session.Pointer = pt
	}

	c.session.Target = Resolve(pt, responders...)
	return started
}

// Release ends the gesture and returns its final state. A press that never
// became a drag comes back with Dragging false, which callers treat as a
// click. Capture is always released.
func (c *Controller) Release() Session {
	s := c.session
	if c.state == Idle {
		s = Session{}
	}
	c.reset()
	return s
}

// Cancel abandons the gesture without a drop. Reports whether there was one.
func (c *Controller) Cancel() bool {
	if c.state == Idle {
		return false
	}
	c.logger.Debug("drag cancelled", "tab", c.session.Tab.Key())
	c.reset()
	return true
}

func (c *Controller) reset() {
	c.state = Idle
	c.session = Session{}
	c.captured = false
}

// travel is the chessboard distance between two cells.
func travel(a, b geometry.Point) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
