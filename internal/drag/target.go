// pattern: Functional Core

package drag

import (
	"panedit/internal/geometry"
)

// TargetKind says what a drop would do.
type TargetKind int

const (
	// TargetNone drops nowhere.
	TargetNone TargetKind = iota
	// TargetPane inserts into an existing pane at Index.
	TargetPane
	// TargetEdge creates a new pane at the right edge.
	TargetEdge
)

func (k TargetKind) String() string {
	switch k {
	case TargetPane:
		return "pane"
	case TargetEdge:
		return "edge"
	default:
		return "none"
	}
}

// Target is the place the dragged tab would land if released now.
type Target struct {
	Kind    TargetKind
	GroupID string
	Index   int
}

// Responder answers whether a pointer lies over it and, if so, where a drop
// would land.
type Responder interface {
	Hit(pt geometry.Point) (Target, bool)
}

// Resolve asks each responder in order and returns the last answer.
func Resolve(pt geometry.Point, responders ...Responder) Target {
	target := Target{}
	for _, r := range responders {
		if t, ok := r.Hit(pt); ok {
			target = t
		}
	}
	return target
}

// PaneResponder hit-tests one pane. The insertion index is computed from the
// midpoints of the pane's tabs.
type PaneResponder struct {
	GroupID  string
	PaneZone string
	TabZones []string
	Provider geometry.Provider
}

// Hit implements Responder. A pane that has not been rendered yet does not
// answer. Tabs without bounds are hidden by strip overflow; the index is
// computed over the visible ones, which always lead the strip.
func (p PaneResponder) Hit(pt geometry.Point) (Target, bool) {
	pane, ok := p.Provider.Bounds(p.PaneZone)
	if !ok || !pane.Contains(pt) {
		return Target{}, false
	}
	rects := make([]geometry.Rect, 0, len(p.TabZones))
	for _, id := range p.TabZones {
		r, ok := p.Provider.Bounds(id)
		if !ok {
			break
		}
		rects = append(rects, r)
	}
	return Target{Kind: TargetPane, GroupID: p.GroupID, Index: geometry.DropIndex(rects, pt.X)}, true
}

// EdgeResponder hit-tests the zone that creates a new pane.
type EdgeResponder struct {
	Zone     string
	Provider geometry.Provider
}

// Hit implements Responder.
func (e EdgeResponder) Hit(pt geometry.Point) (Target, bool) {
	r, ok := e.Provider.Bounds(e.Zone)
	if !ok || !r.Contains(pt) {
		return Target{}, false
	}
	return Target{Kind: TargetEdge}, true
}
