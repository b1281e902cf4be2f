// pattern: Functional Core

package drag

import (
	"panedit/internal/layout"
)

// Committer is the subset of the layout store a drop mutates.
type Committer interface {
	ActivateTab(tab layout.TabItem, groupID string) bool
	IndexOf(groupID string, tab layout.TabItem) int
	MoveTabToGroup(tab layout.TabItem, fromID, toID string, at int) bool
	ReorderTabsInGroup(groupID string, from, to int) bool
	MoveTabToNewGroup(tab layout.TabItem, fromID string) bool
}

// Outcome is what a commit did.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeActivated
	OutcomeMoved
	OutcomeReordered
	OutcomeSplit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeActivated:
		return "activated"
	case OutcomeMoved:
		return "moved"
	case OutcomeReordered:
		return "reordered"
	case OutcomeSplit:
		return "split"
	default:
		return "none"
	}
}

// Commit applies a released session to the layout. A release that never
// became a drag activates the pressed tab. A drop on another pane moves the
// tab there; a drop on its own pane reorders it when the position changes;
// a drop on the edge zone gives it a new pane. Anything else is a no-op.
func Commit(c Committer, s Session) Outcome {
	if s.Tab.IsZero() || s.FromGroup == "" {
		return OutcomeNone
	}
	if !s.Dragging {
		if c.ActivateTab(s.Tab, s.FromGroup) {
			return OutcomeActivated
		}
		return OutcomeNone
	}

	switch s.Target.Kind {
	case TargetPane:
		if s.Target.GroupID != s.FromGroup {
			if c.MoveTabToGroup(s.Tab, s.FromGroup, s.Target.GroupID, s.Target.Index) {
				return OutcomeMoved
			}
			return OutcomeNone
		}
		from := c.IndexOf(s.FromGroup, s.Tab)
		if from < 0 {
			return OutcomeNone
		}
		// The index is an insertion point measured with the tab still in
		// place; removing it first shifts later positions left by one.
		to := s.Target.Index
		if to > from {
			to--
		}
		if to == from {
			return OutcomeNone
		}
		if c.ReorderTabsInGroup(s.FromGroup, from, to) {
			return OutcomeReordered
		}
	case TargetEdge:
		if c.MoveTabToNewGroup(s.Tab, s.FromGroup) {
			return OutcomeSplit
		}
	}
	return OutcomeNone
}
