// pattern: Functional Core

// Package layout owns the pane ("group") list, each pane's tabs, and the
// pane width ratios. It is the only place pane and tab lists are mutated.
package layout

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"panedit/internal/logging"
)

// DefaultMaxGroups is the pane cap used when Options.MaxGroups is unset.
const DefaultMaxGroups = 5

// Options configures a Store.
type Options struct {
	MaxGroups int
	// NewID generates pane ids. Defaults to random UUIDs.
	NewID  func() string
	Logger *logging.ScopedLogger
}

// Store holds the pane layout. All mutations run on the UI event loop, so the
// store does no locking. Operations given unknown ids, or refused by a limit,
// return false and leave the layout untouched.
type Store struct {
	groups    []*Group
	active    string
	sizes     *Sizes
	maxGroups int
	newID     func() string
	logger    *logging.ScopedLogger
	listeners []func()
}

// NewStore creates a store with a single empty pane.
func NewStore(opts Options) *Store {
	if opts.MaxGroups <= 0 {
		opts.MaxGroups = DefaultMaxGroups
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}

	first := &Group{ID: opts.NewID()}
	return &Store{
		groups:    []*Group{first},
		active:    first.ID,
		sizes:     NewSizes(),
		maxGroups: opts.MaxGroups,
		newID:     opts.NewID,
		logger:    opts.Logger,
	}
}

// OnChange registers a callback invoked after every mutation that changed
// the layout. Callbacks run in registration order.
func (s *Store) OnChange(fn func()) {
	s.listeners = append(s.listeners, fn)
}

func (s *Store) changed() bool {
	for _, fn := range s.listeners {
		fn()
	}
	return true
}

// MaxGroups returns the pane cap.
func (s *Store) MaxGroups() int {
	return s.maxGroups
}

// Len returns the number of panes.
func (s *Store) Len() int {
	return len(s.groups)
}

// ActiveGroupID returns the id of the focused pane.
func (s *Store) ActiveGroupID() string {
	return s.active
}

// ActiveGroup returns a copy of the focused pane.
func (s *Store) ActiveGroup() Group {
	if g := s.group(s.active); g != nil {
		return g.clone()
	}
	return Group{}
}

// Group returns a copy of the pane with the given id.
func (s *Store) Group(id string) (Group, bool) {
	g := s.group(id)
	if g == nil {
		return Group{}, false
	}
	return g.clone(), true
}

// Groups returns copies of all panes in left-to-right order.
func (s *Store) Groups() []Group {
	out := make([]Group, len(s.groups))
	for i, g := range s.groups {
		out[i] = g.clone()
	}
	return out
}

// GroupIDs returns the pane ids in left-to-right order.
func (s *Store) GroupIDs() []string {
	ids := make([]string, len(s.groups))
	for i, g := range s.groups {
		ids[i] = g.ID
	}
	return ids
}

// GroupIndex returns the position of a pane, or -1.
func (s *Store) GroupIndex(id string) int {
	return slices.IndexFunc(s.groups, func(g *Group) bool { return g.ID == id })
}

// IndexOf returns the position of tab within a pane, or -1.
func (s *Store) IndexOf(groupID string, tab TabItem) int {
	g := s.group(groupID)
	if g == nil {
		return -1
	}
	return g.IndexOf(tab)
}

// Owner returns the id of the first pane holding tab.
func (s *Store) Owner(tab TabItem) (string, bool) {
	if g := s.owner(tab); g != nil {
		return g.ID, true
	}
	return "", false
}

// Sizes exposes the pane width ratios.
func (s *Store) Sizes() *Sizes {
	return s.sizes
}

func (s *Store) group(id string) *Group {
	if i := s.GroupIndex(id); i >= 0 {
		return s.groups[i]
	}
	return nil
}

func (s *Store) owner(tab TabItem) *Group {
	for _, g := range s.groups {
		if g.IndexOf(tab) >= 0 {
			return g
		}
	}
	return nil
}

// resolve returns the named pane, or the active pane for an empty id.
func (s *Store) resolve(id string) *Group {
	if id == "" {
		id = s.active
	}
	return s.group(id)
}

// OpenTab shows tab in a pane (the active pane when groupID is empty) and
// focuses that pane. A tab already in the pane is only activated. A tab
// already open in a different pane is activated there instead of being
// duplicated.
func (s *Store) OpenTab(tab TabItem, groupID string) bool {
	if tab.IsZero() {
		return false
	}
	g := s.resolve(groupID)
	if g == nil {
		s.logger.Debug("open tab ignored: unknown group", "group", groupID, "tab", tab.Key())
		return false
	}

	if g.IndexOf(tab) < 0 {
		if other := s.owner(tab); other != nil {
			g = other
		} else {
			g.Tabs = append(g.Tabs, tab)
		}
	}

	if g.Active == tab && s.active == g.ID {
		return false
	}
	g.Active = tab
	s.active = g.ID
	s.logger.Debug("tab opened", "group", g.ID, "tab", tab.Key())
	return s.changed()
}

// ActivateTab makes tab the shown tab of its pane and focuses the pane.
func (s *Store) ActivateTab(tab TabItem, groupID string) bool {
	g := s.group(groupID)
	if g == nil || g.IndexOf(tab) < 0 {
		return false
	}
	if g.Active == tab && s.active == g.ID {
		return false
	}
	g.Active = tab
	s.active = g.ID
	return s.changed()
}

// CycleTab activates the tab delta positions away from the active tab in a
// pane, wrapping around.
func (s *Store) CycleTab(groupID string, delta int) bool {
	g := s.resolve(groupID)
	if g == nil || len(g.Tabs) < 2 {
		return false
	}
	i := g.ActiveIndex()
	if i < 0 {
		i = 0
	}
	n := len(g.Tabs)
	next := ((i+delta)%n + n) % n
	return s.ActivateTab(g.Tabs[next], g.ID)
}

// CloseTab removes tab from a pane. If it was the shown tab, the tab that
// slides into its slot is shown, or the new last tab when it was last. A pane
// left empty is removed unless it is the only pane.
func (s *Store) CloseTab(tab TabItem, groupID string) bool {
	g := s.group(groupID)
	if g == nil {
		return false
	}
	i := g.IndexOf(tab)
	if i < 0 {
		return false
	}

	s.removeAt(g, i)
	if len(g.Tabs) == 0 && len(s.groups) > 1 {
		s.removeGroup(g, false)
	}
	s.logger.Debug("tab closed", "group", groupID, "tab", tab.Key())
	return s.changed()
}

// CloseOtherTabs reduces a pane to the single given tab and shows it.
func (s *Store) CloseOtherTabs(tab TabItem, groupID string) bool {
	g := s.group(groupID)
	if g == nil || g.IndexOf(tab) < 0 {
		return false
	}
	if len(g.Tabs) == 1 && g.Active == tab {
		return false
	}
	g.Tabs = []TabItem{tab}
	g.Active = tab
	return s.changed()
}

// ReorderTabsInGroup moves the tab at from so it ends up at index to.
func (s *Store) ReorderTabsInGroup(groupID string, from, to int) bool {
	g := s.group(groupID)
	if g == nil {
		return false
	}
	n := len(g.Tabs)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}
	tab := g.Tabs[from]
	g.Tabs = slices.Delete(g.Tabs, from, from+1)
	g.Tabs = slices.Insert(g.Tabs, to, tab)
	s.logger.Debug("tab reordered", "group", groupID, "tab", tab.Key(), "from", from, "to", to)
	return s.changed()
}

// MoveTabToGroup relocates tab from one pane to another at index at; a
// negative or out-of-range index appends. Moving within one pane is a
// reorder with at as the final position. The destination pane is focused
// and shows the moved tab.
func (s *Store) MoveTabToGroup(tab TabItem, fromID, toID string, at int) bool {
	if fromID == toID {
		g := s.group(fromID)
		if g == nil {
			return false
		}
		if at < 0 || at >= len(g.Tabs) {
			at = len(g.Tabs) - 1
		}
		return s.ReorderTabsInGroup(fromID, g.IndexOf(tab), at)
	}

	src, dst := s.group(fromID), s.group(toID)
	if src == nil || dst == nil {
		return false
	}
	i := src.IndexOf(tab)
	if i < 0 {
		return false
	}

	s.removeAt(src, i)
	// A tab duplicated by splitting the sole pane may already be here.
	if j := dst.IndexOf(tab); j >= 0 {
		dst.Tabs = slices.Delete(dst.Tabs, j, j+1)
	}
	if at < 0 || at > len(dst.Tabs) {
		at = len(dst.Tabs)
	}
	dst.Tabs = slices.Insert(dst.Tabs, at, tab)
	dst.Active = tab
	s.active = dst.ID

	if len(src.Tabs) == 0 && len(s.groups) > 1 {
		s.removeGroup(src, false)
	}
	s.logger.Debug("tab moved", "tab", tab.Key(), "from", fromID, "to", toID, "index", at)
	return s.changed()
}

// SplitWithTab opens tab in a new pane placed right after its source pane.
// The tab leaves the source pane, except when it is the last tab of the only
// pane; then it is shown in both so no pane is ever left empty alone.
// Refused once the pane cap is reached.
func (s *Store) SplitWithTab(tab TabItem, fromID string) bool {
	i := s.GroupIndex(fromID)
	return s.split(tab, fromID, i+1)
}

// MoveTabToNewGroup opens tab in a new rightmost pane. It follows the same
// rules as SplitWithTab and backs the edge drop zone.
func (s *Store) MoveTabToNewGroup(tab TabItem, fromID string) bool {
	return s.split(tab, fromID, len(s.groups))
}

func (s *Store) split(tab TabItem, fromID string, pos int) bool {
	src := s.group(fromID)
	if src == nil {
		return false
	}
	i := src.IndexOf(tab)
	if i < 0 {
		return false
	}
	if len(s.groups) >= s.maxGroups {
		s.logger.Debug("split refused: pane limit reached", "limit", s.maxGroups)
		return false
	}

	g := &Group{ID: s.newID(), Tabs: []TabItem{tab}, Active: tab}
	duplicate := len(src.Tabs) == 1 && len(s.groups) == 1
	if !duplicate {
		s.removeAt(src, i)
	}
	s.groups = slices.Insert(s.groups, pos, g)
	s.active = g.ID

	if len(src.Tabs) == 0 {
		s.removeGroup(src, false)
	}
	s.logger.Debug("pane split", "from", fromID, "group", g.ID, "tab", tab.Key(), "duplicated", duplicate)
	return s.changed()
}

// FocusGroup makes a pane the active pane without touching its tabs.
func (s *Store) FocusGroup(id string) bool {
	if s.group(id) == nil || s.active == id {
		return false
	}
	s.active = id
	return s.changed()
}

// FocusAdjacent moves focus delta panes to the right (negative: left). It
// does nothing past either end.
func (s *Store) FocusAdjacent(delta int) bool {
	i := s.GroupIndex(s.active)
	j := i + delta
	if i < 0 || j < 0 || j >= len(s.groups) || j == i {
		return false
	}
	s.active = s.groups[j].ID
	return s.changed()
}

// CloseGroup removes a pane and all its tabs. The last pane cannot be
// closed. The pane to the left of the closed one, or else the next one,
// becomes active.
func (s *Store) CloseGroup(id string) bool {
	if len(s.groups) <= 1 {
		s.logger.Debug("close group refused: last pane", "group", id)
		return false
	}
	g := s.group(id)
	if g == nil {
		return false
	}
	s.removeGroup(g, true)
	s.logger.Debug("group closed", "group", id)
	return s.changed()
}

// removeAt drops the tab at index i and reselects the shown tab if needed.
func (s *Store) removeAt(g *Group, i int) {
	wasActive := g.Tabs[i] == g.Active
	g.Tabs = slices.Delete(g.Tabs, i, i+1)
	if !wasActive {
		return
	}
	if len(g.Tabs) == 0 {
		g.Active = TabItem{}
		return
	}
	g.Active = g.Tabs[min(i, len(g.Tabs)-1)]
}

// removeGroup deletes g. When focusNeighbor is set the pane left of g (or
// the one after it) becomes active.
func (s *Store) removeGroup(g *Group, focusNeighbor bool) {
	i := s.GroupIndex(g.ID)
	if i < 0 {
		return
	}
	s.groups = slices.Delete(s.groups, i, i+1)
	if focusNeighbor || s.active == g.ID {
		s.active = s.groups[max(i-1, 0)].ID
	}
}

// Resize records new widths for two adjacent panes after a divider drag.
func (s *Store) Resize(leftID, rightID string, left, right int) bool {
	if s.group(leftID) == nil || s.group(rightID) == nil {
		return false
	}
	if !s.sizes.Resize(leftID, rightID, left, right) {
		return false
	}
	return s.changed()
}

// Verify checks the structural invariants: at least one pane, a valid active
// pane, no repeated tab within a pane, and each pane's shown tab belonging to
// it (empty only when the pane is empty).
func (s *Store) Verify() error {
	if len(s.groups) == 0 {
		return errors.New("no panes")
	}
	if s.group(s.active) == nil {
		return fmt.Errorf("active pane %q does not exist", s.active)
	}
	seen := make(map[string]bool, len(s.groups))
	for _, g := range s.groups {
		if seen[g.ID] {
			return fmt.Errorf("duplicate pane id %q", g.ID)
		}
		seen[g.ID] = true

		tabs := make(map[TabItem]bool, len(g.Tabs))
		for _, t := range g.Tabs {
			if tabs[t] {
				return fmt.Errorf("pane %q holds %s twice", g.ID, t.Key())
			}
			tabs[t] = true
		}
		if len(g.Tabs) == 0 {
			if !g.Active.IsZero() {
				return fmt.Errorf("empty pane %q shows %s", g.ID, g.Active.Key())
			}
			continue
		}
		if !tabs[g.Active] {
			return fmt.Errorf("pane %q shows %s which it does not hold", g.ID, g.Active.Key())
		}
	}
	return nil
}
