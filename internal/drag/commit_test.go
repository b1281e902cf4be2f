package drag

import (
	"slices"
	"strconv"
	"testing"

	"panedit/internal/geometry"
	"panedit/internal/layout"
)

// newStore builds panes g1..gN holding the given tabs, each showing its last
// tab, with g1 focused. Panes created later continue the numbering.
func newStore(t *testing.T, panes ...[]layout.TabItem) *layout.Store {
	t.Helper()
	n := len(panes) - 1
	s := layout.NewStore(layout.Options{NewID: func() string {
		n++
		return "g" + strconv.Itoa(n)
	}})
	snap := layout.Snapshot{ActiveGroup: "g1"}
	for i, ts := range panes {
		last := ts[len(ts)-1]
		snap.Groups = append(snap.Groups, layout.GroupSnapshot{
			ID:        "g" + strconv.Itoa(i+1),
			Tabs:      ts,
			ActiveTab: &last,
		})
	}
	if !s.Restore(snap) {
		t.Fatal("Restore() = false")
	}
	return s
}

func tabs(t *testing.T, s *layout.Store, id string) []layout.TabItem {
	t.Helper()
	g, ok := s.Group(id)
	if !ok {
		t.Fatalf("group %q missing", id)
	}
	return g.Tabs
}

func session(tab layout.TabItem, from string, target Target) Session {
	return Session{Dragging: true, Tab: tab, FromGroup: from, Target: target}
}

func TestCommit_MoveToOtherPaneRemovesEmptySource(t *testing.T) {
	s := layout.NewStore(layout.Options{})
	s.Restore(layout.Snapshot{
		Groups: []layout.GroupSnapshot{
			{ID: "A", Tabs: []layout.TabItem{layout.Note("n1")}},
			{ID: "B", Tabs: []layout.TabItem{layout.Note("n2")}},
		},
		ActiveGroup: "A",
	})

	got := Commit(s, session(layout.Note("n1"), "A", Target{Kind: TargetPane, GroupID: "B", Index: 0}))
	if got != OutcomeMoved {
		t.Fatalf("Commit() = %v, want moved", got)
	}
	if ids := s.GroupIDs(); !slices.Equal(ids, []string{"B"}) {
		t.Errorf("GroupIDs() = %v, want [B]", ids)
	}
	if got := tabs(t, s, "B"); !slices.Equal(got, []layout.TabItem{layout.Note("n1"), layout.Note("n2")}) {
		t.Errorf("B = %v, want [n1 n2]", got)
	}
}

func TestCommit_SamePaneReorder(t *testing.T) {
	a, b, c := layout.Note("a"), layout.Note("b"), layout.Note("c")

	tests := []struct {
		name  string
		tab   layout.TabItem
		index int
		want  Outcome
		order []layout.TabItem
	}{
		{"drop before itself", a, 0, OutcomeNone, []layout.TabItem{a, b, c}},
		{"drop right after itself", a, 1, OutcomeNone, []layout.TabItem{a, b, c}},
		{"move first to end", a, 3, OutcomeReordered, []layout.TabItem{b, c, a}},
		{"move first to middle", a, 2, OutcomeReordered, []layout.TabItem{b, a, c}},
		{"move last to front", c, 0, OutcomeReordered, []layout.TabItem{c, a, b}},
		{"move last to its own slot", c, 3, OutcomeNone, []layout.TabItem{a, b, c}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t, []layout.TabItem{a, b, c})
			got := Commit(s, session(tt.tab, "g1", Target{Kind: TargetPane, GroupID: "g1", Index: tt.index}))
			if got != tt.want {
				t.Errorf("Commit() = %v, want %v", got, tt.want)
			}
			if order := tabs(t, s, "g1"); !slices.Equal(order, tt.order) {
				t.Errorf("tabs = %v, want %v", order, tt.order)
			}
		})
	}
}

func TestCommit_EdgeCreatesRightmostPane(t *testing.T) {
	s := newStore(t, []layout.TabItem{layout.Note("a"), layout.Note("b")})

	if got := Commit(s, session(layout.Note("a"), "g1", Target{Kind: TargetEdge})); got != OutcomeSplit {
		t.Fatalf("Commit() = %v, want split", got)
	}
	if ids := s.GroupIDs(); !slices.Equal(ids, []string{"g1", "g2"}) {
		t.Fatalf("GroupIDs() = %v", ids)
	}
	if got := tabs(t, s, "g2"); !slices.Equal(got, []layout.TabItem{layout.Note("a")}) {
		t.Errorf("g2 = %v, want [a]", got)
	}
	if s.ActiveGroupID() != "g2" {
		t.Errorf("ActiveGroupID() = %q, want g2", s.ActiveGroupID())
	}
}

func TestCommit_EdgeRefusedAtCap(t *testing.T) {
	s := layout.NewStore(layout.Options{MaxGroups: 1})
	s.OpenTab(layout.Note("a"), "")
	s.OpenTab(layout.Note("b"), "")

	if got := Commit(s, session(layout.Note("a"), s.ActiveGroupID(), Target{Kind: TargetEdge})); got != OutcomeNone {
		t.Errorf("Commit() at cap = %v, want none", got)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestCommit_ClickActivates(t *testing.T) {
	s := newStore(t, []layout.TabItem{layout.Note("a"), layout.Note("b")})

	click := Session{Tab: layout.Note("a"), FromGroup: "g1"}
	if got := Commit(s, click); got != OutcomeActivated {
		t.Fatalf("Commit(click) = %v, want activated", got)
	}
	if s.ActiveGroup().Active != layout.Note("a") {
		t.Errorf("active = %v, want a", s.ActiveGroup().Active)
	}
	if got := Commit(s, click); got != OutcomeNone {
		t.Errorf("clicking the shown tab again = %v, want none", got)
	}
}

func TestCommit_NoTargetOrStaleIDs(t *testing.T) {
	s := newStore(t, []layout.TabItem{layout.Note("a")}, []layout.TabItem{layout.Note("b")})
	before := s.Snapshot()

	sessions := []Session{
		session(layout.Note("a"), "g1", Target{}),
		session(layout.Note("a"), "g1", Target{Kind: TargetPane, GroupID: "gone", Index: 0}),
		session(layout.Note("zz"), "g1", Target{Kind: TargetPane, GroupID: "g2", Index: 0}),
		session(layout.Note("a"), "gone", Target{Kind: TargetEdge}),
		{},
	}
	for _, sess := range sessions {
		if got := Commit(s, sess); got != OutcomeNone {
			t.Errorf("Commit(%+v) = %v, want none", sess, got)
		}
	}
	after := s.Snapshot()
	if len(after.Groups) != len(before.Groups) || after.ActiveGroup != before.ActiveGroup {
		t.Errorf("layout changed: %+v -> %+v", before, after)
	}
}

func TestGesture_EndToEnd(t *testing.T) {
	s := newStore(t, []layout.TabItem{layout.Note("a"), layout.Note("b")}, []layout.TabItem{layout.Note("c")})
	geo := geometry.StaticProvider{
		"p1":  {X: 0, Y: 0, W: 40, H: 10},
		"t10": {X: 0, Y: 0, W: 8, H: 1},
		"t11": {X: 8, Y: 0, W: 8, H: 1},
		"p2":  {X: 40, Y: 0, W: 40, H: 10},
		"t20": {X: 40, Y: 0, W: 8, H: 1},
	}
	responders := []Responder{
		PaneResponder{GroupID: "g1", PaneZone: "p1", TabZones: []string{"t10", "t11"}, Provider: geo},
		PaneResponder{GroupID: "g2", PaneZone: "p2", TabZones: []string{"t20"}, Provider: geo},
	}

	c := NewController(2, nil)
	c.Press(layout.Note("a"), "g1", geometry.Point{X: 3, Y: 0})
	c.Move(geometry.Point{X: 20, Y: 2}, responders...)
	c.Move(geometry.Point{X: 41, Y: 0}, responders...)

	if got := Commit(s, c.Release()); got != OutcomeMoved {
		t.Fatalf("Commit() = %v, want moved", got)
	}
	if got := tabs(t, s, "g2"); !slices.Equal(got, []layout.TabItem{layout.Note("a"), layout.Note("c")}) {
		t.Errorf("g2 = %v, want [a c]", got)
	}
	if got := tabs(t, s, "g1"); !slices.Equal(got, []layout.TabItem{layout.Note("b")}) {
		t.Errorf("g1 = %v, want [b]", got)
	}
	if err := s.Verify(); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}
