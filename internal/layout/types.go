// pattern: Functional Core

package layout

import (
	"fmt"
	"slices"
)

// Kind is the type of document a tab refers to.
type Kind int

const (
	KindNone Kind = iota
	KindNote
	KindBoard
	KindGraph
	KindCalendar
)

var kindNames = map[Kind]string{
	KindNote:     "note",
	KindBoard:    "board",
	KindGraph:    "graph",
	KindCalendar: "calendar",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "none"
}

// ParseKind converts a kind name ("note", "board", ...) to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindNone, fmt.Errorf("unknown tab type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k == KindNone {
		return nil, fmt.Errorf("cannot marshal empty tab type")
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// TabItem identifies an open document. Two tabs are the same tab when both
// Kind and ID are equal; a note and a board may share an ID without
// colliding. The zero value means "no tab".
type TabItem struct {
	Kind Kind   `json:"type"`
	ID   string `json:"id"`
}

// NewTab returns a tab for the given kind and id.
func NewTab(kind Kind, id string) TabItem {
	return TabItem{Kind: kind, ID: id}
}

// Note returns a note tab.
func Note(id string) TabItem { return TabItem{Kind: KindNote, ID: id} }

// Board returns a board tab.
func Board(id string) TabItem { return TabItem{Kind: KindBoard, ID: id} }

// Graph returns a graph tab.
func Graph(id string) TabItem { return TabItem{Kind: KindGraph, ID: id} }

// Calendar returns a calendar tab.
func Calendar(id string) TabItem { return TabItem{Kind: KindCalendar, ID: id} }

// IsZero reports whether t is the empty tab.
func (t TabItem) IsZero() bool {
	return t.Kind == KindNone || t.ID == ""
}

// Key returns the "type:id" form used for display and zone ids.
func (t TabItem) Key() string {
	return t.Kind.String() + ":" + t.ID
}

func (t TabItem) String() string {
	return t.Key()
}

// Group is one pane: an ordered list of tabs and the tab shown in it.
// Active is the zero TabItem exactly when Tabs is empty.
type Group struct {
	ID     string
	Tabs   []TabItem
	Active TabItem
}

// IndexOf returns the position of tab in the group, or -1.
func (g *Group) IndexOf(tab TabItem) int {
	return slices.Index(g.Tabs, tab)
}

// ActiveIndex returns the position of the active tab, or -1.
func (g *Group) ActiveIndex() int {
	if g.Active.IsZero() {
		return -1
	}
	return g.IndexOf(g.Active)
}

func (g *Group) clone() Group {
	return Group{
		ID:     g.ID,
		Tabs:   slices.Clone(g.Tabs),
		Active: g.Active,
	}
}
