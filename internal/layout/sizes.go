// pattern: Functional Core

package layout

import (
	"slices"
	"sort"
)

// DefaultFlex is the width ratio of a pane that was never resized.
const DefaultFlex = 1.0

// PaneSize is the persisted width ratio of one pane.
type PaneSize struct {
	GroupID string  `json:"groupId"`
	Flex    float64 `json:"flex"`
}

// Sizes maps pane ids to flex ratios. Panes without an entry use DefaultFlex.
// Ratios are relative to sibling panes; adding or removing a pane never
// rescales the others.
type Sizes struct {
	flex map[string]float64
}

// NewSizes returns an empty set of ratios.
func NewSizes() *Sizes {
	return &Sizes{flex: make(map[string]float64)}
}

// Flex returns the ratio for a pane.
func (s *Sizes) Flex(groupID string) float64 {
	if f, ok := s.flex[groupID]; ok {
		return f
	}
	return DefaultFlex
}

// Set records a ratio. Non-positive ratios are ignored.
func (s *Sizes) Set(groupID string, flex float64) {
	if flex <= 0 || groupID == "" {
		return
	}
	s.flex[groupID] = flex
}

// Load replaces all ratios with the given entries, skipping invalid ones.
func (s *Sizes) Load(entries []PaneSize) {
	s.flex = make(map[string]float64, len(entries))
	for _, e := range entries {
		s.Set(e.GroupID, e.Flex)
	}
}

// Entries returns the ratios of the given panes in order, dropping entries
// for panes that no longer exist.
func (s *Sizes) Entries(groupIDs []string) []PaneSize {
	s.Prune(groupIDs)
	out := make([]PaneSize, 0, len(groupIDs))
	for _, id := range groupIDs {
		out = append(out, PaneSize{GroupID: id, Flex: s.Flex(id)})
	}
	return out
}

// Prune forgets ratios of panes not in groupIDs.
func (s *Sizes) Prune(groupIDs []string) {
	for id := range s.flex {
		if !slices.Contains(groupIDs, id) {
			delete(s.flex, id)
		}
	}
}

// Resize sets the ratios of two adjacent panes so that they split their
// combined ratio in proportion to the given widths. Reports whether anything
// changed.
func (s *Sizes) Resize(leftID, rightID string, left, right int) bool {
	total := left + right
	if total <= 0 || left <= 0 || right <= 0 {
		return false
	}
	pair := s.Flex(leftID) + s.Flex(rightID)
	nl := pair * float64(left) / float64(total)
	nr := pair * float64(right) / float64(total)
	if nl == s.Flex(leftID) && nr == s.Flex(rightID) {
		return false
	}
	s.flex[leftID] = nl
	s.flex[rightID] = nr
	return true
}

// ClampResize applies a divider drag of delta cells to two adjacent widths.
// Neither side may drop below minWidth and the combined width is preserved.
// When the pair is too narrow to honour the minimum the widths are returned
// unchanged.
func ClampResize(left, right, delta, minWidth int) (int, int) {
	total := left + right
	if total < 2*minWidth {
		return left, right
	}
	nl, nr := left+delta, right-delta
	if nl < minWidth {
		nl, nr = minWidth, total-minWidth
	}
	if nr < minWidth {
		nl, nr = total-minWidth, minWidth
	}
	return nl, nr
}

// Widths distributes total cells over panes in proportion to flexes using
// largest-remainder rounding, so the result always sums to total.
func Widths(flexes []float64, total int) []int {
	out := make([]int, len(flexes))
	if len(flexes) == 0 || total <= 0 {
		return out
	}

	var sum float64
	for _, f := range flexes {
		if f <= 0 {
			f = DefaultFlex
		}
		sum += f
	}

	type rem struct {
		i    int
		frac float64
	}
	rems := make([]rem, len(flexes))
	used := 0
	for i, f := range flexes {
		if f <= 0 {
			f = DefaultFlex
		}
		exact := float64(total) * f / sum
		out[i] = int(exact)
		used += out[i]
		rems[i] = rem{i: i, frac: exact - float64(out[i])}
	}

	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac > rems[b].frac })
	for k := 0; used < total; k++ {
		out[rems[k%len(rems)].i]++
		used++
	}
	return out
}
