// pattern: Functional Core

// Package geometry provides hit-testing helpers over rectangles measured in
// terminal cells.
package geometry

// Point is a pointer position in cells.
type Point struct {
	X int
	Y int
}

// Rect is a rectangle in cells. The right and bottom edges are exclusive.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	if r.Empty() {
		return false
	}
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// MidX returns the horizontal midpoint of r.
func (r Rect) MidX() float64 {
	return float64(r.X) + float64(r.W)/2
}

// DropIndex returns the insertion index for a pointer at x over a row of tabs
// laid out left to right: the index of the first tab whose midpoint lies
// strictly to the right of x, or len(tabs) when there is none.
func DropIndex(tabs []Rect, x int) int {
	px := float64(x)
	for i, r := range tabs {
		if r.MidX() > px {
			return i
		}
	}
	return len(tabs)
}

// Provider resolves the current bounds of a rendered element by id.
// The second result is false when the element has not been rendered yet.
type Provider interface {
	Bounds(id string) (Rect, bool)
}

// StaticProvider is a Provider backed by a fixed map.
type StaticProvider map[string]Rect

// Bounds implements Provider.
func (p StaticProvider) Bounds(id string) (Rect, bool) {
	r, ok := p[id]
	return r, ok
}
