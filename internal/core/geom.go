// Package core holds UI-agnostic helpers shared by the simulation front ends:
// the real-time pacing config, a colored character buffer and the semantic
// actions a viewer understands. It has no terminal dependencies.
package core

// Rect is a screen-space rectangle measured in character cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ScrollOffset returns the first visible index of a window of size view over
// a line of length total that keeps focus visible, centering it when the
// line does not fit.
func ScrollOffset(focus, view, total int) int {
	if view <= 0 || total <= view {
		return 0
	}
	return Clamp(focus-view/2, 0, total-view)
}
