package beam

import "fmt"

// Pos represents a 2D board position.
// X increases to the right, Y increases downward (screen coordinates).
type Pos struct {
	X int
	Y int
}

// P is a convenience constructor for Pos.
func P(x, y int) Pos {
	return Pos{X: x, Y: y}
}

// String returns a string representation of the position.
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns a new Pos offset by (dx, dy).
func (p Pos) Add(dx, dy int) Pos {
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

// Step returns a new Pos one step in the given direction.
func (p Pos) Step(d Dir) Pos {
	dx, dy := d.Delta()
	return p.Add(dx, dy)
}

// Less orders positions row by row, then by column.
func (p Pos) Less(other Pos) bool {
	if p.Y != other.Y {
		return p.Y < other.Y
	}
	return p.X < other.X
}

// Rect is an inclusive bounding rectangle.
type Rect struct {
	Min Pos
	Max Pos
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Pos) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Extend returns the smallest rectangle containing r and p.
func (r Rect) Extend(p Pos) Rect {
	r.Min.X = min(r.Min.X, p.X)
	r.Min.Y = min(r.Min.Y, p.Y)
	r.Max.X = max(r.Max.X, p.X)
	r.Max.Y = max(r.Max.Y, p.Y)
	return r
}

// Union returns the smallest rectangle containing both rectangles.
func (r Rect) Union(other Rect) Rect {
	return r.Extend(other.Min).Extend(other.Max)
}

// Width returns the number of columns covered.
func (r Rect) Width() int {
	return r.Max.X - r.Min.X + 1
}

// Height returns the number of rows covered.
func (r Rect) Height() int {
	return r.Max.Y - r.Min.Y + 1
}
