// Package beam provides the beam circuit simulation core.
// This package is UI-agnostic and deterministic.
package beam

import "strings"

// Dir represents the travel direction of a beam or the facing of an emitter.
type Dir uint8

const (
	DirUp Dir = iota
	DirRight
	DirDown
	DirLeft
)

// AllDirs lists the four directions in rotation order.
var AllDirs = [4]Dir{DirUp, DirRight, DirDown, DirLeft}

// String returns the string representation of a direction.
func (d Dir) String() string {
	switch d {
	case DirUp:
		return "Up"
	case DirRight:
		return "Right"
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	default:
		return "Unknown"
	}
}

// ParseDir parses a direction name (case-insensitive).
func ParseDir(s string) (Dir, bool) {
	switch strings.ToLower(s) {
	case "up", "u", "n":
		return DirUp, true
	case "right", "r", "e":
		return DirRight, true
	case "down", "d", "s":
		return DirDown, true
	case "left", "l", "w":
		return DirLeft, true
	default:
		return DirUp, false
	}
}

// Delta returns the (dx, dy) offset for moving one step in this direction.
// Up decreases Y, Down increases Y (screen coordinates).
func (d Dir) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the opposite direction.
func (d Dir) Opposite() Dir {
	return (d + 2) % 4
}

// Rotate returns the direction turned 90 degrees clockwise.
func (d Dir) Rotate() Dir {
	return (d + 1) % 4
}

// DirSet is a set of directions, one bit per Dir.
type DirSet uint8

// Has reports whether d is in the set.
func (s DirSet) Has(d Dir) bool {
	return s&(1<<d) != 0
}

// With returns the set with d added.
func (s DirSet) With(d Dir) DirSet {
	return s | 1<<d
}

// Empty reports whether the set has no directions.
func (s DirSet) Empty() bool {
	return s&0x0f == 0
}

// Count returns the number of directions in the set.
func (s DirSet) Count() int {
	n := 0
	for _, d := range AllDirs {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// Dirs returns the members in rotation order.
func (s DirSet) Dirs() []Dir {
	dirs := make([]Dir, 0, 4)
	for _, d := range AllDirs {
		if s.Has(d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// Kind is the static component placed on a board cell.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindWall
	KindMirror
	KindSplitter
	KindDelay
	KindGalvo
	KindEmitter
	KindDetector
)

var kindNames = map[Kind]string{
	KindEmpty:    "empty",
	KindWall:     "wall",
	KindMirror:   "mirror",
	KindSplitter: "splitter",
	KindDelay:    "delay",
	KindGalvo:    "galvo",
	KindEmitter:  "emitter",
	KindDetector: "detector",
}

// String returns the lowercase name used in level and board files.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind parses a tile kind name.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(s)
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return KindEmpty, false
}

// IsSensor reports whether the kind records beam arrivals.
func (k Kind) IsSensor() bool {
	return k == KindDetector || k == KindGalvo
}

// Cost returns the build price of a player-placed tile of this kind.
func (k Kind) Cost() int {
	switch k {
	case KindWall:
		return 1
	case KindMirror:
		return 2
	case KindSplitter:
		return 4
	case KindDelay:
		return 3
	case KindGalvo:
		return 5
	case KindEmitter:
		return 6
	case KindDetector:
		return 2
	default:
		return 0
	}
}

// Tile is a static placement on the board.
// Orient selects between the two diagonals of a Mirror or Splitter:
// false is "/", true is "\". Dir is only meaningful for an Emitter.
type Tile struct {
	Kind   Kind
	Orient bool
	Dir    Dir
}

// Empty returns the empty tile.
func Empty() Tile {
	return Tile{}
}

// Wall returns a wall tile.
func Wall() Tile { return Tile{Kind: KindWall} }

// Mirror returns a mirror with the given orientation.
func Mirror(orient bool) Tile { return Tile{Kind: KindMirror, Orient: orient} }

// Splitter returns a splitter with the given orientation.
func Splitter(orient bool) Tile { return Tile{Kind: KindSplitter, Orient: orient} }

// Delay returns a delay tile.
func Delay() Tile { return Tile{Kind: KindDelay} }

// Galvo returns a galvo sensor.
func Galvo() Tile { return Tile{Kind: KindGalvo} }

// Emitter returns an emitter facing d.
func Emitter(d Dir) Tile { return Tile{Kind: KindEmitter, Dir: d} }

// Detector returns a detector.
func Detector() Tile { return Tile{Kind: KindDetector} }

// IsEmpty reports whether the tile is the empty default.
func (t Tile) IsEmpty() bool {
	return t.Kind == KindEmpty
}

// Rotate returns the tile turned 90 degrees clockwise.
// A quarter turn swaps the diagonal of a mirror or splitter, so two
// rotations restore the original tile.
func (t Tile) Rotate() Tile {
	switch t.Kind {
	case KindMirror, KindSplitter:
		t.Orient = !t.Orient
	case KindEmitter:
		t.Dir = t.Dir.Rotate()
	}
	return t
}

// Reflect returns the outgoing direction for a beam travelling in d that hits
// a mirror or splitter with the given orientation.
func Reflect(d Dir, orient bool) Dir {
	out := slashTable[d]
	if orient {
		out = out.Opposite()
	}
	return out
}

// slashTable is the "/" reflection: the "\" table is its 180-degree complement.
var slashTable = [4]Dir{
	DirUp:    DirRight,
	DirRight: DirUp,
	DirDown:  DirLeft,
	DirLeft:  DirDown,
}
