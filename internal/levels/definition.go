// Package levels provides level definitions, the campaign dependency tree
// and asset loading. This package depends on beam but beam does not depend
// on levels.
package levels

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/beamforge/internal/beam"
	"github.com/vovakirdan/beamforge/internal/levels/formats"
)

// Board check errors.
var (
	ErrPermanentChanged = errors.New("permanent tile changed")
	ErrReservedCell     = errors.New("cell is reserved for a level element")
	ErrOutOfArea        = errors.New("tile outside the level area")
)

// Definition is an immutable level loaded once at startup.
// Callers must treat its maps and slices as read-only.
type Definition struct {
	ID        string
	Name      string
	Parents   []string
	Width     int
	Height    int
	MaxTicks  int
	Permanent map[beam.Pos]beam.Tile
	Spec      beam.LevelSpec
	Metadata  map[string]string
	FilePath  string
}

func fromFormat(l formats.Level, path string) Definition {
	return Definition{
		ID:        l.ID,
		Name:      l.Name,
		Parents:   l.Parents,
		Width:     l.Width,
		Height:    l.Height,
		MaxTicks:  l.MaxTicks,
		Permanent: l.Permanent,
		Spec:      l.Spec,
		Metadata:  l.Metadata,
		FilePath:  path,
	}
}

// Area returns the playfield rectangle.
func (d Definition) Area() beam.Rect {
	return beam.Rect{Min: beam.P(0, 0), Max: beam.P(d.Width-1, d.Height-1)}
}

// Board creates a board holding only the permanent tiles.
func (d Definition) Board() *beam.Board {
	return beam.NewBoardFrom(d.Permanent)
}

// NewLevelState creates fresh harness progress for this level. A
// non-positive maxTicks uses the level's own budget.
func (d Definition) NewLevelState(maxTicks int) *beam.LevelState {
	if maxTicks <= 0 {
		maxTicks = d.MaxTicks
	}
	spec := d.Spec
	area := d.Area()
	spec.Area = &area
	return beam.NewLevelState(spec, maxTicks)
}

// reserved reports whether p holds a dynamic element or static detector.
func (d Definition) reserved(p beam.Pos) bool {
	for _, el := range d.Spec.Dynamic {
		if el.Pos == p {
			return true
		}
	}
	for _, sd := range d.Spec.StaticDetectors {
		if sd.Pos == p {
			return true
		}
	}
	return false
}

// CheckBoard verifies that a player board keeps every permanent tile, leaves
// element slots free and stays inside the level area.
func (d Definition) CheckBoard(b *beam.Board) error {
	for p, want := range d.Permanent {
		if got := b.Tile(p); got != want {
			return fmt.Errorf("%w at %v: have %v, want %v", ErrPermanentChanged, p, got.Kind, want.Kind)
		}
	}

	area := d.Area()
	for p, t := range b.Tiles() {
		if _, ok := d.Permanent[p]; ok {
			continue
		}
		if !area.Contains(p) {
			return fmt.Errorf("%w: %v at %v", ErrOutOfArea, t.Kind, p)
		}
		if d.reserved(p) {
			return fmt.Errorf("%w: %v at %v", ErrReservedCell, t.Kind, p)
		}
	}
	return nil
}

// Cost returns the total price of the player-placed tiles on b.
func (d Definition) Cost(b *beam.Board) int {
	cost := 0
	for p, t := range b.Tiles() {
		if _, ok := d.Permanent[p]; ok {
			continue
		}
		cost += t.Kind.Cost()
	}
	return cost
}

// WithPermanent returns a copy of b with the permanent tiles restored.
func (d Definition) WithPermanent(b *beam.Board) *beam.Board {
	out := b.Clone()
	for p, t := range d.Permanent {
		out.Set(p, t)
	}
	return out
}
