package beam

import "sort"

// Cell is a tile together with its in-flight beam state.
type Cell struct {
	Tile  Tile
	Beams DirSet // beams in this cell this tick, by travel direction
	Held  DirSet // beams stored by a Delay, released next tick
	Lit   bool   // sensor reading after the last tick
	Off   bool   // emitter gate; the zero value emits
}

// isDefault reports whether the cell carries nothing worth storing.
func (c Cell) isDefault() bool {
	return c.Tile.IsEmpty() && c.Beams.Empty() && c.Held.Empty() && !c.Lit && !c.Off
}

// Board is a sparse mapping from position to cell.
// Only non-default cells are stored. The bounding rectangle grows as tiles
// are placed and never shrinks.
type Board struct {
	cells     map[Pos]Cell
	bounds    Rect
	hasBounds bool
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{cells: make(map[Pos]Cell)}
}

// NewBoardFrom creates a board holding the given tiles.
// Empty tiles in the map are ignored.
func NewBoardFrom(tiles map[Pos]Tile) *Board {
	b := NewBoard()
	for p, t := range tiles {
		b.Set(p, t)
	}
	return b
}

// Get returns the cell at p. Missing positions yield the default cell.
func (b *Board) Get(p Pos) Cell {
	return b.cells[p]
}

// Tile returns the tile at p.
func (b *Board) Tile(p Pos) Tile {
	return b.cells[p].Tile
}

// Set places tile t at p, keeping any in-flight beam state.
// Setting the empty tile removes the tile.
func (b *Board) Set(p Pos, t Tile) {
	c := b.cells[p]
	c.Tile = t
	if t.Kind != KindDelay {
		c.Held = 0
	}
	if !t.Kind.IsSensor() {
		c.Lit = false
	}
	if t.Kind != KindEmitter {
		c.Off = false
	}
	b.put(p, c)
	if !t.IsEmpty() {
		b.grow(p)
	}
}

// SetGate switches the emitter at p on or off. Other tiles are left alone.
func (b *Board) SetGate(p Pos, on bool) {
	c, ok := b.cells[p]
	if !ok || c.Tile.Kind != KindEmitter {
		return
	}
	c.Off = !on
	b.cells[p] = c
}

// Remove deletes the tile and all dynamic state at p.
func (b *Board) Remove(p Pos) {
	delete(b.cells, p)
}

// put stores c at p, dropping it when it became default.
func (b *Board) put(p Pos, c Cell) {
	if c.isDefault() {
		delete(b.cells, p)
		return
	}
	b.cells[p] = c
}

func (b *Board) grow(p Pos) {
	if !b.hasBounds {
		b.bounds = Rect{Min: p, Max: p}
		b.hasBounds = true
		return
	}
	b.bounds = b.bounds.Extend(p)
}

// Bounds returns the bounding rectangle of every tile ever placed.
// The second result is false for a board that never held a tile.
func (b *Board) Bounds() (Rect, bool) {
	return b.bounds, b.hasBounds
}

// Len returns the number of stored cells.
func (b *Board) Len() int {
	return len(b.cells)
}

// TileCount returns the number of non-empty tiles.
func (b *Board) TileCount() int {
	n := 0
	for _, c := range b.cells {
		if !c.Tile.IsEmpty() {
			n++
		}
	}
	return n
}

// Positions returns every stored position in row-major order.
func (b *Board) Positions() []Pos {
	ps := make([]Pos, 0, len(b.cells))
	for p := range b.cells {
		ps = append(ps, p)
	}
	sortPositions(ps)
	return ps
}

// Tiles returns a copy of the static placements.
func (b *Board) Tiles() map[Pos]Tile {
	tiles := make(map[Pos]Tile, len(b.cells))
	for p, c := range b.cells {
		if !c.Tile.IsEmpty() {
			tiles[p] = c.Tile
		}
	}
	return tiles
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	cells := make(map[Pos]Cell, len(b.cells))
	for p, c := range b.cells {
		cells[p] = c
	}
	return &Board{
		cells:     cells,
		bounds:    b.bounds,
		hasBounds: b.hasBounds,
	}
}

// Equal returns true if two boards hold the same cells.
func (b *Board) Equal(other *Board) bool {
	if len(b.cells) != len(other.cells) {
		return false
	}
	for p, c := range b.cells {
		if oc, ok := other.cells[p]; !ok || oc != c {
			return false
		}
	}
	return true
}

func sortPositions(ps []Pos) {
	sort.Slice(ps, func(i, j int) bool {
		return ps[i].Less(ps[j])
	})
}
