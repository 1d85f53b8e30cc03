package beam

// Role names one of the acceleration index sets.
type Role uint8

const (
	RoleDelay    Role = iota // Delay tiles
	RoleModifier             // Mirror and Splitter tiles
	RoleBeam                 // cells currently carrying a beam
	RolePost                 // cells settled at the end of a tick
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleDelay:
		return "delay"
	case RoleModifier:
		return "modifier"
	case RoleBeam:
		return "beam"
	case RolePost:
		return "post"
	default:
		return "unknown"
	}
}

// RolesOf returns the tile-derived roles for a kind. RoleBeam is never
// implied by a kind; it follows the signal, not the tile.
func RolesOf(k Kind) []Role {
	switch k {
	case KindDelay:
		return []Role{RoleDelay, RolePost}
	case KindMirror, KindSplitter:
		return []Role{RoleModifier}
	case KindWall, KindGalvo, KindEmitter, KindDetector:
		return []Role{RolePost}
	default:
		return nil
	}
}

type posSet map[Pos]struct{}

// Index classifies board positions by the work a tick has to do on them,
// so a tick visits only interesting cells instead of the whole board.
type Index struct {
	sets [4]posSet
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	idx := &Index{}
	for i := range idx.sets {
		idx.sets[i] = make(posSet)
	}
	return idx
}

// BuildIndex indexes every tile and beam on the board.
func BuildIndex(b *Board) *Index {
	idx := NewIndex()
	for p, c := range b.cells {
		idx.Track(c.Tile.Kind, p)
		if !c.Beams.Empty() {
			idx.MarkBeam(p)
		}
	}
	return idx
}

// Track inserts p into every set implied by k.
func (idx *Index) Track(k Kind, p Pos) {
	for _, r := range RolesOf(k) {
		idx.sets[r][p] = struct{}{}
	}
}

// Untrack evicts p from every tile-derived set.
func (idx *Index) Untrack(p Pos) {
	delete(idx.sets[RoleDelay], p)
	delete(idx.sets[RoleModifier], p)
	delete(idx.sets[RolePost], p)
}

// Retrack moves p from whatever roles it held to the roles of k.
func (idx *Index) Retrack(k Kind, p Pos) {
	idx.Untrack(p)
	idx.Track(k, p)
}

// MarkBeam records that p carries a beam.
func (idx *Index) MarkBeam(p Pos) {
	idx.sets[RoleBeam][p] = struct{}{}
}

// UnmarkBeam records that p no longer carries a beam.
func (idx *Index) UnmarkBeam(p Pos) {
	delete(idx.sets[RoleBeam], p)
}

// ClearBeams empties the beam set.
func (idx *Index) ClearBeams() {
	idx.sets[RoleBeam] = make(posSet)
}

// Has reports whether p is a member of role r.
func (idx *Index) Has(r Role, p Pos) bool {
	_, ok := idx.sets[r][p]
	return ok
}

// Len returns the size of role r.
func (idx *Index) Len(r Role) int {
	return len(idx.sets[r])
}

// Members returns the positions in role r in row-major order.
func (idx *Index) Members(r Role) []Pos {
	ps := make([]Pos, 0, len(idx.sets[r]))
	for p := range idx.sets[r] {
		ps = append(ps, p)
	}
	sortPositions(ps)
	return ps
}

// Delays returns the Delay positions.
func (idx *Index) Delays() []Pos { return idx.Members(RoleDelay) }

// Modifiers returns the Mirror and Splitter positions.
func (idx *Index) Modifiers() []Pos { return idx.Members(RoleModifier) }

// Beams returns the positions carrying a beam.
func (idx *Index) Beams() []Pos { return idx.Members(RoleBeam) }

// Post returns the positions settled at the end of a tick.
func (idx *Index) Post() []Pos { return idx.Members(RolePost) }

func (idx *Index) clone() *Index {
	out := NewIndex()
	for r, set := range idx.sets {
		for p := range set {
			out.sets[r][p] = struct{}{}
		}
	}
	return out
}
