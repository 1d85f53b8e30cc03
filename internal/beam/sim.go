package beam

import (
	"fmt"
	"hash/fnv"
	"io"
)

// TickResult summarizes one simulation step.
type TickResult struct {
	Tick     uint64
	Beams    int  // cells carrying a beam after the tick
	Advanced bool // the active test case matched this tick
	Complete bool // the attached level reached a terminal result
}

// State is one simulation session: it owns the board, its acceleration
// index and the optional level harness.
type State struct {
	board  *Board
	index  *Index
	level  *LevelState
	bounds Rect
	tick   uint64

	// unsteadyUntil is the first tick at which the current readings are
	// known to change, so steady can skip the lookahead before it.
	unsteadyUntil uint64
}

// NewState creates a simulation over a copy of board. When level is not nil
// its first test case is written onto the board; a malformed case is
// reported here rather than mid-tick.
func NewState(board *Board, level *LevelState) (*State, error) {
	if board == nil {
		board = NewBoard()
	}
	s := &State{
		board: board.Clone(),
		level: level,
	}
	s.index = BuildIndex(s.board)
	s.refreshBounds()

	if level != nil {
		s.ClearLight()
		if err := level.SetupCase(s); err != nil {
			return nil, fmt.Errorf("setting up level: %w", err)
		}
	}
	return s, nil
}

// Board returns the simulated board. Mutate it only through State.Set and
// State.Clear so the index stays consistent.
func (s *State) Board() *Board {
	return s.board
}

// Index returns the acceleration index.
func (s *State) Index() *Index {
	return s.index
}

// Level returns the attached harness, or nil in free play.
func (s *State) Level() *LevelState {
	return s.level
}

// Bounds returns the simulation area; beams leaving it are dropped.
func (s *State) Bounds() Rect {
	return s.bounds
}

// Ticks returns the number of ticks run so far.
func (s *State) Ticks() uint64 {
	return s.tick
}

// Result returns the level verdict once the attached level is terminal.
func (s *State) Result() (Result, bool) {
	if s.level == nil {
		return Result{}, false
	}
	return s.level.Complete()
}

// Tile returns the tile at p.
func (s *State) Tile(p Pos) Tile {
	return s.board.Tile(p)
}

// Set places t at p and reclassifies p in the index.
func (s *State) Set(p Pos, t Tile) {
	s.board.Set(p, t)
	s.index.Retrack(t.Kind, p)
	s.unsteadyUntil = 0
	if s.board.Get(p).Beams.Empty() {
		s.index.UnmarkBeam(p)
	}
	s.refreshBounds()
}

// Clear removes the tile and any beams at p.
func (s *State) Clear(p Pos) {
	s.board.Remove(p)
	s.index.Untrack(p)
	s.index.UnmarkBeam(p)
	s.unsteadyUntil = 0
}

// ClearLight drops every beam in flight, empties delay storage and darkens
// every sensor. Tiles and emitter gates are kept.
func (s *State) ClearLight() {
	for p, c := range s.board.cells {
		c.Beams, c.Held, c.Lit = 0, 0, false
		s.board.put(p, c)
	}
	s.index.ClearBeams()
	s.unsteadyUntil = 0
}

// SetGate switches the emitter at p on or off.
func (s *State) SetGate(p Pos, on bool) {
	s.board.SetGate(p, on)
	s.unsteadyUntil = 0
}

func (s *State) refreshBounds() {
	r, ok := s.board.Bounds()
	if s.level != nil && s.level.spec.Area != nil {
		if ok {
			r = r.Union(*s.level.spec.Area)
		} else {
			r, ok = *s.level.spec.Area, true
		}
	}
	if !ok {
		// Nothing placed yet: a degenerate area that holds no beam.
		r = Rect{Min: P(0, 0), Max: P(-1, -1)}
	}
	s.bounds = r
}

// Tick advances the simulation by one synchronous step.
//
// Every cell's next beam state is computed from the previous configuration
// only, then all cells commit together, so the result does not depend on
// the order the index sets are visited in:
//  1. Route beams on beam cells: straight through empty cells, reflected by
//     mirrors, straight plus reflected by splitters, stored by delays,
//     absorbed by everything else.
//  2. Sources on post cells: emitters inject a beam next to themselves,
//     delays release what they stored on the previous tick.
//  3. Commit the buffers, then settle sensors from the committed beams.
//  4. Let the level harness evaluate the readings.
func (s *State) Tick() TickResult {
	next := make(map[Pos]DirSet, s.index.Len(RoleBeam))
	held := make(map[Pos]DirSet, s.index.Len(RoleDelay))

	emit := func(from Pos, d Dir) {
		to := from.Step(d)
		if s.bounds.Contains(to) {
			next[to] = next[to].With(d)
		}
	}

	// 1. Dispatch on cells carrying beams.
	for p := range s.index.sets[RoleBeam] {
		c := s.board.cells[p]
		if s.index.Has(RoleModifier, p) {
			for _, d := range c.Beams.Dirs() {
				out := Reflect(d, c.Tile.Orient)
				emit(p, out)
				if c.Tile.Kind == KindSplitter {
					emit(p, d)
				}
			}
			continue
		}
		switch c.Tile.Kind {
		case KindEmpty:
			for _, d := range c.Beams.Dirs() {
				emit(p, d)
			}
		case KindDelay:
			held[p] |= c.Beams
		}
	}

	// 2. Sources.
	for p := range s.index.sets[RolePost] {
		c := s.board.cells[p]
		switch c.Tile.Kind {
		case KindEmitter:
			if !c.Off {
				emit(p, c.Tile.Dir)
			}
		case KindDelay:
			for _, d := range c.Held.Dirs() {
				emit(p, d)
			}
		}
	}

	// 3. Commit.
	for p := range s.index.sets[RoleBeam] {
		c := s.board.cells[p]
		c.Beams = 0
		s.board.put(p, c)
	}
	s.index.ClearBeams()
	for p := range s.index.sets[RoleDelay] {
		c := s.board.cells[p]
		c.Held = held[p]
		s.board.cells[p] = c
	}
	for p, set := range next {
		c := s.board.cells[p]
		c.Beams = set
		s.board.cells[p] = c
		s.index.MarkBeam(p)
	}
	for p := range s.index.sets[RolePost] {
		c := s.board.cells[p]
		if c.Tile.Kind.IsSensor() {
			c.Lit = !c.Beams.Empty()
			s.board.cells[p] = c
		}
	}
	s.tick++

	res := TickResult{Tick: s.tick, Beams: len(next)}

	// 4. Harness. A case starts from a dark board with the new inputs, and
	// counts as matched only once its readings stay put.
	if s.level != nil {
		if _, done := s.level.Complete(); !done {
			res.Advanced = s.level.Record(s.level.Matches(s.board) && s.steady())
			if _, done := s.level.Complete(); res.Advanced && !done {
				s.ClearLight()
				// A failing setup finalizes the level as Failed.
				_ = s.level.SetupCase(s)
			}
		}
		_, res.Complete = s.level.Complete()
	}
	return res
}

// steady reports whether the active case's readings hold from now on. It
// runs a copy of the board, without the harness, until the configuration
// repeats; any tick that breaks the readings fails the check. The tick on
// which the readings first break is remembered so later calls on the same
// trajectory return early.
func (s *State) steady() bool {
	if s.tick < s.unsteadyUntil {
		return false
	}
	ahead := &State{board: s.board.Clone(), index: s.index.clone(), bounds: s.bounds}
	seen := map[uint64]struct{}{ahead.digest(): {}}
	limit := 8*s.bounds.Width()*s.bounds.Height() + s.level.maxTicks
	for i := 1; i <= limit; i++ {
		ahead.Tick()
		if !s.level.Matches(ahead.board) {
			s.unsteadyUntil = s.tick + uint64(i)
			return false
		}
		d := ahead.digest()
		if _, ok := seen[d]; ok {
			return true
		}
		seen[d] = struct{}{}
	}
	return false
}

// Hash returns a deterministic FNV-64a digest of every in-bounds cell (tile,
// beams, delay storage, sensor reading and emitter gate) plus the tick count.
func (s *State) Hash() uint64 {
	h := fnv.New64a()
	s.writeCells(h)
	fmt.Fprintf(h, "tick=%d", s.tick)
	return h.Sum64()
}

// digest hashes the cells only, so equal configurations at different ticks
// collide.
func (s *State) digest() uint64 {
	h := fnv.New64a()
	s.writeCells(h)
	return h.Sum64()
}

func (s *State) writeCells(w io.Writer) {
	for _, p := range s.board.Positions() {
		if !s.bounds.Contains(p) {
			continue
		}
		c := s.board.cells[p]
		fmt.Fprintf(w, "%d,%d:%d:%t:%d:%d:%d:%t:%t;",
			p.X, p.Y, c.Tile.Kind, c.Tile.Orient, c.Tile.Dir, c.Beams, c.Held, c.Lit, c.Off)
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	out := &State{
		board:  s.board.Clone(),
		index:  s.index.clone(),
		bounds: s.bounds,
		tick:   s.tick,

		unsteadyUntil: s.unsteadyUntil,
	}
	if s.level != nil {
		out.level = s.level.Clone()
	}
	return out
}
