package beam_test

import (
	"testing"

	"github.com/vovakirdan/beamforge/internal/beam"
)

// newFree builds a free-play state (no level) from the given tiles.
func newFree(t *testing.T, tiles map[beam.Pos]beam.Tile) *beam.State {
	t.Helper()
	st, err := beam.NewState(beam.NewBoardFrom(tiles), nil)
	if err != nil {
		t.Fatalf("NewState failed: %v", err)
	}
	return st
}

// newLevel builds a state running spec against the given tiles.
func newLevel(t *testing.T, tiles map[beam.Pos]beam.Tile, spec beam.LevelSpec, maxTicks int) *beam.State {
	t.Helper()
	st, err := beam.NewState(beam.NewBoardFrom(tiles), beam.NewLevelState(spec, maxTicks))
	if err != nil {
		t.Fatalf("NewState failed: %v", err)
	}
	return st
}

// runUntilDone ticks until the level completes or limit is hit.
func runUntilDone(t *testing.T, st *beam.State, limit int) beam.Result {
	t.Helper()
	for i := 0; i < limit; i++ {
		if res := st.Tick(); res.Complete {
			r, _ := st.Result()
			return r
		}
	}
	t.Fatalf("level did not complete within %d ticks", limit)
	return beam.Result{}
}

// beamCells returns every position carrying a beam.
func beamCells(st *beam.State) map[beam.Pos]beam.DirSet {
	out := make(map[beam.Pos]beam.DirSet)
	for _, p := range st.Board().Positions() {
		if c := st.Board().Get(p); !c.Beams.Empty() {
			out[p] = c.Beams
		}
	}
	return out
}
