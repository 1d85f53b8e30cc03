package beam_test

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/vovakirdan/beamforge/internal/beam"
)

var allTiles = []beam.Tile{
	beam.Empty(),
	beam.Wall(),
	beam.Mirror(false),
	beam.Mirror(true),
	beam.Splitter(false),
	beam.Splitter(true),
	beam.Delay(),
	beam.Galvo(),
	beam.Emitter(beam.DirUp),
	beam.Emitter(beam.DirRight),
	beam.Emitter(beam.DirDown),
	beam.Emitter(beam.DirLeft),
	beam.Detector(),
}

func checkIndex(t *testing.T, st *beam.State) {
	t.Helper()
	idx := st.Index()
	roles := []beam.Role{beam.RoleDelay, beam.RoleModifier, beam.RolePost}

	// Every tracked position must have a tile of the matching kind.
	for _, r := range roles {
		for _, p := range idx.Members(r) {
			if !slices.Contains(beam.RolesOf(st.Tile(p).Kind), r) {
				t.Fatalf("tick %d: %v in %v set but holds %v", st.Ticks(), p, r, st.Tile(p).Kind)
			}
		}
	}
	// Every tile must be tracked in exactly the roles its kind implies.
	for _, p := range st.Board().Positions() {
		want := beam.RolesOf(st.Tile(p).Kind)
		for _, r := range roles {
			if idx.Has(r, p) != slices.Contains(want, r) {
				t.Fatalf("tick %d: %v (%v) membership in %v is wrong", st.Ticks(), p, st.Tile(p).Kind, r)
			}
		}
	}
	// The beam set is exactly the cells that carry a beam.
	want := make([]beam.Pos, 0)
	for _, p := range st.Board().Positions() {
		if !st.Board().Get(p).Beams.Empty() {
			want = append(want, p)
		}
	}
	if got := idx.Beams(); !slices.Equal(got, want) {
		t.Fatalf("tick %d: beam set %v, want %v", st.Ticks(), got, want)
	}
}

func TestIndexConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	st := newFree(t, map[beam.Pos]beam.Tile{
		beam.P(0, 0):   beam.Wall(),
		beam.P(11, 11): beam.Wall(),
	})

	for step := 0; step < 500; step++ {
		p := beam.P(rng.Intn(12), rng.Intn(12))
		switch rng.Intn(4) {
		case 0:
			st.Clear(p)
		default:
			st.Set(p, allTiles[rng.Intn(len(allTiles))])
		}
		checkIndex(t, st)

		if step%3 == 0 {
			st.Tick()
			checkIndex(t, st)
		}
	}
}

func TestBuildIndexMatchesIncremental(t *testing.T) {
	st := newFree(t, map[beam.Pos]beam.Tile{
		beam.P(0, 0): beam.Emitter(beam.DirRight),
		beam.P(3, 0): beam.Mirror(true),
		beam.P(3, 3): beam.Delay(),
		beam.P(5, 5): beam.Wall(),
	})
	for i := 0; i < 6; i++ {
		st.Tick()
	}
	st.Set(beam.P(3, 3), beam.Splitter(false))

	rebuilt := beam.BuildIndex(st.Board())
	for _, r := range []beam.Role{beam.RoleDelay, beam.RoleModifier, beam.RoleBeam, beam.RolePost} {
		if got, want := st.Index().Members(r), rebuilt.Members(r); !slices.Equal(got, want) {
			t.Errorf("%v: incremental %v, rebuilt %v", r, got, want)
		}
	}
}

func TestReplacingTileChangesRoles(t *testing.T) {
	p := beam.P(1, 1)
	st := newFree(t, map[beam.Pos]beam.Tile{p: beam.Delay()})

	if !st.Index().Has(beam.RoleDelay, p) || !st.Index().Has(beam.RolePost, p) {
		t.Fatal("delay should be in the delay and post sets")
	}

	st.Set(p, beam.Mirror(false))
	if st.Index().Has(beam.RoleDelay, p) || st.Index().Has(beam.RolePost, p) {
		t.Error("mirror should have left the delay and post sets")
	}
	if !st.Index().Has(beam.RoleModifier, p) {
		t.Error("mirror should be in the modifier set")
	}

	st.Clear(p)
	for _, r := range []beam.Role{beam.RoleDelay, beam.RoleModifier, beam.RoleBeam, beam.RolePost} {
		if st.Index().Has(r, p) {
			t.Errorf("cleared cell still in %v set", r)
		}
	}
}
