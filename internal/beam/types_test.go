package beam_test

import (
	"testing"

	"github.com/vovakirdan/beamforge/internal/beam"
)

func TestReflectTable(t *testing.T) {
	testCases := []struct {
		in     beam.Dir
		orient bool
		want   beam.Dir
	}{
		// "/" mirror
		{beam.DirUp, false, beam.DirRight},
		{beam.DirRight, false, beam.DirUp},
		{beam.DirDown, false, beam.DirLeft},
		{beam.DirLeft, false, beam.DirDown},
		// "\" mirror
		{beam.DirUp, true, beam.DirLeft},
		{beam.DirRight, true, beam.DirDown},
		{beam.DirDown, true, beam.DirRight},
		{beam.DirLeft, true, beam.DirUp},
	}

	for _, tc := range testCases {
		if got := beam.Reflect(tc.in, tc.orient); got != tc.want {
			t.Errorf("Reflect(%v, %v) = %v, want %v", tc.in, tc.orient, got, tc.want)
		}
	}
}

func TestReflectTableIsComplement(t *testing.T) {
	for _, d := range beam.AllDirs {
		if beam.Reflect(d, true) != beam.Reflect(d, false).Opposite() {
			t.Errorf("%v: orientation true is not the 180 degree complement", d)
		}
	}
}

func TestMirrorThroughSimulation(t *testing.T) {
	// Beams enter a mirror at the centre of a 5x5 area from each side.
	testCases := []struct {
		name    string
		emitter beam.Pos
		dir     beam.Dir
	}{
		{"from_left", beam.P(0, 2), beam.DirRight},
		{"from_right", beam.P(4, 2), beam.DirLeft},
		{"from_top", beam.P(2, 0), beam.DirDown},
		{"from_bottom", beam.P(2, 4), beam.DirUp},
	}

	for _, orient := range []bool{false, true} {
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				centre := beam.P(2, 2)
				st := newFree(t, map[beam.Pos]beam.Tile{
					beam.P(0, 0): beam.Wall(),
					beam.P(4, 4): beam.Wall(),
					tc.emitter:   beam.Emitter(tc.dir),
					centre:       beam.Mirror(orient),
				})

				st.Tick() // beam one step from the emitter
				st.SetGate(tc.emitter, false)
				st.Tick() // beam on the mirror
				st.Tick() // reflected

				want := beam.Reflect(tc.dir, orient)
				got := beamCells(st)
				if len(got) != 1 {
					t.Fatalf("expected exactly one beam, got %v", got)
				}
				if set, ok := got[centre.Step(want)]; !ok || !set.Has(want) {
					t.Errorf("orient=%v: expected beam travelling %v at %v, got %v",
						orient, want, centre.Step(want), got)
				}
			})
		}
	}
}

func TestMirrorDoubleRotation(t *testing.T) {
	for _, orient := range []bool{false, true} {
		m := beam.Mirror(orient)
		if m.Rotate() == m {
			t.Errorf("single rotation should change mirror orientation")
		}
		if m.Rotate().Rotate() != m {
			t.Errorf("rotating mirror twice should restore it")
		}
	}

	e := beam.Emitter(beam.DirUp)
	for i := 0; i < 4; i++ {
		e = e.Rotate()
	}
	if e != beam.Emitter(beam.DirUp) {
		t.Errorf("four emitter rotations should restore it, got %v", e.Dir)
	}
}

func TestDirOppositeAndRotate(t *testing.T) {
	for _, d := range beam.AllDirs {
		if d.Opposite().Opposite() != d {
			t.Errorf("%v: double opposite should be identity", d)
		}
		if d.Rotate().Rotate() != d.Opposite() {
			t.Errorf("%v: two rotations should equal opposite", d)
		}
		dx, dy := d.Delta()
		ox, oy := d.Opposite().Delta()
		if dx != -ox || dy != -oy {
			t.Errorf("%v: opposite delta mismatch", d)
		}
	}
}

func TestParseKindRoundTrip(t *testing.T) {
	kinds := []beam.Kind{
		beam.KindWall, beam.KindMirror, beam.KindSplitter, beam.KindDelay,
		beam.KindGalvo, beam.KindEmitter, beam.KindDetector,
	}
	for _, k := range kinds {
		got, ok := beam.ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := beam.ParseKind("laser-cannon"); ok {
		t.Error("unknown kind should not parse")
	}
}
