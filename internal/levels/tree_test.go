package levels_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/vovakirdan/beamforge/internal/beam"
	"github.com/vovakirdan/beamforge/internal/levels"
)

func def(id string, parents ...string) levels.Definition {
	return levels.Definition{ID: id, Name: id, Parents: parents, Width: 3, Height: 3}
}

func mustTree(t *testing.T, defs ...levels.Definition) *levels.Tree {
	t.Helper()
	cat, err := levels.NewCatalog(defs)
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	return levels.NewTree(cat)
}

func TestTreeRootsHaveNoPrerequisites(t *testing.T) {
	// "b" lists "a" as a parent: only "a" and "d" are entry levels.
	tree := mustTree(t,
		def("b", "a"),
		def("a"),
		def("c", "b"),
		def("d"),
	)

	if got, want := tree.Roots(), []string{"a", "d"}; !slices.Equal(got, want) {
		t.Errorf("roots = %v, want %v", got, want)
	}
}

func TestTreeChildren(t *testing.T) {
	tree := mustTree(t,
		def("root"),
		def("left", "root"),
		def("right", "root"),
		def("join", "left", "right"),
		def("alone"),
	)

	testCases := []struct {
		id   string
		want []string
	}{
		{"root", []string{"left", "right"}},
		{"left", []string{"join"}},
		{"right", []string{"join"}},
		{"join", nil},
		{"alone", nil},
		{"unknown", nil},
	}
	for _, tc := range testCases {
		t.Run(tc.id, func(t *testing.T) {
			if got := tree.Children(tc.id); !slices.Equal(got, tc.want) {
				t.Errorf("Children(%s) = %v, want %v", tc.id, got, tc.want)
			}
		})
	}

	if got, want := tree.Walk(), []string{"alone", "root", "left", "right", "join"}; !slices.Equal(got, want) {
		t.Errorf("Walk() = %v, want %v", got, want)
	}
}

func TestTreeUnlocked(t *testing.T) {
	tree := mustTree(t,
		def("root"),
		def("left", "root"),
		def("right", "root"),
		def("join", "left", "right"),
	)

	testCases := []struct {
		name      string
		completed []string
		want      []string
	}{
		{"fresh", nil, []string{"root"}},
		{"root_done", []string{"root"}, []string{"root", "left", "right"}},
		{"one_branch", []string{"root", "left"}, []string{"root", "left", "right"}},
		{"both_branches", []string{"root", "left", "right"}, []string{"root", "left", "right", "join"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			done := make(map[string]bool)
			for _, id := range tc.completed {
				done[id] = true
			}
			if got := tree.Unlocked(done); !slices.Equal(got, tc.want) {
				t.Errorf("Unlocked(%v) = %v, want %v", tc.completed, got, tc.want)
			}
		})
	}
}

func TestTreeMissingParents(t *testing.T) {
	tree := mustTree(t,
		def("a"),
		def("b", "a", "ghost"),
	)

	missing := tree.MissingParents()
	if !slices.Equal(missing["b"], []string{"ghost"}) {
		t.Errorf("missing parents = %v", missing)
	}
	if got := tree.Unlocked(map[string]bool{"a": true}); slices.Contains(got, "b") {
		t.Error("a level with a missing parent should never unlock")
	}
}

func TestTreeCycleTerminates(t *testing.T) {
	tree := mustTree(t,
		def("start"),
		def("x", "start", "y"),
		def("y", "x"),
	)
	if got := tree.Walk(); !slices.Equal(got, []string{"start", "x", "y"}) {
		t.Errorf("Walk() = %v", got)
	}
}

func TestCatalog(t *testing.T) {
	cat, err := levels.NewCatalog([]levels.Definition{def("b"), def("a")})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	if got := cat.IDs(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("IDs() = %v", got)
	}
	if d, ok := cat.Get("b"); !ok || d.ID != "b" {
		t.Errorf("Get(b) = %v, %v", d.ID, ok)
	}
	if _, ok := cat.Get("zzz"); ok {
		t.Error("Get should miss unknown ids")
	}

	_, err = levels.NewCatalog([]levels.Definition{def("a"), def("a")})
	if !errors.Is(err, levels.ErrDuplicateLevel) {
		t.Errorf("expected ErrDuplicateLevel, got %v", err)
	}
}

func TestDefinitionBoardChecks(t *testing.T) {
	d := levels.Definition{
		ID:     "check",
		Width:  5,
		Height: 3,
		Permanent: map[beam.Pos]beam.Tile{
			beam.P(2, 1): beam.Wall(),
		},
		Spec: beam.LevelSpec{
			Dynamic: []beam.Element{
				{Kind: beam.ElementLaser, Pos: beam.P(0, 1), Dir: beam.DirRight},
				{Kind: beam.ElementDetector, Pos: beam.P(4, 1)},
			},
		},
	}

	good := d.Board()
	good.Set(beam.P(1, 1), beam.Mirror(false))
	good.Set(beam.P(1, 0), beam.Splitter(true))
	if err := d.CheckBoard(good); err != nil {
		t.Errorf("valid board rejected: %v", err)
	}
	if got := d.Cost(good); got != beam.KindMirror.Cost()+beam.KindSplitter.Cost() {
		t.Errorf("cost = %d", got)
	}

	testCases := []struct {
		name string
		edit func(b *beam.Board)
		want error
	}{
		{"removed_wall", func(b *beam.Board) { b.Remove(beam.P(2, 1)) }, levels.ErrPermanentChanged},
		{"replaced_wall", func(b *beam.Board) { b.Set(beam.P(2, 1), beam.Delay()) }, levels.ErrPermanentChanged},
		{"on_laser_slot", func(b *beam.Board) { b.Set(beam.P(0, 1), beam.Wall()) }, levels.ErrReservedCell},
		{"on_detector_slot", func(b *beam.Board) { b.Set(beam.P(4, 1), beam.Mirror(true)) }, levels.ErrReservedCell},
		{"outside", func(b *beam.Board) { b.Set(beam.P(7, 7), beam.Wall()) }, levels.ErrOutOfArea},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := d.Board()
			tc.edit(b)
			if err := d.CheckBoard(b); !errors.Is(err, tc.want) {
				t.Errorf("CheckBoard = %v, want %v", err, tc.want)
			}
		})
	}

	stripped := beam.NewBoard()
	if restored := d.WithPermanent(stripped); restored.Tile(beam.P(2, 1)) != beam.Wall() {
		t.Error("WithPermanent should restore the wall")
	}
	if !stripped.Tile(beam.P(2, 1)).IsEmpty() {
		t.Error("WithPermanent should not modify its argument")
	}
}
