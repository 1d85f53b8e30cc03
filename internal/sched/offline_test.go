package sched_test

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/beamforge/internal/beam"
	"github.com/vovakirdan/beamforge/internal/levels"
	"github.com/vovakirdan/beamforge/internal/sched"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func bundledCatalog(t *testing.T) *levels.Catalog {
	t.Helper()
	cat, err := levels.Bundled(quietLogger())
	if err != nil {
		t.Fatalf("Bundled failed: %v", err)
	}
	return cat
}

func TestRunRequiresLevel(t *testing.T) {
	st, err := beam.NewState(beam.NewBoard(), nil)
	if err != nil {
		t.Fatalf("NewState failed: %v", err)
	}
	if _, err := sched.Run(st); !errors.Is(err, sched.ErrNoLevel) {
		t.Errorf("expected ErrNoLevel, got %v", err)
	}
}

func TestRunScenarios(t *testing.T) {
	spec := beam.LevelSpec{
		Dynamic: []beam.Element{
			{Kind: beam.ElementLaser, Pos: beam.P(0, 0), Dir: beam.DirRight},
		},
		StaticDetectors: []beam.StaticDetector{{Pos: beam.P(3, 0), Expect: true}},
		Cases:           []beam.TestCase{{true}},
	}

	testCases := []struct {
		name        string
		tiles       map[beam.Pos]beam.Tile
		wantOutcome beam.Outcome
		wantLatency int
	}{
		{"two_empty_cells", nil, beam.OutcomeSuccess, 2},
		{"delay_inserted", map[beam.Pos]beam.Tile{beam.P(2, 0): beam.Delay()}, beam.OutcomeSuccess, 3},
		{"wall_in_front", map[beam.Pos]beam.Tile{beam.P(1, 0): beam.Wall()}, beam.OutcomeOutOfTime, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st, err := beam.NewState(beam.NewBoardFrom(tc.tiles), beam.NewLevelState(spec, 8))
			if err != nil {
				t.Fatalf("NewState failed: %v", err)
			}
			res, err := sched.Run(st)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if res.Outcome != tc.wantOutcome {
				t.Fatalf("outcome = %v, want %v", res, tc.wantOutcome)
			}
			if res.Success() && res.Latency != tc.wantLatency {
				t.Errorf("latency = %d, want %d", res.Latency, tc.wantLatency)
			}
			if res.Outcome == beam.OutcomeOutOfTime && res.Ticks != 9 {
				t.Errorf("out of time after %d ticks, want 9", res.Ticks)
			}
		})
	}
}

func TestAdvance(t *testing.T) {
	st, err := beam.NewState(beam.NewBoardFrom(map[beam.Pos]beam.Tile{
		beam.P(0, 0): beam.Emitter(beam.DirRight),
		beam.P(9, 0): beam.Wall(),
	}), nil)
	if err != nil {
		t.Fatalf("NewState failed: %v", err)
	}

	res := sched.Advance(st, 5)
	if res.Tick != 5 || st.Ticks() != 5 {
		t.Errorf("expected 5 ticks, got %d/%d", res.Tick, st.Ticks())
	}
	if res.Beams != 5 {
		t.Errorf("expected 5 beam cells, got %d", res.Beams)
	}
}

// solutions are known-good boards for the bundled campaign, keyed by level.
var solutions = map[string]map[beam.Pos]beam.Tile{
	"first-light": {},
	"detour": {
		beam.P(1, 1): beam.Mirror(false),
		beam.P(1, 0): beam.Mirror(false),
		beam.P(3, 0): beam.Mirror(true),
		beam.P(3, 1): beam.Mirror(true),
	},
	"crossing": {},
	"fork": {
		beam.P(2, 2): beam.Splitter(false),
		beam.P(2, 0): beam.Mirror(false),
	},
	"or-gate": {
		beam.P(4, 0): beam.Mirror(true),
		beam.P(4, 4): beam.Mirror(false),
	},
}

func TestGradeBundledSolutions(t *testing.T) {
	cat := bundledCatalog(t)

	for id, tiles := range solutions {
		t.Run(id, func(t *testing.T) {
			def, ok := cat.Get(id)
			if !ok {
				t.Fatalf("level %s not bundled", id)
			}
			board := def.WithPermanent(beam.NewBoardFrom(tiles))

			rep, err := sched.Grade(def, board, 0)
			if err != nil {
				t.Fatalf("Grade failed: %v", err)
			}
			if !rep.Result.Success() {
				t.Fatalf("expected success, got %v", rep.Result)
			}
			if len(rep.Result.CaseLatencies) != len(def.Spec.Cases) {
				t.Errorf("expected %d case latencies, got %v", len(def.Spec.Cases), rep.Result.CaseLatencies)
			}

			wantCost := 0
			for _, tile := range tiles {
				wantCost += tile.Kind.Cost()
			}
			if rep.Cost != wantCost {
				t.Errorf("cost = %d, want %d", rep.Cost, wantCost)
			}

			again, err := sched.Grade(def, board, 0)
			if err != nil {
				t.Fatalf("second Grade failed: %v", err)
			}
			if again.BoardHash != rep.BoardHash || again.Result.Latency != rep.Result.Latency {
				t.Error("grading the same board twice should agree")
			}
		})
	}
}

func TestGradeDetourLatency(t *testing.T) {
	def, _ := bundledCatalog(t).Get("detour")
	rep, err := sched.Grade(def, def.WithPermanent(beam.NewBoardFrom(solutions["detour"])), 0)
	if err != nil {
		t.Fatalf("Grade failed: %v", err)
	}
	if got := rep.Result.CaseLatencies; len(got) != 2 || got[0] != 0 || got[1] != 5 {
		t.Errorf("case latencies = %v, want [0 5]", got)
	}
	if rep.Result.Latency != 5 {
		t.Errorf("latency = %d, want 5", rep.Result.Latency)
	}
	if rep.Result.Ticks != 7 {
		t.Errorf("ticks = %d, want 7", rep.Result.Ticks)
	}
}

func TestGradeOrGateNeedsBothPaths(t *testing.T) {
	def, _ := bundledCatalog(t).Get("or-gate")
	// Only the top laser is routed to the detector.
	board := def.WithPermanent(beam.NewBoardFrom(map[beam.Pos]beam.Tile{
		beam.P(4, 0): beam.Mirror(true),
	}))

	rep, err := sched.Grade(def, board, 0)
	if err != nil {
		t.Fatalf("Grade failed: %v", err)
	}
	if rep.Result.Success() {
		t.Fatalf("half-wired gate should not pass, got %v latencies=%v", rep.Result, rep.Result.CaseLatencies)
	}
	if rep.Result.Case != 2 {
		t.Errorf("failed at case %d, want 2 (bottom laser alone)", rep.Result.Case)
	}
}

func TestGradeUnsolved(t *testing.T) {
	def, _ := bundledCatalog(t).Get("detour")
	rep, err := sched.Grade(def, def.Board(), 0)
	if err != nil {
		t.Fatalf("Grade failed: %v", err)
	}
	if rep.Result.Outcome != beam.OutcomeOutOfTime {
		t.Errorf("blocked detour should run out of time, got %v", rep.Result)
	}
}

func TestGradeRejectsTamperedBoard(t *testing.T) {
	def, _ := bundledCatalog(t).Get("detour")
	board := def.Board()
	board.Remove(beam.P(2, 1))

	if _, err := sched.Grade(def, board, 0); !errors.Is(err, levels.ErrPermanentChanged) {
		t.Errorf("expected ErrPermanentChanged, got %v", err)
	}
}
