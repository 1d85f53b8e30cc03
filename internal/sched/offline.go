// Package sched drives beam simulations: an offline runner that ticks as fast
// as possible for grading, and a real-time Scheduler for interactive play.
package sched

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/beamforge/internal/beam"
	"github.com/vovakirdan/beamforge/internal/levels"
)

// ErrNoLevel is returned by Run when the state has no level attached.
var ErrNoLevel = errors.New("sched: no level attached")

// Run ticks st back-to-back until its level reaches a terminal result.
// Termination is bounded by the level's per-case tick budget.
func Run(st *beam.State) (beam.Result, error) {
	if st.Level() == nil {
		return beam.Result{}, ErrNoLevel
	}
	for {
		if r, done := st.Result(); done {
			return r, nil
		}
		st.Tick()
	}
}

// Advance ticks st exactly n times and returns the last tick's summary.
func Advance(st *beam.State, n int) beam.TickResult {
	var res beam.TickResult
	for i := 0; i < n; i++ {
		res = st.Tick()
	}
	return res
}

// Report is the outcome of grading a board against a level.
type Report struct {
	LevelID   string
	Result    beam.Result
	Cost      int
	BoardHash uint64 // content hash of the board as submitted, first case applied
}

// Grade checks board against def and runs it offline. A non-positive
// maxTicks uses the level's own budget. The same entry point serves local
// play and server-side verification so both agree on the verdict.
func Grade(def levels.Definition, board *beam.Board, maxTicks int) (Report, error) {
	if err := def.CheckBoard(board); err != nil {
		return Report{}, fmt.Errorf("level %s: %w", def.ID, err)
	}

	st, err := beam.NewState(board, def.NewLevelState(maxTicks))
	if err != nil {
		return Report{}, fmt.Errorf("level %s: %w", def.ID, err)
	}
	rep := Report{
		LevelID:   def.ID,
		Cost:      def.Cost(board),
		BoardHash: st.Hash(),
	}

	rep.Result, err = Run(st)
	if err != nil {
		return Report{}, err
	}
	return rep, nil
}
