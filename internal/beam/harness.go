package beam

import (
	"errors"
	"fmt"
)

// Outcome is the terminal state of a level run.
type Outcome uint8

const (
	OutcomeSuccess Outcome = iota + 1
	OutcomeFailed
	OutcomeOutOfTime
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "Success"
	case OutcomeFailed:
		return "Failed"
	case OutcomeOutOfTime:
		return "OutOfTime"
	default:
		return "Pending"
	}
}

// Result is the finalized verdict of a level run.
type Result struct {
	Outcome Outcome

	// Latency is the tick count at which the final case first matched.
	// Only meaningful for OutcomeSuccess.
	Latency int

	// CaseLatencies holds the latency of every case that matched, in order.
	CaseLatencies []int

	// Case is the index of the case that was active when the run ended.
	Case int

	// Ticks is the total number of ticks evaluated.
	Ticks uint64

	// Reason describes a Failed outcome.
	Reason string
}

// Success reports whether the run passed every case.
func (r Result) Success() bool {
	return r.Outcome == OutcomeSuccess
}

// String returns a short human readable verdict.
func (r Result) String() string {
	switch r.Outcome {
	case OutcomeSuccess:
		return fmt.Sprintf("Success{latency=%d}", r.Latency)
	case OutcomeFailed:
		return fmt.Sprintf("Failed{case=%d: %s}", r.Case, r.Reason)
	case OutcomeOutOfTime:
		return fmt.Sprintf("OutOfTime{case=%d}", r.Case)
	default:
		return "Pending"
	}
}

// ElementKind distinguishes dynamic lasers from dynamic detectors.
type ElementKind uint8

const (
	ElementLaser ElementKind = iota
	ElementDetector
)

// String returns the element kind name.
func (k ElementKind) String() string {
	if k == ElementLaser {
		return "laser"
	}
	return "detector"
}

// Element is a level slot with a fixed position whose activation (lasers) or
// expected reading (detectors) changes per test case.
type Element struct {
	Kind ElementKind
	Pos  Pos
	Dir  Dir // lasers only
}

// StaticDetector is a detector whose expected reading never changes.
type StaticDetector struct {
	Pos    Pos
	Expect bool
}

// TestCase holds one bit per dynamic element, in declaration order.
type TestCase []bool

// LevelSpec is the part of a level definition the harness runs against.
type LevelSpec struct {
	Dynamic         []Element
	StaticDetectors []StaticDetector
	Cases           []TestCase
	Area            *Rect // optional playfield, widens the simulation bounds
}

// ErrCaseMismatch is returned when a test case does not line up with the
// level's dynamic elements.
var ErrCaseMismatch = errors.New("test case does not match dynamic elements")

// Placer is the board surface the harness writes case configuration to.
// Both *Board and *State implement it; State keeps its index in sync.
type Placer interface {
	Tile(p Pos) Tile
	Set(p Pos, t Tile)
	SetGate(p Pos, on bool)
}

// LevelState tracks one playthrough's progress through a level's cases.
type LevelState struct {
	spec     LevelSpec
	maxTicks int

	caseIdx   int
	counter   int
	expected  map[Pos]bool
	latencies []int
	ticks     uint64

	result *Result
	err    error
}

// NewLevelState creates harness progress for spec. maxTicks bounds the
// number of non-matching ticks any single case may take.
func NewLevelState(spec LevelSpec, maxTicks int) *LevelState {
	l := &LevelState{
		spec:     spec,
		maxTicks: maxTicks,
		expected: make(map[Pos]bool),
	}
	if len(spec.Cases) == 0 {
		l.fail(errors.New("level declares no test cases"))
	}
	return l
}

// Spec returns the level spec the state runs against.
func (l *LevelState) Spec() LevelSpec {
	return l.spec
}

// CaseIndex returns the index of the active test case.
func (l *LevelState) CaseIndex() int {
	return l.caseIdx
}

// CaseTicks returns the non-matching ticks spent on the active case.
func (l *LevelState) CaseTicks() int {
	return l.counter
}

// MaxTicks returns the per-case tick budget.
func (l *LevelState) MaxTicks() int {
	return l.maxTicks
}

// Expected returns a copy of the active case's expected detector readings.
func (l *LevelState) Expected() map[Pos]bool {
	out := make(map[Pos]bool, len(l.expected))
	for p, v := range l.expected {
		out[p] = v
	}
	return out
}

// Err returns the error that finalized a Failed result, if any.
func (l *LevelState) Err() error {
	return l.err
}

// Complete returns the finalized result once the run is terminal.
func (l *LevelState) Complete() (Result, bool) {
	if l.result == nil {
		return Result{}, false
	}
	return *l.result, true
}

// SetupCase writes the active case onto the board: dynamic lasers are placed
// and gated, and the expected reading of every detector is recorded.
// Static elements keep their level-defined configuration.
func (l *LevelState) SetupCase(b Placer) error {
	if l.result != nil {
		return l.err
	}
	vec := l.spec.Cases[l.caseIdx]
	if len(vec) != len(l.spec.Dynamic) {
		return l.fail(fmt.Errorf("%w: case %d has %d bits for %d dynamic elements",
			ErrCaseMismatch, l.caseIdx, len(vec), len(l.spec.Dynamic)))
	}

	expected := make(map[Pos]bool, len(l.spec.StaticDetectors)+len(vec))
	for _, sd := range l.spec.StaticDetectors {
		if !b.Tile(sd.Pos).Kind.IsSensor() {
			b.Set(sd.Pos, Detector())
		}
		expected[sd.Pos] = sd.Expect
	}

	for i, el := range l.spec.Dynamic {
		switch el.Kind {
		case ElementLaser:
			want := Emitter(el.Dir)
			if b.Tile(el.Pos) != want {
				b.Set(el.Pos, want)
			}
			b.SetGate(el.Pos, vec[i])
		case ElementDetector:
			if !b.Tile(el.Pos).Kind.IsSensor() {
				b.Set(el.Pos, Detector())
			}
			expected[el.Pos] = vec[i]
		default:
			return l.fail(fmt.Errorf("%w: dynamic element %d has unknown kind %d",
				ErrCaseMismatch, i, el.Kind))
		}
	}
	l.expected = expected
	return nil
}

// Evaluate compares live sensor readings against the active case and
// records the verdict. It does not check that the readings are stable;
// State.Tick does that before calling Record.
func (l *LevelState) Evaluate(b *Board) bool {
	return l.Record(l.Matches(b))
}

// Record counts one evaluated tick for the active case. A match records the
// case latency and advances to the next case; otherwise the case's counter
// grows and the run ends OutOfTime once it passes the budget. It reports
// whether the case advanced.
func (l *LevelState) Record(matched bool) bool {
	if l.result != nil {
		return false
	}
	l.ticks++

	if matched {
		l.latencies = append(l.latencies, l.counter)
		l.caseIdx++
		l.counter = 0
		if l.caseIdx == len(l.spec.Cases) {
			l.finalize(Result{
				Outcome: OutcomeSuccess,
				Latency: l.latencies[len(l.latencies)-1],
				Case:    l.caseIdx - 1,
			})
		}
		return true
	}

	l.counter++
	if l.counter > l.maxTicks {
		l.finalize(Result{Outcome: OutcomeOutOfTime, Case: l.caseIdx})
	}
	return false
}

// Matches reports whether every detector on b reads what the active case
// expects.
func (l *LevelState) Matches(b *Board) bool {
	for p, want := range l.expected {
		if b.Get(p).Lit != want {
			return false
		}
	}
	return true
}

func (l *LevelState) fail(err error) error {
	l.err = err
	l.finalize(Result{Outcome: OutcomeFailed, Case: l.caseIdx, Reason: err.Error()})
	return err
}

func (l *LevelState) finalize(r Result) {
	r.Ticks = l.ticks
	r.CaseLatencies = append([]int(nil), l.latencies...)
	l.result = &r
}

// Clone returns an independent copy of the progress.
func (l *LevelState) Clone() *LevelState {
	out := *l
	out.expected = l.Expected()
	out.latencies = append([]int(nil), l.latencies...)
	if l.result != nil {
		r := *l.result
		out.result = &r
	}
	return &out
}
