package verify

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/beamforge/internal/beam"
	"github.com/vovakirdan/beamforge/internal/levels"
	"github.com/vovakirdan/beamforge/internal/levels/formats"
	"github.com/vovakirdan/beamforge/internal/sched"
)

// Verification errors.
var (
	ErrBadSignature  = errors.New("verify: bad signature")
	ErrUnknownLevel  = errors.New("verify: unknown level")
	ErrLevelMismatch = errors.New("verify: board was built for another level")
)

// Record is a verified solution handed to a SolutionSaver.
type Record struct {
	SubmissionID string
	LevelID      string
	Player       string
	Cost         int
	Latency      int
	Ticks        uint64
	BoardHash    uint64
	Board        []byte
}

// SolutionSaver persists accepted solutions.
type SolutionSaver interface {
	SaveVerified(rec Record) error
}

// Outcome is the verifier's verdict on one submission.
type Outcome struct {
	ID      string
	LevelID string
	Player  string
	Result  beam.Result
	Cost    int
	Latency int
	Hash    uint64
	Saved   bool
}

// Accepted reports whether the submission solved its level.
func (o Outcome) Accepted() bool {
	return o.Result.Success()
}

// Options configures a Verifier.
type Options struct {
	// MaxTicks overrides every level's per-case budget when positive.
	MaxTicks int
	// Saver receives accepted solutions. Nil disables persistence.
	Saver  SolutionSaver
	Logger *log.Logger
}

// Verifier checks signatures and re-grades boards against a level catalog.
type Verifier struct {
	signer   *Signer
	maxTicks int
	saver    SolutionSaver
	logger   *log.Logger

	mu      sync.RWMutex
	catalog *levels.Catalog
}

// NewVerifier creates a verifier over cat.
func NewVerifier(signer *Signer, cat *levels.Catalog, opts Options) *Verifier {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Verifier{
		signer:   signer,
		maxTicks: opts.MaxTicks,
		saver:    opts.Saver,
		logger:   logger,
		catalog:  cat,
	}
}

// SetCatalog replaces the level catalog used for later submissions.
func (v *Verifier) SetCatalog(cat *levels.Catalog) {
	v.mu.Lock()
	v.catalog = cat
	v.mu.Unlock()
}

// Catalog returns the level catalog currently in use.
func (v *Verifier) Catalog() *levels.Catalog {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.catalog
}

func (v *Verifier) level(id string) (levels.Definition, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.catalog == nil {
		return levels.Definition{}, false
	}
	return v.catalog.Get(id)
}

// Verify authenticates sub, regrades its board offline and, when the board
// solves the level, persists the result. The signature is checked before any
// simulation runs. An unsolved board is not an error: the returned Outcome
// carries the Failed or OutOfTime result.
func (v *Verifier) Verify(sub Submission) (Outcome, error) {
	if !v.signer.Check(sub) {
		verifyTotal.WithLabelValues(verdictBadSignature).Inc()
		v.logger.Warn("rejected submission", "level", sub.LevelID, "player", sub.Player, "error", ErrBadSignature)
		return Outcome{}, ErrBadSignature
	}

	def, ok := v.level(sub.LevelID)
	if !ok {
		verifyTotal.WithLabelValues(verdictInvalid).Inc()
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownLevel, sub.LevelID)
	}

	file, err := formats.DecodeBoard(sub.Board)
	if err != nil {
		verifyTotal.WithLabelValues(verdictInvalid).Inc()
		return Outcome{}, fmt.Errorf("verify: decode board: %w", err)
	}
	if file.Level != "" && file.Level != sub.LevelID {
		verifyTotal.WithLabelValues(verdictInvalid).Inc()
		return Outcome{}, fmt.Errorf("%w: board %s, submission %s", ErrLevelMismatch, file.Level, sub.LevelID)
	}

	start := time.Now()
	rep, err := sched.Grade(def, file.Board, v.maxTicks)
	if err != nil {
		verifyTotal.WithLabelValues(verdictInvalid).Inc()
		return Outcome{}, fmt.Errorf("verify: %w", err)
	}
	verifyDuration.Observe(time.Since(start).Seconds())
	verifyTicks.Observe(float64(rep.Result.Ticks))

	out := Outcome{
		ID:      uuid.NewString(),
		LevelID: rep.LevelID,
		Player:  sub.Player,
		Result:  rep.Result,
		Cost:    rep.Cost,
		Latency: rep.Result.Latency,
		Hash:    rep.BoardHash,
	}

	if !out.Accepted() {
		verifyTotal.WithLabelValues(verdictUnsolved).Inc()
		v.logger.Info("submission did not solve level",
			"id", out.ID, "level", out.LevelID, "player", out.Player, "result", out.Result)
		return out, nil
	}

	verifyTotal.WithLabelValues(verdictAccepted).Inc()
	if v.saver != nil {
		err := v.saver.SaveVerified(Record{
			SubmissionID: out.ID,
			LevelID:      out.LevelID,
			Player:       out.Player,
			Cost:         out.Cost,
			Latency:      out.Latency,
			Ticks:        out.Result.Ticks,
			BoardHash:    out.Hash,
			Board:        sub.Board,
		})
		if err != nil {
			return out, fmt.Errorf("verify: persist solution: %w", err)
		}
		out.Saved = true
	}

	v.logger.Info("submission accepted",
		"id", out.ID, "level", out.LevelID, "player", out.Player,
		"cost", out.Cost, "latency", out.Latency)
	return out, nil
}
