package sched

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/beamforge/internal/beam"
	"github.com/vovakirdan/beamforge/internal/core"
)

// Shared is the state guarded by the scheduler lock. It is only ever touched
// by one side at a time: the background loop while ticking, or a With
// callback on the foreground.
type Shared struct {
	State  *beam.State // may be nil or swapped out; nil parks the loop
	Config core.RuntimeConfig
}

// Scheduler ticks a State at a fixed wall-clock period on a background
// goroutine. Ticks are strictly sequential and each commits fully under the
// lock, so a foreground reader never observes a half-computed tick.
type Scheduler struct {
	mu       sync.Mutex
	cond     *sync.Cond
	shared   Shared
	shutdown atomic.Bool

	quit     chan struct{} // closed by Close, interrupts the inter-tick sleep
	quitOnce sync.Once
	done     chan struct{}

	ticks  atomic.Uint64
	logger *log.Logger
}

// New creates a scheduler over st and starts its background goroutine.
// The loop stays parked until cfg.Running is true and a State is present.
func New(st *beam.State, cfg core.RuntimeConfig, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	s := &Scheduler{
		shared: Shared{State: st, Config: cfg},
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		logger: logger,
	}
	s.cond = sync.NewCond(&s.mu)

	logger.Debug("scheduler started", "period", cfg.TickPeriod, "running", cfg.Running)
	go s.run()
	return s
}

func (s *Scheduler) run() {
	defer close(s.done)

	for {
		s.mu.Lock()
		for !s.runnable() && !s.shutdown.Load() {
			s.cond.Wait()
		}
		if s.shutdown.Load() {
			s.mu.Unlock()
			s.logger.Debug("scheduler stopped", "ticks", s.ticks.Load())
			return
		}

		start := time.Now()
		_, wasDone := s.shared.State.Result()
		res := s.shared.State.Tick()
		s.ticks.Add(1)
		period := s.shared.Config.TickPeriod
		if res.Complete && !wasDone {
			r, _ := s.shared.State.Result()
			s.logger.Info("level finished", "result", r.String(), "tick", res.Tick)
		}
		s.mu.Unlock()

		// A tick slower than the period falls behind; nothing is batched or dropped.
		wait := period - time.Since(start)
		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-s.quit:
			timer.Stop()
		}
	}
}

// runnable must be called with the lock held.
func (s *Scheduler) runnable() bool {
	return s.shared.Config.Running && s.shared.State != nil
}

// With runs fn with exclusive access to the shared state. fn must not retain
// the pointer. After setting Config.Running from false to true (or attaching
// a State) call Wake, since the loop only re-checks while parked when woken.
func (s *Scheduler) With(fn func(*Shared)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.shared)
}

// Wake nudges a parked loop to re-check whether it may run.
func (s *Scheduler) Wake() {
	s.cond.Broadcast()
}

// SetRunning updates the running flag and wakes the loop when resuming.
func (s *Scheduler) SetRunning(running bool) {
	s.With(func(sh *Shared) {
		sh.Config.Running = running
	})
	if running {
		s.Wake()
	}
	s.logger.Debug("scheduler running changed", "running", running)
}

// Running reports the running flag.
func (s *Scheduler) Running() bool {
	var running bool
	s.With(func(sh *Shared) {
		running = sh.Config.Running
	})
	return running
}

// SetPeriod changes the tick period; it applies from the next tick.
func (s *Scheduler) SetPeriod(d time.Duration) {
	s.With(func(sh *Shared) {
		sh.Config.TickPeriod = d
	})
}

// Load swaps in a new State and wakes the loop.
func (s *Scheduler) Load(st *beam.State) {
	s.With(func(sh *Shared) {
		sh.State = st
	})
	s.Wake()
}

// Ticks returns the number of ticks run by this scheduler.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks.Load()
}

// Close requests shutdown and returns immediately, even while a tick is in
// progress. Done is closed once the goroutine has exited.
func (s *Scheduler) Close() {
	s.quitOnce.Do(func() {
		s.shutdown.Store(true)
		close(s.quit)
		// Broadcast under the lock so a loop about to park cannot miss it.
		go func() {
			s.mu.Lock()
			s.cond.Broadcast()
			s.mu.Unlock()
		}()
	})
}

// Done returns a channel closed when the background goroutine exits.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}
