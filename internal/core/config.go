package core

import "time"

// Tick period limits accepted by the real-time scheduler.
const (
	MinTickPeriod     = 5 * time.Millisecond
	MaxTickPeriod     = 2 * time.Second
	DefaultTickPeriod = 100 * time.Millisecond
)

// RuntimeConfig controls the pacing of a real-time simulation.
// The foreground mutates it; the background scheduler reads it once per tick.
type RuntimeConfig struct {
	TickPeriod time.Duration // Wall-clock time between tick starts
	Running    bool          // Whether the scheduler should tick at all
}

// DefaultConfig returns a paused RuntimeConfig with the default period.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		TickPeriod: DefaultTickPeriod,
		Running:    false,
	}
}

// TickRate returns the configured ticks per second.
func (c RuntimeConfig) TickRate() float64 {
	if c.TickPeriod <= 0 {
		return 0
	}
	return float64(time.Second) / float64(c.TickPeriod)
}

// ClampPeriod limits d to the supported tick period range.
func ClampPeriod(d time.Duration) time.Duration {
	return min(max(d, MinTickPeriod), MaxTickPeriod)
}

// Faster halves the tick period, staying in range.
func (c RuntimeConfig) Faster() RuntimeConfig {
	c.TickPeriod = ClampPeriod(c.TickPeriod / 2)
	return c
}

// Slower doubles the tick period.
func (c RuntimeConfig) Slower() RuntimeConfig {
	c.TickPeriod = ClampPeriod(c.TickPeriod * 2)
	return c
}
