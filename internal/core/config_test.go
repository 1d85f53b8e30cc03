package core

import (
	"testing"
	"time"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Running {
		t.Error("default config should start paused")
	}
	if cfg.TickPeriod != DefaultTickPeriod {
		t.Errorf("TickPeriod = %v, expected %v", cfg.TickPeriod, DefaultTickPeriod)
	}
	if cfg.TickRate() != 10 {
		t.Errorf("TickRate() = %v, expected 10", cfg.TickRate())
	}
	if (RuntimeConfig{}).TickRate() != 0 {
		t.Error("zero period should report a zero rate")
	}
}

func TestRuntimeConfigSpeed(t *testing.T) {
	tests := []struct {
		name   string
		period time.Duration
		faster time.Duration
		slower time.Duration
	}{
		{"default", 100 * time.Millisecond, 50 * time.Millisecond, 200 * time.Millisecond},
		{"at minimum", MinTickPeriod, MinTickPeriod, 2 * MinTickPeriod},
		{"at maximum", MaxTickPeriod, MaxTickPeriod / 2, MaxTickPeriod},
		{"near minimum", 8 * time.Millisecond, MinTickPeriod, 16 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := RuntimeConfig{TickPeriod: tt.period}
			if got := cfg.Faster().TickPeriod; got != tt.faster {
				t.Errorf("Faster() = %v, expected %v", got, tt.faster)
			}
			if got := cfg.Slower().TickPeriod; got != tt.slower {
				t.Errorf("Slower() = %v, expected %v", got, tt.slower)
			}
		})
	}
}

func TestActionMove(t *testing.T) {
	if dx, dy, ok := ActionLeft.Move(); !ok || dx != -1 || dy != 0 {
		t.Errorf("ActionLeft.Move() = %d, %d, %v", dx, dy, ok)
	}
	if _, _, ok := ActionPlace.Move(); ok {
		t.Error("ActionPlace should not be a move")
	}
	if ActionGrade.String() != "Grade" || Action(99).String() != "Unknown" {
		t.Error("unexpected action names")
	}
}
