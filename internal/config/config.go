// Package config provides YAML-based application configuration loading.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Config contains all beamforge configuration.
type Config struct {
	Sim     SimConfig     `yaml:"sim"`
	Log     LogConfig     `yaml:"log"`
	Levels  LevelsConfig  `yaml:"levels"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Verify  VerifyConfig  `yaml:"verify"`
}

// SimConfig defines simulation pacing and grading limits.
type SimConfig struct {
	TickPeriod time.Duration `yaml:"tick_period"`
	Speed      SpeedPreset   `yaml:"speed"`
	MaxTicks   int           `yaml:"max_ticks"` // 0 uses each level's budget
}

// LogConfig defines logger options.
type LogConfig struct {
	Level      string `yaml:"level"`
	Timestamps bool   `yaml:"timestamps"`
}

// LevelsConfig defines where level assets come from.
type LevelsConfig struct {
	Dir string `yaml:"dir"` // empty uses the bundled campaign
}

// StorageConfig defines the solution database location.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig defines the SSH server.
type ServerConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	HTTPAddr    string        `yaml:"http_addr"`    // submission API and /metrics; empty disables
}

// VerifyConfig defines submission signing.
type VerifyConfig struct {
	SecretEnv string `yaml:"secret_env"` // environment variable holding the HMAC key
}

// Period returns the effective tick period: the speed preset when set,
// otherwise tick_period.
func (c SimConfig) Period() time.Duration {
	if p, ok := PeriodForPreset(c.Speed); ok {
		return p
	}
	return c.TickPeriod
}

// LogLevel parses the configured log level, defaulting to info.
func (c LogConfig) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SpeedPreset represents a named tick speed.
type SpeedPreset string

const (
	SpeedSlow   SpeedPreset = "slow"
	SpeedNormal SpeedPreset = "normal"
	SpeedFast   SpeedPreset = "fast"
	SpeedTurbo  SpeedPreset = "turbo"
)

// PeriodForPreset returns the tick period for a speed preset.
func PeriodForPreset(preset SpeedPreset) (time.Duration, bool) {
	switch preset {
	case SpeedSlow:
		return 250 * time.Millisecond, true
	case SpeedNormal:
		return 100 * time.Millisecond, true
	case SpeedFast:
		return 50 * time.Millisecond, true
	case SpeedTurbo:
		return 10 * time.Millisecond, true
	default:
		return 0, false
	}
}

// Validate checks values that would break the simulation or server.
func (c Config) Validate() error {
	if c.Sim.Speed != "" {
		if _, ok := PeriodForPreset(c.Sim.Speed); !ok {
			return fmt.Errorf("config: unknown speed preset %q", c.Sim.Speed)
		}
	}
	if c.Sim.Period() <= 0 {
		return fmt.Errorf("config: tick period must be positive, got %v", c.Sim.Period())
	}
	if c.Sim.MaxTicks < 0 {
		return fmt.Errorf("config: max_ticks must not be negative, got %d", c.Sim.MaxTicks)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	return nil
}
