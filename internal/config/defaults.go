package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/beamforge.yaml
var defaultYAML []byte

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Sim: SimConfig{
			TickPeriod: 100 * time.Millisecond,
			Speed:      SpeedNormal,
		},
		Log: LogConfig{
			Level:      "info",
			Timestamps: true,
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        2323,
			HostKey:     ".ssh/beamforge_ed25519",
			IdleTimeout: 10 * time.Minute,
			HTTPAddr:    "127.0.0.1:8080",
		},
		Verify: VerifyConfig{
			SecretEnv: "BEAMFORGE_SECRET",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
