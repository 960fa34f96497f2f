package runner

import "time"

// Config holds configuration for the tick runner.
type Config struct {
	// TickInterval is the real-time cadence between ticks.
	TickInterval time.Duration
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		TickInterval: 3 * time.Second,
	}
}
