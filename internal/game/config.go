package game

import (
	ledgerservice "github.com/zappabad/stocksurge/internal/ledger/service"
	marketservice "github.com/zappabad/stocksurge/internal/market/service"
	"github.com/zappabad/stocksurge/internal/runner"
)

// Config holds configuration for the game.
type Config struct {
	// Seed seeds news selection and price noise. Zero picks a time-based seed.
	Seed int64
	// MarketConfig is the configuration for the market engine.
	MarketConfig marketservice.Config
	// LedgerConfig is the configuration for the ledger.
	LedgerConfig ledgerservice.Config
	// RunnerConfig is the configuration for the tick scheduler.
	RunnerConfig runner.Config
	// NotificationCapacity is the number of notifications kept for display.
	NotificationCapacity int
	// DisableRunner leaves ticking to the caller (headless runs and tests).
	DisableRunner bool
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		MarketConfig:         marketservice.DefaultConfig(),
		LedgerConfig:         ledgerservice.DefaultConfig(),
		RunnerConfig:         runner.DefaultConfig(),
		NotificationCapacity: 50,
	}
}
