package service

import "github.com/zappabad/stocksurge/internal/market"

// Config holds configuration for the market engine.
type Config struct {
	// Companies is the roster of stocks, in display order.
	Companies []string
	// EventBuffer is the size of the market events channel.
	EventBuffer int
	// DropEvents determines whether the events channel drops on overflow.
	DropEvents bool
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Companies:   append([]string(nil), market.Companies...),
		EventBuffer: 256,
		DropEvents:  true,
	}
}
