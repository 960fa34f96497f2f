package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/zappabad/stocksurge/internal/ledger"
)

// Config holds configuration for the ledger.
type Config struct {
	// InitialCash is the endowment restored by Reset.
	InitialCash float64
	// NewID generates trade identifiers.
	NewID func() string
	// Now stamps trades when the caller passes a zero time.
	Now func() time.Time
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		InitialCash: ledger.InitialCash,
		NewID:       uuid.NewString,
		Now:         time.Now,
	}
}
