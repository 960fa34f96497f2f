// Package store persists named portfolio snapshots between sessions.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/zappabad/stocksurge/internal/ledger"
)

// ErrNotFound is returned when no snapshot exists under a name.
var ErrNotFound = errors.New("snapshot not found")

// PortfolioSnapshot is the saved part of a ledger: cash and holdings.
// The trade log is not saved.
type PortfolioSnapshot struct {
	Cash      float64          `json:"cash"`
	Portfolio ledger.Portfolio `json:"portfolio"`
	SavedAt   time.Time        `json:"saved_at"`
}

// FromLedger captures a ledger snapshot.
func FromLedger(s ledger.Snapshot, now time.Time) PortfolioSnapshot {
	return PortfolioSnapshot{Cash: s.Cash, Portfolio: s.Portfolio.Clone(), SavedAt: now}
}

// Holdings returns the portfolio in the shape accepted by an import.
func (s PortfolioSnapshot) Holdings() map[string]float64 {
	out := make(map[string]float64, len(s.Portfolio))
	for c, q := range s.Portfolio {
		out[c] = float64(q)
	}
	return out
}

// SnapshotStore saves and loads snapshots by name.
type SnapshotStore interface {
	Save(ctx context.Context, name string, snap PortfolioSnapshot) error
	Load(ctx context.Context, name string) (PortfolioSnapshot, error)
}
