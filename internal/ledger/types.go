package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// InitialCash is the endowment a new or reset ledger starts with.
const InitialCash = 10000.0

var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrInvalidPrice         = errors.New("price must be positive")
	ErrInvalidDirection     = errors.New("unknown trade direction")
)

// Direction is the side of a trade.
type Direction uint8

const (
	Buy Direction = iota
	Sell
)

func (d Direction) String() string {
	switch d {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// ParseDirection accepts "buy" or "sell" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Trade is an executed order. Trades are never modified once recorded.
type Trade struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Company   string    `json:"company"`
	Quantity  int64     `json:"quantity"`
	Price     float64   `json:"price"`
	Direction Direction `json:"direction"`
}

// Value is the cash amount the trade moved.
func (t Trade) Value() float64 {
	return t.Price * float64(t.Quantity)
}

// Portfolio maps a company to the number of shares held.
type Portfolio map[string]int64

// Clone returns an independent copy.
func (p Portfolio) Clone() Portfolio {
	out := make(Portfolio, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// TradeError describes a rejected order. Err is one of the package sentinels.
type TradeError struct {
	Company   string
	Quantity  int64
	Direction Direction
	Err       error
}

func (e *TradeError) Error() string {
	return fmt.Sprintf("%s %d %s: %v", e.Direction, e.Quantity, e.Company, e.Err)
}

func (e *TradeError) Unwrap() error { return e.Err }

// Snapshot is a point-in-time copy of the ledger state.
type Snapshot struct {
	Cash      float64   `json:"cash"`
	Portfolio Portfolio `json:"portfolio"`
	Trades    []Trade   `json:"trades"`
}
