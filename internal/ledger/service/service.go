package service

import (
	"math"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zappabad/stocksurge/internal/ledger"
	"github.com/zappabad/stocksurge/internal/money"
)

// Ledger owns the trader's cash, holdings and trade log. One mutex guards all
// three so a trade either applies completely or not at all.
type Ledger struct {
	cfg    Config
	logger *zap.Logger

	mu        sync.RWMutex
	cash      float64
	portfolio ledger.Portfolio
	trades    []ledger.Trade
}

// NewLedger creates a ledger holding cfg.InitialCash and nothing else.
func NewLedger(cfg Config, logger *zap.Logger) *Ledger {
	def := DefaultConfig()
	if cfg.InitialCash <= 0 || math.IsNaN(cfg.InitialCash) || math.IsInf(cfg.InitialCash, 0) {
		cfg.InitialCash = def.InitialCash
	}
	if cfg.NewID == nil {
		cfg.NewID = def.NewID
	}
	if cfg.Now == nil {
		cfg.Now = def.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Ledger{cfg: cfg, logger: logger.Named("ledger")}
	l.resetLocked()
	return l
}

func (l *Ledger) resetLocked() {
	l.cash = money.Round2(l.cfg.InitialCash)
	l.portfolio = make(ledger.Portfolio)
	l.trades = nil
}

// ExecuteTrade buys or sells quantity shares of company at price. On failure
// it returns a *ledger.TradeError and leaves the ledger untouched. A zero now
// is replaced by the configured clock.
func (l *Ledger) ExecuteTrade(company string, quantity int64, dir ledger.Direction, price float64, now time.Time) (ledger.Trade, error) {
	reject := func(err error) (ledger.Trade, error) {
		l.logger.Debug("trade rejected",
			zap.String("company", company),
			zap.Int64("quantity", quantity),
			zap.Stringer("direction", dir),
			zap.Float64("price", price),
			zap.Error(err),
		)
		return ledger.Trade{}, &ledger.TradeError{Company: company, Quantity: quantity, Direction: dir, Err: err}
	}

	if quantity <= 0 {
		return reject(ledger.ErrInvalidQuantity)
	}
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return reject(ledger.ErrInvalidPrice)
	}
	if now.IsZero() {
		now = l.cfg.Now()
	}

	// Cash only ever moves in whole cents, so buy and sell legs stay symmetric.
	cost := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(quantity)).Round(2)

	l.mu.Lock()
	cash := decimal.NewFromFloat(l.cash)
	held := l.portfolio[company]

	switch dir {
	case ledger.Buy:
		if cost.GreaterThan(cash) {
			l.mu.Unlock()
			return reject(ledger.ErrInsufficientFunds)
		}
		l.cash = cash.Sub(cost).Round(2).InexactFloat64()
		l.portfolio[company] = held + quantity
	case ledger.Sell:
		if held < quantity {
			l.mu.Unlock()
			return reject(ledger.ErrInsufficientHoldings)
		}
		l.cash = cash.Add(cost).Round(2).InexactFloat64()
		if held == quantity {
			delete(l.portfolio, company)
		} else {
			l.portfolio[company] = held - quantity
		}
	default:
		l.mu.Unlock()
		return reject(ledger.ErrInvalidDirection)
	}

	tr := ledger.Trade{
		ID:        l.cfg.NewID(),
		Timestamp: now,
		Company:   company,
		Quantity:  quantity,
		Price:     price,
		Direction: dir,
	}
	l.trades = append(l.trades, tr)
	cashAfter := l.cash
	l.mu.Unlock()

	l.logger.Info("trade executed",
		zap.String("id", tr.ID),
		zap.String("company", company),
		zap.Int64("quantity", quantity),
		zap.Stringer("direction", dir),
		zap.Float64("price", price),
		zap.Float64("cash", cashAfter),
	)
	return tr, nil
}

// SetPortfolioAndCash replaces cash and holdings with externally supplied
// values. Non-finite holdings are discarded, fractional ones truncated, and
// non-positive ones dropped. Non-finite cash becomes 0. The trade log is kept.
func (l *Ledger) SetPortfolioAndCash(portfolio map[string]float64, cash float64) {
	clean := make(ledger.Portfolio, len(portfolio))
	var discarded int
	for company, v := range portfolio {
		if math.IsNaN(v) || math.IsInf(v, 0) || v >= math.MaxInt64 {
			discarded++
			continue
		}
		n := int64(math.Trunc(v))
		if n <= 0 {
			discarded++
			continue
		}
		clean[company] = n
	}
	if math.IsNaN(cash) || math.IsInf(cash, 0) {
		cash = 0
	}

	l.mu.Lock()
	l.cash = money.Round2(cash)
	l.portfolio = clean
	l.mu.Unlock()

	l.logger.Info("portfolio replaced",
		zap.Float64("cash", cash),
		zap.Int("holdings", len(clean)),
		zap.Int("discarded", discarded),
	)
}

// Reset restores the initial endowment and clears holdings and the trade log.
func (l *Ledger) Reset() {
	l.mu.Lock()
	l.resetLocked()
	l.mu.Unlock()

	l.logger.Info("ledger reset")
}

// InitialCash returns the endowment a reset restores.
func (l *Ledger) InitialCash() float64 {
	return money.Round2(l.cfg.InitialCash)
}

// Cash returns the cash balance.
func (l *Ledger) Cash() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cash
}

// Holding returns the number of shares held in company.
func (l *Ledger) Holding(company string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.portfolio[company]
}

// Portfolio returns a copy of the holdings.
func (l *Ledger) Portfolio() ledger.Portfolio {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.portfolio.Clone()
}

// Trades returns a copy of the trade log, oldest first.
func (l *Ledger) Trades() []ledger.Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]ledger.Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// TotalValue is cash plus every holding valued at prices, rounded to cents.
// Holdings without a price contribute nothing.
func (l *Ledger) TotalValue(prices map[string]float64) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return totalValue(l.cash, l.portfolio, prices)
}

func totalValue(cash float64, p ledger.Portfolio, prices map[string]float64) float64 {
	total := decimal.NewFromFloat(cash)
	for company, n := range p {
		price, ok := prices[company]
		if !ok {
			continue
		}
		total = total.Add(decimal.NewFromFloat(price).Mul(decimal.NewFromInt(n)))
	}
	return total.Round(2).InexactFloat64()
}

// Snapshot returns a consistent copy of the ledger state.
func (l *Ledger) Snapshot() ledger.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	trades := make([]ledger.Trade, len(l.trades))
	copy(trades, l.trades)
	return ledger.Snapshot{
		Cash:      l.cash,
		Portfolio: l.portfolio.Clone(),
		Trades:    trades,
	}
}
