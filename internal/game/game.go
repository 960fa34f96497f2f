package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zappabad/stocksurge/internal/ledger"
	ledgerservice "github.com/zappabad/stocksurge/internal/ledger/service"
	marketservice "github.com/zappabad/stocksurge/internal/market/service"
	marketview "github.com/zappabad/stocksurge/internal/market/view"
	"github.com/zappabad/stocksurge/internal/news"
	"github.com/zappabad/stocksurge/internal/notify"
	notifyview "github.com/zappabad/stocksurge/internal/notify/view"
	"github.com/zappabad/stocksurge/internal/runner"
)

// Game owns one simulation session: the market engine, the ledger, the
// portfolio history, the player notifications and the tick scheduler.
type Game struct {
	Market        *marketservice.MarketEngine
	Ledger        *ledgerservice.Ledger
	History       *PortfolioHistory
	Notifications *notifyview.Notifications

	runner *runner.Runner
	logger *zap.Logger
	now    func() time.Time

	cfg Config
	mu  sync.Mutex
}

// State is everything the render surface needs, read at one instant.
type State struct {
	Market     marketview.MarketSnapshot `json:"market"`
	Ledger     ledger.Snapshot           `json:"ledger"`
	News       []news.Event              `json:"news"`
	TotalValue float64                   `json:"total_value"`
	History    []Sample                  `json:"history"`
}

// NewGame creates a stopped game. Unless cfg.DisableRunner is set the tick
// scheduler starts immediately; ticks are no-ops until Start.
func NewGame(cfg Config, logger *zap.Logger) *Game {
	return NewGameWithRand(cfg, nil, logger)
}

// NewGameWithRand is NewGame with an explicit random source. A nil r uses
// cfg.Seed.
func NewGameWithRand(cfg Config, r news.Rand, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	if r == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		r = news.NewRand(seed)
	}
	now := cfg.LedgerConfig.Now
	if now == nil {
		now = time.Now
	}

	g := &Game{
		Market:        marketservice.NewMarketEngine(cfg.MarketConfig, r, logger),
		Ledger:        ledgerservice.NewLedger(cfg.LedgerConfig, logger),
		History:       &PortfolioHistory{},
		Notifications: notifyview.NewNotifications(cfg.NotificationCapacity),
		logger:        logger.Named("game"),
		now:           now,
		cfg:           cfg,
	}
	g.sample()

	if !cfg.DisableRunner {
		g.runner = runner.NewRunner(cfg.RunnerConfig, g.tick, logger)
	}
	return g
}

// Start resumes ticking.
func (g *Game) Start() { g.Market.Start() }

// Pause stops future ticks.
func (g *Game) Pause() { g.Market.Pause() }

// Toggle starts a stopped game or pauses a running one.
func (g *Game) Toggle() {
	if g.Market.IsRunning() {
		g.Pause()
		return
	}
	g.Start()
}

// Tick advances the market one step and samples the portfolio value.
func (g *Game) Tick() (news.Event, bool, error) {
	ev, ticked, err := g.Market.Tick()
	if err != nil || !ticked {
		return ev, ticked, err
	}
	g.sample()
	return ev, true, nil
}

func (g *Game) tick() (bool, error) {
	_, ticked, err := g.Tick()
	return ticked, err
}

// Trade executes an order at the current market price of company.
// Failures are also posted as player notifications.
func (g *Game) Trade(company string, quantity int64, dir ledger.Direction) (ledger.Trade, error) {
	price, err := g.Market.Price(company)
	if err != nil {
		g.notify(notify.LevelError, fmt.Sprintf("Cannot %s %s: %v", dir, company, err))
		return ledger.Trade{}, err
	}

	tr, err := g.Ledger.ExecuteTrade(company, quantity, dir, price, g.now())
	if err != nil {
		g.notify(notify.LevelError, tradeFailureMessage(err))
		return ledger.Trade{}, err
	}

	g.notify(notify.LevelInfo, fmt.Sprintf("%s %d %s @ %.2f", tradeVerb(dir), quantity, company, price))
	g.sample()
	return tr, nil
}

func tradeVerb(dir ledger.Direction) string {
	if dir == ledger.Sell {
		return "Sold"
	}
	return "Bought"
}

func tradeFailureMessage(err error) string {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "Not enough cash: " + err.Error()
	case errors.Is(err, ledger.ErrInsufficientHoldings):
		return "Not enough shares to sell: " + err.Error()
	default:
		return "Trade rejected: " + err.Error()
	}
}

// Import replaces cash and holdings with externally supplied values after
// sanitizing them.
func (g *Game) Import(portfolio map[string]float64, cash float64) {
	g.Ledger.SetPortfolioAndCash(portfolio, cash)
	g.notify(notify.LevelInfo, "Portfolio imported")
	g.sample()
}

// Reset restores the market and ledger to their initial state and clears the
// portfolio history and notifications. The market goes last so observers of
// its reset event already see the cleared ledger.
func (g *Game) Reset() {
	g.Ledger.Reset()
	g.History.Reset()
	g.Notifications.Clear()
	g.Market.Reset()
	g.sample()
	g.logger.Info("game reset")
}

// TotalValue is cash plus holdings at current prices.
func (g *Game) TotalValue() float64 {
	return g.Ledger.TotalValue(g.Market.Prices())
}

// State reads the whole session. newsLimit bounds the news returned; zero or
// less returns all of it.
func (g *Game) State(newsLimit int) State {
	mkt := g.Market.Snapshot()
	ldg := g.Ledger.Snapshot()

	var items []news.Event
	if newsLimit > 0 {
		items = g.Market.LatestNews(newsLimit)
	} else {
		items = g.Market.NewsHistory()
	}

	return State{
		Market:     mkt,
		Ledger:     ldg,
		News:       items,
		TotalValue: g.Ledger.TotalValue(mkt.Prices()),
		History:    g.History.Samples(),
	}
}

func (g *Game) sample() {
	g.History.Add(Sample{Timestamp: g.now(), TotalValue: g.TotalValue()})
}

func (g *Game) notify(level notify.Level, msg string) {
	g.Notifications.Add(notify.Notification{Time: g.now(), Level: level, Message: msg})
	if level == notify.LevelError {
		g.logger.Warn(msg)
	}
}

// Close shuts down the scheduler and the market engine.
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Stop ticking first
	if g.runner != nil {
		g.runner.Close()
	}

	if g.Market != nil {
		g.Market.Close()
	}
}
