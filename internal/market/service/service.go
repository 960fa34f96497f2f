package service

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/zappabad/stocksurge/internal/market"
	marketview "github.com/zappabad/stocksurge/internal/market/view"
	"github.com/zappabad/stocksurge/internal/money"
	"github.com/zappabad/stocksurge/internal/news"
	newsview "github.com/zappabad/stocksurge/internal/news/view"
)

type stock struct {
	price   float64
	history *marketview.PriceHistory
}

// MarketEngine owns the simulated clock, the stocks and the news history.
// Every method is safe for concurrent use; a single RWMutex guards the state so
// readers never observe a partially applied tick.
type MarketEngine struct {
	cfg    Config
	logger *zap.Logger
	rand   news.Rand
	gen    *news.Generator

	mu      sync.RWMutex
	names   []string
	stocks  map[string]*stock
	news    *newsview.NewsHistory
	clock   int64
	running bool

	evMu          sync.Mutex
	events        chan marketview.MarketEvent
	droppedEvents atomic.Int64

	closed    chan struct{}
	closeOnce sync.Once
}

// NewMarketEngine creates a stopped engine. r drives both news selection and
// price noise. A nil logger disables logging.
func NewMarketEngine(cfg Config, r news.Rand, logger *zap.Logger) *MarketEngine {
	if len(cfg.Companies) == 0 {
		cfg.Companies = DefaultConfig().Companies
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = DefaultConfig().EventBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &MarketEngine{
		cfg:    cfg,
		logger: logger.Named("market"),
		rand:   r,
		gen:    news.NewGenerator(r),
		names:  append([]string(nil), cfg.Companies...),
		stocks: make(map[string]*stock, len(cfg.Companies)),
		news:   newsview.NewNewsHistory(),
		events: make(chan marketview.MarketEvent, cfg.EventBuffer),
		closed: make(chan struct{}),
	}
	e.initStocks()
	return e
}

// initStocks must be called with mu held (or before the engine is shared).
func (e *MarketEngine) initStocks() {
	for _, name := range e.names {
		h := marketview.NewPriceHistory(market.HistoryWindow)
		h.Push(market.InitialPrice)
		e.stocks[name] = &stock{price: market.InitialPrice, history: h}
	}
}

// Start moves the engine to Running. Calling it while running is a no-op.
func (e *MarketEngine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	clock := e.clock
	e.mu.Unlock()

	e.logger.Info("market started", zap.Int64("simulated_time", clock))
	e.emit(marketview.MarketEvent{Type: marketview.EventStarted, SimulatedTime: clock})
}

// Pause moves the engine to Stopped. Ticks already applied stay applied.
func (e *MarketEngine) Pause() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	clock := e.clock
	e.mu.Unlock()

	e.logger.Info("market paused", zap.Int64("simulated_time", clock))
	e.emit(marketview.MarketEvent{Type: marketview.EventPaused, SimulatedTime: clock})
}

// Reset restores the initial state: every stock at the initial price with a
// single-sample history, empty news, clock at zero, stopped.
func (e *MarketEngine) Reset() {
	e.mu.Lock()
	e.initStocks()
	e.news.Reset()
	e.clock = 0
	e.running = false
	e.mu.Unlock()

	e.logger.Info("market reset")
	e.emit(marketview.MarketEvent{Type: marketview.EventReset})
}

// Tick advances the simulation by one step. It reports false without touching
// any state when the engine is stopped.
func (e *MarketEngine) Tick() (news.Event, bool, error) {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return news.Event{}, false, nil
	}

	ev, err := e.gen.Generate(e.names)
	if err != nil {
		e.mu.Unlock()
		return news.Event{}, false, fmt.Errorf("tick: %w", err)
	}
	ev.Time = e.clock
	e.news.Apply(ev)

	for _, name := range e.names {
		st := e.stocks[name]
		impact := 0.0
		if name == ev.Company {
			impact = ev.Impact
		}
		st.price = nextPrice(st.price, e.noise(), impact)
		st.history.Push(st.price)
	}

	e.clock += market.TimeStep
	clock := e.clock
	e.mu.Unlock()

	e.logger.Debug("tick",
		zap.Int64("simulated_time", clock),
		zap.String("company", ev.Company),
		zap.String("news", ev.Content),
		zap.Float64("impact", ev.Impact),
	)
	e.emit(marketview.MarketEvent{Type: marketview.EventTick, SimulatedTime: clock, News: &ev})
	return ev, true, nil
}

// noise draws a uniform value on [-NoiseAmplitude, +NoiseAmplitude].
func (e *MarketEngine) noise() float64 {
	return (e.rand.Float64() - 0.5) * 2 * market.NoiseAmplitude
}

// nextPrice applies one tick of drift and news impact, floored at MinPrice and
// rounded to cents.
func nextPrice(price, noise, impact float64) float64 {
	p := math.Max(market.MinPrice, price*(1+noise+impact))
	return money.Round2(p)
}

// Stocks returns a copy of every stock in roster order.
func (e *MarketEngine) Stocks() []market.Stock {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stocksLocked()
}

func (e *MarketEngine) stocksLocked() []market.Stock {
	out := make([]market.Stock, 0, len(e.names))
	for _, name := range e.names {
		st := e.stocks[name]
		out = append(out, market.Stock{
			Name:    name,
			Price:   st.price,
			History: st.history.Values(),
		})
	}
	return out
}

// Companies returns the roster in display order.
func (e *MarketEngine) Companies() []string {
	return append([]string(nil), e.names...)
}

// Price returns the current price of company.
func (e *MarketEngine) Price(company string) (float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st, ok := e.stocks[company]
	if !ok {
		return 0, fmt.Errorf("%w: %q", market.ErrUnknownCompany, company)
	}
	return st.price, nil
}

// Prices returns the current price of every stock keyed by name.
func (e *MarketEngine) Prices() map[string]float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[string]float64, len(e.stocks))
	for name, st := range e.stocks {
		out[name] = st.price
	}
	return out
}

// NewsHistory returns a copy of every news event emitted since the last reset.
func (e *MarketEngine) NewsHistory() []news.Event {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.news.All()
}

// LatestNews returns the last n news events, oldest first.
func (e *MarketEngine) LatestNews(n int) []news.Event {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.news.Latest(n)
}

// SimulatedTime returns the simulated clock in seconds.
func (e *MarketEngine) SimulatedTime() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.clock
}

// IsRunning reports whether the engine is in the Running state.
func (e *MarketEngine) IsRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// Snapshot returns a consistent copy of the engine state.
func (e *MarketEngine) Snapshot() marketview.MarketSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return marketview.MarketSnapshot{
		Stocks:        e.stocksLocked(),
		SimulatedTime: e.clock,
		Running:       e.running,
		NewsCount:     e.news.Count(),
	}
}

func (e *MarketEngine) emit(ev marketview.MarketEvent) {
	e.evMu.Lock()
	defer e.evMu.Unlock()

	select {
	case <-e.closed:
		return
	default:
	}

	if e.cfg.DropEvents {
		select {
		case e.events <- ev:
		default:
			e.droppedEvents.Add(1)
		}
	} else {
		select {
		case e.events <- ev:
		case <-e.closed:
		}
	}
}

// Events returns the market events channel for subscribers.
func (e *MarketEngine) Events() <-chan marketview.MarketEvent {
	return e.events
}

// DroppedEvents returns the count of dropped market events.
func (e *MarketEngine) DroppedEvents() int64 {
	return e.droppedEvents.Load()
}

// Close stops event delivery and closes the events channel.
func (e *MarketEngine) Close() {
	e.closeOnce.Do(func() {
		close(e.closed)
		e.evMu.Lock()
		close(e.events)
		e.evMu.Unlock()
	})
}
