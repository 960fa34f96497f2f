package runner

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// TickFunc advances the simulation by one step. It reports whether a step was
// actually taken.
type TickFunc func() (bool, error)

// Runner calls a TickFunc on a fixed real-time cadence until closed. A tick
// that runs late is not caught up: missed intervals are dropped.
type Runner struct {
	cfg    Config
	tick   TickFunc
	logger *zap.Logger

	ticks  atomic.Int64
	errors atomic.Int64

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewRunner creates a Runner and starts its loop.
func NewRunner(cfg Config, tick TickFunc, logger *zap.Logger) *Runner {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Runner{
		cfg:    cfg,
		tick:   tick,
		logger: logger.Named("runner"),
		closed: make(chan struct{}),
	}

	r.wg.Add(1)
	go r.run()

	return r
}

func (r *Runner) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.closed:
			return
		case <-ticker.C:
			r.step()
		}
	}
}

func (r *Runner) step() {
	ticked, err := r.tick()
	if err != nil {
		r.errors.Add(1)
		r.logger.Error("tick failed", zap.Error(err))
		return
	}
	if ticked {
		r.ticks.Add(1)
	}
}

// Ticks returns the number of ticks that advanced the simulation.
func (r *Runner) Ticks() int64 {
	return r.ticks.Load()
}

// Errors returns the number of ticks that failed.
func (r *Runner) Errors() int64 {
	return r.errors.Load()
}

// Interval returns the tick cadence.
func (r *Runner) Interval() time.Duration {
	return r.cfg.TickInterval
}

// Close stops the loop and waits for an in-flight tick to finish.
func (r *Runner) Close() {
	r.closeOnce.Do(func() {
		close(r.closed)
	})
	r.wg.Wait()
}
