// Package sim is a demonstration load generator: it synthesizes
// random buy/sell orders across the ticker space and pushes them
// through the engine, feeding any resulting trades to the configured
// sinks. It is harness code, not part of the matching core.
package sim

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/quantaxe/matchcore/pkg/engine"
	"github.com/quantaxe/matchcore/pkg/sink"
	"github.com/quantaxe/matchcore/pkg/util"
)

type Config struct {
	Workers int
	// Orders is submitted per worker.
	Orders int
	// Pace is the delay between submissions per worker.
	Pace time.Duration

	// Order shape bounds. Prices are engine ticks.
	MaxQty   int64
	MinPrice int64
	MaxPrice int64
	Tickers  uint32 // submit over [0, Tickers)
	Seed     int64  // 0 seeds from the clock
}

func DefaultConfig() Config {
	return Config{
		Workers:  4,
		Orders:   500,
		Pace:     10 * time.Millisecond,
		MaxQty:   100,
		MinPrice: 1000,  // 10.00 at scale 2
		MaxPrice: 50000, // 500.00 at scale 2
		Tickers:  1024,
	}
}

type Simulator struct {
	engine *engine.Engine
	sinks  sink.TradeSink
	clock  util.Clock
	cfg    Config
	log    *zap.SugaredLogger
}

// New builds a simulator. clock paces the workers; pass
// util.RealClock{} outside of tests.
func New(e *engine.Engine, sinks sink.TradeSink, cfg Config, clock util.Clock, logger *zap.SugaredLogger) *Simulator {
	if cfg.Workers <= 0 || cfg.Orders <= 0 || cfg.MaxQty <= 0 ||
		cfg.MinPrice <= 0 || cfg.MaxPrice < cfg.MinPrice || cfg.Tickers == 0 {
		cfg = DefaultConfig()
	}
	if cfg.Tickers > e.TickerSpace() {
		cfg.Tickers = e.TickerSpace()
	}
	if clock == nil {
		clock = util.RealClock{}
	}
	return &Simulator{
		engine: e,
		sinks:  sinks,
		clock:  clock,
		cfg:    cfg,
		log:    logger,
	}
}

// Run drives all workers to completion or context cancellation and
// reports totals. Safe to run concurrently with API submissions: the
// engine serializes per ticker.
func (s *Simulator) Run(ctx context.Context) {
	start := s.clock.Now()
	var wg sync.WaitGroup
	var submitted, filled counter

	seed := s.cfg.Seed
	if seed == 0 {
		seed = start.UnixNano()
	}

	for w := 0; w < s.cfg.Workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			s.runWorker(ctx, rand.New(rand.NewSource(seed+int64(w))), &submitted, &filled)
		}(w)
	}
	wg.Wait()

	elapsed := s.clock.Now().Sub(start)
	s.log.Infow("simulation finished",
		"orders", submitted.load(),
		"trades", filled.load(),
		"elapsed", elapsed.Round(time.Millisecond))
}

// genOrder draws one random order from the worker's stream.
func (s *Simulator) genOrder(rng *rand.Rand) (engine.Side, engine.TickerID, int64, int64) {
	side := engine.Buy
	if rng.Intn(2) == 0 {
		side = engine.Sell
	}
	ticker := engine.TickerID(rng.Intn(int(s.cfg.Tickers)))
	qty := rng.Int63n(s.cfg.MaxQty) + 1
	price := s.cfg.MinPrice + rng.Int63n(s.cfg.MaxPrice-s.cfg.MinPrice+1)
	return side, ticker, qty, price
}

func (s *Simulator) runWorker(ctx context.Context, rng *rand.Rand, submitted, filled *counter) {
	for i := 0; i < s.cfg.Orders; i++ {
		side, ticker, qty, price := s.genOrder(rng)

		_, trades, err := s.engine.Submit(side, ticker, qty, price)
		if err != nil {
			// Generated orders are always in range; an error here is a
			// bug worth surfacing loudly.
			s.log.Errorw("simulated submit rejected", "ticker", ticker, "err", err)
			return
		}
		submitted.add(1)
		if len(trades) > 0 {
			filled.add(uint64(len(trades)))
			if err := s.sinks.Publish(ctx, trades); err != nil {
				s.log.Warnw("trade publish failed", "err", err)
			}
		}

		if s.cfg.Pace > 0 {
			select {
			case <-ctx.Done():
				return
			case <-s.clock.After(s.cfg.Pace):
			}
		} else if ctx.Err() != nil {
			return
		}
	}
}

type counter struct {
	n atomic.Uint64
}

func (c *counter) add(d uint64) { c.n.Add(d) }
func (c *counter) load() uint64 { return c.n.Load() }
