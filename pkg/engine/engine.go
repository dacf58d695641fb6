// Package engine is the matching core: it routes submissions to
// per-ticker books, keeps each book in price-time priority, and
// executes trades whenever a resting bid meets or exceeds a resting
// ask. The engine performs no I/O; trades are returned to the caller
// after the shard lock is released.
package engine

import (
	"sync/atomic"

	"go.uber.org/zap"
)

const (
	DefaultShards      = 64
	DefaultTickerSpace = 1024
)

type Config struct {
	// Shards is the number of lock-granularity slots. It bounds
	// parallelism, not identity: any number of tickers share a shard
	// correctly.
	Shards int

	// TickerSpace is the number of valid ticker ids [0, TickerSpace).
	TickerSpace uint32
}

func DefaultConfig() Config {
	return Config{Shards: DefaultShards, TickerSpace: DefaultTickerSpace}
}

// Engine owns all shards and the global id/sequence counter. Construct
// one per process and share it across submitters; Submit is safe for
// concurrent use.
type Engine struct {
	shards []shard
	space  uint32
	seq    atomic.Uint64
	log    *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Engine {
	if cfg.Shards <= 0 {
		cfg.Shards = DefaultShards
	}
	if cfg.TickerSpace == 0 {
		cfg.TickerSpace = DefaultTickerSpace
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		shards: make([]shard, cfg.Shards),
		space:  cfg.TickerSpace,
		log:    logger,
	}
	for i := range e.shards {
		e.shards[i].books = make(map[TickerID]*book)
	}
	return e
}

// TickerSpace reports the configured number of valid ticker ids.
func (e *Engine) TickerSpace() uint32 { return e.space }

// Submit validates the order, inserts it into the ticker's book and
// runs the matcher until no cross remains, all under the ticker's
// shard lock. It returns the assigned order id and the trades the
// insertion produced, in execution order. Validation failures reject
// before any state is touched.
//
// One atomic counter feeds both the order id and the tie-breaking
// sequence, so sequence order across all tickers reflects true
// submission order.
func (e *Engine) Submit(side Side, ticker TickerID, qty, price int64) (uint64, []Trade, error) {
	if qty <= 0 || price <= 0 {
		return 0, nil, ErrInvalidOrder
	}
	if uint32(ticker) >= e.space {
		return 0, nil, ErrUnknownTicker
	}

	seq := e.seq.Add(1)
	o := &Order{
		ID:       seq,
		Ticker:   ticker,
		Side:     side,
		Price:    price,
		Qty:      qty,
		Sequence: seq,
	}

	sh := &e.shards[int(uint32(ticker))%len(e.shards)]
	sh.mu.Lock()
	b := sh.bookFor(ticker)
	if side == Buy {
		b.bids.Insert(o)
	} else {
		b.asks.Insert(o)
	}
	trades, err := match(ticker, b)
	sh.mu.Unlock()

	if err != nil {
		e.log.Error("matcher invariant violated",
			zap.Uint32("ticker", uint32(ticker)), zap.Error(err))
		return o.ID, trades, err
	}
	if len(trades) > 0 {
		e.log.Debug("order crossed",
			zap.Uint64("order_id", o.ID),
			zap.Uint32("ticker", uint32(ticker)),
			zap.Int("fills", len(trades)))
	}
	return o.ID, trades, nil
}

// Depth returns the ticker's aggregated book, bids best-first and asks
// best-first, as a consistent snapshot taken under the shard lock.
func (e *Engine) Depth(ticker TickerID) (bids, asks []Level, err error) {
	if uint32(ticker) >= e.space {
		return nil, nil, ErrUnknownTicker
	}
	sh := &e.shards[int(uint32(ticker))%len(e.shards)]
	sh.mu.Lock()
	defer sh.mu.Unlock()
	b, ok := sh.books[ticker]
	if !ok {
		return nil, nil, nil
	}
	return b.bidLevels(), b.askLevels(), nil
}
