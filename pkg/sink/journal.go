package sink

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/cockroachdb/pebble"

	"github.com/quantaxe/matchcore/pkg/engine"
)

// Journal persists trades in pebble, ordered per ticker, so the API
// can serve recent-trade queries. It is a sink implementation, not
// engine state: losing it never affects the books.
type Journal struct {
	db  *pebble.DB
	seq atomic.Uint64
}

func OpenJournal(path string) (*Journal, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &Journal{db: db}, nil
}

// keys: t:<4-byte ticker><8-byte journal seq>, both big endian so the
// natural key order is (ticker, arrival).
func tradeKey(ticker engine.TickerID, seq uint64) []byte {
	key := make([]byte, 2+4+8)
	copy(key, "t:")
	binary.BigEndian.PutUint32(key[2:], uint32(ticker))
	binary.BigEndian.PutUint64(key[6:], seq)
	return key
}

func (j *Journal) Publish(_ context.Context, trades []engine.Trade) error {
	batch := j.db.NewBatch()
	defer batch.Close()
	for _, t := range trades {
		val, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encode trade: %w", err)
		}
		if err := batch.Set(tradeKey(t.Ticker, j.seq.Add(1)), val, nil); err != nil {
			return fmt.Errorf("journal trade: %w", err)
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("commit journal batch: %w", err)
	}
	return nil
}

// Recent returns up to limit trades for the ticker, newest first.
func (j *Journal) Recent(ticker engine.TickerID, limit int) ([]engine.Trade, error) {
	iter, err := j.db.NewIter(&pebble.IterOptions{
		LowerBound: tradeKey(ticker, 0),
		UpperBound: tradeKey(ticker, ^uint64(0)),
	})
	if err != nil {
		return nil, fmt.Errorf("journal iter: %w", err)
	}
	defer iter.Close()

	var out []engine.Trade
	for ok := iter.Last(); ok && len(out) < limit; ok = iter.Prev() {
		var t engine.Trade
		if err := json.Unmarshal(iter.Value(), &t); err != nil {
			return nil, fmt.Errorf("decode trade: %w", err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (j *Journal) Close() error { return j.db.Close() }
