// Package sink delivers executed trades to external consumers. The
// matching core performs no I/O: it returns trades with no shard lock
// held, and the caller hands them to a TradeSink.
package sink

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/quantaxe/matchcore/pkg/engine"
)

type TradeSink interface {
	Publish(ctx context.Context, trades []engine.Trade) error
	Close() error
}

// LogSink writes each trade to the structured log.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{log: logger}
}

func (s *LogSink) Publish(_ context.Context, trades []engine.Trade) error {
	for _, t := range trades {
		s.log.Info("trade executed",
			zap.Uint32("ticker", uint32(t.Ticker)),
			zap.Int64("qty", t.Qty),
			zap.Int64("price", t.Price),
			zap.Uint64("buy_order_id", t.BuyOrderID),
			zap.Uint64("sell_order_id", t.SellOrderID))
	}
	return nil
}

func (s *LogSink) Close() error { return nil }

// Fanout publishes to every sink, continuing past failures.
type Fanout []TradeSink

func (f Fanout) Publish(ctx context.Context, trades []engine.Trade) error {
	var errs []error
	for _, s := range f {
		if err := s.Publish(ctx, trades); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) Close() error {
	var errs []error
	for _, s := range f {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
