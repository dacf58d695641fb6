package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/quantaxe/matchcore/params"
	"github.com/quantaxe/matchcore/pkg/api"
	"github.com/quantaxe/matchcore/pkg/engine"
	"github.com/quantaxe/matchcore/pkg/sim"
	"github.com/quantaxe/matchcore/pkg/sink"
	"github.com/quantaxe/matchcore/pkg/util"
)

func main() {
	cfg := params.LoadFromEnv("") // "" means load .env from the current directory

	var logger *zap.Logger
	var err error
	if cfg.Log.File != "" {
		logger, err = util.NewLoggerWithFile(cfg.Log.File, cfg.Log.Debug)
	} else {
		logger, err = util.NewLogger(cfg.Log.Debug)
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	eng := engine.New(engine.Config{
		Shards:      cfg.Engine.Shards,
		TickerSpace: cfg.Engine.TickerSpace,
	}, logger)
	sugar.Infow("engine ready",
		"shards", cfg.Engine.Shards,
		"ticker_space", cfg.Engine.TickerSpace,
		"price_scale", cfg.Engine.PriceScale)

	// ---- Trade sinks ----
	hub := api.NewHub(sugar)
	sinks := sink.Fanout{
		sink.NewLogSink(logger),
		hub.Feed(cfg.Engine.PriceScale),
	}

	var journal *sink.Journal
	if cfg.Sinks.JournalPath != "" {
		journal, err = sink.OpenJournal(cfg.Sinks.JournalPath)
		if err != nil {
			sugar.Fatalw("journal open failed", "path", cfg.Sinks.JournalPath, "err", err)
		}
		sinks = append(sinks, journal)
		sugar.Infow("trade journal enabled", "path", cfg.Sinks.JournalPath)
	}
	if len(cfg.Sinks.KafkaBrokers) > 0 {
		sinks = append(sinks, sink.NewKafkaSink(cfg.Sinks.KafkaBrokers, cfg.Sinks.KafkaTopic))
		sugar.Infow("kafka publisher enabled",
			"brokers", cfg.Sinks.KafkaBrokers, "topic", cfg.Sinks.KafkaTopic)
	}
	defer func() {
		if err := sinks.Close(); err != nil {
			sugar.Warnw("sink close failed", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Load generator (optional demo harness) ----
	if cfg.Simulator.Enabled {
		simCfg := sim.DefaultConfig()
		simCfg.Workers = cfg.Simulator.Workers
		simCfg.Orders = cfg.Simulator.Orders
		simCfg.Pace = cfg.Simulator.Pace
		simCfg.Tickers = cfg.Engine.TickerSpace
		s := sim.New(eng, sinks, simCfg, util.RealClock{}, sugar)
		go s.Run(ctx)
		sugar.Infow("simulator started",
			"workers", simCfg.Workers, "orders_per_worker", simCfg.Orders)
	}

	// ---- API server ----
	var reader api.TradeReader
	if journal != nil {
		reader = journal
	}
	srv := api.NewServer(eng, sinks, reader, hub, cfg.Engine.PriceScale, sugar)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(cfg.API.ListenAddr) }()

	select {
	case <-ctx.Done():
		sugar.Info("shutting down")
	case err := <-errCh:
		sugar.Fatalw("api server failed", "err", err)
	}
}
