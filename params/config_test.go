package params

import (
	"testing"
	"time"
)

func TestDefaultsWithoutEnv(t *testing.T) {
	cfg := LoadFromEnv("testdata/does-not-exist.env")

	if cfg.Engine.Shards != 64 || cfg.Engine.TickerSpace != 1024 || cfg.Engine.PriceScale != 2 {
		t.Fatalf("engine defaults: %+v", cfg.Engine)
	}
	if cfg.API.ListenAddr != ":8080" {
		t.Fatalf("api default: %+v", cfg.API)
	}
	if cfg.Log.File != "" || cfg.Log.Debug {
		t.Fatalf("log default: %+v", cfg.Log)
	}
	if cfg.Simulator.Enabled {
		t.Fatal("simulator enabled by default")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ENGINE_SHARDS", "16")
	t.Setenv("ENGINE_TICKER_SPACE", "256")
	t.Setenv("ENGINE_PRICE_SCALE", "4")
	t.Setenv("API_LISTEN", ":9090")
	t.Setenv("LOG_FILE", "data/engine.log")
	t.Setenv("DEBUG", "true")
	t.Setenv("JOURNAL_PATH", "")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("KAFKA_TOPIC", "fills")
	t.Setenv("ENABLE_SIM", "true")
	t.Setenv("SIM_WORKERS", "2")
	t.Setenv("SIM_ORDERS", "100")
	t.Setenv("SIM_PACE_MS", "0")

	cfg := LoadFromEnv("testdata/does-not-exist.env")

	if cfg.Engine.Shards != 16 || cfg.Engine.TickerSpace != 256 || cfg.Engine.PriceScale != 4 {
		t.Fatalf("engine: %+v", cfg.Engine)
	}
	if cfg.API.ListenAddr != ":9090" {
		t.Fatalf("api: %+v", cfg.API)
	}
	if cfg.Log.File != "data/engine.log" || !cfg.Log.Debug {
		t.Fatalf("log: %+v", cfg.Log)
	}
	if cfg.Sinks.JournalPath != "" {
		t.Fatalf("empty JOURNAL_PATH should disable the journal: %+v", cfg.Sinks)
	}
	if len(cfg.Sinks.KafkaBrokers) != 2 || cfg.Sinks.KafkaTopic != "fills" {
		t.Fatalf("kafka: %+v", cfg.Sinks)
	}
	if !cfg.Simulator.Enabled || cfg.Simulator.Workers != 2 ||
		cfg.Simulator.Orders != 100 || cfg.Simulator.Pace != 0 {
		t.Fatalf("simulator: %+v", cfg.Simulator)
	}
}

func TestInvalidEnvValuesKeepDefaults(t *testing.T) {
	t.Setenv("ENGINE_SHARDS", "-4")
	t.Setenv("ENGINE_TICKER_SPACE", "zero")
	t.Setenv("SIM_WORKERS", "0")

	cfg := LoadFromEnv("testdata/does-not-exist.env")
	if cfg.Engine.Shards != 64 || cfg.Engine.TickerSpace != 1024 {
		t.Fatalf("engine: %+v", cfg.Engine)
	}
	if cfg.Simulator.Workers != 4 {
		t.Fatalf("simulator: %+v", cfg.Simulator)
	}
}

func TestSimPaceFromEnv(t *testing.T) {
	t.Setenv("SIM_PACE_MS", "25")
	cfg := LoadFromEnv("testdata/does-not-exist.env")
	if cfg.Simulator.Pace != 25*time.Millisecond {
		t.Fatalf("pace: %v", cfg.Simulator.Pace)
	}
}
