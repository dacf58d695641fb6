package params

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Engine struct {
	// Shards is the number of lock slots; tickers hash onto them for
	// lock granularity only.
	Shards int
	// TickerSpace bounds valid ticker ids to [0, TickerSpace).
	TickerSpace uint32
	// PriceScale is the number of decimal places per price tick at the
	// API boundary.
	PriceScale int32
}

type API struct {
	ListenAddr string
}

type Log struct {
	// File tees log output to this path in addition to the console
	// when non-empty.
	File  string
	Debug bool
}

type Sinks struct {
	// JournalPath enables the pebble trade journal when non-empty.
	JournalPath string
	// KafkaBrokers enables the Kafka trade publisher when non-empty.
	KafkaBrokers []string
	KafkaTopic   string
}

type Simulator struct {
	Enabled bool
	Workers int
	// Orders is submitted per worker.
	Orders int
	Pace   time.Duration
}

type Config struct {
	Engine    Engine
	API       API
	Log       Log
	Sinks     Sinks
	Simulator Simulator
}

func Default() Config {
	return Config{
		Engine: Engine{
			Shards:      64,
			TickerSpace: 1024,
			PriceScale:  2,
		},
		API: API{
			ListenAddr: ":8080",
		},
		Sinks: Sinks{
			JournalPath: "data/trades",
			KafkaTopic:  "trades",
		},
		Simulator: Simulator{
			Workers: 4,
			Orders:  500,
			Pace:    10 * time.Millisecond,
		},
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if v := os.Getenv("ENGINE_SHARDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Engine.Shards = n
		}
	}
	if v := os.Getenv("ENGINE_TICKER_SPACE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil && n > 0 {
			cfg.Engine.TickerSpace = uint32(n)
		}
	}
	if v := os.Getenv("ENGINE_PRICE_SCALE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Engine.PriceScale = int32(n)
		}
	}

	if v := os.Getenv("API_LISTEN"); v != "" {
		cfg.API.ListenAddr = v
	}

	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		cfg.Log.Debug = v == "true"
	}

	if v, ok := os.LookupEnv("JOURNAL_PATH"); ok {
		cfg.Sinks.JournalPath = v // empty disables the journal
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Sinks.KafkaBrokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		cfg.Sinks.KafkaTopic = v
	}

	if v := os.Getenv("ENABLE_SIM"); v != "" {
		cfg.Simulator.Enabled = v == "true"
	}
	if v := os.Getenv("SIM_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Simulator.Workers = n
		}
	}
	if v := os.Getenv("SIM_ORDERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Simulator.Orders = n
		}
	}
	if v := os.Getenv("SIM_PACE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			cfg.Simulator.Pace = time.Duration(ms) * time.Millisecond
		}
	}

	return cfg
}
