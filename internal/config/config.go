package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	// Bridge gateway
	BridgeBaseURL   string `env:"IB_BRIDGE_URL" envDefault:"http://127.0.0.1:8942"`
	BridgeEventsURL string `env:"IB_BRIDGE_EVENTS_URL" envDefault:"ws://127.0.0.1:8942/events"`
	RequestTimeout  int    `env:"REQUEST_TIMEOUT" envDefault:"10"` // seconds, per collaborator call
	RequestsPerSec  int    `env:"REQUESTS_PER_SEC" envDefault:"5"`

	// Scan engine
	ConcurrencyLimit  int     `env:"CONCURRENCY_LIMIT" envDefault:"50"`
	ScanTriggerSecond int     `env:"SCAN_TRIGGER_SECOND" envDefault:"45"`
	ScanInterval      int     `env:"SCAN_INTERVAL" envDefault:"30"` // seconds between cycles
	HeartbeatInterval int     `env:"HEARTBEAT_INTERVAL" envDefault:"1"`
	PriceCeiling      float64 `env:"PRICE_CEILING" envDefault:"5.0"`
	MaxSpreadRatio    float64 `env:"MAX_SPREAD_RATIO" envDefault:"1.05"`
	StrongDollarRisk  float64 `env:"STRONG_DOLLAR_RISK" envDefault:"10"`
	MildDollarRisk    float64 `env:"MILD_DOLLAR_RISK" envDefault:"5"`
	MinutesValid      int     `env:"MINUTES_VALID" envDefault:"3"`
	SessionTZ         string  `env:"SESSION_TZ" envDefault:"America/New_York"`
	VenueTZ           string  `env:"VENUE_TZ" envDefault:"UTC"`
	ReconnectMaxWait  int     `env:"RECONNECT_MAX_WAIT" envDefault:"300"` // seconds before operator escalation

	// Universe
	UniverseFile    string `env:"UNIVERSE_FILE" envDefault:"stocks_with_float.csv"`
	UniverseLimit   int    `env:"UNIVERSE_LIMIT" envDefault:"550"`
	UniverseExclude string `env:"UNIVERSE_EXCLUDE" envDefault:""` // comma-separated tickers

	// Universe builder
	TickersFile     string  `env:"TICKERS_FILE" envDefault:"tickers.json"`
	BuilderPriceMin float64 `env:"BUILDER_PRICE_MIN" envDefault:"0.1"`
	BuilderPriceMax float64 `env:"BUILDER_PRICE_MAX" envDefault:"7.0"`
	BuilderMCMin    float64 `env:"BUILDER_MC_MIN" envDefault:"100000"`
	BuilderMCMax    float64 `env:"BUILDER_MC_MAX" envDefault:"50000000"`
	BuilderMinVol   float64 `env:"BUILDER_MIN_VOLUME" envDefault:"5000"`

	// Journal (PostgreSQL)
	DBHost     string `env:"DB_HOST" envDefault:""`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:""`
	DBName     string `env:"DB_NAME" envDefault:"breakout"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// Operator alerts
	TelegramToken  string `env:"TELEGRAM_TOKEN" envDefault:""`
	TelegramChatID int64  `env:"TELEGRAM_CHAT_ID" envDefault:"0"`

	// Observability
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9100"`
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config

	cfg.BridgeBaseURL = getEnvWithDefault("IB_BRIDGE_URL", "http://127.0.0.1:8942")
	cfg.BridgeEventsURL = getEnvWithDefault("IB_BRIDGE_EVENTS_URL", "ws://127.0.0.1:8942/events")
	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", 10)
	cfg.RequestsPerSec = getEnvIntWithDefault("REQUESTS_PER_SEC", 5)

	cfg.ConcurrencyLimit = getEnvIntWithDefault("CONCURRENCY_LIMIT", 50)
	cfg.ScanTriggerSecond = getEnvIntWithDefault("SCAN_TRIGGER_SECOND", 45)
	cfg.ScanInterval = getEnvIntWithDefault("SCAN_INTERVAL", 30)
	cfg.HeartbeatInterval = getEnvIntWithDefault("HEARTBEAT_INTERVAL", 1)
	cfg.PriceCeiling = getEnvFloatWithDefault("PRICE_CEILING", 5.0)
	cfg.MaxSpreadRatio = getEnvFloatWithDefault("MAX_SPREAD_RATIO", 1.05)
	cfg.StrongDollarRisk = getEnvFloatWithDefault("STRONG_DOLLAR_RISK", 10)
	cfg.MildDollarRisk = getEnvFloatWithDefault("MILD_DOLLAR_RISK", 5)
	cfg.MinutesValid = getEnvIntWithDefault("MINUTES_VALID", 3)
	cfg.SessionTZ = getEnvWithDefault("SESSION_TZ", "America/New_York")
	cfg.VenueTZ = getEnvWithDefault("VENUE_TZ", "UTC")
	cfg.ReconnectMaxWait = getEnvIntWithDefault("RECONNECT_MAX_WAIT", 300)

	cfg.UniverseFile = getEnvWithDefault("UNIVERSE_FILE", "stocks_with_float.csv")
	cfg.UniverseLimit = getEnvIntWithDefault("UNIVERSE_LIMIT", 550)
	cfg.UniverseExclude = getEnvWithDefault("UNIVERSE_EXCLUDE", "")

	cfg.TickersFile = getEnvWithDefault("TICKERS_FILE", "tickers.json")
	cfg.BuilderPriceMin = getEnvFloatWithDefault("BUILDER_PRICE_MIN", 0.1)
	cfg.BuilderPriceMax = getEnvFloatWithDefault("BUILDER_PRICE_MAX", 7.0)
	cfg.BuilderMCMin = getEnvFloatWithDefault("BUILDER_MC_MIN", 100000)
	cfg.BuilderMCMax = getEnvFloatWithDefault("BUILDER_MC_MAX", 50000000)
	cfg.BuilderMinVol = getEnvFloatWithDefault("BUILDER_MIN_VOLUME", 5000)

	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = getEnvWithDefault("DB_PORT", "5432")
	cfg.DBUser = getEnvWithDefault("DB_USER", "postgres")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = getEnvWithDefault("DB_NAME", "breakout")
	cfg.DBSSLMode = getEnvWithDefault("DB_SSLMODE", "disable")

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.TelegramChatID = getEnvInt64WithDefault("TELEGRAM_CHAT_ID", 0)

	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")
	cfg.MetricsAddr = getEnvWithDefault("METRICS_ADDR", ":9100")

	return &cfg, nil
}

// ExcludedSymbols returns the parsed UNIVERSE_EXCLUDE list.
func (c *Config) ExcludedSymbols() []string {
	if c.UniverseExclude == "" {
		return nil
	}
	parts := strings.Split(c.UniverseExclude, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.ToUpper(strings.TrimSpace(p)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
