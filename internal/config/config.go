package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	APIKey             string `env:"API_KEY"`
	SecretKey          string `env:"SECRET_KEY"`
	RequireCredentials bool   `env:"REQUIRE_CREDENTIALS" envDefault:"false"`

	Market      string `env:"MARKET" envDefault:"spot"`
	QuoteAsset  string `env:"QUOTE_ASSET" envDefault:"USDT"`
	SymbolLimit int    `env:"SYMBOL_LIMIT" envDefault:"0"` // 0 uses the market default
	Interval    string `env:"INTERVAL" envDefault:"1h"`
	KlineLimit  int    `env:"KLINE_LIMIT" envDefault:"0"` // 0 uses the market default

	RiskPolicy       string  `env:"RISK_POLICY" envDefault:"percent"`
	Leverage         int     `env:"LEVERAGE" envDefault:"125"`
	RiskPercentage   float64 `env:"RISK_PERCENTAGE" envDefault:"0.5"`
	RewardPercentage float64 `env:"REWARD_PERCENTAGE" envDefault:"1.0"`
	Balance          float64 `env:"BALANCE" envDefault:"5"`
	RiskPct          float64 `env:"RISK_PCT" envDefault:"0.3"`
	RewardPct        float64 `env:"REWARD_PCT" envDefault:"0.6"`

	MAWindows   []int  `env:"MA_WINDOWS" envDefault:"50,200"`
	ChartFormat string `env:"CHART_FORMAT" envDefault:"html"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"30"` // seconds
	RequestsPerSec int    `env:"REQUESTS_PER_SEC" envDefault:"5"`
	MaxRetries     int    `env:"MAX_RETRIES" envDefault:"3"`

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64  `env:"TELEGRAM_CHAT_ID"`
}

// ErrMissingCredentials is returned when REQUIRE_CREDENTIALS is set without keys
var ErrMissingCredentials = errors.New("API_KEY or SECRET_KEY is not set")

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only
func FromEnv() (*Config, error) {
	var cfg Config

	cfg.APIKey = os.Getenv("API_KEY")
	cfg.SecretKey = os.Getenv("SECRET_KEY")
	cfg.RequireCredentials = getEnvBoolWithDefault("REQUIRE_CREDENTIALS", false)

	cfg.Market = getEnvWithDefault("MARKET", "spot")
	cfg.QuoteAsset = getEnvWithDefault("QUOTE_ASSET", "USDT")
	cfg.SymbolLimit = getEnvIntWithDefault("SYMBOL_LIMIT", 0)
	cfg.Interval = getEnvWithDefault("INTERVAL", "1h")
	cfg.KlineLimit = getEnvIntWithDefault("KLINE_LIMIT", 0)

	cfg.RiskPolicy = getEnvWithDefault("RISK_POLICY", "percent")
	cfg.Leverage = getEnvIntWithDefault("LEVERAGE", 125)
	cfg.RiskPercentage = getEnvFloatWithDefault("RISK_PERCENTAGE", 0.5)
	cfg.RewardPercentage = getEnvFloatWithDefault("REWARD_PERCENTAGE", 1.0)
	cfg.Balance = getEnvFloatWithDefault("BALANCE", 5)
	cfg.RiskPct = getEnvFloatWithDefault("RISK_PCT", 0.3)
	cfg.RewardPct = getEnvFloatWithDefault("REWARD_PCT", 0.6)

	cfg.MAWindows = getEnvIntListWithDefault("MA_WINDOWS", []int{50, 200})
	cfg.ChartFormat = getEnvWithDefault("CHART_FORMAT", "html")

	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")
	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", 30)
	cfg.RequestsPerSec = getEnvIntWithDefault("REQUESTS_PER_SEC", 5)
	cfg.MaxRetries = getEnvIntWithDefault("MAX_RETRIES", 3)

	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = int64(getEnvIntWithDefault("TELEGRAM_CHAT_ID", 0))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges that do not depend on the selected policy
func (c *Config) Validate() error {
	if c.RequireCredentials && (c.APIKey == "" || c.SecretKey == "") {
		return ErrMissingCredentials
	}
	if c.Leverage <= 0 {
		return fmt.Errorf("LEVERAGE must be positive, got %d", c.Leverage)
	}
	if c.SymbolLimit < 0 {
		return fmt.Errorf("SYMBOL_LIMIT must not be negative, got %d", c.SymbolLimit)
	}
	if c.KlineLimit < 0 || c.KlineLimit > 1500 {
		return fmt.Errorf("KLINE_LIMIT must be between 0 and 1500, got %d", c.KlineLimit)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %d", c.RequestTimeout)
	}
	if c.RequestsPerSec <= 0 {
		return fmt.Errorf("REQUESTS_PER_SEC must be positive, got %d", c.RequestsPerSec)
	}
	for _, w := range c.MAWindows {
		if w <= 0 {
			return fmt.Errorf("MA_WINDOWS entries must be positive, got %d", w)
		}
	}
	switch c.ChartFormat {
	case "html", "xlsx":
	default:
		return fmt.Errorf("CHART_FORMAT must be html or xlsx, got %q", c.ChartFormat)
	}
	return nil
}

// TelegramEnabled reports whether scan reports can be delivered to Telegram
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
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
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid integer, using default")
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid number, using default")
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvIntListWithDefault(key string, defaultValue []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			log.Warn().Str("key", key).Str("value", value).Msg("Invalid integer list, using default")
			return defaultValue
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
