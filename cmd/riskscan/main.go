package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alias1177/riskscan/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup context with cancellation for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	setupLogging("info")

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("riskscan failed")
		os.Exit(1)
	}
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	// Set log level from config
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil || logLevel == "" {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}

// printConfig outputs the effective configuration without credentials
func printConfig(cfg *config.Config) {
	log.Debug().
		Str("Market", cfg.Market).
		Str("QuoteAsset", cfg.QuoteAsset).
		Int("SymbolLimit", cfg.SymbolLimit).
		Str("Interval", cfg.Interval).
		Int("KlineLimit", cfg.KlineLimit).
		Str("RiskPolicy", cfg.RiskPolicy).
		Int("Leverage", cfg.Leverage).
		Float64("RiskPercentage", cfg.RiskPercentage).
		Float64("RewardPercentage", cfg.RewardPercentage).
		Float64("Balance", cfg.Balance).
		Float64("RiskPct", cfg.RiskPct).
		Float64("RewardPct", cfg.RewardPct).
		Ints("MAWindows", cfg.MAWindows).
		Str("ChartFormat", cfg.ChartFormat).
		Int("RequestTimeout", cfg.RequestTimeout).
		Bool("APIKeySet", cfg.APIKey != "").
		Bool("Telegram", cfg.TelegramEnabled()).
		Msg("Configuration loaded")
}
