package main

import (
	"fmt"
	"time"

	"github.com/Alias1177/riskscan/internal/api/binance"
	"github.com/Alias1177/riskscan/internal/config"
	"github.com/Alias1177/riskscan/internal/trading/risk"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "riskscan",
	Short: "Binance market scanner with stop-loss / take-profit sizing",
	Long: `riskscan fetches spot or USDT-M futures prices from the Binance public API,
computes stop-loss and take-profit levels for every pair, and renders
candlestick charts with moving-average overlays.

Configuration is read from the environment (and a .env file if present);
command-line flags override it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		cfg = c

		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		setupLogging(cfg.LogLevel)
		printConfig(cfg)
		return nil
	},
}

var (
	cfg      *config.Config
	logLevel string
)

// Shared flags of scan, calc and chart
var (
	marketFlag   string
	policyFlag   string
	leverageFlag int
	riskFlag     float64
	rewardFlag   float64
	balanceFlag  float64
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func addMarketFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&marketFlag, "market", "m", "", "market: spot or futures (default $MARKET or spot)")
}

func addPolicyFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&policyFlag, "policy", "p", "", "risk policy: percent or budget (default $RISK_POLICY or percent)")
	cmd.Flags().IntVar(&leverageFlag, "leverage", 0, "leverage multiplier (default $LEVERAGE or 125)")
	cmd.Flags().Float64Var(&riskFlag, "risk", 0, "risk: percent of price (percent policy) or fraction of balance (budget policy)")
	cmd.Flags().Float64Var(&rewardFlag, "reward", 0, "reward: percent of price (percent policy) or fraction of balance (budget policy)")
	cmd.Flags().Float64Var(&balanceFlag, "balance", 0, "account balance in USDT (budget policy)")
}

func resolveMarket(cmd *cobra.Command) (binance.Market, error) {
	name := cfg.Market
	if cmd.Flags().Changed("market") {
		name = marketFlag
	}
	return binance.ParseMarket(name)
}

// resolvePolicy merges configuration with any policy flags given on the command line
func resolvePolicy(cmd *cobra.Command) (risk.Policy, error) {
	name := cfg.RiskPolicy
	if cmd.Flags().Changed("policy") {
		name = policyFlag
	}
	kind, err := risk.ParseKind(name)
	if err != nil {
		return nil, err
	}

	params := risk.Params{
		Leverage:         cfg.Leverage,
		RiskPercentage:   cfg.RiskPercentage,
		RewardPercentage: cfg.RewardPercentage,
		Balance:          cfg.Balance,
		RiskPct:          cfg.RiskPct,
		RewardPct:        cfg.RewardPct,
	}
	flags := cmd.Flags()
	if flags.Changed("leverage") {
		params.Leverage = leverageFlag
	}
	if flags.Changed("balance") {
		params.Balance = balanceFlag
	}
	if flags.Changed("risk") {
		params.RiskPercentage, params.RiskPct = riskFlag, riskFlag
	}
	if flags.Changed("reward") {
		params.RewardPercentage, params.RewardPct = rewardFlag, rewardFlag
	}

	return risk.NewPolicy(kind, params)
}

func newBinanceClient(market binance.Market) *binance.Client {
	return binance.NewClient(binance.ClientOptions{
		Market:         market,
		APIKey:         cfg.APIKey,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: cfg.RequestsPerSec,
		MaxRetries:     cfg.MaxRetries,
	})
}

func klineLimit(market binance.Market, flagValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	if cfg.KlineLimit > 0 {
		return cfg.KlineLimit
	}
	return market.DefaultKlineLimit()
}
