package main

import (
	"fmt"
	"path/filepath"

	"github.com/Alias1177/riskscan/internal/api/binance"
	"github.com/Alias1177/riskscan/internal/chart"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var chartCmd = &cobra.Command{
	Use:   "chart SYMBOL",
	Short: "Render a candlestick chart with moving-average overlays",
	Long: `Chart fetches klines for SYMBOL and writes a candlestick chart with MA50 and
MA200 overlays. HTML output opens as an interactive chart in a browser.

Examples:
  riskscan chart BTCUSDT
  riskscan chart BTCUSDT --market futures --interval 4h --limit 300 --out btc.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runChart,
}

var (
	chartInterval string
	chartLimit    int
	chartOut      string
	chartFormat   string
)

func init() {
	rootCmd.AddCommand(chartCmd)

	addMarketFlag(chartCmd)
	chartCmd.Flags().StringVarP(&chartInterval, "interval", "i", "", "kline interval (default $INTERVAL or 1h)")
	chartCmd.Flags().IntVarP(&chartLimit, "limit", "n", 0, "number of candles (default 100 spot, 300 futures)")
	chartCmd.Flags().StringVarP(&chartOut, "out", "o", "", "output file (default SYMBOL.html or SYMBOL.xlsx)")
	chartCmd.Flags().StringVar(&chartFormat, "format", "", "chart format: html or xlsx (inferred from --out)")
}

func runChart(cmd *cobra.Command, args []string) error {
	symbol := args[0]

	market, err := resolveMarket(cmd)
	if err != nil {
		return err
	}

	format := chartFormat
	if format == "" && chartOut != "" {
		if ext := filepath.Ext(chartOut); ext != "" {
			format = ext[1:]
		}
	}
	if format == "" {
		format = cfg.ChartFormat
	}

	renderer, err := chart.New(format, chart.Options{Futures: market == binance.Futures, MAWindows: cfg.MAWindows})
	if err != nil {
		return err
	}

	interval := cfg.Interval
	if chartInterval != "" {
		interval = chartInterval
	}

	candles, err := newBinanceClient(market).GetKlines(cmd.Context(), symbol, interval, klineLimit(market, chartLimit))
	if err != nil {
		return err
	}

	path := chartOut
	if path == "" {
		path = chart.FileName(".", symbol, renderer)
	}
	if err := chart.RenderFile(renderer, symbol, candles, path); err != nil {
		return err
	}

	log.Info().Str("symbol", symbol).Int("candles", len(candles)).Str("path", path).Msg("Chart written")
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
