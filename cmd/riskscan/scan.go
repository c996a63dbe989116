package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/Alias1177/riskscan/internal/api/binance"
	"github.com/Alias1177/riskscan/internal/chart"
	"github.com/Alias1177/riskscan/internal/monitoring"
	"github.com/Alias1177/riskscan/internal/notify"
	"github.com/Alias1177/riskscan/internal/scanner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Compute stop-loss / take-profit for every matching pair",
	Long: `Scan lists the tradable pairs of a market, fetches each price and applies the
selected risk policy. A pair whose price cannot be fetched is reported and the
scan continues with the next one.

Examples:
  riskscan scan
  riskscan scan --market futures --policy budget --balance 5 --leverage 125
  riskscan scan --market futures --chart-dir charts --pause-every 10`,
	RunE: runScan,
}

var (
	scanLimit       int
	scanQuote       string
	scanChartDir    string
	scanChartFormat string
	scanInterval    string
	scanPauseEvery  int
	scanNotify      bool
	scanMetricsFile string
)

func init() {
	rootCmd.AddCommand(scanCmd)

	addMarketFlag(scanCmd)
	addPolicyFlags(scanCmd)
	scanCmd.Flags().IntVarP(&scanLimit, "limit", "n", 0, "number of pairs to scan (default 20 spot, 90 futures)")
	scanCmd.Flags().StringVar(&scanQuote, "quote", "", "quote asset filter for spot pairs (default $QUOTE_ASSET or USDT)")
	scanCmd.Flags().StringVar(&scanChartDir, "chart-dir", "", "write a candlestick chart per pair into this directory")
	scanCmd.Flags().StringVar(&scanChartFormat, "chart-format", "", "chart format: html or xlsx (default $CHART_FORMAT or html)")
	scanCmd.Flags().StringVarP(&scanInterval, "interval", "i", "", "kline interval for charts (default $INTERVAL or 1h)")
	scanCmd.Flags().IntVar(&scanPauseEvery, "pause-every", 0, "print each pair and wait for Enter after every N pairs, 0 prints only the table")
	scanCmd.Flags().BoolVar(&scanNotify, "notify", false, "send the summary to Telegram ($TELEGRAM_BOT_TOKEN, $TELEGRAM_CHAT_ID)")
	scanCmd.Flags().StringVar(&scanMetricsFile, "metrics-file", "", "write Prometheus metrics in textfile format to this path")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	market, err := resolveMarket(cmd)
	if err != nil {
		return err
	}
	policy, err := resolvePolicy(cmd)
	if err != nil {
		return err
	}

	filter := market.DefaultFilter()
	if market == binance.Spot {
		filter.QuoteAsset = cfg.QuoteAsset
		if scanQuote != "" {
			filter.QuoteAsset = scanQuote
		}
	}
	if cfg.SymbolLimit > 0 {
		filter.Limit = cfg.SymbolLimit
	}
	if scanLimit > 0 {
		filter.Limit = scanLimit
	}

	var notifier notify.Notifier
	if scanNotify {
		if !cfg.TelegramEnabled() {
			return fmt.Errorf("--notify needs TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID")
		}
		notifier, err = notify.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			return err
		}
	}

	client := newBinanceClient(market)
	s := scanner.New(client, market, policy)

	out := cmd.OutOrStdout()
	hooks := []func(ctx context.Context, index int, entry scanner.Entry){
		entryHook(out, market, scanPauseEvery > 0),
	}

	if scanChartDir != "" {
		format := cfg.ChartFormat
		if scanChartFormat != "" {
			format = scanChartFormat
		}
		renderer, err := chart.New(format, chart.Options{Futures: market == binance.Futures, MAWindows: cfg.MAWindows})
		if err != nil {
			return err
		}
		interval := cfg.Interval
		if scanInterval != "" {
			interval = scanInterval
		}
		limit := klineLimit(market, 0)
		dir := filepath.Join(scanChartDir, string(market))

		hooks = append(hooks, func(ctx context.Context, index int, entry scanner.Entry) {
			if !entry.OK() {
				return
			}
			candles, err := client.GetKlines(ctx, entry.Symbol, interval, limit)
			if err != nil {
				log.Warn().Err(err).Str("symbol", entry.Symbol).Msg("Kline fetch failed, no chart")
				return
			}
			path := chart.FileName(dir, entry.Symbol, renderer)
			if err := chart.RenderFile(renderer, entry.Symbol, candles, path); err != nil {
				log.Warn().Err(err).Str("symbol", entry.Symbol).Msg("Chart rendering failed")
				return
			}
			log.Info().Str("symbol", entry.Symbol).Str("path", path).Msg("Chart written")
		})
	}

	if scanPauseEvery > 0 {
		hooks = append(hooks, pauseHook(cmd.InOrStdin(), cmd.ErrOrStderr(), scanPauseEvery))
	}

	s.OnEntry = func(ctx context.Context, index int, entry scanner.Entry) {
		for _, hook := range hooks {
			hook(ctx, index, entry)
		}
	}

	report, err := s.Run(ctx, filter)
	if report == nil {
		return err
	}
	scanner.WriteTable(out, report)
	monitoring.RecordScanDuration(string(market), report.Duration)
	if scanMetricsFile != "" {
		if werr := monitoring.WriteTextfile(scanMetricsFile); werr != nil {
			log.Warn().Err(werr).Msg("Metrics not written")
		}
	}
	if err != nil {
		return err
	}

	if notifier != nil {
		if err := notifier.Notify(ctx, scanner.FormatSummary(report)); err != nil {
			return fmt.Errorf("sending Telegram report: %w", err)
		}
	}
	return nil
}

// entryHook records metrics for every pair. With printEach it also prints the pair's
// block as it arrives; otherwise the final table is the only output.
func entryHook(out io.Writer, market binance.Market, printEach bool) func(ctx context.Context, index int, entry scanner.Entry) {
	return func(ctx context.Context, index int, entry scanner.Entry) {
		monitoring.RecordSymbol(string(market), entry.Symbol, entry.Price,
			entry.Result.StopLoss, entry.Result.TakeProfit, entry.Err)
		if printEach {
			printEntry(out, entry)
		}
	}
}

// printEntry prints one pair as soon as it is processed
func printEntry(w io.Writer, e scanner.Entry) {
	fmt.Fprintf(w, "--- %s ---\n", e.Symbol)
	if !e.OK() {
		fmt.Fprintf(w, "Error: %v\n\n", e.Err)
		return
	}

	r := e.Result
	fmt.Fprintf(w, "Current price: %v\n", e.Price)
	if r.Quantity > 0 {
		fmt.Fprintf(w, "Position size: %v %s\n", r.Quantity, e.Symbol)
	}
	fmt.Fprintf(w, "Stop Loss: %v, Take Profit: %v\n", r.StopLoss, r.TakeProfit)
	if r.StopLossLeveraged > 0 {
		fmt.Fprintf(w, "Stop Loss (leveraged): %v, Take Profit (leveraged): %v\n", r.StopLossLeveraged, r.TakeProfitLeveraged)
	}
	fmt.Fprintln(w)
}

// pauseHook blocks on a line from in after every `every` processed pairs
func pauseHook(in io.Reader, prompt io.Writer, every int) func(ctx context.Context, index int, entry scanner.Entry) {
	reader := bufio.NewReader(in)
	return func(ctx context.Context, index int, entry scanner.Entry) {
		if (index+1)%every != 0 {
			return
		}
		fmt.Fprint(prompt, "Enter to continue!")
		if _, err := reader.ReadString('\n'); err != nil && err != io.EOF {
			log.Warn().Err(err).Msg("Reading stdin failed")
		}
	}
}
