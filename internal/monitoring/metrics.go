package monitoring

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds only the riskscan series, not the Go runtime collectors
var Registry = prometheus.NewRegistry()

var (
	// Scan metrics
	symbolsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskscan_symbols_total",
			Help: "Total number of symbols processed by a scan",
		},
		[]string{"market", "result"},
	)

	scanDuration = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "riskscan_scan_duration_seconds",
			Help: "Wall time of the last scan",
		},
		[]string{"market"},
	)

	// Level metrics
	currentPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "riskscan_current_price",
			Help: "Last fetched price of a symbol",
		},
		[]string{"market", "symbol"},
	)

	stopLoss = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "riskscan_stop_loss",
			Help: "Computed stop-loss level of a symbol",
		},
		[]string{"market", "symbol"},
	)

	takeProfit = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "riskscan_take_profit",
			Help: "Computed take-profit level of a symbol",
		},
		[]string{"market", "symbol"},
	)
)

func init() {
	Registry.MustRegister(symbolsTotal)
	Registry.MustRegister(scanDuration)
	Registry.MustRegister(currentPrice)
	Registry.MustRegister(stopLoss)
	Registry.MustRegister(takeProfit)
}

// RecordSymbol records the outcome of one processed symbol
func RecordSymbol(market, symbol string, price, sl, tp float64, err error) {
	if err != nil {
		symbolsTotal.WithLabelValues(market, "failed").Inc()
		return
	}
	symbolsTotal.WithLabelValues(market, "ok").Inc()
	currentPrice.WithLabelValues(market, symbol).Set(price)
	stopLoss.WithLabelValues(market, symbol).Set(sl)
	takeProfit.WithLabelValues(market, symbol).Set(tp)
}

// RecordScanDuration stores the duration of a finished scan
func RecordScanDuration(market string, d time.Duration) {
	scanDuration.WithLabelValues(market).Set(d.Seconds())
}

// WriteTextfile dumps all metrics in the node_exporter textfile format
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
