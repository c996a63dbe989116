package calculate

import (
	"math"

	"github.com/Alias1177/riskscan/internal/model"
)

// Default overlay windows drawn on candlestick charts
var DefaultMAWindows = []int{50, 200}

// SMA returns the rolling simple moving average of values over window.
// The result has the same length as values; positions without a full
// window are NaN.
func SMA(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if window <= 0 || len(values) < window {
		return out
	}

	for i := window - 1; i < len(values); i++ {
		out[i] = calculateAverage(values[i-window+1 : i+1])
	}
	return out
}

// Closes extracts close prices
func Closes(candles []model.Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}

// MovingAverages computes one SMA series of closes per window.
func MovingAverages(candles []model.Candle, windows ...int) map[int][]float64 {
	if len(windows) == 0 {
		windows = DefaultMAWindows
	}
	closes := Closes(candles)

	series := make(map[int][]float64, len(windows))
	for _, w := range windows {
		series[w] = SMA(closes, w)
	}
	return series
}
