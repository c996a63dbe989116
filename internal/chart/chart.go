package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/Alias1177/riskscan/internal/calculate"
	"github.com/Alias1177/riskscan/internal/model"
)

// Renderer draws a candlestick chart for one symbol
type Renderer interface {
	Render(symbol string, candles []model.Candle, out io.Writer) error
	Extension() string
}

// Options shared by renderers
type Options struct {
	Futures   bool  // adds "Futures" to the title
	MAWindows []int // overlay windows, defaults to 50 and 200
}

func (o Options) windows() []int {
	if len(o.MAWindows) == 0 {
		return calculate.DefaultMAWindows
	}
	return o.MAWindows
}

// Title returns the chart title for symbol
func (o Options) Title(symbol string) string {
	if o.Futures {
		return symbol + " Futures Candlestick Chart"
	}
	return symbol + " Candlestick Chart"
}

// overlayColors cycles through the line colors of the MA traces
var overlayColors = []string{"blue", "red", "green", "orange", "purple"}

func overlayColor(i int) string {
	return overlayColors[i%len(overlayColors)]
}

// New returns the renderer for format ("html" or "xlsx")
func New(format string, opts Options) (Renderer, error) {
	switch strings.ToLower(format) {
	case "html", "":
		return &HTMLRenderer{Options: opts}, nil
	case "xlsx", "excel":
		return &XLSXRenderer{Options: opts}, nil
	}
	return nil, fmt.Errorf("unknown chart format %q", format)
}

// RenderFile renders to path, creating parent directories
func RenderFile(r Renderer, symbol string, candles []model.Candle, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := r.Render(symbol, candles, f); err != nil {
		f.Close()
		return fmt.Errorf("rendering %s: %w", symbol, err)
	}
	return f.Close()
}

// FileName returns "<dir>/<symbol>.<ext>"
func FileName(dir, symbol string, r Renderer) string {
	return filepath.Join(dir, symbol+"."+r.Extension())
}

func checkCandles(candles []model.Candle) error {
	if len(candles) == 0 {
		return fmt.Errorf("no candles to render")
	}
	return nil
}

// nullable maps NaN warm-up points to nil
func nullable(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		if !math.IsNaN(values[i]) {
			v := values[i]
			out[i] = &v
		}
	}
	return out
}
