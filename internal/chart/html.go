package chart

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"

	"github.com/Alias1177/riskscan/internal/calculate"
	"github.com/Alias1177/riskscan/internal/model"
)

// PlotlyCDN is the script loaded by generated pages
const PlotlyCDN = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// HTMLRenderer writes a standalone interactive Plotly page
type HTMLRenderer struct {
	Options
}

func (r *HTMLRenderer) Extension() string { return "html" }

type PlotlyTrace struct {
	Type  string            `json:"type"`
	Mode  string            `json:"mode,omitempty"`
	Name  string            `json:"name"`
	X     []string          `json:"x"`
	Y     []*float64        `json:"y,omitempty"`
	Open  []float64         `json:"open,omitempty"`
	High  []float64         `json:"high,omitempty"`
	Low   []float64         `json:"low,omitempty"`
	Close []float64         `json:"close,omitempty"`
	Line  map[string]string `json:"line,omitempty"`
}

type PlotlyAxis struct {
	Title map[string]string `json:"title"`
}

type PlotlyLayout struct {
	Title map[string]string `json:"title"`
	XAxis PlotlyAxis        `json:"xaxis"`
	YAxis PlotlyAxis        `json:"yaxis"`
}

// Figure builds the Plotly data and layout for candles
func (r *HTMLRenderer) Figure(symbol string, candles []model.Candle) ([]PlotlyTrace, PlotlyLayout) {
	x := make([]string, len(candles))
	open := make([]float64, len(candles))
	high := make([]float64, len(candles))
	low := make([]float64, len(candles))
	closes := make([]float64, len(candles))
	for i, c := range candles {
		x[i] = c.OpenTime.UTC().Format(time.RFC3339)
		open[i], high[i], low[i], closes[i] = c.Open, c.High, c.Low, c.Close
	}

	traces := []PlotlyTrace{{
		Type:  "candlestick",
		Name:  symbol,
		X:     x,
		Open:  open,
		High:  high,
		Low:   low,
		Close: closes,
	}}

	series := calculate.MovingAverages(candles, r.windows()...)
	windows := make([]int, 0, len(series))
	for w := range series {
		windows = append(windows, w)
	}
	sort.Ints(windows)

	for i, w := range windows {
		traces = append(traces, PlotlyTrace{
			Type: "scatter",
			Mode: "lines",
			Name: fmt.Sprintf("MA%d", w),
			X:    x,
			Y:    nullable(series[w]),
			Line: map[string]string{"color": overlayColor(i)},
		})
	}

	layout := PlotlyLayout{
		Title: map[string]string{"text": r.Title(symbol)},
		XAxis: PlotlyAxis{Title: map[string]string{"text": "Time"}},
		YAxis: PlotlyAxis{Title: map[string]string{"text": "Price"}},
	}
	return traces, layout
}

var pageTemplate = template.Must(template.New("chart").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.Script}}"></script>
</head>
<body>
<div id="chart" style="width:100%;height:90vh;"></div>
<script>
Plotly.newPlot("chart", {{.Data}}, {{.Layout}});
</script>
</body>
</html>
`))

// Render writes the HTML page for symbol
func (r *HTMLRenderer) Render(symbol string, candles []model.Candle, out io.Writer) error {
	if err := checkCandles(candles); err != nil {
		return err
	}

	traces, layout := r.Figure(symbol, candles)
	data, err := json.Marshal(traces)
	if err != nil {
		return fmt.Errorf("encoding traces: %w", err)
	}
	layoutJSON, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("encoding layout: %w", err)
	}

	return pageTemplate.Execute(out, struct {
		Title  string
		Script string
		Data   template.JS
		Layout template.JS
	}{
		Title:  r.Title(symbol),
		Script: PlotlyCDN,
		Data:   template.JS(data),
		Layout: template.JS(layoutJSON),
	})
}
