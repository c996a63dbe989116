package chart

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/Alias1177/riskscan/internal/calculate"
	"github.com/Alias1177/riskscan/internal/model"
	"github.com/xuri/excelize/v2"
)

// DataSheet is the worksheet holding candle rows
const DataSheet = "Candles"

// XLSXRenderer writes a workbook with candle data and a Close/MA line chart
type XLSXRenderer struct {
	Options
}

func (r *XLSXRenderer) Extension() string { return "xlsx" }

// Render writes the workbook for symbol
func (r *XLSXRenderer) Render(symbol string, candles []model.Candle, out io.Writer) error {
	if err := checkCandles(candles); err != nil {
		return err
	}

	fx := excelize.NewFile()
	defer fx.Close()

	fx.SetSheetName(fx.GetSheetName(0), DataSheet)

	series := calculate.MovingAverages(candles, r.windows()...)
	windows := make([]int, 0, len(series))
	for w := range series {
		windows = append(windows, w)
	}
	sort.Ints(windows)

	headers := []interface{}{"Time", "Open", "High", "Low", "Close", "Volume"}
	for _, w := range windows {
		headers = append(headers, fmt.Sprintf("MA%d", w))
	}
	if err := fx.SetSheetRow(DataSheet, "A1", &headers); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	headStyle, err := fx.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := fx.SetCellStyle(DataSheet, "A1", lastHeader, headStyle); err != nil {
		return err
	}

	for i, c := range candles {
		row := i + 2
		values := []interface{}{c.OpenTime.UTC().Format("2006-01-02 15:04"), c.Open, c.High, c.Low, c.Close, c.Volume}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := fx.SetCellValue(DataSheet, cell, v); err != nil {
				return fmt.Errorf("writing %s: %w", cell, err)
			}
		}
		// Warm-up points stay empty so the chart shows a gap
		for j, w := range windows {
			v := series[w][i]
			if math.IsNaN(v) {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(len(values)+j+1, row)
			if err := fx.SetCellValue(DataSheet, cell, v); err != nil {
				return fmt.Errorf("writing %s: %w", cell, err)
			}
		}
	}

	lastRow := len(candles) + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", DataSheet, lastRow)
	chartSeries := []excelize.ChartSeries{lineSeries("E", categories, lastRow)}
	for j := range windows {
		col, _ := excelize.ColumnNumberToName(7 + j)
		chartSeries = append(chartSeries, lineSeries(col, categories, lastRow))
	}

	anchor, _ := excelize.CoordinatesToCellName(len(headers)+2, 2)
	if err := fx.AddChart(DataSheet, anchor, &excelize.Chart{
		Type:      excelize.Line,
		Series:    chartSeries,
		Title:     []excelize.RichTextRun{{Text: r.Title(symbol)}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: 960, Height: 480},
	}); err != nil {
		return fmt.Errorf("adding chart: %w", err)
	}

	return fx.Write(out)
}

func lineSeries(col, categories string, lastRow int) excelize.ChartSeries {
	return excelize.ChartSeries{
		Name:       fmt.Sprintf("%s!$%s$1", DataSheet, col),
		Categories: categories,
		Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", DataSheet, col, col, lastRow),
		Marker:     excelize.ChartMarker{Symbol: "none"},
	}
}
