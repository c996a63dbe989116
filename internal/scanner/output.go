package scanner

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Alias1177/riskscan/internal/trading/risk"
	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteTable renders one row per symbol. Failed symbols keep their row with the error.
func WriteTable(w io.Writer, report *Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("%s / %s policy", strings.ToUpper(string(report.Market)), report.Policy)

	switch report.Policy {
	case risk.KindFixedBudget:
		t.AppendHeader(table.Row{"Symbol", "Price", "Quantity", "Stop Loss", "Take Profit", "Status"})
	default:
		t.AppendHeader(table.Row{"Symbol", "Price", "Stop Loss", "Take Profit", "SL x Leverage", "TP x Leverage", "Status"})
	}

	for _, e := range report.Entries {
		if !e.OK() {
			row := table.Row{e.Symbol, formatPrice(e.Price), "-", "-", "-"}
			if report.Policy != risk.KindFixedBudget {
				row = append(row, "-")
			}
			t.AppendRow(append(row, "error: "+e.Err.Error()))
			continue
		}

		r := e.Result
		switch report.Policy {
		case risk.KindFixedBudget:
			t.AppendRow(table.Row{e.Symbol, formatPrice(e.Price), formatPrice(r.Quantity),
				formatPrice(r.StopLoss), formatPrice(r.TakeProfit), "ok"})
		default:
			t.AppendRow(table.Row{e.Symbol, formatPrice(e.Price), formatPrice(r.StopLoss), formatPrice(r.TakeProfit),
				formatPrice(r.StopLossLeveraged), formatPrice(r.TakeProfitLeveraged), "ok"})
		}
	}

	t.AppendFooter(table.Row{"Total", len(report.Entries), fmt.Sprintf("ok %d", len(report.Succeeded())),
		fmt.Sprintf("failed %d", len(report.Failed()))})
	t.Render()
}

// FormatSummary renders a plain-text summary suitable for chat messages
func FormatSummary(report *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s scan, %s policy: %d ok, %d failed\n",
		strings.ToUpper(string(report.Market)), report.Policy, len(report.Succeeded()), len(report.Failed()))

	for _, e := range report.Entries {
		if !e.OK() {
			fmt.Fprintf(&b, "%s: error: %v\n", e.Symbol, e.Err)
			continue
		}
		r := e.Result
		switch report.Policy {
		case risk.KindFixedBudget:
			fmt.Fprintf(&b, "%s @ %s qty %s SL %s TP %s\n", e.Symbol, formatPrice(e.Price),
				formatPrice(r.Quantity), formatPrice(r.StopLoss), formatPrice(r.TakeProfit))
		default:
			fmt.Fprintf(&b, "%s @ %s SL %s TP %s\n", e.Symbol, formatPrice(e.Price),
				formatPrice(r.StopLoss), formatPrice(r.TakeProfit))
		}
	}
	return b.String()
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
