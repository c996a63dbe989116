package main

import (
	"encoding/json"
	"fmt"

	"github.com/Alias1177/riskscan/internal/scanner"
	"github.com/spf13/cobra"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute stop-loss / take-profit for a single price, without network access",
	Long: `Calc applies the selected risk policy to one price.

Examples:
  riskscan calc --price 100
  riskscan calc --price 100 --policy budget --balance 5 --risk 0.3 --reward 0.6 --leverage 125`,
	RunE: runCalc,
}

var (
	calcPrice  float64
	calcSymbol string
	calcJSON   bool
)

func init() {
	rootCmd.AddCommand(calcCmd)

	addPolicyFlags(calcCmd)
	calcCmd.Flags().Float64Var(&calcPrice, "price", 0, "entry price (required)")
	calcCmd.Flags().StringVar(&calcSymbol, "symbol", "PRICE", "label printed with the result")
	calcCmd.Flags().BoolVar(&calcJSON, "json", false, "print the result as JSON")
	_ = calcCmd.MarkFlagRequired("price")
}

func runCalc(cmd *cobra.Command, args []string) error {
	policy, err := resolvePolicy(cmd)
	if err != nil {
		return err
	}

	res, err := policy.Compute(calcPrice)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if calcJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printEntry(out, scanner.Entry{Symbol: calcSymbol, Price: calcPrice, Result: res})
	if res.PositionValue > 0 {
		fmt.Fprintf(out, "Position value: %v, loss per unit: %v, profit per unit: %v\n",
			res.PositionValue, res.LossPerUnit, res.ProfitPerUnit)
	}
	return nil
}
