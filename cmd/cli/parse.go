package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hypeprice/price-service/internal/currency"
	"github.com/hypeprice/price-service/internal/pricing"
)

var parseHints []string

var parseCmd = &cobra.Command{
	Use:   "parse <price string>",
	Short: "Run the price-string parser against a single input",
	Long: `Parses one price string through the deterministic currency rule chain
and prints the derived amount, currency, assumed flag and integer TWD
value. Useful for debugging upstream price formats.`,
	Args: cobra.ExactArgs(1),
	Run:  runParse,
}

func init() {
	parseCmd.Flags().StringSliceVar(&parseHints, "hint", nil, "side-channel hint strings (repeatable)")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) {
	parser := pricing.NewParser(currency.DefaultRates())
	parsed := parser.Parse(args[0], parseHints)

	fmt.Printf("input:    %q\n", args[0])
	fmt.Printf("amount:   %g\n", parsed.Amount)
	fmt.Printf("currency: %s\n", parsed.Code)
	fmt.Printf("assumed:  %v\n", parsed.AssumedUSD)
	fmt.Printf("twd:      %d\n", parsed.PriceTWD)
}
