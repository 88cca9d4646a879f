package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hypeprice/price-service/internal/currency"
	"github.com/hypeprice/price-service/internal/scraper"
	"github.com/hypeprice/price-service/internal/search"
	"github.com/hypeprice/price-service/internal/upstream"
)

var (
	searchRegions []string
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search regional markets for a product and compare landed costs",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchRegions, "regions", nil, "region codes to search (default US,GB,JP)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "emit the raw JSON result")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		return fmt.Errorf("config required for search command but not loaded")
	}

	opts := []upstream.Option{
		upstream.WithTimeout(cfg.Upstream.Timeout),
		upstream.WithRateLimit(cfg.Upstream.RequestsPerSecond, cfg.Upstream.Burst),
	}
	if cfg.Upstream.BaseURL != "" {
		opts = append(opts, upstream.WithBaseURL(cfg.Upstream.BaseURL))
	}
	provider := upstream.NewClient(cfg.Upstream.APIKey, *logger, opts...)

	var fallback search.FallbackSource
	if cfg.Scraper.Enabled {
		fallback = scraper.New(*logger, cfg.Scraper.BaseURL)
	}

	svc := search.NewService(provider, fallback, currency.DefaultRates(), cfg.Cache.TTL, *logger,
		search.WithDefaultRegions(cfg.Upstream.DefaultRegions))

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	result, err := svc.Search(ctx, args[0], searchRegions)
	if err != nil {
		return err
	}

	if searchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("Results for %q (%d items)\n\n", result.Query, len(result.Results))
	for _, item := range result.Results {
		marker := "  "
		if item.IsLowest {
			marker = "* "
		}
		fmt.Printf("%s%-40s %-16s %s  final NT$%d", marker, item.Title, item.Retailer, item.OriginalPriceString, item.FinalPriceTWD)
		if item.DiscountText != "" {
			fmt.Printf("  (%s)", item.DiscountText)
		}
		fmt.Println()
	}
	if len(result.Results) > 0 {
		fmt.Println("\n* = lowest landed cost")
	}
	return nil
}
