// Package mockgen deterministically synthesizes shopping listings so a
// reachable query never produces an empty response when both the provider
// and the fallback scraper come up dry.
package mockgen

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"

	"github.com/hypeprice/price-service/internal/listing"
)

const (
	defaultImage = "https://placehold.co/400x400?text=Product+Image"
	itemCount    = 6
)

type model struct {
	name     string
	price    float64
	currency string
}

// brandModels keys brand keywords to realistic catalog entries. First
// keyword found in the query wins; order is fixed for determinism.
var brandKeywords = []string{"barbour", "carhartt", "ralph"}

var brandModels = map[string][]model{
	"barbour": {
		{"Barbour Bedale", 329.0, "GBP"},
		{"Barbour Ashby", 289.0, "GBP"},
		{"Barbour Beaufort", 349.0, "GBP"},
	},
	"carhartt": {
		{"Carhartt Detroit Jacket", 149.0, "USD"},
		{"Carhartt Duck Active Jacket", 179.0, "USD"},
	},
	"ralph": {
		{"Ralph Lauren Polo Jacket", 299.0, "USD"},
		{"Ralph Lauren Stadium Jacket", 349.0, "USD"},
	},
}

// Generate builds a fixed-size synthetic result set for a query. The same
// query always yields the same listings: catalog entries cycle with
// multiplicative 5% price steps, no randomness.
func Generate(query string) []listing.Raw {
	q := strings.ToLower(query)

	entries := genericModels(query)
	for _, keyword := range brandKeywords {
		if strings.Contains(q, keyword) {
			entries = brandModels[keyword]
			break
		}
	}

	sizes := []string{"S", "M", "L"}
	if strings.Contains(q, "women") {
		sizes = []string{"XS", "S", "M"}
	}

	return lo.Times(itemCount, func(i int) listing.Raw {
		base := entries[i%len(entries)]
		price := math.Round(base.price*(1+float64(i%3)*0.05)*100) / 100
		slug := strings.ToLower(strings.ReplaceAll(base.name, " ", "-"))

		return listing.Raw{
			"title":     base.name,
			"source":    fmt.Sprintf("Mock Retailer %d", i+1),
			"price":     formatPrice(price, base.currency),
			"thumbnail": defaultImage,
			"link":      fmt.Sprintf("https://example.com/%s", slug),
			"sizes":     sizes,
			"weight":    fmt.Sprintf("%.1fkg", 1.0+float64(i%3)*0.2),
		}
	})
}

func genericModels(query string) []model {
	return []model{
		{query + " Classic", 120.0, "USD"},
		{query + " Premium", 199.0, "USD"},
		{query + " Limited", 249.0, "USD"},
		{query + " Reissue", 179.0, "USD"},
	}
}

// formatPrice renders an amount with explicit currency evidence so the
// synthetic listings flow through the same parser as real ones without
// tripping the assumed-USD path.
func formatPrice(amount float64, code string) string {
	switch code {
	case "GBP":
		return fmt.Sprintf("£%.2f", amount)
	case "EUR":
		return fmt.Sprintf("€%.2f", amount)
	case "JPY":
		return fmt.Sprintf("¥%.0f", amount)
	case "TWD":
		return fmt.Sprintf("NT$%.0f", amount)
	default:
		return fmt.Sprintf("US$%.2f", amount)
	}
}
