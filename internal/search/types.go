package search

import (
	"github.com/hypeprice/price-service/internal/currency"
)

// DefaultRegions is the fan-out set used when the caller supplies none.
var DefaultRegions = []string{"US", "GB", "JP"}

// Item is one priced candidate listing in a search response.
type Item struct {
	Title               string        `json:"title"`
	Retailer            string        `json:"retailer"`
	ImageURL            string        `json:"image_url,omitempty"`
	OriginalPrice       float64       `json:"original_price"`
	OriginalPriceString string        `json:"original_price_string"`
	Currency            currency.Code `json:"currency"`
	AssumedUSD          bool          `json:"assumed_usd"`
	DiscountText        string        `json:"discount_text,omitempty"`
	DiscountPct         int           `json:"discount_pct,omitempty"`
	PriceTWD            int           `json:"price_twd"`
	ShippingTWD         int           `json:"shipping_twd"`
	TaxTWD              int           `json:"tax_twd"`
	FinalPriceTWD       int           `json:"final_price_twd"`
	URL                 string        `json:"url,omitempty"`
	Sizes               []string      `json:"sizes"`
	Weight              string        `json:"weight"`
	Region              string        `json:"region"`
	IsLowest            bool          `json:"is_lowest"`
}

// identityKey distinguishes logically distinct listings: the product URL
// when present, else title, retailer and region combined. Two items
// sharing a key are the same listing seen twice.
func (i Item) identityKey() string {
	if i.URL != "" {
		return i.URL
	}
	return i.Title + "|" + i.Retailer + "|" + i.Region
}

// Result is a full search response. Order is insertion order, stable for
// identical inputs.
type Result struct {
	Query   string `json:"query"`
	Results []Item `json:"results"`
}
