// Package currency converts foreign price amounts into integer TWD and
// estimates the all-in landed cost (price + shipping + import tax).
package currency

import "math"

// Code is a supported currency code.
type Code string

const (
	TWD Code = "TWD"
	GBP Code = "GBP"
	EUR Code = "EUR"
	JPY Code = "JPY"
	USD Code = "USD"
)

// Rates is an immutable TWD conversion table. It is built once at startup
// and passed explicitly so tests can substitute alternate tables.
type Rates struct {
	table           map[Code]float64
	DefaultShipping int
	ImportTaxRate   float64
}

// DefaultRates returns the fixed conversion table. Rates are intentionally
// static: there is no live FX dependency, so accuracy degrades over time.
func DefaultRates() Rates {
	return Rates{
		table: map[Code]float64{
			GBP: 41.5,
			EUR: 34.0,
			JPY: 0.21,
			USD: 32.5,
			TWD: 1.0,
		},
		DefaultShipping: 800,
		ImportTaxRate:   0.17,
	}
}

// Rate returns the TWD multiplier for a currency. Unknown codes fall back
// to the USD rate rather than erroring.
func (r Rates) Rate(code Code) float64 {
	if rate, ok := r.table[code]; ok {
		return rate
	}
	return r.table[USD]
}

// ToTWD converts an amount in the given currency to integer TWD,
// rounded to the nearest unit.
func (r Rates) ToTWD(amount float64, code Code) int {
	return int(math.Round(amount * r.Rate(code)))
}

// Breakdown is a landed-cost estimate in integer TWD.
type Breakdown struct {
	PriceTWD    int `json:"price_twd"`
	ShippingTWD int `json:"shipping_twd"`
	TaxTWD      int `json:"tax_twd"`
	FinalTWD    int `json:"final_price_twd"`
}

// LandedCost estimates the total cost to the buyer. Import tax is charged
// on price plus shipping. shippingTWD < 0 selects the default flat rate.
func (r Rates) LandedCost(amount float64, code Code, shippingTWD int) Breakdown {
	price := r.ToTWD(amount, code)
	shipping := shippingTWD
	if shipping < 0 {
		shipping = r.DefaultShipping
	}
	tax := int(math.Round(float64(price+shipping) * r.ImportTaxRate))
	return Breakdown{
		PriceTWD:    price,
		ShippingTWD: shipping,
		TaxTWD:      tax,
		FinalTWD:    price + shipping + tax,
	}
}

// LandedCostTWD is LandedCost for an amount already expressed in TWD.
func (r Rates) LandedCostTWD(priceTWD int, shippingTWD int) Breakdown {
	return r.LandedCost(float64(priceTWD), TWD, shippingTWD)
}
