package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hypeprice/price-service/internal/currency"
	"github.com/hypeprice/price-service/internal/listing"
)

func newTestParser() *Parser {
	return NewParser(currency.DefaultRates())
}

func TestParseExplicitCurrencies(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name     string
		text     string
		amount   float64
		code     currency.Code
		assumed  bool
		priceTWD int
	}{
		{"NT$ prefix", "NT$ 1200", 1200, currency.TWD, false, 1200},
		{"NT$ no space", "NT$1,299", 1299, currency.TWD, false, 1299},
		{"TWD word", "1500 TWD", 1500, currency.TWD, false, 1500},
		{"twd lowercase", "1500 twd", 1500, currency.TWD, false, 1500},
		{"NT standalone word", "NT 999", 999, currency.TWD, false, 999},
		{"HK$ treated as TWD", "HK$ 450", 450, currency.TWD, false, 450},
		{"Pound symbol", "£280", 280, currency.GBP, false, 11620},
		{"GBP word", "280 GBP", 280, currency.GBP, false, 11620},
		{"Euro symbol", "€100", 100, currency.EUR, false, 3400},
		{"EUR word", "eur 50", 50, currency.EUR, false, 1700},
		{"Yen symbol", "¥40,000", 40000, currency.JPY, false, 8400},
		{"JPY word", "40000 JPY", 40000, currency.JPY, false, 8400},
		{"US$ explicit", "US$ 50", 50, currency.USD, false, 1625},
		{"USD word", "50 USD", 50, currency.USD, false, 1625},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(tt.text, nil)
			assert.Equal(t, tt.amount, got.Amount)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.assumed, got.AssumedUSD)
			assert.Equal(t, tt.priceTWD, got.PriceTWD)
		})
	}
}

func TestParseBareDollar(t *testing.T) {
	p := newTestParser()

	got := p.Parse("$100", nil)
	assert.Equal(t, 100.0, got.Amount)
	assert.Equal(t, currency.USD, got.Code)
	assert.True(t, got.AssumedUSD)
	assert.Equal(t, 3250, got.PriceTWD)

	// Comma grouping and decimals still count as a clean "$amount" string.
	got = p.Parse("$1,299.50", nil)
	assert.Equal(t, 1299.5, got.Amount)
	assert.True(t, got.AssumedUSD)
	assert.Equal(t, 42234, got.PriceTWD)
}

func TestParseBareDollarWithTWDHints(t *testing.T) {
	p := newTestParser()

	// "$1,200 free shipping" is not a clean "$amount" string, so the
	// listing context decides: TWD evidence wins over the USD default.
	got := p.Parse("$1,200 free shipping", []string{"ships from NT warehouse NT$"})
	assert.Equal(t, currency.TWD, got.Code)
	assert.False(t, got.AssumedUSD)
	assert.Equal(t, 1200, got.PriceTWD)

	// Without TWD evidence the same string defaults to assumed USD.
	got = p.Parse("$1,200 free shipping", []string{"ships worldwide"})
	assert.Equal(t, currency.USD, got.Code)
	assert.True(t, got.AssumedUSD)
}

func TestParseHKDollarHintIsNotTWDEvidence(t *testing.T) {
	p := newTestParser()

	// HK$ in the price text itself maps to TWD, but HK$ in a sibling
	// field is not taken as evidence about the price field.
	got := p.Parse("$100 sale", []string{"ships from HK$ store"})
	assert.Equal(t, currency.USD, got.Code)
	assert.True(t, got.AssumedUSD)
	assert.Equal(t, 3250, got.PriceTWD)

	got = p.Parse("100", []string{"HK$ outlet"})
	assert.Equal(t, currency.USD, got.Code)
	assert.True(t, got.AssumedUSD)
}

func TestParseBareDollarExactFormBypassesHints(t *testing.T) {
	p := newTestParser()

	// A clean "$amount" string is resolved before hints are consulted.
	got := p.Parse("$100", []string{"NT$ store"})
	assert.Equal(t, currency.USD, got.Code)
	assert.True(t, got.AssumedUSD)
}

func TestParseNoSymbolHintFallbacks(t *testing.T) {
	p := newTestParser()

	got := p.Parse("1200", []string{"NT$ 1,200 at checkout"})
	assert.Equal(t, currency.TWD, got.Code)
	assert.False(t, got.AssumedUSD)
	assert.Equal(t, 1200, got.PriceTWD)

	got = p.Parse("50", []string{"price in USD"})
	assert.Equal(t, currency.USD, got.Code)
	assert.False(t, got.AssumedUSD)
	assert.Equal(t, 1625, got.PriceTWD)

	got = p.Parse("75", nil)
	assert.Equal(t, currency.USD, got.Code)
	assert.True(t, got.AssumedUSD)
	assert.Equal(t, 2438, got.PriceTWD)
}

func TestParseRuleOrdering(t *testing.T) {
	p := newTestParser()

	// Explicit TWD evidence in the text beats the bare "$".
	got := p.Parse("NT$ 1200 (about $40)", nil)
	assert.Equal(t, currency.TWD, got.Code)
	assert.Equal(t, 1200, got.PriceTWD)

	// GBP is checked before the bare "$" branch.
	got = p.Parse("£280 ($350)", nil)
	assert.Equal(t, currency.GBP, got.Code)
	assert.Equal(t, 11620, got.PriceTWD)
}

func TestParseTotality(t *testing.T) {
	p := newTestParser()

	for _, text := range []string{"", "   ", "call for price", "$", "NT$", "£ TBD"} {
		got := p.Parse(text, nil)
		assert.Equal(t, 0.0, got.Amount, "input %q", text)
		assert.Equal(t, 0, got.PriceTWD, "input %q", text)
		assert.GreaterOrEqual(t, got.PriceTWD, 0)
	}
}

func TestParseDeterministicAcrossHintOrder(t *testing.T) {
	p := newTestParser()

	raw := listing.Raw{
		"title":  "Jacket",
		"source": "local shop NT$",
		"link":   "https://example.tw/p/1",
	}
	first := p.ParseListing("$990 only", raw)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, p.ParseListing("$990 only", raw))
	}
}

func TestExtractNumber(t *testing.T) {
	tests := []struct {
		text     string
		expected float64
	}{
		{"NT$ 1200", 1200},
		{"$1,299.00", 1299},
		{"1,234,567.89 total", 1234567.89},
		{"about 99.5 each", 99.5},
		{"no digits here", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractNumber(tt.text))
		})
	}
}
