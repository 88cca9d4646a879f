// Package pricing turns arbitrary upstream price strings into integer TWD.
// The parser is total (malformed input never errors) and deterministic;
// every guess it makes is flagged in the result.
package pricing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hypeprice/price-service/internal/currency"
	"github.com/hypeprice/price-service/internal/listing"
)

// ParsedPrice is the outcome of parsing one price string.
type ParsedPrice struct {
	Amount float64
	Code   currency.Code
	// AssumedUSD is set when no explicit symbol or code identified the
	// currency and USD was substituted. Callers must surface this to the
	// user rather than treat the default as definitive.
	AssumedUSD bool
	PriceTWD   int
}

var (
	twdRe = regexp.MustCompile(`(?i)(NT\$|\bNT\b|\bTWD\b|HK\$)`)
	// twdHintRe is narrower than twdRe: HK$ in a price string is priced in
	// TWD-equivalent by the upstream, but HK$ in a sibling field says
	// nothing about the price field's currency.
	twdHintRe = regexp.MustCompile(`(?i)(NT\$|\bNT\b|\bTWD\b)`)
	gbpRe     = regexp.MustCompile(`(?i)(£|\bGBP\b)`)
	eurRe     = regexp.MustCompile(`(?i)(€|\bEUR\b)`)
	jpyRe     = regexp.MustCompile(`(?i)(¥|\bJPY\b)`)
	usdRe     = regexp.MustCompile(`(?i)(US\$|\bUSD\b)`)
	bareUSDRe = regexp.MustCompile(`^\$\s*[0-9,]+(?:\.[0-9]+)?$`)
	numberRe  = regexp.MustCompile(`[0-9]{1,3}(?:,[0-9]{3})+(?:\.[0-9]+)?|[0-9]+(?:\.[0-9]+)?`)
)

// Parser resolves price strings against a fixed rate table.
type Parser struct {
	rates currency.Rates
}

func NewParser(rates currency.Rates) *Parser {
	return &Parser{rates: rates}
}

// Parse derives (amount, currency, assumed flag, integer TWD) from a price
// string. hints is an optional side channel: the string-valued fields of
// the listing the price came from, consulted only when the text itself is
// ambiguous.
//
// The rule chain is ordered: explicit symbols and codes first, then the
// ambiguous bare "$", then contextual hints, then the unconditional USD
// default. Reordering changes output for strings carrying multiple cues.
func (p *Parser) Parse(text string, hints []string) ParsedPrice {
	text = strings.TrimSpace(text)

	if twdRe.MatchString(text) {
		return p.resolve(text, currency.TWD, false)
	}
	if gbpRe.MatchString(text) {
		return p.resolve(text, currency.GBP, false)
	}
	if eurRe.MatchString(text) {
		return p.resolve(text, currency.EUR, false)
	}
	if jpyRe.MatchString(text) {
		return p.resolve(text, currency.JPY, false)
	}
	if usdRe.MatchString(text) {
		return p.resolve(text, currency.USD, false)
	}

	if strings.Contains(text, "$") {
		// "$123" with nothing else is taken as USD, flagged as a guess.
		if bareUSDRe.MatchString(text) {
			return p.resolve(text, currency.USD, true)
		}
		if containsTWDEvidence(hints) {
			return p.resolve(text, currency.TWD, false)
		}
		return p.resolve(text, currency.USD, true)
	}

	// No symbol or code in the text at all: fall back to listing context.
	if containsTWDEvidence(hints) {
		return p.resolve(text, currency.TWD, false)
	}
	if containsUSDEvidence(hints) {
		return p.resolve(text, currency.USD, false)
	}

	return p.resolve(text, currency.USD, true)
}

// ParseListing parses a price string using the listing it came from as
// the hint side channel.
func (p *Parser) ParseListing(text string, raw listing.Raw) ParsedPrice {
	return p.Parse(text, raw.StringValues())
}

func (p *Parser) resolve(text string, code currency.Code, assumed bool) ParsedPrice {
	amount := ExtractNumber(text)
	return ParsedPrice{
		Amount:     amount,
		Code:       code,
		AssumedUSD: assumed,
		PriceTWD:   p.rates.ToTWD(amount, code),
	}
}

func containsTWDEvidence(hints []string) bool {
	for _, h := range hints {
		if twdHintRe.MatchString(h) {
			return true
		}
	}
	return false
}

func containsUSDEvidence(hints []string) bool {
	for _, h := range hints {
		if usdRe.MatchString(h) {
			return true
		}
	}
	return false
}

// ExtractNumber pulls the first grouped-thousands or plain decimal number
// out of a string. Returns 0 when no number is present, keeping the
// parser total.
func ExtractNumber(text string) float64 {
	match := numberRe.FindString(text)
	if match == "" {
		return 0
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0
	}
	return value
}
