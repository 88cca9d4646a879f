// Package retailer canonicalizes the inconsistent merchant names returned
// by the shopping upstream into stable display names.
package retailer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Placeholder is returned when the upstream listing carries no merchant
// name at all.
const Placeholder = "Retailer"

// canonical maps normalized merchant keys (lowercased, domain-stripped,
// hyphens folded to spaces) to preferred display names.
var canonical = map[string]string{
	"end.":          "End Clothing",
	"end clothing":  "End Clothing",
	"endclothing":   "End Clothing",
	"end.com":       "End Clothing",
	"ssense":        "SSENSE",
	"ssense.com":    "SSENSE",
	"farfetch":      "Farfetch",
	"farfetch.com":  "Farfetch",
	"mr porter":     "MR PORTER",
	"mrporter.com":  "MR PORTER",
	"zozotown":      "ZOZOTOWN",
	"zozo.jp":       "ZOZOTOWN",
	"rakuten":       "Rakuten",
	"rakuten.co.jp": "Rakuten",
	"amazon":        "Amazon",
	"amazon.com":    "Amazon",
	"amazon.co.jp":  "Amazon",
	"amazon.co.uk":  "Amazon",
}

// Normalize maps a raw merchant name to its canonical display name.
// Unrecognized names pass through trimmed but otherwise untouched; the
// normalizer never invents a name and never downcases on a miss.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Placeholder
	}

	key := strings.ToLower(trimmed)
	key = strings.TrimPrefix(key, "https://")
	key = strings.TrimPrefix(key, "http://")
	if idx := strings.Index(key, "/"); idx >= 0 {
		key = key[:idx]
	}
	key = strings.TrimPrefix(key, "www.")
	key = strings.ReplaceAll(key, "-", " ")
	key = strings.TrimSpace(key)

	if name, ok := canonical[key]; ok {
		return name
	}
	if name, ok := canonical[removeDiacritics(key)]; ok {
		return name
	}
	return trimmed
}

// removeDiacritics strips combining marks so accented merchant names hit
// their plain-ASCII aliases.
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
