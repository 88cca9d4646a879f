// Package listing models the loosely-structured records returned by the
// shopping-search upstream. Any field may be absent, and the same concept
// often hides behind several aliases, so access goes through ordered
// first-non-empty lookups instead of typed fields.
package listing

import (
	"fmt"
	"sort"
	"strconv"
)

// Raw is a single untyped listing record as decoded from upstream JSON.
type Raw map[string]any

// Field alias lists, tried in order; first non-empty value wins.
// Keep these explicit per call site rather than probing attributes.
var (
	TitleFields    = []string{"title", "name", "product_title"}
	PriceFields    = []string{"price", "extracted_price", "price_string", "price_text"}
	ImageFields    = []string{"thumbnail", "image", "image_url"}
	LinkFields     = []string{"link", "url", "product_link"}
	MerchantFields = []string{"source", "merchant", "store", "retailer", "seller"}
	StrikeFields   = []string{"strike_price", "original_price", "price_before", "list_price", "before_price", "retail_price"}
	DiscountFields = []string{"discount", "savings", "discount_text", "sale"}
	SizeFields     = []string{"sizes", "available_sizes"}
	WeightFields   = []string{"weight"}
)

// FirstString returns the first non-empty value among the given keys,
// stringified. Numeric JSON values are formatted without an exponent.
func (r Raw) FirstString(keys ...string) string {
	for _, key := range keys {
		if s := stringify(r[key]); s != "" {
			return s
		}
	}
	return ""
}

// Strings returns the value under the first matching key as a string
// slice, accepting both JSON arrays and single strings.
func (r Raw) Strings(keys ...string) []string {
	for _, key := range keys {
		switch v := r[key].(type) {
		case []string:
			if len(v) > 0 {
				return v
			}
		case []any:
			var out []string
			for _, item := range v {
				if s := stringify(item); s != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			if v != "" {
				return []string{v}
			}
		}
	}
	return nil
}

// StringValues returns every string-valued field of the record, in key
// order so callers stay deterministic. Used as a side channel for
// currency inference.
func (r Raw) StringValues() []string {
	keys := make([]string, 0, len(r))
	for key := range r {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var values []string
	for _, key := range keys {
		if s, ok := r[key].(string); ok && s != "" {
			values = append(values, s)
		}
	}
	return values
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
