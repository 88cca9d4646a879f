package pricing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/hypeprice/price-service/internal/listing"
)

// DiscountInfo is best-effort discount evidence for one listing.
// All fields may be empty; gathering evidence never fails.
type DiscountInfo struct {
	// DisplayText is a human-readable discount label, either derived
	// ("23% off") or the merchant's own wording verbatim.
	DisplayText string
	// Percent is the integer discount percentage, 0 when not derivable.
	Percent int
	// StrikeTWD is the advertised pre-discount price in TWD, 0 when absent.
	StrikeTWD int
}

// Matches "30%" and the full-width "30％" merchants in some regions use.
var percentRe = regexp.MustCompile(`([0-9]{1,3})\s?%|([0-9]{1,3})\s?％`)

// DetectDiscount looks for an advertised strike price or discount label on
// a raw listing. currentTWD is the listing's already-computed base price.
//
// Strike price wins over free-text labels: a strike strictly above the
// current price yields a computed percentage; otherwise the first free-text
// discount field is used, with a percentage extracted when one is present.
func (p *Parser) DetectDiscount(raw listing.Raw, currentTWD int) DiscountInfo {
	var info DiscountInfo

	for _, key := range listing.StrikeFields {
		val := raw.FirstString(key)
		if val == "" {
			continue
		}
		info.StrikeTWD = p.ParseListing(val, raw).PriceTWD
		break
	}

	if info.StrikeTWD > 0 && info.StrikeTWD > currentTWD {
		pct := int(math.Round(float64(info.StrikeTWD-currentTWD) / float64(info.StrikeTWD) * 100))
		info.Percent = pct
		info.DisplayText = fmt.Sprintf("%d%% off", pct)
		return info
	}

	for _, key := range listing.DiscountFields {
		val := raw.FirstString(key)
		if val == "" {
			continue
		}
		if m := percentRe.FindStringSubmatch(val); m != nil {
			digits := m[1]
			if digits == "" {
				digits = m[2]
			}
			pct, _ := strconv.Atoi(digits)
			info.Percent = pct
			info.DisplayText = fmt.Sprintf("%d%% off", pct)
		} else {
			info.DisplayText = val
		}
		break
	}

	return info
}
