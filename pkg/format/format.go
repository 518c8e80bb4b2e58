// Package format holds display formatting helpers for prices and weights.
// These are presentation-only: cart totals are always computed from the raw
// integer Rupiah amounts, never from formatted strings.
package format

import (
	"strconv"
	"strings"
)

// Rupiah formats an amount in whole Indonesian Rupiah as "Rp15.300".
// IDR has no decimal subdivision, so the amount is taken as-is and grouped
// with dots per Indonesian convention.
func Rupiah(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString("Rp")

	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte('.')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte('.')
		}
	}

	return b.String()
}

// Weight formats a numeric weight with its unit abbreviation, e.g.
// Weight(500, "gr") -> "500 gr" and Weight(1.5, "kg") -> "1,5 kg".
// Trailing zeros after the decimal comma are trimmed.
func Weight(value float64, unit string) string {
	s := strconv.FormatFloat(value, 'f', -1, 64)
	// Indonesian locale uses a comma as the decimal separator.
	s = strings.Replace(s, ".", ",", 1)
	if unit == "" {
		return s
	}
	return s + " " + unit
}

// Grams formats a weight given in grams, switching to kilograms at 1000 g.
func Grams(grams int) string {
	if grams >= 1000 {
		return Weight(float64(grams)/1000, "kg")
	}
	return Weight(float64(grams), "gr")
}

// DiscountLabel renders a discount percentage badge, e.g. "-15%".
// Returns the empty string for non-positive percentages.
func DiscountLabel(percent int) string {
	if percent <= 0 {
		return ""
	}
	return "-" + strconv.Itoa(percent) + "%"
}
