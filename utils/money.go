package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round2 rounds an amount to cents, half away from zero
func Round2(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// ToFloat converts a cent-rounded decimal to the float64 used on the wire
func ToFloat(amount decimal.Decimal) float64 {
	return Round2(amount).InexactFloat64()
}

// FormatUSD formats an amount as a string like "$1,234.50".
// Uses comma as thousands separator and always two decimals.
func FormatUSD(amount float64) string {
	d := Round2(decimal.NewFromFloat(amount))
	neg := d.IsNegative()
	if neg {
		d = d.Neg()
	}

	s := d.StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	// Pre-allocate: digits + separators + sign + $ + cents
	b.Grow(len(whole) + len(whole)/3 + 5)
	if neg {
		b.WriteString("-$")
	} else {
		b.WriteString("$")
	}

	// Insert separators from the left.
	rem := len(whole) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(whole[:rem])
	for i := rem; i < len(whole); i += 3 {
		b.WriteByte(',')
		b.WriteString(whole[i : i+3])
	}
	b.WriteByte('.')
	b.WriteString(frac)

	return b.String()
}
