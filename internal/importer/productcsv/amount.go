package productcsv

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parsePrice accepts "12500", "12.500", "12,500.50", "12.500,50", "Rp 12.500" and "4,5".
// With both separators present the last one is the decimal mark. A lone
// separator followed by exactly three digits is read as a thousands separator.
func parsePrice(s string) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			return r
		}

		return -1
	}, s)

	lastDot := strings.LastIndex(clean, ".")
	lastComma := strings.LastIndex(clean, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case lastComma >= 0:
		clean = singleSeparator(clean, ",")
	case lastDot >= 0:
		clean = singleSeparator(clean, ".")
	}

	return decimal.NewFromString(clean)
}

func singleSeparator(s, sep string) string {
	parts := strings.Split(s, sep)
	last := parts[len(parts)-1]

	if len(parts) > 2 || len(last) == 3 {
		return strings.Join(parts, "")
	}

	return strings.Join(parts, ".")
}
