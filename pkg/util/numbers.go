package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// ParseAbbreviatedNumber parses human-formatted quantities as found in
// scraped tables: "1,234.5", "$2.3b", "(45.2m)" (accounting negative),
// "+12.5%", "331,200 BTC". Returns false for empty, "-", or anything
// that does not reduce to a number.
func ParseAbbreviatedNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false
	}

	negative := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	cleaned := strings.Trim(s, "()")
	for _, junk := range []string{",", "$", "+", "%", "BTC", "ETH", "SOL"} {
		cleaned = strings.ReplaceAll(cleaned, junk, "")
	}
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, false
	}

	multiplier := 1.0
	switch suffix := cleaned[len(cleaned)-1]; suffix {
	case 'm', 'M':
		multiplier = 1e6
		cleaned = cleaned[:len(cleaned)-1]
	case 'b', 'B':
		multiplier = 1e9
		cleaned = cleaned[:len(cleaned)-1]
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil {
		return 0, false
	}

	n *= multiplier
	if negative {
		n = -n
	}
	return n, true
}

// FormatQuantity renders a holdings count with thousands separators.
// Whole numbers get no decimals, fractional ones keep two.
func FormatQuantity(v float64) string {
	if v == float64(int64(v)) {
		return humanize.Comma(int64(v))
	}
	return humanize.CommafWithDigits(v, 2)
}

// FormatUSD renders a large dollar amount with a magnitude suffix.
func FormatUSD(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	default:
		return "$" + humanize.CommafWithDigits(v, 2)
	}
}
