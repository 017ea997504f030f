package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAbbreviatedNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,234.5", 1234.5, true},
		{"$2.3b", 2.3e9, true},
		{"(45.2m)", -45.2e6, true},
		{"+12.5%", 12.5, true},
		{"331,200 BTC", 331200, true},
		{"205.0", 205, true},
		{"-", 0, false},
		{"", 0, false},
		{"n/a", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseAbbreviatedNumber(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-9, "input %q", tc.in)
		}
	}
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "331,200", FormatQuantity(331200))
	assert.Equal(t, "1,234.57", FormatQuantity(1234.567))
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$2.10T", FormatUSD(2.1e12))
	assert.Equal(t, "$5.25B", FormatUSD(5.25e9))
	assert.Equal(t, "$42.00M", FormatUSD(42e6))
	assert.Equal(t, "$950", FormatUSD(950))
}
