package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		price  string
		szDec  int
		isPerp bool
		want   string
	}{
		{"100.5", 4, true, "100.5"},
		{"2500", 4, true, "2500"},
		{"123456.789", 0, true, "123456"},
		{"1234.5678", 1, true, "1234.5"},
		{"3.876543", 1, true, "3.8765"},
		{"0.000123456", 0, false, "0.00012345"},
		{"0.000123456", 2, true, "0.0001"},
		{"0.92461", 0, true, "0.92461"},
	}
	for _, c := range cases {
		got, err := FormatPrice(dec(c.price), c.szDec, c.isPerp)
		require.NoError(t, err, c.price)
		assert.Equal(t, c.want, got, c.price)
	}
}

func TestFormatPrice_TooSmall(t *testing.T) {
	_, err := FormatPrice(dec("0.0000001"), 5, true)
	assert.Error(t, err)

	for _, p := range []string{"0", "-5", "-0.5"} {
		_, err := FormatPrice(dec(p), 2, true)
		assert.ErrorIs(t, err, errPriceTooSmall, p)
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0.2985", FormatSize(dec("0.29850746268656"), 4))
	assert.Equal(t, "0.29", FormatSize(dec("0.29850746268656"), 2))
	assert.Equal(t, "0", FormatSize(dec("0.29850746268656"), 0))
	assert.Equal(t, "12", FormatSize(dec("12.999"), 0))
}
