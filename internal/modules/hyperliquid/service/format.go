package service

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	maxPriceSigFigs = 5
	maxPerpDecimals = 6
	maxSpotDecimals = 8
)

var errPriceTooSmall = errors.New("price is too small and was truncated to 0")

// FormatPrice цена по правилам биржи: целые без изменений, иначе не больше
// (6|8 - szDecimals) знаков после точки и не больше 5 значащих цифр.
func FormatPrice(price decimal.Decimal, szDecimals int, isPerp bool) (string, error) {
	if !price.IsPositive() {
		return "", errPriceTooSmall
	}
	if price.IsInteger() {
		return price.String(), nil
	}

	maxDecimals := maxSpotDecimals
	if isPerp {
		maxDecimals = maxPerpDecimals
	}
	maxDecimals -= szDecimals
	if maxDecimals < 0 {
		maxDecimals = 0
	}

	p := truncateSigFigs(price.Truncate(int32(maxDecimals)), maxPriceSigFigs)
	if p.IsZero() {
		return "", errPriceTooSmall
	}
	return p.String(), nil
}

// FormatSize отбрасывает лишние знаки после szDecimals. Может вернуть "0".
func FormatSize(size decimal.Decimal, szDecimals int) string {
	return size.Truncate(int32(szDecimals)).String()
}

func truncateSigFigs(d decimal.Decimal, figs int) decimal.Decimal {
	if d.IsZero() {
		return d
	}
	abs := d.Abs()
	one := decimal.NewFromInt(1)

	if abs.GreaterThanOrEqual(one) {
		intDigits := len(abs.Truncate(0).String())
		if intDigits >= figs {
			return d.Truncate(0)
		}
		return d.Truncate(int32(figs - intDigits))
	}

	// первая значащая цифра на позиции lead после точки
	lead := 0
	for x := abs; x.LessThan(one); x = x.Shift(1) {
		lead++
	}
	return d.Truncate(int32(lead - 1 + figs))
}
