package service

import (
	"fmt"
	"math"
	"strconv"

	"hype_signal/internal/models"
	hl "hype_signal/internal/modules/hyperliquid/service"

	"github.com/shopspring/decimal"
)

var bpsDenominator = decimal.NewFromInt(10_000)

type OrderPlan struct {
	LimitPrice string
	Size       string
	SizeValue  float64
}

// SizeOrder лимит = ask * (1 + bps/10000), размер = notional / лимит, оба по точности рынка.
func SizeOrder(bestAsk, slippageBps, notionalUSD float64, m models.MarketMetadata) (OrderPlan, error) {
	// decimal.NewFromFloat паникует на NaN/Inf
	if !finite(bestAsk) || bestAsk <= 0 {
		return OrderPlan{}, fmt.Errorf("%w: ask %v for %s", ErrNoOrderBook, bestAsk, m.Symbol)
	}
	if !finite(slippageBps) || !finite(notionalUSD) || notionalUSD <= 0 {
		return OrderPlan{}, fmt.Errorf("%w: slippage %v notional %v", ErrInvalidNotional, slippageBps, notionalUSD)
	}
	ask := decimal.NewFromFloat(bestAsk)
	raw := ask.Mul(decimal.NewFromFloat(slippageBps).Add(bpsDenominator)).Div(bpsDenominator)

	limit, err := hl.FormatPrice(raw, m.SizeDecimals, !m.IsSpot)
	if err != nil {
		return OrderPlan{}, fmt.Errorf("%w: limit price for %s: %v", ErrBelowLotSize, m.Symbol, err)
	}

	size := hl.FormatSize(decimal.NewFromFloat(notionalUSD).Div(decimal.RequireFromString(limit)), m.SizeDecimals)
	value, err := strconv.ParseFloat(size, 64)
	if err != nil || value <= 0 || math.IsInf(value, 0) || math.IsNaN(value) {
		return OrderPlan{}, fmt.Errorf("%w: trade size (%s) for %s", ErrBelowLotSize, size, m.Symbol)
	}

	return OrderPlan{LimitPrice: limit, Size: size, SizeValue: value}, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
