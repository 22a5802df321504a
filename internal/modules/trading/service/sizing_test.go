package service

import (
	"math"
	"testing"

	"hype_signal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeOrder(t *testing.T) {
	plan, err := SizeOrder(100, 50, 30, models.MarketMetadata{Symbol: "ETH", SizeDecimals: 4})
	require.NoError(t, err)
	assert.Equal(t, "100.5", plan.LimitPrice)
	assert.Equal(t, "0.2985", plan.Size)
	assert.Equal(t, 0.2985, plan.SizeValue)
}

func TestSizeOrder_Spot(t *testing.T) {
	// spot: 8 - 2 = 6 знаков, затем 5 значащих
	plan, err := SizeOrder(0.123456, 0, 10, models.MarketMetadata{Symbol: "X/USDC", SizeDecimals: 2, IsSpot: true})
	require.NoError(t, err)
	assert.Equal(t, "0.12345", plan.LimitPrice)
	assert.Equal(t, "81", plan.Size)
}

func TestSizeOrder_BelowLot(t *testing.T) {
	_, err := SizeOrder(2500, 50, 30, models.MarketMetadata{Symbol: "ETH", SizeDecimals: 0})
	require.ErrorIs(t, err, ErrBelowLotSize)
}

func TestSizeOrder_BadInputsReturnErrors(t *testing.T) {
	m := models.MarketMetadata{Symbol: "ETH", SizeDecimals: 4}
	for _, ask := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := SizeOrder(ask, 50, 30, m)
		assert.ErrorIs(t, err, ErrNoOrderBook, "ask=%v", ask)
	}

	_, err := SizeOrder(100, math.NaN(), 30, m)
	assert.ErrorIs(t, err, ErrInvalidNotional)
	_, err = SizeOrder(100, 50, math.Inf(1), m)
	assert.ErrorIs(t, err, ErrInvalidNotional)

	// скольжение -100% дает нулевую цену
	_, err = SizeOrder(100, -10000, 30, m)
	assert.ErrorIs(t, err, ErrBelowLotSize)
}
