package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"hype_signal/internal/models"
	"hype_signal/pkg/logger"

	"github.com/google/uuid"
)

var mockPrices = map[string]float64{
	"ETH":   2500,
	"SOL":   100,
	"ADA":   0.45,
	"DOT":   7.2,
	"LINK":  15,
	"UNI":   6.5,
	"AAVE":  95,
	"MATIC": 0.85,
	"AVAX":  37,
	"EIGEN": 3.85,
	"ENA":   0.92,
	"BTC":   60000,
}

func mockPrice(symbol string) float64 {
	if p, ok := mockPrices[symbol]; ok {
		return p
	}
	return 1
}

// simulate исполняет сделку локально по таблице цен, без обращений к бирже.
func (e *Executor) simulate(ctx context.Context, req TradeRequest, symbol string, maxNotional float64) (Result, error) {
	price := mockPrice(symbol)
	notional := math.Min(1, maxNotional)
	amount := notional / price

	pos := models.TradingPosition{
		ID:              uuid.NewString(),
		Token:           symbol,
		Amount:          amount,
		PurchasePrice:   price,
		PurchaseTime:    e.now(),
		Tweet:           req.Post,
		Influencer:      req.Influencer,
		ProfileImageURL: req.ProfileImageURL,
		Status:          models.PositionHolding,
	}
	if err := e.persist(ctx, req.PostID, pos); err != nil {
		return Result{}, err
	}

	label := fmt.Sprintf("%.6f %s (simulated)", amount, symbol)
	logger.Info("[TRADE_EXEC] 🧪 simulated buy %s @ %.4f from @%s", label, price, req.Influencer)

	return Result{
		Outcome:  OutcomeSimulated,
		Symbol:   symbol,
		Position: &pos,
		notice: fmt.Sprintf("🧪 Simulated Hyperliquid buy\nToken: %s\nAmount: %s\nPrice: $%.4f\nAuthor: @%s\nTime: %s",
			symbol, label, price, req.Influencer, pos.PurchaseTime.Format(time.RFC3339)),
	}, nil
}
