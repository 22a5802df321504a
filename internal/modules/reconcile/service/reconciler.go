package service

import (
	"context"
	"strings"
	"time"

	"hype_signal/internal/models"
	"hype_signal/pkg/logger"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
)

const syncedInfluencer = "synced"

type HoldingSource interface {
	GetHoldingPositions(ctx context.Context) ([]models.TradingPosition, error)
}

type AccountReader interface {
	Positions(ctx context.Context, address string) ([]models.AccountPosition, error)
}

type PriceSource interface {
	AllMids(ctx context.Context) (map[string]float64, error)
}

// Reconciler сводит локальные позиции с состоянием аккаунта на бирже.
type Reconciler struct {
	store   HoldingSource
	account AccountReader
	prices  PriceSource
	address string
	now     func() time.Time
}

func NewReconciler(store HoldingSource, account AccountReader, prices PriceSource, address string) *Reconciler {
	return &Reconciler{
		store:   store,
		account: account,
		prices:  prices,
		address: address,
		now:     time.Now,
	}
}

// Summary ошибка чтения локального хранилища фатальна, ошибки биржи дают пустой вклад.
func (r *Reconciler) Summary(ctx context.Context) (models.PositionsSummary, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "reconcile.summary")
	defer span.Finish()

	local, err := r.store.GetHoldingPositions(ctx)
	if err != nil {
		return models.PositionsSummary{}, errors.Wrap(err, "read local positions")
	}

	now := r.now()
	out := make([]models.PositionSummary, 0, len(local))
	covered := make(map[string]struct{}, len(local))
	for _, p := range local {
		purchased := p.PurchaseTime
		hours := now.Sub(purchased).Hours()
		token := strings.ToUpper(p.Token)
		covered[token] = struct{}{}
		out = append(out, models.PositionSummary{
			ID:              p.ID,
			Token:           token,
			Influencer:      p.Influencer,
			PurchaseTime:    &purchased,
			Amount:          p.Amount,
			HoursHeld:       &hours,
			ProfileImageURL: p.ProfileImageURL,
			Source:          models.SourceLocal,
		})
	}

	for _, p := range r.remote(ctx) {
		coin := strings.ToUpper(p.Coin)
		if p.Size == 0 {
			continue
		}
		if _, ok := covered[coin]; ok {
			continue
		}
		covered[coin] = struct{}{}
		out = append(out, models.PositionSummary{
			ID:         "hyperliquid-" + coin,
			Token:      coin,
			Influencer: syncedInfluencer,
			Amount:     p.Size,
			Source:     models.SourceSynced,
		})
	}

	mids := r.mids(ctx, len(out))
	total := 0.0
	for i := range out {
		if px, ok := mids[out[i].Token]; ok {
			out[i].MarketPriceUSD = &px
		}
		total += out[i].Amount
	}

	span.SetTag("positions", len(out))
	return models.PositionsSummary{
		TotalPositions: len(out),
		TotalValue:     total,
		Positions:      out,
	}, nil
}

func (r *Reconciler) remote(ctx context.Context) []models.AccountPosition {
	if r.account == nil || r.address == "" {
		return nil
	}
	positions, err := r.account.Positions(ctx, r.address)
	if err != nil {
		logger.Warn("[RECONCILE] account state unavailable: %v", err)
		return nil
	}
	return positions
}

func (r *Reconciler) mids(ctx context.Context, n int) map[string]float64 {
	if r.prices == nil || n == 0 {
		return nil
	}
	mids, err := r.prices.AllMids(ctx)
	if err != nil {
		logger.Warn("[RECONCILE] mid prices unavailable: %v", err)
		return nil
	}
	return mids
}
