package service

import (
	"context"
	"math"
	"strconv"
	"strings"

	"hype_signal/internal/models"

	"github.com/pkg/errors"
)

// ErrNoAsks в стакане нет ни одного ask.
var ErrNoAsks = errors.New("order book has no asks")

type InfoClient struct {
	t *Transport
}

func NewInfoClient(t *Transport) *InfoClient {
	return &InfoClient{t: t}
}

func (c *InfoClient) meta(ctx context.Context) (metaResponse, error) {
	var out metaResponse
	err := c.t.post(ctx, "/info", map[string]string{"type": "meta"}, &out)
	return out, errors.Wrap(err, "meta")
}

func (c *InfoClient) spotMeta(ctx context.Context) (spotMetaResponse, error) {
	var out spotMetaResponse
	err := c.t.post(ctx, "/info", map[string]string{"type": "spotMeta"}, &out)
	return out, errors.Wrap(err, "spotMeta")
}

// BestAsk цена первого уровня asks.
func (c *InfoClient) BestAsk(ctx context.Context, coin string) (float64, error) {
	var book l2BookResponse
	if err := c.t.post(ctx, "/info", map[string]string{"type": "l2Book", "coin": coin}, &book); err != nil {
		return 0, errors.Wrapf(err, "l2Book %s", coin)
	}
	if len(book.Levels) < 2 || len(book.Levels[1]) == 0 {
		return 0, ErrNoAsks
	}
	px, err := strconv.ParseFloat(book.Levels[1][0].Px, 64)
	if err != nil || px <= 0 || math.IsNaN(px) || math.IsInf(px, 0) {
		return 0, errors.Errorf("bad ask price %q for %s", book.Levels[1][0].Px, coin)
	}
	return px, nil
}

// Positions ненулевые позиции аккаунта, coin в верхнем регистре.
func (c *InfoClient) Positions(ctx context.Context, address string) ([]models.AccountPosition, error) {
	var state clearinghouseStateResponse
	if err := c.t.post(ctx, "/info", map[string]string{"type": "clearinghouseState", "user": address}, &state); err != nil {
		return nil, errors.Wrap(err, "clearinghouseState")
	}

	out := make([]models.AccountPosition, 0, len(state.AssetPositions))
	for _, ap := range state.AssetPositions {
		size, err := strconv.ParseFloat(ap.Position.Szi, 64)
		if err != nil || size == 0 {
			continue
		}
		out = append(out, models.AccountPosition{
			Coin: strings.ToUpper(ap.Position.Coin),
			Size: size,
		})
	}
	return out, nil
}

// SpotBalances ненулевые спотовые балансы аккаунта, Size = total.
func (c *InfoClient) SpotBalances(ctx context.Context, address string) ([]models.AccountPosition, error) {
	var state spotClearinghouseStateResponse
	if err := c.t.post(ctx, "/info", map[string]string{"type": "spotClearinghouseState", "user": address}, &state); err != nil {
		return nil, errors.Wrap(err, "spotClearinghouseState")
	}

	out := make([]models.AccountPosition, 0, len(state.Balances))
	for _, b := range state.Balances {
		total, err := strconv.ParseFloat(b.Total, 64)
		if err != nil || total == 0 {
			continue
		}
		out = append(out, models.AccountPosition{
			Coin: strings.ToUpper(b.Coin),
			Size: total,
		})
	}
	return out, nil
}

// AllMids mid-цены по всем монетам.
func (c *InfoClient) AllMids(ctx context.Context) (map[string]float64, error) {
	var raw map[string]string
	if err := c.t.post(ctx, "/info", map[string]string{"type": "allMids"}, &raw); err != nil {
		return nil, errors.Wrap(err, "allMids")
	}
	return parseMids(raw), nil
}

func parseMids(raw map[string]string) map[string]float64 {
	out := make(map[string]float64, len(raw))
	for coin, px := range raw {
		if v, err := strconv.ParseFloat(px, 64); err == nil {
			out[strings.ToUpper(coin)] = v
		}
	}
	return out
}
