package service

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"hype_signal/internal/models"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

type ExchangeClient struct {
	t      *Transport
	signer *Signer

	mu        sync.Mutex
	lastNonce int64
	now       func() time.Time
}

func NewExchangeClient(t *Transport, signer *Signer) *ExchangeClient {
	return &ExchangeClient{t: t, signer: signer, now: time.Now}
}

// nonce в миллисекундах, строго возрастает
func (c *ExchangeClient) nextNonce() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.now().UnixMilli()
	if n <= c.lastNonce {
		n = c.lastNonce + 1
	}
	c.lastNonce = n
	return n
}

// PlaceOrder отправляет одну заявку и возвращает ее статус.
func (c *ExchangeClient) PlaceOrder(ctx context.Context, o models.OrderRequest) (models.OrderStatus, error) {
	action := orderAction{
		Type: "order",
		Orders: []orderWire{{
			Asset:      o.AssetID,
			IsBuy:      o.IsBuy,
			LimitPx:    o.LimitPrice,
			Size:       o.Size,
			ReduceOnly: o.ReduceOnly,
			OrderType:  orderTypeWire{Limit: limitWire{Tif: string(o.Tif)}},
		}},
		Grouping: "na",
	}

	nonce := c.nextNonce()
	sig, err := c.signer.SignL1Action(action, nonce)
	if err != nil {
		return models.OrderStatus{}, err
	}

	var resp exchangeResponse
	err = c.t.post(ctx, "/exchange", exchangeRequest{
		Action:    action,
		Nonce:     nonce,
		Signature: sig,
	}, &resp)
	if err != nil {
		return models.OrderStatus{}, errors.Wrap(err, "order")
	}

	statuses, err := parseOrderResponse(resp)
	if err != nil {
		return models.OrderStatus{}, err
	}
	if len(statuses) == 0 {
		return models.OrderStatus{}, errors.New("exchange did not return any order status")
	}
	return statuses[0], nil
}

func parseOrderResponse(resp exchangeResponse) ([]models.OrderStatus, error) {
	if resp.Status != "ok" {
		var msg string
		if err := sonic.Unmarshal(resp.Response, &msg); err != nil {
			msg = string(resp.Response)
		}
		return nil, errors.Errorf("exchange error: %s", msg)
	}

	var body orderResponseBody
	if err := sonic.Unmarshal(resp.Response, &body); err != nil {
		return nil, errors.Wrap(err, "decode order response")
	}

	out := make([]models.OrderStatus, 0, len(body.Data.Statuses))
	for _, raw := range body.Data.Statuses {
		out = append(out, parseStatus(raw))
	}
	return out, nil
}

func parseStatus(raw json.RawMessage) models.OrderStatus {
	raw = bytes.TrimSpace(raw)
	// строковые статусы вроде "waitingForFill"
	if len(raw) == 0 || raw[0] != '{' {
		return models.OrderStatus{Kind: models.OrderStatusUnknown}
	}

	var w statusWire
	if err := sonic.Unmarshal(raw, &w); err != nil {
		return models.OrderStatus{Kind: models.OrderStatusUnknown}
	}
	switch {
	case w.Error != nil:
		return models.OrderStatus{Kind: models.OrderStatusError, Error: *w.Error}
	case w.Filled != nil:
		return models.OrderStatus{
			Kind:    models.OrderStatusFilled,
			OrderID: w.Filled.Oid,
			Fill: models.Fill{
				TotalSize: w.Filled.TotalSz,
				AvgPrice:  w.Filled.AvgPx,
				OrderID:   w.Filled.Oid,
			},
		}
	case w.Resting != nil:
		return models.OrderStatus{Kind: models.OrderStatusResting, OrderID: w.Resting.Oid}
	default:
		return models.OrderStatus{Kind: models.OrderStatusUnknown}
	}
}
