package service

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"hype_signal/internal/models"
	"hype_signal/pkg/logger"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
)

type PositionStore interface {
	HasHoldingPosition(ctx context.Context, symbol string) (bool, error)
	SavePosition(ctx context.Context, p models.TradingPosition) error
	MarkPostProcessed(ctx context.Context, postID string) error
}

type Notifier interface {
	Send(msg string)
	Sendf(format string, args ...any)
}

type Config struct {
	Enabled        bool
	Testing        bool
	AllowedMarkets []string
	MaxTradeUSD    float64
	SlippageBps    float64
	TimeInForce    models.TimeInForce
	ExplorerURL    string
}

type TradeRequest struct {
	Token           string
	Post            string
	Influencer      string
	PostID          string
	ProfileImageURL string
}

type Outcome string

const (
	OutcomeFilled    Outcome = "filled"
	OutcomeSimulated Outcome = "simulated"
	OutcomeSkipped   Outcome = "skipped"
)

// Result итог одного Execute. Position заполнена только для filled/simulated.
type Result struct {
	Outcome  Outcome
	Symbol   string
	Reason   string
	Position *models.TradingPosition

	// notice уходит в notifier после снятия блокировки символа
	notice string
}

type Executor struct {
	cfg      Config
	router   *SymbolRouter
	store    PositionStore
	clients  *ClientProvider
	notifier Notifier
	locks    *symbolLocks
	now      func() time.Time

	// исполненные ордера, которые не удалось записать; символ не покупается повторно до рестарта
	mu         sync.Mutex
	unrecorded map[string]int64
}

func NewExecutor(cfg Config, router *SymbolRouter, store PositionStore, clients *ClientProvider, n Notifier) *Executor {
	if cfg.TimeInForce == "" {
		cfg.TimeInForce = models.TifIoc
	}
	return &Executor{
		cfg:        cfg,
		router:     router,
		store:      store,
		clients:    clients,
		notifier:   n,
		locks:      newSymbolLocks(),
		now:        time.Now,
		unrecorded: make(map[string]int64),
	}
}

// Execute покупает один токен по посту. Итог ровно один из трех:
// позиция сохранена, пост помечен без позиции, возвращена ошибка (пост не помечен).
// Исключение ErrFillNotRecorded: ордер исполнен, пост помечен, позиции в хранилище нет.
func (e *Executor) Execute(ctx context.Context, req TradeRequest) (Result, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "trading.execute")
	defer span.Finish()
	span.SetTag("token", req.Token)
	span.SetTag("post_id", req.PostID)

	res, err := e.execute(ctx, req)
	if err != nil {
		span.SetTag("error", true)
		span.LogKV("event", "error", "message", err.Error())
		return res, err
	}
	span.SetTag("outcome", string(res.Outcome))
	if res.notice != "" {
		e.notifier.Send(res.notice)
	}
	return res, nil
}

func (e *Executor) execute(ctx context.Context, req TradeRequest) (Result, error) {
	symbol := e.router.Resolve(req.Token)
	if symbol == "" {
		return e.skip(ctx, req, symbol, "token does not route to a market")
	}
	if !e.cfg.Enabled {
		return e.skip(ctx, req, symbol, "trading disabled")
	}
	if len(e.cfg.AllowedMarkets) > 0 && !slices.Contains(e.cfg.AllowedMarkets, symbol) {
		return e.skip(ctx, req, symbol, "market not in allow-list")
	}

	unlock := e.locks.Lock(symbol)
	defer unlock()

	if oid, ok := e.unrecordedFill(symbol); ok {
		return e.skip(ctx, req, symbol, fmt.Sprintf("filled order oid=%d awaiting record", oid))
	}
	holding, err := e.store.HasHoldingPosition(ctx, symbol)
	if err != nil {
		return Result{}, errors.Wrap(err, "check local holding")
	}
	if holding {
		return e.skip(ctx, req, symbol, "already holding")
	}

	notional := e.cfg.MaxTradeUSD
	if notional <= 0 || math.IsNaN(notional) || math.IsInf(notional, 0) {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidNotional, notional)
	}

	if e.cfg.Testing {
		return e.simulate(ctx, req, symbol, notional)
	}

	clients, err := e.clients.Get(ctx)
	if err != nil {
		return Result{}, errors.Wrap(err, "init exchange clients")
	}

	if holding, err = e.store.HasHoldingPosition(ctx, symbol); err != nil {
		return Result{}, errors.Wrap(err, "recheck local holding")
	}
	if holding {
		return e.skip(ctx, req, symbol, "already holding")
	}
	if e.remoteHolds(ctx, clients, symbol) {
		return e.skip(ctx, req, symbol, "exchange account already holds position")
	}

	market, listed, err := clients.Markets.Resolve(ctx, symbol)
	if err != nil {
		return Result{}, errors.Wrapf(err, "resolve market %s", symbol)
	}
	if !listed {
		return e.skip(ctx, req, symbol, "market not listed")
	}

	ask, err := clients.Info.BestAsk(ctx, market.InfoSymbol)
	if err != nil {
		return Result{}, fmt.Errorf("%w for %s: %v", ErrNoOrderBook, symbol, err)
	}

	plan, err := SizeOrder(ask, e.cfg.SlippageBps, notional, market)
	if err != nil {
		return Result{}, err
	}

	logger.Info("[TRADE_EXEC] %s ask=%.6f limit=%s size=%s asset=%d tif=%s",
		symbol, ask, plan.LimitPrice, plan.Size, market.AssetID, e.cfg.TimeInForce)
	e.notifier.Sendf("Executing Hyperliquid Order - Buying %s with ~$%s",
		symbol, strconv.FormatFloat(notional, 'f', -1, 64))

	status, err := clients.Exchange.PlaceOrder(ctx, models.OrderRequest{
		AssetID:    market.AssetID,
		IsBuy:      true,
		LimitPrice: plan.LimitPrice,
		Size:       plan.Size,
		Tif:        e.cfg.TimeInForce,
	})
	if err != nil {
		return Result{}, errors.Wrapf(err, "place order %s", symbol)
	}

	fill, err := extractFill(status)
	if err != nil {
		return Result{}, errors.Wrap(err, symbol)
	}

	pos := models.TradingPosition{
		ID:              uuid.NewString(),
		Token:           symbol,
		Amount:          fill.size,
		PurchasePrice:   fill.price,
		PurchaseTime:    e.now(),
		Tweet:           req.Post,
		Influencer:      req.Influencer,
		ProfileImageURL: req.ProfileImageURL,
		Status:          models.PositionHolding,
	}
	if err := e.persist(ctx, req.PostID, pos); err != nil {
		return Result{}, e.fillNotRecorded(ctx, req.PostID, symbol, fill, err)
	}

	label := amountLabel(fill.size, market.SizeDecimals, symbol)
	logger.Info("[TRADE_EXEC] ✅ bought %s @ %.4f oid=%d", label, fill.price, fill.orderID)

	return Result{
		Outcome:  OutcomeFilled,
		Symbol:   symbol,
		Position: &pos,
		notice:   fillMessage(symbol, label, fill, req.Influencer, explorerURL(e.cfg.ExplorerURL, symbol, fill.orderID)),
	}, nil
}

// fillNotRecorded ордер уже на бирже: пост помечается, символ запоминается,
// ошибка постоянная и повторять ее нельзя.
func (e *Executor) fillNotRecorded(ctx context.Context, postID, symbol string, fill filled, cause error) error {
	logger.Error("[TRADE_EXEC] ❗ %s filled (oid=%d) but not recorded: %v", symbol, fill.orderID, cause)
	e.mu.Lock()
	e.unrecorded[symbol] = fill.orderID
	e.mu.Unlock()
	if err := e.store.MarkPostProcessed(ctx, postID); err != nil {
		logger.Warn("[TRADE_EXEC] mark post %s after unrecorded fill: %v", postID, err)
	}
	e.notifier.Sendf("❗ Hyperliquid order for %s filled (oid=%d) but position was not saved: %v",
		symbol, fill.orderID, cause)
	return fmt.Errorf("%w: %s oid=%d: %v", ErrFillNotRecorded, symbol, fill.orderID, cause)
}

func (e *Executor) unrecordedFill(symbol string) (int64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	oid, ok := e.unrecorded[symbol]
	return oid, ok
}

func (e *Executor) skip(ctx context.Context, req TradeRequest, symbol, reason string) (Result, error) {
	logger.Info("[TRADE_EXEC] skip %s (%s) post=%s: %s", req.Token, symbol, req.PostID, reason)
	if err := e.store.MarkPostProcessed(ctx, req.PostID); err != nil {
		return Result{}, errors.Wrap(err, "mark post processed")
	}
	return Result{Outcome: OutcomeSkipped, Symbol: symbol, Reason: reason}, nil
}

func (e *Executor) persist(ctx context.Context, postID string, pos models.TradingPosition) error {
	if err := e.store.SavePosition(ctx, pos); err != nil {
		return errors.Wrap(err, "save position")
	}
	if err := e.store.MarkPostProcessed(ctx, postID); err != nil {
		return errors.Wrap(err, "mark post processed")
	}
	return nil
}

// remoteHolds спот сверяется по балансам базовой монеты, перпы по позициям.
// Ошибка запроса считается отсутствием позиции.
func (e *Executor) remoteHolds(ctx context.Context, c *Clients, symbol string) bool {
	if c.Address == "" {
		return false
	}
	base := symbol
	spot := false
	if i := strings.IndexAny(symbol, "/:"); i > 0 {
		base = symbol[:i]
		spot = true
	}
	var (
		positions []models.AccountPosition
		err       error
	)
	if spot {
		positions, err = c.Info.SpotBalances(ctx, c.Address)
	} else {
		positions, err = c.Info.Positions(ctx, c.Address)
	}
	if err != nil {
		logger.Warn("[TRADE_EXEC] account state for %s unavailable: %v", c.Address, err)
		return false
	}
	for _, p := range positions {
		if p.Size != 0 && (p.Coin == symbol || p.Coin == base) {
			return true
		}
	}
	return false
}

type filled struct {
	size    float64
	price   float64
	orderID int64
}

func extractFill(s models.OrderStatus) (filled, error) {
	switch s.Kind {
	case models.OrderStatusError:
		return filled{}, fmt.Errorf("%w: %s", ErrOrderRejected, s.Error)
	case models.OrderStatusFilled:
	default:
		return filled{}, fmt.Errorf("%w: status %s", ErrNotFilled, s.Kind)
	}

	size, err := strconv.ParseFloat(s.Fill.TotalSize, 64)
	if err != nil || size <= 0 {
		return filled{}, fmt.Errorf("%w: filled size %q", ErrNotFilled, s.Fill.TotalSize)
	}
	price, err := strconv.ParseFloat(s.Fill.AvgPrice, 64)
	if err != nil {
		return filled{}, fmt.Errorf("parse avg price %q: %w", s.Fill.AvgPrice, err)
	}
	return filled{size: size, price: price, orderID: s.Fill.OrderID}, nil
}

func amountLabel(amount float64, szDecimals int, symbol string) string {
	return strconv.FormatFloat(amount, 'f', min(max(szDecimals, 0), 6), 64) + " " + symbol
}

func explorerURL(base, symbol string, orderID int64) string {
	base = strings.TrimRight(base, "/")
	if base == "" {
		return ""
	}
	path := symbol
	if strings.Contains(symbol, "/") {
		path = url.PathEscape(symbol)
	}
	u := base + "/" + path
	if orderID > 0 {
		u += "?orderId=" + strconv.FormatInt(orderID, 10)
	}
	return u
}

func fillMessage(symbol, label string, f filled, author, link string) string {
	var b strings.Builder
	b.WriteString("✅ Hyperliquid buy filled\n")
	fmt.Fprintf(&b, "Token: %s\nAmount: %s\nAvg price: $%.4f\nAuthor: @%s", symbol, label, f.price, author)
	if f.orderID > 0 {
		fmt.Fprintf(&b, "\nOrder: %d", f.orderID)
	}
	if link != "" {
		b.WriteString("\n" + link)
	}
	return b.String()
}
