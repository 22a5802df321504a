package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hype_signal/internal/models"
	positions "hype_signal/internal/modules/positions/service"
)

type fakeExchange struct {
	mu       sync.Mutex
	ask      float64
	askErr   error
	held     []models.AccountPosition
	heldErr  error
	spot     []models.AccountPosition
	markets  map[string]models.MarketMetadata
	status   models.OrderStatus
	placeErr error
	orders   []models.OrderRequest
	placed   atomic.Int32
	delay    time.Duration
}

func newFakeExchange() *fakeExchange {
	return &fakeExchange{
		ask: 100,
		markets: map[string]models.MarketMetadata{
			"ETH":       {Symbol: "ETH", AssetID: 1, SizeDecimals: 4, InfoSymbol: "ETH"},
			"PURR/USDC": {Symbol: "PURR/USDC", AssetID: 10000, SizeDecimals: 0, InfoSymbol: "PURR/USDC", IsSpot: true},
		},
		status: models.OrderStatus{
			Kind: models.OrderStatusFilled,
			Fill: models.Fill{TotalSize: "0.2985", AvgPrice: "100.2", OrderID: 77},
		},
	}
}

func (f *fakeExchange) BestAsk(_ context.Context, _ string) (float64, error) {
	return f.ask, f.askErr
}

func (f *fakeExchange) Positions(_ context.Context, _ string) ([]models.AccountPosition, error) {
	return f.held, f.heldErr
}

func (f *fakeExchange) SpotBalances(_ context.Context, _ string) ([]models.AccountPosition, error) {
	return f.spot, nil
}

func (f *fakeExchange) Resolve(_ context.Context, symbol string) (models.MarketMetadata, bool, error) {
	m, ok := f.markets[symbol]
	return m, ok, nil
}

func (f *fakeExchange) PlaceOrder(_ context.Context, o models.OrderRequest) (models.OrderStatus, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.placed.Add(1)
	f.mu.Lock()
	f.orders = append(f.orders, o)
	f.mu.Unlock()
	return f.status, f.placeErr
}

type recNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *recNotifier) Send(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *recNotifier) Sendf(format string, args ...any) { n.Send(fmt.Sprintf(format, args...)) }

func (n *recNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.msgs...)
}

// flakyStore первые failSaves вызовов SavePosition падают.
type flakyStore struct {
	*positions.MemoryStore
	failSaves atomic.Int32
}

func (s *flakyStore) SavePosition(ctx context.Context, p models.TradingPosition) error {
	if s.failSaves.Add(-1) >= 0 {
		return errors.New("database is locked")
	}
	return s.MemoryStore.SavePosition(ctx, p)
}

type harness struct {
	exec  *Executor
	ex    *fakeExchange
	store *positions.MemoryStore
	n     *recNotifier
}

func defaultConfig() Config {
	return Config{
		Enabled:     true,
		MaxTradeUSD: 30,
		SlippageBps: 50,
		TimeInForce: models.TifIoc,
		ExplorerURL: "https://app.hyperliquid.xyz/exchange/",
	}
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	ex := newFakeExchange()
	store := positions.NewMemoryStore()
	n := &recNotifier{}
	provider := NewClientProvider(func(context.Context) (*Clients, error) {
		return &Clients{Info: ex, Exchange: ex, Markets: ex, Address: "0xabc"}, nil
	})
	exec := NewExecutor(cfg, NewSymbolRouter(nil), store, provider, n)
	exec.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return &harness{exec: exec, ex: ex, store: store, n: n}
}

func (h *harness) processed(t *testing.T, id string) bool {
	t.Helper()
	ok, err := h.store.IsPostProcessed(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	return ok
}

func request(token, postID string) TradeRequest {
	return TradeRequest{
		Token:      token,
		Post:       "$" + token + " looks strong",
		Influencer: "loomdart",
		PostID:     postID,
	}
}
