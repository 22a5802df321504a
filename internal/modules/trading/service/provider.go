package service

import (
	"context"
	"sync"
	"time"

	"hype_signal/internal/models"

	"golang.org/x/sync/singleflight"
)

type MarketReader interface {
	BestAsk(ctx context.Context, coin string) (float64, error)
	Positions(ctx context.Context, address string) ([]models.AccountPosition, error)
	SpotBalances(ctx context.Context, address string) ([]models.AccountPosition, error)
}

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, o models.OrderRequest) (models.OrderStatus, error)
}

type MarketResolver interface {
	Resolve(ctx context.Context, symbol string) (models.MarketMetadata, bool, error)
}

// Clients то, что нужно исполнению от биржи.
type Clients struct {
	Info     MarketReader
	Exchange OrderPlacer
	Markets  MarketResolver
	Address  string
}

type ClientsFactory func(ctx context.Context) (*Clients, error)

const buildTimeout = 30 * time.Second

// ClientProvider лениво строит Clients один раз. Параллельные первые вызовы
// ждут одну и ту же сборку; ошибка не запоминается.
type ClientProvider struct {
	factory ClientsFactory
	group   singleflight.Group

	mu      sync.RWMutex
	clients *Clients
}

func NewClientProvider(factory ClientsFactory) *ClientProvider {
	return &ClientProvider{factory: factory}
}

func (p *ClientProvider) cached() *Clients {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.clients
}

func (p *ClientProvider) Get(ctx context.Context) (*Clients, error) {
	if c := p.cached(); c != nil {
		return c, nil
	}

	v, err, _ := p.group.Do("clients", func() (any, error) {
		if c := p.cached(); c != nil {
			return c, nil
		}
		// сборка общая, отмена одного вызывающего не должна ее рвать
		bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), buildTimeout)
		defer cancel()

		c, err := p.factory(bctx)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.clients = c
		p.mu.Unlock()
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Clients), nil
}
