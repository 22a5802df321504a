package trading

import (
	"context"
	"strings"

	"hype_signal/internal/models"
	"hype_signal/internal/modules/config"
	hl "hype_signal/internal/modules/hyperliquid/service"
	positions "hype_signal/internal/modules/positions/service"
	"hype_signal/internal/modules/trading/service"
	"hype_signal/internal/notify"
	"hype_signal/pkg/logger"

	"go.uber.org/fx"
)

func NewRouter(cfg *config.Config) (*service.SymbolRouter, error) {
	overrides, err := service.LoadRoutingFile(cfg.Hyperliquid.RoutingFile)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		logger.Info("[TRADE_EXEC] loaded %d symbol routes from %s", len(overrides), cfg.Hyperliquid.RoutingFile)
	}
	return service.NewSymbolRouter(overrides), nil
}

// NewClientProvider подписанный набор клиентов собирается при первой живой сделке.
func NewClientProvider(opts hl.Options) *service.ClientProvider {
	return service.NewClientProvider(func(ctx context.Context) (*service.Clients, error) {
		c, err := hl.NewClients(ctx, opts)
		if err != nil {
			return nil, err
		}
		logger.Info("[TRADE_EXEC] exchange clients ready for %s", c.Address)
		return &service.Clients{
			Info:     c.Info,
			Exchange: c.Exchange,
			Markets:  c.Symbols,
			Address:  c.Address,
		}, nil
	})
}

func ParseTimeInForce(raw string) models.TimeInForce {
	for _, tif := range []models.TimeInForce{models.TifGtc, models.TifIoc, models.TifAlo} {
		if strings.EqualFold(strings.TrimSpace(raw), string(tif)) {
			return tif
		}
	}
	return models.TifIoc
}

func NewExecutor(
	cfg *config.Config,
	router *service.SymbolRouter,
	store positions.Store,
	clients *service.ClientProvider,
	n notify.Notifier,
) *service.Executor {
	if cfg.Trading.Testing {
		logger.Warn("[TRADE_EXEC] TESTING mode: fills are simulated, no orders reach the exchange")
	}
	return service.NewExecutor(service.Config{
		Enabled:        cfg.Hyperliquid.Enabled,
		Testing:        cfg.Trading.Testing,
		AllowedMarkets: cfg.Hyperliquid.AllowedMarkets,
		MaxTradeUSD:    cfg.Trading.MaxTradeUSD,
		SlippageBps:    cfg.Hyperliquid.SlippageBps,
		TimeInForce:    ParseTimeInForce(cfg.Hyperliquid.TimeInForce),
		ExplorerURL:    cfg.Hyperliquid.ExplorerURL,
	}, router, store, clients, n)
}

func Module() fx.Option {
	return fx.Module("trading",
		fx.Provide(
			NewRouter,
			NewClientProvider,
			NewExecutor,
		),
	)
}

