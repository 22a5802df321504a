package hyperliquid

import (
	"context"

	"hype_signal/internal/modules/config"
	"hype_signal/internal/modules/hyperliquid/service"
	"hype_signal/pkg/logger"

	"go.uber.org/fx"
)

// NewInfoClient клиент только для чтения, ключ не нужен.
func NewInfoClient(cfg *config.Config) *service.InfoClient {
	t := service.NewTransport(service.APIURL(cfg.IsMainnet()), cfg.Hyperliquid.RequestTimeout)
	return service.NewInfoClient(t)
}

func NewMidsSource(lc fx.Lifecycle, cfg *config.Config, info *service.InfoClient) *service.MidsSource {
	if !cfg.Hyperliquid.StreamMids {
		return service.NewMidsSource(nil, info)
	}

	stream := service.NewMidsStream(service.WSURL(cfg.IsMainnet()))
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go stream.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	return service.NewMidsSource(stream, info)
}

// Options параметры набора клиентов для живой торговли.
func Options(cfg *config.Config) service.Options {
	return service.Options{
		PrivateKey: cfg.Hyperliquid.PrivateKey,
		Mainnet:    cfg.IsMainnet(),
		Timeout:    cfg.Hyperliquid.RequestTimeout,
	}
}

// AccountAddress адрес для сверки позиций. Пустой, если ключа нет или он битый.
type AccountAddress string

func NewAccountAddress(cfg *config.Config) AccountAddress {
	if cfg.Hyperliquid.PrivateKey == "" {
		logger.Warn("[HYPERLIQUID] HYPERLIQUID_PRIVATE_KEY is not set, remote positions will not be synced")
		return ""
	}
	addr, err := service.DeriveAddress(cfg.Hyperliquid.PrivateKey)
	if err != nil {
		logger.Error("[HYPERLIQUID] failed to derive address from private key: %v", err)
		return ""
	}
	return AccountAddress(addr)
}

func Module() fx.Option {
	return fx.Module("hyperliquid",
		fx.Provide(
			NewInfoClient,
			NewMidsSource,
			NewAccountAddress,
			Options,
		),
	)
}
