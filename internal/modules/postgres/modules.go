package postgres

import (
	"context"
	"fmt"

	"hype_signal/internal/modules/config"
	"hype_signal/pkg/db"
	"hype_signal/pkg/logger"

	"go.uber.org/fx"
)

// NewTxManager без DSN возвращает nil, хранилище тогда работает в памяти.
func NewTxManager(lc fx.Lifecycle, ctx context.Context, cfg *config.Config) (db.TxManager, error) {
	if cfg.DB.DSN == "" {
		logger.Info("[POSTGRES] DATABASE_DSN not set, skipping pool")
		return nil, nil
	}

	poolMaster, err := db.NewPool(ctx, db.PoolConfig{
		DSN:      cfg.DB.DSN,
		MaxConns: cfg.DB.MaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create poolMaster: %w", err)
	}

	tm := db.NewPgTxManager(poolMaster)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			tm.Close()
			return nil
		},
	})
	return tm, nil
}

func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(NewTxManager),
	)
}
