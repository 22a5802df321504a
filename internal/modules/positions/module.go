package positions

import (
	"context"

	"hype_signal/internal/modules/positions/service"
	"hype_signal/pkg/db"
	"hype_signal/pkg/logger"

	"go.uber.org/fx"
)

// NewStore без пула отдает in-memory хранилище.
func NewStore(ctx context.Context, tm db.TxManager) (service.Store, error) {
	if tm == nil {
		logger.Info("[POSITIONS] no database configured, using in-memory store")
		return service.NewMemoryStore(), nil
	}

	store := service.NewPgStore(tm)
	if err := store.Migrate(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func Module() fx.Option {
	return fx.Module("positions",
		fx.Provide(NewStore),
	)
}
