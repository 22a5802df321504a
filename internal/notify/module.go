package notify

import (
	"context"

	"hype_signal/internal/modules/config"
	"hype_signal/pkg/logger"

	"go.uber.org/fx"
)

// NewNotifier Telegram, если заданы токен и чат, иначе лог.
func NewNotifier(lc fx.Lifecycle, ctx context.Context, cfg *config.Config, reporter PositionsReporter) Notifier {
	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		logger.Info("[NOTIFY] telegram not configured, notifications go to log")
		return NewStdout()
	}

	tg, err := NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, reporter)
	if err != nil {
		logger.Error("[NOTIFY] telegram init failed, falling back to log: %v", err)
		return NewStdout()
	}
	async := NewAsync(tg, defaultQueueSize)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return tg.Start(ctx) },
		OnStop: func(stopCtx context.Context) error {
			tg.Stop()
			return async.Close(stopCtx)
		},
	})
	return async
}

func Module() fx.Option {
	return fx.Module("notify",
		fx.Provide(NewNotifier),
	)
}
