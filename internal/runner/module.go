package runner

import (
	"context"

	"hype_signal/internal/models"
	"hype_signal/internal/modules/config"
	decision "hype_signal/internal/modules/decision/service"
	health "hype_signal/internal/modules/health/service"
	positions "hype_signal/internal/modules/positions/service"
	sentiment "hype_signal/internal/modules/sentiment/service"
	trading "hype_signal/internal/modules/trading/service"
	"hype_signal/internal/notify"

	"go.uber.org/fx"
)

// NewFeed очередь входящих постов, в нее пишет HTTP-приемник.
func NewFeed(cfg *config.Config) chan models.RawPost {
	size := cfg.Trading.QueueSize
	if size <= 0 {
		size = 64
	}
	return make(chan models.RawPost, size)
}

func NewRunner(
	cfg *config.Config,
	ex *sentiment.Extractor,
	engine *decision.Engine,
	exec *trading.Executor,
	store positions.Store,
	n notify.Notifier,
	state *health.State,
) *Runner {
	return New(Config{
		Workers:     cfg.Trading.Workers,
		Influencers: cfg.Trading.Influencers,
		MaxAge:      cfg.Trading.TweetMaxAge,
		Retry: RetryConfig{
			MaxAttempts:     cfg.Retry.MaxAttempts,
			InitialInterval: cfg.Retry.InitialInterval,
			MaxInterval:     cfg.Retry.MaxInterval,
		},
	}, ex, engine, exec, store, n, state)
}

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			NewFeed,
			NewRunner,
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			r *Runner,
			posts chan models.RawPost,
			state *health.State,
			ctx context.Context,
		) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go r.Run(ctx, posts)
					state.SetReady(true)
					return nil
				},
				OnStop: func(_ context.Context) error {
					state.SetReady(false)
					return nil
				},
			})
		}),
	)
}
