package main

import (
	"context"
	"log"

	"hype_signal/internal/modules/config"
	"hype_signal/internal/modules/decision"
	"hype_signal/internal/modules/health"
	"hype_signal/internal/modules/hyperliquid"
	"hype_signal/internal/modules/llm"
	"hype_signal/internal/modules/positions"
	"hype_signal/internal/modules/postgres"
	"hype_signal/internal/modules/reconcile"
	"hype_signal/internal/modules/sentiment"
	"hype_signal/internal/modules/tracing"
	"hype_signal/internal/modules/trading"
	"hype_signal/internal/notify"
	"hype_signal/internal/runner"
	"hype_signal/pkg/logger"

	"go.uber.org/fx"
)

func main() {
	// до загрузки конфига пишем на info
	if err := logger.Init("info"); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return ctx
			},
		),
		fx.Invoke(func(lc fx.Lifecycle) {
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})
		}),
		config.Module(),
		tracing.Module(),
		postgres.Module(),
		positions.Module(),
		llm.Module(),
		sentiment.Module(),
		decision.Module(),
		hyperliquid.Module(),
		reconcile.Module(),
		notify.Module(),
		trading.Module(),
		health.Module(),
		runner.Module(),
	)
	app.Run()
}
