package decision

import (
	"hype_signal/internal/modules/config"
	"hype_signal/internal/modules/decision/service"
	sentiment "hype_signal/internal/modules/sentiment/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("decision",
		fx.Provide(
			func(ex *sentiment.Extractor, cfg *config.Config) *service.Engine {
				return service.NewEngine(ex, cfg.Trading.MinimumConfidence)
			},
		),
	)
}
