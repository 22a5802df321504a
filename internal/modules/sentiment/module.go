package sentiment

import (
	"hype_signal/internal/modules/config"
	llm "hype_signal/internal/modules/llm/service"
	"hype_signal/internal/modules/sentiment/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("sentiment",
		fx.Provide(
			func(oracle llm.Oracle, cfg *config.Config) *service.Extractor {
				return service.NewExtractor(oracle, cfg.Trading.MinimumConfidence)
			},
		),
	)
}
