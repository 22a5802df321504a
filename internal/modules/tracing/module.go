package tracing

import (
	"context"

	"hype_signal/internal/modules/config"
	"hype_signal/pkg/logger"
	"hype_signal/pkg/tracing"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/fx"
)

func NewTracer(lc fx.Lifecycle, cfg *config.Config) (opentracing.Tracer, error) {
	tracing.SetServiceName(cfg.Service.Name)
	conf := tracing.Config{Host: cfg.Tracing.Host, Port: cfg.Tracing.Port}

	tracer, closer, err := tracing.InitTracer(conf)
	if err != nil {
		return nil, err
	}
	if conf.Enabled() {
		logger.Info("[TRACING] jaeger agent %s:%d", conf.Host, conf.Port)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			closer()
			return nil
		},
	})
	return tracer, nil
}

func Module() fx.Option {
	return fx.Module("tracing",
		fx.Provide(NewTracer),
		// спаны берут глобальный трейсер, поэтому форсируем создание
		fx.Invoke(func(opentracing.Tracer) {}),
	)
}
