package config

import (
	"hype_signal/pkg/logger"

	"go.uber.org/fx"
)

// Module регистрирует *Config как fx-провайдер и перенастраивает логгер под него.
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			NewConfig,
		),
		fx.Invoke(func(cfg *Config) error {
			logger.SetServiceName(cfg.Service.Name)
			return logger.Init(cfg.Service.LogLevel)
		}),
	)
}
