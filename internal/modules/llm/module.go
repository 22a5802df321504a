package llm

import (
	"context"

	"hype_signal/internal/modules/config"
	"hype_signal/internal/modules/llm/service"
	"hype_signal/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// NewOracle выбирает провайдера: EigenAI, затем OpenAI, иначе Disabled.
func NewOracle(lc fx.Lifecycle, cfg *config.Config) service.Oracle {
	var (
		client *service.Client
		llm    = cfg.LLM
	)
	switch {
	case llm.EigenAPIKey != "":
		client = service.NewClient(service.ClientConfig{
			BaseURL:    llm.EigenBaseURL,
			APIKey:     llm.EigenAPIKey,
			Model:      llm.EigenModel,
			Auth:       service.AuthAPIKeyHeader,
			Timeout:    llm.Timeout,
			RatePerSec: llm.RatePerSec,
			Burst:      llm.Burst,
		})
	case llm.OpenAIAPIKey != "":
		logger.Info("[LLM] EIGENAI_API_KEY not found, using OpenAI model %q", llm.OpenAIModel)
		client = service.NewClient(service.ClientConfig{
			BaseURL:    llm.OpenAIBaseURL,
			APIKey:     llm.OpenAIAPIKey,
			Model:      llm.OpenAIModel,
			Auth:       service.AuthBearer,
			Timeout:    llm.Timeout,
			RatePerSec: llm.RatePerSec,
			Burst:      llm.Burst,
		})
	default:
		logger.Warn("[LLM] no oracle keys configured, signal extraction will use fallbacks")
		return service.Disabled{}
	}

	rdb := newRedis(lc, cfg)
	return service.NewCached(client, rdb, client.Model(), cfg.Redis.TTL)
}

func newRedis(lc fx.Lifecycle, cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// кэш необязателен, недоступный redis только логируем
			if err := rdb.Ping(ctx).Err(); err != nil {
				logger.Warn("[LLM] redis %s unavailable: %v", cfg.Redis.Addr, err)
			}
			return nil
		},
		OnStop: func(context.Context) error { return rdb.Close() },
	})
	return rdb
}

func Module() fx.Option {
	return fx.Module("llm",
		fx.Provide(NewOracle),
	)
}
