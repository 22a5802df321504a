package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"hype_signal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Cached кэширует сырые ответы оракула в redis. Без клиента работает как прокси.
type Cached struct {
	next  Oracle
	rdb   *redis.Client
	ttl   time.Duration
	scope string
}

func NewCached(next Oracle, rdb *redis.Client, scope string, ttl time.Duration) *Cached {
	return &Cached{next: next, rdb: rdb, ttl: ttl, scope: scope}
}

func (c *Cached) Infer(ctx context.Context, p Prompt) (string, error) {
	if c.rdb == nil {
		return c.next.Infer(ctx, p)
	}

	key := CacheKey(c.scope, p)
	if val, err := c.rdb.Get(ctx, key).Result(); err == nil {
		return val, nil
	} else if !errors.Is(err, redis.Nil) {
		logger.Warn("[LLM] cache get failed: %v", err)
	}

	text, err := c.next.Infer(ctx, p)
	if err != nil {
		return "", err
	}
	if err := c.rdb.Set(ctx, key, text, c.ttl).Err(); err != nil {
		logger.Warn("[LLM] cache set failed: %v", err)
	}
	return text, nil
}

func CacheKey(scope string, p Prompt) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%d\x00%g", scope, p.System, p.User, p.MaxTokens, p.Temperature)
	return "llm:infer:" + hex.EncodeToString(h.Sum(nil))
}
