package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	// несуществующий файл, чтобы не подхватить локальный конфиг
	t.Setenv(configFilePathENV, filepath.Join(t.TempDir(), "missing.yaml"))
	for _, names := range envBindings {
		for _, name := range names {
			t.Setenv(name, "")
		}
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 30.0, cfg.Trading.MaxTradeUSD)
	assert.Equal(t, 70, cfg.Trading.MinimumConfidence)
	assert.Equal(t, 6*time.Hour, cfg.Trading.TweetMaxAge)
	assert.Len(t, cfg.Trading.Influencers, 9)
	assert.True(t, cfg.Hyperliquid.Enabled)
	assert.Equal(t, EnvTestnet, cfg.Hyperliquid.Environment)
	assert.Equal(t, 50.0, cfg.Hyperliquid.SlippageBps)
	assert.Equal(t, "Ioc", cfg.Hyperliquid.TimeInForce)
	assert.Equal(t, "https://app.hyperliquid.xyz/exchange", cfg.Hyperliquid.ExplorerURL)
	assert.Nil(t, cfg.Hyperliquid.AllowedMarkets)
	assert.Equal(t, "gemma-3-27b-it-q4", cfg.LLM.EigenModel)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("MAX_TRADE_AMOUNT_USD", "40")
	t.Setenv("HYPERLIQUID_MAX_TRADE_USD", "12.5")
	t.Setenv("HYPERLIQUID_ALLOWED_MARKETS", " eth, sol ,")
	t.Setenv("HYPERLIQUID_ENVIRONMENT", "MAINNET")
	t.Setenv("HYPERLIQUID_DISABLED", "true")
	t.Setenv("TESTING", "true")
	t.Setenv("TWEET_MAX_AGE_HOURS", "2")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 12.5, cfg.Trading.MaxTradeUSD)
	assert.Equal(t, []string{"ETH", "SOL"}, cfg.Hyperliquid.AllowedMarkets)
	assert.True(t, cfg.IsMainnet())
	assert.False(t, cfg.Hyperliquid.Enabled)
	assert.True(t, cfg.Trading.Testing)
	assert.Equal(t, 2*time.Hour, cfg.Trading.TweetMaxAge)
}

func TestNewConfig_BadNotionalIsZero(t *testing.T) {
	isolate(t)
	t.Setenv("MAX_TRADE_AMOUNT_USD", "lots")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Zero(t, cfg.Trading.MaxTradeUSD)
}

func TestParseList(t *testing.T) {
	assert.Nil(t, ParseList("", true))
	assert.Nil(t, ParseList(" * ", true))
	assert.Equal(t, []string{"BTC", "ETH"}, ParseList("btc,,eth", true))
	assert.Equal(t, []string{"dabit3"}, ParseList("dabit3", false))
}
