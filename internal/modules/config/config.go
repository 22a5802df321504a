package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configFilePathENV     = "CONFIG_FILE"
	defaultConfigFilePath = "configs/values_local.yaml"

	EnvMainnet = "mainnet"
	EnvTestnet = "testnet"
)

var defaultInfluencers = []string{
	"blknoiz06",
	"dabit3",
	"trading_axe",
	"notthreadguy",
	"gwartygwart",
	"tradermayne",
	"loomdart",
	"CryptoHayes",
	"divine_economy",
}

type Config struct {
	Service struct {
		Name       string
		StatusAddr string
		LogLevel   string
	}
	DB struct {
		DSN      string
		MaxConns int32
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
		TTL      time.Duration
	}
	Telegram struct {
		Token  string
		ChatID int64
	}
	Tracing struct {
		Host string
		Port int
	}
	LLM struct {
		EigenAPIKey   string
		EigenBaseURL  string
		EigenModel    string
		OpenAIAPIKey  string
		OpenAIBaseURL string
		OpenAIModel   string
		Timeout       time.Duration
		RatePerSec    float64
		Burst         int
	}
	Trading struct {
		MaxTradeUSD       float64
		MinimumConfidence int
		Testing           bool
		Influencers       []string
		TweetMaxAge       time.Duration
		Workers           int
		QueueSize         int
	}
	Hyperliquid struct {
		Enabled        bool
		Environment    string
		AllowedMarkets []string
		SlippageBps    float64
		TimeInForce    string
		ExplorerURL    string
		PrivateKey     string
		RoutingFile    string
		RequestTimeout time.Duration
		StreamMids     bool
	}
	Retry struct {
		MaxAttempts     int
		InitialInterval time.Duration
		MaxInterval     time.Duration
	}
}

func (c *Config) IsMainnet() bool { return c.Hyperliquid.Environment == EnvMainnet }

// NewConfig читает .env, yaml-файл (если есть) и переменные окружения.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	path := os.Getenv(configFilePathENV)
	if path == "" {
		path = defaultConfigFilePath
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.name", "hype-signal")
	v.SetDefault("service.status_addr", ":8080")
	v.SetDefault("service.log_level", "info")

	v.SetDefault("db.max_conns", 5)

	v.SetDefault("redis.ttl", time.Hour)

	v.SetDefault("tracing.port", 6831)

	v.SetDefault("llm.eigen_base_url", "https://eigenai-sepolia.eigencloud.xyz/v1")
	v.SetDefault("llm.eigen_model", "gemma-3-27b-it-q4")
	v.SetDefault("llm.openai_base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.openai_model", "gpt-4o-mini")
	v.SetDefault("llm.timeout", 20*time.Second)
	v.SetDefault("llm.rate_per_sec", 2.0)
	v.SetDefault("llm.burst", 4)

	v.SetDefault("trading.max_trade_usd", 30.0)
	v.SetDefault("trading.minimum_confidence", 70)
	v.SetDefault("trading.testing", false)
	v.SetDefault("trading.influencers", strings.Join(defaultInfluencers, ","))
	v.SetDefault("trading.tweet_max_age_hours", 6)
	v.SetDefault("trading.workers", 4)
	v.SetDefault("trading.queue_size", 64)

	v.SetDefault("hyperliquid.disabled", false)
	v.SetDefault("hyperliquid.environment", EnvTestnet)
	v.SetDefault("hyperliquid.allowed_markets", "")
	v.SetDefault("hyperliquid.slippage_bps", 50.0)
	v.SetDefault("hyperliquid.time_in_force", "Ioc")
	v.SetDefault("hyperliquid.explorer_url", "https://app.hyperliquid.xyz/exchange")
	v.SetDefault("hyperliquid.request_timeout", 10*time.Second)
	v.SetDefault("hyperliquid.stream_mids", false)

	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_interval", 2*time.Second)
	v.SetDefault("retry.max_interval", 30*time.Second)
}

// имена переменных оставлены как в исходном деплое
var envBindings = map[string][]string{
	"service.status_addr": {"STATUS_ADDR"},
	"service.log_level":   {"LOG_LEVEL"},

	"db.dsn": {"DATABASE_DSN"},

	"redis.addr":     {"REDIS_ADDR"},
	"redis.password": {"REDIS_PASSWORD"},
	"redis.db":       {"REDIS_DB"},

	"telegram.token":   {"TELEGRAM_TOKEN"},
	"telegram.chat_id": {"TELEGRAM_CHAT_ID"},

	"tracing.host": {"JAEGER_HOST"},
	"tracing.port": {"JAEGER_PORT"},

	"llm.eigen_api_key":   {"EIGENAI_API_KEY"},
	"llm.eigen_base_url":  {"EIGENAI_BASE_URL"},
	"llm.openai_api_key":  {"OPENAI_API_KEY"},
	"llm.openai_base_url": {"OPENAI_BASE_URL"},
	"llm.openai_model":    {"OPENAI_FALLBACK_MODEL", "OPENAI_MODEL"},

	"trading.max_trade_usd":       {"HYPERLIQUID_MAX_TRADE_USD", "MAX_TRADE_AMOUNT_USD"},
	"trading.minimum_confidence":  {"MINIMUM_CONFIDENCE"},
	"trading.testing":             {"TESTING"},
	"trading.influencers":         {"TRACKED_INFLUENCERS"},
	"trading.tweet_max_age_hours": {"TWEET_MAX_AGE_HOURS"},
	"trading.workers":             {"PIPELINE_WORKERS"},

	"hyperliquid.disabled":        {"HYPERLIQUID_DISABLED"},
	"hyperliquid.environment":     {"HYPERLIQUID_ENVIRONMENT"},
	"hyperliquid.allowed_markets": {"HYPERLIQUID_ALLOWED_MARKETS"},
	"hyperliquid.slippage_bps":    {"HYPERLIQUID_SLIPPAGE_BPS"},
	"hyperliquid.time_in_force":   {"HYPERLIQUID_TIME_IN_FORCE"},
	"hyperliquid.explorer_url":    {"HYPERLIQUID_EXPLORER_URL"},
	"hyperliquid.private_key":     {"HYPERLIQUID_PRIVATE_KEY"},
	"hyperliquid.routing_file":    {"HYPERLIQUID_ROUTING_FILE"},
	"hyperliquid.stream_mids":     {"HYPERLIQUID_STREAM_MIDS"},

	"retry.max_attempts": {"TRADE_RETRY_ATTEMPTS"},
}

func bindEnv(v *viper.Viper) error {
	for key, names := range envBindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Service.Name = v.GetString("service.name")
	cfg.Service.StatusAddr = v.GetString("service.status_addr")
	cfg.Service.LogLevel = v.GetString("service.log_level")

	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.DB.MaxConns = v.GetInt32("db.max_conns")

	cfg.Redis.Addr = v.GetString("redis.addr")
	cfg.Redis.Password = v.GetString("redis.password")
	cfg.Redis.DB = v.GetInt("redis.db")
	cfg.Redis.TTL = v.GetDuration("redis.ttl")

	cfg.Telegram.Token = v.GetString("telegram.token")
	cfg.Telegram.ChatID = v.GetInt64("telegram.chat_id")

	cfg.Tracing.Host = v.GetString("tracing.host")
	cfg.Tracing.Port = v.GetInt("tracing.port")

	cfg.LLM.EigenAPIKey = v.GetString("llm.eigen_api_key")
	cfg.LLM.EigenBaseURL = v.GetString("llm.eigen_base_url")
	cfg.LLM.EigenModel = v.GetString("llm.eigen_model")
	cfg.LLM.OpenAIAPIKey = v.GetString("llm.openai_api_key")
	cfg.LLM.OpenAIBaseURL = v.GetString("llm.openai_base_url")
	cfg.LLM.OpenAIModel = v.GetString("llm.openai_model")
	cfg.LLM.Timeout = v.GetDuration("llm.timeout")
	cfg.LLM.RatePerSec = v.GetFloat64("llm.rate_per_sec")
	cfg.LLM.Burst = v.GetInt("llm.burst")

	// невалидное число дает 0, исполнение такую сумму отвергает
	cfg.Trading.MaxTradeUSD = v.GetFloat64("trading.max_trade_usd")
	cfg.Trading.MinimumConfidence = v.GetInt("trading.minimum_confidence")
	cfg.Trading.Testing = v.GetBool("trading.testing")
	cfg.Trading.Influencers = ParseList(v.GetString("trading.influencers"), false)
	cfg.Trading.TweetMaxAge = time.Duration(v.GetInt("trading.tweet_max_age_hours")) * time.Hour
	cfg.Trading.Workers = v.GetInt("trading.workers")
	cfg.Trading.QueueSize = v.GetInt("trading.queue_size")

	cfg.Hyperliquid.Enabled = !v.GetBool("hyperliquid.disabled")
	cfg.Hyperliquid.Environment = EnvTestnet
	if strings.EqualFold(v.GetString("hyperliquid.environment"), EnvMainnet) {
		cfg.Hyperliquid.Environment = EnvMainnet
	}
	cfg.Hyperliquid.AllowedMarkets = ParseList(v.GetString("hyperliquid.allowed_markets"), true)
	cfg.Hyperliquid.SlippageBps = v.GetFloat64("hyperliquid.slippage_bps")
	cfg.Hyperliquid.TimeInForce = v.GetString("hyperliquid.time_in_force")
	cfg.Hyperliquid.ExplorerURL = v.GetString("hyperliquid.explorer_url")
	cfg.Hyperliquid.PrivateKey = strings.TrimSpace(v.GetString("hyperliquid.private_key"))
	cfg.Hyperliquid.RoutingFile = v.GetString("hyperliquid.routing_file")
	cfg.Hyperliquid.RequestTimeout = v.GetDuration("hyperliquid.request_timeout")
	cfg.Hyperliquid.StreamMids = v.GetBool("hyperliquid.stream_mids")

	cfg.Retry.MaxAttempts = v.GetInt("retry.max_attempts")
	cfg.Retry.InitialInterval = v.GetDuration("retry.initial_interval")
	cfg.Retry.MaxInterval = v.GetDuration("retry.max_interval")

	return cfg
}

// ParseList разбирает список через запятую. Пустая строка и "*" дают nil.
func ParseList(raw string, upper bool) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "*" {
		return nil
	}

	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if upper {
			item = strings.ToUpper(item)
		}
		out = append(out, item)
	}
	return out
}
