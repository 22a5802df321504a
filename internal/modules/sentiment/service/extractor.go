package service

import (
	"context"
	"regexp"
	"strings"

	"hype_signal/internal/models"
	llm "hype_signal/internal/modules/llm/service"
	"hype_signal/pkg/logger"
)

const (
	fallbackSentimentReason = "Failed to analyze sentiment"
	fallbackSignalReason    = "Fallback after signal extraction failure"

	excludedTicker = "BTC"
)

var cashtagRe = regexp.MustCompile(`\$([A-Z]{2,10})\b`)

var genericProjectKeywords = map[string]struct{}{
	"crypto":           {},
	"cryptocurrency":   {},
	"cryptocurrencies": {},
	"market":           {},
	"markets":          {},
	"token":            {},
	"tokens":           {},
	"project":          {},
	"projects":         {},
	"defi":             {},
	"blockchain":       {},
	"web3":             {},
}

// Extractor получает сигналы по токенам из текста поста через оракул.
// Ни один метод не возвращает ошибку: сбой оракула сводится к консервативному fallback.
type Extractor struct {
	oracle        llm.Oracle
	minConfidence int
}

func NewExtractor(oracle llm.Oracle, minConfidence int) *Extractor {
	return &Extractor{oracle: oracle, minConfidence: minConfidence}
}

func (e *Extractor) MinConfidence() int { return e.minConfidence }

// ExtractCashtags вытаскивает $TICKER без сети, порядок первого появления.
func ExtractCashtags(text string) []string {
	var out []string
	for _, m := range cashtagRe.FindAllStringSubmatch(text, -1) {
		out = appendUnique(out, m[1])
	}
	return out
}

// ExtractTokenMentions кэштеги плюс тикеры, которые оракул сопоставил названным проектам.
func (e *Extractor) ExtractTokenMentions(ctx context.Context, text string) []string {
	cashtags := ExtractCashtags(text)
	logger.Debug("[TOKENS] cashtags: %v", cashtags)

	projects := e.extractProjects(ctx, text)
	var tickers []string
	if len(projects) > 0 {
		tickers = e.mapProjectsToTickers(ctx, projects)
	}

	tokens := append([]string(nil), cashtags...)
	for _, t := range tickers {
		tokens = appendUnique(tokens, t)
	}
	logger.Info("[TOKENS] combined tokens: %v (cashtags=%d, mapped=%d)", tokens, len(cashtags), len(tickers))
	return tokens
}

func (e *Extractor) extractProjects(ctx context.Context, text string) []string {
	raw, err := e.oracle.Infer(ctx, projectsPrompt(text))
	if err != nil {
		logger.Error("[PROJECTS] oracle failed: %v", err)
		return nil
	}
	projects, err := ParseStringArray(raw, false)
	if err != nil {
		logger.Error("[PROJECTS] bad response %q: %v", raw, err)
		return nil
	}
	return projects
}

func (e *Extractor) mapProjectsToTickers(ctx context.Context, projects []string) []string {
	var specific []string
	for _, p := range projects {
		if _, generic := genericProjectKeywords[strings.ToLower(p)]; !generic {
			specific = append(specific, p)
		}
	}
	if len(specific) == 0 {
		return nil
	}

	raw, err := e.oracle.Infer(ctx, tickersPrompt(specific))
	if err != nil {
		logger.Error("[TICKERS] oracle failed: %v", err)
		return nil
	}
	tickers, err := ParseStringArray(raw, true)
	if err != nil {
		logger.Error("[TICKERS] bad response %q: %v", raw, err)
		return nil
	}

	var out []string
	for _, t := range tickers {
		t = strings.ToUpper(t)
		if t == excludedTicker {
			continue
		}
		out = appendUnique(out, t)
	}
	return out
}

// AnalyzeSentiment общее настроение поста. mentions уже извлеченные ExtractTokenMentions.
func (e *Extractor) AnalyzeSentiment(ctx context.Context, text string, mentions []string) models.SentimentResult {
	raw, err := e.oracle.Infer(ctx, sentimentPrompt(text))
	if err != nil {
		logger.Error("[SENTIMENT] oracle failed, using fallback: %v", err)
		return FallbackSentiment(ExtractCashtags(text))
	}

	res, err := ParseSentiment(raw)
	if err != nil {
		logger.Error("[SENTIMENT] bad response %q, using fallback: %v", raw, err)
		return FallbackSentiment(ExtractCashtags(text))
	}

	res.Tokens = append([]string{}, mentions...)
	res.IsPositive = res.Sentiment == models.SentimentBullish && res.Confidence >= e.minConfidence
	logger.Info("[SENTIMENT] %s %d%% positive=%t tokens=%v", res.Sentiment, res.Confidence, res.IsPositive, res.Tokens)
	return res
}

// DeriveTokenSignals сигналы по каждому явно упомянутому токену.
func (e *Extractor) DeriveTokenSignals(ctx context.Context, text string, seeds []string) []models.TokenSignal {
	raw, err := e.oracle.Infer(ctx, signalsPrompt(text, seeds))
	if err != nil {
		logger.Error("[SIGNALS] oracle failed, using fallback: %v", err)
		return FallbackSignals(seeds)
	}

	signals, err := ParseSignals(raw)
	if err != nil {
		logger.Error("[SIGNALS] bad response %q, using fallback: %v", raw, err)
		return FallbackSignals(seeds)
	}
	logger.Info("[SIGNALS] %d signals derived", len(signals))
	return signals
}

// FallbackSentiment результат при недоступном оракуле. Confidence 0 этим и отличается.
func FallbackSentiment(cashtags []string) models.SentimentResult {
	return models.SentimentResult{
		Sentiment:  models.SentimentNeutral,
		Confidence: 0,
		Reasoning:  fallbackSentimentReason,
		IsPositive: false,
		Tokens:     cashtags,
	}
}

// FallbackSignals каждый seed как нейтральный сигнал с нулевой уверенностью.
func FallbackSignals(seeds []string) []models.TokenSignal {
	out := make([]models.TokenSignal, 0, len(seeds))
	for _, s := range seeds {
		out = append(out, models.TokenSignal{
			Token:       strings.ToUpper(s),
			Sentiment:   models.SentimentNeutral,
			Conviction:  0,
			Reasoning:   fallbackSignalReason,
			MentionType: models.MentionCashtag,
		})
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
