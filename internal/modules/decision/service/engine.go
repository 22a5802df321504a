package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"hype_signal/internal/models"
	"hype_signal/pkg/logger"

	"github.com/opentracing/opentracing-go"
)

const (
	reasonNoMentions   = "No confident token mentions were found in the post"
	reasonNoConviction = "No bullish conviction across tokens"
)

// SignalSource две независимые экстракции из текста поста.
type SignalSource interface {
	AnalyzeSentiment(ctx context.Context, text string, mentions []string) models.SentimentResult
	DeriveTokenSignals(ctx context.Context, text string, seeds []string) []models.TokenSignal
}

type Engine struct {
	source        SignalSource
	minConfidence int
}

func NewEngine(source SignalSource, minConfidence int) *Engine {
	return &Engine{source: source, minConfidence: minConfidence}
}

// Decide запускает обе экстракции параллельно и применяет Evaluate.
func (e *Engine) Decide(ctx context.Context, text string, seeds []string) models.TradeDecision {
	span, ctx := opentracing.StartSpanFromContext(ctx, "decision.Decide")
	defer span.Finish()

	var (
		wg        sync.WaitGroup
		sentiment models.SentimentResult
		signals   []models.TokenSignal
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		sentiment = e.source.AnalyzeSentiment(ctx, text, seeds)
	}()
	go func() {
		defer wg.Done()
		signals = e.source.DeriveTokenSignals(ctx, text, seeds)
	}()
	wg.Wait()

	d := Evaluate(sentiment, signals, e.minConfidence)
	span.SetTag("should_trade", d.ShouldTrade)
	logger.Info("[TRADE_DECISION] trade=%t tokens=%v reason=%s", d.ShouldTrade, d.Tokens, d.Reason)
	return d
}

// Evaluate правило допуска сделки, без побочных эффектов.
func Evaluate(sentiment models.SentimentResult, signals []models.TokenSignal, minConfidence int) models.TradeDecision {
	noTrade := func(reason string) models.TradeDecision {
		return models.TradeDecision{
			ShouldTrade:   false,
			Reason:        reason,
			Tokens:        []string{},
			SentimentData: sentiment,
		}
	}

	if len(signals) == 0 {
		return noTrade(reasonNoMentions)
	}

	var bullish []models.TokenSignal
	for _, s := range signals {
		if s.Sentiment == models.SentimentBullish && s.Conviction >= minConfidence {
			bullish = append(bullish, s)
		}
	}
	if len(bullish) == 0 {
		return noTrade(noConvictionReason(signals))
	}

	overallPositive := sentiment.IsPositive && sentiment.Sentiment != models.SentimentBearish
	// общий проход деградировал до fallback, но сигналы по токенам есть
	override := !overallPositive && sentiment.Confidence == 0
	if !overallPositive && !override {
		return noTrade(fmt.Sprintf("%s sentiment (%d%% confidence): %s",
			strings.ToUpper(string(sentiment.Sentiment)), sentiment.Confidence, sentiment.Reasoning))
	}

	tokens := make([]string, 0, len(bullish))
	details := make([]string, 0, len(bullish))
	seen := make(map[string]struct{}, len(bullish))
	for _, s := range bullish {
		if _, ok := seen[s.Token]; !ok {
			seen[s.Token] = struct{}{}
			tokens = append(tokens, s.Token)
		}
		details = append(details, fmt.Sprintf("%s (%d%%): %s", s.Token, s.Conviction, s.Reasoning))
	}

	return models.TradeDecision{
		ShouldTrade:   true,
		Reason:        "Bullish signals: " + strings.Join(details, " | "),
		Tokens:        tokens,
		SentimentData: sentiment,
	}
}

// strongest по conviction, при равенстве первый
func noConvictionReason(signals []models.TokenSignal) string {
	var best *models.TokenSignal
	for i := range signals {
		if best == nil || signals[i].Conviction > best.Conviction {
			best = &signals[i]
		}
	}
	if best == nil || best.Token == "" {
		return reasonNoConviction
	}
	return fmt.Sprintf("No bullish conviction. Strongest signal was %s (%s %d): %s",
		best.Token, best.Sentiment, best.Conviction, best.Reasoning)
}
