package models

import "strings"

type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
)

// ParseSentiment приводит произвольную строку к одному из трех значений.
func ParseSentiment(s string) Sentiment {
	switch v := Sentiment(strings.ToLower(strings.TrimSpace(s))); v {
	case SentimentBullish, SentimentBearish, SentimentNeutral:
		return v
	default:
		return SentimentNeutral
	}
}

type MentionType string

const (
	MentionCashtag   MentionType = "cashtag"
	MentionTicker    MentionType = "ticker"
	MentionProject   MentionType = "project"
	MentionNarrative MentionType = "narrative"
	MentionOther     MentionType = "other"
)

func ParseMentionType(s string) MentionType {
	switch v := MentionType(strings.ToLower(strings.TrimSpace(s))); v {
	case MentionCashtag, MentionTicker, MentionProject, MentionNarrative:
		return v
	default:
		return MentionOther
	}
}

type TokenSignal struct {
	Token       string      `json:"token"`
	Sentiment   Sentiment   `json:"sentiment"`
	Conviction  int         `json:"conviction"`
	Reasoning   string      `json:"reasoning"`
	Evidence    string      `json:"evidence,omitempty"`
	MentionType MentionType `json:"mentionType"`
}

type SentimentResult struct {
	Sentiment  Sentiment `json:"sentiment"`
	Confidence int       `json:"confidence"`
	Reasoning  string    `json:"reasoning"`
	IsPositive bool      `json:"isPositive"`
	Tokens     []string  `json:"tokens"`
}

type TradeDecision struct {
	ShouldTrade   bool            `json:"shouldTrade"`
	Reason        string          `json:"reason"`
	Tokens        []string        `json:"tokens"`
	SentimentData SentimentResult `json:"sentimentData"`
}
