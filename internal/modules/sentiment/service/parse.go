package service

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"hype_signal/internal/models"

	"github.com/bytedance/sonic"
)

var (
	errNoSignals   = errors.New("response has no signals array")
	errNoJSONArray = errors.New("no JSON array found in response")

	jsonArrayRe = regexp.MustCompile(`(?s)\[.*\]`)
)

// StripCodeFence снимает обертку ```json ... ``` или ``` ... ```.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "```json"):
		s = s[len("```json"):]
	case strings.HasPrefix(s, "```"):
		s = s[3:]
	default:
		return s
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ExtractJSONArray ищет первый [...] в ответе, если он не целиком массив.
func ExtractJSONArray(raw string) (string, error) {
	s := StripCodeFence(raw)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return s, nil
	}
	if m := jsonArrayRe.FindString(s); m != "" {
		return m, nil
	}
	return "", errNoJSONArray
}

// score целое 0..100, принимает число или строку с числом. Дробная часть отбрасывается,
// иначе 69.5 прошло бы порог 70.
type score int

func (s *score) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*s = 0
		return nil
	}
	if b[0] == '"' {
		unq, err := strconv.Unquote(string(b))
		if err != nil {
			return err
		}
		b = []byte(strings.TrimSuffix(strings.TrimSpace(unq), "%"))
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*s = 0
		return nil
	}
	*s = score(clamp(int(math.Floor(f))))
	return nil
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

type sentimentPayload struct {
	Sentiment  string `json:"sentiment"`
	Confidence score  `json:"confidence"`
	Reasoning  string `json:"reasoning"`
}

// ParseSentiment разбирает ответ оракула об общем настроении поста.
// Tokens и IsPositive заполняет вызывающий.
func ParseSentiment(raw string) (models.SentimentResult, error) {
	var p sentimentPayload
	if err := sonic.UnmarshalString(StripCodeFence(raw), &p); err != nil {
		return models.SentimentResult{}, fmt.Errorf("parse sentiment: %w", err)
	}
	return models.SentimentResult{
		Sentiment:  models.ParseSentiment(p.Sentiment),
		Confidence: int(p.Confidence),
		Reasoning:  p.Reasoning,
	}, nil
}

type signalPayload struct {
	Token       string `json:"token"`
	Sentiment   string `json:"sentiment"`
	Conviction  score  `json:"conviction"`
	Reasoning   string `json:"reasoning"`
	Evidence    string `json:"evidence"`
	MentionType string `json:"mentionType"`
}

type signalsPayload struct {
	Signals *[]signalPayload `json:"signals"`
	Notes   string           `json:"notes"`
}

// ParseSignals разбирает {"signals":[...]}. Отсутствие массива считается ошибкой разбора.
func ParseSignals(raw string) ([]models.TokenSignal, error) {
	var p signalsPayload
	if err := sonic.UnmarshalString(StripCodeFence(raw), &p); err != nil {
		return nil, fmt.Errorf("parse signals: %w", err)
	}
	if p.Signals == nil {
		return nil, errNoSignals
	}

	out := make([]models.TokenSignal, 0, len(*p.Signals))
	for _, s := range *p.Signals {
		token := strings.ToUpper(strings.TrimSpace(s.Token))
		if token == "" {
			continue
		}
		out = append(out, models.TokenSignal{
			Token:       token,
			Sentiment:   models.ParseSentiment(s.Sentiment),
			Conviction:  int(s.Conviction),
			Reasoning:   s.Reasoning,
			Evidence:    s.Evidence,
			MentionType: models.ParseMentionType(s.MentionType),
		})
	}
	return out, nil
}

// ParseStringArray разбирает массив строк, пустые элементы выкидывает.
func ParseStringArray(raw string, findArray bool) ([]string, error) {
	s := StripCodeFence(raw)
	if findArray {
		var err error
		if s, err = ExtractJSONArray(s); err != nil {
			return nil, err
		}
	}

	var items []string
	if err := sonic.UnmarshalString(s, &items); err != nil {
		return nil, fmt.Errorf("parse string array: %w", err)
	}
	out := items[:0]
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out, nil
}
