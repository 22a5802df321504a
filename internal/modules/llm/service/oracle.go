package service

import (
	"context"
	"errors"
)

// ErrNotConfigured нет ни одного ключа провайдера.
var ErrNotConfigured = errors.New("llm: set either EIGENAI_API_KEY or OPENAI_API_KEY")

type Prompt struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Oracle генерация текста по промпту. Ответ свободный текст, может быть в ```-блоке.
type Oracle interface {
	Infer(ctx context.Context, p Prompt) (string, error)
}

type OracleFunc func(ctx context.Context, p Prompt) (string, error)

func (f OracleFunc) Infer(ctx context.Context, p Prompt) (string, error) { return f(ctx, p) }

// Disabled оракул без ключей, всегда ErrNotConfigured.
type Disabled struct{}

func (Disabled) Infer(context.Context, Prompt) (string, error) { return "", ErrNotConfigured }
