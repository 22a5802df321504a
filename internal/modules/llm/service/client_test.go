package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_InferAPIKeyHeader(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Empty(t, r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, sonic.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"sentiment\":\"bullish\"}"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		BaseURL: srv.URL + "/v1/",
		APIKey:  "secret",
		Model:   "gemma-3-27b-it-q4",
		Auth:    AuthAPIKeyHeader,
	})
	text, err := c.Infer(context.Background(), Prompt{System: "sys", User: "usr", MaxTokens: 200, Temperature: 0.1})
	require.NoError(t, err)

	assert.Equal(t, `{"sentiment":"bullish"}`, text)
	assert.Equal(t, "gemma-3-27b-it-q4", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "usr", got.Messages[1].Content)
	assert.Equal(t, 200, got.MaxTokens)
}

func TestClient_InferBearerAndErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "k", Model: "gpt-4o-mini"})
	_, err := c.Infer(context.Background(), Prompt{User: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm http 503")
}

func TestClient_InferTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Infer(context.Background(), Prompt{User: "x"})
	assert.Error(t, err)
}

func TestClient_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient(ClientConfig{BaseURL: srv.URL}).Infer(context.Background(), Prompt{})
	assert.Error(t, err)
}

func TestCached_WithoutRedisPassesThrough(t *testing.T) {
	calls := 0
	next := OracleFunc(func(context.Context, Prompt) (string, error) {
		calls++
		return "ok", nil
	})
	c := NewCached(next, nil, "m", time.Minute)

	for i := 0; i < 2; i++ {
		text, err := c.Infer(context.Background(), Prompt{User: "x"})
		require.NoError(t, err)
		assert.Equal(t, "ok", text)
	}
	assert.Equal(t, 2, calls)
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("m", Prompt{User: "x", MaxTokens: 1})
	assert.Equal(t, a, CacheKey("m", Prompt{User: "x", MaxTokens: 1}))
	assert.NotEqual(t, a, CacheKey("m", Prompt{User: "y", MaxTokens: 1}))
	assert.NotEqual(t, a, CacheKey("other", Prompt{User: "x", MaxTokens: 1}))
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Infer(context.Background(), Prompt{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
