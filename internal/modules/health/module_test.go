package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hype_signal/internal/models"
	"hype_signal/internal/modules/health/service"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reporter struct {
	summary models.PositionsSummary
	err     error
}

func (r reporter) Summary(context.Context) (models.PositionsSummary, error) { return r.summary, r.err }

func do(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestLivezReadyz(t *testing.T) {
	state := service.NewState()
	mux := NewMux(state, reporter{}, make(chan models.RawPost, 1))

	assert.Equal(t, http.StatusOK, do(t, mux, http.MethodGet, "/livez", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, mux, http.MethodGet, "/readyz", "").Code)

	state.SetReady(true)
	state.PostReceived(time.Unix(1700000000, 0))
	state.PostHandled()
	state.TradeExecuted()
	assert.Equal(t, http.StatusOK, do(t, mux, http.MethodGet, "/readyz", "").Code)

	rec := do(t, mux, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap service.Snapshot
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &snap))
	assert.True(t, snap.Ready)
	assert.EqualValues(t, 1, snap.PostsReceived)
	assert.EqualValues(t, 1, snap.PostsProcessed)
	assert.EqualValues(t, 1, snap.TradesExecuted)
	assert.EqualValues(t, 1700000000, snap.LastPostUnix)
}

func TestPositions(t *testing.T) {
	summary := models.PositionsSummary{
		TotalPositions: 1,
		TotalValue:     2,
		Positions:      []models.PositionSummary{{ID: "hyperliquid-SOL", Token: "SOL", Amount: 2, Source: models.SourceSynced}},
	}
	mux := NewMux(service.NewState(), reporter{summary: summary}, make(chan models.RawPost, 1))

	rec := do(t, mux, http.MethodGet, "/positions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalPositions":1`)
	assert.Contains(t, rec.Body.String(), `"source":"synced"`)
	assert.Contains(t, rec.Body.String(), `"marketPriceUsd":null`)

	mux = NewMux(service.NewState(), reporter{err: errors.New("db down")}, make(chan models.RawPost, 1))
	rec = do(t, mux, http.MethodGet, "/positions", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "db down")
}

func TestPostIngest(t *testing.T) {
	posts := make(chan models.RawPost, 1)
	mux := NewMux(service.NewState(), reporter{}, posts)

	body := `{"id":"123","authorHandle":"loomdart","text":"$ETH looks ready","createdAt":"2024-05-01T12:00:00Z"}`
	rec := do(t, mux, http.MethodPost, "/posts", body)
	require.Equal(t, http.StatusAccepted, rec.Code)

	got := <-posts
	assert.Equal(t, "123", got.ID)
	assert.Equal(t, "loomdart", got.AuthorHandle)
	assert.True(t, got.CreatedAt.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))

	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodPost, "/posts", `{"id":"","text":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodPost, "/posts", `not json`).Code)

	// очередь заполнена
	require.Equal(t, http.StatusAccepted, do(t, mux, http.MethodPost, "/posts", body).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, mux, http.MethodPost, "/posts", body).Code)

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, mux, http.MethodGet, "/posts", "").Code)
}
