package service

import (
	"context"
	"testing"
	"time"

	"hype_signal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoClient_BestAsk(t *testing.T) {
	f, srv := newFakeAPI(t)
	f.info["l2Book"] = `{"coin":"ETH","time":1,"levels":[[{"px":"99.5","sz":"1","n":1}],[{"px":"100","sz":"2","n":3},{"px":"101","sz":"5","n":1}]]}`

	px, err := NewInfoClient(NewTransport(srv.URL, time.Second)).BestAsk(context.Background(), "ETH")
	require.NoError(t, err)
	assert.Equal(t, 100.0, px)
}

func TestInfoClient_BestAskEmptyBook(t *testing.T) {
	f, srv := newFakeAPI(t)
	f.info["l2Book"] = `{"coin":"ETH","time":1,"levels":[[],[]]}`

	_, err := NewInfoClient(NewTransport(srv.URL, time.Second)).BestAsk(context.Background(), "ETH")
	assert.ErrorIs(t, err, ErrNoAsks)
}

func TestInfoClient_HTTPError(t *testing.T) {
	_, srv := newFakeAPI(t)

	_, err := NewInfoClient(NewTransport(srv.URL, time.Second)).AllMids(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 422")
}

func TestInfoClient_Positions(t *testing.T) {
	f, srv := newFakeAPI(t)
	f.info["clearinghouseState"] = `{"assetPositions":[
		{"position":{"coin":"sol","szi":"12.5"},"type":"oneWay"},
		{"position":{"coin":"ETH","szi":"0.0"},"type":"oneWay"},
		{"position":{"coin":"ENA","szi":"-3"},"type":"oneWay"}]}`

	got, err := NewInfoClient(NewTransport(srv.URL, time.Second)).Positions(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Equal(t, []models.AccountPosition{{Coin: "SOL", Size: 12.5}, {Coin: "ENA", Size: -3}}, got)
}

func TestInfoClient_AllMids(t *testing.T) {
	f, srv := newFakeAPI(t)
	f.info["allMids"] = `{"ETH":"2501.5","SOL":"101","@107":"22.1","BAD":"x"}`

	got, err := NewInfoClient(NewTransport(srv.URL, time.Second)).AllMids(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"ETH": 2501.5, "SOL": 101, "@107": 22.1}, got)
}

func TestInfoClient_BestAskRejectsNonFinite(t *testing.T) {
	for _, px := range []string{"NaN", "Inf", "-Inf", "0"} {
		f, srv := newFakeAPI(t)
		f.info["l2Book"] = `{"coin":"ETH","time":1,"levels":[[],[{"px":"` + px + `","sz":"1","n":1}]]}`

		_, err := NewInfoClient(NewTransport(srv.URL, time.Second)).BestAsk(context.Background(), "ETH")
		assert.Error(t, err, px)
	}
}

func TestInfoClient_SpotBalances(t *testing.T) {
	f, srv := newFakeAPI(t)
	f.info["spotClearinghouseState"] = `{"balances":[
		{"coin":"USDC","token":0,"hold":"0.0","total":"14.6","entryNtl":"0.0"},
		{"coin":"purr","token":1,"hold":"0.0","total":"120","entryNtl":"22.1"},
		{"coin":"HYPE","token":150,"hold":"0.0","total":"0.0","entryNtl":"0.0"}]}`

	got, err := NewInfoClient(NewTransport(srv.URL, time.Second)).SpotBalances(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Equal(t, []models.AccountPosition{{Coin: "USDC", Size: 14.6}, {Coin: "PURR", Size: 120}}, got)
}
