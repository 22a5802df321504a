package service

import (
	"testing"

	"hype_signal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```JSON {\"a\":1}```":    `{"a":1}`,
		"```\n[1]\n```":           `[1]`,
		"  {\"a\":1}  ":           `{"a":1}`,
	}
	for in, want := range cases {
		assert.Equal(t, want, StripCodeFence(in), in)
	}
}

func TestExtractJSONArray(t *testing.T) {
	got, err := ExtractJSONArray("Sure! Here you go: [\"ETH\", \"SOL\"] hope it helps")
	require.NoError(t, err)
	assert.Equal(t, `["ETH", "SOL"]`, got)

	_, err = ExtractJSONArray("no tickers")
	assert.Error(t, err)
}

func TestParseSentiment(t *testing.T) {
	res, err := ParseSentiment("```json\n{\"sentiment\":\"BULLISH\",\"confidence\":\"85\",\"reasoning\":\"strong buy\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentBullish, res.Sentiment)
	assert.Equal(t, 85, res.Confidence)
	assert.Equal(t, "strong buy", res.Reasoning)

	res, err = ParseSentiment(`{"sentiment":"moon","confidence":250}`)
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNeutral, res.Sentiment)
	assert.Equal(t, 100, res.Confidence)

	for _, bad := range []string{"", `{"sentiment":"bullish"`, "I think it's bullish", "[1,2]"} {
		_, err := ParseSentiment(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseSignals(t *testing.T) {
	raw := `{"signals":[
		{"token":" sol ","sentiment":"Bullish","conviction":82.6,"reasoning":"accumulating","mentionType":"cashtag"},
		{"token":"","sentiment":"bullish","conviction":90},
		{"token":"eth","sentiment":"??","mentionType":"weird"}
	],"notes":"x"}`

	got, err := ParseSignals(raw)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, models.TokenSignal{
		Token:       "SOL",
		Sentiment:   models.SentimentBullish,
		Conviction:  82,
		Reasoning:   "accumulating",
		MentionType: models.MentionCashtag,
	}, got[0])
	assert.Equal(t, "ETH", got[1].Token)
	assert.Equal(t, models.SentimentNeutral, got[1].Sentiment)
	assert.Equal(t, 0, got[1].Conviction)
	assert.Equal(t, models.MentionOther, got[1].MentionType)
}

func TestParseSignals_Failures(t *testing.T) {
	for _, bad := range []string{`{"notes":"none"}`, `{"signals":`, "nope", `{"signals":"SOL"}`} {
		_, err := ParseSignals(bad)
		assert.Error(t, err, bad)
	}

	got, err := ParseSignals(`{"signals":[]}`)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseStringArray(t *testing.T) {
	got, err := ParseStringArray("```json\n[\"Uniswap\", \" \", \"Arbitrum\"]\n```", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Uniswap", "Arbitrum"}, got)

	_, err = ParseStringArray("Projects: [\"A\"]", false)
	assert.Error(t, err)

	got, err = ParseStringArray("Projects: [\"A\"]", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, got)
}

func TestParseSignals_FractionalConvictionNotRoundedUp(t *testing.T) {
	got, err := ParseSignals(`{"signals":[{"token":"SOL","sentiment":"bullish","conviction":69.5,"reasoning":"close"},
		{"token":"ETH","sentiment":"bullish","conviction":"99.9%"}]}`)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 69, got[0].Conviction)
	assert.Equal(t, 99, got[1].Conviction)

	res, err := ParseSentiment(`{"sentiment":"bullish","confidence":69.99,"reasoning":"x"}`)
	require.NoError(t, err)
	assert.Equal(t, 69, res.Confidence)
}
