package notify

import (
	"testing"
	"time"

	"hype_signal/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatSummary(t *testing.T) {
	assert.Equal(t, "📭 Открытых позиций нет", FormatSummary(models.PositionsSummary{}))

	px := 2500.0
	held := 3.0
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := FormatSummary(models.PositionsSummary{
		TotalPositions: 2,
		TotalValue:     1.5,
		Positions: []models.PositionSummary{
			{ID: "1", Token: "ETH", Amount: 0.5, PurchaseTime: &ts, HoursHeld: &held, MarketPriceUSD: &px, Influencer: "loomdart", Source: models.SourceLocal},
			{ID: "hyperliquid-SOL", Token: "SOL", Amount: 1, Influencer: "synced", Source: models.SourceSynced},
		},
	})

	assert.Contains(t, out, "Позиции: 2")
	assert.Contains(t, out, "- ETH amount=0.500000 px=$2500.0000 held=3.0h @loomdart")
	assert.Contains(t, out, "- SOL amount=1.000000 [synced]")
}

func TestStdout_DoesNotPanic(t *testing.T) {
	var n Notifier = NewStdout()
	n.Send("hello")
	n.Sendf("value %d", 1)
}
