package service

import (
	"context"
	"os"
	"testing"
	"time"

	"hype_signal/internal/models"
	"hype_signal/pkg/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPgStore поднимает postgres в контейнере. Нужен docker, поэтому тест включается
// переменной HYPESIGNAL_PG_TESTS=1.
func setupPgStore(t *testing.T) *PgStore {
	t.Helper()
	if os.Getenv("HYPESIGNAL_PG_TESTS") != "1" {
		t.Skip("HYPESIGNAL_PG_TESTS != 1")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := db.NewPool(ctx, db.PoolConfig{DSN: dsn})
	require.NoError(t, err)
	tm := db.NewPgTxManager(pool)
	t.Cleanup(tm.Close)

	store := NewPgStore(tm)
	require.NoError(t, store.Migrate(ctx))
	return store
}

func TestPgStore_Positions(t *testing.T) {
	store := setupPgStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	p := holding("p1", "eth", now)
	p.ProfileImageURL = "https://img/1.png"
	require.NoError(t, store.SavePosition(ctx, p))

	ok, err := store.HasHoldingPosition(ctx, "ETH")
	require.NoError(t, err)
	assert.True(t, ok)

	err = store.SavePosition(ctx, holding("p2", "ETH", now))
	assert.ErrorIs(t, err, ErrDuplicateHolding)

	got, err := store.GetHoldingPositions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ETH", got[0].Token)
	assert.Equal(t, "https://img/1.png", got[0].ProfileImageURL)
	assert.Equal(t, models.PositionHolding, got[0].Status)
	assert.True(t, now.Equal(got[0].PurchaseTime))
	assert.Nil(t, got[0].SellTime)
}

func TestPgStore_ProcessedPosts(t *testing.T) {
	store := setupPgStore(t)
	ctx := context.Background()

	ok, err := store.IsPostProcessed(ctx, "42")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.MarkPostProcessed(ctx, "42"))
	require.NoError(t, store.MarkPostProcessed(ctx, "42"))

	ok, err = store.IsPostProcessed(ctx, "42")
	require.NoError(t, err)
	assert.True(t, ok)
}
