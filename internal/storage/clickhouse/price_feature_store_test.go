package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"
	"github.com/agorla23/aws-ml-portfolio-intelligence/internal/storage"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestPriceFeatureStore_InsertAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceFeatureStore(conn)
	ctx := context.Background()

	_, err := store.GetAll(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	rows := []*domain.PriceFeatureRow{
		{Ticker: "MRK", Date: day(2), AdjClose: 101, Return: ptr(0.01), LogReturn: ptr(0.00995)},
		{Ticker: "LLY", Date: day(2), AdjClose: 600, Return: ptr(-0.02)},
		{Ticker: "MRK", Date: day(1), AdjClose: 100},
	}
	require.NoError(t, store.InsertBulk(ctx, rows))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "LLY", all[0].Ticker)
	assert.Equal(t, "MRK", all[1].Ticker)
	assert.True(t, day(1).Equal(all[1].Date))
	assert.Nil(t, all[1].Return)
	require.NotNil(t, all[2].Return)
	assert.InDelta(t, 0.01, *all[2].Return, 1e-12)
	assert.Nil(t, all[2].Vol20D)

	mrk, err := store.GetByTicker(ctx, "mrk")
	require.NoError(t, err)
	assert.Len(t, mrk, 2)

	none, err := store.GetByTicker(ctx, "PFE")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPriceFeatureStore_Duplicates(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceFeatureStore(conn)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.PriceFeatureRow{{Ticker: "MRK", Date: day(1), AdjClose: 100}}))

	err := store.InsertBulk(ctx, []*domain.PriceFeatureRow{
		{Ticker: "PFE", Date: day(1), AdjClose: 30},
		{Ticker: "MRK", Date: day(1), AdjClose: 100},
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	err = store.InsertBulk(ctx, []*domain.PriceFeatureRow{
		{Ticker: "ABBV", Date: day(1), AdjClose: 150},
		{Ticker: "ABBV", Date: day(1), AdjClose: 151},
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Neither failing batch wrote anything.
	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
