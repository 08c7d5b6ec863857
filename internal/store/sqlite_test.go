package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/swaplib/internal/store"
	"github.com/meenmo/swaplib/null"
)

func openMemory(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func makeRun(tradeID string, npv float64, created time.Time) *store.Run {
	return &store.Run{
		TradeID:        tradeID,
		Index:          "EURIBOR6M",
		Side:           "PAY",
		Nominal:        10_000_000,
		FixedRate:      0.024,
		Spread:         0.001,
		EvaluationDate: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		NPV:            null.FloatFrom(npv),
		FixedLegNPV:    null.FloatFrom(-1_100_000),
		FloatingLegNPV: null.FloatFrom(1_100_000 + npv),
		FixedLegBPS:    null.FloatFrom(-4_650),
		FloatingLegBPS: null.FloatFrom(4_700),
		FairRate:       null.FloatFrom(0.0241),
		CreatedAt:      created,
	}
}

func TestStore_SaveAndLatest(t *testing.T) {
	t.Parallel()
	s := openMemory(t)
	ctx := context.Background()

	now := time.Now().UTC()
	first := makeRun("eur-5y", 1200.5, now.Add(-time.Hour))
	second := makeRun("eur-5y", -300.25, now)
	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, second))

	_, err := uuid.Parse(first.ID)
	require.NoError(t, err, "Save assigns a UUID")
	assert.NotEqual(t, first.ID, second.ID)

	latest, err := s.Latest(ctx, "eur-5y")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.InDelta(t, -300.25, latest.NPV.Or(0), 1e-9)
	assert.Equal(t, second.EvaluationDate, latest.EvaluationDate)
	assert.Equal(t, second.CreatedAt.UnixNano(), latest.CreatedAt.UnixNano())
	assert.True(t, latest.FairSpread.IsNull(), "null results round-trip as NULL")
	assert.InDelta(t, 0.0241, latest.FairRate.Or(0), 1e-15)
}

func TestStore_ListByTrade(t *testing.T) {
	t.Parallel()
	s := openMemory(t)
	ctx := context.Background()

	base := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Save(ctx, makeRun("a", float64(i), base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, s.Save(ctx, makeRun("b", 99, base)))

	runs, err := s.ListByTrade(ctx, "a", 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.InDelta(t, 2, runs[0].NPV.Or(-1), 1e-12, "newest first")
	assert.InDelta(t, 0, runs[2].NPV.Or(-1), 1e-12)

	runs, err = s.ListByTrade(ctx, "a", 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	recent, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "a", recent[0].TradeID)

	none, err := s.ListByTrade(ctx, "missing", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_LatestNotFound(t *testing.T) {
	t.Parallel()
	s := openMemory(t)

	_, err := s.Latest(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_SaveValidates(t *testing.T) {
	t.Parallel()
	s := openMemory(t)
	ctx := context.Background()

	r := makeRun("", 0, time.Time{})
	assert.Error(t, s.Save(ctx, r))

	r = makeRun("x", 0, time.Time{})
	r.EvaluationDate = time.Time{}
	assert.Error(t, s.Save(ctx, r))

	r = makeRun("x", 0, time.Time{})
	require.NoError(t, s.Save(ctx, r))
	assert.False(t, r.CreatedAt.IsZero())
	assert.Error(t, s.Save(ctx, r), "duplicate id")
}

func TestStore_Prune(t *testing.T) {
	t.Parallel()
	s := openMemory(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, s.Save(ctx, makeRun("a", 1, now.Add(-100*24*time.Hour))))
	require.NoError(t, s.Save(ctx, makeRun("a", 2, now)))

	n, err := s.Prune(ctx, now.Add(-90*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	runs, err := s.ListByTrade(ctx, "a", 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.InDelta(t, 2, runs[0].NPV.Or(0), 1e-12)
}

func TestStore_ListAfterClose(t *testing.T) {
	t.Parallel()
	s := openMemory(t)
	require.NoError(t, s.Close())

	_, err := s.List(context.Background(), 0)
	assert.ErrorContains(t, err, "store.List")
	_, err = s.ListByTrade(context.Background(), "a", 0)
	assert.ErrorContains(t, err, "store.ListByTrade")
}
