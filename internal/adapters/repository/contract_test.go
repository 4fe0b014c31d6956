package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/ticketscan/internal/domain/model"
	"github.com/okian/ticketscan/internal/domain/types"
)

var baseTime = time.Date(2026, 1, 20, 19, 30, 0, 0, time.UTC)

func totoRecord(at time.Time) model.HistoryRecord {
	return model.HistoryRecord{
		ID:          uuid.NewString(),
		CreatedAt:   at,
		ImageSHA256: "ab12",
		GameType:    types.GameTOTO,
		DrawDate:    "2026-01-20",
		Numbers:     []int{1, 5, 12, 23, 34, 40},
		IsWinner:    true,
		Tier:        types.TierGroup3,
		Breakdown:   map[types.Tier]int{types.TierGroup3: 1},
	}
}

func rejectedRecord(at time.Time) model.HistoryRecord {
	return model.HistoryRecord{
		ID:        uuid.NewString(),
		CreatedAt: at,
		GameType:  types.GameUnknown,
		DrawDate:  model.UnknownDrawDate,
		Tier:      types.TierNone,
		Reason:    types.ReasonNoNumericContent,
	}
}

// runHistoryStoreContract checks the behaviour every HistoryStore shares.
func runHistoryStoreContract(t *testing.T, s HistoryStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("save and get", func(t *testing.T) {
		rec := totoRecord(baseTime)
		require.NoError(t, s.Save(ctx, rec))

		got, err := s.Get(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
		assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
		assert.Equal(t, rec.Numbers, got.Numbers)
		assert.Equal(t, rec.Breakdown, got.Breakdown)
		assert.Equal(t, types.TierGroup3, got.Tier)
		assert.True(t, got.IsWinner)
		assert.False(t, got.Rejected())
	})

	t.Run("rejected record round trip", func(t *testing.T) {
		rec := rejectedRecord(baseTime.Add(time.Second))
		require.NoError(t, s.Save(ctx, rec))

		got, err := s.Get(ctx, rec.ID)
		require.NoError(t, err)
		assert.True(t, got.Rejected())
		assert.Equal(t, types.ReasonNoNumericContent, got.Reason)
		assert.Empty(t, got.Numbers)
		assert.Empty(t, got.Breakdown)
	})

	t.Run("duplicate id", func(t *testing.T) {
		rec := totoRecord(baseTime)
		require.NoError(t, s.Save(ctx, rec))
		assert.ErrorIs(t, s.Save(ctx, rec), ErrDuplicateKey)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.Get(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid input", func(t *testing.T) {
		assert.ErrorIs(t, s.Save(ctx, model.HistoryRecord{}), ErrInvalidRecord)
		_, err := s.List(ctx, 0)
		assert.ErrorIs(t, err, ErrInvalidLimit)
	})

	t.Run("list newest first", func(t *testing.T) {
		later := baseTime.Add(time.Hour)
		var ids []string
		for i := 0; i < 3; i++ {
			rec := totoRecord(later.Add(time.Duration(i) * time.Minute))
			require.NoError(t, s.Save(ctx, rec))
			ids = append(ids, rec.ID)
		}

		got, err := s.List(ctx, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, ids[2], got[0].ID)
		assert.Equal(t, ids[1], got[1].ID)
	})

	t.Run("concurrent saves", func(t *testing.T) {
		before, err := s.Count(ctx)
		require.NoError(t, err)

		const writers = 8
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if err := s.Save(ctx, totoRecord(baseTime.Add(time.Duration(i)*time.Millisecond))); err != nil {
					errs <- fmt.Errorf("writer %d: %w", i, err)
				}
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Error(err)
		}

		after, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, before+writers, after)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, s.Ping(ctx))
	})
}
