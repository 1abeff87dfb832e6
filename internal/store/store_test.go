package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Harshitk-cp/ratelens/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRecord(t *testing.T, text string, predicted, user int) *domain.FeedbackRecord {
	t.Helper()
	r, err := domain.NewFeedbackRecord(text, predicted, user)
	require.NoError(t, err)
	return r
}

// testFeedbackStore runs the behaviour every backend must share.
func testFeedbackStore(t *testing.T, newStore func(t *testing.T) domain.FeedbackStore) {
	t.Run("empty store lists nothing", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)

		corrected, err := s.ListCorrected(ctx)
		require.NoError(t, err)
		assert.Empty(t, corrected)
	})

	t.Run("append preserves order and fields", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		first := mustRecord(t, "Great food!", 5, 3)
		second := mustRecord(t, "Great food!", 4, 4)
		third := mustRecord(t, "Slow  service", 2, 4)
		for _, r := range []*domain.FeedbackRecord{first, second, third} {
			require.NoError(t, s.Append(ctx, r))
		}

		all, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, first.ID, all[0].ID)
		assert.Equal(t, second.ID, all[1].ID)
		assert.Equal(t, third.ID, all[2].ID)
		assert.Equal(t, "Slow  service", all[2].ReviewText)
		assert.Equal(t, 2, all[2].PredictedRating)
		assert.Equal(t, 4, all[2].UserRating)
		assert.True(t, all[2].Corrected)
		assert.True(t, first.Timestamp.Equal(all[0].Timestamp))

		corrected, err := s.ListCorrected(ctx)
		require.NoError(t, err)
		require.Len(t, corrected, 2)
		assert.Equal(t, first.ID, corrected[0].ID)
		assert.Equal(t, third.ID, corrected[1].ID)
	})

	t.Run("rejects invalid records", func(t *testing.T) {
		s := newStore(t)
		bad := mustRecord(t, "fine", 3, 3)
		bad.UserRating = 9

		err := s.Append(context.Background(), bad)
		assert.ErrorIs(t, err, domain.ErrRatingOutOfRange)

		all, err := s.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("concurrent appends are all visible", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		const n = 16
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				r, err := domain.NewFeedbackRecord(fmt.Sprintf("review %d", i), 5, 1+i%5)
				if err != nil {
					errs <- err
					return
				}
				errs <- s.Append(ctx, r)
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, n)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(context.Background()))
	})
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: "cassandra"})
	assert.True(t, errors.Is(err, ErrUnknownBackend))
}

func TestOpen_FileAndSQLite(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	for _, opts := range []Options{
		{Backend: BackendFile, FilePath: filepath.Join(dir, "feedback.yaml")},
		{Backend: BackendSQLite, SQLitePath: filepath.Join(dir, "feedback.db")},
	} {
		t.Run(opts.Backend, func(t *testing.T) {
			s, err := Open(ctx, opts)
			require.NoError(t, err)
			defer func() { _ = s.Close() }()

			require.NoError(t, s.Append(ctx, mustRecord(t, "Great food!", 5, 3)))
			corrected, err := s.ListCorrected(ctx)
			require.NoError(t, err)
			assert.Len(t, corrected, 1)
		})
	}
}

func TestOpen_PostgresRequiresURL(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: BackendPostgres})
	assert.Error(t, err)
}
