package repository

import (
	"context"
	"testing"
	"time"

	"watchmate/internal/data/entity"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var watchListCols = []string{"id", "platform_id", "title", "storyline", "active", "avg_rating", "rating_number", "created_at", "updated_at"}

func TestWatchListRepository_FindAll(t *testing.T) {
	mock := newMock(t)
	repo := NewWatchListRepository(mock, zaptest.NewLogger(t))

	platform := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`FROM watchlists\s+ORDER BY created_at, id\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(4, 8).
		WillReturnRows(pgxmock.NewRows(watchListCols).
			AddRow(uuid.New(), platform, "Dark", "Time travel", true, 4.5, 2, now, now))

	items, err := repo.FindAll(context.Background(), 4, 8)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Dark", items[0].Title)
	assert.Equal(t, 4.5, items[0].AvgRating)
	assert.Equal(t, 2, items[0].RatingNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWatchListRepository_CountAll(t *testing.T) {
	mock := newMock(t)
	repo := NewWatchListRepository(mock, zaptest.NewLogger(t))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM watchlists`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(9)))

	count, err := repo.CountAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(9), count)
}

func TestWatchListRepository_UpdateRating_CompareAndSwap(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "count unchanged", affected: 1, want: true},
		{name: "count moved underneath", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			repo := NewWatchListRepository(mock, zaptest.NewLogger(t))

			item := &entity.WatchList{
				Base:         entity.Base{ID: uuid.New(), UpdatedAt: time.Now()},
				AvgRating:    3.5,
				RatingNumber: 3,
			}

			mock.ExpectExec(`UPDATE watchlists\s+SET avg_rating = \$2, rating_number = \$3, updated_at = \$4\s+WHERE id = \$1 AND rating_number = \$5`).
				WithArgs(item.ID, 3.5, 3, item.UpdatedAt, 2).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			ok, err := repo.UpdateRating(context.Background(), item, 2)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWatchListRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewWatchListRepository(mock, zaptest.NewLogger(t))

	item := &entity.WatchList{
		Base:       entity.Base{ID: uuid.New(), UpdatedAt: time.Now()},
		PlatformID: uuid.New(),
		Title:      "Gone",
	}

	mock.ExpectExec(`UPDATE watchlists`).
		WithArgs(item.ID, item.PlatformID, item.Title, item.Storyline, item.Active, item.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(t, repo.Update(context.Background(), item), ErrNotFound)
}
