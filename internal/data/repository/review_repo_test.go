package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"watchmate/internal/data/entity"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var reviewCols = []string{"id", "author_id", "watchlist_id", "rating", "description", "active", "created_at", "updated_at"}

func TestReviewRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewReviewRepository(mock, zaptest.NewLogger(t))

	now := time.Now()
	review := &entity.Review{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		AuthorID:    uuid.New(),
		WatchListID: uuid.New(),
		Rating:      5,
		Description: "Great",
		Active:      true,
	}

	mock.ExpectExec(`INSERT INTO reviews`).
		WithArgs(review.ID, review.AuthorID, review.WatchListID, review.Rating,
			review.Description, review.Active, review.CreatedAt, review.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), review))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_FindByID(t *testing.T) {
	mock := newMock(t)
	repo := NewReviewRepository(mock, zaptest.NewLogger(t))

	id, author, item := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM reviews WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(reviewCols).
			AddRow(id, author, item, 4, "Fine", true, now, now))

	review, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, review)
	assert.Equal(t, author, review.AuthorID)
	assert.Equal(t, item, review.WatchListID)
	assert.Equal(t, 4, review.Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_FindByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewReviewRepository(mock, zaptest.NewLogger(t))

	id := uuid.New()
	mock.ExpectQuery(`SELECT .+ FROM reviews WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(reviewCols))

	review, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, review)
}

func TestReviewRepository_FindByWatchListID_Ordering(t *testing.T) {
	tests := []struct {
		order ReviewOrder
		want  string
	}{
		{OrderByCreated, `ORDER BY created_at ASC`},
		{OrderByRatingAsc, `ORDER BY rating ASC`},
		{OrderByRatingDesc, `ORDER BY rating DESC`},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			mock := newMock(t)
			repo := NewReviewRepository(mock, zaptest.NewLogger(t))

			item := uuid.New()
			now := time.Now()
			mock.ExpectQuery(`WHERE watchlist_id = \$1\s+` + tt.want).
				WithArgs(item).
				WillReturnRows(pgxmock.NewRows(reviewCols).
					AddRow(uuid.New(), uuid.New(), item, 2, "", true, now, now).
					AddRow(uuid.New(), uuid.New(), item, 5, "", true, now, now))

			reviews, err := repo.FindByWatchListID(context.Background(), item, tt.order)
			require.NoError(t, err)
			assert.Len(t, reviews, 2)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReviewRepository_FindByAuthorAndWatchList_QueryError(t *testing.T) {
	mock := newMock(t)
	repo := NewReviewRepository(mock, zaptest.NewLogger(t))

	author, item := uuid.New(), uuid.New()
	mock.ExpectQuery(`WHERE author_id = \$1 AND watchlist_id = \$2`).
		WithArgs(author, item).
		WillReturnError(errors.New("connection reset"))

	review, err := repo.FindByAuthorAndWatchList(context.Background(), author, item)
	require.Error(t, err)
	assert.Nil(t, review)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestReviewRepository_Update(t *testing.T) {
	mock := newMock(t)
	repo := NewReviewRepository(mock, zaptest.NewLogger(t))

	review := &entity.Review{
		Base:        entity.Base{ID: uuid.New(), UpdatedAt: time.Now()},
		Rating:      3,
		Description: "Changed my mind",
		Active:      false,
	}

	mock.ExpectExec(`UPDATE reviews`).
		WithArgs(review.ID, review.Rating, review.Description, review.Active, review.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Update(context.Background(), review))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Delete_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewReviewRepository(mock, zaptest.NewLogger(t))

	id := uuid.New()
	mock.ExpectExec(`DELETE FROM reviews WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}
