package repository

import (
	"context"
	"errors"
	"fmt"

	"watchmate/internal/data/entity"
	"watchmate/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ReviewOrder selects the sort of a review listing.
type ReviewOrder int

const (
	OrderByCreated ReviewOrder = iota
	OrderByRatingAsc
	OrderByRatingDesc
)

func (o ReviewOrder) clause() string {
	switch o {
	case OrderByRatingAsc:
		return "rating ASC, created_at ASC, id ASC"
	case OrderByRatingDesc:
		return "rating DESC, created_at ASC, id ASC"
	default:
		return "created_at ASC, id ASC"
	}
}

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByWatchListID(ctx context.Context, watchListID uuid.UUID, order ReviewOrder) ([]*entity.Review, error)
	FindByAuthorAndWatchList(ctx context.Context, authorID, watchListID uuid.UUID) (*entity.Review, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewColumns = `id, author_id, watchlist_id, rating, description, active, created_at, updated_at`

func scanReview(row pgx.Row) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.AuthorID,
		&review.WatchListID,
		&review.Rating,
		&review.Description,
		&review.Active,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.AuthorID,
		review.WatchListID,
		review.Rating,
		review.Description,
		review.Active,
		review.CreatedAt,
		review.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("author_id", review.AuthorID.String()),
			zap.String("watchlist_id", review.WatchListID.String()),
		)
		return fmt.Errorf("create review for watchlist %s by user %s: %w",
			review.WatchListID.String(), review.AuthorID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return nil, fmt.Errorf("find review by ID %s: %w", id.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) FindByWatchListID(ctx context.Context, watchListID uuid.UUID, order ReviewOrder) ([]*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE watchlist_id = $1
		ORDER BY ` + order.clause()

	rows, err := r.db.Query(ctx, query, watchListID)
	if err != nil {
		r.log.Error("Failed to find reviews by watchlist ID",
			zap.Error(err),
			zap.String("watchlist_id", watchListID.String()),
		)
		return nil, fmt.Errorf("find reviews by watchlist ID %s: %w", watchListID.String(), err)
	}
	defer rows.Close()

	reviews := []*entity.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) FindByAuthorAndWatchList(ctx context.Context, authorID, watchListID uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE author_id = $1 AND watchlist_id = $2
		LIMIT 1
	`

	review, err := scanReview(r.db.QueryRow(ctx, query, authorID, watchListID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by author and watchlist",
			zap.Error(err),
			zap.String("author_id", authorID.String()),
			zap.String("watchlist_id", watchListID.String()),
		)
		return nil, fmt.Errorf("find review by author %s and watchlist %s: %w",
			authorID.String(), watchListID.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, description = $3, active = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		review.ID,
		review.Rating,
		review.Description,
		review.Active,
		review.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.String("review_id", review.ID.String()),
		)
		return fmt.Errorf("update review %s: %w", review.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s: %w", review.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reviews WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return fmt.Errorf("delete review %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Review deleted", zap.String("review_id", id.String()))
	return nil
}
