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

type WatchListRepository interface {
	Create(ctx context.Context, item *entity.WatchList) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.WatchList, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.WatchList, error)
	FindByPlatformID(ctx context.Context, platformID uuid.UUID) ([]*entity.WatchList, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, item *entity.WatchList) error
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdateRating stores the aggregate only if rating_number still equals
	// prevNumber. It reports whether the row was written.
	UpdateRating(ctx context.Context, item *entity.WatchList, prevNumber int) (bool, error)
}

type watchListRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewWatchListRepository(db database.PgxIface, log *zap.Logger) WatchListRepository {
	return &watchListRepository{
		db:  db,
		log: log.With(zap.String("repository", "watchlist")),
	}
}

const watchListColumns = `id, platform_id, title, storyline, active, avg_rating, rating_number, created_at, updated_at`

func scanWatchList(row pgx.Row) (*entity.WatchList, error) {
	var w entity.WatchList
	err := row.Scan(
		&w.ID,
		&w.PlatformID,
		&w.Title,
		&w.Storyline,
		&w.Active,
		&w.AvgRating,
		&w.RatingNumber,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *watchListRepository) Create(ctx context.Context, item *entity.WatchList) error {
	query := `
		INSERT INTO watchlists (` + watchListColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		item.ID,
		item.PlatformID,
		item.Title,
		item.Storyline,
		item.Active,
		item.AvgRating,
		item.RatingNumber,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create watchlist item",
			zap.Error(err),
			zap.String("title", item.Title),
		)
		return fmt.Errorf("create watchlist item %s: %w", item.Title, err)
	}

	return nil
}

func (r *watchListRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.WatchList, error) {
	query := `SELECT ` + watchListColumns + ` FROM watchlists WHERE id = $1`

	item, err := scanWatchList(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find watchlist item by ID",
			zap.Error(err),
			zap.String("watchlist_id", id.String()),
		)
		return nil, fmt.Errorf("find watchlist item by ID %s: %w", id.String(), err)
	}

	return item, nil
}

func (r *watchListRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.WatchList, error) {
	query := `
		SELECT ` + watchListColumns + `
		FROM watchlists
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find watchlist items",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find watchlist items: %w", err)
	}

	return r.collect(rows)
}

func (r *watchListRepository) FindByPlatformID(ctx context.Context, platformID uuid.UUID) ([]*entity.WatchList, error) {
	query := `
		SELECT ` + watchListColumns + `
		FROM watchlists
		WHERE platform_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query, platformID)
	if err != nil {
		r.log.Error("Failed to find watchlist items by platform",
			zap.Error(err),
			zap.String("platform_id", platformID.String()),
		)
		return nil, fmt.Errorf("find watchlist items by platform %s: %w", platformID.String(), err)
	}

	return r.collect(rows)
}

func (r *watchListRepository) collect(rows pgx.Rows) ([]*entity.WatchList, error) {
	defer rows.Close()

	items := []*entity.WatchList{}
	for rows.Next() {
		item, err := scanWatchList(rows)
		if err != nil {
			r.log.Error("Failed to scan watchlist row", zap.Error(err))
			return nil, fmt.Errorf("scan watchlist row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watchlist rows: %w", err)
	}

	return items, nil
}

func (r *watchListRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM watchlists`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count watchlist items", zap.Error(err))
		return 0, fmt.Errorf("count watchlist items: %w", err)
	}

	return count, nil
}

// Update writes the editable fields; the rating aggregate is left alone.
func (r *watchListRepository) Update(ctx context.Context, item *entity.WatchList) error {
	query := `
		UPDATE watchlists
		SET platform_id = $2, title = $3, storyline = $4, active = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		item.ID,
		item.PlatformID,
		item.Title,
		item.Storyline,
		item.Active,
		item.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update watchlist item",
			zap.Error(err),
			zap.String("watchlist_id", item.ID.String()),
		)
		return fmt.Errorf("update watchlist item %s: %w", item.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("watchlist item %s: %w", item.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *watchListRepository) UpdateRating(ctx context.Context, item *entity.WatchList, prevNumber int) (bool, error) {
	query := `
		UPDATE watchlists
		SET avg_rating = $2, rating_number = $3, updated_at = $4
		WHERE id = $1 AND rating_number = $5
	`

	result, err := r.db.Exec(ctx, query,
		item.ID,
		item.AvgRating,
		item.RatingNumber,
		item.UpdatedAt,
		prevNumber,
	)
	if err != nil {
		r.log.Error("Failed to update watchlist rating",
			zap.Error(err),
			zap.String("watchlist_id", item.ID.String()),
		)
		return false, fmt.Errorf("update watchlist rating %s: %w", item.ID.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *watchListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM watchlists WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete watchlist item",
			zap.Error(err),
			zap.String("watchlist_id", id.String()),
		)
		return fmt.Errorf("delete watchlist item %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("watchlist item %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Watchlist item deleted", zap.String("watchlist_id", id.String()))
	return nil
}
