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

type PlatformRepository interface {
	Create(ctx context.Context, platform *entity.Platform) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Platform, error)
	FindByName(ctx context.Context, name string) (*entity.Platform, error)
	FindAll(ctx context.Context) ([]*entity.Platform, error)
	Update(ctx context.Context, platform *entity.Platform) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type platformRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPlatformRepository(db database.PgxIface, log *zap.Logger) PlatformRepository {
	return &platformRepository{
		db:  db,
		log: log.With(zap.String("repository", "platform")),
	}
}

const platformColumns = `id, name, about, website, created_at, updated_at`

func scanPlatform(row pgx.Row) (*entity.Platform, error) {
	var p entity.Platform
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.About,
		&p.Website,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *platformRepository) Create(ctx context.Context, platform *entity.Platform) error {
	query := `
		INSERT INTO platforms (` + platformColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		platform.ID,
		platform.Name,
		platform.About,
		platform.Website,
		platform.CreatedAt,
		platform.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create platform",
			zap.Error(err),
			zap.String("name", platform.Name),
		)
		return fmt.Errorf("create platform %s: %w", platform.Name, err)
	}

	return nil
}

func (r *platformRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Platform, error) {
	query := `SELECT ` + platformColumns + ` FROM platforms WHERE id = $1`

	platform, err := scanPlatform(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find platform by ID",
			zap.Error(err),
			zap.String("platform_id", id.String()),
		)
		return nil, fmt.Errorf("find platform by ID %s: %w", id.String(), err)
	}

	return platform, nil
}

func (r *platformRepository) FindByName(ctx context.Context, name string) (*entity.Platform, error) {
	query := `SELECT ` + platformColumns + ` FROM platforms WHERE name = $1`

	platform, err := scanPlatform(r.db.QueryRow(ctx, query, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find platform by name",
			zap.Error(err),
			zap.String("name", name),
		)
		return nil, fmt.Errorf("find platform by name %s: %w", name, err)
	}

	return platform, nil
}

func (r *platformRepository) FindAll(ctx context.Context) ([]*entity.Platform, error) {
	query := `SELECT ` + platformColumns + ` FROM platforms ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find platforms", zap.Error(err))
		return nil, fmt.Errorf("find platforms: %w", err)
	}
	defer rows.Close()

	platforms := []*entity.Platform{}
	for rows.Next() {
		platform, err := scanPlatform(rows)
		if err != nil {
			r.log.Error("Failed to scan platform row", zap.Error(err))
			return nil, fmt.Errorf("scan platform row: %w", err)
		}
		platforms = append(platforms, platform)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate platform rows: %w", err)
	}

	return platforms, nil
}

func (r *platformRepository) Update(ctx context.Context, platform *entity.Platform) error {
	query := `
		UPDATE platforms
		SET name = $2, about = $3, website = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		platform.ID,
		platform.Name,
		platform.About,
		platform.Website,
		platform.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update platform",
			zap.Error(err),
			zap.String("platform_id", platform.ID.String()),
		)
		return fmt.Errorf("update platform %s: %w", platform.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("platform %s: %w", platform.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *platformRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM platforms WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete platform",
			zap.Error(err),
			zap.String("platform_id", id.String()),
		)
		return fmt.Errorf("delete platform %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("platform %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Platform deleted", zap.String("platform_id", id.String()))
	return nil
}
