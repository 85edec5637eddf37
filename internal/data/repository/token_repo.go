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

type TokenRepository interface {
	Create(ctx context.Context, token *entity.Token) error
	FindByKey(ctx context.Context, key string) (*entity.Token, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Token, error)
	DeleteByKey(ctx context.Context, key string) error
}

type tokenRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTokenRepository(db database.PgxIface, log *zap.Logger) TokenRepository {
	return &tokenRepository{
		db:  db,
		log: log.With(zap.String("repository", "token")),
	}
}

func (r *tokenRepository) Create(ctx context.Context, token *entity.Token) error {
	query := `
		INSERT INTO auth_tokens (key, user_id, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.Exec(ctx, query, token.Key, token.UserID, token.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create token",
			zap.Error(err),
			zap.String("user_id", token.UserID.String()),
		)
		return fmt.Errorf("create token for user %s: %w", token.UserID.String(), err)
	}

	return nil
}

func (r *tokenRepository) FindByKey(ctx context.Context, key string) (*entity.Token, error) {
	query := `SELECT key, user_id, created_at FROM auth_tokens WHERE key = $1`

	var token entity.Token
	err := r.db.QueryRow(ctx, query, key).Scan(&token.Key, &token.UserID, &token.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find token", zap.Error(err))
		return nil, fmt.Errorf("find token: %w", err)
	}

	return &token, nil
}

func (r *tokenRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Token, error) {
	query := `SELECT key, user_id, created_at FROM auth_tokens WHERE user_id = $1`

	var token entity.Token
	err := r.db.QueryRow(ctx, query, userID).Scan(&token.Key, &token.UserID, &token.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find token by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find token by user %s: %w", userID.String(), err)
	}

	return &token, nil
}

func (r *tokenRepository) DeleteByKey(ctx context.Context, key string) error {
	query := `DELETE FROM auth_tokens WHERE key = $1`

	result, err := r.db.Exec(ctx, query, key)
	if err != nil {
		r.log.Error("Failed to delete token", zap.Error(err))
		return fmt.Errorf("delete token: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("token: %w", ErrNotFound)
	}

	return nil
}
