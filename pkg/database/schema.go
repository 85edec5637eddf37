package database

import (
	"context"
	"fmt"
)

// schema is applied in order on every start; each statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         UUID PRIMARY KEY,
		username   VARCHAR(150) NOT NULL UNIQUE,
		email      VARCHAR(254) NOT NULL,
		password   TEXT NOT NULL,
		role       VARCHAR(16) NOT NULL DEFAULT 'user',
		is_active  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (LOWER(email))`,
	`CREATE TABLE IF NOT EXISTS auth_tokens (
		key        VARCHAR(64) PRIMARY KEY,
		user_id    UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS platforms (
		id         UUID PRIMARY KEY,
		name       VARCHAR(30) NOT NULL UNIQUE,
		about      VARCHAR(150) NOT NULL DEFAULT '',
		website    VARCHAR(100) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS watchlists (
		id            UUID PRIMARY KEY,
		platform_id   UUID NOT NULL REFERENCES platforms(id) ON DELETE CASCADE,
		title         VARCHAR(50) NOT NULL,
		storyline     VARCHAR(200) NOT NULL DEFAULT '',
		active        BOOLEAN NOT NULL DEFAULT TRUE,
		avg_rating    DOUBLE PRECISION NOT NULL DEFAULT 0,
		rating_number INTEGER NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_watchlists_platform_id ON watchlists(platform_id)`,
	// One review per (author, watchlist) is enforced by the review service, not here.
	`CREATE TABLE IF NOT EXISTS reviews (
		id           UUID PRIMARY KEY,
		author_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		watchlist_id UUID NOT NULL REFERENCES watchlists(id) ON DELETE CASCADE,
		rating       SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		description  VARCHAR(200) NOT NULL DEFAULT '',
		active       BOOLEAN NOT NULL DEFAULT TRUE,
		created_at   TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_watchlist_id ON reviews(watchlist_id)`,
}

// Migrate creates the tables this service owns.
func Migrate(ctx context.Context, db PgxIface) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
