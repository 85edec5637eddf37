package repository

import (
	"watchmate/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User      UserRepository
	Token     TokenRepository
	Platform  PlatformRepository
	WatchList WatchListRepository
	Review    ReviewRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:      NewUserRepository(db, log),
		Token:     NewTokenRepository(db, log),
		Platform:  NewPlatformRepository(db, log),
		WatchList: NewWatchListRepository(db, log),
		Review:    NewReviewRepository(db, log),
	}
}
