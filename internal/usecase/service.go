package usecase

import (
	"watchmate/internal/data/repository"
	"watchmate/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth      AuthService
	User      UserService
	Platform  PlatformService
	WatchList WatchListService
	Review    ReviewService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:      NewAuthService(repo, log),
		User:      NewUserService(repo.User, log),
		Platform:  NewPlatformService(repo, log),
		WatchList: NewWatchListService(repo, config.WatchList, log),
		Review:    NewReviewService(repo, log),
	}
}
