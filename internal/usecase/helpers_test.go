package usecase

import (
	"context"
	"testing"
	"time"

	"watchmate/internal/data/entity"
	"watchmate/internal/data/repository"
	"watchmate/internal/permission"
	"watchmate/internal/testinfra"
	"watchmate/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fixture struct {
	repo  *repository.Repository
	store *testinfra.Store
	svc   *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo, store := testinfra.NewRepository()
	config := &utils.Config{
		WatchList: utils.WatchListConfig{PageSize: 4, MaxPageSize: 10},
	}
	return &fixture{
		repo:  repo,
		store: store,
		svc:   NewService(repo, config, zaptest.NewLogger(t)),
	}
}

func (f *fixture) user(t *testing.T, username string, role entity.UserRole) permission.Caller {
	t.Helper()
	now := time.Now()
	user := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, f.repo.User.Create(context.Background(), user))
	return permission.Caller{UserID: user.ID, Role: role}
}

func (f *fixture) platform(t *testing.T, name string) *entity.Platform {
	t.Helper()
	now := time.Now()
	platform := &entity.Platform{
		Base:    entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:    name,
		About:   "streaming",
		Website: "https://example.com",
	}
	require.NoError(t, f.repo.Platform.Create(context.Background(), platform))
	return platform
}

func (f *fixture) item(t *testing.T, platformID uuid.UUID, title string) *entity.WatchList {
	t.Helper()
	now := time.Now()
	item := &entity.WatchList{
		Base:       entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		PlatformID: platformID,
		Title:      title,
		Storyline:  "story",
		Active:     true,
	}
	require.NoError(t, f.repo.WatchList.Create(context.Background(), item))
	return item
}

func boolPtr(v bool) *bool {
	return &v
}
