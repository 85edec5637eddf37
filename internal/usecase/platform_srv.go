package usecase

import (
	"context"
	"fmt"
	"time"

	"watchmate/internal/data/entity"
	"watchmate/internal/data/repository"
	"watchmate/internal/dto/request"
	"watchmate/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PlatformService interface {
	ListPlatforms(ctx context.Context) ([]response.PlatformResponse, error)
	GetPlatform(ctx context.Context, id string) (*response.PlatformResponse, error)
	CreatePlatform(ctx context.Context, req *request.PlatformRequest) (*response.PlatformResponse, error)
	UpdatePlatform(ctx context.Context, id string, req *request.PlatformRequest) (*response.PlatformResponse, error)
	DeletePlatform(ctx context.Context, id string) error
}

type platformService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewPlatformService(repo *repository.Repository, log *zap.Logger) PlatformService {
	return &platformService{
		repo: repo,
		log:  log.With(zap.String("service", "platform")),
	}
}

func (s *platformService) ListPlatforms(ctx context.Context) ([]response.PlatformResponse, error) {
	platforms, err := s.repo.Platform.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list platforms", zap.Error(err))
		return nil, fmt.Errorf("list platforms: %w", err)
	}

	result := make([]response.PlatformResponse, 0, len(platforms))
	for _, platform := range platforms {
		resp, err := s.toResponse(ctx, platform)
		if err != nil {
			return nil, err
		}
		result = append(result, resp)
	}

	return result, nil
}

func (s *platformService) GetPlatform(ctx context.Context, id string) (*response.PlatformResponse, error) {
	platform, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	resp, err := s.toResponse(ctx, platform)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *platformService) CreatePlatform(ctx context.Context, req *request.PlatformRequest) (*response.PlatformResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create platform validation failed", zap.Error(err))
		return nil, err
	}

	if err := s.checkNameFree(ctx, req.Name, uuid.Nil); err != nil {
		return nil, err
	}

	now := time.Now()
	platform := &entity.Platform{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:    req.Name,
		About:   req.About,
		Website: req.Website,
	}

	if err := s.repo.Platform.Create(ctx, platform); err != nil {
		s.log.Error("Failed to create platform", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("create platform: %w", err)
	}

	s.log.Info("Platform created",
		zap.String("platform_id", platform.ID.String()),
		zap.String("name", platform.Name))

	resp := response.PlatformToResponse(platform, nil)
	return &resp, nil
}

func (s *platformService) UpdatePlatform(ctx context.Context, id string, req *request.PlatformRequest) (*response.PlatformResponse, error) {
	platform, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		s.log.Warn("Update platform validation failed", zap.Error(err))
		return nil, err
	}

	if err := s.checkNameFree(ctx, req.Name, platform.ID); err != nil {
		return nil, err
	}

	platform.Name = req.Name
	platform.About = req.About
	platform.Website = req.Website
	platform.UpdatedAt = time.Now()

	if err := s.repo.Platform.Update(ctx, platform); err != nil {
		s.log.Error("Failed to update platform", zap.Error(err), zap.String("platform_id", id))
		return nil, fmt.Errorf("update platform: %w", err)
	}

	s.log.Info("Platform updated", zap.String("platform_id", id))

	resp, err := s.toResponse(ctx, platform)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *platformService) DeletePlatform(ctx context.Context, id string) error {
	platform, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Platform.Delete(ctx, platform.ID); err != nil {
		s.log.Error("Failed to delete platform", zap.Error(err), zap.String("platform_id", id))
		return fmt.Errorf("delete platform: %w", err)
	}

	s.log.Info("Platform deleted", zap.String("platform_id", id))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *platformService) find(ctx context.Context, rawID string) (*entity.Platform, error) {
	id, err := parseID("platform", rawID)
	if err != nil {
		return nil, err
	}

	platform, err := s.repo.Platform.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find platform: %w", err)
	}
	if platform == nil {
		return nil, notFound("platform", id)
	}
	return platform, nil
}

// checkNameFree reports a field error when another platform already uses name.
func (s *platformService) checkNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.repo.Platform.FindByName(ctx, name)
	if err != nil {
		return fmt.Errorf("check platform name: %w", err)
	}
	if existing != nil && existing.ID != self {
		return fieldError("name", "Platform with this name already exists")
	}
	return nil
}

func (s *platformService) toResponse(ctx context.Context, platform *entity.Platform) (response.PlatformResponse, error) {
	items, err := s.repo.WatchList.FindByPlatformID(ctx, platform.ID)
	if err != nil {
		s.log.Error("Failed to load platform watch list",
			zap.Error(err),
			zap.String("platform_id", platform.ID.String()))
		return response.PlatformResponse{}, fmt.Errorf("find platform watch list: %w", err)
	}
	return response.PlatformToResponse(platform, items), nil
}
