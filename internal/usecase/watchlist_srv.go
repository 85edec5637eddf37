package usecase

import (
	"context"
	"fmt"
	"time"

	"watchmate/internal/data/entity"
	"watchmate/internal/data/repository"
	"watchmate/internal/dto/request"
	"watchmate/internal/dto/response"
	"watchmate/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WatchListService interface {
	ListWatchList(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.WatchListResponse], error)
	GetWatchList(ctx context.Context, id string) (*response.WatchListResponse, error)
	CreateWatchList(ctx context.Context, req *request.WatchListRequest) (*response.WatchListResponse, error)
	UpdateWatchList(ctx context.Context, id string, req *request.WatchListRequest) (*response.WatchListResponse, error)
	DeleteWatchList(ctx context.Context, id string) error
}

type watchListService struct {
	repo   *repository.Repository
	paging utils.WatchListConfig
	log    *zap.Logger
}

func NewWatchListService(repo *repository.Repository, paging utils.WatchListConfig, log *zap.Logger) WatchListService {
	if paging.PageSize < 1 {
		paging.PageSize = 4
	}
	if paging.MaxPageSize < paging.PageSize {
		paging.MaxPageSize = paging.PageSize
	}

	return &watchListService{
		repo:   repo,
		paging: paging,
		log:    log.With(zap.String("service", "watchlist")),
	}
}

func (s *watchListService) ListWatchList(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.WatchListResponse], error) {
	page := *req
	if page.Page < 1 {
		page.Page = 1
	}
	if page.PerPage < 1 {
		page.PerPage = s.paging.PageSize
	}
	page.PerPage = page.Limit(s.paging.MaxPageSize)

	items, err := s.repo.WatchList.FindAll(ctx, page.PerPage, page.Offset())
	if err != nil {
		s.log.Error("Failed to list watch list",
			zap.Error(err),
			zap.Int("page", page.Page),
			zap.Int("page_size", page.PerPage))
		return nil, fmt.Errorf("list watch list: %w", err)
	}

	total, err := s.repo.WatchList.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count watch list", zap.Error(err))
		return nil, fmt.Errorf("count watch list: %w", err)
	}

	// platform names repeat across a page, look each up once
	names := make(map[uuid.UUID]string)
	result := make([]response.WatchListResponse, len(items))
	for i, item := range items {
		name, ok := names[item.PlatformID]
		if !ok {
			name, err = s.platformName(ctx, item.PlatformID)
			if err != nil {
				return nil, err
			}
			names[item.PlatformID] = name
		}
		result[i] = response.WatchListToResponse(item, name)
	}

	return response.NewPaginatedResponse(result, page.Page, page.PerPage, total), nil
}

func (s *watchListService) GetWatchList(ctx context.Context, id string) (*response.WatchListResponse, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, item)
}

func (s *watchListService) CreateWatchList(ctx context.Context, req *request.WatchListRequest) (*response.WatchListResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create watch list validation failed", zap.Error(err))
		return nil, err
	}

	platformID, err := s.checkPlatform(ctx, req.PlatformID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	item := &entity.WatchList{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PlatformID: platformID,
		Title:      req.Title,
		Storyline:  req.Storyline,
		Active:     req.IsActive(),
	}

	if err := s.repo.WatchList.Create(ctx, item); err != nil {
		s.log.Error("Failed to create watch list item", zap.Error(err), zap.String("title", req.Title))
		return nil, fmt.Errorf("create watch list item: %w", err)
	}

	s.log.Info("Watch list item created",
		zap.String("watchlist_id", item.ID.String()),
		zap.String("platform_id", platformID.String()),
		zap.String("title", item.Title))

	return s.toResponse(ctx, item)
}

func (s *watchListService) UpdateWatchList(ctx context.Context, id string, req *request.WatchListRequest) (*response.WatchListResponse, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		s.log.Warn("Update watch list validation failed", zap.Error(err))
		return nil, err
	}

	platformID, err := s.checkPlatform(ctx, req.PlatformID)
	if err != nil {
		return nil, err
	}

	// rating aggregate is owned by review creation
	item.PlatformID = platformID
	item.Title = req.Title
	item.Storyline = req.Storyline
	item.Active = req.IsActive()
	item.UpdatedAt = time.Now()

	if err := s.repo.WatchList.Update(ctx, item); err != nil {
		s.log.Error("Failed to update watch list item", zap.Error(err), zap.String("watchlist_id", id))
		return nil, fmt.Errorf("update watch list item: %w", err)
	}

	s.log.Info("Watch list item updated", zap.String("watchlist_id", id))
	return s.toResponse(ctx, item)
}

func (s *watchListService) DeleteWatchList(ctx context.Context, id string) error {
	item, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.WatchList.Delete(ctx, item.ID); err != nil {
		s.log.Error("Failed to delete watch list item", zap.Error(err), zap.String("watchlist_id", id))
		return fmt.Errorf("delete watch list item: %w", err)
	}

	s.log.Info("Watch list item deleted", zap.String("watchlist_id", id))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *watchListService) find(ctx context.Context, rawID string) (*entity.WatchList, error) {
	id, err := parseID("watchlist", rawID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.WatchList.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find watch list item: %w", err)
	}
	if item == nil {
		return nil, notFound("watchlist", id)
	}
	return item, nil
}

func (s *watchListService) checkPlatform(ctx context.Context, rawID string) (uuid.UUID, error) {
	platformID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, fieldError("platform_id", "Must be a valid UUID")
	}

	platform, err := s.repo.Platform.FindByID(ctx, platformID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("find platform: %w", err)
	}
	if platform == nil {
		return uuid.Nil, fieldError("platform_id", "Platform does not exist")
	}
	return platformID, nil
}

func (s *watchListService) platformName(ctx context.Context, id uuid.UUID) (string, error) {
	platform, err := s.repo.Platform.FindByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("find platform: %w", err)
	}
	if platform == nil {
		return "", nil
	}
	return platform.Name, nil
}

func (s *watchListService) toResponse(ctx context.Context, item *entity.WatchList) (*response.WatchListResponse, error) {
	name, err := s.platformName(ctx, item.PlatformID)
	if err != nil {
		return nil, err
	}
	resp := response.WatchListToResponse(item, name)
	return &resp, nil
}
