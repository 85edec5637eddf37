package response

import (
	"time"

	"watchmate/internal/data/entity"
)

type PlatformResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	About     string              `json:"about"`
	Website   string              `json:"website"`
	WatchList []WatchListResponse `json:"watchlist"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func PlatformToResponse(platform *entity.Platform, items []*entity.WatchList) PlatformResponse {
	watchList := make([]WatchListResponse, len(items))
	for i, item := range items {
		watchList[i] = WatchListToResponse(item, platform.Name)
	}

	return PlatformResponse{
		ID:        platform.ID.String(),
		Name:      platform.Name,
		About:     platform.About,
		Website:   platform.Website,
		WatchList: watchList,
		CreatedAt: platform.CreatedAt,
		UpdatedAt: platform.UpdatedAt,
	}
}
