package response

import (
	"time"

	"watchmate/internal/data/entity"
)

type WatchListResponse struct {
	ID           string    `json:"id"`
	PlatformID   string    `json:"platform_id"`
	Platform     string    `json:"platform,omitempty"`
	Title        string    `json:"title"`
	Storyline    string    `json:"storyline"`
	Active       bool      `json:"active"`
	AvgRating    float64   `json:"avg_rating"`
	RatingNumber int       `json:"rating_number"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func WatchListToResponse(item *entity.WatchList, platformName string) WatchListResponse {
	return WatchListResponse{
		ID:           item.ID.String(),
		PlatformID:   item.PlatformID.String(),
		Platform:     platformName,
		Title:        item.Title,
		Storyline:    item.Storyline,
		Active:       item.Active,
		AvgRating:    item.AvgRating,
		RatingNumber: item.RatingNumber,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}
