package response

import (
	"time"

	"watchmate/internal/data/entity"
)

type ReviewResponse struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	Author      string    `json:"author,omitempty"`
	WatchListID string    `json:"watchlist_id"`
	Rating      int       `json:"rating"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Helper converter
func ReviewToResponse(review *entity.Review, author string) ReviewResponse {
	return ReviewResponse{
		ID:          review.ID.String(),
		AuthorID:    review.AuthorID.String(),
		Author:      author,
		WatchListID: review.WatchListID.String(),
		Rating:      review.Rating,
		Description: review.Description,
		Active:      review.Active,
		CreatedAt:   review.CreatedAt,
		UpdatedAt:   review.UpdatedAt,
	}
}
