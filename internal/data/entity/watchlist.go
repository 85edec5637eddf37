package entity

import (
	"github.com/google/uuid"
)

type WatchList struct {
	Base
	PlatformID   uuid.UUID `db:"platform_id"`
	Title        string    `db:"title"`
	Storyline    string    `db:"storyline"`
	Active       bool      `db:"active"`
	AvgRating    float64   `db:"avg_rating"`
	RatingNumber int       `db:"rating_number"`
}

// ApplyRating folds a new rating into the aggregate.
//
// The first rating becomes the average. Every later rating is averaged with the
// previous average, not with the full history, so older ratings decay by half on
// each new review. Callers rely on this exact formula.
func (w *WatchList) ApplyRating(rating int) {
	if w.RatingNumber == 0 {
		w.AvgRating = float64(rating)
	} else {
		w.AvgRating = (w.AvgRating + float64(rating)) / 2
	}
	w.RatingNumber++
}
