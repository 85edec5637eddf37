package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	Base
	AuthorID    uuid.UUID `db:"author_id"`
	WatchListID uuid.UUID `db:"watchlist_id"`
	Rating      int       `db:"rating"` // 1-5
	Description string    `db:"description"`
	Active      bool      `db:"active"`
}
