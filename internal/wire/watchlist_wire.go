package wire

import (
	"watchmate/internal/adaptor"
	"watchmate/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireWatchList(r chi.Router, watchListHandler *adaptor.WatchListHandler, log *zap.Logger) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminOrReadOnly(log))

		// GET /watchlist/list - paginated listing (public)
		// Writes only reach the handler after the admin check
		r.Get("/list", watchListHandler.ListWatchList)
		r.Post("/list", watchListHandler.ListMethodNotAllowed)
		r.Put("/list", watchListHandler.ListMethodNotAllowed)
		r.Patch("/list", watchListHandler.ListMethodNotAllowed)
		r.Delete("/list", watchListHandler.ListMethodNotAllowed)

		// POST /watchlist - create item (admin)
		r.Post("/", watchListHandler.CreateWatchList)

		// /watchlist/{id} - retrieve (public), update and delete (admin)
		r.Get("/{id}", watchListHandler.GetWatchList)
		r.Put("/{id}", watchListHandler.UpdateWatchList)
		r.Delete("/{id}", watchListHandler.DeleteWatchList)
	})
}
