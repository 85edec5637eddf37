package wire

import (
	"watchmate/internal/adaptor"
	"watchmate/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePlatform(r chi.Router, platformHandler *adaptor.PlatformHandler, log *zap.Logger) {
	// Reads are public, writes need an admin
	r.Route("/stream", func(r chi.Router) {
		r.Use(middleware.AdminOrReadOnly(log))

		r.Get("/", platformHandler.ListPlatforms)
		r.Post("/", platformHandler.CreatePlatform)

		r.Get("/{id}", platformHandler.GetPlatform)
		r.Put("/{id}", platformHandler.UpdatePlatform)
		r.Delete("/{id}", platformHandler.DeletePlatform)
	})
}
