package wire

import (
	"watchmate/internal/adaptor"
	"watchmate/pkg/middleware"
	"watchmate/pkg/throttle"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler, store *throttle.Store, log *zap.Logger) {
	// ==================== PUBLIC ROUTES ====================
	// GET /watchlist/{id}/reviews?ordering=rating
	r.Get("/{id}/reviews", reviewHandler.ListReviews)

	// ==================== PROTECTED ROUTES ====================
	r.With(
		middleware.RequireAuth(),
		middleware.Throttle(store, ScopeReviewCreate, log),
	).Post("/{id}/review-create", reviewHandler.CreateReview)

	// /watchlist/reviews/{id} - read is public, writes are author only
	r.Route("/reviews/{id}", func(r chi.Router) {
		r.Use(middleware.Throttle(store, ScopeReviewDetail, log))

		r.Get("/", reviewHandler.GetReview)
		r.Put("/", reviewHandler.UpdateReview)
		r.Delete("/", reviewHandler.DeleteReview)
	})
}
