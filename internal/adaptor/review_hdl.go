package adaptor

import (
	"net/http"

	"watchmate/internal/dto/request"
	"watchmate/internal/permission"
	"watchmate/internal/usecase"
	"watchmate/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// CreateReview handles POST /watchlist/{id}/review-create (protected)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req request.ReviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	caller := permission.CallerFromContext(r.Context())
	review, err := h.service.CreateReview(r.Context(), chi.URLParam(r, "id"), caller, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create review")
		return
	}

	utils.ResponseCreated(w, "Review created successfully", review)
}

// ListReviews handles GET /watchlist/{id}/reviews?ordering=rating|-rating
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListReviews(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("ordering"))
	if err != nil {
		handleServiceError(w, h.log, err, "list reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// GetReview handles GET /watchlist/reviews/{id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.service.GetReview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// UpdateReview handles PUT /watchlist/reviews/{id} (author only)
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	caller := permission.CallerFromContext(r.Context())
	reviewID := chi.URLParam(r, "id")

	if err := h.service.AuthorizeReviewWrite(r.Context(), reviewID, caller, r.Method); err != nil {
		handleServiceError(w, h.log, err, "update review")
		return
	}

	var req request.ReviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	review, err := h.service.UpdateReview(r.Context(), reviewID, caller, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "Review updated successfully", review)
}

// DeleteReview handles DELETE /watchlist/reviews/{id} (author only)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	caller := permission.CallerFromContext(r.Context())
	if err := h.service.DeleteReview(r.Context(), chi.URLParam(r, "id"), caller); err != nil {
		handleServiceError(w, h.log, err, "delete review")
		return
	}

	utils.ResponseNoContent(w)
}
