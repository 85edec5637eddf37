package adaptor

import (
	"net/http"

	"watchmate/internal/dto/request"
	"watchmate/internal/usecase"
	"watchmate/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PlatformHandler struct {
	service usecase.PlatformService
	log     *zap.Logger
}

func NewPlatformHandler(service usecase.PlatformService, log *zap.Logger) *PlatformHandler {
	return &PlatformHandler{
		service: service,
		log:     log.With(zap.String("handler", "platform")),
	}
}

// ListPlatforms handles GET /watchlist/stream
func (h *PlatformHandler) ListPlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := h.service.ListPlatforms(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list platforms")
		return
	}

	utils.ResponseSuccess(w, "success", platforms)
}

// GetPlatform handles GET /watchlist/stream/{id}
func (h *PlatformHandler) GetPlatform(w http.ResponseWriter, r *http.Request) {
	platform, err := h.service.GetPlatform(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get platform")
		return
	}

	utils.ResponseSuccess(w, "success", platform)
}

// CreatePlatform handles POST /watchlist/stream (admin)
func (h *PlatformHandler) CreatePlatform(w http.ResponseWriter, r *http.Request) {
	var req request.PlatformRequest
	if !decodeBody(w, r, &req) {
		return
	}

	platform, err := h.service.CreatePlatform(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create platform")
		return
	}

	utils.ResponseCreated(w, "Platform created successfully", platform)
}

// UpdatePlatform handles PUT /watchlist/stream/{id} (admin)
func (h *PlatformHandler) UpdatePlatform(w http.ResponseWriter, r *http.Request) {
	var req request.PlatformRequest
	if !decodeBody(w, r, &req) {
		return
	}

	platform, err := h.service.UpdatePlatform(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update platform")
		return
	}

	utils.ResponseSuccess(w, "Platform updated successfully", platform)
}

// DeletePlatform handles DELETE /watchlist/stream/{id} (admin)
func (h *PlatformHandler) DeletePlatform(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePlatform(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete platform")
		return
	}

	utils.ResponseNoContent(w)
}
