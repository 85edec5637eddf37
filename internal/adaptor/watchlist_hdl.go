package adaptor

import (
	"net/http"

	"watchmate/internal/dto/request"
	"watchmate/internal/usecase"
	"watchmate/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type WatchListHandler struct {
	service usecase.WatchListService
	log     *zap.Logger
}

func NewWatchListHandler(service usecase.WatchListService, log *zap.Logger) *WatchListHandler {
	return &WatchListHandler{
		service: service,
		log:     log.With(zap.String("handler", "watchlist")),
	}
}

// ListWatchList handles GET /watchlist/list?page=&page_size=
func (h *WatchListHandler) ListWatchList(w http.ResponseWriter, r *http.Request) {
	// zero page_size falls back to the configured default
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("page_size"), 0),
	}

	items, err := h.service.ListWatchList(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list watch list")
		return
	}

	utils.ResponseSuccess(w, "success", items)
}

// ListMethodNotAllowed answers writes to /watchlist/list once the
// permission check has let them through.
func (h *WatchListHandler) ListMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", "GET, HEAD, OPTIONS")
	utils.ResponseMethodNotAllowed(w, "Method \""+r.Method+"\" not allowed")
}

// GetWatchList handles GET /watchlist/{id}
func (h *WatchListHandler) GetWatchList(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetWatchList(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get watch list item")
		return
	}

	utils.ResponseSuccess(w, "success", item)
}

// CreateWatchList handles POST /watchlist (admin)
func (h *WatchListHandler) CreateWatchList(w http.ResponseWriter, r *http.Request) {
	var req request.WatchListRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.service.CreateWatchList(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create watch list item")
		return
	}

	utils.ResponseCreated(w, "Watch list item created successfully", item)
}

// UpdateWatchList handles PUT /watchlist/{id} (admin)
func (h *WatchListHandler) UpdateWatchList(w http.ResponseWriter, r *http.Request) {
	var req request.WatchListRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.service.UpdateWatchList(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update watch list item")
		return
	}

	utils.ResponseSuccess(w, "Watch list item updated successfully", item)
}

// DeleteWatchList handles DELETE /watchlist/{id} (admin)
func (h *WatchListHandler) DeleteWatchList(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteWatchList(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete watch list item")
		return
	}

	utils.ResponseNoContent(w)
}
