package wire

import (
	"watchmate/internal/adaptor"
	"watchmate/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, log *zap.Logger) {
	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.RequireAuth()).Get("/profile", userHandler.GetProfile)
}
