package wire

import (
	"watchmate/internal/adaptor"
	"watchmate/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, log *zap.Logger) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.RequireAuth()).Post("/logout", authHandler.Logout)
}
