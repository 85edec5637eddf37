package wire

import (
	"fmt"
	"net/http"

	"watchmate/internal/adaptor"
	"watchmate/internal/data/repository"
	"watchmate/internal/usecase"
	"watchmate/pkg/middleware"
	"watchmate/pkg/throttle"
	"watchmate/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Throttle scopes
const (
	ScopeReviewCreate = "review-create"
	ScopeReviewDetail = "review-detail"
)

// App holds the wired dependencies
type App struct {
	Router   *chi.Mux
	Service  *usecase.Service
	Throttle *throttle.Store
}

// Wiring builds services, handlers and the router
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) (*App, error) {
	store, err := newThrottleStore(config.Throttle)
	if err != nil {
		return nil, err
	}

	service := usecase.NewService(repo, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, service, store, config, logger)

	return &App{
		Router:   router,
		Service:  service,
		Throttle: store,
	}, nil
}

func newThrottleStore(config utils.ThrottleConfig) (*throttle.Store, error) {
	rates := make(map[string]throttle.Rate)

	scopes := map[string]string{
		ScopeReviewCreate: config.ReviewCreate,
		ScopeReviewDetail: config.ReviewDetail,
	}
	for scope, raw := range scopes {
		// empty disables the scope
		if raw == "" {
			continue
		}
		rate, err := throttle.ParseRate(raw)
		if err != nil {
			return nil, fmt.Errorf("throttle scope %s: %w", scope, err)
		}
		rates[scope] = rate
	}

	return throttle.NewStore(rates), nil
}

func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	store *throttle.Store,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(config.CORS.AllowedOrigins))
	r.Use(middleware.GlobalRateLimit(config.Throttle.GlobalPerMinute))
	r.Use(chimw.StripSlashes)
	r.Use(middleware.Authenticate(service.Auth, logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseMethodNotAllowed(w, "Method \""+r.Method+"\" not allowed")
	})

	// Apply routes
	wireAuth(r, handler.Auth, logger)
	wireUser(r, handler.User, logger)
	r.Route("/watchlist", func(r chi.Router) {
		wirePlatform(r, handler.Platform, logger)
		wireReview(r, handler.Review, store, logger)
		wireWatchList(r, handler.WatchList, logger)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
