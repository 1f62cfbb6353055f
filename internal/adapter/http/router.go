package http

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
	"go.uber.org/zap"
)

// RouterConfig configures NewRouter.
type RouterConfig struct {
	ServiceName string
	Version     string
	Logger      *zap.Logger
	// RatePerMinute disables rate limiting when zero.
	RatePerMinute int
	RateBurst     int
}

// NewRouter builds the chi router with the middleware stack and every API
// route registered. OpenAPI docs are served at /docs.
func NewRouter(cfg RouterConfig, svc Services) *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(otelchi.Middleware(cfg.ServiceName, otelchi.WithChiRoutes(router)))
	router.Use(RequestLogger(cfg.Logger.Named("http")))
	router.Use(middleware.Recoverer)
	if cfg.RatePerMinute > 0 {
		router.Use(NewRateLimiter(cfg.RatePerMinute, cfg.RateBurst, cfg.Logger.Named("ratelimit")).Handler)
	}

	api := humachi.New(router, huma.DefaultConfig(cfg.ServiceName, cfg.Version))
	Register(api, svc)

	return router
}
