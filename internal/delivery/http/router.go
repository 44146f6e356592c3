package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Pesokrava/storefront/internal/config"
	"github.com/Pesokrava/storefront/internal/delivery/http/handler"
	"github.com/Pesokrava/storefront/internal/delivery/http/middleware"
	"github.com/Pesokrava/storefront/internal/delivery/http/response"
	"github.com/Pesokrava/storefront/internal/pkg/logger"
)

// Handlers groups the HTTP handlers mounted by the router
type Handlers struct {
	Product *handler.ProductHandler
	Review  *handler.ReviewHandler
	Browse  *handler.BrowseHandler
	Cart    *handler.CartHandler
}

// Router holds HTTP handlers and router configuration
type Router struct {
	handlers Handlers
	limiter  *middleware.RateLimiter
	logger   *logger.Logger
	cfg      *config.Config
}

// NewRouter creates a new HTTP router. A nil limiter disables rate limiting.
func NewRouter(
	handlers Handlers,
	limiter *middleware.RateLimiter,
	cfg *config.Config,
	log *logger.Logger,
) *Router {
	return &Router{
		handlers: handlers,
		limiter:  limiter,
		logger:   log,
		cfg:      cfg,
	}
}

// Setup configures and returns the HTTP router
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", rt.healthCheck)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		if rt.limiter != nil {
			r.Use(rt.limiter.Handler)
		}

		r.Route("/products", func(r chi.Router) {
			r.Post("/", rt.handlers.Product.Create)
			r.Get("/", rt.handlers.Product.List)
			r.Get("/{id}", rt.handlers.Product.GetByID)
			r.Put("/{id}", rt.handlers.Product.Update)
			r.Delete("/{id}", rt.handlers.Product.Delete)
			r.Get("/{id}/reviews", rt.handlers.Review.List)
			r.Post("/{id}/reviews", rt.handlers.Review.Create)
		})

		r.Route("/selection", func(r chi.Router) {
			r.Get("/", rt.handlers.Browse.GetSelection)
			r.Put("/", rt.handlers.Browse.SetSelection)
			r.Delete("/", rt.handlers.Browse.ClearSelection)
		})

		r.Route("/filters", func(r chi.Router) {
			r.Get("/", rt.handlers.Browse.GetFilters)
			r.Patch("/", rt.handlers.Browse.PatchFilters)
			r.Delete("/", rt.handlers.Browse.ClearFilters)
		})

		r.Get("/status", rt.handlers.Browse.Status)
		r.Post("/catalog/reload", rt.handlers.Browse.Reload)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", rt.handlers.Cart.Get)
			r.Delete("/", rt.handlers.Cart.Clear)
			r.Post("/items", rt.handlers.Cart.AddItem)
			r.Delete("/items/{id}", rt.handlers.Cart.RemoveItem)
		})
	})

	return r
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
