// Package rest provides the storefront HTTP API.
package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/abgdnv/soapshop/internal/carousel"
	"github.com/abgdnv/soapshop/internal/cart"
	"github.com/abgdnv/soapshop/internal/service"
	"github.com/abgdnv/soapshop/pkg/config"
	"github.com/abgdnv/soapshop/pkg/metrics"
	"github.com/abgdnv/soapshop/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

const healthCheckTimeout = 2 * time.Second

// AdminAuthenticator checks the admin password and the admin session token.
type AdminAuthenticator interface {
	Login(password string) (string, error)
	Verify(token string) error
	TTL() time.Duration
}

// Dependencies are the collaborators the handlers need.
type Dependencies struct {
	Products           service.ProductService
	Carts              cart.SessionStore
	Admin              AdminAuthenticator
	Carousel           *carousel.Carousel
	FeaturedCollection string
	Metrics            *metrics.Metrics
	Session            config.SessionConfig
	SecureAdminCookie  bool
	Media              config.MediaConfig
}

type Handler struct {
	Dependencies
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new Handler with the provided dependencies.
func NewHandler(deps Dependencies, logger *slog.Logger) *Handler {
	return &Handler{
		Dependencies: deps,
		validate:     service.NewValidator(),
		logger:       logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the storefront and admin routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Get("/{id}", h.FindByID)
		})
		r.Get("/collections/{slug}", h.Collection)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddItem)
			r.Put("/items/{id}", h.UpdateItem)
			r.Delete("/items/{id}", h.RemoveItem)
		})

		r.Route("/featured", func(r chi.Router) {
			r.Get("/", h.Featured)
			r.Post("/next", h.FeaturedNext)
			r.Post("/prev", h.FeaturedPrev)
			r.Post("/goto/{index}", h.FeaturedGoTo)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Group(func(r chi.Router) {
				r.Use(h.RequireAdmin)
				r.Get("/session", h.AdminSession)
				r.Get("/products", h.AdminList)
				r.Post("/products", h.AdminCreate)
				r.Put("/products/{id}", h.AdminUpdate)
				r.Delete("/products/{id}", h.AdminDelete)
			})
		})
	})

	if h.Media.Dir != "" && h.Media.URLPrefix != "" {
		prefix := strings.TrimSuffix(h.Media.URLPrefix, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(h.Media.Dir))))
	}

	r.Get("/healthz", h.HealthCheck)
}

// HealthCheck pings the product backend.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()
	if err := h.Products.Ping(ctx); err != nil {
		mLogger.ErrorContext(r.Context(), "Health check failed", "error", err)
		web.RespondJSON(w, mLogger, http.StatusInternalServerError, map[string]string{
			"status":  "unhealthy",
			"message": "Database connection failed",
		})
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Database connection successful",
	})
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
