package server

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/soapshop/pkg/config"
	"github.com/abgdnv/soapshop/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewHTTPServer creates and configures a new HTTP server instance.
// The handler is wrapped with OpenTelemetry instrumentation named after serviceName.
func NewHTTPServer(serviceName string, cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           otelhttp.NewHandler(handler, serviceName),
		ReadTimeout:       cfg.Timeout.Read,
		WriteTimeout:      cfg.Timeout.Write,
		IdleTimeout:       cfg.Timeout.Idle,
		ReadHeaderTimeout: cfg.Timeout.ReadHeader,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}

// NewChiRouter creates a new Chi router with a set of
// middleware for request ID injection, structured logging, and recovery.
// Extra middleware, such as metrics, is appended after the defaults.
func NewChiRouter(logger *slog.Logger, extra ...func(http.Handler) http.Handler) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(web.RequestIDInjector)
	mux.Use(web.StructuredLogger(logger))
	mux.Use(web.Recoverer(logger))
	mux.Use(extra...)
	return mux
}
