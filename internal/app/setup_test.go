package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abgdnv/soapshop/internal/config"
	pkgconfig "github.com/abgdnv/soapshop/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.HTTPServer.Port = 8080
	cfg.HTTPServer.MaxBodyBytes = 1 << 10
	cfg.HTTPServer.Timeout.Read = time.Second
	cfg.HTTPServer.Timeout.Write = time.Second
	cfg.HTTPServer.Timeout.Idle = time.Second
	cfg.HTTPServer.Timeout.ReadHeader = time.Second
	cfg.Database.Driver = pkgconfig.DriverMemory
	cfg.Admin.TokenSecret = strings.Repeat("s", 32)
	cfg.Media.Dir = filepath.Join(t.TempDir(), "soaps")
	cfg.Metrics.Enabled = true
	cfg.GRPC.Enabled = true
	cfg.GRPC.Port = "0"
	cfg.Resilience.CircuitBreaker = pkgconfig.CircuitBreakerConfig{ConsecutiveFailures: 5, ErrorRatePercent: 50, OpenTimeout: time.Second}
	require.NoError(t, cfg.Validate())
	return cfg
}

func newTestDeps(t *testing.T) *Dependencies {
	t.Helper()
	deps, err := SetupDependencies(context.Background(), memoryConfig(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(deps.Close)
	t.Cleanup(deps.Carousel.Stop)
	return deps
}

func Test_SetupDependencies_Memory(t *testing.T) {
	deps := newTestDeps(t)

	assert.Len(t, deps.ProductService.Catalog(context.Background()), 22)
	assert.Equal(t, 8, deps.Carousel.State().Size, "winter collection holds the herbal and luxury soaps")
	assert.NotNil(t, deps.Health)
	assert.Len(t, deps.Tasks, 3, "carousel, cart janitor and health reporter")
}

func Test_SetupDependencies_UnknownCollection(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Carousel.Collection = "summer"
	_, err := SetupDependencies(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func Test_SetupHttpHandler(t *testing.T) {
	deps := newTestDeps(t)
	handler := SetupHttpHandler(deps)

	t.Run("catalogue", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products?category=Luxury&sortBy=priceHighLow", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		var view struct {
			Count    int `json:"count"`
			Products []struct {
				Name string `json:"name"`
			} `json:"products"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
		assert.Equal(t, 4, view.Count)
		assert.Equal(t, "Gold & Honey Soap", view.Products[0].Name)
		assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
	})
	t.Run("health", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
	t.Run("metrics", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "storefront_catalog_queries_total")
	})
}

func Test_SetupServers(t *testing.T) {
	deps := newTestDeps(t)

	httpServer := SetupHttpServer(deps)
	assert.Equal(t, ":8080", httpServer.Addr)

	grpcServer := SetupGrpcServer(deps)
	defer grpcServer.Stop()
	assert.Contains(t, grpcServer.GetServiceInfo(), "grpc.health.v1.Health")
}

func Test_bodyLimit(t *testing.T) {
	cfg := memoryConfig(t)
	assert.Equal(t, cfg.Media.MaxFileBytes+multipartOverhead, bodyLimit(cfg))

	cfg.HTTPServer.MaxBodyBytes = 0
	assert.Zero(t, bodyLimit(cfg))
}

func Test_janitorInterval(t *testing.T) {
	assert.Equal(t, time.Minute, janitorInterval(time.Second))
	assert.Equal(t, 30*time.Minute, janitorInterval(2*time.Hour))
	assert.Equal(t, time.Hour, janitorInterval(7*24*time.Hour))
}
