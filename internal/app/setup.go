// Package app wires the storefront's components together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/soapshop/internal/auth"
	"github.com/abgdnv/soapshop/internal/carousel"
	"github.com/abgdnv/soapshop/internal/cart"
	"github.com/abgdnv/soapshop/internal/catalog"
	"github.com/abgdnv/soapshop/internal/config"
	"github.com/abgdnv/soapshop/internal/media"
	"github.com/abgdnv/soapshop/internal/service"
	"github.com/abgdnv/soapshop/internal/store"
	grpcImpl "github.com/abgdnv/soapshop/internal/transport/grpc"
	"github.com/abgdnv/soapshop/internal/transport/rest"
	"github.com/abgdnv/soapshop/pkg/bootstrap"
	pkgconfig "github.com/abgdnv/soapshop/pkg/config"
	"github.com/abgdnv/soapshop/pkg/messaging"
	"github.com/abgdnv/soapshop/pkg/messaging/events"
	"github.com/abgdnv/soapshop/pkg/metrics"
	natsclient "github.com/abgdnv/soapshop/pkg/nats"
	"github.com/abgdnv/soapshop/pkg/server"
	"github.com/abgdnv/soapshop/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/sony/gobreaker/v2"
	"google.golang.org/grpc"
)

const (
	ServiceName = "storefront"

	breakerName = "product-store"

	// room for multipart framing and text fields on top of the image itself
	multipartOverhead = 1 << 20
)

// Task is a long running component started next to the servers.
type Task func(ctx context.Context) error

type Dependencies struct {
	Config         *config.Config
	Logger         *slog.Logger
	ProductStore   store.ProductStore
	ProductService service.ProductService
	Carts          cart.SessionStore
	Authenticator  *auth.Authenticator
	Carousel       *carousel.Carousel
	Metrics        *metrics.Metrics
	Health         *grpcImpl.HealthReporter
	Tasks          []Task

	closers []func()
}

// Close releases the connections opened by SetupDependencies, last opened first.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// SetupDependencies connects to the configured backends and builds the services.
func SetupDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, Logger: logger}
	ok := false
	defer func() {
		if !ok {
			deps.Close()
		}
	}()

	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.New(ServiceName)
	}

	raw, closeStore, err := OpenProductStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	deps.closers = append(deps.closers, closeStore)
	deps.ProductStore = store.NewResilientStore(breakerName, raw, cfg.Resilience.CircuitBreaker, logger,
		func(name string, state gobreaker.State) { deps.Metrics.BreakerState(name, int(state)) })

	publisher, err := setupPublisher(ctx, cfg, deps, logger)
	if err != nil {
		return nil, err
	}

	images := media.NewStore(cfg.Media)
	deps.ProductService = service.NewService(deps.ProductStore, images, publisher, logger)

	if err := setupCarts(ctx, cfg, deps); err != nil {
		return nil, err
	}

	authenticator, err := auth.NewAuthenticator(cfg.Admin)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin authenticator: %w", err)
	}
	deps.Authenticator = authenticator

	slides, err := catalog.Collection(cfg.Carousel.Collection, deps.ProductService.Catalog(ctx))
	if err != nil {
		return nil, fmt.Errorf("invalid featured collection: %w", err)
	}
	deps.Carousel = carousel.New(len(slides),
		carousel.WithInterval(cfg.Carousel.Interval),
		carousel.WithResumeDelay(cfg.Carousel.ResumeDelay),
		carousel.WithOnAdvance(func(index int) {
			logger.Debug("Featured slide advanced", "index", index)
		}),
	)
	deps.Tasks = append(deps.Tasks, deps.Carousel.Run)

	if cfg.GRPC.Enabled {
		deps.Health = grpcImpl.NewHealthReporter(deps.ProductStore, cfg.GRPC.HealthInterval, logger)
		deps.Tasks = append(deps.Tasks, deps.Health.Run)
	}
	ok = true
	return deps, nil
}

// OpenProductStore connects to the configured product backend.
// The memory backend starts with the sample catalogue.
func OpenProductStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.ProductStore, func(), error) {
	db := cfg.Database
	switch db.Driver {
	case pkgconfig.DriverPostgres:
		if db.Migrate {
			if err := store.Migrate(db.URL, store.Up); err != nil {
				return nil, nil, err
			}
			logger.Info("Database migrations applied")
		}
		pool, err := bootstrap.NewDbPool(ctx, db.URL, db.Timeout)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Successfully connected to PostgreSQL")
		return store.NewPgStore(pool), pool.Close, nil
	case pkgconfig.DriverMongo:
		client, err := bootstrap.NewMongoClient(ctx, db.URL, db.Timeout)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Successfully connected to MongoDB", "database", db.Name)
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		return store.NewMongoStore(client.Database(db.Name)), closeFn, nil
	case pkgconfig.DriverMemory:
		mem := store.NewMemoryStore()
		n, err := store.Seed(ctx, mem, store.SampleProducts(cfg.Media.URLPrefix), false)
		if err != nil {
			return nil, nil, err
		}
		logger.Warn("Using the in-memory product store, data is lost on restart", "seeded", n)
		return mem, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %q", db.Driver)
	}
}

func setupPublisher(ctx context.Context, cfg *config.Config, deps *Dependencies, logger *slog.Logger) (messaging.Publisher, error) {
	if !cfg.NATS.Enabled {
		return messaging.NoopPublisher{}, nil
	}
	nc, js, err := natsclient.Connect(ServiceName, cfg.NATS, logger)
	if err != nil {
		return nil, err
	}
	deps.closers = append(deps.closers, func() { _ = nc.Drain() })
	if err := natsclient.EnsureStream(ctx, js, natsclient.StreamConfig(cfg.NATS, events.ProductSubjects)); err != nil {
		return nil, err
	}
	logger.Info("Publishing product events to NATS", "stream", cfg.NATS.Stream)
	return natsclient.NewNatsPublisher(js), nil
}

func setupCarts(ctx context.Context, cfg *config.Config, deps *Dependencies) error {
	if cfg.Redis.Enabled {
		client, err := bootstrap.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		deps.closers = append(deps.closers, func() { _ = client.Close() })
		deps.Carts = cart.NewRedisStore(client, cfg.Cart.TTL)
		deps.Logger.Info("Cart sessions stored in Redis")
		return nil
	}
	mem := cart.NewMemoryStore(cfg.Cart.TTL)
	deps.Carts = mem
	deps.Tasks = append(deps.Tasks, func(ctx context.Context) error {
		return mem.RunJanitor(ctx, janitorInterval(cfg.Cart.TTL))
	})
	return nil
}

// SetupHttpHandler builds the router with all storefront routes.
// Used by tests to exercise the full middleware stack.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	cfg := deps.Config
	extra := []func(http.Handler) http.Handler{web.MaxBodyBytes(bodyLimit(cfg))}
	if deps.Metrics != nil {
		extra = append(extra, deps.Metrics.Middleware)
	}
	mux := server.NewChiRouter(deps.Logger, extra...)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the storefront.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	cfg := deps.Config
	handler := rest.NewHandler(rest.Dependencies{
		Products:           deps.ProductService,
		Carts:              deps.Carts,
		Admin:              deps.Authenticator,
		Carousel:           deps.Carousel,
		FeaturedCollection: cfg.Carousel.Collection,
		Metrics:            deps.Metrics,
		Session:            cfg.Cart,
		SecureAdminCookie:  cfg.Admin.SecureCookie,
		Media:              cfg.Media,
	}, deps.Logger)
	handler.RegisterRoutes(mux)

	if deps.Metrics != nil {
		mux.Handle(cfg.Metrics.Path, deps.Metrics.Handler())
	}
}

// SetupHttpServer creates and configures the storefront HTTP server.
func SetupHttpServer(deps *Dependencies) *http.Server {
	return server.NewHTTPServer(ServiceName, deps.Config.HTTPServer, SetupHttpHandler(deps))
}

// SetupGrpcServer creates the gRPC server carrying the health service.
func SetupGrpcServer(deps *Dependencies) *grpc.Server {
	return server.NewGRPCServer(deps.Logger, deps.Config.GRPC, deps.Health.Register)
}

// bodyLimit keeps image uploads possible when the configured limit is smaller than an image.
func bodyLimit(cfg *config.Config) int64 {
	limit := cfg.HTTPServer.MaxBodyBytes
	if limit <= 0 {
		return 0
	}
	return max(limit, cfg.Media.MaxFileBytes+multipartOverhead)
}
