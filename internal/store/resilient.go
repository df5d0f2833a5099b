package store

import (
	"context"
	"errors"
	"log/slog"

	perrors "github.com/abgdnv/soapshop/internal/errors"
	"github.com/abgdnv/soapshop/pkg/config"
	"github.com/sony/gobreaker/v2"
)

// StateObserver is notified when the breaker changes state.
type StateObserver func(name string, state gobreaker.State)

// ResilientStore wraps a ProductStore with a circuit breaker.
// Domain outcomes such as a missing product do not count as failures.
type ResilientStore struct {
	next    ProductStore
	breaker *gobreaker.CircuitBreaker[any]
}

// NewResilientStore creates a ResilientStore named name around next.
func NewResilientStore(name string, next ProductStore, cfg config.CircuitBreakerConfig, logger *slog.Logger, observers ...StateObserver) *ResilientStore {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.HalfOpenRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return cfg.Trips(counts.Requests, counts.TotalFailures, counts.ConsecutiveFailures)
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			for _, o := range observers {
				o(name, to)
			}
		},
	}
	return &ResilientStore{next: next, breaker: gobreaker.NewCircuitBreaker[any](st)}
}

// isSuccessful treats caller mistakes and domain misses as successes for the breaker.
func isSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, perrors.ErrProductNotFound) ||
		errors.Is(err, perrors.ErrInvalidProductID) ||
		errors.Is(err, context.Canceled)
}

// execute runs fn through the breaker and restores its typed result.
func execute[T any](r *ResilientStore, fn func() (T, error)) (T, error) {
	res, err := r.breaker.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

func (r *ResilientStore) FindAll(ctx context.Context) ([]Product, error) {
	return execute(r, func() ([]Product, error) { return r.next.FindAll(ctx) })
}

func (r *ResilientStore) FindByID(ctx context.Context, id string) (*Product, error) {
	return execute(r, func() (*Product, error) { return r.next.FindByID(ctx, id) })
}

func (r *ResilientStore) Create(ctx context.Context, in ProductInput) (*Product, error) {
	return execute(r, func() (*Product, error) { return r.next.Create(ctx, in) })
}

func (r *ResilientStore) Update(ctx context.Context, id string, in ProductInput) (*Product, error) {
	return execute(r, func() (*Product, error) { return r.next.Update(ctx, id, in) })
}

func (r *ResilientStore) Delete(ctx context.Context, id string) (*Product, error) {
	return execute(r, func() (*Product, error) { return r.next.Delete(ctx, id) })
}

// Ping bypasses the breaker so health checks always reach the backend.
func (r *ResilientStore) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

// State reports the breaker's current state.
func (r *ResilientStore) State() gobreaker.State {
	return r.breaker.State()
}
