// Package store persists products in PostgreSQL or MongoDB.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a persisted catalog record.
type Product struct {
	ID              string
	Name            string
	Description     string
	LongDescription string
	Price           decimal.Decimal
	Category        string
	Stock           int
	Image           string
	Ingredients     []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProductInput carries the writable fields of a product.
// On update an empty Image keeps the stored one.
type ProductInput struct {
	Name            string
	Description     string
	LongDescription string
	Price           decimal.Decimal
	Category        string
	Stock           int
	Image           string
	Ingredients     []string
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., PostgreSQL, MongoDB).
type ProductStore interface {
	// FindAll returns every product, newest first.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID
	// and ErrInvalidProductID if the ID is malformed for the backend.
	FindByID(ctx context.Context, id string) (*Product, error)

	// Create adds a new product and returns it with its generated ID and timestamps.
	Create(ctx context.Context, in ProductInput) (*Product, error)

	// Update replaces the writable fields of a product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id string, in ProductInput) (*Product, error)

	// Delete removes a product and returns the removed record.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Delete(ctx context.Context, id string) (*Product, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}
