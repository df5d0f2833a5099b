// Package service provides the product catalogue business logic shared by the storefront and the admin area.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/abgdnv/soapshop/internal/catalog"
	"github.com/abgdnv/soapshop/internal/media"
	"github.com/abgdnv/soapshop/internal/store"
	"github.com/abgdnv/soapshop/pkg/messaging"
	"github.com/abgdnv/soapshop/pkg/messaging/events"
	"github.com/shopspring/decimal"
)

// ProductService defines the methods for reading and managing products.
type ProductService interface {
	// Catalog returns every product, newest first.
	// A failing backend yields an empty catalogue, never an error.
	Catalog(ctx context.Context) []catalog.Product

	// FindByID retrieves a single product for its detail page.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id string) (*catalog.Product, error)

	// AdminList returns all products with per-category statistics.
	AdminList(ctx context.Context) (*AdminListing, error)

	// Create adds a product. image may be nil.
	Create(ctx context.Context, form ProductFormDto, image io.Reader) (*catalog.Product, error)

	// Update replaces a product's fields. A nil image keeps the current one.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id string, form ProductFormDto, image io.Reader) (*catalog.Product, error)

	// Delete removes a product and, best effort, its uploaded image.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Delete(ctx context.Context, id string) error

	// Ping checks that the product backend is reachable.
	Ping(ctx context.Context) error
}

// ImageStore keeps uploaded product images.
type ImageStore interface {
	Save(productName string, r io.Reader) (string, error)
	Delete(url string) error
	URLPrefix() string
}

// ProductFormDto represents the admin form for creating or editing a product.
type ProductFormDto struct {
	Name            string          `json:"name"            validate:"required,max=100"`
	Description     string          `json:"description"     validate:"required,max=500"`
	LongDescription string          `json:"longDescription" validate:"max=5000"`
	Price           decimal.Decimal `json:"price"           validate:"gt=0"`
	Category        string          `json:"category"        validate:"required,max=50"`
	Stock           int             `json:"stock"           validate:"gte=0"`
	Ingredients     []string        `json:"ingredients"     validate:"max=30,dive,required,max=100"`
}

// Stats summarises the catalogue for the admin dashboard.
type Stats struct {
	Total      int            `json:"total"`
	Categories map[string]int `json:"categories"`
}

// AdminListing is the admin dashboard payload.
type AdminListing struct {
	Stats    Stats             `json:"stats"`
	Products []catalog.Product `json:"products"`
}

// Service implements ProductService on top of a ProductStore.
type Service struct {
	repository store.ProductStore
	images     ImageStore
	publisher  messaging.Publisher
	logger     *slog.Logger
}

// NewService creates a new instance of ProductService with the provided collaborators.
func NewService(repo store.ProductStore, images ImageStore, publisher messaging.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &Service{
		repository: repo,
		images:     images,
		publisher:  publisher,
		logger:     logger.With("component", "service"),
	}
}

func (s *Service) Catalog(ctx context.Context) []catalog.Product {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch catalogue, serving an empty one", "error", err)
		return []catalog.Product{}
	}
	return toCatalog(products)
}

func (s *Service) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	p, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}
	out := toDto(p)
	if out.LongDescription == "" {
		out.LongDescription = out.Description
	}
	return &out, nil
}

func (s *Service) AdminList(ctx context.Context) (*AdminListing, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	stats := Stats{Total: len(products), Categories: make(map[string]int)}
	for _, p := range products {
		stats.Categories[p.Category]++
	}
	return &AdminListing{Stats: stats, Products: toCatalog(products)}, nil
}

func (s *Service) Create(ctx context.Context, form ProductFormDto, image io.Reader) (*catalog.Product, error) {
	in := toInput(form)
	if image != nil {
		url, err := s.images.Save(form.Name, image)
		if err != nil {
			return nil, fmt.Errorf("failed to save product image: %w", err)
		}
		in.Image = url
	} else {
		in.Image = media.DefaultImageURL(s.images.URLPrefix(), form.Name)
	}

	created, err := s.repository.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.publish(ctx, events.NewProductCreated(created.ID, created.Name, created.Category, created.Price))
	out := toDto(created)
	return &out, nil
}

func (s *Service) Update(ctx context.Context, id string, form ProductFormDto, image io.Reader) (*catalog.Product, error) {
	current, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}

	in := toInput(form)
	if image != nil {
		url, err := s.images.Save(form.Name, image)
		if err != nil {
			return nil, fmt.Errorf("failed to save product image: %w", err)
		}
		in.Image = url
	}

	updated, err := s.repository.Update(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %s: %w", id, err)
	}
	if in.Image != "" && current.Image != in.Image {
		s.deleteImage(ctx, current.Image)
	}
	s.publish(ctx, events.NewProductUpdated(updated.ID, updated.Name, updated.Category, updated.Price))
	out := toDto(updated)
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repository.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product with ID %s: %w", id, err)
	}
	s.deleteImage(ctx, deleted.Image)
	s.publish(ctx, events.NewProductDeleted(deleted.ID))
	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.repository.Ping(ctx)
}

// deleteImage never fails the calling operation.
func (s *Service) deleteImage(ctx context.Context, url string) {
	if err := s.images.Delete(url); err != nil {
		s.logger.WarnContext(ctx, "Failed to delete product image", "image", url, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish event", "subject", event.Subject(), "error", err)
	}
}

func toInput(form ProductFormDto) store.ProductInput {
	return store.ProductInput{
		Name:            form.Name,
		Description:     form.Description,
		LongDescription: form.LongDescription,
		Price:           form.Price,
		Category:        form.Category,
		Stock:           form.Stock,
		Ingredients:     form.Ingredients,
	}
}

// toDto converts a store.Product to a catalog.Product.
func toDto(p *store.Product) catalog.Product {
	return catalog.Product{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		LongDescription: p.LongDescription,
		Price:           p.Price,
		Category:        p.Category,
		Stock:           p.Stock,
		Image:           p.Image,
		Ingredients:     p.Ingredients,
		CreatedAt:       p.CreatedAt,
	}
}

func toCatalog(products []store.Product) []catalog.Product {
	out := make([]catalog.Product, len(products))
	for i := range products {
		out[i] = toDto(&products[i])
	}
	return out
}
