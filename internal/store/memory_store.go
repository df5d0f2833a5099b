package store

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	perrors "github.com/abgdnv/soapshop/internal/errors"
)

// MemoryStore implements ProductStore using an in-memory slice.
// IDs are sequential integers rendered as strings.
type MemoryStore struct {
	mu       sync.RWMutex
	products []Product
	nextID   int
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, now: time.Now}
}

func (s *MemoryStore) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.products))
	// products are appended in creation order; newest first means walking backwards
	for i := len(s.products) - 1; i >= 0; i-- {
		list = append(list, clone(s.products[i]))
	}
	slices.SortStableFunc(list, func(a, b Product) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return list, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.index(id)
	if i < 0 {
		return nil, perrors.ErrProductNotFound
	}
	p := clone(s.products[i])
	return &p, nil
}

func (s *MemoryStore) Create(_ context.Context, in ProductInput) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p := Product{
		ID:              strconv.Itoa(s.nextID),
		Name:            in.Name,
		Description:     in.Description,
		LongDescription: in.LongDescription,
		Price:           in.Price,
		Category:        in.Category,
		Stock:           in.Stock,
		Image:           in.Image,
		Ingredients:     slices.Clone(in.Ingredients),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.nextID++
	s.products = append(s.products, p)
	out := clone(p)
	return &out, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, in ProductInput) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil, perrors.ErrProductNotFound
	}
	p := &s.products[i]
	p.Name = in.Name
	p.Description = in.Description
	p.LongDescription = in.LongDescription
	p.Price = in.Price
	p.Category = in.Category
	p.Stock = in.Stock
	p.Ingredients = slices.Clone(in.Ingredients)
	if in.Image != "" {
		p.Image = in.Image
	}
	p.UpdatedAt = s.now()
	out := clone(*p)
	return &out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil, perrors.ErrProductNotFound
	}
	removed := s.products[i]
	s.products = slices.Delete(s.products, i, i+1)
	return &removed, nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) index(id string) int {
	return slices.IndexFunc(s.products, func(p Product) bool { return p.ID == id })
}

func clone(p Product) Product {
	p.Ingredients = slices.Clone(p.Ingredients)
	return p
}
