package memory

import (
	"context"
	"sync"

	"github.com/lewkins/storefront-api/internal/core/domain"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products []*domain.Product
	nextID   int64
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{nextID: 1}
}

func (r *ProductRepository) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := p.Clone()
	stored.ID = r.nextID
	r.nextID++
	r.products = append(r.products, stored)
	return stored.Clone(), nil
}

func (r *ProductRepository) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.index(id)
	if i < 0 {
		return nil, domain.ErrProductNotFound
	}
	return r.products[i].Clone(), nil
}

func (r *ProductRepository) List(_ context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Matches(p) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (r *ProductRepository) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(p.ID)
	if i < 0 {
		return nil, domain.ErrProductNotFound
	}
	r.products[i] = p.Clone()
	return p.Clone(), nil
}

func (r *ProductRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return domain.ErrProductNotFound
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	return nil
}

func (r *ProductRepository) index(id int64) int {
	for i, p := range r.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
