package memory

import (
	"context"
	"sync"

	"github.com/lewkins/storefront-api/internal/core/domain"
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders []*domain.Order
	nextID int64
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{nextID: 1}
}

func (r *OrderRepository) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := o.Clone()
	stored.ID = r.nextID
	r.nextID++
	r.orders = append(r.orders, stored)
	return stored.Clone(), nil
}

func (r *OrderRepository) FindByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o := r.find(id)
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o.Clone(), nil
}

func (r *OrderRepository) List(_ context.Context, customerID int64) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if customerID != 0 && o.CustomerID != customerID {
			continue
		}
		out = append(out, o.Clone())
	}
	return out, nil
}

// Mutate runs fn on a copy of the order and stores the copy only if fn succeeds,
// so a rejected change never leaves a half-applied order behind.
func (r *OrderRepository) Mutate(_ context.Context, id int64, fn func(o *domain.Order) error) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, o := range r.orders {
		if o.ID != id {
			continue
		}
		working := o.Clone()
		if err := fn(working); err != nil {
			return nil, err
		}
		working.ID = id
		r.orders[i] = working
		return working.Clone(), nil
	}
	return nil, domain.ErrOrderNotFound
}

func (r *OrderRepository) find(id int64) *domain.Order {
	for _, o := range r.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}
