package memory

import (
	"context"
	"sync"

	"github.com/lewkins/storefront-api/internal/core/domain"
)

// OrderEventRepository keeps the audit trail in memory when no MongoDB is configured.
type OrderEventRepository struct {
	mu     sync.RWMutex
	events map[int64][]domain.OrderEvent
}

func NewOrderEventRepository() *OrderEventRepository {
	return &OrderEventRepository{events: make(map[int64][]domain.OrderEvent)}
}

func (r *OrderEventRepository) InsertEvent(_ context.Context, event *domain.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[event.OrderID] = append(r.events[event.OrderID], *event)
	return nil
}

func (r *OrderEventRepository) ListByOrder(_ context.Context, orderID int64) ([]*domain.OrderEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.events[orderID]
	out := make([]*domain.OrderEvent, len(stored))
	for i := range stored {
		e := stored[i]
		out[i] = &e
	}
	return out, nil
}
