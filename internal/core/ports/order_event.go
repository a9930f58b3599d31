package ports

import (
	"context"

	"github.com/lewkins/storefront-api/internal/core/domain"
)

// OrderEventRepository persists the order audit trail.
type OrderEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.OrderEvent) error
	// ListByOrder returns events for one order, oldest first.
	ListByOrder(ctx context.Context, orderID int64) ([]*domain.OrderEvent, error)
}

// OrderEventPublisher hands audit events off for asynchronous persistence.
type OrderEventPublisher interface {
	Publish(event domain.OrderEvent)
}
