package ports

import (
	"context"
	"time"

	"github.com/lewkins/storefront-api/internal/core/domain"
)

// OrderRepository is the order store.
type OrderRepository interface {
	// Create assigns the next integer id and stores the order.
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	// List returns orders in creation order. customerID 0 means all customers.
	List(ctx context.Context, customerID int64) ([]*domain.Order, error)
	// Mutate applies fn to the stored order under the store lock. The order is
	// only written back when fn returns nil.
	Mutate(ctx context.Context, id int64, fn func(o *domain.Order) error) (*domain.Order, error)
}

// IdempotencyStore remembers which order an Idempotency-Key produced.
// IdempotencyStore claims Idempotency-Key values for order creation.
type IdempotencyStore interface {
	// Reserve atomically claims key. When the key is already held it returns
	// reserved=false and the order id recorded for it, which is 0 while the
	// holder has not finished creating its order.
	Reserve(ctx context.Context, key string, ttl time.Duration) (orderID int64, reserved bool, err error)
	// Complete records the order created under a reserved key.
	Complete(ctx context.Context, key string, orderID int64, ttl time.Duration) error
	// Release drops a reservation whose order was never created.
	Release(ctx context.Context, key string) error
}

type CreateOrderInput struct {
	ShippingInfo   domain.ShippingInfo
	PaymentMethod  string
	Items          []domain.OrderItem
	ShippingCost   *float64
	TaxRate        *float64
	CustomerNotes  string
	IdempotencyKey string
}

type UpdateOrderStatusInput struct {
	Status         string
	TrackingNumber *string
	AdminNotes     *string
}

// CreateOrderResult wraps the created order. Replayed is true when an
// Idempotency-Key matched an earlier order.
type CreateOrderResult struct {
	Order    *domain.Order
	Replayed bool
}

type OrderService interface {
	Create(ctx context.Context, actor *domain.User, in CreateOrderInput) (*CreateOrderResult, error)
	List(ctx context.Context, actor *domain.User) ([]*domain.Order, error)
	Get(ctx context.Context, actor *domain.User, id int64) (*domain.Order, error)
	History(ctx context.Context, actor *domain.User, id int64) ([]*domain.OrderEvent, error)
	UpdateStatus(ctx context.Context, actor *domain.User, id int64, in UpdateOrderStatusInput) (*domain.Order, error)
	Stats(ctx context.Context) (*domain.OrderStats, error)
	Cancel(ctx context.Context, actor *domain.User, id int64) (*domain.Order, error)
}
