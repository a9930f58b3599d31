package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/lewkins/storefront-api/internal/core/domain"
	"github.com/lewkins/storefront-api/internal/core/ports"
)

const (
	recentOrdersLimit      = 10
	defaultIdempotencyTTL  = 24 * time.Hour
	defaultIdempotencyWait = 5 * time.Second
	idempotencyPoll        = 10 * time.Millisecond
)

// OrderOptions carries pricing defaults and the optional idempotency store.
type OrderOptions struct {
	ShippingCost   float64
	TaxRate        float64
	Idempotency    ports.IdempotencyStore
	IdempotencyTTL time.Duration
	// IdempotencyWait bounds how long a retry waits for a concurrent request
	// holding the same key to finish.
	IdempotencyWait time.Duration
}

type OrderService struct {
	orders    ports.OrderRepository
	events    ports.OrderEventRepository
	publisher ports.OrderEventPublisher
	opts      OrderOptions
	log       zerolog.Logger
	now       func() time.Time
}

func NewOrderService(
	orders ports.OrderRepository,
	events ports.OrderEventRepository,
	publisher ports.OrderEventPublisher,
	opts OrderOptions,
	log zerolog.Logger,
) *OrderService {
	if opts.IdempotencyTTL <= 0 {
		opts.IdempotencyTTL = defaultIdempotencyTTL
	}
	if opts.IdempotencyWait <= 0 {
		opts.IdempotencyWait = defaultIdempotencyWait
	}
	return &OrderService{
		orders:    orders,
		events:    events,
		publisher: publisher,
		opts:      opts,
		log:       log,
		now:       time.Now,
	}
}

// Create places an order for actor. When an idempotency key is supplied and was
// already used by the same customer, the earlier order is returned untouched.
func (s *OrderService) Create(ctx context.Context, actor *domain.User, in ports.CreateOrderInput) (*ports.CreateOrderResult, error) {
	if err := validateCreateOrder(in); err != nil {
		return nil, err
	}

	idemKey := ""
	if in.IdempotencyKey != "" && s.opts.Idempotency != nil {
		key := fmt.Sprintf("%d:%s", actor.ID, in.IdempotencyKey)
		existing, reserved, err := s.reserve(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			s.log.Info().Str("idempotency_key", in.IdempotencyKey).Int64("order_id", existing.ID).Msg("idempotent replay")
			return &ports.CreateOrderResult{Order: existing, Replayed: true}, nil
		}
		if reserved {
			idemKey = key
		}
	}

	shippingCost := s.opts.ShippingCost
	if in.ShippingCost != nil {
		shippingCost = *in.ShippingCost
	}
	taxRate := s.opts.TaxRate
	if in.TaxRate != nil {
		taxRate = *in.TaxRate
	}

	now := s.now()
	order, err := s.orders.Create(ctx, &domain.Order{
		OrderID:           domain.OrderCode(now),
		CustomerID:        actor.ID,
		CustomerName:      in.ShippingInfo.FullName(),
		CustomerEmail:     in.ShippingInfo.Email,
		Status:            domain.StatusPending,
		ShippingInfo:      in.ShippingInfo,
		PaymentInfo:       domain.PaymentInfo{Method: in.PaymentMethod, Status: domain.PaymentPending},
		Items:             in.Items,
		Pricing:           domain.CalculatePricing(in.Items, shippingCost, taxRate),
		EstimatedDelivery: domain.EstimatedDelivery(now),
		CustomerNotes:     in.CustomerNotes,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create order")
		if idemKey != "" {
			if rerr := s.opts.Idempotency.Release(context.WithoutCancel(ctx), idemKey); rerr != nil {
				s.log.Warn().Err(rerr).Msg("failed to release idempotency key")
			}
		}
		return nil, err
	}

	if idemKey != "" {
		if err := s.opts.Idempotency.Complete(context.WithoutCancel(ctx), idemKey, order.ID, s.opts.IdempotencyTTL); err != nil {
			s.log.Warn().Err(err).Int64("order_id", order.ID).Msg("failed to store idempotency key")
		}
	}

	s.publish(ctx, order, domain.EventCreated, actor.ID, "")
	s.log.Info().Int64("order_id", order.ID).Str("code", order.OrderID).Int64("customer_id", actor.ID).Msg("order created")

	return &ports.CreateOrderResult{Order: order}, nil
}

// reserve claims key for this request. It returns the earlier order when the key
// was already used, and waits while another request holding the key is still
// creating its order. A failing store never blocks checkout: the order is then
// created without a reservation.
func (s *OrderService) reserve(ctx context.Context, key string) (*domain.Order, bool, error) {
	timeout := time.NewTimer(s.opts.IdempotencyWait)
	defer timeout.Stop()

	for {
		id, reserved, err := s.opts.Idempotency.Reserve(ctx, key, s.opts.IdempotencyTTL)
		if err != nil {
			s.log.Warn().Err(err).Msg("idempotency reserve failed, creating anyway")
			return nil, false, nil
		}
		if reserved {
			return nil, true, nil
		}
		if id != 0 {
			order, err := s.orders.FindByID(ctx, id)
			if err != nil {
				return nil, false, err
			}
			return order, false, nil
		}
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-timeout.C:
			return nil, false, domain.ErrIdempotencyInProgress
		case <-time.After(idempotencyPoll):
		}
	}
}

func validateCreateOrder(in ports.CreateOrderInput) error {
	si := in.ShippingInfo
	for _, f := range []struct{ name, value string }{
		{"firstName", si.FirstName},
		{"lastName", si.LastName},
		{"email", si.Email},
		{"phone", si.Phone},
		{"address", si.Address},
		{"city", si.City},
		{"province", si.Province},
		{"zipCode", si.ZipCode},
	} {
		if f.value == "" {
			return domain.Invalid("missing shipping field: " + f.name)
		}
	}
	if in.PaymentMethod == "" {
		return domain.Invalid("missing payment field: paymentMethod")
	}
	if in.Items == nil {
		return domain.Invalid("missing field: items")
	}
	return nil
}

// List returns every order for admins and only the actor's own orders otherwise.
func (s *OrderService) List(ctx context.Context, actor *domain.User) ([]*domain.Order, error) {
	if actor.IsAdmin() {
		return s.orders.List(ctx, 0)
	}
	return s.orders.List(ctx, actor.ID)
}

func (s *OrderService) Get(ctx context.Context, actor *domain.User, id int64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, order) {
		return nil, domain.ErrNotOwner
	}
	return order, nil
}

// History returns the audit trail of an order the actor is allowed to see.
func (s *OrderService) History(ctx context.Context, actor *domain.User, id int64) ([]*domain.OrderEvent, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.events.ListByOrder(ctx, id)
}

// UpdateStatus is admin-only; any status may follow any other.
func (s *OrderService) UpdateStatus(ctx context.Context, actor *domain.User, id int64, in ports.UpdateOrderStatusInput) (*domain.Order, error) {
	status := domain.OrderStatus(in.Status)
	if !status.Valid() {
		return nil, domain.ErrInvalidOrderStatus
	}

	order, err := s.orders.Mutate(ctx, id, func(o *domain.Order) error {
		o.Status = status
		o.UpdatedAt = s.now()
		if in.TrackingNumber != nil {
			tn := *in.TrackingNumber
			o.TrackingNumber = &tn
		}
		if in.AdminNotes != nil {
			o.AdminNotes = *in.AdminNotes
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	note := ""
	if in.AdminNotes != nil {
		note = *in.AdminNotes
	}
	s.publish(ctx, order, domain.EventStatusChanged, actor.ID, note)
	s.log.Info().Int64("order_id", id).Str("status", in.Status).Msg("order status updated")
	return order, nil
}

func (s *OrderService) Stats(ctx context.Context) (*domain.OrderStats, error) {
	orders, err := s.orders.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	stats := &domain.OrderStats{
		TotalOrders:  len(orders),
		StatusCounts: make(map[domain.OrderStatus]int),
	}
	for _, o := range orders {
		stats.StatusCounts[o.Status]++
		if o.Status != domain.StatusCancelled {
			stats.TotalRevenue += o.Pricing.Total
		}
	}

	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	if len(orders) > recentOrdersLimit {
		orders = orders[:recentOrdersLimit]
	}
	stats.RecentOrders = orders

	return stats, nil
}

// Cancel moves a pending or processing order to cancelled. Orders are never deleted.
func (s *OrderService) Cancel(ctx context.Context, actor *domain.User, id int64) (*domain.Order, error) {
	order, err := s.orders.Mutate(ctx, id, func(o *domain.Order) error {
		if !canView(actor, o) {
			return domain.ErrNotOwner
		}
		if err := o.Status.CheckCancel(); err != nil {
			return err
		}
		o.Status = domain.StatusCancelled
		o.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Debug().Err(err).Int64("order_id", id).Msg("cancel rejected")
		}
		return nil, err
	}

	s.publish(ctx, order, domain.EventCancelled, actor.ID, "")
	s.log.Info().Int64("order_id", id).Int64("actor_id", actor.ID).Msg("order cancelled")
	return order, nil
}

// publish hands the event to the asynchronous publisher when one is configured
// and otherwise writes it straight to the event repository, so the history is
// readable as soon as the call returns.
func (s *OrderService) publish(ctx context.Context, o *domain.Order, kind string, actorID int64, note string) {
	event := domain.OrderEvent{
		OrderID:   o.ID,
		Type:      kind,
		Status:    o.Status,
		ActorID:   actorID,
		Note:      note,
		Timestamp: o.UpdatedAt,
	}
	if s.publisher != nil {
		s.publisher.Publish(event)
		return
	}
	if err := s.events.InsertEvent(context.WithoutCancel(ctx), &event); err != nil {
		s.log.Error().Err(err).Int64("order_id", o.ID).Str("type", kind).Msg("order event write failed")
	}
}

func canView(actor *domain.User, o *domain.Order) bool {
	return actor.IsAdmin() || o.OwnedBy(actor.ID)
}
