package domain

import "time"

const (
	EventCreated       = "created"
	EventStatusChanged = "status_changed"
	EventCancelled     = "cancelled"
)

// OrderEvent is an audit record of something that happened to an order.
type OrderEvent struct {
	OrderID   int64       `json:"order_id" bson:"order_id"`
	Type      string      `json:"type" bson:"type"`
	Status    OrderStatus `json:"status" bson:"status"`
	ActorID   int64       `json:"actor_id" bson:"actor_id"`
	Note      string      `json:"note,omitempty" bson:"note,omitempty"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
}
