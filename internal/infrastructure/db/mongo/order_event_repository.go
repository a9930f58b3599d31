package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lewkins/storefront-api/internal/core/domain"
)

const orderEventsCollection = "order_events"

// OrderEventRepository persists the order audit trail in MongoDB.
type OrderEventRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewOrderEventRepository(db *mongo.Database) *OrderEventRepository {
	return &OrderEventRepository{db: db, col: db.Collection(orderEventsCollection)}
}

// InsertEvent appends one event to the order_events collection.
func (r *OrderEventRepository) InsertEvent(ctx context.Context, event *domain.OrderEvent) error {
	doc := *event
	doc.Timestamp = event.Timestamp.UTC()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert order event: %w", err)
	}
	return nil
}

// ListByOrder returns the events of one order, oldest first.
func (r *OrderEventRepository) ListByOrder(ctx context.Context, orderID int64) ([]*domain.OrderEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"order_id": orderID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find order events: %w", err)
	}
	defer cur.Close(ctx)

	events := make([]*domain.OrderEvent, 0)
	if err := cur.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode order events: %w", err)
	}
	return events, nil
}

// EnsureIndexes creates the index the history lookup relies on.
func (r *OrderEventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	return err
}

// Ping satisfies the readiness probe.
func (r *OrderEventRepository) Ping(ctx context.Context) error {
	return r.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}
