package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lewkins/storefront-api/internal/api/metrics"
	"github.com/lewkins/storefront-api/internal/core/domain"
	"github.com/lewkins/storefront-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Dispatcher persists order audit events asynchronously. Events are routed to a
// fixed set of workers by hashing the order id, so the events of one order are
// written in the order they were published.
type Dispatcher struct {
	workers []chan domain.OrderEvent
	repo    ports.OrderEventRepository
	log     zerolog.Logger

	done chan struct{}
	wg   sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.OrderEventRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.OrderEvent, numWorkers),
		repo:    repo,
		log:     log,
		done:    make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.OrderEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled the workers flush
// what is already buffered and exit; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(d.done)
	}()
}

// Wait blocks until every worker has exited.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Publish hands an event to the worker responsible for its order. It blocks
// while that worker's buffer is full and drops the event once the dispatcher
// has been stopped.
func (d *Dispatcher) Publish(event domain.OrderEvent) {
	idx := d.shardIndex(event.OrderID)
	select {
	case <-d.done:
		metrics.OrderEventsDroppedTotal.Inc()
		d.log.Warn().Int64("order_id", event.OrderID).Str("type", event.Type).Msg("dispatcher stopped, order event dropped")
	case d.workers[idx] <- event:
		metrics.OrderEventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	}
}

// shardIndex maps an order id deterministically to a worker index.
func (d *Dispatcher) shardIndex(orderID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(orderID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.OrderEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	writeCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			d.drain(writeCtx, label, ch)
			return
		case event := <-ch:
			metrics.OrderEventsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.write(writeCtx, label, event)
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context, label string, ch <-chan domain.OrderEvent) {
	for {
		select {
		case event := <-ch:
			d.write(ctx, label, event)
		default:
			metrics.OrderEventsQueueDepth.WithLabelValues(label).Set(0)
			return
		}
	}
}

func (d *Dispatcher) write(ctx context.Context, label string, event domain.OrderEvent) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	start := time.Now()
	err := d.repo.InsertEvent(ctx, &event)
	result := "ok"
	if err != nil {
		result = "error"
		d.log.Error().Err(err).
			Int64("order_id", event.OrderID).
			Str("type", event.Type).
			Str("worker_id", label).
			Msg("order event write failed")
	}
	metrics.OrderEventWriteDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
