package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/destel/rill"

	"usersvc/pkg/logger"
)

// ErrConsumerFull signals backpressure: the buffered channel is at
// capacity and the event was not accepted.
var ErrConsumerFull = errors.New("event consumer is full")

// ErrConsumerStopped is returned by Consume after Stop.
var ErrConsumerStopped = errors.New("event consumer is stopped")

// ConsumerOptions tunes the channel consumer.
type ConsumerOptions struct {
	BufferSize   int
	BatchSize    int
	BatchTimeout time.Duration
	WorkerCount  int
}

func (o *ConsumerOptions) defaults() {
	if o.BufferSize == 0 {
		o.BufferSize = 1000
	}
	if o.BatchSize == 0 {
		o.BatchSize = 100
	}
	if o.BatchTimeout == 0 {
		o.BatchTimeout = 100 * time.Millisecond
	}
	if o.WorkerCount == 0 {
		o.WorkerCount = 4
	}
}

var _ Consumer = (*ChannelConsumer)(nil)

// ChannelConsumer buffers events on a channel and batch-inserts them into
// a Store from background workers. Accepting an event never blocks the
// request that produced it.
type ChannelConsumer struct {
	store    Store
	workCh   chan Event
	opts     ConsumerOptions
	workerWg sync.WaitGroup

	// mu guards closed and orders in-flight sends before the channel close
	// in Stop.
	mu     sync.RWMutex
	closed bool
}

// NewChannelConsumer creates a consumer writing to store.
func NewChannelConsumer(store Store, opts ConsumerOptions) *ChannelConsumer {
	opts.defaults()

	return &ChannelConsumer{
		store:  store,
		workCh: make(chan Event, opts.BufferSize),
		opts:   opts,
	}
}

// Start launches the worker pool.
func (c *ChannelConsumer) Start(ctx context.Context) {
	for i := 0; i < c.opts.WorkerCount; i++ {
		c.workerWg.Add(1)
		go c.worker(ctx)
	}
}

// Stop closes the channel and waits for workers to drain it. Subsequent
// Consume calls return ErrConsumerStopped. Stop is idempotent.
func (c *ChannelConsumer) Stop() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	close(c.workCh)
	c.workerWg.Wait()
}

func (c *ChannelConsumer) worker(ctx context.Context) {
	defer c.workerWg.Done()

	batches := rill.Batch(rill.FromChan(c.workCh, nil), c.opts.BatchSize, c.opts.BatchTimeout)
	for batch := range batches {
		if len(batch.Value) == 0 {
			continue
		}
		if err := c.store.InsertBatch(ctx, batch.Value); err != nil {
			// TODO: dead-letter the failed batch once a DLQ store exists
			logger.Error(ctx, "event batch insert failed",
				"batch_size", len(batch.Value),
				"error", err,
			)
		}
	}
}

// Consume implements Consumer. Returns ErrConsumerFull instead of blocking
// when the buffer is at capacity, ErrConsumerStopped after Stop.
func (c *ChannelConsumer) Consume(ctx context.Context, event Event) error {
	// The read lock covers the send, so Stop cannot close the channel
	// under an in-flight Consume.
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConsumerStopped
	}

	select {
	case c.workCh <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrConsumerFull
	}
}
