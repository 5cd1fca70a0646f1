package events

import "context"

// Publisher sends events after successful mutations. Fire-and-forget:
// callers assume no delivery-order guarantee.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Consumer accepts events for asynchronous processing. Handlers process
// each event at most once per registration.
type Consumer interface {
	Consume(ctx context.Context, event Event) error
	Start(ctx context.Context)
	Stop()
}

// Store persists consumed events.
type Store interface {
	InsertBatch(ctx context.Context, events []Event) error
}
