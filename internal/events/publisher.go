package events

import (
	"context"

	"usersvc/pkg/logger"
)

var _ Publisher = (*ConsumerPublisher)(nil)

// ConsumerPublisher is a Publisher that hands events to an in-process
// Consumer. Topic is an identifier carried for logging and future routing;
// delivery semantics belong to the consumer.
type ConsumerPublisher struct {
	topic    string
	consumer Consumer
}

// NewConsumerPublisher creates a publisher feeding consumer.
func NewConsumerPublisher(topic string, consumer Consumer) *ConsumerPublisher {
	return &ConsumerPublisher{
		topic:    topic,
		consumer: consumer,
	}
}

// Publish implements Publisher.
func (p *ConsumerPublisher) Publish(ctx context.Context, event Event) error {
	if err := p.consumer.Consume(ctx, event); err != nil {
		return err
	}

	logger.Debug(ctx, "event published",
		"topic", p.topic,
		"event_id", event.ID,
		"event_type", event.Type,
	)
	return nil
}

var _ Publisher = (*LogPublisher)(nil)

// LogPublisher writes events to the log instead of a bus. Used for local
// runs and tests.
type LogPublisher struct{}

// NewLogPublisher creates a log-only publisher.
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

// Publish implements Publisher.
func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	logger.Info(ctx, "event",
		"event_id", event.ID,
		"event_type", event.Type,
		"aggregate_type", event.AggregateType,
		"aggregate_id", event.AggregateID,
		"payload", event.Payload,
	)
	return nil
}
