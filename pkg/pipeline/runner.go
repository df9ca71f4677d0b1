package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/go-logr/logr"
)

// Runner drives a consumer group: each Consume call is one group session, a new
// session is joined after every rebalance until the context is done.
type Runner[Payload any] struct {
	consumer sarama.ConsumerGroup
	topics   []string

	handler JSONHandler[Payload]

	logger logr.Logger
}

func NewRunner[Payload any](consumer sarama.ConsumerGroup, topics []string, processing Processing[Payload], errorProcessing ErrorProcessing) Runner[Payload] {
	return Runner[Payload]{
		consumer: consumer,
		topics:   topics,
		handler:  NewJSONHandler(processing, errorProcessing),
		logger:   logr.Discard(),
	}
}

// WithLogger is shared with the handler.
func (r Runner[Payload]) WithLogger(logger logr.Logger) Runner[Payload] {
	r.logger = logger
	r.handler = r.handler.WithLogger(logger)

	return r
}

// Start returns ctx.Err() once the context is done, nil when the consumer group
// has been closed, and the consume error otherwise.
func (r Runner[Payload]) Start(ctx context.Context) error {
	go r.logConsumerErrors()

	for session := 1; ; session++ {
		r.logger.V(1).Info("Joining consumer group session", "session", session, "topics", r.topics)

		err := r.consumer.Consume(ctx, r.topics, r.handler)
		if errors.Is(err, sarama.ErrClosedConsumerGroup) {
			r.logger.Info("Consumer group closed", "sessions", session)

			return nil
		}

		if err != nil {
			r.logger.Error(err, "Consumer group session failed", "session", session)

			return fmt.Errorf("consumer failed: %w", err)
		}

		if ctx.Err() != nil {
			r.logger.Info("Stopping consumption", "sessions", session, "cause", context.Cause(ctx).Error())

			return ctx.Err()
		}
	}
}

// logConsumerErrors runs until the consumer group is closed. Consumer.Return.Errors
// is enabled by the factory, so the channel must be drained.
func (r Runner[Payload]) logConsumerErrors() {
	for err := range r.consumer.Errors() {
		consumerErr := &sarama.ConsumerError{}
		if errors.As(err, &consumerErr) {
			r.logger.Error(consumerErr.Err, "Kafka consumer error", "topic", consumerErr.Topic, "partition", consumerErr.Partition)

			continue
		}

		r.logger.Error(err, "Kafka consumer error")
	}
}
