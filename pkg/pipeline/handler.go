package pipeline

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/go-logr/logr"
)

// JSONHandler is a sarama consumer group handler decoding every message as a json Payload.
// Messages are always marked once processed: a failure goes to the error processing instead.
type JSONHandler[Payload any] struct {
	processing      Processing[Payload]
	errorProcessing ErrorProcessing

	logger logr.Logger
}

func NewJSONHandler[Payload any](processing Processing[Payload], errProcessing ErrorProcessing) JSONHandler[Payload] {
	return JSONHandler[Payload]{
		processing:      processing,
		errorProcessing: errProcessing,
		logger:          logr.Discard(),
	}
}

func (h JSONHandler[Payload]) WithLogger(logger logr.Logger) JSONHandler[Payload] {
	h.logger = logger

	return h
}

// Setup is run at the beginning of a new session, before ConsumeClaim.
func (h JSONHandler[Payload]) Setup(session sarama.ConsumerGroupSession) error {
	h.logger.Info("Setup to consume", "claims", session.Claims(), "generation", session.GenerationID())

	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited
// but before the offsets are committed for the very last time.
func (h JSONHandler[Payload]) Cleanup(session sarama.ConsumerGroupSession) error {
	h.logger.Info("Cleanup after consuming", "claims", session.Claims(), "generation", session.GenerationID())

	return nil
}

func (h JSONHandler[Payload]) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	ctx := session.Context()

	h.logger.Info("Start consuming",
		"topic", claim.Topic(),
		"partition", claim.Partition(),
		"initialOffset", claim.InitialOffset(),
	)

	for msg := range claim.Messages() {
		// A rebalance or a termination signal cancels the session context.
		// Unmarked messages are consumed again by the next session.
		if ctx.Err() != nil {
			break
		}

		if msg == nil {
			h.logger.V(1).Info("Nil message")

			continue
		}

		h.logger.V(3).Info("Processing message", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)

		err := h.handle(ctx, msg)
		if err != nil && !h.processError(ctx, msg, err) {
			continue
		}

		session.MarkMessage(msg, "")
	}

	return nil
}

func (h JSONHandler[Payload]) handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	// Tombstone
	if msg.Value == nil {
		return NewErrProcessingError(ErrEmptyMessage, EmptyMessageCategory, nil)
	}

	payload := new(Payload)

	err := json.Unmarshal(msg.Value, payload)
	if err != nil { // Not retryable
		return NewErrProcessingError(err, UnmarshalErrorCategory, nil)
	}

	return h.processing.Process(ctx, *payload)
}

// processError returns false when the message must not be marked.
func (h JSONHandler[Payload]) processError(ctx context.Context, msg *sarama.ConsumerMessage, pipelineError error) bool {
	// The message will be reprocessed with a valid context
	if ctx.Err() != nil {
		h.logger.V(1).Info("Not processing error, context has been cancelled")

		return false
	}

	h.logger.Error(pipelineError, "Processing failed", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)

	processingError := AsProcessingError(pipelineError).WithEvent(msg)

	err := h.errorProcessing.Process(ctx, processingError)
	if err != nil {
		h.logger.Error(err, "Error pipeline failed")

		h.dumpErrorContext(msg, processingError)
	}

	return true
}

func (h JSONHandler[Payload]) dumpErrorContext(msg *sarama.ConsumerMessage, err ErrProcessingError) {
	h.logger.Error(err,
		"Failed to process message",
		"kafka.topic", msg.Topic,
		"kafka.partition", msg.Partition,
		"kafka.offset", msg.Offset,
		"kafka.payload", string(msg.Value),
		"additionalInputs", err.AdditionalInputs,
		"category", err.Category,
	)
}
