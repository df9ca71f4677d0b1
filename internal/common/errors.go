package common

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/IBM/sarama"

	"github.com/openshift-assisted/ccx-deadletter/pkg/pipeline"
)

func NewErrProcessingError(err error, category string, inputs []pipeline.Input, reason string, args ...interface{}) pipeline.ErrProcessingError {
	cause := fmt.Sprintf(reason, args...)
	dErr := fmt.Errorf("%s: %w", cause, err)

	return pipeline.NewErrProcessingError(dErr, category, inputs)
}

func NewRetryableErrProcessingError(err error, category string, inputs []pipeline.Input, reason string, args ...interface{}) pipeline.ErrProcessingError {
	return NewErrProcessingError(pipeline.NewErrRetryableError(err), category, inputs, reason, args...)
}

// IsRetryableKafkaError reports whether a producer error is transient.
func IsRetryableKafkaError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	switch {
	case errors.Is(err, sarama.ErrOutOfBrokers),
		errors.Is(err, sarama.ErrNotConnected),
		errors.Is(err, sarama.ErrShuttingDown):
		return true
	}

	var kErr sarama.KError
	if !errors.As(err, &kErr) {
		return false
	}

	switch kErr {
	case sarama.ErrNotLeaderForPartition,
		sarama.ErrLeaderNotAvailable,
		sarama.ErrRequestTimedOut,
		sarama.ErrNetworkException,
		sarama.ErrNotEnoughReplicas,
		sarama.ErrNotEnoughReplicasAfterAppend:
		return true
	default:
		return false
	}
}
