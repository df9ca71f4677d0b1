package pipeline

import (
	"errors"
	"fmt"

	"github.com/IBM/sarama"
)

// Categories set by the pipeline itself. Processing steps define their own.
const (
	UnknownCategory        = "unknown"
	UnmarshalErrorCategory = "unmarshal"
	EmptyMessageCategory   = "empty_message"
	PanicCategory          = "panic"
)

var (
	// ErrRetryableError marks transient failures, see NewErrRetryableError.
	ErrRetryableError = errors.New("retryable error")
	// ErrEmptyMessage is the cause of a tombstone reaching a JSONHandler.
	ErrEmptyMessage = errors.New("empty message")
)

// ErrProcessingError is the failure of a single kafka message. Event is the source
// message, nil when the failure did not originate from a consumed message.
type ErrProcessingError struct {
	error
	Category         string
	Event            *sarama.ConsumerMessage
	AdditionalInputs []Input
	// Stack is set when the error comes from a recovered panic
	Stack string
}

// Input is a piece of data read while processing an event, kept for troubleshooting.
type Input struct {
	Source string
	Key    string
	Value  []byte
}

func NewErrProcessingError(err error, category string, additionalInputs []Input) ErrProcessingError {
	return ErrProcessingError{
		error:            err,
		Category:         category,
		AdditionalInputs: additionalInputs,
	}
}

func (e ErrProcessingError) Error() string {
	if e.error == nil {
		return e.Category
	}

	return e.error.Error()
}

func (e ErrProcessingError) Unwrap() error {
	return e.error
}

// WithEvent attaches the source message unless one is already set.
func (e ErrProcessingError) WithEvent(msg *sarama.ConsumerMessage) ErrProcessingError {
	if e.Event == nil {
		e.Event = msg
	}

	return e
}

// AsProcessingError returns the first ErrProcessingError of the chain,
// or wraps err in the unknown category.
func AsProcessingError(err error) ErrProcessingError {
	ret := ErrProcessingError{}
	if errors.As(err, &ret) {
		return ret
	}

	return NewErrProcessingError(err, UnknownCategory, nil)
}

func NewErrRetryableError(err error) error {
	return fmt.Errorf("%w: %w", ErrRetryableError, err)
}

func NewRetryableErrProcessingError(err error, category string, additionalInputs []Input) ErrProcessingError {
	return NewErrProcessingError(NewErrRetryableError(err), category, additionalInputs)
}

// IsRetryable reports whether any error of the chain is marked as retryable.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRetryableError)
}
