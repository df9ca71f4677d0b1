package deadletter

import (
	"fmt"

	"github.com/openshift-assisted/ccx-deadletter/pkg/pipeline"
)

// Stage pairs a Converter with the description of the stream it serves.
type Stage struct {
	converter   Converter
	description string
}

func NewStage(converter Converter, description string) Stage {
	return Stage{
		converter:   converter,
		description: description,
	}
}

func (s Stage) Format() Format {
	return s.converter.Format()
}

// Process converts a pipeline failure into a dead letter record.
func (s Stage) Process(pErr pipeline.ErrProcessingError) Record {
	return s.converter.Convert(s.Describe(pErr))
}

// Describe builds the Description of a pipeline failure. Source fields are only set
// when the failure carries the consumed message.
func (s Stage) Describe(pErr pipeline.ErrProcessingError) Description {
	ret := Description{
		Description: s.description,
	}

	if msg := pErr.Event; msg != nil {
		if msg.Value != nil {
			ret.InputValue = Some(string(msg.Value))
		}

		ret.Topic = Some(msg.Topic)
		ret.Partition = Some(msg.Partition)
		ret.Offset = Some(msg.Offset)
	}

	if err := pErr.Unwrap(); err != nil {
		ret.Cause.Message = Some(pErr.Error())
		ret.Cause.ErrorClass = Some(ErrorClass(err))
	}

	if pErr.Stack != "" {
		ret.Cause.StackTrace = Some(pErr.Stack)
	}

	return ret
}

// ErrorClass returns the type name of the innermost error of the chain. For joined
// errors the last one is followed, ErrRetryableError being only a marker.
func ErrorClass(err error) string {
	for {
		var next error

		switch e := err.(type) {
		case interface{ Unwrap() error }:
			next = e.Unwrap()
		case interface{ Unwrap() []error }:
			next = lastCause(e.Unwrap())
		}

		if next == nil {
			return fmt.Sprintf("%T", err)
		}

		err = next
	}
}

func lastCause(errs []error) error {
	for i := len(errs) - 1; i >= 0; i-- {
		if errs[i] != nil && errs[i] != pipeline.ErrRetryableError {
			return errs[i]
		}
	}

	return nil
}
