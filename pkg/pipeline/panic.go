package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"
)

type panicHandler[Payload any] struct {
	processing Processing[Payload]
}

// NewPanicHandlerProcessing converts a panic of the inner processing into an ErrProcessingError
// of category PanicCategory carrying the stack. When the payload is itself an ErrProcessingError,
// its source message is kept so the failure can still be traced back.
func NewPanicHandlerProcessing[Payload any](p Processing[Payload]) Processing[Payload] {
	return panicHandler[Payload]{
		processing: p,
	}
}

func (p panicHandler[Payload]) Process(ctx context.Context, payload Payload) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		pErr := NewErrProcessingError(fmt.Errorf("unexpected error: %v", r), PanicCategory, nil)
		pErr.Stack = string(debug.Stack())

		if source, ok := any(payload).(ErrProcessingError); ok {
			pErr.Event = source.Event
			pErr.AdditionalInputs = source.AdditionalInputs
		}

		err = pErr
	}()

	return p.processing.Process(ctx, payload)
}
