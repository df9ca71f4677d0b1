package processing

import (
	"context"
	"errors"
	"fmt"

	"github.com/openshift-assisted/ccx-deadletter/internal/common"
	"github.com/openshift-assisted/ccx-deadletter/internal/config"
	"github.com/openshift-assisted/ccx-deadletter/internal/domain/entity"
	"github.com/openshift-assisted/ccx-deadletter/internal/domain/repo"
	"github.com/openshift-assisted/ccx-deadletter/pkg/pipeline"
)

var errUnknownEvent = errors.New("unknown event name")

const (
	categoryUnknownName  = "unknown_name"
	categoryInvalidEvent = "invalid_event"
)

// Main validates the consumed events and forwards the valid ones.
// Invalid events end up in the error processing.
type Main struct {
	requiredFields map[string][]string
	timestampField string

	writer repo.EventWriter
}

func NewMain(conf config.Validation, writer repo.EventWriter) Main {
	return Main{
		requiredFields: conf.RequiredFields,
		timestampField: conf.TimestampField,
		writer:         writer,
	}
}

func (m Main) Process(ctx context.Context, event entity.Event) error {
	fields, known := m.requiredFields[event.Name]
	if !known {
		return pipeline.NewErrProcessingError(fmt.Errorf("%w: %q", errUnknownEvent, event.Name), categoryUnknownName, nil)
	}

	for _, field := range fields {
		_, err := ExtractString(event.Payload, field)
		if err != nil {
			return common.NewErrProcessingError(err, categoryInvalidEvent, nil, "failed to extract %s", field)
		}
	}

	if m.timestampField != "" {
		normalized, err := m.normalizeTimestamp(event)
		if err != nil {
			return err
		}

		event = normalized
	}

	err := m.writer.WriteEvent(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

func (m Main) normalizeTimestamp(event entity.Event) (entity.Event, error) {
	value, err := ExtractString(event.Payload, m.timestampField)
	if err != nil {
		return event, common.NewErrProcessingError(err, categoryInvalidEvent, nil, "failed to extract %s", m.timestampField)
	}

	ts, err := ValidateDate(value)
	if err != nil {
		return event, common.NewErrProcessingError(err, categoryInvalidEvent, nil, "invalid date format %s", value)
	}

	payload := CopyPayload(event.Payload)
	payload[m.timestampField] = FormatDate(ts)

	event.Payload = payload

	return event, nil
}
