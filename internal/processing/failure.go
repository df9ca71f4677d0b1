package processing

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/openshift-assisted/ccx-deadletter/internal/domain/entity"
	"github.com/openshift-assisted/ccx-deadletter/internal/domain/repo"
	"github.com/openshift-assisted/ccx-deadletter/internal/log"
	"github.com/openshift-assisted/ccx-deadletter/pkg/deadletter"
	"github.com/openshift-assisted/ccx-deadletter/pkg/pipeline"
)

const categoryDeadLetterEncoding = "deadletter_encoding"

// MainError turns every processing failure into a dead letter record and publishes it.
// The index is optional: without it, a failure replayed after a rebalance is published again.
type MainError struct {
	stage    deadletter.Stage
	schemaID uint32

	index  repo.DeadLetterIndex
	writer repo.DeadLetterWriter

	counter *prometheus.CounterVec
}

func NewMainError(stage deadletter.Stage, schemaID uint32, index repo.DeadLetterIndex, writer repo.DeadLetterWriter, registry prometheus.Registerer, config pipeline.MetricsConfig) (MainError, error) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Name:      "deadletter_records_total",
		Help:      "Dead letter records published by format and category.",
	}, []string{"format", "category"})

	err := registry.Register(counter)
	if err != nil {
		return MainError{}, fmt.Errorf("failed to register metric: %w", err)
	}

	ret := MainError{
		stage:    stage,
		schemaID: schemaID,
		index:    index,
		writer:   writer,
		counter:  counter,
	}

	return ret, nil
}

func (m MainError) Process(ctx context.Context, pErr pipeline.ErrProcessingError) error {
	logger := log.Logger()
	source := sourceOf(pErr)

	if m.index != nil && source != nil {
		published, err := m.index.IsPublished(ctx, *source)
		if err != nil {
			return fmt.Errorf("failed to check dead letter index: %w", err)
		}

		if published {
			logger.V(1).Info("Dead letter already published", "source", source.String())

			return nil
		}
	}

	deadLetter, err := m.createDeadLetter(pErr, source)
	if err != nil {
		return err
	}

	err = m.writer.WriteDeadLetter(ctx, deadLetter)
	if err != nil {
		return fmt.Errorf("failed to write dead letter: %w", err)
	}

	m.counter.WithLabelValues(deadLetter.Format, deadLetter.Category).Inc()

	if m.index != nil && source != nil {
		// Not returning the error: a retry would publish the record twice
		err = m.index.MarkPublished(ctx, *source)
		if err != nil {
			logger.Error(err, "Failed to mark dead letter as published", "source", source.String())
		}
	}

	return nil
}

func (m MainError) createDeadLetter(pErr pipeline.ErrProcessingError, source *entity.Source) (entity.DeadLetter, error) {
	record := m.stage.Process(pErr)

	data, err := record.Marshal()
	if err != nil {
		return entity.DeadLetter{}, pipeline.NewErrProcessingError(fmt.Errorf("failed to marshal %s record: %w", record.Format(), err), categoryDeadLetterEncoding, nil)
	}

	document, err := record.MarshalJSON()
	if err != nil {
		log.Logger().Error(err, "Failed to render dead letter as json", "format", record.Format())

		document = nil
	}

	ret := entity.DeadLetter{
		Format:   string(record.Format()),
		Category: pErr.Category,
		Source:   source,
		Record:   deadletter.Frame(record.Format(), m.schemaID, data),
		Document: document,
	}

	return ret, nil
}

func sourceOf(pErr pipeline.ErrProcessingError) *entity.Source {
	if pErr.Event == nil {
		return nil
	}

	return &entity.Source{
		Topic:     pErr.Event.Topic,
		Partition: pErr.Event.Partition,
		Offset:    pErr.Event.Offset,
		Timestamp: pErr.Event.Timestamp,
	}
}
