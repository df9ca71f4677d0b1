package processing

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/openshift-assisted/ccx-deadletter/internal/domain/entity"
	"github.com/openshift-assisted/ccx-deadletter/pkg/pipeline"
)

const (
	statusForwarded = "forwarded"
	statusRejected  = "rejected"
)

// CountEvents counts the consumed events by name and by outcome.
type CountEvents struct {
	counter *prometheus.CounterVec
	inner   pipeline.Processing[entity.Event]
}

func NewCountEvents(p pipeline.Processing[entity.Event], registry prometheus.Registerer, config pipeline.MetricsConfig) (pipeline.Processing[entity.Event], error) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Name:      "events_total",
		Help:      "Event counter by event name and status.",
	}, []string{"name", "status"})

	err := registry.Register(counter)
	if err != nil {
		return nil, fmt.Errorf("failed to register metric: %w", err)
	}

	ret := CountEvents{
		counter: counter,
		inner:   p,
	}

	return ret, nil
}

func (p CountEvents) Process(ctx context.Context, event entity.Event) error {
	err := p.inner.Process(ctx, event)

	status := statusForwarded
	if err != nil {
		status = statusRejected
	}

	p.counter.WithLabelValues(event.Name, status).Inc()

	return err
}
