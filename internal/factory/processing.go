package factory

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/openshift-assisted/ccx-deadletter/internal/config"
	"github.com/openshift-assisted/ccx-deadletter/internal/domain/entity"
	"github.com/openshift-assisted/ccx-deadletter/internal/log"
	"github.com/openshift-assisted/ccx-deadletter/internal/processing"
	"github.com/openshift-assisted/ccx-deadletter/pkg/pipeline"
)

/*
 * DecorateProcessing decorates the processing as follow:
 *
 * panic --> duration --> count --> retry --> main (validate + forward)
 */
func DecorateProcessing(mainProcessing pipeline.Processing[entity.Event], registry prometheus.Registerer, retryConfig config.Retry) (pipeline.Processing[entity.Event], error) {
	ret := mainProcessing

	ret = pipeline.NewRetryProcessing(ret, toRetryConfig(retryConfig))

	ret, err := processing.NewCountEvents(ret, registry, pipeline.MetricsConfig{Namespace: "main"})
	if err != nil {
		return nil, fmt.Errorf("failed to create count processing: %w", err)
	}

	ret, err = pipeline.NewDurationMetricsDecoratorProcessing(ret, registry, clockwork.NewRealClock(), pipeline.MetricsConfig{Namespace: "main"})
	if err != nil {
		return nil, fmt.Errorf("failed to create duration metrics processor: %w", err)
	}

	ret = pipeline.NewPanicHandlerProcessing(ret)

	return ret, nil
}

/*
 * DecorateErrorProcessing decorates the error processing as follow:
 *
 *										---> retry --> main (dedup + convert + kafka | s3)
 *	panic --> duration --> parallel ---|
 *										---> error count
 */
func DecorateErrorProcessing(mainProcessing pipeline.ErrorProcessing, registry prometheus.Registerer, retryConfig config.Retry) (pipeline.ErrorProcessing, error) {
	ret := mainProcessing

	ret = pipeline.NewRetryProcessing(ret, toRetryConfig(retryConfig))

	errorCount, err := pipeline.NewErrorCountProcessing(registry, pipeline.MetricsConfig{Namespace: "error"})
	if err != nil {
		return nil, fmt.Errorf("failed to create error count processing: %w", err)
	}

	ret = pipeline.NewParallelProcessing(ret, errorCount)

	ret, err = pipeline.NewDurationMetricsDecoratorProcessing(ret, registry, clockwork.NewRealClock(), pipeline.MetricsConfig{Namespace: "error"})
	if err != nil {
		return nil, fmt.Errorf("failed to create duration metrics processor: %w", err)
	}

	ret = pipeline.NewPanicHandlerProcessing(ret)

	return ret, nil
}

func toRetryConfig(conf config.Retry) pipeline.RetryConfig {
	// 0 means infinite retries for retry-go
	maxAttempt := conf.MaxAttempt
	if maxAttempt == 0 {
		maxAttempt = 1
	}

	logger := log.Logger()

	return pipeline.RetryConfig{
		MaxAttempt: maxAttempt,
		Delay:      conf.Delay,
		MaxDelay:   conf.MaxDelay,
		OnRetry: func(attempt uint, err error) {
			logger.V(1).Info("Retrying processing", "attempt", attempt+1, "maxAttempt", maxAttempt, "error", err.Error())
		},
	}
}
