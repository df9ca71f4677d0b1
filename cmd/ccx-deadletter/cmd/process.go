package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/common/version"
	"github.com/spf13/cobra"

	"github.com/openshift-assisted/ccx-deadletter/internal/common"
	"github.com/openshift-assisted/ccx-deadletter/internal/config"
	"github.com/openshift-assisted/ccx-deadletter/internal/domain/entity"
	"github.com/openshift-assisted/ccx-deadletter/internal/domain/repo"
	"github.com/openshift-assisted/ccx-deadletter/internal/domain/repo/deadletter"
	"github.com/openshift-assisted/ccx-deadletter/internal/domain/repo/dedup"
	"github.com/openshift-assisted/ccx-deadletter/internal/domain/repo/event"
	"github.com/openshift-assisted/ccx-deadletter/internal/factory"
	"github.com/openshift-assisted/ccx-deadletter/internal/log"
	"github.com/openshift-assisted/ccx-deadletter/internal/processing"
	"github.com/openshift-assisted/ccx-deadletter/pkg/pipeline"
)

var conf *config.Config

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process kafka events and publish failures on the dead letter topic",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		conf, err = config.Parse(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to parse config %s: %w", cfgFile, err)
		}

		// Init logger
		err = log.Init(conf.Logs)
		if err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}

		logger := log.Logger()

		// Dump generic information
		logger.Info("Starting ccx deadletter",
			"version", version.Info(),
			"buildContext", version.BuildContext(),
		)
		logger.Info("Using config", "config", fmt.Sprintf("%+v", *conf))

		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		logger := log.Logger()

		// Set max procs and memory based on the container limits
		err := common.SetupRuntime()
		if err != nil {
			logger.Error(err, "failed to setup go runtime")

			return
		}

		// Listen to sigterm and interrupt signals
		ctx := common.SetupSignalHandler(context.Background())

		// Metrics
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			versioncollector.NewCollector("ccx_deadletter"),
		)

		server := factory.CreatePrometheusServer(conf.Metrics, registry, registry)

		go func() {
			err := server.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(err, "Metrics server failed")
			}
		}()

		closers := []common.CloseFunc{server.Shutdown}

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.GracefulDuration)
			defer cancel()

			for i := len(closers) - 1; i >= 0; i-- {
				err := closers[i](shutdownCtx)
				if err != nil {
					logger.Error(err, "failed to release resource")
				}
			}
		}()

		// Create pipeline
		runner, err := createRunner(ctx, registry, &closers)
		if err != nil {
			logger.Error(err, "failed to create pipeline")

			return
		}

		// Start pipeline
		err = runner.Start(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error(err, "pipeline stopped")
		}

		logger.V(2).Info("Processing stopped")
	},
}

func createRunner(ctx context.Context, registry prometheus.Registerer, closers *[]common.CloseFunc) (pipeline.Runner[entity.Event], error) {
	var ret pipeline.Runner[entity.Event]

	// Kafka producer shared by the event and dead letter writers
	producer, closeProducer, err := factory.CreateKafkaProducer(conf.Kafka)
	if err != nil {
		return ret, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	*closers = append(*closers, closeProducer)

	// Main processing
	mainProcessing, err := factory.DecorateProcessing(
		processing.NewMain(conf.Validation, event.NewKafkaWriter(producer, conf.Kafka.Producer.Topic)),
		registry,
		conf.Retry,
	)
	if err != nil {
		return ret, fmt.Errorf("failed to create main processing: %w", err)
	}

	// Error processing
	stage, err := factory.CreateStage(conf.DeadLetter)
	if err != nil {
		return ret, fmt.Errorf("failed to create dead letter stage: %w", err)
	}

	writers := []repo.DeadLetterWriter{deadletter.NewKafkaWriter(producer, conf.DeadLetter.Topic)}

	if conf.S3.Enabled() {
		s3Client, err := factory.CreateS3Client(ctx, conf.S3)
		if err != nil {
			return ret, fmt.Errorf("failed to create s3 client: %w", err)
		}

		writers = append(writers, deadletter.NewS3Writer(s3Client, clockwork.NewRealClock(), conf.S3.Bucket, conf.S3.KeyPrefix))
	}

	var index repo.DeadLetterIndex

	if conf.Valkey.Enabled() {
		client, closeValkey, err := factory.CreateValkeyClient(ctx, conf.Valkey)
		if err != nil {
			return ret, fmt.Errorf("failed to create valkey client: %w", err)
		}

		*closers = append(*closers, closeValkey)

		index = dedup.NewValkeyIndex(client, clockwork.NewRealClock(), conf.DeadLetter.DedupTTL)
	}

	mainError, err := processing.NewMainError(stage, conf.DeadLetter.SchemaID, index, deadletter.NewParallelWriter(writers...), registry, pipeline.MetricsConfig{Namespace: "error"})
	if err != nil {
		return ret, fmt.Errorf("failed to create dead letter processing: %w", err)
	}

	errorProcessing, err := factory.DecorateErrorProcessing(mainError, registry, conf.Retry)
	if err != nil {
		return ret, fmt.Errorf("failed to create error processing: %w", err)
	}

	// Kafka consumer
	consumer, err := factory.CreateKafkaConsumer(conf.Kafka)
	if err != nil {
		return ret, fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	*closers = append(*closers, func(context.Context) error {
		return consumer.Close()
	})

	ret = pipeline.NewRunner(consumer, []string{conf.Kafka.Consumer.Topic}, mainProcessing, errorProcessing).WithLogger(log.Logger())

	return ret, nil
}

func init() {
	rootCmd.AddCommand(processCmd)
}
