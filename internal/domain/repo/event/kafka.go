package event

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"

	"github.com/openshift-assisted/ccx-deadletter/internal/common"
	"github.com/openshift-assisted/ccx-deadletter/internal/domain/entity"
)

const (
	categoryInternalError = "event_internal_error"
	categoryKafkaProducer = "kafka_producer"
)

// KafkaWriter forwards validated events to the output topic.
type KafkaWriter struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaWriter(producer sarama.SyncProducer, topic string) KafkaWriter {
	return KafkaWriter{
		producer: producer,
		topic:    topic,
	}
}

func (w KafkaWriter) WriteEvent(ctx context.Context, event entity.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return common.NewErrProcessingError(err, categoryInternalError, nil, "failed to marshal event %s", event.Name)
	}

	msg := &sarama.ProducerMessage{
		Topic: w.topic,
		Key:   sarama.StringEncoder(event.Name),
		Value: sarama.ByteEncoder(data),
	}

	_, _, err = w.producer.SendMessage(msg)
	if err != nil {
		switch {
		case common.IsRetryableKafkaError(err):
			return common.NewRetryableErrProcessingError(err, categoryKafkaProducer, nil, "failed to send event to %s", w.topic)
		default:
			return common.NewErrProcessingError(err, categoryKafkaProducer, nil, "failed to send event to %s", w.topic)
		}
	}

	return nil
}
