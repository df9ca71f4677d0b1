package deadletter

import (
	"context"

	"github.com/IBM/sarama"

	"github.com/openshift-assisted/ccx-deadletter/internal/common"
	"github.com/openshift-assisted/ccx-deadletter/internal/domain/entity"
)

const (
	HeaderCategory    = "category"
	HeaderFormat      = "format"
	HeaderSourceTopic = "source_topic"

	categoryKafkaProducer = "deadletter_kafka_producer"
)

// KafkaWriter publishes dead letters on the error topic.
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

func (w KafkaWriter) WriteDeadLetter(ctx context.Context, deadLetter entity.DeadLetter) error {
	msg := &sarama.ProducerMessage{
		Topic: w.topic,
		Value: sarama.ByteEncoder(deadLetter.Record),
		Headers: []sarama.RecordHeader{
			{Key: []byte(HeaderCategory), Value: []byte(deadLetter.Category)},
			{Key: []byte(HeaderFormat), Value: []byte(deadLetter.Format)},
		},
	}

	// Keeping the source order for a given partition
	if deadLetter.Source != nil {
		msg.Key = sarama.StringEncoder(deadLetter.Key())
		msg.Headers = append(msg.Headers, sarama.RecordHeader{Key: []byte(HeaderSourceTopic), Value: []byte(deadLetter.Source.Topic)})
	}

	_, _, err := w.producer.SendMessage(msg)
	if err != nil {
		switch {
		case common.IsRetryableKafkaError(err):
			return common.NewRetryableErrProcessingError(err, categoryKafkaProducer, nil, "failed to send dead letter to %s", w.topic)
		default:
			return common.NewErrProcessingError(err, categoryKafkaProducer, nil, "failed to send dead letter to %s", w.topic)
		}
	}

	return nil
}
