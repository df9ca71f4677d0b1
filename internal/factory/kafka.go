package factory

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/IBM/sarama"

	"github.com/openshift-assisted/ccx-deadletter/internal/common"
	"github.com/openshift-assisted/ccx-deadletter/internal/config"
)

var ErrUnsupportedMechanism = errors.New("unsupported sasl mechanism")

func CreateKafkaConsumer(kafkaConfig config.Kafka) (sarama.ConsumerGroup, error) {
	conf, err := newSaramaConfig(kafkaConfig.Broker, kafkaConfig.Consumer.Group)
	if err != nil {
		return nil, err
	}

	// mandatory configuration
	conf.Consumer.Offsets.AutoCommit.Enable = true
	conf.Consumer.Return.Errors = true

	// initial offset
	conf.Consumer.Offsets.Initial = sarama.OffsetOldest

	// Kafka URLs
	urls := strings.Split(kafkaConfig.Broker.URLs, ",")

	// kafka consumer group
	ret, err := sarama.NewConsumerGroup(urls, kafkaConfig.Consumer.Group, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer group: %w", err)
	}

	return ret, nil
}

// CreateKafkaProducer creates the producer shared by the event and dead letter writers.
func CreateKafkaProducer(kafkaConfig config.Kafka) (sarama.SyncProducer, common.CloseFunc, error) {
	conf, err := newSaramaConfig(kafkaConfig.Broker, kafkaConfig.Consumer.Group+"-producer")
	if err != nil {
		return nil, nil, err
	}

	// mandatory for sync producer
	conf.Producer.Return.Successes = true
	conf.Producer.Return.Errors = true

	conf.Producer.RequiredAcks = sarama.WaitForAll
	conf.Producer.Idempotent = true
	conf.Net.MaxOpenRequests = 1

	// retries are handled by the retry processing
	conf.Producer.Retry.Max = 1

	urls := strings.Split(kafkaConfig.Broker.URLs, ",")

	ret, err := sarama.NewSyncProducer(urls, conf)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	shutdown := func(context.Context) error {
		return ret.Close()
	}

	return ret, shutdown, nil
}

func newSaramaConfig(brokerConfig config.KafkaBroker, groupID string) (*sarama.Config, error) {
	conf := sarama.NewConfig()

	// clientID
	conf.ClientID = computeClientID(groupID)

	// kafka version
	version, err := sarama.ParseKafkaVersion(brokerConfig.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to parse kafka version: %w", err)
	}

	conf.Version = version

	conf.Net.TLS.Enable = brokerConfig.TLS

	err = configureSASL(conf, brokerConfig.Creds)
	if err != nil {
		return nil, fmt.Errorf("failed to configure sasl: %w", err)
	}

	return conf, nil
}

func configureSASL(conf *sarama.Config, creds config.KafkaCreds) error {
	if creds.Mechanism == config.SASLMechanismNone {
		return nil
	}

	conf.Net.SASL.Enable = true

	switch creds.Mechanism {
	case config.SASLMechanismPlain:
		conf.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		conf.Net.SASL.User = creds.Username
		conf.Net.SASL.Password = creds.Password
	case config.SASLMechanismSCRAMSHA256:
		conf.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
		conf.Net.SASL.User = creds.Username
		conf.Net.SASL.Password = creds.Password
		conf.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient {
			return &SCRAMClient{HashGeneratorFcn: SHA256}
		}
	case config.SASLMechanismSCRAMSHA512:
		conf.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA512
		conf.Net.SASL.User = creds.Username
		conf.Net.SASL.Password = creds.Password
		conf.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient {
			return &SCRAMClient{HashGeneratorFcn: SHA512}
		}
	case config.SASLMechanismAWSMSKIAM:
		// MSK only accepts IAM authentication over TLS
		conf.Net.TLS.Enable = true
		conf.Net.SASL.Mechanism = sarama.SASLTypeOAuth
		conf.Net.SASL.TokenProvider = &MSKAccessTokenProvider{region: creds.Region}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedMechanism, creds.Mechanism)
	}

	return nil
}

func computeClientID(groupID string) string {
	prefix, err := os.Hostname()
	if err != nil {
		prefix = fmt.Sprintf("clientid-%v", groupID)
	}

	return fmt.Sprintf("%s-%x", prefix, rand.Int31())
}
