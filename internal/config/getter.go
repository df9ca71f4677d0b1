package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/openshift-assisted/ccx-deadletter/pkg/deadletter"
)

const prefix = "CCXDEADLETTER"

var ErrInvalidConfig = errors.New("invalid configuration")

// Parse reads the optional configuration file, then the CCXDEADLETTER_* environment
// variables, and validates the result.
func Parse(confFile string) (*Config, error) {
	setDefault()

	viper.SetEnvPrefix(prefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if confFile != "" {
		viper.SetConfigFile(confFile)

		err := viper.ReadInConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %v: %w", confFile, err)
		}
	}

	ret := &Config{}

	err := viper.Unmarshal(ret)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	err = ret.Validate()
	if err != nil {
		return ret, err
	}

	return ret, nil
}

// Validate checks the settings the process command cannot run without.
func (c Config) Validate() error {
	var errs []error

	required := map[string]string{
		"kafka.broker.urls":    c.Kafka.Broker.URLs,
		"kafka.broker.version": c.Kafka.Broker.Version,
		"kafka.consumer.topic": c.Kafka.Consumer.Topic,
		"kafka.consumer.group": c.Kafka.Consumer.Group,
		"kafka.producer.topic": c.Kafka.Producer.Topic,
		"deadLetter.topic":     c.DeadLetter.Topic,
		"deadLetter.format":    c.DeadLetter.Format,
	}

	for key, value := range required {
		if value == "" {
			errs = append(errs, fmt.Errorf("%w: %s is required", ErrInvalidConfig, key))
		}
	}

	if c.DeadLetter.Format != "" {
		_, err := deadletter.ParseFormat(c.DeadLetter.Format)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: deadLetter.format: %w", ErrInvalidConfig, err))
		}
	}

	switch c.Kafka.Broker.Creds.Mechanism {
	case SASLMechanismNone, SASLMechanismPlain, SASLMechanismSCRAMSHA256, SASLMechanismSCRAMSHA512:
	case SASLMechanismAWSMSKIAM:
		if c.Kafka.Broker.Creds.Region == "" {
			errs = append(errs, fmt.Errorf("%w: kafka.broker.creds.region is required with %s", ErrInvalidConfig, SASLMechanismAWSMSKIAM))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: unsupported sasl mechanism %q", ErrInvalidConfig, c.Kafka.Broker.Creds.Mechanism))
	}

	if c.S3.Enabled() && c.S3.Region == "" {
		errs = append(errs, fmt.Errorf("%w: s3.region is required with s3.bucket", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

func setDefault() {
	viper.SetDefault("logs.level", 4)
	viper.SetDefault("logs.encoder", EncoderTypeConsole)
	viper.SetDefault("logs.name", "ccx-deadletter")
	viper.SetDefault("logs.reportCaller", true)
	viper.SetDefault("gracefulDuration", "8s")
	viper.SetDefault("metrics.port", 7777)
	viper.SetDefault("kafka.broker.version", "3.6.0")
	viper.SetDefault("deadLetter.format", "protobuf")
	viper.SetDefault("deadLetter.description", "ccx-deadletter")
	viper.SetDefault("deadLetter.dedupTTL", "168h")
	viper.SetDefault("retry.maxAttempt", 5)
	viper.SetDefault("retry.delay", "200ms")
	viper.SetDefault("retry.maxDelay", "5s")
}
