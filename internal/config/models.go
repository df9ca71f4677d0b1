package config

import "time"

type Config struct {
	GracefulDuration time.Duration
	Metrics          Metrics
	Logs             Logs
	Kafka            Kafka
	DeadLetter       DeadLetter
	Validation       Validation
	Retry            Retry
	Valkey           Valkey
	S3               S3
}

type Metrics struct {
	Port int
}

type Logs struct {
	Level        int
	Encoder      EncoderType
	Name         string
	ReportCaller bool
}

type EncoderType string

const (
	EncoderTypeJson    EncoderType = "json"
	EncoderTypeConsole EncoderType = "console"
)

// S3 is the archive of the dead letters. Archiving is disabled when Bucket is empty.
type S3 struct {
	Bucket       string
	KeyPrefix    string
	BaseEndpoint string
	Region       string
	UsePathStyle bool
	Creds        AWSCreds
}

func (s S3) Enabled() bool {
	return s.Bucket != ""
}

type AWSCreds struct {
	AccessKeyID     string
	SecretAccessKey string
}

func (c AWSCreds) String() string {
	if c.AccessKeyID != "" && c.SecretAccessKey != "" {
		return "creds set"
	}

	return "no creds"
}

type Kafka struct {
	Broker   KafkaBroker
	Consumer KafkaConsumer
	Producer KafkaProducer
}

type KafkaBroker struct {
	URLs    string
	Version string
	TLS     bool
	Creds   KafkaCreds
}

type SASLMechanism string

const (
	SASLMechanismNone        SASLMechanism = ""
	SASLMechanismPlain       SASLMechanism = "PLAIN"
	SASLMechanismSCRAMSHA256 SASLMechanism = "SCRAM-SHA-256"
	SASLMechanismSCRAMSHA512 SASLMechanism = "SCRAM-SHA-512"
	// SASLMechanismAWSMSKIAM signs OAUTHBEARER tokens with the default AWS credentials chain
	SASLMechanismAWSMSKIAM SASLMechanism = "AWS_MSK_IAM"
)

type KafkaCreds struct {
	Mechanism SASLMechanism
	Username  string
	Password  string
	// Region is only used by AWS_MSK_IAM
	Region string
}

func (c KafkaCreds) String() string {
	switch c.Mechanism {
	case SASLMechanismNone:
		return "no sasl"
	case SASLMechanismAWSMSKIAM:
		return string(c.Mechanism) + " region " + c.Region
	}

	if c.Password != "" {
		return string(c.Mechanism) + " user " + c.Username + " password set"
	}

	return string(c.Mechanism) + " user " + c.Username + " no password"
}

type KafkaConsumer struct {
	Topic string
	Group string
}

// KafkaProducer is the output of the validated events.
type KafkaProducer struct {
	Topic string
}

// DeadLetter configures the error topic.
// SchemaID 0 disables the schema registry framing.
type DeadLetter struct {
	Topic       string
	Format      string
	Description string
	SchemaID    uint32
	DedupTTL    time.Duration
}

type Validation struct {
	// RequiredFields maps an event name to the payload keys it must carry.
	RequiredFields map[string][]string
	// TimestampField is checked as a RFC3339 date when not empty.
	TimestampField string
}

type Retry struct {
	MaxAttempt uint
	Delay      time.Duration
	// MaxDelay enables the exponential backoff when set
	MaxDelay time.Duration
}

type Valkey struct {
	URL   string
	DB    int
	Creds ValkeyCreds
}

// Enabled reports whether dead letters are deduplicated.
func (v Valkey) Enabled() bool {
	return v.URL != ""
}

type ValkeyCreds struct {
	Username string
	Password string
}

func (c ValkeyCreds) String() string {
	if c.Password != "" && c.Username != "" {
		return "user " + c.Username + ", password set"
	}

	if c.Password != "" {
		return "password set"
	}

	return "no password"
}
