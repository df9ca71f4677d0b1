package factory

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go/logging"
	"github.com/go-logr/logr"

	"github.com/openshift-assisted/ccx-deadletter/internal/config"
	"github.com/openshift-assisted/ccx-deadletter/internal/log"
)

// CreateS3Client builds the dead letter archive client.
// Static credentials are used when configured, the default AWS chain otherwise.
// The SDK does not retry: failures are classified and retried by the error pipeline.
func CreateS3Client(ctx context.Context, conf config.S3) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(conf.Region),
		awsconfig.WithLogger(AWSLogger{logger: log.Logger().WithName("aws")}),
		awsconfig.WithRetryer(func() aws.Retryer {
			return aws.NopRetryer{}
		}),
	}

	if conf.Creds.AccessKeyID != "" {
		provider := credentials.NewStaticCredentialsProvider(conf.Creds.AccessKeyID, conf.Creds.SecretAccessKey, "")
		opts = append(opts, awsconfig.WithCredentialsProvider(provider))
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	ret := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.UsePathStyle = conf.UsePathStyle

		endpoint := baseEndpoint(conf.BaseEndpoint)
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return ret, nil
}

// baseEndpoint defaults the scheme to https.
func baseEndpoint(endpoint string) string {
	if endpoint == "" || strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}

	return "https://" + endpoint
}

// AWSLogger forwards SDK logs to logr: warnings at V(0), debug at V(3).
type AWSLogger struct {
	logger logr.Logger
}

func (a AWSLogger) Logf(classification logging.Classification, format string, v ...interface{}) {
	var level int

	switch classification {
	case logging.Warn:
		level = 0
	case logging.Debug:
		level = 3
	default:
		return
	}

	a.logger.V(level).Info(fmt.Sprintf(format, v...))
}
